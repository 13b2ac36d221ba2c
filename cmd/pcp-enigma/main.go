// Command pcp-enigma is the production planning CLI for flexible packaging:
// it computes material requirements from product recipes, recommends and
// allocates rolls from inventory, confirms production orders and keeps the
// inventory in sync with the Zeta ERP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Wgabrielq/pcp-enigma/internal/engine"
	"github.com/Wgabrielq/pcp-enigma/internal/export"
	"github.com/Wgabrielq/pcp-enigma/internal/importer"
	"github.com/Wgabrielq/pcp-enigma/internal/model"
	"github.com/Wgabrielq/pcp-enigma/internal/store"
	"github.com/Wgabrielq/pcp-enigma/internal/zeta"
)

const usage = `Usage: pcp-enigma <command> [flags]

Commands:
  calc       Compute production requirements for a product
  confirm    Confirm a production order and deduct stock
  orders     List the production queue
  sync       Synchronize inventory stock with the Zeta ERP
  import     Import material rolls from a CSV or Excel file
  export     Export the whole database as an Excel workbook
  order-pdf  Generate the printable order sheet for a confirmed order
  backup     Write a full database backup
  restore    Replace the database from a backup file

Run 'pcp-enigma <command> -h' for command flags.`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "calc":
		err = runCalc(os.Args[2:])
	case "confirm":
		err = runConfirm(os.Args[2:])
	case "orders":
		err = runOrders(os.Args[2:])
	case "sync":
		err = runSync(os.Args[2:])
	case "import":
		err = runImport(os.Args[2:])
	case "export":
		err = runExport(os.Args[2:])
	case "order-pdf":
		err = runOrderPDF(os.Args[2:])
	case "backup":
		err = runBackup(os.Args[2:])
	case "restore":
		err = runRestore(os.Args[2:])
	case "-h", "--help", "help":
		fmt.Println(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s\n", os.Args[1], usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// dbFlag registers the shared -db flag on a command's flag set.
func dbFlag(fs *flag.FlagSet) *string {
	return fs.String("db", "", "Path to the database file (default ~/.pcp-enigma/database.json)")
}

func openStore(path string) (*store.Store, error) {
	if path == "" {
		var err error
		path, err = store.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return store.Open(path)
}

// findProduct resolves a product by SKU, falling back to ID.
func findProduct(s *store.Store, key string) (*model.ProductRecipe, error) {
	if p := s.FindProductBySKU(key); p != nil {
		return p, nil
	}
	if p := s.FindProduct(key); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("product %q not found", key)
}

func parseUnit(s string) (model.OrderUnit, error) {
	switch strings.ToUpper(s) {
	case "UNITS", "UNIT", "U":
		return model.UnitCount, nil
	case "KILOS", "KG", "K":
		return model.UnitWeight, nil
	case "METERS", "M":
		return model.UnitLength, nil
	}
	return "", fmt.Errorf("unknown unit %q (use units, kg or meters)", s)
}

func runCalc(args []string) error {
	fs := flag.NewFlagSet("calc", flag.ExitOnError)
	db := dbFlag(fs)
	product := fs.String("product", "", "Product SKU or ID")
	qty := fs.Float64("qty", 0, "Quantity ordered")
	unit := fs.String("unit", "units", "Order unit: units, kg or meters")
	tolerance := fs.Float64("tolerance", 10, "Delivery tolerance percent")
	fs.Parse(args)

	if *product == "" || *qty <= 0 {
		return fmt.Errorf("calc requires -product and a positive -qty")
	}

	s, err := openStore(*db)
	if err != nil {
		return err
	}
	p, err := findProduct(s, *product)
	if err != nil {
		return err
	}
	orderUnit, err := parseUnit(*unit)
	if err != nil {
		return err
	}

	cfg := s.Config()
	result, err := model.CalculateProductionRequirements(*qty, *tolerance, orderUnit, *p, cfg, nil)
	if err != nil {
		return err
	}

	fmt.Printf("Product: %s (%s)\n", p.Name, p.SKU)
	fmt.Printf("Order:   %g %s, tolerance %g%%\n\n", *qty, orderUnit, *tolerance)
	fmt.Printf("Net meters:    %.0f\n", result.NetLinearMeters)
	fmt.Printf("Scrap meters:  %.0f (startup %.0f, reprint %.0f, lamination %.0f, variable %.0f)\n",
		result.ScrapMeters, result.ScrapBreakdown.Startup, result.ScrapBreakdown.Reprint,
		result.ScrapBreakdown.Lamination, result.ScrapBreakdown.Variable)
	fmt.Printf("Gross meters:  %.0f\n", result.GrossLinearMeters)
	fmt.Printf("Max meters:    %.0f (with tolerance)\n\n", result.MaxLinearMetersWithTolerance)
	fmt.Printf("Layer 1: %.2f Kg   Layer 2: %.2f Kg   Layer 3: %.2f Kg\n",
		result.Layer1Kg, result.Layer2Kg, result.Layer3Kg)
	fmt.Printf("Ink: %.2f Kg   Adhesive: %.2f Kg   Total: %.2f Kg\n\n",
		result.InkKg, result.AdhesiveKg, result.TotalWeightKg)

	printRecommendations(s, *p)
	return nil
}

// printRecommendations lists ranked inventory candidates per structural layer.
func printRecommendations(s *store.Store, p model.ProductRecipe) {
	inventory := s.Materials()
	layers := []struct {
		label string
		spec  *model.LayerSpec
	}{
		{model.LayerPrint, &p.Layer1},
		{model.LayerLam, p.Layer2},
		{model.LayerSeal, p.Layer3},
	}

	for _, layer := range layers {
		if layer.spec == nil {
			continue
		}
		fmt.Printf("%s (%s %gmic):\n", layer.label, layer.spec.Type, layer.spec.ThicknessMicrons)
		recs := engine.Recommend(*layer.spec, p.WebWidthMm, inventory)
		if len(recs) == 0 {
			fmt.Println("  no compatible rolls in stock")
			continue
		}
		for i, r := range recs {
			notes := ""
			if len(r.Notes) > 0 {
				notes = " [" + strings.Join(r.Notes, "; ") + "]"
			}
			fmt.Printf("  %d. %s (%s) %gmic x %gmm, %.1f Kg in stock%s\n",
				i+1, r.Material.Name, r.Material.InternalCode,
				r.Material.ThicknessMicrons, r.Material.WidthMm,
				r.Material.CurrentStockKg, notes)
		}
	}
}

func runConfirm(args []string) error {
	fs := flag.NewFlagSet("confirm", flag.ExitOnError)
	db := dbFlag(fs)
	product := fs.String("product", "", "Product SKU or ID")
	client := fs.String("client", "", "Client ID")
	qty := fs.Float64("qty", 0, "Quantity ordered")
	unit := fs.String("unit", "units", "Order unit: units, kg or meters")
	tolerance := fs.Float64("tolerance", 10, "Delivery tolerance percent")
	useTolerance := fs.Bool("use-tolerance", false, "Allocate for the tolerance maximum instead of gross meters")
	layer1 := fs.String("layer1", "", "Material ID for the print layer")
	layer2 := fs.String("layer2", "", "Material ID for the lamination layer")
	layer3 := fs.String("layer3", "", "Material ID for the sealant layer")
	sub1 := fs.String("sub1", "", "Substitute material ID for the print layer")
	sub2 := fs.String("sub2", "", "Substitute material ID for the lamination layer")
	sub3 := fs.String("sub3", "", "Substitute material ID for the sealant layer")
	notes := fs.String("notes", "", "Free-form order notes")
	fs.Parse(args)

	if *product == "" || *qty <= 0 {
		return fmt.Errorf("confirm requires -product and a positive -qty")
	}

	s, err := openStore(*db)
	if err != nil {
		return err
	}
	p, err := findProduct(s, *product)
	if err != nil {
		return err
	}
	orderUnit, err := parseUnit(*unit)
	if err != nil {
		return err
	}

	selections := map[string]string{}
	substitutes := map[string]string{}
	for key, val := range map[string]*string{
		model.KeyLayer1: layer1, model.KeyLayer2: layer2, model.KeyLayer3: layer3,
	} {
		if *val != "" {
			selections[key] = *val
		}
	}
	for key, val := range map[string]*string{
		model.KeyLayer1: sub1, model.KeyLayer2: sub2, model.KeyLayer3: sub3,
	} {
		if *val != "" {
			substitutes[key] = *val
		}
	}

	order, err := engine.ConfirmOrder(engine.ConfirmRequest{
		Product:          *p,
		ClientID:         *client,
		Quantity:         *qty,
		Unit:             orderUnit,
		TolerancePercent: *tolerance,
		UseTolerance:     *useTolerance,
		Selections:       selections,
		Substitutes:      substitutes,
		Notes:            *notes,
	}, s.Config(), s)
	if err != nil {
		return err
	}

	if err := s.Save(); err != nil {
		return fmt.Errorf("order computed but database save failed: %w", err)
	}

	fmt.Printf("Confirmed %s for %s\n", order.OrderCode, order.ProductName)
	fmt.Printf("Stages: %s\n", strings.Join(order.RequiredStages, " -> "))
	for _, req := range order.MaterialRequirements {
		marker := ""
		if req.IsSubstitute {
			marker = " (substitute)"
		}
		fmt.Printf("  %-22s %s: %.2f Kg%s\n", req.Layer, req.MaterialName, req.RequiredKg, marker)
	}
	return nil
}

func runOrders(args []string) error {
	fs := flag.NewFlagSet("orders", flag.ExitOnError)
	db := dbFlag(fs)
	fs.Parse(args)

	s, err := openStore(*db)
	if err != nil {
		return err
	}

	orders := s.Orders()
	if len(orders) == 0 {
		fmt.Println("No orders in the queue.")
		return nil
	}
	for _, o := range orders {
		stage := o.CurrentStage
		if stage == "" {
			stage = "Start"
		}
		fmt.Printf("%-9s %-10s %-14s %-20s %-24s %s\n",
			o.OrderCode, o.Date, o.Status, stage, o.ProductName, o.ClientName)
	}
	return nil
}

func runSync(args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	db := dbFlag(fs)
	fs.Parse(args)

	s, err := openStore(*db)
	if err != nil {
		return err
	}

	cfg := s.Config()
	result, err := zeta.Sync(context.Background(), cfg, zeta.NewClient(cfg.Zeta), s)
	if err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}

	fmt.Printf("Sync complete: %d rows fetched, %d matched, %d updated, %d added.\n",
		result.Fetched, result.Matched, result.Updated, result.Added)
	return nil
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	db := dbFlag(fs)
	file := fs.String("file", "", "CSV or Excel file with material rolls")
	fs.Parse(args)

	if *file == "" {
		return fmt.Errorf("import requires -file")
	}

	s, err := openStore(*db)
	if err != nil {
		return err
	}

	var result importer.ImportResult
	if strings.HasSuffix(strings.ToLower(*file), ".xlsx") {
		result = importer.ImportExcel(*file)
	} else {
		result = importer.ImportCSV(*file)
	}

	for _, w := range result.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	for _, e := range result.Errors {
		fmt.Printf("error: %s\n", e)
	}
	if len(result.Materials) == 0 {
		return fmt.Errorf("nothing imported")
	}

	// Rows matching an existing internal code update that roll in place.
	added, updated := 0, 0
	for _, m := range result.Materials {
		if m.InternalCode != "" {
			if existing := s.FindMaterialByCode(m.InternalCode); existing != nil {
				m.ID = existing.ID
				updated++
				s.SaveMaterial(m)
				continue
			}
		}
		added++
		s.SaveMaterial(m)
	}
	if err := s.Save(); err != nil {
		return err
	}

	fmt.Printf("Imported %d rolls (%d new, %d updated).\n", added+updated, added, updated)
	return nil
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	db := dbFlag(fs)
	out := fs.String("out", "pcp_enigma_db.xlsx", "Output workbook path")
	fs.Parse(args)

	s, err := openStore(*db)
	if err != nil {
		return err
	}

	err = export.ExportWorkbook(*out, export.WorkbookData{
		Orders:    s.Orders(),
		Clients:   s.Clients(),
		Suppliers: s.Suppliers(),
		Materials: s.Materials(),
		Products:  s.Products(),
	})
	if err != nil {
		return err
	}
	fmt.Printf("Workbook written to %s\n", *out)
	return nil
}

func runOrderPDF(args []string) error {
	fs := flag.NewFlagSet("order-pdf", flag.ExitOnError)
	db := dbFlag(fs)
	code := fs.String("code", "", "Order code (e.g. OP-1001)")
	out := fs.String("out", "", "Output PDF path (default <code>.pdf)")
	fs.Parse(args)

	if *code == "" {
		return fmt.Errorf("order-pdf requires -code")
	}

	s, err := openStore(*db)
	if err != nil {
		return err
	}

	for _, o := range s.Orders() {
		if o.OrderCode == *code || o.ID == *code {
			path := *out
			if path == "" {
				path = o.OrderCode + ".pdf"
			}
			if err := export.ExportOrderPDF(path, o); err != nil {
				return err
			}
			fmt.Printf("Order sheet written to %s\n", path)
			return nil
		}
	}
	return fmt.Errorf("order %q not found", *code)
}

func runBackup(args []string) error {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	db := dbFlag(fs)
	out := fs.String("out", "pcp_backup.json", "Backup file path")
	fs.Parse(args)

	s, err := openStore(*db)
	if err != nil {
		return err
	}
	if err := s.ExportAllData(*out); err != nil {
		return err
	}
	fmt.Printf("Backup written to %s\n", *out)
	return nil
}

func runRestore(args []string) error {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	db := dbFlag(fs)
	in := fs.String("in", "", "Backup file to restore from")
	fs.Parse(args)

	if *in == "" {
		return fmt.Errorf("restore requires -in")
	}

	s, err := openStore(*db)
	if err != nil {
		return err
	}
	if err := s.ImportAllData(*in); err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}
	fmt.Printf("Database restored from %s\n", *in)
	return nil
}
