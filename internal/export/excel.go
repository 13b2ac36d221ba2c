// Package export provides functionality for exporting planning data to
// various file formats including Excel workbooks and QR-coded order sheets.
package export

import (
	"fmt"
	"strings"

	"github.com/Wgabrielq/pcp-enigma/internal/model"
	"github.com/xuri/excelize/v2"
)

// WorkbookData is everything that goes into a full database export.
type WorkbookData struct {
	Orders    []model.ProductionOrder
	Clients   []model.Client
	Suppliers []model.Supplier
	Materials []model.Material
	Products  []model.ProductRecipe
}

// Sheet names in the exported workbook.
const (
	SheetOrders    = "Production History"
	SheetClients   = "Clients"
	SheetSuppliers = "Suppliers"
	SheetInventory = "Inventory"
	SheetRecipes   = "Recipes"
)

// ExportWorkbook writes the whole database as a five-sheet Excel workbook:
// production history, clients, suppliers, inventory and recipes.
func ExportWorkbook(path string, data WorkbookData) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeOrdersSheet(f, data.Orders); err != nil {
		return err
	}
	if err := writeClientsSheet(f, data.Clients); err != nil {
		return err
	}
	if err := writeSuppliersSheet(f, data.Suppliers); err != nil {
		return err
	}
	if err := writeInventorySheet(f, data.Materials); err != nil {
		return err
	}
	if err := writeRecipesSheet(f, data.Products, data.Clients); err != nil {
		return err
	}

	// Drop the default sheet excelize creates.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// writeRows creates a sheet and fills it with a header row plus data rows.
func writeRows(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeOrdersSheet(f *excelize.File, orders []model.ProductionOrder) error {
	header := []interface{}{
		"Code", "Date", "Client", "Product", "Status", "Current Stage",
		"Ordered", "Gross Meters", "Total Weight (Kg)", "Stages",
	}
	rows := make([][]interface{}, 0, len(orders))
	for _, o := range orders {
		stage := o.CurrentStage
		if stage == "" {
			stage = "Start"
		}
		rows = append(rows, []interface{}{
			o.OrderCode,
			o.Date,
			o.ClientName,
			o.ProductName,
			string(o.Status),
			stage,
			fmt.Sprintf("%g %s", o.QuantityRequested, o.Unit),
			o.CalculationSnapshot.GrossLinearMeters,
			o.CalculationSnapshot.TotalWeightKg,
			strings.Join(o.RequiredStages, ", "),
		})
	}
	return writeRows(f, SheetOrders, header, rows)
}

func writeClientsSheet(f *excelize.File, clients []model.Client) error {
	header := []interface{}{"ID", "Name", "Contact", "Email", "Phone"}
	rows := make([][]interface{}, 0, len(clients))
	for _, c := range clients {
		rows = append(rows, []interface{}{c.ID, c.Name, c.Contact, c.Email, c.Phone})
	}
	return writeRows(f, SheetClients, header, rows)
}

func writeSuppliersSheet(f *excelize.File, suppliers []model.Supplier) error {
	header := []interface{}{"ID", "Name", "Contact", "Email", "Phone", "Origin"}
	rows := make([][]interface{}, 0, len(suppliers))
	for _, s := range suppliers {
		rows = append(rows, []interface{}{s.ID, s.Name, s.Contact, s.Email, s.Phone, s.Origin})
	}
	return writeRows(f, SheetSuppliers, header, rows)
}

func writeInventorySheet(f *excelize.File, materials []model.Material) error {
	header := []interface{}{
		"Code", "Name", "Supplier", "Type", "Thickness (mic)",
		"Density (g/cm3)", "Width (mm)", "Cost/Kg", "Stock (Kg)",
	}
	rows := make([][]interface{}, 0, len(materials))
	for _, m := range materials {
		rows = append(rows, []interface{}{
			m.InternalCode,
			m.Name,
			m.Supplier,
			string(m.Type),
			m.ThicknessMicrons,
			m.DensityGCm3,
			m.WidthMm,
			m.CostPerKg,
			m.CurrentStockKg,
		})
	}
	return writeRows(f, SheetInventory, header, rows)
}

func writeRecipesSheet(f *excelize.File, products []model.ProductRecipe, clients []model.Client) error {
	clientNames := make(map[string]string, len(clients))
	for _, c := range clients {
		clientNames[c.ID] = c.Name
	}

	header := []interface{}{
		"SKU", "Product", "Client", "Format", "Web Width (mm)",
		"Layer 1 Type", "Layer 1 Mic", "Layer 2 Type", "Layer 3 Type", "Scrap %",
	}
	rows := make([][]interface{}, 0, len(products))
	for _, p := range products {
		client := clientNames[p.ClientID]
		if client == "" {
			client = "N/A"
		}
		layerType := func(l *model.LayerSpec) string {
			if l == nil {
				return "-"
			}
			return string(l.Type)
		}
		scrap := "Default"
		if p.SpecificScrapPercent != nil {
			scrap = fmt.Sprintf("%g", *p.SpecificScrapPercent*100)
		}
		rows = append(rows, []interface{}{
			p.SKU,
			p.Name,
			client,
			string(p.Format),
			p.WebWidthMm,
			string(p.Layer1.Type),
			p.Layer1.ThicknessMicrons,
			layerType(p.Layer2),
			layerType(p.Layer3),
			scrap,
		})
	}
	return writeRows(f, SheetRecipes, header, rows)
}
