package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Wgabrielq/pcp-enigma/internal/model"
	"github.com/xuri/excelize/v2"
)

// buildWorkbookData creates a small but realistic database snapshot.
func buildWorkbookData() WorkbookData {
	scrap := 0.08
	return WorkbookData{
		Orders: []model.ProductionOrder{
			{
				ID: "o1", OrderCode: "OP-1001", Date: "2025-03-10",
				ClientName: "Acme Foods", ProductName: "Snack Reel",
				Status: model.StatusPending, QuantityRequested: 1000, Unit: model.UnitCount,
				CalculationSnapshot: model.CalculationResult{
					GrossLinearMeters: 579, TotalWeightKg: 12.5,
				},
				RequiredStages: []string{model.StagePrinting, model.StageSlitting},
			},
		},
		Clients: []model.Client{
			{ID: "c1", Name: "Acme Foods", Contact: "Jane", Email: "jane@acme.test"},
		},
		Suppliers: []model.Supplier{
			{ID: "s1", Name: "Polo Films", Origin: "domestic"},
		},
		Materials: []model.Material{
			{
				ID: "m1", InternalCode: "RM-001", Name: "BOPP Crystal 20",
				Type: model.TypeBOPP, ThicknessMicrons: 20, DensityGCm3: 0.91,
				WidthMm: 450, CurrentStockKg: 1200,
			},
		},
		Products: []model.ProductRecipe{
			{
				ID: "p1", SKU: "SKU-1", Name: "Snack Reel", ClientID: "c1",
				Format: model.FormatReel, WebWidthMm: 400,
				Layer1:               model.LayerSpec{Type: model.TypeBOPP, ThicknessMicrons: 20},
				SpecificScrapPercent: &scrap,
			},
		},
	}
}

func TestExportWorkbook_CreatesAllSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.xlsx")

	if err := ExportWorkbook(path, buildWorkbookData()); err != nil {
		t.Fatalf("ExportWorkbook returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("cannot reopen workbook: %v", err)
	}
	defer f.Close()

	want := []string{SheetOrders, SheetClients, SheetSuppliers, SheetInventory, SheetRecipes}
	got := f.GetSheetList()
	if len(got) != len(want) {
		t.Fatalf("expected %d sheets, got %d: %v", len(want), len(got), got)
	}
	for _, name := range want {
		if idx, _ := f.GetSheetIndex(name); idx < 0 {
			t.Errorf("missing sheet %q", name)
		}
	}
}

func TestExportWorkbook_OrderRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.xlsx")

	if err := ExportWorkbook(path, buildWorkbookData()); err != nil {
		t.Fatalf("ExportWorkbook returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetOrders)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 order row, got %d rows", len(rows))
	}
	if rows[1][0] != "OP-1001" {
		t.Errorf("expected order code OP-1001, got %s", rows[1][0])
	}
	if rows[1][5] != "Start" {
		t.Errorf("expected stage placeholder Start, got %s", rows[1][5])
	}
	if rows[1][6] != "1000 UNITS" {
		t.Errorf("expected ordered quantity '1000 UNITS', got %s", rows[1][6])
	}
	if rows[1][9] != "Printing, Slitting" {
		t.Errorf("expected joined stages, got %s", rows[1][9])
	}
}

func TestExportWorkbook_RecipeRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.xlsx")

	if err := ExportWorkbook(path, buildWorkbookData()); err != nil {
		t.Fatalf("ExportWorkbook returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetRecipes)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 recipe row, got %d rows", len(rows))
	}
	if rows[1][2] != "Acme Foods" {
		t.Errorf("expected client name resolved, got %s", rows[1][2])
	}
	if rows[1][7] != "-" {
		t.Errorf("expected '-' for absent layer 2, got %s", rows[1][7])
	}
	if rows[1][9] != "8" {
		t.Errorf("expected scrap override 8, got %s", rows[1][9])
	}
}

func TestExportWorkbook_EmptyDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")

	if err := ExportWorkbook(path, WorkbookData{}); err != nil {
		t.Fatalf("ExportWorkbook should handle an empty database: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatal("workbook file was not created")
	}
}
