package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Wgabrielq/pcp-enigma/internal/model"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "database.json"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return s
}

func TestOpenMissingFileCreatesDefault(t *testing.T) {
	s := tempStore(t)

	if len(s.Materials()) != 0 {
		t.Error("expected empty inventory")
	}
	cfg := s.Config()
	if cfg.FixedStartupMeters != 500 {
		t.Errorf("expected default startup scrap 500, got %f", cfg.FixedStartupMeters)
	}
	if cfg.MaterialDensities[model.TypePET] != 1.40 {
		t.Errorf("expected PET density 1.40, got %f", cfg.MaterialDensities[model.TypePET])
	}
}

func TestOpenInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	if err := os.WriteFile(path, []byte("{not json}"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(path); err == nil {
		t.Fatal("expected error for corrupt database")
	}
}

func TestSaveAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "database.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	m := model.NewMaterial("RM-001", "BOPP Crystal 20", model.TypeBOPP, 20, 0.91, 450)
	m.CurrentStockKg = 1200
	s.SaveMaterial(m)
	s.SaveClient(model.Client{ID: "c1", Name: "Acme Foods"})

	if err := s.Save(); err != nil {
		t.Fatalf("Save should create parent dirs: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	got := reopened.FindMaterial(m.ID)
	if got == nil {
		t.Fatal("material not persisted")
	}
	if got.CurrentStockKg != 1200 {
		t.Errorf("expected stock 1200, got %f", got.CurrentStockKg)
	}
	if reopened.FindClient("c1") == nil {
		t.Error("client not persisted")
	}
}

func TestSaveMaterialUpserts(t *testing.T) {
	s := tempStore(t)

	m := model.NewMaterial("RM-001", "BOPP Crystal 20", model.TypeBOPP, 20, 0.91, 450)
	s.SaveMaterial(m)
	m.CurrentStockKg = 750
	s.SaveMaterial(m)

	if len(s.Materials()) != 1 {
		t.Fatalf("expected 1 material, got %d", len(s.Materials()))
	}
	if got := s.FindMaterial(m.ID); got.CurrentStockKg != 750 {
		t.Errorf("expected updated stock 750, got %f", got.CurrentStockKg)
	}
}

func TestFindMaterialByCode(t *testing.T) {
	s := tempStore(t)

	m := model.NewMaterial("RM-0042", "PET 12", model.TypePET, 12, 1.40, 520)
	s.SaveMaterial(m)

	if got := s.FindMaterialByCode("RM-0042"); got == nil || got.ID != m.ID {
		t.Error("expected lookup by internal code to find the material")
	}
	if s.FindMaterialByCode("RM-9999") != nil {
		t.Error("expected nil for unknown code")
	}
}

func TestDeductStockClampsAtZero(t *testing.T) {
	s := tempStore(t)

	m := model.NewMaterial("RM-001", "BOPP Crystal 20", model.TypeBOPP, 20, 0.91, 450)
	m.CurrentStockKg = 100
	s.SaveMaterial(m)

	if !s.DeductStock(m.ID, 40) {
		t.Fatal("expected deduction to succeed")
	}
	if got := s.FindMaterial(m.ID).CurrentStockKg; got != 60 {
		t.Errorf("expected 60 Kg left, got %f", got)
	}

	if !s.DeductStock(m.ID, 500) {
		t.Fatal("expected overdraw deduction to succeed")
	}
	if got := s.FindMaterial(m.ID).CurrentStockKg; got != 0 {
		t.Errorf("expected stock clamped at 0, got %f", got)
	}

	if s.DeductStock("ghost", 10) {
		t.Error("expected false for unknown material")
	}
}

func TestDeleteEntities(t *testing.T) {
	s := tempStore(t)

	m := model.NewMaterial("RM-001", "BOPP", model.TypeBOPP, 20, 0.91, 450)
	s.SaveMaterial(m)
	s.SaveClient(model.Client{ID: "c1", Name: "Acme"})
	s.SaveSupplier(model.Supplier{ID: "sup1", Name: "Polo Films"})

	s.DeleteMaterial(m.ID)
	s.DeleteClient("c1")
	s.DeleteSupplier("sup1")

	if len(s.Materials()) != 0 || len(s.Clients()) != 0 || len(s.Suppliers()) != 0 {
		t.Error("expected all records removed")
	}

	// Deleting something unknown is a no-op.
	s.DeleteMaterial("ghost")
}

func TestNextOrderCodeSequence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := s.NextOrderCode(); got != "OP-1001" {
		t.Errorf("expected OP-1001, got %s", got)
	}
	if got := s.NextOrderCode(); got != "OP-1002" {
		t.Errorf("expected OP-1002, got %s", got)
	}

	if err := s.Save(); err != nil {
		t.Fatal(err)
	}
	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := reopened.NextOrderCode(); got != "OP-1003" {
		t.Errorf("sequence must survive reopen, got %s", got)
	}
}

func TestOrderCodeNotReusedAfterDelete(t *testing.T) {
	s := tempStore(t)

	o := model.NewProductionOrder(s.NextOrderCode())
	s.SaveOrder(o)
	s.DeleteOrder(o.ID)

	if got := s.NextOrderCode(); got != "OP-1002" {
		t.Errorf("expected OP-1002 after delete, got %s", got)
	}
}

func TestOrdersSortedByQueueIndex(t *testing.T) {
	s := tempStore(t)

	a := model.NewProductionOrder("OP-1001")
	b := model.NewProductionOrder("OP-1002")
	c := model.NewProductionOrder("OP-1003")
	s.SaveOrder(a)
	s.SaveOrder(b)
	s.SaveOrder(c)

	s.ReorderQueue([]string{c.ID, a.ID, b.ID})

	orders := s.Orders()
	if len(orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(orders))
	}
	if orders[0].ID != c.ID || orders[1].ID != a.ID || orders[2].ID != b.ID {
		t.Error("orders not sorted by queue position")
	}
}

func TestSaveOrderAppendsToQueue(t *testing.T) {
	s := tempStore(t)

	a := model.NewProductionOrder("OP-1001")
	b := model.NewProductionOrder("OP-1002")
	s.SaveOrder(a)
	s.SaveOrder(b)

	orders := s.Orders()
	if orders[1].QueueIndex <= orders[0].QueueIndex {
		t.Error("new orders must go to the end of the queue")
	}

	// Re-saving keeps the queue position.
	updated := orders[0]
	updated.Notes = "rush"
	s.SaveOrder(updated)
	if got := s.Orders()[0]; got.ID != updated.ID || got.Notes != "rush" {
		t.Error("re-save must update in place")
	}
}

func TestUpdateOrderStatusAndStage(t *testing.T) {
	s := tempStore(t)

	o := model.NewProductionOrder("OP-1001")
	s.SaveOrder(o)

	if !s.UpdateOrderStatus(o.ID, model.StatusInProduction) {
		t.Fatal("expected status update to succeed")
	}
	if !s.UpdateOrderStage(o.ID, model.StagePrinting) {
		t.Fatal("expected stage update to succeed")
	}

	got := s.Orders()[0]
	if got.Status != model.StatusInProduction {
		t.Errorf("expected status %s, got %s", model.StatusInProduction, got.Status)
	}
	if got.CurrentStage != model.StagePrinting {
		t.Errorf("expected stage %s, got %s", model.StagePrinting, got.CurrentStage)
	}

	if s.UpdateOrderStatus("ghost", model.StatusDone) {
		t.Error("expected false for unknown order")
	}
}

func TestUpdateConfigNormalizes(t *testing.T) {
	s := tempStore(t)

	s.UpdateConfig(model.PlantConfig{FixedStartupMeters: 800})

	cfg := s.Config()
	if cfg.FixedStartupMeters != 800 {
		t.Errorf("expected startup 800, got %f", cfg.FixedStartupMeters)
	}
	if cfg.MaterialDensities[model.TypeBOPP] != 0.91 {
		t.Error("normalization must fill missing densities")
	}
}

func TestOpenMigratesLegacyData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	legacy := []byte(`{
		"products": [{"id": "p1", "sku": "SKU-1", "web_width_mm": 400}],
		"orders": [
			{"id": "o1", "order_code": "OP-1", "queue_index": 0},
			{"id": "o2", "order_code": "OP-2", "queue_index": 1}
		]
	}`)
	if err := os.WriteFile(path, legacy, 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	p := s.FindProduct("p1")
	if p == nil {
		t.Fatal("product not loaded")
	}
	if p.Layer1.Type != model.TypeBOPP || p.Layer1.ThicknessMicrons != 20 {
		t.Errorf("expected default print layer BOPP 20mic, got %s %f",
			p.Layer1.Type, p.Layer1.ThicknessMicrons)
	}
	if p.Layer1.WidthMm != 420 {
		t.Errorf("expected default layer width 420, got %f", p.Layer1.WidthMm)
	}

	// Sequence seeded from the order count so the next code continues past
	// the legacy ones.
	if got := s.NextOrderCode(); got != "OP-1003" {
		t.Errorf("expected OP-1003, got %s", got)
	}
}

func TestProductLookups(t *testing.T) {
	s := tempStore(t)

	p := model.ProductRecipe{ID: "p1", SKU: "SKU-1", Name: "Snack Reel"}
	s.SaveProduct(p)

	if got := s.FindProductBySKU("SKU-1"); got == nil || got.ID != "p1" {
		t.Error("expected SKU lookup to find the recipe")
	}
	if s.FindProductBySKU("SKU-9") != nil {
		t.Error("expected nil for unknown SKU")
	}

	s.DeleteProduct("p1")
	if s.FindProduct("p1") != nil {
		t.Error("expected recipe removed")
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	s := tempStore(t)

	m := model.NewMaterial("RM-001", "BOPP", model.TypeBOPP, 20, 0.91, 450)
	m.CurrentStockKg = 100
	s.SaveMaterial(m)

	snapshot := s.Materials()
	snapshot[0].CurrentStockKg = 0

	if got := s.FindMaterial(m.ID).CurrentStockKg; got != 100 {
		t.Error("mutating a returned slice must not affect the store")
	}
}
