// Package store implements the keyed record store behind the planning
// engine: clients, suppliers, material rolls, product recipes, confirmed
// orders and plant configuration, persisted together as a single JSON
// database file.
package store

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/Wgabrielq/pcp-enigma/internal/model"
)

// Database is the on-disk shape of the whole record store.
type Database struct {
	Clients   []model.Client          `json:"clients"`
	Suppliers []model.Supplier        `json:"suppliers"`
	Materials []model.Material        `json:"materials"`
	Products  []model.ProductRecipe   `json:"products"`
	Orders    []model.ProductionOrder `json:"orders"`
	Config    model.PlantConfig       `json:"config"`

	// OrderSeq is the monotonic order-code sequence. It only ever grows, so
	// deleting orders can never cause a code to be reused.
	OrderSeq     int    `json:"order_seq"`
	LastModified string `json:"last_modified,omitempty"`
}

// Store is an in-memory view over the database file. Mutations apply to
// memory; Save writes everything back in one shot, which lets a caller treat
// an order confirmation (several deductions plus the order itself) as a
// single durable write.
type Store struct {
	path string
	db   Database
}

// DefaultPath returns the default database location, ~/.pcp-enigma/database.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".pcp-enigma", "database.json"), nil
}

// Open reads the database at path. A missing file yields an empty database
// with default plant config. Loaded data is normalized: older recipes get a
// valid print layer, the density table is completed, and the order sequence
// is migrated from databases that predate it.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.db = Database{Config: model.DefaultPlantConfig()}
			return s, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &s.db); err != nil {
		return nil, fmt.Errorf("corrupt database %s: %w", path, err)
	}
	s.db = normalize(s.db)
	return s, nil
}

// Save writes the database back to its file, creating parent directories as
// needed.
func (s *Store) Save() error {
	s.db.LastModified = time.Now().UTC().Format(time.RFC3339)
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.db, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// Path returns the file this store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// normalize repairs data loaded from older database files.
func normalize(db Database) Database {
	// A config with every scrap parameter at zero means the file predates the
	// config block entirely; start from factory settings instead.
	if db.Config.FixedStartupMeters == 0 && db.Config.ReprintMeters == 0 &&
		db.Config.Lamination1Meters == 0 && db.Config.VariableScrapPercent == 0 {
		db.Config = model.DefaultPlantConfig()
	}
	db.Config = db.Config.Normalize()
	for i := range db.Products {
		p := &db.Products[i]
		if p.Layer1.Type == "" || p.Layer1.ThicknessMicrons <= 0 {
			p.Layer1 = model.LayerSpec{
				Type:             model.TypeBOPP,
				ThicknessMicrons: 20,
				WidthMm:          p.WebWidthMm + 20,
			}
		}
	}
	// Databases written before the sequence existed derived codes from the
	// order count; seed the sequence so new codes continue past them.
	if db.OrderSeq == 0 && len(db.Orders) > 0 {
		db.OrderSeq = len(db.Orders)
	}
	return db
}

/* Clients */

// Clients returns a copy of all client records.
func (s *Store) Clients() []model.Client {
	out := make([]model.Client, len(s.db.Clients))
	copy(out, s.db.Clients)
	return out
}

// FindClient returns the client with the given ID, or nil.
func (s *Store) FindClient(id string) *model.Client {
	for i := range s.db.Clients {
		if s.db.Clients[i].ID == id {
			c := s.db.Clients[i]
			return &c
		}
	}
	return nil
}

// SaveClient inserts or replaces a client by ID.
func (s *Store) SaveClient(c model.Client) {
	for i := range s.db.Clients {
		if s.db.Clients[i].ID == c.ID {
			s.db.Clients[i] = c
			return
		}
	}
	s.db.Clients = append(s.db.Clients, c)
}

// DeleteClient removes a client by ID. Past orders keep their denormalized
// client name.
func (s *Store) DeleteClient(id string) {
	for i := range s.db.Clients {
		if s.db.Clients[i].ID == id {
			s.db.Clients = append(s.db.Clients[:i], s.db.Clients[i+1:]...)
			return
		}
	}
}

/* Suppliers */

// Suppliers returns a copy of all supplier records.
func (s *Store) Suppliers() []model.Supplier {
	out := make([]model.Supplier, len(s.db.Suppliers))
	copy(out, s.db.Suppliers)
	return out
}

// SaveSupplier inserts or replaces a supplier by ID.
func (s *Store) SaveSupplier(sup model.Supplier) {
	for i := range s.db.Suppliers {
		if s.db.Suppliers[i].ID == sup.ID {
			s.db.Suppliers[i] = sup
			return
		}
	}
	s.db.Suppliers = append(s.db.Suppliers, sup)
}

// DeleteSupplier removes a supplier by ID.
func (s *Store) DeleteSupplier(id string) {
	for i := range s.db.Suppliers {
		if s.db.Suppliers[i].ID == id {
			s.db.Suppliers = append(s.db.Suppliers[:i], s.db.Suppliers[i+1:]...)
			return
		}
	}
}

/* Materials */

// Materials returns a copy of the inventory snapshot.
func (s *Store) Materials() []model.Material {
	out := make([]model.Material, len(s.db.Materials))
	copy(out, s.db.Materials)
	return out
}

// FindMaterial returns the material with the given ID, or nil.
func (s *Store) FindMaterial(id string) *model.Material {
	for i := range s.db.Materials {
		if s.db.Materials[i].ID == id {
			m := s.db.Materials[i]
			return &m
		}
	}
	return nil
}

// FindMaterialByCode returns the material with the given internal code, or nil.
func (s *Store) FindMaterialByCode(internalCode string) *model.Material {
	for i := range s.db.Materials {
		if s.db.Materials[i].InternalCode == internalCode {
			m := s.db.Materials[i]
			return &m
		}
	}
	return nil
}

// SaveMaterial inserts or replaces a material by ID.
func (s *Store) SaveMaterial(m model.Material) {
	for i := range s.db.Materials {
		if s.db.Materials[i].ID == m.ID {
			s.db.Materials[i] = m
			return
		}
	}
	s.db.Materials = append(s.db.Materials, m)
}

// DeleteMaterial removes a material by ID.
func (s *Store) DeleteMaterial(id string) {
	for i := range s.db.Materials {
		if s.db.Materials[i].ID == id {
			s.db.Materials = append(s.db.Materials[:i], s.db.Materials[i+1:]...)
			return
		}
	}
}

// DeductStock subtracts kg from a roll's stock, clamping at zero. This is the
// only way stock decreases, which keeps the stock >= 0 invariant in one
// place. Returns false when the material is unknown.
func (s *Store) DeductStock(id string, kg float64) bool {
	for i := range s.db.Materials {
		if s.db.Materials[i].ID == id {
			s.db.Materials[i].CurrentStockKg = math.Max(0, s.db.Materials[i].CurrentStockKg-kg)
			return true
		}
	}
	return false
}

/* Products */

// Products returns a copy of all product recipes.
func (s *Store) Products() []model.ProductRecipe {
	out := make([]model.ProductRecipe, len(s.db.Products))
	copy(out, s.db.Products)
	return out
}

// FindProduct returns the recipe with the given ID, or nil.
func (s *Store) FindProduct(id string) *model.ProductRecipe {
	for i := range s.db.Products {
		if s.db.Products[i].ID == id {
			p := s.db.Products[i]
			return &p
		}
	}
	return nil
}

// FindProductBySKU returns the first recipe with the given SKU, or nil.
func (s *Store) FindProductBySKU(sku string) *model.ProductRecipe {
	for i := range s.db.Products {
		if s.db.Products[i].SKU == sku {
			p := s.db.Products[i]
			return &p
		}
	}
	return nil
}

// SaveProduct inserts or replaces a recipe by ID.
func (s *Store) SaveProduct(p model.ProductRecipe) {
	for i := range s.db.Products {
		if s.db.Products[i].ID == p.ID {
			s.db.Products[i] = p
			return
		}
	}
	s.db.Products = append(s.db.Products, p)
}

// DeleteProduct removes a recipe by ID. Confirmed orders keep their snapshot.
func (s *Store) DeleteProduct(id string) {
	for i := range s.db.Products {
		if s.db.Products[i].ID == id {
			s.db.Products = append(s.db.Products[:i], s.db.Products[i+1:]...)
			return
		}
	}
}

/* Orders */

// Orders returns all orders sorted by queue position.
func (s *Store) Orders() []model.ProductionOrder {
	out := make([]model.ProductionOrder, len(s.db.Orders))
	copy(out, s.db.Orders)
	sort.SliceStable(out, func(i, j int) bool { return out[i].QueueIndex < out[j].QueueIndex })
	return out
}

// SaveOrder inserts or replaces an order by ID. New orders go to the end of
// the queue.
func (s *Store) SaveOrder(o model.ProductionOrder) {
	for i := range s.db.Orders {
		if s.db.Orders[i].ID == o.ID {
			s.db.Orders[i] = o
			return
		}
	}
	maxIndex := 0
	for _, existing := range s.db.Orders {
		if existing.QueueIndex > maxIndex {
			maxIndex = existing.QueueIndex
		}
	}
	o.QueueIndex = maxIndex + 1
	s.db.Orders = append(s.db.Orders, o)
}

// DeleteOrder removes an order by ID.
func (s *Store) DeleteOrder(id string) {
	for i := range s.db.Orders {
		if s.db.Orders[i].ID == id {
			s.db.Orders = append(s.db.Orders[:i], s.db.Orders[i+1:]...)
			return
		}
	}
}

// UpdateOrderStatus sets an order's status. Returns false when not found.
func (s *Store) UpdateOrderStatus(id string, status model.OrderStatus) bool {
	for i := range s.db.Orders {
		if s.db.Orders[i].ID == id {
			s.db.Orders[i].Status = status
			return true
		}
	}
	return false
}

// UpdateOrderStage sets an order's current workflow stage. Returns false when
// not found.
func (s *Store) UpdateOrderStage(id, stage string) bool {
	for i := range s.db.Orders {
		if s.db.Orders[i].ID == id {
			s.db.Orders[i].CurrentStage = stage
			return true
		}
	}
	return false
}

// ReorderQueue rewrites queue positions to match the given ID order. Unknown
// IDs are ignored.
func (s *Store) ReorderQueue(ids []string) {
	for idx, id := range ids {
		for i := range s.db.Orders {
			if s.db.Orders[i].ID == id {
				s.db.Orders[i].QueueIndex = idx
				break
			}
		}
	}
}

// NextOrderCode advances the persisted sequence and returns the next
// human-readable order code (OP-1001, OP-1002, ...).
func (s *Store) NextOrderCode() string {
	s.db.OrderSeq++
	return fmt.Sprintf("OP-%d", 1000+s.db.OrderSeq)
}

/* Config */

// Config returns the plant configuration.
func (s *Store) Config() model.PlantConfig {
	return s.db.Config
}

// UpdateConfig replaces the plant configuration, normalizing it first.
func (s *Store) UpdateConfig(cfg model.PlantConfig) {
	s.db.Config = cfg.Normalize()
}
