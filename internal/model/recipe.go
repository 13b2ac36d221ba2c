package model

import "github.com/google/uuid"

// ProductFormat distinguishes reel-delivered products from converted bags.
type ProductFormat string

const (
	FormatReel ProductFormat = "REEL"
	FormatBag  ProductFormat = "BAG"
)

// defaultWidthMarginMm is added to the print web width when a layer spec does
// not declare its own ideal width. The extra margin covers lamination
// registration and trim.
const defaultWidthMarginMm = 20.0

// LayerSpec is the ideal (recipe) definition of one film layer: what
// substrate the product calls for, not a specific roll in stock.
type LayerSpec struct {
	Type             MaterialType `json:"type"`
	ThicknessMicrons float64      `json:"thickness_microns"`
	WidthMm          float64      `json:"width_mm,omitempty"` // 0 = derive from print web width
}

// EffectiveWidthMm returns the ideal width for the layer. When the spec does
// not carry one, the rule is print web width + 20mm.
func (s LayerSpec) EffectiveWidthMm(printWebWidthMm float64) float64 {
	if s.WidthMm > 0 {
		return s.WidthMm
	}
	return printWebWidthMm + defaultWidthMarginMm
}

// ProductRecipe is the commercial and technical definition of a product:
// press geometry, the 1-3 layer structure, and consumable coverages.
// Layer2 and Layer3 are nil when the structure does not include them; their
// presence (not their values) drives scrap components, adhesive totals and
// workflow stages.
type ProductRecipe struct {
	ID       string        `json:"id"`
	SKU      string        `json:"sku"`
	Name     string        `json:"name"`
	ClientID string        `json:"client_id"`
	Format   ProductFormat `json:"format"`

	// SpecificScrapPercent overrides the plant-wide variable scrap ratio
	// for this product when set.
	SpecificScrapPercent *float64 `json:"specific_scrap_percent,omitempty"`

	// Press geometry.
	WebWidthMm float64 `json:"web_width_mm"` // printed web width
	Tracks     int     `json:"tracks"`       // parallel finished-good lanes
	CylinderMm float64 `json:"cylinder_mm"`  // cylinder development
	CutoffMm   float64 `json:"cutoff_mm"`    // repeat length per unit

	// Reel-specific.
	WindingDirection string  `json:"winding_direction,omitempty"`
	FinalReelWidthMm float64 `json:"final_reel_width_mm,omitempty"`

	// Bag-specific.
	BagWidthMm  float64 `json:"bag_width_mm,omitempty"`
	BagHeightMm float64 `json:"bag_height_mm,omitempty"`
	GussetMm    float64 `json:"gusset_mm,omitempty"`

	// Structure. Layer1 is the print layer and always present.
	Layer1 LayerSpec  `json:"layer1"`
	Layer2 *LayerSpec `json:"layer2,omitempty"` // lamination / barrier
	Layer3 *LayerSpec `json:"layer3,omitempty"` // sealant

	// Consumables.
	InkCoverageGM2      float64 `json:"ink_coverage_g_m2"`
	AdhesiveCoverageGM2 float64 `json:"adhesive_coverage_g_m2"`
}

// NewProductRecipe creates a recipe with a generated ID.
func NewProductRecipe(sku, name, clientID string, format ProductFormat) ProductRecipe {
	return ProductRecipe{
		ID:       uuid.New().String()[:8],
		SKU:      sku,
		Name:     name,
		ClientID: clientID,
		Format:   format,
	}
}

// EffectiveTracks returns the track count clamped to at least 1, guarding
// every division by tracks.
func (r ProductRecipe) EffectiveTracks() int {
	if r.Tracks < 1 {
		return 1
	}
	return r.Tracks
}

// LayerCount returns how many layers the structure carries (1-3).
func (r ProductRecipe) LayerCount() int {
	n := 1
	if r.Layer2 != nil {
		n++
	}
	if r.Layer3 != nil {
		n++
	}
	return n
}

// Client is a customer record.
type Client struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Contact    string `json:"contact"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	ExternalID string `json:"external_id,omitempty"`
}

// NewClient creates a client with a generated ID.
func NewClient(name, contact string) Client {
	return Client{
		ID:      uuid.New().String()[:8],
		Name:    name,
		Contact: contact,
	}
}

// Supplier is a raw-material vendor record.
type Supplier struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Contact    string `json:"contact,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Origin     string `json:"origin,omitempty"` // domestic / imported
	ExternalID string `json:"external_id,omitempty"`
}

// NewSupplier creates a supplier with a generated ID.
func NewSupplier(name string) Supplier {
	return Supplier{
		ID:   uuid.New().String()[:8],
		Name: name,
	}
}
