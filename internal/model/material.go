package model

import "github.com/google/uuid"

// MaterialType identifies a substrate family. The string values double as the
// persisted representation and the display name.
type MaterialType string

const (
	TypeBOPP          MaterialType = "BOPP"
	TypeBOPPMate      MaterialType = "BOPP MATE"
	TypeBOPPMetalized MaterialType = "BOPP METALIZED"
	TypeBOPPDT        MaterialType = "BOPP DT"
	TypeBOPPPearl     MaterialType = "BOPP PEARL"
	TypeBOPPWhite     MaterialType = "BOPP WHITE"
	TypePET           MaterialType = "PET"
	TypePETDT         MaterialType = "PET DT"
	TypePETPVDC       MaterialType = "PET PVDC"
	TypePETMetalized  MaterialType = "PET METALIZED"
	TypePE            MaterialType = "PE"
	TypePEWhite       MaterialType = "PE WHITE"
	TypeCPP           MaterialType = "CPP"
	TypeBOPA          MaterialType = "BOPA"
	TypePaper         MaterialType = "PAPER"
	TypeFoil          MaterialType = "FOIL"
)

// AllMaterialTypes lists every known substrate family, in display order.
var AllMaterialTypes = []MaterialType{
	TypeBOPP, TypeBOPPMate, TypeBOPPMetalized, TypeBOPPDT, TypeBOPPPearl,
	TypeBOPPWhite, TypePET, TypePETDT, TypePETPVDC, TypePETMetalized,
	TypePE, TypePEWhite, TypeCPP, TypeBOPA, TypePaper, TypeFoil,
}

// IsReprint reports whether the type requires a second printing pass (DT),
// which adds fixed reprint scrap and a Reprint workflow stage.
func (t MaterialType) IsReprint() bool {
	return t == TypeBOPPDT || t == TypePETDT
}

// DefaultDensities holds the built-in density (g/cm3) per substrate family,
// used when neither the roll nor the plant config provides one.
var DefaultDensities = map[MaterialType]float64{
	TypeBOPP:          0.91,
	TypeBOPPMate:      0.91,
	TypeBOPPMetalized: 0.91,
	TypeBOPPDT:        0.91,
	TypeBOPPPearl:     0.70, // cavitated film is lighter
	TypeBOPPWhite:     0.95, // pigmented
	TypePET:           1.40,
	TypePETDT:         1.40,
	TypePETPVDC:       1.45,
	TypePETMetalized:  1.40,
	TypePE:            0.92,
	TypePEWhite:       1.00, // white pigment raises density
	TypeCPP:           0.90,
	TypeBOPA:          1.15,
	TypePaper:         1.00,
	TypeFoil:          2.70,
}

// fallbackDensity is the last resort when a type is unknown everywhere.
const fallbackDensity = 0.91

// Material is a concrete physical roll (or SKU) in inventory. Width and
// thickness are the as-stocked dimensions and may differ from a recipe's
// ideal layer spec.
type Material struct {
	ID               string       `json:"id"`
	InternalCode     string       `json:"internal_code"`
	Name             string       `json:"name"`
	Supplier         string       `json:"supplier,omitempty"`
	Type             MaterialType `json:"type"`
	ThicknessMicrons float64      `json:"thickness_microns"`
	DensityGCm3      float64      `json:"density_g_cm3"`
	WidthMm          float64      `json:"width_mm"`
	CostPerKg        float64      `json:"cost_per_kg,omitempty"`
	CurrentStockKg   float64      `json:"current_stock_kg"`
	ExternalID       string       `json:"external_id,omitempty"`
}

// NewMaterial creates a Material with a generated ID.
func NewMaterial(internalCode, name string, t MaterialType, thicknessMicrons, densityGCm3, widthMm float64) Material {
	return Material{
		ID:               uuid.New().String()[:8],
		InternalCode:     internalCode,
		Name:             name,
		Type:             t,
		ThicknessMicrons: thicknessMicrons,
		DensityGCm3:      densityGCm3,
		WidthMm:          widthMm,
	}
}

// ResolveDensity resolves the density (g/cm3) for a weight computation.
// Resolution order: the roll's own density, the configured per-type table,
// the built-in default table, then a literal 0.91. Every weight conversion
// (theoretical, real, inverse) must go through this single chain so they can
// never disagree on which density applies.
func ResolveDensity(m *Material, t MaterialType, cfg PlantConfig) float64 {
	if m != nil && m.DensityGCm3 > 0 {
		return m.DensityGCm3
	}
	if d, ok := cfg.MaterialDensities[t]; ok && d > 0 {
		return d
	}
	if d, ok := DefaultDensities[t]; ok && d > 0 {
		return d
	}
	return fallbackDensity
}
