package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus tracks an order through the production queue.
type OrderStatus string

const (
	StatusPending      OrderStatus = "PENDING"
	StatusInProduction OrderStatus = "IN_PRODUCTION"
	StatusDone         OrderStatus = "DONE"
)

// Workflow stage names, derived deterministically from the recipe structure.
const (
	StagePrinting      = "Printing"
	StageReprint       = "Reprint"
	StageLamination    = "Lamination"
	StageTrilamination = "Trilamination"
	StageSlitting      = "Slitting"
	StageBagMaking     = "Bag Making"
)

// Layer labels used on requirement snapshots and selection maps.
const (
	LayerPrint    = "Layer 1 (Print)"
	LayerLam      = "Layer 2 (Lam)"
	LayerSeal     = "Layer 3 (Seal)"
	KeyLayer1     = "layer1"
	KeyLayer2     = "layer2"
	KeyLayer3     = "layer3"
	complementTag = " (COMPLEMENT)"
)

// ComplementLabel marks the substitute row of a split allocation.
func ComplementLabel(layerLabel string) string {
	return layerLabel + complementTag
}

// MaterialRequirementSnapshot is one row of what the press floor must pull
// from stock for an order: which roll, how much of it, and whether it is a
// substitute covering a primary-roll shortfall.
type MaterialRequirementSnapshot struct {
	Layer              string  `json:"layer"`
	MaterialName       string  `json:"material_name"`
	InternalCode       string  `json:"internal_code"`
	WidthMm            float64 `json:"width_mm"`
	RequiredKg         float64 `json:"required_kg"`
	IsSubstitute       bool    `json:"is_substitute,omitempty"`
	OriginalMaterialID string  `json:"original_material_id,omitempty"`
}

// TechnicalDetails is the denormalized press setup an operator needs, frozen
// at confirmation time.
type TechnicalDetails struct {
	Format           ProductFormat `json:"format"`
	WebWidthMm       float64       `json:"web_width_mm"`
	CylinderMm       float64       `json:"cylinder_mm"`
	CutoffMm         float64       `json:"cutoff_mm"`
	Tracks           int           `json:"tracks"`
	Layers           []string      `json:"layers"` // material names, outer to inner
	WindingDirection string        `json:"winding_direction,omitempty"`
}

// ProductionOrder is a confirmed run. The calculation snapshot and material
// requirements are historical records: they keep the numbers the order was
// confirmed with even after recipes or inventory change.
type ProductionOrder struct {
	ID          string `json:"id"`
	OrderCode   string `json:"order_code"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	ClientID    string `json:"client_id,omitempty"`
	ClientName  string `json:"client_name"`
	Date        string `json:"date"`

	QuantityRequested float64   `json:"quantity_requested"`
	Unit              OrderUnit `json:"unit"`
	TolerancePercent  float64   `json:"tolerance_percent"`

	CalculationSnapshot  CalculationResult             `json:"calculation_snapshot"`
	TechnicalDetails     TechnicalDetails              `json:"technical_details"`
	MaterialRequirements []MaterialRequirementSnapshot `json:"material_requirements,omitempty"`

	RequiredStages []string    `json:"required_stages"`
	Status         OrderStatus `json:"status"`
	CurrentStage   string      `json:"current_stage,omitempty"`
	QueueIndex     int         `json:"queue_index"`
	Notes          string      `json:"notes,omitempty"`
}

// NewProductionOrder creates an order shell with a generated ID and today's
// date, status pending.
func NewProductionOrder(orderCode string) ProductionOrder {
	return ProductionOrder{
		ID:        "ord-" + uuid.New().String()[:8],
		OrderCode: orderCode,
		Date:      time.Now().Format("2006-01-02"),
		Status:    StatusPending,
	}
}

// RequiredStages derives the workflow stage list from the recipe structure.
// Printing always comes first; Reprint only for DT print layers; lamination
// stages only when the extra layers exist; slitting is always present; bag
// making only for bag-format products.
func RequiredStages(r ProductRecipe) []string {
	stages := []string{StagePrinting}
	if r.Layer1.Type.IsReprint() {
		stages = append(stages, StageReprint)
	}
	if r.Layer2 != nil {
		stages = append(stages, StageLamination)
	}
	if r.Layer3 != nil {
		stages = append(stages, StageTrilamination)
	}
	stages = append(stages, StageSlitting)
	if r.Format == FormatBag {
		stages = append(stages, StageBagMaking)
	}
	return stages
}
