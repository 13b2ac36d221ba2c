package engine

import (
	"github.com/Wgabrielq/pcp-enigma/internal/model"
)

// OrderStore is what order confirmation needs from the record store: the
// stock mutation entry point, record lookup, the order-code sequence and
// order persistence.
type OrderStore interface {
	StockStore
	FindMaterial(id string) *model.Material
	FindClient(id string) *model.Client
	NextOrderCode() string
	SaveOrder(order model.ProductionOrder)
}

// ConfirmRequest carries everything the operator chose for an order.
// Selections and Substitutes map layer keys (model.KeyLayer1..3) to material
// IDs.
type ConfirmRequest struct {
	Product          model.ProductRecipe
	ClientID         string
	Quantity         float64
	Unit             model.OrderUnit
	TolerancePercent float64
	UseTolerance     bool
	Selections       map[string]string
	Substitutes      map[string]string
	ScrapOverrides   *model.ScrapOverrides
	Notes            string
}

// layerPlan pairs a structural layer with its selection key and label.
type layerPlan struct {
	key   string
	label string
	spec  *model.LayerSpec
}

func layerPlans(r model.ProductRecipe) []layerPlan {
	return []layerPlan{
		{key: model.KeyLayer1, label: model.LayerPrint, spec: &r.Layer1},
		{key: model.KeyLayer2, label: model.LayerLam, spec: r.Layer2},
		{key: model.KeyLayer3, label: model.LayerSeal, spec: r.Layer3},
	}
}

// ConfirmOrder runs the full confirmation flow: compute requirements, verify
// every structurally required layer has a resolvable primary material,
// allocate stock layer by layer, derive the workflow stages, and persist the
// order with its immutable snapshots.
//
// The precheck happens before any deduction, so a MissingSelectionError
// leaves stock untouched and creates no order. Layers are then processed
// sequentially; there is no cross-layer rollback.
func ConfirmOrder(req ConfirmRequest, cfg model.PlantConfig, store OrderStore) (model.ProductionOrder, error) {
	result, err := model.CalculateProductionRequirements(
		req.Quantity, req.TolerancePercent, req.Unit, req.Product, cfg, req.ScrapOverrides)
	if err != nil {
		return model.ProductionOrder{}, err
	}

	plans := layerPlans(req.Product)

	// Precheck: every present layer needs a primary material that exists.
	for _, p := range plans {
		if p.spec == nil {
			continue
		}
		id := req.Selections[p.key]
		if id == "" || store.FindMaterial(id) == nil {
			return model.ProductionOrder{}, &model.MissingSelectionError{Layer: p.label}
		}
	}

	metersRequired := result.GrossLinearMeters
	if req.UseTolerance {
		metersRequired = result.MaxLinearMetersWithTolerance
	}

	var requirements []model.MaterialRequirementSnapshot
	var materialNames []string
	for _, p := range plans {
		if p.spec == nil {
			continue
		}
		primary := store.FindMaterial(req.Selections[p.key])
		materialNames = append(materialNames, primary.Name)

		var substitute *model.Material
		if subID := req.Substitutes[p.key]; subID != "" {
			substitute = store.FindMaterial(subID)
		}

		rows := Allocate(p.label, metersRequired, *primary, substitute, cfg, store)
		requirements = append(requirements, rows...)
	}

	clientName := "Unknown"
	if c := store.FindClient(req.ClientID); c != nil {
		clientName = c.Name
	}

	order := model.NewProductionOrder(store.NextOrderCode())
	order.ProductID = req.Product.ID
	order.ProductName = req.Product.Name
	order.ClientID = req.ClientID
	order.ClientName = clientName
	order.QuantityRequested = req.Quantity
	order.Unit = req.Unit
	order.TolerancePercent = req.TolerancePercent
	order.CalculationSnapshot = result
	order.TechnicalDetails = model.TechnicalDetails{
		Format:           req.Product.Format,
		WebWidthMm:       req.Product.WebWidthMm,
		CylinderMm:       req.Product.CylinderMm,
		CutoffMm:         req.Product.CutoffMm,
		Tracks:           req.Product.Tracks,
		Layers:           materialNames,
		WindingDirection: req.Product.WindingDirection,
	}
	order.MaterialRequirements = requirements
	order.RequiredStages = model.RequiredStages(req.Product)
	order.Notes = req.Notes

	store.SaveOrder(order)
	return order, nil
}
