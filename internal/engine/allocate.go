package engine

import (
	"math"

	"github.com/Wgabrielq/pcp-enigma/internal/model"
)

// StockStore is the single mutation entry point for inventory. DeductStock
// clamps at zero; a roll's stock never goes negative. It returns false when
// the material ID is unknown.
type StockStore interface {
	DeductStock(materialID string, kg float64) bool
}

// round2 matches the precision requirement snapshots are recorded at.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Allocate consumes stock for one layer of an order and returns the
// requirement snapshot rows describing what was pulled.
//
// When the primary roll covers the requirement, or no substitute was
// selected, the full real weight is deducted from the primary. Without a
// substitute this is an explicit overdraw policy: the deduction clamps at
// zero and the snapshot records the full requirement, so the operator sees
// what must be covered by incoming stock.
//
// When the primary falls short and a substitute is selected, the primary is
// consumed entirely (its remaining stock converted back to meters), and the
// substitute covers the remaining meters at its own width/thickness/density.
// The substitute row is flagged and labeled as a complement of the primary.
// The primary row is skipped when its usable weight rounds to zero.
func Allocate(layerLabel string, metersRequired float64, primary model.Material, substitute *model.Material, cfg model.PlantConfig, store StockStore) []model.MaterialRequirementSnapshot {
	if metersRequired <= 0 {
		return nil
	}

	totalRealKg := model.RealMaterialWeightKg(metersRequired, primary, cfg)

	if primary.CurrentStockKg >= totalRealKg || substitute == nil {
		store.DeductStock(primary.ID, totalRealKg)
		return []model.MaterialRequirementSnapshot{{
			Layer:        layerLabel,
			MaterialName: primary.Name,
			InternalCode: primary.InternalCode,
			WidthMm:      primary.WidthMm,
			RequiredKg:   round2(totalRealKg),
		}}
	}

	// Shortfall: split the meters between the primary's remaining stock and
	// the substitute.
	metersFromPrimary := model.MetersFromRealWeight(primary.CurrentStockKg, primary, cfg)
	metersForSubstitute := metersRequired - metersFromPrimary

	primaryUsedKg := math.Max(0, primary.CurrentStockKg)
	substituteKg := model.RealMaterialWeightKg(metersForSubstitute, *substitute, cfg)

	var rows []model.MaterialRequirementSnapshot
	if primaryUsedKg > 0 {
		store.DeductStock(primary.ID, primaryUsedKg)
		rows = append(rows, model.MaterialRequirementSnapshot{
			Layer:        layerLabel,
			MaterialName: primary.Name,
			InternalCode: primary.InternalCode,
			WidthMm:      primary.WidthMm,
			RequiredKg:   round2(primaryUsedKg),
		})
	}

	store.DeductStock(substitute.ID, substituteKg)
	rows = append(rows, model.MaterialRequirementSnapshot{
		Layer:              model.ComplementLabel(layerLabel),
		MaterialName:       substitute.Name,
		InternalCode:       substitute.InternalCode,
		WidthMm:            substitute.WidthMm,
		RequiredKg:         round2(substituteKg),
		IsSubstitute:       true,
		OriginalMaterialID: primary.ID,
	})
	return rows
}
