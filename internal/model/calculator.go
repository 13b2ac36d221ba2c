package model

import "math"

// OrderUnit is the unit an order quantity is expressed in.
type OrderUnit string

const (
	UnitCount  OrderUnit = "UNITS"
	UnitWeight OrderUnit = "KILOS"
	UnitLength OrderUnit = "METERS"
)

// ScrapBreakdown details total waste meters by cause. The four components
// always sum to the total scrap.
type ScrapBreakdown struct {
	Startup    float64 `json:"startup"`
	Reprint    float64 `json:"reprint"`
	Lamination float64 `json:"lamination"`
	Variable   float64 `json:"variable"`
}

// Total returns the summed scrap meters.
func (s ScrapBreakdown) Total() float64 {
	return s.Startup + s.Reprint + s.Lamination + s.Variable
}

// ScrapOverrides lets the operator replace any computed scrap component with
// a manual value. Each field is independent; overriding one leaves the
// computed defaults of the others intact.
type ScrapOverrides struct {
	Startup    *float64 `json:"startup,omitempty"`
	Reprint    *float64 `json:"reprint,omitempty"`
	Lamination *float64 `json:"lamination,omitempty"`
	Variable   *float64 `json:"variable,omitempty"`
}

// CalculationResult is the full production-requirements snapshot for one
// order intent. It is immutable once produced: a confirmed order stores it
// verbatim so later recipe or inventory edits never rewrite history.
type CalculationResult struct {
	NetLinearMeters              float64 `json:"net_linear_meters"`
	GrossLinearMeters            float64 `json:"gross_linear_meters"`
	MaxLinearMetersWithTolerance float64 `json:"max_linear_meters_with_tolerance"`
	ScrapMeters                  float64 `json:"scrap_meters"`
	ScrapBreakdown               ScrapBreakdown `json:"scrap_breakdown"`

	// Per-layer and consumable weights at gross meters.
	Layer1Kg   float64 `json:"layer1_kg"`
	Layer2Kg   float64 `json:"layer2_kg"`
	Layer3Kg   float64 `json:"layer3_kg"`
	InkKg      float64 `json:"ink_kg"`
	AdhesiveKg float64 `json:"adhesive_kg"`

	// The same weights at the tolerance ceiling.
	MaxLayer1Kg   float64 `json:"max_layer1_kg"`
	MaxLayer2Kg   float64 `json:"max_layer2_kg"`
	MaxLayer3Kg   float64 `json:"max_layer3_kg"`
	MaxInkKg      float64 `json:"max_ink_kg"`
	MaxAdhesiveKg float64 `json:"max_adhesive_kg"`

	TotalWeightKg float64 `json:"total_weight_kg"`
}

// round2 rounds to 2 decimals, the precision weights are reported at.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// TheoreticalWeightPerMeterKg returns the ideal recipe weight of one press
// meter: all layers at 1m, plus ink, plus adhesive counted once per
// lamination interface (layer count - 1).
func TheoreticalWeightPerMeterKg(r ProductRecipe, cfg PlantConfig) float64 {
	perMeter := TheoreticalWebWeightKg(r.WebWidthMm, 1, r.Layer1, cfg)
	if r.Layer2 != nil {
		perMeter += TheoreticalWebWeightKg(r.WebWidthMm, 1, *r.Layer2, cfg)
	}
	if r.Layer3 != nil {
		perMeter += TheoreticalWebWeightKg(r.WebWidthMm, 1, *r.Layer3, cfg)
	}

	widthM := r.WebWidthMm / 1000
	perMeter += widthM * r.InkCoverageGM2 / 1000
	if interfaces := r.LayerCount() - 1; interfaces > 0 {
		perMeter += float64(interfaces) * widthM * r.AdhesiveCoverageGM2 / 1000
	}
	return perMeter
}

// NormalizeToLinearMeters converts a requested order quantity into net press
// meters.
//
//   - METERS: the caller supplies finished meters; each press pass yields one
//     finished length per track, so press meters = quantity / tracks.
//   - UNITS: cutoff is the per-unit advance in mm, so
//     press meters = quantity * cutoff / (tracks * 1000).
//   - KILOS: invert the theoretical weight per meter of the full recipe.
func NormalizeToLinearMeters(quantity float64, unit OrderUnit, r ProductRecipe, cfg PlantConfig) (float64, error) {
	tracks := float64(r.EffectiveTracks())

	switch unit {
	case UnitLength:
		return quantity / tracks, nil
	case UnitCount:
		return quantity * r.CutoffMm / (tracks * 1000), nil
	case UnitWeight:
		perMeter := TheoreticalWeightPerMeterKg(r, cfg)
		if perMeter <= 0 {
			return 0, &InvalidRecipeError{SKU: r.SKU, Reason: "theoretical weight per meter is not positive"}
		}
		return quantity / perMeter, nil
	default:
		return 0, &InvalidRecipeError{SKU: r.SKU, Reason: "unknown order unit " + string(unit)}
	}
}

// ComputeScrap builds the scrap breakdown for a run of netMeters. Fixed
// components come from plant config and the recipe structure (reprint only
// for DT print layers, lamination meters per present extra layer); the
// variable component is a ceiling percentage of net meters. Any component the
// overrides carry replaces the computed default for that component only.
func ComputeScrap(netMeters float64, r ProductRecipe, cfg PlantConfig, overrides *ScrapOverrides) ScrapBreakdown {
	b := ScrapBreakdown{Startup: cfg.FixedStartupMeters}

	if r.Layer1.Type.IsReprint() {
		b.Reprint = cfg.ReprintMeters
	}
	if r.Layer2 != nil {
		b.Lamination += cfg.Lamination1Meters
	}
	if r.Layer3 != nil {
		b.Lamination += cfg.Lamination2Meters
	}

	scrapPercent := cfg.VariableScrapPercent
	if r.SpecificScrapPercent != nil {
		scrapPercent = *r.SpecificScrapPercent
	}
	b.Variable = math.Ceil(netMeters * scrapPercent)

	if overrides != nil {
		if overrides.Startup != nil {
			b.Startup = *overrides.Startup
		}
		if overrides.Reprint != nil {
			b.Reprint = *overrides.Reprint
		}
		if overrides.Lamination != nil {
			b.Lamination = *overrides.Lamination
		}
		if overrides.Variable != nil {
			b.Variable = *overrides.Variable
		}
	}
	return b
}

// insumsKg returns the ink and adhesive weight over the given meters.
// Consumable coverage applies to the printed web area; adhesive is counted
// once per present lamination layer.
func insumsKg(meters float64, r ProductRecipe) (ink, adhesive float64) {
	areaM2 := r.WebWidthMm / 1000 * meters
	ink = areaM2 * r.InkCoverageGM2 / 1000
	if r.Layer2 != nil {
		adhesive += areaM2 * r.AdhesiveCoverageGM2 / 1000
	}
	if r.Layer3 != nil {
		adhesive += areaM2 * r.AdhesiveCoverageGM2 / 1000
	}
	return ink, adhesive
}

// CalculateProductionRequirements runs the full quantity-to-requirements
// pipeline: unit normalization, scrap model, tolerance ceiling, and the
// per-layer weight explosion at both gross and max meters. It reads nothing
// but its arguments and mutates nothing: identical inputs always reproduce
// the identical result.
func CalculateProductionRequirements(quantity, tolerancePercent float64, unit OrderUnit, r ProductRecipe, cfg PlantConfig, overrides *ScrapOverrides) (CalculationResult, error) {
	netMeters, err := NormalizeToLinearMeters(quantity, unit, r, cfg)
	if err != nil {
		return CalculationResult{}, err
	}

	breakdown := ComputeScrap(netMeters, r, cfg, overrides)
	scrapMeters := breakdown.Total()
	grossMeters := math.Ceil(netMeters + scrapMeters)

	// Tolerance applies to net meters, then lands on top of gross.
	toleranceMeters := netMeters * tolerancePercent / 100
	maxMeters := math.Ceil(grossMeters + toleranceMeters)

	explode := func(meters float64) (l1, l2, l3 float64) {
		l1 = TheoreticalWebWeightKg(r.WebWidthMm, meters, r.Layer1, cfg)
		if r.Layer2 != nil {
			l2 = TheoreticalWebWeightKg(r.WebWidthMm, meters, *r.Layer2, cfg)
		}
		if r.Layer3 != nil {
			l3 = TheoreticalWebWeightKg(r.WebWidthMm, meters, *r.Layer3, cfg)
		}
		return l1, l2, l3
	}

	layer1, layer2, layer3 := explode(grossMeters)
	maxLayer1, maxLayer2, maxLayer3 := explode(maxMeters)
	ink, adhesive := insumsKg(grossMeters, r)
	maxInk, maxAdhesive := insumsKg(maxMeters, r)

	return CalculationResult{
		NetLinearMeters:              math.Ceil(netMeters),
		GrossLinearMeters:            grossMeters,
		MaxLinearMetersWithTolerance: maxMeters,
		ScrapMeters:                  scrapMeters,
		ScrapBreakdown:               breakdown,

		Layer1Kg:   round2(layer1),
		Layer2Kg:   round2(layer2),
		Layer3Kg:   round2(layer3),
		InkKg:      round2(ink),
		AdhesiveKg: round2(adhesive),

		MaxLayer1Kg:   round2(maxLayer1),
		MaxLayer2Kg:   round2(maxLayer2),
		MaxLayer3Kg:   round2(maxLayer3),
		MaxInkKg:      round2(maxInk),
		MaxAdhesiveKg: round2(maxAdhesive),

		TotalWeightKg: round2(layer1 + layer2 + layer3 + ink + adhesive),
	}, nil
}
