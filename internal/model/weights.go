package model

// Weight conversions between linear meters on press and material kilograms.
// All three paths share the same base formula
//
//	Kg = width(m) * length(m) * thickness(microns) * density(g/cm3) / 1000
//
// and resolve density through ResolveDensity so they can never diverge.

// TheoreticalWebWeightKg computes the ideal weight of a layer from its recipe
// spec. When the spec carries no width the effective ideal width rule
// (print web width + 20mm) applies.
func TheoreticalWebWeightKg(printWebWidthMm, lengthMeters float64, spec LayerSpec, cfg PlantConfig) float64 {
	widthM := spec.EffectiveWidthMm(printWebWidthMm) / 1000
	density := ResolveDensity(nil, spec.Type, cfg)
	return widthM * lengthMeters * spec.ThicknessMicrons * density / 1000
}

// RealMaterialWeightKg computes the weight a specific inventory roll yields
// over the given meters, using the roll's as-stocked width, thickness and
// density.
func RealMaterialWeightKg(lengthMeters float64, m Material, cfg PlantConfig) float64 {
	widthM := m.WidthMm / 1000
	density := ResolveDensity(&m, m.Type, cfg)
	return widthM * lengthMeters * m.ThicknessMicrons * density / 1000
}

// MetersFromRealWeight is the algebraic inverse of RealMaterialWeightKg: how
// many meters a given stock weight of the roll can run. A roll with zero
// width or thickness makes the conversion undefined; the function returns 0
// so callers with incomplete inventory records degrade gracefully instead of
// failing.
func MetersFromRealWeight(kg float64, m Material, cfg PlantConfig) float64 {
	widthM := m.WidthMm / 1000
	density := ResolveDensity(&m, m.Type, cfg)
	denominator := widthM * m.ThicknessMicrons * density
	if denominator == 0 {
		return 0
	}
	return kg * 1000 / denominator
}
