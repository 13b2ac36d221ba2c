// Package engine implements the material recommendation scoring and the
// stock allocation transaction that turn a calculation result into a
// confirmed production order.
package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/Wgabrielq/pcp-enigma/internal/model"
)

// Scoring constants. Lower scores rank first.
const (
	// thicknessMismatchPenalty keeps any thickness mismatch ranked below
	// every exact-thickness candidate regardless of width.
	thicknessMismatchPenalty = 1000
	// thicknessDiffWeight scales the micron delta within the mismatch band.
	thicknessDiffWeight = 100
	// lastResortPenalty pushes candidates past the usability threshold to
	// the bottom of the list without excluding them.
	lastResortPenalty = 10000

	// noteToleranceRatio flags a thickness error worth warning about.
	noteToleranceRatio = 0.20
	// lastResortRatio is the thickness error beyond which a roll is
	// effectively unusable.
	lastResortRatio = 0.30
)

// Recommendation is one scored candidate roll for a layer.
type Recommendation struct {
	Material             model.Material
	IsExactThickness     bool
	ThicknessDiffMicrons float64
	WidthDiffMm          float64
	Score                float64
	Notes                []string
}

// Recommend filters and ranks inventory rolls for an ideal layer spec.
// Candidates must match the substrate type exactly, be at least as wide as
// the effective ideal width (a narrower roll can never be slit up to size),
// and have stock on hand. Ranking prefers exact thickness above everything,
// then the narrowest compatible roll (least over-purchase); candidates whose
// thickness error exceeds 30% are demoted to last resort. The sort is stable,
// so ties keep their inventory order.
func Recommend(spec model.LayerSpec, printWebWidthMm float64, inventory []model.Material) []Recommendation {
	requiredWidth := spec.EffectiveWidthMm(printWebWidthMm)

	var recs []Recommendation
	for _, m := range inventory {
		if m.Type != spec.Type || m.WidthMm < requiredWidth || m.CurrentStockKg <= 0 {
			continue
		}

		thicknessDiff := math.Abs(m.ThicknessMicrons - spec.ThicknessMicrons)
		widthDiff := m.WidthMm - requiredWidth
		exact := thicknessDiff == 0

		var errorRatio float64
		if spec.ThicknessMicrons > 0 {
			errorRatio = thicknessDiff / spec.ThicknessMicrons
		}

		var notes []string
		if !exact {
			notes = append(notes, fmt.Sprintf("thickness differs by %gμ", thicknessDiff))
			if errorRatio > noteToleranceRatio {
				notes = append(notes, "OUT OF THICKNESS TOLERANCE")
			}
		}
		if widthDiff > 0 {
			notes = append(notes, fmt.Sprintf("+%gmm of width", widthDiff))
		}

		score := widthDiff
		if !exact {
			score += thicknessMismatchPenalty + thicknessDiff*thicknessDiffWeight
		}
		if errorRatio > lastResortRatio {
			score += lastResortPenalty
		}

		recs = append(recs, Recommendation{
			Material:             m,
			IsExactThickness:     exact,
			ThicknessDiffMicrons: thicknessDiff,
			WidthDiffMm:          widthDiff,
			Score:                score,
			Notes:                notes,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score < recs[j].Score })
	return recs
}

// AutoSelect returns the material ID a layer should default to: the current
// user choice when one exists, otherwise the top-ranked candidate. It never
// overrides an operator's explicit selection.
func AutoSelect(currentID string, recs []Recommendation) string {
	if currentID != "" {
		return currentID
	}
	if len(recs) == 0 {
		return ""
	}
	return recs[0].Material.ID
}

// CheckInventory reports the layers of a recipe that have no compatible
// candidate at all. The returned errors are advisory: the operator can still
// inspect the numbers, but confirmation will be blocked by the missing
// selections.
func CheckInventory(r model.ProductRecipe, inventory []model.Material) []*model.NoCompatibleInventoryError {
	var warnings []*model.NoCompatibleInventoryError

	check := func(label string, spec *model.LayerSpec) {
		if spec == nil {
			return
		}
		if len(Recommend(*spec, r.WebWidthMm, inventory)) == 0 {
			warnings = append(warnings, &model.NoCompatibleInventoryError{Layer: label, Type: spec.Type})
		}
	}

	check(model.LayerPrint, &r.Layer1)
	check(model.LayerLam, r.Layer2)
	check(model.LayerSeal, r.Layer3)
	return warnings
}
