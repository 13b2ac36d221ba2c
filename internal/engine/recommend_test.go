package engine

import (
	"testing"

	"github.com/Wgabrielq/pcp-enigma/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bopp(id string, thickness, width, stock float64) model.Material {
	return model.Material{
		ID:               id,
		InternalCode:     "IC-" + id,
		Name:             "BOPP " + id,
		Type:             model.TypeBOPP,
		ThicknessMicrons: thickness,
		DensityGCm3:      0.91,
		WidthMm:          width,
		CurrentStockKg:   stock,
	}
}

func TestRecommend_FilterRules(t *testing.T) {
	spec := model.LayerSpec{Type: model.TypeBOPP, ThicknessMicrons: 20}
	inventory := []model.Material{
		bopp("ok", 20, 450, 100),
		bopp("narrow", 20, 410, 100), // below the 420mm effective ideal width
		bopp("empty", 20, 450, 0),    // no stock
		{ID: "pet", Type: model.TypePET, ThicknessMicrons: 20, WidthMm: 450, CurrentStockKg: 100},
	}

	recs := Recommend(spec, 400, inventory)

	require.Len(t, recs, 1)
	assert.Equal(t, "ok", recs[0].Material.ID)
}

func TestRecommend_ScoringScenario(t *testing.T) {
	// webWidth 400 -> effective ideal width 420. A 450mm/20mic roll scores
	// 30 (exact thickness); a 450mm/25mic roll scores 1000+500+30=1530.
	spec := model.LayerSpec{Type: model.TypeBOPP, ThicknessMicrons: 20}
	inventory := []model.Material{
		bopp("thick", 25, 450, 100),
		bopp("exact", 20, 450, 100),
	}

	recs := Recommend(spec, 400, inventory)

	require.Len(t, recs, 2)
	assert.Equal(t, "exact", recs[0].Material.ID)
	assert.Equal(t, 30.0, recs[0].Score)
	assert.True(t, recs[0].IsExactThickness)

	assert.Equal(t, "thick", recs[1].Material.ID)
	assert.Equal(t, 1530.0, recs[1].Score)
	assert.Contains(t, recs[1].Notes, "thickness differs by 5μ")
}

func TestRecommend_WidthTieBreak(t *testing.T) {
	// Both exact thickness: the narrower roll (least over-purchase) first.
	spec := model.LayerSpec{Type: model.TypeBOPP, ThicknessMicrons: 20}
	inventory := []model.Material{
		bopp("wide", 20, 600, 100),
		bopp("narrow", 20, 430, 100),
	}

	recs := Recommend(spec, 400, inventory)

	require.Len(t, recs, 2)
	assert.Equal(t, "narrow", recs[0].Material.ID)
	assert.Equal(t, 10.0, recs[0].Score)
	assert.Contains(t, recs[0].Notes, "+10mm of width")
}

func TestRecommend_StableOnTies(t *testing.T) {
	spec := model.LayerSpec{Type: model.TypeBOPP, ThicknessMicrons: 20}
	inventory := []model.Material{
		bopp("first", 20, 450, 100),
		bopp("second", 20, 450, 100),
	}

	recs := Recommend(spec, 400, inventory)

	require.Len(t, recs, 2)
	assert.Equal(t, "first", recs[0].Material.ID, "ties keep inventory order")
}

func TestRecommend_LastResortPenalty(t *testing.T) {
	// 30mic vs ideal 20mic is a 50% error: demoted but not excluded.
	spec := model.LayerSpec{Type: model.TypeBOPP, ThicknessMicrons: 20}
	inventory := []model.Material{
		bopp("way-off", 30, 430, 100),
		bopp("slightly-off", 22, 500, 100),
	}

	recs := Recommend(spec, 400, inventory)

	require.Len(t, recs, 2)
	assert.Equal(t, "slightly-off", recs[0].Material.ID)
	assert.Equal(t, "way-off", recs[1].Material.ID)
	assert.Greater(t, recs[1].Score, 10000.0)
	assert.Contains(t, recs[1].Notes, "OUT OF THICKNESS TOLERANCE")
}

func TestRecommend_ToleranceNoteAt20Percent(t *testing.T) {
	spec := model.LayerSpec{Type: model.TypeBOPP, ThicknessMicrons: 20}
	inventory := []model.Material{
		bopp("off25", 25, 430, 100), // 25% error: noted, not last resort
	}

	recs := Recommend(spec, 400, inventory)

	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].Notes, "OUT OF THICKNESS TOLERANCE")
	assert.Less(t, recs[0].Score, 10000.0)
}

func TestAutoSelect(t *testing.T) {
	recs := []Recommendation{
		{Material: bopp("best", 20, 430, 100)},
		{Material: bopp("other", 20, 500, 100)},
	}

	assert.Equal(t, "best", AutoSelect("", recs))
	assert.Equal(t, "chosen", AutoSelect("chosen", recs), "must not override an existing choice")
	assert.Equal(t, "", AutoSelect("", nil))
}

func TestCheckInventory(t *testing.T) {
	pe := model.LayerSpec{Type: model.TypePE, ThicknessMicrons: 40}
	r := model.ProductRecipe{
		WebWidthMm: 400,
		Layer1:     model.LayerSpec{Type: model.TypeBOPP, ThicknessMicrons: 20},
		Layer2:     &pe,
	}
	inventory := []model.Material{bopp("b1", 20, 450, 100)} // nothing for PE

	warnings := CheckInventory(r, inventory)

	require.Len(t, warnings, 1)
	assert.Equal(t, model.LayerLam, warnings[0].Layer)
	assert.Equal(t, model.TypePE, warnings[0].Type)
}
