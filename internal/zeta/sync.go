package zeta

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/Wgabrielq/pcp-enigma/internal/model"
)

// AllowedImportSources is the supplier/brand whitelist. Only articles whose
// name mentions one of these land in the inventory; the ERP tracks far more
// than film rolls.
var AllowedImportSources = []string{
	"POLO FILMS",
	"VITOPEL",
	"TERPHANE",
	"MULTIPACK",
	"RBS",
}

// ErrDisabled is returned when a sync is attempted with the integration
// turned off in the plant config.
var ErrDisabled = errors.New("zeta integration is not configured or disabled")

var (
	thicknessPattern = regexp.MustCompile(`(\d+([.,]\d+)?)\s*(MIC|MC|MY|MICRAS)`)
	widthPattern     = regexp.MustCompile(`(\d+)\s*(MM|CM)`)
)

// defaultImportThickness is assumed when the article name carries no
// recognizable micron figure.
const defaultImportThickness = 20.0

// DetectFilmType guesses the substrate family from an article name. Articles
// with no recognizable marker default to plain BOPP, which the sync merge
// treats as "detection failed".
func DetectFilmType(name string) model.MaterialType {
	upper := strings.ToUpper(name)
	switch {
	case strings.Contains(upper, "PET"):
		return model.TypePET
	case strings.Contains(upper, "PEBD") || strings.Contains(upper, "POLIETILENO"):
		return model.TypePE
	case strings.Contains(upper, "BOPA") || strings.Contains(upper, "NYLON"):
		return model.TypeBOPA
	case strings.Contains(upper, "CPP"):
		return model.TypeCPP
	case strings.Contains(upper, "PAPEL"):
		return model.TypePaper
	case strings.Contains(upper, "MATE"):
		return model.TypeBOPPMate
	case strings.Contains(upper, "METAL"):
		return model.TypeBOPPMetalized
	}
	return model.TypeBOPP
}

// ParseThicknessMicrons extracts a micron figure ("20 MIC", "12,5 MY") from an
// article name. Returns 0 when nothing matches.
func ParseThicknessMicrons(name string) float64 {
	m := thicknessPattern.FindStringSubmatch(strings.ToUpper(name))
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseWidthMm extracts a width figure ("450 MM", "52 CM") from an article
// name, normalized to millimeters. Returns 0 when nothing matches.
func ParseWidthMm(name string) float64 {
	m := widthPattern.FindStringSubmatch(strings.ToUpper(name))
	if m == nil {
		return 0
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	if m[2] == "CM" {
		v *= 10
	}
	return float64(v)
}

// MaterialFromItem converts an ERP stock row into an inventory material.
// Returns false when the article is not on the import whitelist.
func MaterialFromItem(item StockItem) (model.Material, bool) {
	upper := strings.ToUpper(item.Name)

	supplier := ""
	for _, source := range AllowedImportSources {
		if strings.Contains(upper, source) {
			supplier = source
			break
		}
	}
	if supplier == "" {
		return model.Material{}, false
	}

	// Thickness stays 0 on parse failure; the sync merge reads that as
	// "nothing better than the local value" and only new rolls get the
	// default.
	filmType := DetectFilmType(item.Name)

	m := model.Material{
		ID:               "zeta-m-" + item.Code,
		InternalCode:     item.Code,
		Name:             item.Name,
		Supplier:         supplier,
		Type:             filmType,
		ThicknessMicrons: ParseThicknessMicrons(item.Name),
		DensityGCm3:      model.DefaultDensities[filmType],
		WidthMm:          ParseWidthMm(item.Name),
		CurrentStockKg:   item.StockKg,
		ExternalID:       item.Code,
	}
	return m, true
}

// Inventory is what the sync needs from the record store.
type Inventory interface {
	Materials() []model.Material
	SaveMaterial(m model.Material)
}

// SyncResult summarizes one synchronization run.
type SyncResult struct {
	Fetched int // raw rows received from the ERP
	Matched int // rows that passed the whitelist
	Updated int // existing materials refreshed
	Added   int // new materials created
}

// Sync pulls the stock snapshot from the ERP and merges it into the
// inventory. Matching is by external ID first, then internal code. Stock is
// always overwritten; thickness, width and type keep their local values when
// name parsing produced nothing better, so manual refinements survive a sync.
func Sync(ctx context.Context, cfg model.PlantConfig, client *Client, inv Inventory) (SyncResult, error) {
	if !cfg.Zeta.Enabled {
		return SyncResult{}, ErrDisabled
	}

	items, err := client.FetchStock(ctx)
	if err != nil {
		return SyncResult{}, err
	}

	result := SyncResult{Fetched: len(items)}
	existing := inv.Materials()

	for _, item := range items {
		zm, ok := MaterialFromItem(item)
		if !ok {
			continue
		}
		result.Matched++

		if local := findLocal(existing, zm); local != nil {
			merged := *local
			merged.CurrentStockKg = zm.CurrentStockKg
			merged.ExternalID = zm.ExternalID
			if zm.ThicknessMicrons > 0 {
				merged.ThicknessMicrons = zm.ThicknessMicrons
			}
			if zm.WidthMm > 0 {
				merged.WidthMm = zm.WidthMm
			}
			if zm.Type != model.TypeBOPP {
				merged.Type = zm.Type
			}
			inv.SaveMaterial(merged)
			result.Updated++
		} else {
			if zm.ThicknessMicrons == 0 {
				zm.ThicknessMicrons = defaultImportThickness
			}
			inv.SaveMaterial(zm)
			result.Added++
		}
	}

	return result, nil
}

// findLocal matches an incoming material against the inventory by external
// ID, falling back to internal code.
func findLocal(materials []model.Material, zm model.Material) *model.Material {
	for i := range materials {
		if materials[i].ExternalID != "" && materials[i].ExternalID == zm.ExternalID {
			return &materials[i]
		}
	}
	for i := range materials {
		if materials[i].InternalCode == zm.InternalCode {
			return &materials[i]
		}
	}
	return nil
}
