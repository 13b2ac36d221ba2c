// Package importer provides CSV and Excel import of material rolls into the
// inventory. It supports automatic delimiter detection, flexible column
// mapping and case-insensitive header recognition in English and Spanish.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Wgabrielq/pcp-enigma/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Materials []model.Material
	Errors    []string
	Warnings  []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Code      int
	Name      int
	Supplier  int
	Type      int
	Thickness int
	Density   int
	Width     int
	Stock     int
	Cost      int
}

// headerAliases maps canonical column names to their accepted aliases (all
// lowercase). Spanish aliases cover the spreadsheets the plant already uses.
var headerAliases = map[string][]string{
	"code":      {"code", "internal code", "codigo", "código", "cod"},
	"name":      {"name", "material", "description", "nombre", "descripcion", "descripción"},
	"supplier":  {"supplier", "vendor", "proveedor"},
	"type":      {"type", "film", "tipo"},
	"thickness": {"thickness", "mic", "microns", "espesor", "micras"},
	"density":   {"density", "densidad"},
	"width":     {"width", "width mm", "ancho", "ancho mm"},
	"stock":     {"stock", "stock kg", "kg", "quantity", "existencia"},
	"cost":      {"cost", "cost/kg", "price", "costo", "precio"},
}

// DetectCSVDelimiter determines the most likely CSV delimiter by trying
// comma, semicolon, tab and pipe. The delimiter producing the most consistent
// multi-column split across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping. Matching
// is case-insensitive against the known aliases. Returns the mapping and true
// when a header was recognized, or a positional mapping and false otherwise.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{
		Code: -1, Name: -1, Supplier: -1, Type: -1,
		Thickness: -1, Density: -1, Width: -1, Stock: -1, Cost: -1,
	}
	assign := map[string]*int{
		"code": &mapping.Code, "name": &mapping.Name, "supplier": &mapping.Supplier,
		"type": &mapping.Type, "thickness": &mapping.Thickness, "density": &mapping.Density,
		"width": &mapping.Width, "stock": &mapping.Stock, "cost": &mapping.Cost,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					if target := assign[role]; *target == -1 {
						*target = i
					}
				}
			}
		}
	}

	if !isHeader {
		// Positional fallback: Code, Name, Type, Thickness, Width, Stock.
		return ColumnMapping{
			Code: 0, Name: 1, Type: 2, Thickness: 3, Width: 4, Stock: 5,
			Supplier: -1, Density: -1, Cost: -1,
		}, false
	}

	return mapping, true
}

// ParseMaterialType maps a free-form film description to a MaterialType.
// Returns the type and false when nothing matched.
func ParseMaterialType(s string) (model.MaterialType, bool) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	if upper == "" {
		return "", false
	}

	// Exact match against the catalog first.
	for _, t := range model.AllMaterialTypes {
		if upper == string(t) {
			return t, true
		}
	}

	switch {
	case strings.Contains(upper, "PEARL") || strings.Contains(upper, "PERLA"):
		return model.TypeBOPPPearl, true
	case strings.Contains(upper, "BOPP") && strings.Contains(upper, "DT"):
		return model.TypeBOPPDT, true
	case strings.Contains(upper, "BOPP") && strings.Contains(upper, "METAL"):
		return model.TypeBOPPMetalized, true
	case strings.Contains(upper, "BOPP") && strings.Contains(upper, "MATE"):
		return model.TypeBOPPMate, true
	case strings.Contains(upper, "BOPP") && (strings.Contains(upper, "WHITE") || strings.Contains(upper, "BLANCO")):
		return model.TypeBOPPWhite, true
	case strings.Contains(upper, "BOPP"):
		return model.TypeBOPP, true
	case strings.Contains(upper, "PET") && strings.Contains(upper, "PVDC"):
		return model.TypePETPVDC, true
	case strings.Contains(upper, "PET") && strings.Contains(upper, "DT"):
		return model.TypePETDT, true
	case strings.Contains(upper, "PET") && strings.Contains(upper, "METAL"):
		return model.TypePETMetalized, true
	case strings.Contains(upper, "PET"):
		return model.TypePET, true
	case strings.Contains(upper, "CPP"):
		return model.TypeCPP, true
	case strings.Contains(upper, "BOPA") || strings.Contains(upper, "NYLON"):
		return model.TypeBOPA, true
	case strings.Contains(upper, "FOIL") || strings.Contains(upper, "ALU"):
		return model.TypeFoil, true
	// Paper before PE: "PAPER" and "PAPEL" both contain "PE".
	case strings.Contains(upper, "PAPER") || strings.Contains(upper, "PAPEL"):
		return model.TypePaper, true
	case strings.Contains(upper, "PE") && (strings.Contains(upper, "WHITE") || strings.Contains(upper, "BLANCO")):
		return model.TypePEWhite, true
	case strings.Contains(upper, "PE"):
		return model.TypePE, true
	}
	return "", false
}

// parseNumber parses a float accepting both dot and comma decimal separators.
func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a Material from a row using the given column mapping.
// Returns the material, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.Material, string, string) {
	name := getCell(row, mapping.Name)
	if name == "" {
		name = getCell(row, mapping.Code)
	}
	if name == "" {
		return model.Material{}, fmt.Sprintf("%s: Missing material name", rowLabel), ""
	}

	var warning string
	typeStr := getCell(row, mapping.Type)
	if typeStr == "" {
		typeStr = name
	}
	matType, ok := ParseMaterialType(typeStr)
	if !ok {
		matType = model.TypeBOPP
		warning = fmt.Sprintf("%s: Unknown film type %q, defaulting to %s", rowLabel, typeStr, model.TypeBOPP)
	}

	thicknessStr := getCell(row, mapping.Thickness)
	if thicknessStr == "" {
		return model.Material{}, fmt.Sprintf("%s: Missing thickness value", rowLabel), ""
	}
	thickness, err := parseNumber(thicknessStr)
	if err != nil {
		return model.Material{}, fmt.Sprintf("%s: Invalid thickness '%s'", rowLabel, thicknessStr), ""
	}

	widthStr := getCell(row, mapping.Width)
	if widthStr == "" {
		return model.Material{}, fmt.Sprintf("%s: Missing width value", rowLabel), ""
	}
	width, err := parseNumber(widthStr)
	if err != nil {
		return model.Material{}, fmt.Sprintf("%s: Invalid width '%s'", rowLabel, widthStr), ""
	}

	if thickness <= 0 || width <= 0 {
		return model.Material{}, fmt.Sprintf("%s: Thickness and width must be positive", rowLabel), ""
	}

	m := model.NewMaterial(getCell(row, mapping.Code), name, matType, thickness, 0, width)
	m.Supplier = getCell(row, mapping.Supplier)

	// Stock, density and cost are optional; bad values get a warning, not an
	// error, so a partial row still lands in the inventory.
	if stockStr := getCell(row, mapping.Stock); stockStr != "" {
		if stock, err := parseNumber(stockStr); err == nil && stock >= 0 {
			m.CurrentStockKg = stock
		} else {
			warning = fmt.Sprintf("%s: Invalid stock '%s', defaulting to 0", rowLabel, stockStr)
		}
	}
	if densityStr := getCell(row, mapping.Density); densityStr != "" {
		if density, err := parseNumber(densityStr); err == nil && density > 0 {
			m.DensityGCm3 = density
		}
	}
	if costStr := getCell(row, mapping.Cost); costStr != "" {
		if cost, err := parseNumber(costStr); err == nil && cost >= 0 {
			m.CostPerKg = cost
		}
	}

	return m, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports material rolls from a CSV file. The delimiter is
// auto-detected and columns are mapped by header names.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportExcel imports material rolls from an Excel (.xlsx) file. Reads the
// first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{Warnings: initialWarnings}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Name == -1 && mapping.Code == -1 {
			missing = append(missing, "Name")
		}
		if mapping.Thickness == -1 {
			missing = append(missing, "Thickness")
		}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		m, errMsg, warning := parseRow(row, mapping, rowLabel)

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		result.Materials = append(result.Materials, m)
	}

	return result
}
