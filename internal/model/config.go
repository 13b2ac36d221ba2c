package model

// ZetaConfig holds the connection settings for the ZetaSoftware SOAP stock
// API (SDTConnection credentials plus the service endpoint).
type ZetaConfig struct {
	Enabled       bool   `json:"enabled"`
	APIURL        string `json:"api_url"`
	DeveloperCode string `json:"developer_code"`
	DeveloperKey  string `json:"developer_key"`
	CompanyCode   string `json:"company_code"`
	CompanyKey    string `json:"company_key"`
	UserCode      string `json:"user_code"`
	UserKey       string `json:"user_key"`
	RoleCode      string `json:"role_code"`
}

// PlantConfig holds the tunable plant-wide constants used by the calculation
// engine: fixed scrap contributions per press stage, the variable scrap
// ratio, and the configurable density table.
type PlantConfig struct {
	FixedStartupMeters   float64                  `json:"fixed_startup_meters"`  // print setup
	ReprintMeters        float64                  `json:"reprint_meters"`        // second pass for DT types
	Lamination1Meters    float64                  `json:"lamination1_meters"`    // first lamination threading
	Lamination2Meters    float64                  `json:"lamination2_meters"`    // second lamination threading
	VariableScrapPercent float64                  `json:"variable_scrap_percent"`
	MaterialDensities    map[MaterialType]float64 `json:"material_densities"`
	Zeta                 ZetaConfig               `json:"zeta"`
}

// DefaultPlantConfig returns the factory settings.
func DefaultPlantConfig() PlantConfig {
	densities := make(map[MaterialType]float64, len(DefaultDensities))
	for t, d := range DefaultDensities {
		densities[t] = d
	}
	return PlantConfig{
		FixedStartupMeters:   500,
		ReprintMeters:        300,
		Lamination1Meters:    300,
		Lamination2Meters:    300,
		VariableScrapPercent: 0.05,
		MaterialDensities:    densities,
		Zeta: ZetaConfig{
			APIURL:   "https://api.zetasoftware.com/z.apis.asoapstockactualv3",
			RoleCode: "0",
		},
	}
}

// Normalize fills in density entries that are missing from an older saved
// config, so newly added substrate families always resolve. Existing entries
// are left untouched.
func (c PlantConfig) Normalize() PlantConfig {
	if c.MaterialDensities == nil {
		c.MaterialDensities = make(map[MaterialType]float64, len(DefaultDensities))
	}
	for t, d := range DefaultDensities {
		if _, ok := c.MaterialDensities[t]; !ok {
			c.MaterialDensities[t] = d
		}
	}
	if c.Zeta.APIURL == "" {
		c.Zeta.APIURL = DefaultPlantConfig().Zeta.APIURL
	}
	if c.Zeta.RoleCode == "" {
		c.Zeta.RoleCode = "0"
	}
	return c
}
