package model

// AppConfig holds application-wide preferences and default quote settings.
type AppConfig struct {
	// Defaults applied to new quotes
	DefaultMaterialID      string       `json:"default_material_id"`
	DefaultCrossSection    CrossSection `json:"default_cross_section"`
	DefaultSheetFormat     SheetFormat  `json:"default_sheet_format"`
	DefaultWastePercentage float64      `json:"default_waste_percentage"`
	DefaultFactors         CostFactors  `json:"default_factors"`
	DefaultMachineSetup    float64      `json:"default_machine_setup"` // hours

	// Nesting
	SheetGap float64 `json:"sheet_gap"` // mm between parts on a sheet

	// Manual exchange rates (native -> CZK) used until a live rate is fetched
	ExchangeRates map[Currency]float64 `json:"exchange_rates"`

	// Application preferences
	CatalogPath  string   `json:"catalog_path"` // empty = default location
	RecentQuotes []string `json:"recent_quotes"`
	CompanyName  string   `json:"company_name"` // printed on RFQ documents
}

// DefaultAppConfig returns an AppConfig populated with defaults
// matching DefaultQuoteSpec().
func DefaultAppConfig() AppConfig {
	defaults := DefaultQuoteSpec()
	return AppConfig{
		DefaultMaterialID:      defaults.MaterialID,
		DefaultCrossSection:    defaults.CrossSection,
		DefaultSheetFormat:     defaults.SheetFormat,
		DefaultWastePercentage: defaults.CutOffWastePercentage,
		DefaultFactors:         defaults.Factors,
		DefaultMachineSetup:    defaults.TimeMachineSetup,
		SheetGap:               5,
		ExchangeRates: map[Currency]float64{
			CurrencyCZK: DefaultExchangeRate(CurrencyCZK),
			CurrencyEUR: DefaultExchangeRate(CurrencyEUR),
			CurrencyUSD: DefaultExchangeRate(CurrencyUSD),
		},
		RecentQuotes: []string{},
		CompanyName:  "Your CNC Company Ltd.",
	}
}

// ApplyToSpec copies the default values from AppConfig into a QuoteSpec.
// This is used when creating a new quote so it inherits the user's saved defaults.
func (c AppConfig) ApplyToSpec(q *QuoteSpec) {
	if c.DefaultMaterialID != "" {
		q.MaterialID = c.DefaultMaterialID
	}
	if c.DefaultCrossSection != "" {
		q.CrossSection = c.DefaultCrossSection
	}
	if c.DefaultSheetFormat != "" {
		q.SheetFormat = c.DefaultSheetFormat
	}
	q.CutOffWastePercentage = c.DefaultWastePercentage
	q.Factors = c.DefaultFactors
	q.TimeMachineSetup = c.DefaultMachineSetup
	q.MaterialExchangeRate = c.Rate(q.MaterialCurrency)
}

// Rate returns the configured manual rate for a currency, falling back to
// the built-in default when none is configured.
func (c AppConfig) Rate(cur Currency) float64 {
	if cur == CurrencyCZK {
		return 1
	}
	if r, ok := c.ExchangeRates[cur]; ok && r > 0 {
		return r
	}
	return DefaultExchangeRate(cur)
}

// AddRecentQuote records a quote file path, most recent first, keeping at
// most max entries.
func (c *AppConfig) AddRecentQuote(path string, max int) {
	recent := []string{path}
	for _, p := range c.RecentQuotes {
		if p != path {
			recent = append(recent, p)
		}
	}
	if max > 0 && len(recent) > max {
		recent = recent[:max]
	}
	c.RecentQuotes = recent
}
