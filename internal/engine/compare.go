package engine

import (
	"fmt"

	"github.com/piwi3910/SlabQuote/internal/model"
)

// ComparisonScenario is a named variant of a quote to compare.
type ComparisonScenario struct {
	Name string
	Spec model.QuoteSpec
}

// ComparisonResult holds the calculated quote and summary figures
// for a single scenario.
type ComparisonResult struct {
	Scenario   ComparisonScenario
	Result     model.CalculatedQuote
	StockUnits int // sheets, or 6m bars for bar profiles
	TotalPrice float64
	Fits       bool
}

// CompareScenarios calculates every scenario with the same catalog and
// returns the results in scenario order.
func (c *Calculator) CompareScenarios(scenarios []ComparisonScenario, catalog model.Catalog) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		result := c.Calculate(scenario.Spec, catalog)

		units := result.SheetCount
		if result.Sheet == nil {
			if b, ok := result.Bar(BarLength6m); ok {
				units = b.BarsNeeded
			}
		}

		results = append(results, ComparisonResult{
			Scenario:   scenario,
			Result:     result,
			StockUnits: units,
			TotalPrice: result.TotalPrice,
			Fits:       result.Fits(),
		})
	}

	return results
}

// Cheapest returns the lowest priced result whose part fits its stock.
func Cheapest(results []ComparisonResult) (ComparisonResult, bool) {
	var best ComparisonResult
	found := false
	for _, r := range results {
		if !r.Fits {
			continue
		}
		if !found || r.TotalPrice < best.TotalPrice {
			best = r
			found = true
		}
	}
	return best, found
}

// SheetFormatScenarios builds one scenario per standard sheet format,
// keeping everything else of the base spec.
func SheetFormatScenarios(base model.QuoteSpec) []ComparisonScenario {
	scenarios := make([]ComparisonScenario, 0, len(model.SheetFormats()))
	for _, f := range model.SheetFormats() {
		s := base
		s.CrossSection = model.CrossSectionSheet
		s.SheetFormat = f
		scenarios = append(scenarios, ComparisonScenario{
			Name: fmt.Sprintf("Sheet %s", f),
			Spec: s,
		})
	}
	return scenarios
}

// MaterialScenarios builds one scenario per catalog material, applying each
// material's default price the same way a manual material change does.
func MaterialScenarios(base model.QuoteSpec, catalog model.Catalog) []ComparisonScenario {
	scenarios := make([]ComparisonScenario, 0, len(catalog))
	for _, m := range catalog {
		s := base
		s.ApplyMaterial(m)
		scenarios = append(scenarios, ComparisonScenario{
			Name: m.Name,
			Spec: s,
		})
	}
	return scenarios
}
