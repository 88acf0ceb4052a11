package export

import (
	"fmt"
	"strings"

	"github.com/piwi3910/SlabQuote/internal/model"
)

// Summary renders the result as a short plain text report for terminals.
func Summary(spec model.QuoteSpec, result model.CalculatedQuote, material model.MaterialDefinition) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s, %s\n", materialName(spec, material), PartDimension(spec))
	fmt.Fprintf(&b, "Quantity: %d good + %d scrap = %d produced\n",
		spec.QuantityGood, spec.QuantityScrap, result.TotalProductionCount)
	fmt.Fprintf(&b, "Weight: %.3f kg net, %.3f kg gross per part, %.2f kg batch\n",
		result.NetWeightPerPart, result.MaterialWeightPerPart, result.MaterialWeight)
	for _, line := range NestingLines(spec, result) {
		fmt.Fprintf(&b, "  %s\n", line)
	}

	b.WriteString("\n")
	rows := []struct {
		name   string
		amount float64
	}{
		{"Material", result.MaterialCostTotalCZK},
		{"Shipping", result.ShippingCostCZK},
		{"Preparation", result.SetupCostTotal},
		{"Machining", result.MachiningCostTotal},
		{"Finishing", result.PostProcessTotal},
		{"Subtotal", result.Subtotal},
		{"Markup", result.MarkupAmount},
		{"Total", result.TotalPrice},
		{"Per part", result.PricePerPart},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "%-12s %18s\n", r.name, CZK(r.amount))
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(&b, "warning: %s\n", w)
	}
	return b.String()
}
