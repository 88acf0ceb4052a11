package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/SlabQuote/internal/model"
)

// Options tunes the nesting side of a calculation.
type Options struct {
	SheetGap   float64   // mm between parts on a sheet
	BarLengths []float64 // reference bar lengths in mm
}

// DefaultOptions returns the standard 5mm sheet gap and 3m/6m bars.
func DefaultOptions() Options {
	return Options{
		SheetGap:   DefaultSheetGap,
		BarLengths: append([]float64(nil), StandardBarLengths...),
	}
}

// Calculator turns a QuoteSpec into a CalculatedQuote. It holds no state
// besides its options, so one Calculator may be shared between goroutines.
type Calculator struct {
	opts Options
}

func New(opts Options) *Calculator {
	if opts.SheetGap < 0 || math.IsNaN(opts.SheetGap) {
		opts.SheetGap = 0
	}
	if len(opts.BarLengths) == 0 {
		opts.BarLengths = StandardBarLengths
	}
	opts.BarLengths = append([]float64(nil), opts.BarLengths...)
	return &Calculator{opts: opts}
}

// Calculate runs the calculation with DefaultOptions.
func Calculate(spec model.QuoteSpec, catalog model.Catalog) model.CalculatedQuote {
	return New(DefaultOptions()).Calculate(spec, catalog)
}

// materialBreakdown is the weight side of a calculation.
type materialBreakdown struct {
	netPerPart   float64
	grossPerPart float64
	wastePerPart float64
	totalWeight  float64
}

// Calculate computes weights, stock counts and the full cost breakdown.
// It never fails: malformed numbers count as zero and geometric
// impossibilities are reported through zero fits and Warnings.
func (c *Calculator) Calculate(spec model.QuoteSpec, catalog model.Catalog) model.CalculatedQuote {
	spec = spec.Sanitized()

	totalCount := spec.TotalProductionCount()
	result := model.CalculatedQuote{TotalProductionCount: totalCount}

	l, w, h := normalizedDimensions(spec.Dimensions)
	wastePercent := spec.CutOffWastePercentage

	var density float64
	if m := catalog.Find(spec.MaterialID); m != nil {
		density = m.Density
	} else {
		result.Warnings = append(result.Warnings, fmt.Sprintf("material %q not found in catalog, weight is 0", spec.MaterialID))
	}

	var mb materialBreakdown
	if spec.CrossSection == model.CrossSectionSheet {
		mb = c.sheetMaterial(&result, spec, l, w, h, density, wastePercent, totalCount)
	} else {
		mb = c.barMaterial(&result, spec, l, w, h, density, wastePercent, totalCount)
	}

	result.NetWeightPerPart = mb.netPerPart
	result.MaterialWeight = mb.totalWeight
	result.MaterialWeightPerPart = mb.grossPerPart
	result.MaterialWasteWeightPerPart = mb.wastePerPart
	// Approximation based on the per-part waste
	result.TotalWasteWeight = mb.wastePerPart * float64(totalCount)

	c.costs(&result, spec, totalCount)
	return result
}

func (c *Calculator) barMaterial(result *model.CalculatedQuote, spec model.QuoteSpec, l, w, h, density, wastePercent float64, totalCount int) materialBreakdown {
	area, ok := CrossSectionArea(spec.CrossSection, w, h)
	if !ok {
		result.Warnings = append(result.Warnings, fmt.Sprintf("unknown cross section %q, area is 0", spec.CrossSection))
	}

	net := WeightKg(BarVolume(area, l), density)
	waste := net * (wastePercent / 100)
	gross := net + waste

	result.Bars = NestBars(c.opts.BarLengths, l, wastePercent, totalCount)
	if len(result.Bars) > 0 {
		result.TotalLengthNeeded = result.Bars[0].TotalLengthNeeded
	}
	for _, b := range result.Bars {
		if !b.Fits() {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("part does not fit: %.1f mm effective length exceeds %.0f mm bar", b.EffectiveLength, b.BarLength))
		}
	}

	return materialBreakdown{
		netPerPart:   net,
		grossPerPart: gross,
		wastePerPart: waste,
		totalWeight:  gross * float64(totalCount),
	}
}

func (c *Calculator) sheetMaterial(result *model.CalculatedQuote, spec model.QuoteSpec, l, w, h, density, wastePercent float64, totalCount int) materialBreakdown {
	sheetW, sheetL, ok := spec.SheetFormat.Size()
	if !ok {
		result.Warnings = append(result.Warnings, fmt.Sprintf("unknown sheet format %q", spec.SheetFormat))
	}

	nesting := NestSheet(sheetW, sheetL, w, l, c.opts.SheetGap, wastePercent, totalCount)
	result.Sheet = &nesting
	result.SheetCount = nesting.SheetsNeeded
	if ok && !nesting.Fits() {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("part does not fit: %.1f x %.1f mm part on %s sheet", w, l, spec.SheetFormat))
	}

	// Whole stock sheets are bought, so the batch weighs as many full sheets
	weightPerSheet := WeightKg(PlateVolume(sheetL, sheetW, h), density)
	total := float64(nesting.SheetsNeeded) * weightPerSheet

	net := WeightKg(PlateVolume(l, w, h), density)
	var gross float64
	if totalCount > 0 {
		gross = total / float64(totalCount)
	}
	return materialBreakdown{
		netPerPart:   net,
		grossPerPart: gross,
		wastePerPart: math.Max(0, gross-net),
		totalWeight:  total,
	}
}

// costs fills the money side of the result from the weights already set.
func (c *Calculator) costs(result *model.CalculatedQuote, spec model.QuoteSpec, totalCount int) {
	rate := effectiveRate(spec)
	if rate <= 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("exchange rate for %s is not set", spec.MaterialCurrency))
	}
	sellable := float64(spec.SellableQuantity())
	produced := float64(totalCount)
	pricePerKg := spec.Factors.MaterialCostPerKg

	result.MaterialCostTotalNative = result.MaterialWeight * pricePerKg
	result.MaterialCostTotalCZK = ConvertToCZK(result.MaterialCostTotalNative, rate)
	result.MaterialCostPerPartNative = result.MaterialCostTotalNative / sellable
	result.MaterialCostPerPartCZK = result.MaterialCostTotalCZK / sellable

	result.MaterialWasteCostNative = result.TotalWasteWeight * pricePerKg
	result.MaterialWasteCostCZK = ConvertToCZK(result.MaterialWasteCostNative, rate)
	result.MaterialWasteCostPerPartNative = result.MaterialWasteWeightPerPart * pricePerKg
	result.MaterialWasteCostPerPartCZK = ConvertToCZK(result.MaterialWasteCostPerPartNative, rate)

	result.ShippingCostNative = spec.ShippingCost
	result.ShippingCostCZK = ConvertToCZK(spec.ShippingCost, rate)

	result.SetupHours = spec.PrepHours()
	result.SetupCostTotal = result.SetupHours * spec.Factors.SetupRatePerHour

	// Every operation runs on all produced parts, scrap included
	for _, op := range spec.Operations {
		hours := (op.TimePerPartMinutes / 60) * produced
		result.TotalMachiningHours += hours
		result.MachiningCostTotal += hours * op.HourlyRate
	}

	result.PostProcessTotal = produced * spec.Factors.PostProcessCostPerPart

	result.Lines = []model.CostLine{
		{Name: model.CostLineMaterial, Amount: result.MaterialCostTotalCZK},
		{Name: model.CostLineShipping, Amount: result.ShippingCostCZK},
		{Name: model.CostLineSetup, Amount: result.SetupCostTotal},
		{Name: model.CostLineMachining, Amount: result.MachiningCostTotal},
		{Name: model.CostLinePostProcess, Amount: result.PostProcessTotal},
	}
	result.Subtotal = result.MaterialCostTotalCZK + result.ShippingCostCZK + result.SetupCostTotal +
		result.MachiningCostTotal + result.PostProcessTotal
	result.MarkupAmount = result.Subtotal * (spec.Factors.MarkupPercentage / 100)
	result.TotalPrice = result.Subtotal + result.MarkupAmount
	result.PricePerPart = result.TotalPrice / sellable
}

// effectiveRate is the native->CZK multiplier; CZK prices are never converted.
func effectiveRate(spec model.QuoteSpec) float64 {
	if spec.MaterialCurrency == model.CurrencyCZK || spec.MaterialCurrency == "" {
		return 1
	}
	return spec.MaterialExchangeRate
}

// ConvertToCZK converts a native amount with a native->CZK rate.
func ConvertToCZK(native, rate float64) float64 {
	return native * rate
}

// ConvertFromCZK converts a CZK amount back to the native currency.
// A non-positive rate yields 0.
func ConvertFromCZK(czk, rate float64) float64 {
	if rate <= 0 {
		return 0
	}
	return czk / rate
}
