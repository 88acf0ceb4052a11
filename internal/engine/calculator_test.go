package engine

import (
	"math"
	"sync"
	"testing"

	"github.com/piwi3910/SlabQuote/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() model.Catalog {
	return model.FallbackCatalog()
}

// barSpec is a 50x25x100mm steel 4140 flat bar job priced in EUR.
func barSpec() model.QuoteSpec {
	return model.QuoteSpec{
		QuantityGood:          10,
		QuantityScrap:         2,
		MaterialID:            "STEEL_4140",
		CrossSection:          model.CrossSectionRectangular,
		Dimensions:            model.Dimensions{Length: 100, Width: 50, Height: 25, Unit: model.UnitMM},
		CutOffWastePercentage: 10,
		MaterialCurrency:      model.CurrencyEUR,
		MaterialExchangeRate:  25,
		ShippingCost:          10,
		TimeCAM:               0.5,
		TimeMachineSetup:      1,
		Operations: []model.Operation{
			{ID: "op_1", Name: "Milling", TimePerPartMinutes: 15, HourlyRate: 1500},
		},
		Factors: model.CostFactors{
			MaterialCostPerKg:      2,
			SetupRatePerHour:       1200,
			PostProcessCostPerPart: 100,
			MarkupPercentage:       20,
		},
	}
}

func TestGeometry_RoundBarWeight(t *testing.T) {
	area, ok := CrossSectionArea(model.CrossSectionRound, 20, 0)
	require.True(t, ok)
	assert.InDelta(t, 314.159, area, 0.001)

	volume := BarVolume(area, 100)
	assert.InDelta(t, 31415.9, volume, 0.1)
	assert.InDelta(t, 0.2466, WeightKg(volume, 7.85), 0.0001)
}

func TestGeometry_Areas(t *testing.T) {
	rect, ok := CrossSectionArea(model.CrossSectionRectangular, 50, 25)
	require.True(t, ok)
	assert.Equal(t, 1250.0, rect)

	hex, ok := CrossSectionArea(model.CrossSectionHex, 10, 0)
	require.True(t, ok)
	assert.InDelta(t, 86.6025, hex, 0.0001)

	_, ok = CrossSectionArea(model.CrossSectionSheet, 10, 10)
	assert.False(t, ok, "sheet has no bar area")
}

func TestToMillimeters(t *testing.T) {
	assert.Equal(t, 50.8, ToMillimeters(2, model.UnitInch))
	assert.Equal(t, 2.0, ToMillimeters(2, model.UnitMM))
	assert.Equal(t, 0.0, ToMillimeters(math.NaN(), model.UnitMM))
	assert.Equal(t, 0.0, ToMillimeters(math.Inf(1), model.UnitInch))
}

func TestCalculate_RoundBarScenario(t *testing.T) {
	spec := model.DefaultQuoteSpec()
	spec.MaterialID = "STEEL_4140"
	spec.CrossSection = model.CrossSectionRound
	spec.Dimensions = model.Dimensions{Length: 100, Width: 20, Unit: model.UnitMM}
	spec.CutOffWastePercentage = 0

	res := Calculate(spec, testCatalog())

	assert.InDelta(t, 0.2466, res.NetWeightPerPart, 0.0001)
	assert.Equal(t, 0.0, res.MaterialWasteWeightPerPart, "no waste without cut-off")
	assert.Equal(t, res.NetWeightPerPart, res.MaterialWeightPerPart, "gross equals net without cut-off")
}

func TestCalculate_BarCostBreakdown(t *testing.T) {
	res := Calculate(barSpec(), testCatalog())

	assert.Equal(t, 12, res.TotalProductionCount)
	assert.InDelta(t, 0.98125, res.NetWeightPerPart, 1e-9)
	assert.InDelta(t, 0.098125, res.MaterialWasteWeightPerPart, 1e-9)
	assert.InDelta(t, 1.079375, res.MaterialWeightPerPart, 1e-9)
	assert.InDelta(t, 12.9525, res.MaterialWeight, 1e-9)
	assert.InDelta(t, 1.1775, res.TotalWasteWeight, 1e-9)

	assert.InDelta(t, 25.905, res.MaterialCostTotalNative, 1e-9)
	assert.InDelta(t, 647.625, res.MaterialCostTotalCZK, 1e-9)
	assert.InDelta(t, 2.5905, res.MaterialCostPerPartNative, 1e-9)
	assert.InDelta(t, 64.7625, res.MaterialCostPerPartCZK, 1e-9)
	assert.InDelta(t, 2.355, res.MaterialWasteCostNative, 1e-9)
	assert.InDelta(t, 58.875, res.MaterialWasteCostCZK, 1e-9)

	assert.Equal(t, 10.0, res.ShippingCostNative)
	assert.Equal(t, 250.0, res.ShippingCostCZK)
	assert.InDelta(t, 1.5, res.SetupHours, 1e-9)
	assert.InDelta(t, 1800.0, res.SetupCostTotal, 1e-9)
	assert.InDelta(t, 3.0, res.TotalMachiningHours, 1e-9)
	assert.InDelta(t, 4500.0, res.MachiningCostTotal, 1e-9)
	assert.InDelta(t, 1200.0, res.PostProcessTotal, 1e-9)

	assert.InDelta(t, 8397.625, res.Subtotal, 1e-9)
	assert.InDelta(t, 1679.525, res.MarkupAmount, 1e-9)
	assert.InDelta(t, 10077.15, res.TotalPrice, 1e-9)
	assert.InDelta(t, 1007.715, res.PricePerPart, 1e-9)

	assert.InDelta(t, 1320.0, res.TotalLengthNeeded, 1e-9)
	bar3, ok := res.Bar(BarLength3m)
	require.True(t, ok)
	assert.Equal(t, 27, bar3.PiecesPerBar)
	assert.Equal(t, 1, bar3.BarsNeeded)
	bar6, ok := res.Bar(BarLength6m)
	require.True(t, ok)
	assert.Equal(t, 54, bar6.PiecesPerBar)
	assert.Nil(t, res.Sheet)
	assert.Empty(t, res.Warnings)
}

func TestCalculate_SubtotalIsSumOfLines(t *testing.T) {
	res := Calculate(barSpec(), testCatalog())

	require.Len(t, res.Lines, 5)
	var sum float64
	for _, l := range res.Lines {
		sum += l.Amount
	}
	assert.Equal(t, res.Subtotal, sum)
	assert.Equal(t, res.MaterialCostTotalCZK, res.Line(model.CostLineMaterial))
	assert.Equal(t, res.ShippingCostCZK, res.Line(model.CostLineShipping))
	assert.Equal(t, res.SetupCostTotal, res.Line(model.CostLineSetup))
	assert.Equal(t, res.MachiningCostTotal, res.Line(model.CostLineMachining))
	assert.Equal(t, res.PostProcessTotal, res.Line(model.CostLinePostProcess))
	assert.Equal(t, res.Subtotal+res.MarkupAmount, res.TotalPrice)
}

func TestCalculate_MachiningIncludesScrap(t *testing.T) {
	spec := barSpec()
	spec.QuantityGood = 100
	spec.QuantityScrap = 3
	spec.Operations = []model.Operation{{ID: "op", Name: "CNC", TimePerPartMinutes: 15, HourlyRate: 1500}}

	res := Calculate(spec, testCatalog())

	assert.Equal(t, 103, res.TotalProductionCount)
	assert.InDelta(t, 38625.0, res.MachiningCostTotal, 1e-9)
	assert.InDelta(t, 10300.0, res.PostProcessTotal, 1e-9)
	assert.InDelta(t, res.TotalPrice/100, res.PricePerPart, 1e-9, "price is amortized over good parts only")
}

func TestCalculate_OperationOrderDoesNotChangeCost(t *testing.T) {
	spec := barSpec()
	spec.Operations = []model.Operation{
		{ID: "a", Name: "Turning", TimePerPartMinutes: 4, HourlyRate: 1100},
		{ID: "b", Name: "Milling", TimePerPartMinutes: 12.5, HourlyRate: 1650},
		{ID: "c", Name: "Deburring", TimePerPartMinutes: 2, HourlyRate: 600},
	}
	reversed := spec
	reversed.Operations = []model.Operation{spec.Operations[2], spec.Operations[1], spec.Operations[0]}

	a := Calculate(spec, testCatalog())
	b := Calculate(reversed, testCatalog())
	assert.InDelta(t, a.MachiningCostTotal, b.MachiningCostTotal, 1e-9)
	assert.InDelta(t, a.TotalMachiningHours, b.TotalMachiningHours, 1e-9)
}

func TestCalculate_SetupIsOneOff(t *testing.T) {
	spec := barSpec()
	one := Calculate(spec, testCatalog())
	spec.QuantityGood = 500
	many := Calculate(spec, testCatalog())

	assert.Equal(t, one.SetupCostTotal, many.SetupCostTotal)
	assert.Equal(t, one.ShippingCostCZK, many.ShippingCostCZK)
}

func TestCalculate_ZeroGoodPartsDividesByOne(t *testing.T) {
	spec := barSpec()
	spec.QuantityGood = 0
	spec.QuantityScrap = 0

	res := Calculate(spec, testCatalog())
	assert.Equal(t, 0, res.TotalProductionCount)
	assert.Equal(t, res.TotalPrice, res.PricePerPart)
	assert.False(t, math.IsNaN(res.PricePerPart))
	assert.False(t, math.IsInf(res.MaterialCostPerPartCZK, 0))
}

func TestCalculate_NegativeScrapClampsToZero(t *testing.T) {
	spec := barSpec()
	spec.QuantityGood = 5
	spec.QuantityScrap = -10

	res := Calculate(spec, testCatalog())
	assert.Equal(t, 5, res.TotalProductionCount)
	assert.GreaterOrEqual(t, res.MaterialCostTotalCZK, 0.0)
	assert.GreaterOrEqual(t, res.MachiningCostTotal, 0.0)
	assert.GreaterOrEqual(t, res.PostProcessTotal, 0.0)
	assert.GreaterOrEqual(t, res.TotalPrice, 0.0)

	clean := barSpec()
	clean.QuantityGood = 5
	clean.QuantityScrap = 0
	assert.Equal(t, Calculate(clean, testCatalog()).TotalPrice, res.TotalPrice)
}

func TestCalculate_CZKIgnoresRate(t *testing.T) {
	spec := barSpec()
	spec.MaterialCurrency = model.CurrencyCZK
	spec.MaterialExchangeRate = 25

	res := Calculate(spec, testCatalog())
	assert.Equal(t, res.MaterialCostTotalNative, res.MaterialCostTotalCZK)
	assert.Equal(t, res.ShippingCostNative, res.ShippingCostCZK)
}

func TestCalculate_NaNInputsDegradeToZero(t *testing.T) {
	spec := barSpec()
	spec.Factors.MarkupPercentage = math.NaN()
	spec.ShippingCost = math.NaN()
	spec.TimeCAM = math.NaN()
	spec.Operations[0].HourlyRate = math.NaN()
	spec.CutOffWastePercentage = math.NaN()

	res := Calculate(spec, testCatalog())

	assert.Equal(t, 0.0, res.MarkupAmount)
	assert.Equal(t, res.Subtotal, res.TotalPrice)
	assert.Equal(t, 0.0, res.ShippingCostCZK)
	assert.InDelta(t, 1200.0, res.SetupCostTotal, 1e-9)
	assert.Equal(t, 0.0, res.MachiningCostTotal)
	assert.Equal(t, 0.0, res.MaterialWasteWeightPerPart)
	assert.False(t, math.IsNaN(res.TotalPrice))
}

func TestCalculate_InchDimensions(t *testing.T) {
	mm := barSpec()
	inch := barSpec()
	inch.Dimensions = model.Dimensions{
		Length: 100 / 25.4,
		Width:  50 / 25.4,
		Height: 25 / 25.4,
		Unit:   model.UnitInch,
	}

	a := Calculate(mm, testCatalog())
	b := Calculate(inch, testCatalog())
	assert.InDelta(t, a.NetWeightPerPart, b.NetWeightPerPart, 1e-9)
	assert.InDelta(t, a.TotalPrice, b.TotalPrice, 1e-6)
}

func TestCalculate_UnknownMaterial(t *testing.T) {
	spec := barSpec()
	spec.MaterialID = "UNOBTAINIUM"

	res := Calculate(spec, testCatalog())
	assert.Equal(t, 0.0, res.MaterialWeight)
	assert.Equal(t, 0.0, res.MaterialCostTotalCZK)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], "UNOBTAINIUM")
}

func TestCalculate_BarLongerThanStock(t *testing.T) {
	spec := barSpec()
	spec.Dimensions.Length = 7000
	spec.CutOffWastePercentage = 0

	res := Calculate(spec, testCatalog())

	bar6, ok := res.Bar(BarLength6m)
	require.True(t, ok)
	assert.Equal(t, 0, bar6.PiecesPerBar)
	assert.False(t, res.Fits())
	assert.Len(t, res.Warnings, 2, "one warning per reference bar")
	assert.Greater(t, res.MaterialCostTotalCZK, 0.0, "material is still priced by weight")
}

func TestCalculate_SheetScenario(t *testing.T) {
	spec := model.DefaultQuoteSpec()
	spec.MaterialID = "ALUMINUM_6061"
	spec.CrossSection = model.CrossSectionSheet
	spec.SheetFormat = model.SheetFormat1000x2000
	spec.Dimensions = model.Dimensions{Length: 300, Width: 200, Height: 2, Unit: model.UnitMM}
	spec.QuantityGood = 50
	spec.QuantityScrap = 4
	spec.CutOffWastePercentage = 0

	res := Calculate(spec, testCatalog())

	require.NotNil(t, res.Sheet)
	assert.True(t, res.Sheet.Rotated)
	assert.Equal(t, 27, res.Sheet.EffectivePartsPerSheet)
	assert.Equal(t, 2, res.SheetCount)
	assert.Empty(t, res.Bars)

	assert.InDelta(t, 21.6, res.MaterialWeight, 1e-9)
	assert.InDelta(t, 0.4, res.MaterialWeightPerPart, 1e-9)
	assert.InDelta(t, 0.324, res.NetWeightPerPart, 1e-9)
	assert.InDelta(t, 0.076, res.MaterialWasteWeightPerPart, 1e-9)
	assert.InDelta(t, 21.6*250, res.MaterialCostTotalCZK, 1e-9)
	assert.True(t, res.Fits())
}

func TestCalculate_SheetPartDoesNotFit(t *testing.T) {
	spec := model.DefaultQuoteSpec()
	spec.CrossSection = model.CrossSectionSheet
	spec.SheetFormat = model.SheetFormat1000x2000
	spec.Dimensions = model.Dimensions{Length: 2500, Width: 1200, Height: 5, Unit: model.UnitMM}
	spec.QuantityGood = 3

	res := Calculate(spec, testCatalog())

	require.NotNil(t, res.Sheet)
	assert.Equal(t, 0, res.SheetCount)
	assert.False(t, res.Fits())
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "part does not fit")
}

func TestCalculate_UnknownSheetFormat(t *testing.T) {
	spec := model.DefaultQuoteSpec()
	spec.CrossSection = model.CrossSectionSheet
	spec.SheetFormat = "huge"

	res := Calculate(spec, testCatalog())
	require.NotNil(t, res.Sheet)
	assert.Equal(t, 0, res.SheetCount)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "unknown sheet format")
}

func TestCalculate_CustomGap(t *testing.T) {
	spec := model.DefaultQuoteSpec()
	spec.CrossSection = model.CrossSectionSheet
	spec.Dimensions = model.Dimensions{Length: 500, Width: 250, Height: 3, Unit: model.UnitMM}
	spec.QuantityGood = 16

	withGap := Calculate(spec, testCatalog())
	noGap := New(Options{SheetGap: 0}).Calculate(spec, testCatalog())

	assert.Equal(t, 2, withGap.SheetCount, "5mm gap drops the grid to 9 parts")
	assert.Equal(t, 1, noGap.SheetCount)
}

func TestCalculate_Idempotent(t *testing.T) {
	spec := barSpec()
	catalog := testCatalog()

	first := Calculate(spec, catalog)
	second := Calculate(spec, catalog)
	assert.Equal(t, first, second)
}

func TestCalculate_DoesNotMutateInput(t *testing.T) {
	spec := barSpec()
	spec.Operations[0].HourlyRate = math.NaN()

	Calculate(spec, testCatalog())
	assert.True(t, math.IsNaN(spec.Operations[0].HourlyRate), "caller's operations must be left untouched")
}

func TestCalculator_ConcurrentUse(t *testing.T) {
	calc := New(DefaultOptions())
	catalog := testCatalog()
	spec := barSpec()
	want := calc.Calculate(spec, catalog)

	var wg sync.WaitGroup
	results := make([]model.CalculatedQuote, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = calc.Calculate(spec, catalog)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		assert.Equal(t, want, got, "result %d", i)
	}
}

func TestCurrencyRoundTrip(t *testing.T) {
	for _, rate := range []float64{1, 23, 24.37, 0.0417} {
		for _, native := range []float64{0.01, 123.45, 98765.4321} {
			back := ConvertFromCZK(ConvertToCZK(native, rate), rate)
			assert.InEpsilon(t, native, back, 1e-6, "rate %v native %v", rate, native)
		}
	}
	assert.Equal(t, 0.0, ConvertFromCZK(100, 0))
}

func TestFingerprint(t *testing.T) {
	a := barSpec()
	b := barSpec()
	assert.Equal(t, Fingerprint(a), Fingerprint(b))

	b.QuantityGood++
	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))

	a.ShippingCost = math.NaN()
	assert.NotEmpty(t, Fingerprint(a), "NaN inputs still fingerprint")
}
