package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// CrossSection selects the stock profile and therefore the geometry formula.
type CrossSection string

const (
	CrossSectionRectangular CrossSection = "RECTANGULAR" // Flat or square bar, width x height
	CrossSectionRound       CrossSection = "ROUND"       // Round bar, width is the diameter
	CrossSectionHex         CrossSection = "HEX"         // Hex bar, width is across flats
	CrossSectionSheet       CrossSection = "SHEET"       // Plate cut from a stock sheet, height is thickness
)

// CrossSections lists all supported profiles in display order.
func CrossSections() []CrossSection {
	return []CrossSection{CrossSectionRectangular, CrossSectionRound, CrossSectionHex, CrossSectionSheet}
}

func (c CrossSection) String() string {
	return string(c)
}

// IsBar reports whether the profile is nested linearly along a bar.
func (c CrossSection) IsBar() bool {
	return c != CrossSectionSheet
}

// ParseCrossSection converts a case-insensitive name into a CrossSection.
func ParseCrossSection(s string) (CrossSection, error) {
	cs := CrossSection(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range CrossSections() {
		if cs == known {
			return cs, nil
		}
	}
	return "", fmt.Errorf("unknown cross section %q", s)
}

// Unit is the length unit the operator entered dimensions in.
type Unit string

const (
	UnitMM   Unit = "mm"
	UnitInch Unit = "inch"
)

// Currency is the currency a material is priced in.
type Currency string

const (
	CurrencyCZK Currency = "CZK" // Settlement currency
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

// SettlementCurrency is the currency every total is reported in.
const SettlementCurrency = CurrencyCZK

// ParseCurrency converts a case-insensitive ISO code into a Currency.
func ParseCurrency(s string) (Currency, error) {
	switch c := Currency(strings.ToUpper(strings.TrimSpace(s))); c {
	case CurrencyCZK, CurrencyEUR, CurrencyUSD:
		return c, nil
	default:
		return "", fmt.Errorf("unsupported currency %q", s)
	}
}

// DefaultExchangeRate returns the built-in native->CZK rate used when the
// operator switches currency and no live rate has been fetched yet.
func DefaultExchangeRate(c Currency) float64 {
	switch c {
	case CurrencyEUR:
		return 25
	case CurrencyUSD:
		return 23
	default:
		return 1
	}
}

// SheetFormat names a stock sheet size as "<width>x<length>" in mm.
type SheetFormat string

const (
	SheetFormat1000x2000 SheetFormat = "1000x2000"
	SheetFormat1250x2500 SheetFormat = "1250x2500"
	SheetFormat1500x3000 SheetFormat = "1500x3000"
)

// SheetFormats returns the standard stock sheet sizes.
func SheetFormats() []SheetFormat {
	return []SheetFormat{SheetFormat1000x2000, SheetFormat1250x2500, SheetFormat1500x3000}
}

// Size parses the format into sheet width and length (mm).
// Custom formats such as "800x1600" are accepted as well.
func (f SheetFormat) Size() (width, length float64, ok bool) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(string(f))), "x")
	if len(parts) != 2 {
		return 0, 0, false
	}
	w, errW := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	l, errL := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errW != nil || errL != nil || w <= 0 || l <= 0 {
		return 0, 0, false
	}
	return w, l, true
}

// Dimensions holds the part size as entered by the operator.
// For SHEET parts Height is the plate thickness.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   Unit    `json:"unit"`
}

// Operation is one repeated production step applied to every produced part.
type Operation struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	TimePerPartMinutes float64 `json:"time_per_part_minutes"`
	HourlyRate         float64 `json:"hourly_rate"` // CZK/hour
}

// DefaultOperationRate is the hourly rate given to newly added operations.
const DefaultOperationRate = 1500

func NewOperation(name string, minutes, hourlyRate float64) Operation {
	return Operation{
		ID:                 uuid.New().String()[:8],
		Name:               name,
		TimePerPartMinutes: minutes,
		HourlyRate:         hourlyRate,
	}
}

// CostFactors are the rates the quote is priced with.
type CostFactors struct {
	MaterialCostPerKg      float64 `json:"material_cost_per_kg"` // in the material currency
	SetupRatePerHour       float64 `json:"setup_rate_per_hour"`  // CZK/hour
	PostProcessCostPerPart float64 `json:"post_process_cost_per_part"`
	MarkupPercentage       float64 `json:"markup_percentage"`
}

// QuoteSpec is the complete input of one quote calculation.
type QuoteSpec struct {
	CustomerName string `json:"customer_name"`
	PartName     string `json:"part_name"`
	Notes        string `json:"notes"`

	QuantityGood  int `json:"quantity_good"`
	QuantityScrap int `json:"quantity_scrap"`

	MaterialID            string       `json:"material_id"`
	CrossSection          CrossSection `json:"cross_section"`
	SheetFormat           SheetFormat  `json:"sheet_format"`
	Dimensions            Dimensions   `json:"dimensions"`
	CutOffWastePercentage float64      `json:"cut_off_waste_percentage"`

	MaterialCurrency     Currency `json:"material_currency"`
	MaterialExchangeRate float64  `json:"material_exchange_rate"` // native -> CZK
	ShippingCost         float64  `json:"shipping_cost"`          // native currency, one-off

	// Preparation times in hours, charged once per batch
	Time3D           float64 `json:"time_3d"`
	TimeCAM          float64 `json:"time_cam"`
	TimeMachineSetup float64 `json:"time_machine_setup"`
	TimeInspection   float64 `json:"time_inspection"`
	TimeExpedition   float64 `json:"time_expedition"`

	Operations []Operation `json:"operations"`
	Factors    CostFactors `json:"factors"`
}

// DefaultQuoteSpec returns the spec a new quote starts from.
func DefaultQuoteSpec() QuoteSpec {
	return QuoteSpec{
		QuantityGood:  1,
		QuantityScrap: 0,
		MaterialID:    "ALUMINUM_6061",
		CrossSection:  CrossSectionRectangular,
		SheetFormat:   SheetFormat1000x2000,
		Dimensions: Dimensions{
			Length: 100,
			Width:  50,
			Height: 25,
			Unit:   UnitMM,
		},
		MaterialCurrency:     CurrencyCZK,
		MaterialExchangeRate: 1,
		TimeMachineSetup:     1,
		Operations: []Operation{
			{ID: "op_1", Name: "CNC Machining", TimePerPartMinutes: 15, HourlyRate: DefaultOperationRate},
		},
		Factors: CostFactors{
			MaterialCostPerKg:      250,
			SetupRatePerHour:       1200,
			PostProcessCostPerPart: 100,
			MarkupPercentage:       20,
		},
	}
}

// TotalProductionCount is the number of parts actually produced, scrap included.
func (q QuoteSpec) TotalProductionCount() int {
	return q.QuantityGood + q.QuantityScrap
}

// SellableQuantity is the divisor for per-part prices. Never below 1.
func (q QuoteSpec) SellableQuantity() int {
	if q.QuantityGood < 1 {
		return 1
	}
	return q.QuantityGood
}

// PrepHours sums the one-off preparation times.
func (q QuoteSpec) PrepHours() float64 {
	return q.Time3D + q.TimeCAM + q.TimeMachineSetup + q.TimeInspection + q.TimeExpedition
}

// Sanitized returns a copy of the spec in which every non-finite numeric
// input is replaced by 0 and negative quantities are raised to 0. The
// operations slice is copied.
func (q QuoteSpec) Sanitized() QuoteSpec {
	out := q
	out.QuantityGood = max(q.QuantityGood, 0)
	out.QuantityScrap = max(q.QuantityScrap, 0)
	out.Dimensions.Length = finite(q.Dimensions.Length)
	out.Dimensions.Width = finite(q.Dimensions.Width)
	out.Dimensions.Height = finite(q.Dimensions.Height)
	out.CutOffWastePercentage = finite(q.CutOffWastePercentage)
	out.MaterialExchangeRate = finite(q.MaterialExchangeRate)
	out.ShippingCost = finite(q.ShippingCost)
	out.Time3D = finite(q.Time3D)
	out.TimeCAM = finite(q.TimeCAM)
	out.TimeMachineSetup = finite(q.TimeMachineSetup)
	out.TimeInspection = finite(q.TimeInspection)
	out.TimeExpedition = finite(q.TimeExpedition)
	out.Factors = CostFactors{
		MaterialCostPerKg:      finite(q.Factors.MaterialCostPerKg),
		SetupRatePerHour:       finite(q.Factors.SetupRatePerHour),
		PostProcessCostPerPart: finite(q.Factors.PostProcessCostPerPart),
		MarkupPercentage:       finite(q.Factors.MarkupPercentage),
	}
	out.Operations = make([]Operation, len(q.Operations))
	for i, op := range q.Operations {
		op.TimePerPartMinutes = finite(op.TimePerPartMinutes)
		op.HourlyRate = finite(op.HourlyRate)
		out.Operations[i] = op
	}
	return out
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ApplyMaterial selects a material. When the material carries a default
// price it replaces the current material cost factor.
func (q *QuoteSpec) ApplyMaterial(m MaterialDefinition) {
	q.MaterialID = m.ID
	if m.DefaultPricePerKg > 0 {
		q.Factors.MaterialCostPerKg = m.DefaultPricePerKg
	}
}

// SetCurrency switches the material currency and resets the exchange rate
// to the built-in default for that currency.
func (q *QuoteSpec) SetCurrency(c Currency) {
	q.MaterialCurrency = c
	q.MaterialExchangeRate = DefaultExchangeRate(c)
}

// AddOperation appends a blank operation with the default hourly rate and
// returns it.
func (q *QuoteSpec) AddOperation(name string) Operation {
	op := NewOperation(name, 0, DefaultOperationRate)
	q.Operations = append(q.Operations, op)
	return op
}

// RemoveOperation deletes the operation with the given ID.
// Returns false if no such operation exists.
func (q *QuoteSpec) RemoveOperation(id string) bool {
	for i := range q.Operations {
		if q.Operations[i].ID == id {
			q.Operations = append(q.Operations[:i:i], q.Operations[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateOperation replaces the operation with the same ID in place.
func (q *QuoteSpec) UpdateOperation(op Operation) bool {
	for i := range q.Operations {
		if q.Operations[i].ID == op.ID {
			q.Operations[i] = op
			return true
		}
	}
	return false
}

// FindOperation returns a pointer to the operation with the given ID, or nil.
func (q *QuoteSpec) FindOperation(id string) *Operation {
	for i := range q.Operations {
		if q.Operations[i].ID == id {
			return &q.Operations[i]
		}
	}
	return nil
}
