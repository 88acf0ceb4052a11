package model

// BarNesting is the linear nesting result for one reference bar length.
type BarNesting struct {
	BarLength         float64 `json:"bar_length"`          // mm
	EffectiveLength   float64 `json:"effective_length"`    // part length inflated by cut-off waste (mm)
	PiecesPerBar      int     `json:"pieces_per_bar"`      // 0 = part does not fit
	Utilization       float64 `json:"utilization"`         // fraction 0..1 of one bar
	Remainder         float64 `json:"remainder"`           // unused length at the bar end (mm)
	TotalLengthNeeded float64 `json:"total_length_needed"` // for the whole batch (mm)
	BarsNeeded        int     `json:"bars_needed"`         // ceil(total length / bar length)
}

// Fits reports whether at least one part can be cut from the bar.
func (b BarNesting) Fits() bool {
	return b.PiecesPerBar > 0
}

// SheetNesting is the grid nesting result for one stock sheet format.
type SheetNesting struct {
	SheetWidth  float64 `json:"sheet_width"`  // mm
	SheetLength float64 `json:"sheet_length"` // mm
	PartWidth   float64 `json:"part_width"`   // mm, as entered (not rotated)
	PartLength  float64 `json:"part_length"`  // mm, as entered (not rotated)
	Gap         float64 `json:"gap"`          // spacing added to both part dimensions (mm)

	Rotated      bool `json:"rotated"`       // true if the rotated grid was chosen
	Columns      int  `json:"columns"`       // across the sheet width
	Rows         int  `json:"rows"`          // along the sheet length
	GeometricFit int  `json:"geometric_fit"` // Columns * Rows
	AreaFit      int  `json:"area_fit"`      // sheet area / gross part area

	EffectivePartsPerSheet int `json:"effective_parts_per_sheet"` // min(GeometricFit, AreaFit), used for pricing
	SheetsNeeded           int `json:"sheets_needed"`

	DisplayUtilization float64 `json:"display_utilization"` // grid fit x net part area / sheet area
	PricingUtilization float64 `json:"pricing_utilization"` // effective fit x gross part area / sheet area
}

// Fits reports whether at least one part can be cut from the sheet.
func (s SheetNesting) Fits() bool {
	return s.EffectivePartsPerSheet > 0
}

// Cost line names, in subtotal order.
const (
	CostLineMaterial    = "material"
	CostLineShipping    = "shipping"
	CostLineSetup       = "setup"
	CostLineMachining   = "machining"
	CostLinePostProcess = "post_process"
)

// CostLine is one component of the subtotal, in CZK.
type CostLine struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// CalculatedQuote is the result of one calculation pass. All money values
// are CZK unless the field name says Native. Nothing is rounded.
type CalculatedQuote struct {
	TotalProductionCount int `json:"total_production_count"`

	// Weights (kg)
	NetWeightPerPart           float64 `json:"net_weight_per_part"`
	MaterialWeight             float64 `json:"material_weight"`          // batch gross
	MaterialWeightPerPart      float64 `json:"material_weight_per_part"` // gross per produced part
	MaterialWasteWeightPerPart float64 `json:"material_waste_weight_per_part"`
	TotalWasteWeight           float64 `json:"total_waste_weight"`

	// Material
	MaterialCostTotalNative        float64 `json:"material_cost_total_native"`
	MaterialCostTotalCZK           float64 `json:"material_cost_total_czk"`
	MaterialCostPerPartNative      float64 `json:"material_cost_per_part_native"`
	MaterialCostPerPartCZK         float64 `json:"material_cost_per_part_czk"`
	MaterialWasteCostNative        float64 `json:"material_waste_cost_native"`
	MaterialWasteCostCZK           float64 `json:"material_waste_cost_czk"`
	MaterialWasteCostPerPartNative float64 `json:"material_waste_cost_per_part_native"`
	MaterialWasteCostPerPartCZK    float64 `json:"material_waste_cost_per_part_czk"`

	ShippingCostNative float64 `json:"shipping_cost_native"`
	ShippingCostCZK    float64 `json:"shipping_cost_czk"`

	SetupHours          float64 `json:"setup_hours"`
	SetupCostTotal      float64 `json:"setup_cost_total"`
	TotalMachiningHours float64 `json:"total_machining_hours"`
	MachiningCostTotal  float64 `json:"machining_cost_total"`
	PostProcessTotal    float64 `json:"post_process_total"`

	Lines        []CostLine `json:"lines"`
	Subtotal     float64    `json:"subtotal"`
	MarkupAmount float64    `json:"markup_amount"`
	TotalPrice   float64    `json:"total_price"`
	PricePerPart float64    `json:"price_per_part"` // amortized over good parts only

	// Stock
	TotalLengthNeeded float64       `json:"total_length_needed"` // bars only (mm)
	Bars              []BarNesting  `json:"bars,omitempty"`
	Sheet             *SheetNesting `json:"sheet,omitempty"`
	SheetCount        int           `json:"sheet_count"`

	Warnings []string `json:"warnings,omitempty"`
}

// Bar returns the nesting result for the given reference bar length.
func (q CalculatedQuote) Bar(length float64) (BarNesting, bool) {
	for _, b := range q.Bars {
		if b.BarLength == length {
			return b, true
		}
	}
	return BarNesting{}, false
}

// Line returns the amount of the named cost line.
func (q CalculatedQuote) Line(name string) float64 {
	for _, l := range q.Lines {
		if l.Name == name {
			return l.Amount
		}
	}
	return 0
}

// Fits reports whether the part fits the selected stock.
func (q CalculatedQuote) Fits() bool {
	if q.Sheet != nil {
		return q.Sheet.Fits()
	}
	for _, b := range q.Bars {
		if b.Fits() {
			return true
		}
	}
	return false
}
