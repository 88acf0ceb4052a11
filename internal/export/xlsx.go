package export

import (
	"fmt"

	"github.com/piwi3910/SlabQuote/internal/model"
	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SheetQuote      = "Quote"
	SheetOperations = "Operations"
)

// ExportQuoteXLSX writes the quote as a workbook with a "Quote" sheet
// (inputs, weights and cost breakdown) and an "Operations" sheet listing
// every production step with its hours and cost.
func ExportQuoteXLSX(path string, spec model.QuoteSpec, result model.CalculatedQuote, material model.MaterialDefinition) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetQuote); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetOperations); err != nil {
		return fmt.Errorf("creating operations sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	rows := [][]any{
		{"Customer", spec.CustomerName},
		{"Part", spec.PartName},
		{"Material", materialName(spec, material)},
		{"Profile", ProfileName(spec.CrossSection)},
		{"Dimensions", PartDimension(spec)},
		{"Quantity good", spec.QuantityGood},
		{"Quantity scrap", spec.QuantityScrap},
		{"Cut-off waste %", spec.CutOffWastePercentage},
		{"Material currency", string(spec.MaterialCurrency)},
		{"Exchange rate", spec.MaterialExchangeRate},
		{},
		{"Net weight / part (kg)", result.NetWeightPerPart},
		{"Gross weight / part (kg)", result.MaterialWeightPerPart},
		{"Batch material (kg)", result.MaterialWeight},
		{"Stock", RFQQuantity(spec, result)},
		{},
		{"Cost (CZK)", "Amount"},
		{"Material", result.MaterialCostTotalCZK},
		{"Shipping", result.ShippingCostCZK},
		{"Preparation", result.SetupCostTotal},
		{"Machining", result.MachiningCostTotal},
		{"Finishing", result.PostProcessTotal},
		{"Subtotal", result.Subtotal},
		{"Markup", result.MarkupAmount},
		{"Total price", result.TotalPrice},
		{"Price per part", result.PricePerPart},
	}
	for i, row := range rows {
		if err := setRow(f, SheetQuote, i+1, row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SheetQuote, "A17", "B17", bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}
	if err := f.SetColWidth(SheetQuote, "A", "A", 28); err != nil {
		return fmt.Errorf("setting column width: %w", err)
	}
	if err := f.SetColWidth(SheetQuote, "B", "B", 36); err != nil {
		return fmt.Errorf("setting column width: %w", err)
	}

	produced := float64(result.TotalProductionCount)
	if err := setRow(f, SheetOperations, 1, []any{"Operation", "Minutes / part", "Rate (CZK/h)", "Hours", "Cost (CZK)"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetOperations, "A1", "E1", bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}
	for i, op := range spec.Operations {
		hours := op.TimePerPartMinutes / 60 * produced
		row := []any{op.Name, op.TimePerPartMinutes, op.HourlyRate, hours, hours * op.HourlyRate}
		if err := setRow(f, SheetOperations, i+2, row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetOperations, "A", "A", 28); err != nil {
		return fmt.Errorf("setting column width: %w", err)
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("writing %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
