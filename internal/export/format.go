// Package export renders calculated quotes as PDF documents, Excel
// workbooks, part labels and plain text.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/piwi3910/SlabQuote/internal/model"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Money formats an amount with thousands separators and two decimals:
// "10,077.15 CZK".
func Money(v float64, cur model.Currency) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%.2f %s", v, string(cur))
}

// CZK formats an amount in the settlement currency.
func CZK(v float64) string {
	return Money(v, model.SettlementCurrency)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ProfileName returns a human-readable name for a cross section.
func ProfileName(cs model.CrossSection) string {
	switch cs {
	case model.CrossSectionRound:
		return "Round bar"
	case model.CrossSectionHex:
		return "Hex bar"
	case model.CrossSectionSheet:
		return "Sheet"
	default:
		return "Rectangular bar"
	}
}

// StockDimension describes the stock to order: "D 20mm", "HEX 19mm",
// "50x25mm" or "Sheet t=2mm (1000x2000)".
func StockDimension(spec model.QuoteSpec) string {
	d := spec.Dimensions
	unit := string(d.Unit)
	if unit == "" {
		unit = string(model.UnitMM)
	}
	switch spec.CrossSection {
	case model.CrossSectionSheet:
		return fmt.Sprintf("Sheet t=%s%s (%s)", num(d.Height), unit, spec.SheetFormat)
	case model.CrossSectionRound:
		return fmt.Sprintf("D %s%s", num(d.Width), unit)
	case model.CrossSectionHex:
		return fmt.Sprintf("HEX %s%s", num(d.Width), unit)
	default:
		return fmt.Sprintf("%sx%s%s", num(d.Width), num(d.Height), unit)
	}
}

// PartDimension describes the finished part including its length.
func PartDimension(spec model.QuoteSpec) string {
	d := spec.Dimensions
	unit := string(d.Unit)
	if unit == "" {
		unit = string(model.UnitMM)
	}
	switch spec.CrossSection {
	case model.CrossSectionSheet:
		return fmt.Sprintf("%s x %s x %s %s", num(d.Length), num(d.Width), num(d.Height), unit)
	case model.CrossSectionRound, model.CrossSectionHex:
		return fmt.Sprintf("%s, L=%s %s", StockDimension(spec), num(d.Length), unit)
	default:
		return fmt.Sprintf("%s x %s x %s %s", num(d.Width), num(d.Height), num(d.Length), unit)
	}
}

// RFQQuantity is the quantity line of a material request: whole sheets for
// sheet stock, reference bars for bar stock, and the total length and
// weight when no bar count is available.
func RFQQuantity(spec model.QuoteSpec, result model.CalculatedQuote) string {
	if spec.CrossSection == model.CrossSectionSheet {
		if result.SheetCount > 0 {
			return fmt.Sprintf("%d pcs (format %s)", result.SheetCount, spec.SheetFormat)
		}
		return "0 pcs"
	}

	var parts []string
	for _, length := range []float64{6000, 3000} {
		if b, ok := result.Bar(length); ok && b.BarsNeeded > 0 {
			parts = append(parts, fmt.Sprintf("%dx %gm bar", b.BarsNeeded, length/1000))
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " or ")
	}
	return fmt.Sprintf("Total: %.1fm (%.1fkg)", result.TotalLengthNeeded/1000, result.MaterialWeight)
}

// pdfText prepares a string for the core PDF fonts, which lack most
// accented glyphs.
func pdfText(s string) string {
	return model.StripAccents(s)
}

// materialName falls back to the id when the catalog entry has no name.
func materialName(spec model.QuoteSpec, m model.MaterialDefinition) string {
	if m.Name != "" {
		return m.Name
	}
	return spec.MaterialID
}

// NestingLines describes the stock usage, one line per reference bar or
// a single line for a sheet. A part that does not fit is reported as such.
func NestingLines(spec model.QuoteSpec, result model.CalculatedQuote) []string {
	if s := result.Sheet; s != nil {
		if !s.Fits() {
			return []string{fmt.Sprintf("Sheet %s: PART DOES NOT FIT", spec.SheetFormat)}
		}
		orientation := "standard"
		if s.Rotated {
			orientation = "rotated"
		}
		return []string{fmt.Sprintf("Sheet %s: %d parts/sheet (%dx%d %s, %.1f%% used), %d sheets",
			spec.SheetFormat, s.EffectivePartsPerSheet, s.Columns, s.Rows, orientation,
			s.DisplayUtilization*100, s.SheetsNeeded)}
	}
	lines := make([]string, 0, len(result.Bars))
	for _, b := range result.Bars {
		if !b.Fits() {
			lines = append(lines, fmt.Sprintf("%gm bar: PART DOES NOT FIT", b.BarLength/1000))
			continue
		}
		lines = append(lines, fmt.Sprintf("%gm bar: %d pcs/bar, %.1f%% used, %.0f mm remainder, %d bars",
			b.BarLength/1000, b.PiecesPerBar, b.Utilization*100, b.Remainder, b.BarsNeeded))
	}
	return lines
}
