package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/SlabQuote/internal/engine"
	"github.com/piwi3910/SlabQuote/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	contentWidth = pageWidth - marginLeft - marginRight
	quoteQRSize  = 30.0
)

// QuoteCode is the compact quote summary encoded in the PDF's QR code.
type QuoteCode struct {
	Customer    string  `json:"customer,omitempty"`
	Part        string  `json:"part,omitempty"`
	Material    string  `json:"material"`
	Quantity    int     `json:"qty"`
	TotalCZK    float64 `json:"total_czk"`
	PerPartCZK  float64 `json:"per_part_czk"`
	Fingerprint string  `json:"fp"`
}

// NewQuoteCode builds the QR payload. Prices are rounded to hellers.
func NewQuoteCode(spec model.QuoteSpec, result model.CalculatedQuote) QuoteCode {
	fp := engine.Fingerprint(spec)
	if len(fp) > 16 {
		fp = fp[:16]
	}
	return QuoteCode{
		Customer:    spec.CustomerName,
		Part:        spec.PartName,
		Material:    spec.MaterialID,
		Quantity:    spec.QuantityGood,
		TotalCZK:    round2(result.TotalPrice),
		PerPartCZK:  round2(result.PricePerPart),
		Fingerprint: fp,
	}
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

// ExportQuotePDF writes the customer quote: part and material details,
// stock usage, the cost breakdown and a QR code with the quote summary on
// the first page, and the stock layout diagram on the second.
func ExportQuotePDF(path string, spec model.QuoteSpec, result model.CalculatedQuote, material model.MaterialDefinition) error {
	pdf, err := buildQuotePDF(spec, result, material)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

func buildQuotePDF(spec model.QuoteSpec, result model.CalculatedQuote, material model.MaterialDefinition) (*fpdf.Fpdf, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.AddPage()

	if err := renderQuoteCode(pdf, spec, result); err != nil {
		return nil, err
	}

	// Title
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(contentWidth-quoteQRSize, 10, "Price Quote", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(marginLeft, marginTop+10)
	pdf.CellFormat(contentWidth-quoteQRSize, 5, "Date: "+time.Now().Format("2006-01-02"), "", 0, "L", false, 0, "")

	y := marginTop + quoteQRSize + 5
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, y, pageWidth-marginRight, y)
	y += 5

	y = renderKeyValues(pdf, y, "Part", []keyValue{
		{"Customer", spec.CustomerName},
		{"Part", spec.PartName},
		{"Material", materialName(spec, material)},
		{"Profile", ProfileName(spec.CrossSection)},
		{"Dimensions", PartDimension(spec)},
		{"Quantity", fmt.Sprintf("%d good + %d scrap allowance", spec.QuantityGood, spec.QuantityScrap)},
		{"Net weight / part", fmt.Sprintf("%.3f kg", result.NetWeightPerPart)},
		{"Gross weight / part", fmt.Sprintf("%.3f kg", result.MaterialWeightPerPart)},
		{"Batch material", fmt.Sprintf("%.2f kg", result.MaterialWeight)},
	})

	y = renderNesting(pdf, y+4, spec, result)
	y = renderCostTable(pdf, y+4, spec, result)

	if len(result.Warnings) > 0 {
		y += 4
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(contentWidth, 6, "Warnings", "", 0, "L", false, 0, "")
		y += 6
		pdf.SetFont("Helvetica", "", 9)
		for _, w := range result.Warnings {
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(contentWidth-5, 5, "- "+pdfText(w), "", 0, "L", false, 0, "")
			y += 5
		}
		pdf.SetTextColor(0, 0, 0)
	}

	if spec.Notes != "" {
		y += 4
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(contentWidth, 6, "Notes", "", 0, "L", false, 0, "")
		y += 6
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetXY(marginLeft, y)
		pdf.MultiCell(contentWidth, 5, pdfText(spec.Notes), "", "L", false)
	}

	renderFooter(pdf)
	renderStockLayoutPage(pdf, spec, result)

	return pdf, pdf.Error()
}

func renderFooter(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(contentWidth, 4, "Generated by SlabQuote", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func renderQuoteCode(pdf *fpdf.Fpdf, spec model.QuoteSpec, result model.CalculatedQuote) error {
	data, err := json.Marshal(NewQuoteCode(spec, result))
	if err != nil {
		return fmt.Errorf("failed to marshal quote code: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}
	pdf.RegisterImageOptionsReader("quote_qr", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	pdf.ImageOptions("quote_qr", pageWidth-marginRight-quoteQRSize, marginTop, quoteQRSize, quoteQRSize,
		false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	return nil
}

type keyValue struct {
	key   string
	value string
}

// renderKeyValues draws a titled two-column list and returns the next y.
func renderKeyValues(pdf *fpdf.Fpdf, y float64, title string, items []keyValue) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(contentWidth, 7, title, "", 0, "L", false, 0, "")
	y += 8

	for _, item := range items {
		if item.value == "" {
			continue
		}
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(45, 5, item.key+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentWidth-50, 5, pdfText(item.value), "", 0, "L", false, 0, "")
		y += 5
	}
	return y
}

func renderNesting(pdf *fpdf.Fpdf, y float64, spec model.QuoteSpec, result model.CalculatedQuote) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(contentWidth, 7, "Stock Usage", "", 0, "L", false, 0, "")
	y += 8

	fits := result.Fits()
	pdf.SetFont("Helvetica", "", 9)
	for _, line := range NestingLines(spec, result) {
		if !fits {
			pdf.SetTextColor(200, 0, 0)
		}
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(contentWidth-5, 5, line, "", 0, "L", false, 0, "")
		y += 5
	}
	pdf.SetTextColor(0, 0, 0)
	return y
}

// renderCostTable draws the cost breakdown and returns the next y.
func renderCostTable(pdf *fpdf.Fpdf, y float64, spec model.QuoteSpec, result model.CalculatedQuote) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(contentWidth, 7, "Cost Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{90, 45, 45}
	headers := []string{"Item", string(spec.MaterialCurrency), "CZK"}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	foreign := spec.MaterialCurrency != "" && spec.MaterialCurrency != model.CurrencyCZK
	native := func(v float64) string {
		if !foreign {
			return ""
		}
		return Money(v, spec.MaterialCurrency)
	}
	rows := [][]string{
		{"Material (incl. cut-off waste)", native(result.MaterialCostTotalNative), CZK(result.MaterialCostTotalCZK)},
		{"  of which waste", native(result.MaterialWasteCostNative), CZK(result.MaterialWasteCostCZK)},
		{"Material shipping", native(result.ShippingCostNative), CZK(result.ShippingCostCZK)},
		{fmt.Sprintf("Preparation (%.2f h)", result.SetupHours), "", CZK(result.SetupCostTotal)},
		{fmt.Sprintf("Machining (%.2f h, %d pcs)", result.TotalMachiningHours, result.TotalProductionCount), "", CZK(result.MachiningCostTotal)},
		{"Finishing", "", CZK(result.PostProcessTotal)},
		{"Subtotal", "", CZK(result.Subtotal)},
		{fmt.Sprintf("Markup (%g%%)", spec.Factors.MarkupPercentage), "", CZK(result.MarkupAmount)},
	}

	pdf.SetFont("Helvetica", "", 9)
	for i, row := range rows {
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos = marginLeft
		for j, cell := range row {
			align := "R"
			if j == 0 {
				align = "L"
			}
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, align, true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	y += 3
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(90, 8, "Total price", "", 0, "L", false, 0, "")
	pdf.CellFormat(90, 8, CZK(result.TotalPrice), "", 0, "R", false, 0, "")
	y += 8
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(90, 6, "Price per part", "", 0, "L", false, 0, "")
	pdf.CellFormat(90, 6, CZK(result.PricePerPart), "", 0, "R", false, 0, "")
	return y + 6
}
