package export

import (
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/SlabQuote/internal/model"
)

// ExportRFQ writes a material request for quotation addressed to a stock
// supplier: material, stock dimension, quantity to order and approximate
// weight. company is printed as the requesting party.
func ExportRFQ(path string, spec model.QuoteSpec, result model.CalculatedQuote, material model.MaterialDefinition, company string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(contentWidth, 10, "Material Request for Quotation", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetX(marginLeft)
	pdf.CellFormat(contentWidth, 6, "Date: "+time.Now().Format("2006-01-02"), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	if company != "" {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetX(marginLeft)
		pdf.CellFormat(contentWidth, 6, "Buyer:", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetX(marginLeft)
		pdf.CellFormat(contentWidth, 5, pdfText(company), "", 1, "L", false, 0, "")
		pdf.Ln(6)
	}

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetX(marginLeft)
	pdf.CellFormat(contentWidth, 6, "Hello,", "", 1, "L", false, 0, "")
	pdf.SetX(marginLeft)
	pdf.CellFormat(contentWidth, 6, "please send us a price and delivery date for the following stock:", "", 1, "L", false, 0, "")
	pdf.Ln(4)

	colWidths := []float64{50, 45, 55, 30}
	headers := []string{"Material", "Dimension", "Quantity", "Weight approx."}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(59, 130, 246)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetX(marginLeft)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetX(marginLeft)
	row := []string{
		pdfText(materialName(spec, material)),
		StockDimension(spec),
		RFQQuantity(spec, result),
		fmt.Sprintf("%.1f kg", result.MaterialWeight),
	}
	for i, cell := range row {
		pdf.CellFormat(colWidths[i], 7, cell, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.Ln(6)

	if spec.Notes != "" {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetX(marginLeft)
		pdf.CellFormat(contentWidth, 5, "Notes:", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetX(marginLeft)
		pdf.MultiCell(contentWidth, 5, pdfText(spec.Notes), "", "L", false)
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range []string{"Please include delivery in the price.", "", "Thank you,", "Purchasing"} {
		pdf.SetX(marginLeft)
		pdf.CellFormat(contentWidth, 5, line, "", 1, "L", false, 0, "")
	}

	return pdf.OutputFileAndClose(path)
}

// RFQFileName suggests a file name such as "RFQ_Steel_4140_2026-10-19.pdf".
func RFQFileName(spec model.QuoteSpec, material model.MaterialDefinition, date time.Time) string {
	name := model.MaterialID(materialName(spec, material))
	return fmt.Sprintf("RFQ_%s_%s.pdf", name, date.Format("2006-01-02"))
}
