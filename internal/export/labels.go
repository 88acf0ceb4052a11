package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/SlabQuote/internal/engine"
	"github.com/piwi3910/SlabQuote/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each part label's QR code.
type LabelInfo struct {
	Customer    string `json:"customer,omitempty"`
	PartName    string `json:"part"`
	Material    string `json:"material"`
	Dimensions  string `json:"dims"`
	Index       int    `json:"n"`
	Of          int    `json:"of"`
	Scrap       bool   `json:"scrap,omitempty"`
	Fingerprint string `json:"fp"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// CollectLabelInfos returns one label per produced part. Parts beyond the
// good quantity are the scrap allowance and are flagged as such.
func CollectLabelInfos(spec model.QuoteSpec, result model.CalculatedQuote, material model.MaterialDefinition) []LabelInfo {
	total := result.TotalProductionCount
	if total <= 0 {
		return nil
	}
	fp := engine.Fingerprint(spec)
	if len(fp) > 12 {
		fp = fp[:12]
	}
	part := spec.PartName
	if part == "" {
		part = "Part"
	}

	labels := make([]LabelInfo, 0, total)
	for i := 1; i <= total; i++ {
		labels = append(labels, LabelInfo{
			Customer:    spec.CustomerName,
			PartName:    part,
			Material:    materialName(spec, material),
			Dimensions:  PartDimension(spec),
			Index:       i,
			Of:          total,
			Scrap:       i > spec.QuantityGood,
			Fingerprint: fp,
		})
	}
	return labels
}

// ExportPartLabels generates a PDF of QR-coded labels, one per produced
// part, laid out on a standard label sheet (Avery 5160 / 3 columns x 10
// rows on US Letter).
func ExportPartLabels(path string, spec model.QuoteSpec, result model.CalculatedQuote, material model.MaterialDefinition) error {
	labels := CollectLabelInfos(spec, result, material)
	if len(labels) == 0 {
		return fmt.Errorf("no parts to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label %d: %w", label.Index, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border as cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d", info.Index)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, truncate(pdf, pdfText(info.PartName), textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, truncate(pdf, pdfText(info.Material), textW), "", 1, "L", false, 0, "")
	pdf.SetXY(textX, y+labelPadding+8.5)
	pdf.CellFormat(textW, 3.5, truncate(pdf, info.Dimensions, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+12.5)
	pdf.CellFormat(textW, 3, fmt.Sprintf("%d / %d", info.Index, info.Of), "", 1, "L", false, 0, "")

	if info.Scrap {
		pdf.SetXY(textX, y+labelPadding+16)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, "Scrap allowance", "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// truncate shortens s with an ellipsis until it fits width.
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
