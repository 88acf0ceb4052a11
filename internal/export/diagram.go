package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/SlabQuote/internal/model"
)

type partColor struct {
	R, G, B int
}

var partColors = []partColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 121, G: 85, B: 72},  // brown
}

// Above these counts, or when a cell is thinner than minDrawnSize on paper,
// the parts are drawn as one block covering the used area.
const (
	maxDrawnCells  = 2000
	maxDrawnPieces = 200
	minDrawnSize   = 0.5 // mm

	barStripHeight = 12.0
	barStripGap    = 14.0
)

// renderStockLayoutPage adds a page with the stock diagram: the nested
// grid on the sheet for sheet quotes, one strip per reference bar for bar
// quotes. Nothing is added when there is no stock to draw.
func renderStockLayoutPage(pdf *fpdf.Fpdf, spec model.QuoteSpec, result model.CalculatedQuote) {
	if result.Sheet == nil && len(result.Bars) == 0 {
		return
	}
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(contentWidth, 8, "Stock Layout", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	y := marginTop + 9
	for _, line := range NestingLines(spec, result) {
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(contentWidth, 5, line, "", 0, "L", false, 0, "")
		y += 5
	}
	y += 6

	// Leave room for the left-hand dimension label.
	x := marginLeft + 8
	w := contentWidth - 8
	h := pageHeight - marginBottom - 10 - y
	if result.Sheet != nil {
		renderSheetDiagram(pdf, x, y, w, h, *result.Sheet)
	} else {
		renderBarDiagram(pdf, x, y, w, result.Bars)
	}
	renderFooter(pdf)
}

// renderSheetDiagram draws the stock sheet scaled into the w x h box at
// (x, y), with the sheet width running across the page, and the grid of
// parts from the nesting result.
func renderSheetDiagram(pdf *fpdf.Fpdf, x, y, w, h float64, s model.SheetNesting) {
	if s.SheetWidth <= 0 || s.SheetLength <= 0 || w <= 0 || h <= 0 {
		return
	}
	scale := math.Min(w/s.SheetWidth, h/s.SheetLength)
	canvasW := s.SheetWidth * scale
	canvasH := s.SheetLength * scale
	offsetX := x + (w-canvasW)/2
	offsetY := y

	pdf.SetFillColor(210, 180, 140)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	partW, partL := s.PartWidth, s.PartLength
	if s.Rotated {
		partW, partL = partL, partW
	}
	cellW := (partW + s.Gap) * scale
	cellH := (partL + s.Gap) * scale
	pw := partW * scale
	ph := partL * scale

	cells := float64(s.Columns) * float64(s.Rows)
	switch {
	case cells <= 0:
	case cells > maxDrawnCells || pw < minDrawnSize || ph < minDrawnSize:
		usedW := math.Min(float64(s.Columns)*cellW, canvasW)
		usedH := math.Min(float64(s.Rows)*cellH, canvasH)
		col := partColors[0]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(offsetX, offsetY, usedW, usedH, "FD")
		drawCentredLabel(pdf, offsetX, offsetY, usedW, usedH,
			fmt.Sprintf("%d x %d parts", s.Columns, s.Rows), "")
	default:
		dims := fmt.Sprintf("%.0fx%.0f", partW, partL)
		n := 0
		for row := 0; row < s.Rows; row++ {
			for c := 0; c < s.Columns; c++ {
				col := partColors[n%len(partColors)]
				n++
				px := offsetX + float64(c)*cellW
				py := offsetY + float64(row)*cellH

				pdf.SetFillColor(col.R, col.G, col.B)
				pdf.SetDrawColor(30, 30, 30)
				pdf.SetLineWidth(0.3)
				pdf.Rect(px, py, pw, ph, "FD")
				drawCentredLabel(pdf, px, py, pw, ph, fmt.Sprintf("%d", n), dims)
			}
		}
	}

	drawDimensionAnnotations(pdf, s.SheetWidth, s.SheetLength, offsetX, offsetY, canvasW, canvasH)
}

// renderBarDiagram draws one strip per bar, scaled against the longest bar,
// with the cut pieces followed by the remainder.
func renderBarDiagram(pdf *fpdf.Fpdf, x, y, w float64, bars []model.BarNesting) {
	longest := 0.0
	for _, b := range bars {
		longest = math.Max(longest, b.BarLength)
	}
	if longest <= 0 || w <= 0 {
		return
	}
	scale := w / longest

	for i, b := range bars {
		if b.BarLength <= 0 {
			continue
		}
		stripW := b.BarLength * scale

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetXY(x, y)
		pdf.CellFormat(w, 5, fmt.Sprintf("%g m bar", b.BarLength/1000), "", 0, "L", false, 0, "")
		y += 5

		pdf.SetFillColor(210, 180, 140)
		pdf.SetDrawColor(100, 100, 100)
		pdf.SetLineWidth(0.5)
		pdf.Rect(x, y, stripW, barStripHeight, "FD")

		pieceW := b.EffectiveLength * scale
		usedW := math.Min(float64(b.PiecesPerBar)*pieceW, stripW)
		switch {
		case b.PiecesPerBar <= 0:
		case b.PiecesPerBar > maxDrawnPieces || pieceW < minDrawnSize:
			col := partColors[i%len(partColors)]
			pdf.SetFillColor(col.R, col.G, col.B)
			pdf.SetDrawColor(30, 30, 30)
			pdf.SetLineWidth(0.3)
			pdf.Rect(x, y, usedW, barStripHeight, "FD")
			drawCentredLabel(pdf, x, y, usedW, barStripHeight, fmt.Sprintf("%d pcs", b.PiecesPerBar), "")
		default:
			for p := 0; p < b.PiecesPerBar; p++ {
				col := partColors[p%len(partColors)]
				px := x + float64(p)*pieceW
				pdf.SetFillColor(col.R, col.G, col.B)
				pdf.SetDrawColor(30, 30, 30)
				pdf.SetLineWidth(0.3)
				pdf.Rect(px, y, pieceW, barStripHeight, "FD")
				drawCentredLabel(pdf, px, y, pieceW, barStripHeight, fmt.Sprintf("%d", p+1), "")
			}
		}

		if remW := stripW - usedW; remW > 0 && b.Remainder > 0 {
			pdf.SetFillColor(200, 200, 200)
			pdf.SetDrawColor(100, 100, 100)
			pdf.SetLineWidth(0.3)
			pdf.Rect(x+usedW, y, remW, barStripHeight, "FD")
			drawCentredLabel(pdf, x+usedW, y, remW, barStripHeight, fmt.Sprintf("%.0f mm", b.Remainder), "")
		}

		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(80, 80, 80)
		label := fmt.Sprintf("%.0f mm", b.BarLength)
		labelW := pdf.GetStringWidth(label)
		pdf.SetXY(x+(stripW-labelW)/2, y+barStripHeight+1)
		pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)

		y += barStripHeight + barStripGap
	}
}

// drawCentredLabel writes label, and dims below it, in the middle of a
// rectangle when the rectangle is large enough to hold them.
func drawCentredLabel(pdf *fpdf.Fpdf, x, y, w, h float64, label, dims string) {
	if w <= 8 || h <= 6 {
		return
	}
	pdf.SetFont("Helvetica", "", labelFontSize(w, h))
	pdf.SetTextColor(0, 0, 0)

	labelW := pdf.GetStringWidth(label)
	if labelW < w-2 {
		pdf.SetXY(x+(w-labelW)/2, y+h/2-2)
		if dims != "" && h > 14 {
			pdf.SetXY(x+(w-labelW)/2, y+h/2-4)
		}
		pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
	}

	if dims == "" || h <= 14 {
		return
	}
	dimsW := pdf.GetStringWidth(dims)
	if dimsW < w-2 {
		pdf.SetXY(x+(w-dimsW)/2, y+h/2)
		pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
	}
}

// drawDimensionAnnotations labels the width below the stock and the
// length, rotated, to its left.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, width, length, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.0f mm", width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	lengthLabel := fmt.Sprintf("%.0f mm", length)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	lLabelW := pdf.GetStringWidth(lengthLabel)
	pdf.SetXY(offsetX-3-lLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(lLabelW, 4, lengthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
