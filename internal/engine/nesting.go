package engine

import (
	"math"

	"github.com/piwi3910/SlabQuote/internal/model"
)

// Reference bar lengths (mm) reported for every bar quote.
const (
	BarLength3m = 3000.0
	BarLength6m = 6000.0
)

// StandardBarLengths lists the reference bars in report order.
var StandardBarLengths = []float64{BarLength3m, BarLength6m}

// DefaultSheetGap is the spacing (mm) kept between parts on a sheet.
const DefaultSheetGap = 5.0

// noFitLength replaces a non-positive effective length so the per-bar
// count comes out as zero instead of dividing by zero.
const noFitLength = 999999.0

// maxCount caps every per-bar and per-sheet count. Quotients of a tiny
// part against a large stock exceed the int range and would otherwise
// convert to a negative or undefined value.
const maxCount = math.MaxInt32

// floorCount converts a non-negative quotient to a count, rounding down.
// NaN and non-positive quotients give 0.
func floorCount(q float64) int {
	if math.IsNaN(q) || q <= 0 {
		return 0
	}
	if q >= maxCount {
		return maxCount
	}
	return int(math.Floor(q))
}

// ceilCount is floorCount rounding up.
func ceilCount(q float64) int {
	if math.IsNaN(q) || q <= 0 {
		return 0
	}
	if q >= maxCount {
		return maxCount
	}
	return int(math.Ceil(q))
}

// wasteFactor turns a cut-off waste percentage into a multiplier.
func wasteFactor(wastePercent float64) float64 {
	return 1.0 + (wastePercent / 100.0)
}

// NestBar computes the linear nesting of one part length on one bar.
//
// BarsNeeded is derived from the total length of the batch, not from
// PiecesPerBar, so it can be lower than ceil(total/PiecesPerBar) when the
// bar remainder is large. This approximation is intentional.
func NestBar(barLength, partLength, wastePercent float64, totalCount int) model.BarNesting {
	effective := partLength * wasteFactor(wastePercent)

	safe := effective
	if safe <= 0 {
		safe = noFitLength
	}

	result := model.BarNesting{
		BarLength:       barLength,
		EffectiveLength: effective,
	}
	if barLength <= 0 {
		return result
	}

	pieces := floorCount(barLength / safe)
	used := float64(pieces) * safe
	result.PiecesPerBar = pieces
	result.Utilization = used / barLength
	result.Remainder = barLength - used

	if effective > 0 && totalCount > 0 {
		result.TotalLengthNeeded = effective * float64(totalCount)
		result.BarsNeeded = ceilCount(result.TotalLengthNeeded / barLength)
	}
	return result
}

// NestBars runs NestBar for every length in barLengths.
func NestBars(barLengths []float64, partLength, wastePercent float64, totalCount int) []model.BarNesting {
	out := make([]model.BarNesting, 0, len(barLengths))
	for _, bl := range barLengths {
		out = append(out, NestBar(bl, partLength, wastePercent, totalCount))
	}
	return out
}

// gridFit counts how many cells of cellW x cellL fit on a sheet.
func gridFit(sheetW, sheetL, cellW, cellL float64) (cols, rows int) {
	if cellW <= 0 || cellL <= 0 {
		return 0, 0
	}
	return floorCount(sheetW / cellW), floorCount(sheetL / cellL)
}

// NestSheet computes how many parts of partW x partL fit on a sheetW x sheetL
// stock sheet and how many sheets the batch needs.
//
// The grid fit tries the part as entered and rotated by 90°, keeping the
// rotated layout only when it holds strictly more parts. The pricing count
// is the smaller of the grid fit and the area fit (gross part area inflated
// by wastePercent), so the quoted sheet count never undercounts stock.
func NestSheet(sheetW, sheetL, partW, partL, gap, wastePercent float64, totalCount int) model.SheetNesting {
	result := model.SheetNesting{
		SheetWidth:  sheetW,
		SheetLength: sheetL,
		PartWidth:   partW,
		PartLength:  partL,
		Gap:         gap,
	}
	sheetArea := sheetW * sheetL
	partArea := partW * partL
	if sheetArea <= 0 || partW <= 0 || partL <= 0 {
		return result
	}

	// Standard: part width across the sheet width
	colsStd, rowsStd := gridFit(sheetW, sheetL, partW+gap, partL+gap)
	// Rotated: part length across the sheet width
	colsRot, rowsRot := gridFit(sheetW, sheetL, partL+gap, partW+gap)

	countStd := floorCount(float64(colsStd) * float64(rowsStd))
	countRot := floorCount(float64(colsRot) * float64(rowsRot))
	if countRot > countStd {
		result.Rotated = true
		result.Columns, result.Rows = colsRot, rowsRot
		result.GeometricFit = countRot
	} else {
		result.Columns, result.Rows = colsStd, rowsStd
		result.GeometricFit = countStd
	}

	grossArea := partArea * wasteFactor(wastePercent)
	if grossArea > 0 {
		result.AreaFit = floorCount(sheetArea / grossArea)
	}

	effective := result.GeometricFit
	if result.AreaFit < effective {
		effective = result.AreaFit
	}
	if effective < 0 {
		effective = 0
	}
	result.EffectivePartsPerSheet = effective

	if effective > 0 && totalCount > 0 {
		result.SheetsNeeded = ceilCount(float64(totalCount) / float64(effective))
	}

	result.DisplayUtilization = float64(result.GeometricFit) * partArea / sheetArea
	if grossArea > 0 {
		result.PricingUtilization = float64(effective) * grossArea / sheetArea
	}
	return result
}
