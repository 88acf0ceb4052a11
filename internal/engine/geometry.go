package engine

import (
	"math"

	"github.com/piwi3910/SlabQuote/internal/model"
)

// areaFunc computes a bar cross-section area (mm²) from width and height (mm).
type areaFunc func(w, h float64) float64

// barAreas maps each bar profile to its cross-section formula.
// SHEET is absent: plate volume depends on the stock sheet, not on a profile.
var barAreas = map[model.CrossSection]areaFunc{
	model.CrossSectionRectangular: func(w, h float64) float64 {
		return w * h
	},
	model.CrossSectionRound: func(w, _ float64) float64 {
		// w is the diameter
		return math.Pi * math.Pow(w/2, 2)
	},
	model.CrossSectionHex: func(w, _ float64) float64 {
		// w is the distance across flats
		return (math.Sqrt(3) / 2) * math.Pow(w, 2)
	},
}

// CrossSectionArea returns the profile area in mm². The second return value
// is false for profiles without a bar area (SHEET, unknown).
func CrossSectionArea(cs model.CrossSection, w, h float64) (float64, bool) {
	fn, ok := barAreas[cs]
	if !ok {
		return 0, false
	}
	return fn(w, h), true
}

// BarVolume returns the volume (mm³) of a bar piece of the given length.
func BarVolume(area, length float64) float64 {
	return area * length
}

// PlateVolume returns the volume (mm³) of a rectangular plate.
func PlateVolume(length, width, thickness float64) float64 {
	return length * width * thickness
}

// WeightKg converts a volume in mm³ to kg for a density in g/cm³.
func WeightKg(volumeMm3, density float64) float64 {
	volumeCm3 := volumeMm3 / 1000
	return volumeCm3 * density / 1000
}
