package engine

import (
	"math"

	"github.com/piwi3910/SlabQuote/internal/model"
)

// mmPerInch is the exact inch to millimeter factor.
const mmPerInch = 25.4

// ToMillimeters normalizes a length entered in the given unit to mm.
// Non-finite input is treated as 0.
func ToMillimeters(value float64, unit model.Unit) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	if unit == model.UnitInch {
		return value * mmPerInch
	}
	return value
}

// normalizedDimensions returns length, width and height in mm.
func normalizedDimensions(d model.Dimensions) (l, w, h float64) {
	return ToMillimeters(d.Length, d.Unit), ToMillimeters(d.Width, d.Unit), ToMillimeters(d.Height, d.Unit)
}
