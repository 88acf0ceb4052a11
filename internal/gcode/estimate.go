package gcode

import (
	"fmt"
	"io"
	"os"
)

// Machine holds the rates the estimate is computed with.
type Machine struct {
	RapidRate   float64 // mm/min for G0 moves
	DefaultFeed float64 // mm/min when a program cuts before setting F
}

func DefaultMachine() Machine {
	return Machine{
		RapidRate:   10000,
		DefaultFeed: 1000,
	}
}

// Estimate is the machining time of one run of a program.
type Estimate struct {
	Moves          int
	CuttingLength  float64 // mm
	RapidLength    float64 // mm
	CuttingMinutes float64
	RapidMinutes   float64
	Warnings       []string
}

// Minutes is the total cycle time per part.
func (e Estimate) Minutes() float64 {
	return e.CuttingMinutes + e.RapidMinutes
}

// EstimateMoves sums travel time over moves. Tool changes, dwell and
// acceleration are not modelled, so the result is a lower bound.
func EstimateMoves(moves []Move, machine Machine) Estimate {
	est := Estimate{Moves: len(moves)}
	if machine.RapidRate <= 0 {
		machine.RapidRate = DefaultMachine().RapidRate
	}
	if machine.DefaultFeed <= 0 {
		machine.DefaultFeed = DefaultMachine().DefaultFeed
	}

	warnedFeed := false
	for _, m := range moves {
		if m.Rapid() {
			est.RapidLength += m.Length
			est.RapidMinutes += m.Length / machine.RapidRate
			continue
		}
		feed := m.FeedRate
		if feed <= 0 {
			feed = machine.DefaultFeed
			if !warnedFeed {
				est.Warnings = append(est.Warnings,
					fmt.Sprintf("line %d: feed move without F word, assuming %g mm/min", m.Line, feed))
				warnedFeed = true
			}
		}
		est.CuttingLength += m.Length
		est.CuttingMinutes += m.Length / feed
	}
	if len(moves) == 0 {
		est.Warnings = append(est.Warnings, "program contains no motion")
	}
	return est
}

// EstimateReader parses a program and estimates its cycle time.
func EstimateReader(r io.Reader, machine Machine) (Estimate, error) {
	moves, err := Parse(r)
	if err != nil {
		return Estimate{}, err
	}
	return EstimateMoves(moves, machine), nil
}

// EstimateFile estimates the cycle time of the program at path.
func EstimateFile(path string, machine Machine) (Estimate, error) {
	f, err := os.Open(path)
	if err != nil {
		return Estimate{}, fmt.Errorf("opening program: %w", err)
	}
	defer f.Close()
	return EstimateReader(f, machine)
}
