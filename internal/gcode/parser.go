// Package gcode reads CNC programs and estimates how long one part takes
// to machine, so operation times can come from the actual NC program.
package gcode

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// MoveType represents the type of CNC toolpath movement.
type MoveType int

const (
	MoveRapid   MoveType = iota // G0: rapid positioning (no cutting)
	MoveFeed                    // G1: linear feed (cutting move)
	MovePlunge                  // G1 with Z decreasing and no XY motion
	MoveRetract                 // Z increasing and no XY motion
	MoveArc                     // G2/G3: circular feed
)

func (t MoveType) String() string {
	switch t {
	case MoveRapid:
		return "rapid"
	case MoveFeed:
		return "feed"
	case MovePlunge:
		return "plunge"
	case MoveRetract:
		return "retract"
	case MoveArc:
		return "arc"
	default:
		return fmt.Sprintf("MoveType(%d)", int(t))
	}
}

// Move is a single motion in absolute millimetre coordinates.
type Move struct {
	Type     MoveType
	FromX    float64
	FromY    float64
	FromZ    float64
	ToX      float64
	ToY      float64
	ToZ      float64
	FeedRate float64 // mm/min, 0 when the program never set one
	Length   float64 // path length in mm
	Line     int
}

// Rapid reports whether the move runs at the machine's rapid rate.
func (m Move) Rapid() bool {
	return m.Type == MoveRapid || (m.Type == MoveRetract && m.FeedRate == 0)
}

// state is the modal machine state carried between blocks.
type state struct {
	x, y, z  float64
	feed     float64 // mm/min
	motion   int     // 0..3, -1 before the first motion word
	inch     bool
	relative bool
}

// Parse reads a program and returns its motions. Coordinates are tracked
// modally: a block without a G word repeats the last motion mode. G20/G21
// switch units and G90/G91 switch between absolute and incremental
// positioning. Words the estimator does not need are ignored.
func Parse(r io.Reader) ([]Move, error) {
	var moves []Move
	st := state{motion: -1}

	sc := bufio.NewScanner(r)
	lineNum := 0
	for sc.Scan() {
		lineNum++
		words, err := splitWords(stripComments(sc.Text()))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if len(words) == 0 {
			continue
		}
		if m, ok := st.apply(words); ok {
			m.Line = lineNum
			moves = append(moves, m)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}
	return moves, nil
}

// ParseString is Parse for an in-memory program.
func ParseString(code string) ([]Move, error) {
	return Parse(strings.NewReader(code))
}

// stripComments removes ";" line comments and "( )" block comments.
func stripComments(line string) string {
	if idx := strings.Index(line, ";"); idx >= 0 {
		line = line[:idx]
	}
	for {
		start := strings.Index(line, "(")
		if start < 0 {
			break
		}
		end := strings.Index(line[start:], ")")
		if end < 0 {
			line = line[:start]
			break
		}
		line = line[:start] + line[start+end+1:]
	}
	return strings.TrimSpace(line)
}

type word struct {
	letter byte
	value  float64
}

// splitWords tokenizes a block such as "N10 G1X10.5 Y-2 F300".
func splitWords(line string) ([]word, error) {
	var words []word
	s := strings.ToUpper(line)
	for i := 0; i < len(s); {
		c := s[i]
		if c == ' ' || c == '\t' || c == '%' {
			i++
			continue
		}
		if c < 'A' || c > 'Z' {
			return nil, fmt.Errorf("unexpected %q", c)
		}
		j := i + 1
		for j < len(s) && (s[j] == ' ' || s[j] == '\t') {
			j++
		}
		k := j
		for k < len(s) && strings.IndexByte("+-.0123456789", s[k]) >= 0 {
			k++
		}
		v, err := strconv.ParseFloat(s[j:k], 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q after %c", s[j:k], c)
		}
		words = append(words, word{letter: c, value: v})
		i = k
	}
	return words, nil
}

// apply updates the state with one block and returns the motion it
// produced, if any.
func (st *state) apply(words []word) (Move, bool) {
	var (
		hasAxis bool
		x, y, z = st.x, st.y, st.z
		i, j    float64
		scale   = 1.0
	)

	// Modal words first, so G20/G21 apply to coordinates of the same block
	for _, w := range words {
		if w.letter != 'G' {
			continue
		}
		switch g := int(math.Round(w.value)); g {
		case 0, 1, 2, 3:
			st.motion = g
		case 20:
			st.inch = true
		case 21:
			st.inch = false
		case 90:
			st.relative = false
		case 91:
			st.relative = true
		}
	}
	if st.inch {
		scale = 25.4
	}

	for _, w := range words {
		v := w.value * scale
		switch w.letter {
		case 'X':
			x, hasAxis = axis(st.x, v, st.relative), true
		case 'Y':
			y, hasAxis = axis(st.y, v, st.relative), true
		case 'Z':
			z, hasAxis = axis(st.z, v, st.relative), true
		case 'I':
			i = v
		case 'J':
			j = v
		case 'F':
			st.feed = v
		}
	}
	if !hasAxis || st.motion < 0 {
		return Move{}, false
	}

	m := Move{
		FromX: st.x, FromY: st.y, FromZ: st.z,
		ToX: x, ToY: y, ToZ: z,
		FeedRate: st.feed,
	}
	switch st.motion {
	case 2, 3:
		m.Type = MoveArc
		m.Length = arcLength(m, st.x+i, st.y+j, st.motion == 2)
	default:
		m.Type = classifyMove(st.motion == 0, st.z, z, st.x, st.y, x, y)
		m.Length = math.Sqrt((x-st.x)*(x-st.x) + (y-st.y)*(y-st.y) + (z-st.z)*(z-st.z))
	}
	if st.motion == 0 {
		m.FeedRate = 0
	}
	st.x, st.y, st.z = x, y, z
	return m, true
}

func axis(cur, v float64, relative bool) float64 {
	if relative {
		return cur + v
	}
	return v
}

// classifyMove determines the MoveType of a straight move.
func classifyMove(isRapid bool, fromZ, toZ, fromX, fromY, toX, toY float64) MoveType {
	zDelta := toZ - fromZ
	hasXY := fromX != toX || fromY != toY

	switch {
	case isRapid:
		if zDelta > 0 && !hasXY {
			return MoveRetract
		}
		return MoveRapid
	case zDelta < -0.001 && !hasXY:
		return MovePlunge
	case zDelta > 0.001 && !hasXY:
		return MoveRetract
	default:
		return MoveFeed
	}
}

// arcLength measures an XY arc around (cx, cy), including any helical Z
// travel. Equal start and end points describe a full circle.
func arcLength(m Move, cx, cy float64, clockwise bool) float64 {
	r := math.Hypot(m.FromX-cx, m.FromY-cy)
	a0 := math.Atan2(m.FromY-cy, m.FromX-cx)
	a1 := math.Atan2(m.ToY-cy, m.ToX-cx)

	sweep := a1 - a0
	if clockwise {
		sweep = a0 - a1
	}
	for sweep <= 1e-9 {
		sweep += 2 * math.Pi
	}
	planar := r * sweep
	dz := m.ToZ - m.FromZ
	return math.Sqrt(planar*planar + dz*dz)
}
