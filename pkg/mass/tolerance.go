package mass

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unit selects how a tolerance value is interpreted.
type Unit int

const (
	// Dalton means an absolute mass window in Da.
	Dalton Unit = iota
	// PPM means a window relative to the compared masses, in parts per million.
	PPM
)

func (u Unit) String() string {
	if u == PPM {
		return "ppm"
	}
	return "da"
}

// Tolerance is the maximum allowed distance for two masses to be treated as
// equal, either absolute (Da) or relative (ppm).
type Tolerance struct {
	Value float64
	Unit  Unit
}

// Da builds an absolute tolerance. The value is validated on use.
func Da(v float64) Tolerance { return Tolerance{Value: v, Unit: Dalton} }

// Ppm builds a relative tolerance in parts per million.
func Ppm(v float64) Tolerance { return Tolerance{Value: v, Unit: PPM} }

// NewTolerance validates and builds a tolerance.
func NewTolerance(v float64, unit Unit) (Tolerance, error) {
	t := Tolerance{Value: v, Unit: unit}
	if err := t.Validate(); err != nil {
		return Tolerance{}, err
	}
	return t, nil
}

// ParseTolerance parses strings like "10ppm", "0.5da", or a bare number
// (interpreted as Da).
func ParseTolerance(s string) (Tolerance, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	unit := Dalton
	switch {
	case strings.HasSuffix(in, "ppm"):
		unit = PPM
		in = strings.TrimSuffix(in, "ppm")
	case strings.HasSuffix(in, "da"):
		in = strings.TrimSuffix(in, "da")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(in), 64)
	if err != nil {
		return Tolerance{}, fmt.Errorf("invalid tolerance %q: %w", s, err)
	}
	return NewTolerance(v, unit)
}

// Validate rejects negative or non-finite tolerance values before any
// computation starts.
func (t Tolerance) Validate() error {
	if t.Value < 0 || math.IsNaN(t.Value) || math.IsInf(t.Value, 0) {
		return &InvalidToleranceError{Value: t.Value}
	}
	return nil
}

// Matches reports whether a and b are within the tolerance. A candidate at
// exactly the tolerance distance is included: the subtraction carries a
// rounding error proportional to the operand magnitude, so the window is
// widened by a few ULPs of the larger operand.
func (t Tolerance) Matches(a, b float64) bool {
	ref := math.Max(math.Abs(a), math.Abs(b))
	slack := 4 * (math.Nextafter(ref, math.Inf(1)) - ref)
	return math.Abs(a-b) <= t.Abs(ref)+slack
}

// Abs returns the absolute window width at the given reference mass.
func (t Tolerance) Abs(ref float64) float64 {
	if t.Unit == PPM {
		return t.Value * 1e-6 * math.Abs(ref)
	}
	return t.Value
}

func (t Tolerance) String() string {
	return fmt.Sprintf("%g%s", t.Value, t.Unit)
}
