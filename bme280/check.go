package bme280

import (
	"fmt"
	"math"
	"strings"
)

// DefaultTolerance is the relative difference accepted between both paths.
const DefaultTolerance = 1e-2

// Mismatch describes one quantity on which both paths disagree.
type Mismatch struct {
	Quantity string
	Fixed    float64
	Float    float64
	Relative float64
}

// MismatchError is returned by CrossCheck.
type MismatchError struct {
	Tolerance  float64
	Mismatches []Mismatch
}

func (e *MismatchError) Error() string {
	parts := make([]string, 0, len(e.Mismatches))
	for _, m := range e.Mismatches {
		parts = append(parts, fmt.Sprintf("%s fixed %g float %g (rel %.3g)", m.Quantity, m.Fixed, m.Float, m.Relative))
	}
	return fmt.Sprintf("bme280: paths disagree beyond %g: %s", e.Tolerance, strings.Join(parts, ", "))
}

// CrossCheck compares both results in °C, Pa and %RH. It returns a
// *MismatchError naming every quantity whose relative difference exceeds tol.
func CrossCheck(fixed Fixed, float Float, tol float64) error {
	t, p, h := fixed.Human()
	quantities := []struct {
		name         string
		fixed, float float64
	}{
		{"temperature", t, float.Temperature},
		{"pressure", p, float.Pressure},
		{"humidity", h, float.Humidity},
	}

	var mismatches []Mismatch
	for _, q := range quantities {
		if rel := relDiff(q.fixed, q.float); rel > tol || math.IsNaN(rel) {
			mismatches = append(mismatches, Mismatch{Quantity: q.name, Fixed: q.fixed, Float: q.float, Relative: rel})
		}
	}
	if len(mismatches) != 0 {
		return &MismatchError{Tolerance: tol, Mismatches: mismatches}
	}
	return nil
}

// relDiff is |a-b| over the larger magnitude; two zeros do not differ.
func relDiff(a, b float64) float64 {
	m := math.Max(math.Abs(a), math.Abs(b))
	if m == 0 {
		return 0
	}
	return math.Abs(a-b) / m
}
