package biquad

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-streamdsp/dsp/core"
)

var (
	// ErrSOSShape is returned for second-order-section matrices that are
	// not n×6 or have no rows.
	ErrSOSShape = fmt.Errorf("biquad: %w: second-order sections must be n x 6", core.ErrConfiguration)

	// ErrZeroA0 is returned when a section's leading denominator
	// coefficient is zero.
	ErrZeroA0 = fmt.Errorf("biquad: %w: a0 must be non-zero", core.ErrConfiguration)

	// ErrUnityPole is returned by SteadyStateZi for a section with a pole
	// at z = 1, whose step response has no steady state.
	ErrUnityPole = errors.New("biquad: section has a pole at z = 1")
)

// ParseSOS converts rows of [b0 b1 b2 a0 a1 a2] into normalized
// coefficients. Every row is divided by its a0.
func ParseSOS(rows [][]float64) ([]Coefficients, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no sections", ErrSOSShape)
	}

	out := make([]Coefficients, len(rows))

	for i, r := range rows {
		if len(r) != 6 {
			return nil, fmt.Errorf("%w: row %d has %d columns", ErrSOSShape, i, len(r))
		}

		a0 := r[3]
		if a0 == 0 {
			return nil, fmt.Errorf("%w: row %d", ErrZeroA0, i)
		}

		out[i] = Coefficients{
			B0: r[0] / a0,
			B1: r[1] / a0,
			B2: r[2] / a0,
			A1: r[4] / a0,
			A2: r[5] / a0,
		}
	}

	return out, nil
}

// Rows returns coeffs as an n×6 matrix [b0 b1 b2 1 a1 a2].
func Rows(coeffs []Coefficients) [][]float64 {
	out := make([][]float64, len(coeffs))
	for i, c := range coeffs {
		out[i] = []float64{c.B0, c.B1, c.B2, 1, c.A1, c.A2}
	}

	return out
}

// SteadyStateZi returns the initial delay lines for which a unit step
// input produces the steady-state output from the first sample on.
//
// Each section's state is the steady state of its own step response, scaled
// by the DC gain of the sections before it. Multiply by the first input
// sample to start a signal without a transient.
func SteadyStateZi(coeffs []Coefficients) (State, error) {
	if len(coeffs) == 0 {
		return nil, fmt.Errorf("%w: no sections", ErrSOSShape)
	}

	zi := make(State, len(coeffs))
	scale := 1.0

	for i, c := range coeffs {
		den := 1 + c.A1 + c.A2
		if den == 0 {
			return nil, fmt.Errorf("%w: section %d", ErrUnityPole, i)
		}

		yss := (c.B0 + c.B1 + c.B2) / den
		z1 := c.B2 - c.A2*yss
		z0 := c.B1 - c.A1*yss + z1

		zi[i] = [2]float64{scale * z0, scale * z1}
		scale *= yss
	}

	return zi, nil
}
