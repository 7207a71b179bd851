package core

import "math"

// NearlyEqual reports whether a and b agree within eps, absolutely for
// values near zero and relative to the larger magnitude otherwise. eps <= 0
// selects 1e-12.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = 1e-12
	}

	diff := math.Abs(a - b)
	scale := max(1, math.Abs(a), math.Abs(b))

	return diff <= eps*scale
}

// DBToLinear maps an amplitude level in dB to a linear gain.
func DBToLinear(db float64) float64 { return math.Pow(10, db/20) }

// LinearToDB maps a linear gain to dB: -Inf for 0, NaN for negative gains.
func LinearToDB(gain float64) float64 {
	switch {
	case gain < 0:
		return math.NaN()
	case gain == 0:
		return math.Inf(-1)
	}
	return 20 * math.Log10(gain)
}

// CeilDiv returns ceil(a/b) for a >= 0 and b > 0.
func CeilDiv(a, b int) int { return (a + b - 1) / b }
