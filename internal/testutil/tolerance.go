package testutil

import (
	"fmt"
	"math"
	"slices"
	"testing"
)

// Shaped is the part of a dense array the shape assertions need.
type Shaped interface {
	Shape() []int
}

// RequireSliceNearlyEqual fails t unless got and want have the same length
// and agree elementwise within the absolute tolerance eps. The first
// offending index is reported.
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()

	worst, err := MaxAbsDiff(got, want)
	if err != nil {
		t.Fatal(err)
	}
	if worst <= eps {
		return
	}

	for i := range got {
		if d := math.Abs(got[i] - want[i]); d > eps || math.IsNaN(d) {
			t.Fatalf("index %d: got %v, want %v (|diff| %v > %v, worst %v)", i, got[i], want[i], d, eps, worst)
		}
	}
}

// RequireShape fails t unless a has exactly the given shape.
func RequireShape(t testing.TB, a Shaped, want ...int) {
	t.Helper()

	if got := a.Shape(); !slices.Equal(got, want) {
		t.Fatalf("shape = %v, want %v", got, want)
	}
}

// RequireFinite fails t on the first NaN or Inf in data.
func RequireFinite(t testing.TB, data []float64) {
	t.Helper()

	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// MaxAbsDiff returns max |a[i]-b[i]|. A NaN on either side makes the result
// NaN.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("testutil: length mismatch: %d vs %d", len(a), len(b))
	}

	worst := 0.0
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if math.IsNaN(d) {
			return d, nil
		}
		worst = max(worst, d)
	}

	return worst, nil
}
