package testutil

import (
	"math"
	"testing"
)

type shape []int

func (s shape) Shape() []int { return s }

func TestMaxAbsDiff(t *testing.T) {
	cases := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 0},
		{"one off", []float64{1, 2, 3}, []float64{1, 2.5, 3}, 0.5},
		{"sign", []float64{-1, 0}, []float64{1, 0}, 2},
		{"empty", nil, nil, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MaxAbsDiff(tc.a, tc.b)
			if err != nil {
				t.Fatalf("MaxAbsDiff() error = %v", err)
			}
			if got != tc.want {
				t.Fatalf("MaxAbsDiff() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMaxAbsDiffNaN(t *testing.T) {
	got, err := MaxAbsDiff([]float64{0, math.NaN()}, []float64{0, 0})
	if err != nil {
		t.Fatalf("MaxAbsDiff() error = %v", err)
	}
	if !math.IsNaN(got) {
		t.Fatalf("MaxAbsDiff() = %v, want NaN", got)
	}
}

func TestMaxAbsDiffLengthMismatch(t *testing.T) {
	if _, err := MaxAbsDiff([]float64{1}, []float64{1, 2}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestRequireHelpersPass(t *testing.T) {
	RequireSliceNearlyEqual(t, []float64{1, 2}, []float64{1 + 1e-10, 2}, 1e-9)
	RequireShape(t, shape{2, 3}, 2, 3)
	RequireFinite(t, []float64{0, -1, 1e300})
}
