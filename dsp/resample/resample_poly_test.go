package resample

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-streamdsp/dsp/array"
	"github.com/cwbudde/algo-streamdsp/dsp/core"
	"github.com/cwbudde/algo-streamdsp/internal/testutil"
)

func TestResamplePoly(t *testing.T) {
	tests := []struct {
		name     string
		x        []float64
		up, down int
		h        []float64
		want     []float64
	}{
		{
			name: "upsample linear",
			x:    []float64{1, 2, 3},
			up:   2, down: 1,
			h:    []float64{0.25, 0.5, 0.25},
			want: []float64{1, 1.5, 2, 2.5, 3, 1.5},
		},
		{
			name: "decimate impulse window",
			x:    []float64{1, 2, 3, 4, 5, 6},
			up:   1, down: 2,
			h:    []float64{1},
			want: []float64{1, 3, 5},
		},
		{
			name: "unity ratio copies",
			x:    []float64{4, 5, 6},
			up:   3, down: 3,
			h:    []float64{1, 2, 3},
			want: []float64{4, 5, 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResamplePoly(tt.x, tt.up, tt.down, tt.h)
			if err != nil {
				t.Fatalf("ResamplePoly() error = %v", err)
			}
			testutil.RequireSliceNearlyEqual(t, got, tt.want, 1e-12)
		})
	}
}

func TestResamplePolyLength(t *testing.T) {
	x := testutil.DeterministicNoise(3, 1, 101)

	for _, r := range [][2]int{{1, 2}, {2, 1}, {3, 2}, {2, 3}, {5, 7}, {4, 6}} {
		got, err := ResamplePoly(x, r[0], r[1], nil)
		if err != nil {
			t.Fatalf("ResamplePoly(%d/%d) error = %v", r[0], r[1], err)
		}

		want := core.CeilDiv(len(x)*r[0], r[1])
		if len(got) != want {
			t.Fatalf("ResamplePoly(%d/%d) len = %d, want %d", r[0], r[1], len(got), want)
		}
		testutil.RequireFinite(t, got)
	}
}

func TestResamplePolyPreservesLowFrequency(t *testing.T) {
	x := testutil.DeterministicSine(10, 1000, 1, 2000)

	got, err := ResamplePoly(x, 3, 2, nil)
	if err != nil {
		t.Fatalf("ResamplePoly() error = %v", err)
	}

	want := testutil.DeterministicSine(10, 1500, 1, len(got))
	for i := 200; i < len(got)-200; i++ {
		if math.Abs(got[i]-want[i]) > 1e-2 {
			t.Fatalf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestResamplePolyErrors(t *testing.T) {
	if _, err := ResamplePoly([]float64{1}, 0, 1, nil); !errors.Is(err, ErrInvalidRatio) {
		t.Fatalf("zero up error = %v, want ErrInvalidRatio", err)
	}

	if _, err := ResamplePoly([]float64{1}, 2, -1, nil); !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("negative down error = %v, want ErrConfiguration", err)
	}

	if _, err := ResamplePoly([]float64{1}, 2, 1, []float64{}); !errors.Is(err, ErrEmptyWindow) {
		t.Fatalf("empty window error = %v, want ErrEmptyWindow", err)
	}
}

func TestResamplePolyAlong(t *testing.T) {
	a := testutil.DeterministicNoise(4, 1, 64)
	b := testutil.DeterministicSine(3, 64, 1, 64)

	rows, err := array.FromRows([][]float64{a, b})
	if err != nil {
		t.Fatal(err)
	}

	got, err := ResamplePolyAlong(rows, 3, 4, nil, -1)
	if err != nil {
		t.Fatalf("ResamplePolyAlong() error = %v", err)
	}

	testutil.RequireShape(t, got, 2, 48)

	for k, lane := range [][]float64{a, b} {
		want, err := ResamplePoly(lane, 3, 4, nil)
		if err != nil {
			t.Fatal(err)
		}
		testutil.RequireSliceNearlyEqual(t, got.Lane(1, k), want, 1e-12)
	}

	if _, err := ResamplePolyAlong(rows, 1, 2, nil, 2); !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("bad axis error = %v, want ErrConfiguration", err)
	}
}

func TestUpfirdnLen(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	h := []float64{1, 1, 1, 1}

	for _, r := range [][2]int{{1, 1}, {2, 1}, {1, 3}, {3, 2}} {
		got := upfirdn(h, x, r[0], r[1])
		if want := upfirdnLen(len(h), len(x), r[0], r[1]); len(got) != want {
			t.Fatalf("upfirdn(%d/%d) len = %d, want %d", r[0], r[1], len(got), want)
		}
	}

	got := upfirdn(h, x, 1, 1)
	testutil.RequireSliceNearlyEqual(t, got, []float64{1, 3, 6, 10, 14, 12, 9, 5}, 1e-12)
}
