package resample

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-streamdsp/dsp/array"
	"github.com/cwbudde/algo-streamdsp/dsp/core"
	"github.com/cwbudde/algo-streamdsp/dsp/window"
	"github.com/tphakala/simd/f64"
)

var (
	// ErrInvalidRatio indicates a non-positive up or down factor.
	ErrInvalidRatio = fmt.Errorf("resample: %w: up and down must be > 0", core.ErrConfiguration)

	// ErrEmptyWindow indicates a zero-length FIR window.
	ErrEmptyWindow = fmt.Errorf("resample: %w: empty FIR window", core.ErrConfiguration)
)

// defaultBeta is the Kaiser shape of the window designed when none is
// given.
const defaultBeta = 5.0

// ResamplePoly resamples x by up/down with the FIR window h, applied at the
// upsampled rate. A nil h designs a Kaiser windowed sinc with cutoff at
// 1/max(up, down) of Nyquist and 10*max(up, down) taps on each side. The
// output holds ceil(len(x)*up/down) samples after reducing up/down.
func ResamplePoly(x []float64, up, down int, h []float64) ([]float64, error) {
	f, err := newPolyFilter(up, down, h)
	if err != nil {
		return nil, err
	}

	return f.resample(x), nil
}

// ResamplePolyAlong applies ResamplePoly to every lane of arr along axis.
func ResamplePolyAlong(arr *array.Array, up, down int, h []float64, axis int) (*array.Array, error) {
	ax, err := core.NormalizeAxis(axis, arr.Ndim())
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}

	f, err := newPolyFilter(up, down, h)
	if err != nil {
		return nil, err
	}

	return f.resampleAlong(arr, ax), nil
}

// polyFilter holds a reduced ratio and its up-scaled FIR window.
type polyFilter struct {
	up, down int
	h        []float64
	halfLen  int
}

func newPolyFilter(up, down int, h []float64) (*polyFilter, error) {
	if up <= 0 || down <= 0 {
		return nil, fmt.Errorf("%w: %d/%d", ErrInvalidRatio, up, down)
	}

	g := gcd(up, down)
	up /= g
	down /= g

	if h == nil {
		h = defaultWindow(max(up, down))
	}
	if len(h) == 0 {
		return nil, ErrEmptyWindow
	}

	scaled := make([]float64, len(h))
	f64.Scale(scaled, h, float64(up))

	return &polyFilter{up: up, down: down, h: scaled, halfLen: (len(h) - 1) / 2}, nil
}

// outputLen returns ceil(n*up/down).
func (f *polyFilter) outputLen(n int) int {
	return core.CeilDiv(n*f.up, f.down)
}

func (f *polyFilter) resampleAlong(arr *array.Array, axis int) *array.Array {
	n := arr.Len(axis)
	return array.MapLanes(arr, axis, f.outputLen(n), func(_ int, dst, src []float64) {
		copy(dst, f.resample(src))
	})
}

// resample centers the window on every output sample by zero-padding it
// in front, then drops the samples produced by the padding.
func (f *polyFilter) resample(x []float64) []float64 {
	if f.up == 1 && f.down == 1 {
		return append([]float64(nil), x...)
	}

	n := len(x)
	nOut := f.outputLen(n)
	if n == 0 {
		return []float64{}
	}

	prePad := f.down - f.halfLen%f.down
	preRemove := (f.halfLen + prePad) / f.down

	postPad := 0
	for upfirdnLen(len(f.h)+prePad+postPad, n, f.up, f.down) < nOut+preRemove {
		postPad++
	}

	h := make([]float64, prePad+len(f.h)+postPad)
	copy(h[prePad:], f.h)

	y := upfirdn(h, x, f.up, f.down)

	return y[preRemove : preRemove+nOut]
}

// upfirdnLen returns the length of upfirdn's output for a filter of lenH
// taps and n input samples.
func upfirdnLen(lenH, n, up, down int) int {
	return ((n-1)*up+lenH-1)/down + 1
}

// upfirdn upsamples x by up, filters it with h and keeps every down-th
// sample. Each output sample only touches the polyphase branch of h that
// meets non-zero upsampled input.
func upfirdn(h, x []float64, up, down int) []float64 {
	out := make([]float64, upfirdnLen(len(h), len(x), up, down))

	// branches[p][j] holds h[p+(taps-1-j)*up], reversed so a branch lines up
	// with ascending input samples.
	taps := core.CeilDiv(len(h), up)
	branches := make([][]float64, up)
	for p := range branches {
		b := make([]float64, taps)
		for m := range taps {
			if k := p + m*up; k < len(h) {
				b[taps-1-m] = h[k]
			}
		}
		branches[p] = b
	}

	phase, index := 0, 0
	for k := range out {
		b := branches[phase]

		// Input samples index-taps+1 .. index, clipped to x.
		lo := index - taps + 1
		hi := index + 1
		bLo := 0
		if lo < 0 {
			bLo = -lo
			lo = 0
		}
		if hi > len(x) {
			hi = len(x)
		}

		if hi > lo {
			out[k] = f64.DotProduct(b[bLo:bLo+hi-lo], x[lo:hi])
		}

		phase += down
		index += phase / up
		phase %= up
	}

	return out
}

// defaultWindow designs the Kaiser windowed sinc used when no window is
// given, normalized to unit DC gain.
func defaultWindow(maxRate int) []float64 {
	halfLen := 10 * maxRate
	taps := 2*halfLen + 1
	cutoff := 1 / float64(maxRate)

	w := window.Generate(window.TypeKaiser, taps, window.WithAlpha(defaultBeta))

	h := make([]float64, taps)
	for n := range h {
		m := float64(n - halfLen)
		h[n] = cutoff * sinc(cutoff*m) * w[n]
	}

	if sum := f64.Sum(h); sum != 0 {
		f64.Scale(h, h, 1/sum)
	}

	return h
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}

	px := math.Pi * x

	return math.Sin(px) / px
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}

	return a
}
