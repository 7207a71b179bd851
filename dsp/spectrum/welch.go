package spectrum

import (
	"fmt"
	"iter"

	"github.com/cwbudde/algo-streamdsp/dsp/array"
	"github.com/cwbudde/algo-streamdsp/dsp/core"
	"github.com/cwbudde/algo-streamdsp/dsp/stream"
	"gonum.org/v1/gonum/floats"
)

// ErrNoSegments is returned by PSD when the signal is shorter than one
// segment.
var ErrNoSegments = fmt.Errorf("spectrum: %w: signal shorter than one segment", core.ErrBounds)

// Welch returns the frequencies and a sequence of modified periodograms,
// one per overlapping segment of nfft samples of p. Each estimate has the
// shape of p with nfft/2+1 frequencies along the sample axis. Averaging the
// estimates gives Welch's power spectrum estimate.
func Welch(p stream.Producer, fs float64, nfft int, opts ...Option) ([]float64, iter.Seq2[*array.Array, error], error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, nil, err
	}

	ax, err := cfg.sampleAxis(len(p.Shape()), p.Axis())
	if err != nil {
		return nil, nil, err
	}

	e, err := newEstimator(fs, nfft, nfft, cfg)
	if err != nil {
		return nil, nil, err
	}

	seq, err := Segments(p, nfft, cfg.overlap, ax, func(seg *array.Array) (*array.Array, error) {
		return e.periodogram(seg, ax), nil
	})
	if err != nil {
		return nil, nil, err
	}

	return Freqs(nfft, fs), seq, nil
}

// PSD estimates the power spectrum of p with Welch's method at a frequency
// resolution set by WithResolution, using nfft = fs/resolution. It returns
// the number of averaged segments, the frequencies and their mean, which is
// accumulated incrementally without storing the segments.
func PSD(p stream.Producer, fs float64, opts ...Option) (int, []float64, *array.Array, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return 0, nil, nil, err
	}

	nfft := int(fs / cfg.resolution)

	freqs, seq, err := Welch(p, fs, nfft, opts...)
	if err != nil {
		return 0, nil, nil, err
	}

	var (
		count int
		mean  *array.Array
	)

	for est, err := range seq {
		if err != nil {
			return 0, nil, nil, err
		}

		count++
		if mean == nil {
			mean = est
			continue
		}

		// mean += (est - mean) / count
		delta := est.Data()
		floats.Sub(delta, mean.Data())
		floats.AddScaled(mean.Data(), 1/float64(count), delta)
	}

	if count == 0 {
		return 0, nil, nil, ErrNoSegments
	}

	return count, freqs, mean, nil
}
