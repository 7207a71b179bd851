package spectrum

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-streamdsp/dsp/array"
	"github.com/cwbudde/algo-streamdsp/dsp/core"
	"github.com/cwbudde/algo-streamdsp/dsp/window"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Freqs returns the nfft/2+1 non-negative DFT frequencies in Hz for a
// sample rate fs.
func Freqs(nfft int, fs float64) []float64 {
	if nfft <= 0 {
		return nil
	}

	out := make([]float64, nfft/2+1)
	for i := range out {
		out[i] = float64(i) * fs / float64(nfft)
	}

	return out
}

// ModifiedDFT returns the frequencies and the windowed one-sided DFT of the
// real array arr along axis.
//
// Every lane is cropped to nfft samples when longer, detrended and tapered,
// then zero-padded to nfft before the transform. The result is scaled by
// sqrt(1/sum(w)^2) for ScalingSpectrum or sqrt(1/(fs*sum(w^2))) for
// ScalingDensity so that |X|^2 carries the requested units.
func ModifiedDFT(arr *array.Array, fs float64, nfft, axis int, opts ...Option) ([]float64, *array.Complex, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, nil, err
	}

	ax, err := core.NormalizeAxis(axis, arr.Ndim())
	if err != nil {
		return nil, nil, fmt.Errorf("spectrum: %w", err)
	}

	e, err := newEstimator(fs, nfft, min(nfft, arr.Len(ax)), cfg)
	if err != nil {
		return nil, nil, err
	}

	return Freqs(nfft, fs), e.dft(arr, ax), nil
}

// Periodogram returns the frequencies and the one-sided modified
// periodogram |X|^2 of arr along axis. Every bin except DC, and Nyquist
// for even nfft, is doubled to account for the negative frequencies.
func Periodogram(arr *array.Array, fs float64, nfft, axis int, opts ...Option) ([]float64, *array.Array, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, nil, err
	}

	ax, err := core.NormalizeAxis(axis, arr.Ndim())
	if err != nil {
		return nil, nil, fmt.Errorf("spectrum: %w", err)
	}

	e, err := newEstimator(fs, nfft, min(nfft, arr.Len(ax)), cfg)
	if err != nil {
		return nil, nil, err
	}

	return Freqs(nfft, fs), e.periodogram(arr, ax), nil
}

// estimator holds the transform and taper for segments of a fixed length.
type estimator struct {
	nfft    int
	size    int // samples per segment after cropping
	detrend Detrend

	fft    *fourier.FFT
	taper  []float64
	scale  float64
	ramp   []float64 // 0..size-1 for linear detrending
	seq    []float64
	coeffs []complex128
}

func newEstimator(fs float64, nfft, size int, cfg config) (*estimator, error) {
	switch {
	case nfft <= 0:
		return nil, fmt.Errorf("spectrum: %w: nfft must be > 0, got %d", core.ErrConfiguration, nfft)
	case size <= 0:
		return nil, fmt.Errorf("spectrum: %w: empty segment", core.ErrConfiguration)
	case fs <= 0:
		return nil, fmt.Errorf("spectrum: %w: sample rate must be > 0, got %v", core.ErrConfiguration, fs)
	}

	taper := window.Generate(cfg.window, size, window.WithPeriodic())

	var norm float64
	switch cfg.scaling {
	case ScalingSpectrum:
		sum := floats.Sum(taper)
		norm = 1 / (sum * sum)
	default:
		norm = 1 / (fs * floats.Dot(taper, taper))
	}

	ramp := make([]float64, size)
	if size > 1 {
		floats.Span(ramp, 0, float64(size-1))
	}

	return &estimator{
		nfft:    nfft,
		size:    size,
		detrend: cfg.detrend,
		fft:     fourier.NewFFT(nfft),
		taper:   taper,
		scale:   math.Sqrt(norm),
		ramp:    ramp,
		seq:     make([]float64, nfft),
		coeffs:  make([]complex128, nfft/2+1),
	}, nil
}

// bins returns the number of one-sided frequencies.
func (e *estimator) bins() int { return e.nfft/2 + 1 }

func (e *estimator) dft(arr *array.Array, axis int) *array.Complex {
	return array.MapLanes(arr, axis, e.bins(), func(_ int, dst []complex128, src []float64) {
		e.transform(dst, src)
	})
}

func (e *estimator) periodogram(arr *array.Array, axis int) *array.Array {
	return array.MapLanes(arr, axis, e.bins(), func(_ int, dst []float64, src []float64) {
		e.transform(e.coeffs, src)
		copy(dst, Power(e.coeffs))
		e.fold(dst)
	})
}

// transform writes the scaled one-sided DFT of src to dst.
func (e *estimator) transform(dst []complex128, src []float64) {
	seg := e.seq[:e.size]
	copy(seg, src[:e.size])
	clear(e.seq[e.size:])

	switch e.detrend {
	case DetrendLinear:
		if e.size > 1 {
			alpha, beta := stat.LinearRegression(e.ramp, seg, nil, false)
			for i := range seg {
				seg[i] -= alpha + beta*e.ramp[i]
			}
			break
		}
		fallthrough
	default:
		floats.AddConst(-stat.Mean(seg, nil), seg)
	}

	vecmath.MulBlockInPlace(seg, e.taper)

	e.fft.Coefficients(dst, e.seq)
	for i := range dst {
		dst[i] *= complex(e.scale, 0)
	}
}

// fold doubles the bins that stand for a positive and a negative frequency.
func (e *estimator) fold(power []float64) {
	end := len(power)
	if e.nfft%2 == 0 {
		end--
	}
	if end > 1 {
		floats.Scale(2, power[1:end])
	}
}
