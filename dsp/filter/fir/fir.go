package fir

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-streamdsp/dsp/conv"
	"github.com/cwbudde/algo-streamdsp/dsp/core"
	"github.com/cwbudde/algo-streamdsp/dsp/stream"
)

// Band is the pass band type of a designed filter.
type Band int

const (
	Lowpass Band = iota
	Highpass
	Bandpass
	Bandstop
)

// String returns the band name.
func (b Band) String() string {
	switch b {
	case Highpass:
		return "highpass"
	case Bandpass:
		return "bandpass"
	case Bandstop:
		return "bandstop"
	default:
		return "lowpass"
	}
}

// FIR is a finite impulse response filter with its design parameters.
type FIR struct {
	coeffs     []float64
	sampleRate float64

	band   Band
	cutoff float64
	upper  float64
	width  float64
	beta   float64
}

// New wraps precomputed coefficients. The design accessors of the returned
// filter report zero.
func New(coeffs []float64, sampleRate float64) (*FIR, error) {
	if len(coeffs) == 0 {
		return nil, conv.ErrEmptyKernel
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("fir: %w: sample rate must be > 0", core.ErrConfiguration)
	}

	return &FIR{coeffs: append([]float64(nil), coeffs...), sampleRate: sampleRate}, nil
}

// Coefficients returns a copy of the filter taps h(n).
func (f *FIR) Coefficients() []float64 { return append([]float64(nil), f.coeffs...) }

// Taps returns the number of coefficients.
func (f *FIR) Taps() int { return len(f.coeffs) }

// SampleRate returns the sample rate in Hz the filter was designed for.
func (f *FIR) SampleRate() float64 { return f.sampleRate }

// Band returns the pass band type.
func (f *FIR) Band() Band { return f.band }

// Cutoff returns the -6 dB frequency in Hz, midway through the transition.
// Band filters report their lower cutoff.
func (f *FIR) Cutoff() float64 { return f.cutoff }

// Cutoffs returns the -6 dB frequencies in Hz: one for lowpass and
// highpass filters, the lower and upper cutoff for band filters.
func (f *FIR) Cutoffs() []float64 {
	if f.band == Bandpass || f.band == Bandstop {
		return []float64{f.cutoff, f.upper}
	}
	return []float64{f.cutoff}
}

// Width returns the transition width in Hz.
func (f *FIR) Width() float64 { return f.width }

// Beta returns the Kaiser window shape parameter.
func (f *FIR) Beta() float64 { return f.beta }

// Delay returns the group delay in samples.
func (f *FIR) Delay() float64 { return float64(len(f.coeffs)-1) / 2 }

// Apply returns a producer of p convolved with the filter along axis. The
// output keeps p's chunk size; ModeSame aligns it with the input.
func (f *FIR) Apply(p stream.Producer, axis int, mode conv.Mode) (stream.Producer, error) {
	return conv.OAConvolve(p, f.coeffs, axis, mode)
}

// Response computes the complex frequency response H(e^jw) at freqHz.
func (f *FIR) Response(freqHz float64) complex128 {
	w := 2 * math.Pi * freqHz / f.sampleRate

	var h complex128
	for k, c := range f.coeffs {
		h += complex(c, 0) * cmplx.Exp(complex(0, -w*float64(k)))
	}

	return h
}

// MagnitudeDB returns the magnitude response in dB at freqHz.
func (f *FIR) MagnitudeDB(freqHz float64) float64 {
	return core.LinearToDB(cmplx.Abs(f.Response(freqHz)))
}
