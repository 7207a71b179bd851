package fir

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-streamdsp/dsp/core"
	"github.com/cwbudde/algo-streamdsp/dsp/window"
)

// ErrDesign is returned for band edges or gains no Kaiser filter can meet.
var ErrDesign = fmt.Errorf("fir: %w: invalid design parameters", core.ErrConfiguration)

// Kaiser designs a Type I FIR filter with the Kaiser window method.
//
// fpass and fstop are the pass and stop band edges in Hz; fpass < fstop
// yields a lowpass and fpass > fstop a highpass. gpass is the maximum pass
// band loss and gstop the minimum stop band attenuation, both in dB. The
// cutoff sits midway between the edges and the tap count is the smallest odd
// length meeting the stricter of the two criteria.
func Kaiser(fpass, fstop, sampleRate, gpass, gstop float64) (*FIR, error) {
	nyq := sampleRate / 2

	switch {
	case sampleRate <= 0:
		return nil, fmt.Errorf("%w: sample rate %v", ErrDesign, sampleRate)
	case fpass <= 0 || fpass > nyq || fstop <= 0 || fstop > nyq:
		return nil, fmt.Errorf("%w: band edges %v, %v outside (0, %v]", ErrDesign, fpass, fstop, nyq)
	case core.NearlyEqual(fpass, fstop, 0):
		return nil, fmt.Errorf("%w: zero transition width", ErrDesign)
	case gpass <= 0 || gstop <= 0:
		return nil, fmt.Errorf("%w: gains must be > 0 dB", ErrDesign)
	}

	band := Lowpass
	if fpass > fstop {
		band = Highpass
	}

	cutoff := (fpass + fstop) / 2
	width := math.Abs(fstop - fpass)

	return design(band, cutoff, 0, width, sampleRate, gpass, gstop)
}

// KaiserBand designs a Type I bandpass or bandstop FIR filter with the
// Kaiser window method. low and high are the -6 dB cutoffs in Hz and width
// is the transition width centered on each of them. gpass and gstop are as
// for Kaiser.
func KaiserBand(band Band, low, high, width, sampleRate, gpass, gstop float64) (*FIR, error) {
	nyq := sampleRate / 2

	switch {
	case band != Bandpass && band != Bandstop:
		return nil, fmt.Errorf("%w: %v is not a band filter", ErrDesign, band)
	case sampleRate <= 0:
		return nil, fmt.Errorf("%w: sample rate %v", ErrDesign, sampleRate)
	case width <= 0:
		return nil, fmt.Errorf("%w: transition width %v must be > 0", ErrDesign, width)
	case low-width/2 <= 0 || high+width/2 >= nyq:
		return nil, fmt.Errorf("%w: transitions around %v, %v leave (0, %v)", ErrDesign, low, high, nyq)
	case high-low < width:
		return nil, fmt.Errorf("%w: band %v..%v narrower than the transition width", ErrDesign, low, high)
	case gpass <= 0 || gstop <= 0:
		return nil, fmt.Errorf("%w: gains must be > 0 dB", ErrDesign)
	}

	return design(band, low, high, width, sampleRate, gpass, gstop)
}

// design sizes the Kaiser window for the stricter of the two gain criteria
// and builds the windowed ideal response.
func design(band Band, cutoff, upper, width, sampleRate, gpass, gstop float64) (*FIR, error) {
	nyq := sampleRate / 2

	ripple := 1 - core.DBToLinear(-gpass)
	atten := math.Max(-core.LinearToDB(ripple), gstop)

	taps, beta, err := KaiserOrder(atten, width/nyq)
	if err != nil {
		return nil, err
	}
	if taps%2 == 0 {
		taps++
	}

	coeffs, err := windowedSinc(taps, cutoff/nyq, upper/nyq, beta, band)
	if err != nil {
		return nil, err
	}

	return &FIR{
		coeffs:     coeffs,
		sampleRate: sampleRate,
		band:       band,
		cutoff:     cutoff,
		upper:      upper,
		width:      width,
		beta:       beta,
	}, nil
}

// KaiserBeta returns the Kaiser window shape parameter achieving atten dB of
// stop band attenuation.
func KaiserBeta(atten float64) float64 {
	switch {
	case atten > 50:
		return 0.1102 * (atten - 8.7)
	case atten > 21:
		return 0.5842*math.Pow(atten-21, 0.4) + 0.07886*(atten-21)
	default:
		return 0
	}
}

// KaiserOrder returns the tap count and window beta needed for atten dB of
// ripple suppression across a transition of width, given as a fraction of
// the Nyquist frequency.
func KaiserOrder(atten, width float64) (taps int, beta float64, err error) {
	if atten < 8 {
		return 0, 0, fmt.Errorf("%w: attenuation %v dB is below 8 dB", ErrDesign, atten)
	}
	if width <= 0 {
		return 0, 0, fmt.Errorf("%w: width %v must be > 0", ErrDesign, width)
	}

	n := (atten-7.95)/2.285/(math.Pi*width) + 1

	return int(math.Ceil(n)), KaiserBeta(atten), nil
}

// windowedSinc returns the unscaled ideal response for the cutoffs (fractions
// of Nyquist) multiplied by a symmetric Kaiser window. upper is used by band
// filters only.
func windowedSinc(taps int, cutoff, upper, beta float64, band Band) ([]float64, error) {
	w, err := window.Kaiser(taps, beta)
	if err != nil {
		return nil, err
	}

	center := float64(taps-1) / 2
	h := make([]float64, taps)

	for n := range h {
		m := float64(n) - center

		var v float64
		switch band {
		case Lowpass:
			v = lowpass(cutoff, m)
		case Highpass:
			v = sinc(m) - lowpass(cutoff, m)
		case Bandpass:
			v = lowpass(upper, m) - lowpass(cutoff, m)
		case Bandstop:
			v = sinc(m) - lowpass(upper, m) + lowpass(cutoff, m)
		}

		h[n] = v * w[n]
	}

	return h, nil
}

// lowpass is the ideal lowpass impulse response at offset m from the center.
func lowpass(cutoff, m float64) float64 { return cutoff * sinc(cutoff*m) }

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}

	px := math.Pi * x

	return math.Sin(px) / px
}
