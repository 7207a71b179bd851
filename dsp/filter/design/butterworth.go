package design

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-streamdsp/dsp/filter/biquad"
)

// ButterworthLowpass designs an order-n lowpass Butterworth cascade with
// -3 dB at freq. Odd orders end with a first-order section (B2 = A2 = 0).
func ButterworthLowpass(freq float64, order int, sampleRate float64) ([]biquad.Coefficients, error) {
	return butterworth(freq, order, sampleRate, Lowpass, firstOrderLowpass)
}

// ButterworthHighpass designs an order-n highpass Butterworth cascade with
// -3 dB at freq.
func ButterworthHighpass(freq float64, order int, sampleRate float64) ([]biquad.Coefficients, error) {
	return butterworth(freq, order, sampleRate, Highpass, firstOrderHighpass)
}

// ButterworthBandpass designs a bandpass cascade passing [low, high] as an
// order-n Butterworth highpass at low followed by an order-n Butterworth
// lowpass at high.
func ButterworthBandpass(low, high float64, order int, sampleRate float64) ([]biquad.Coefficients, error) {
	if low >= high {
		return nil, fmt.Errorf("%w: band edges %v >= %v", ErrFrequency, low, high)
	}

	hp, err := ButterworthHighpass(low, order, sampleRate)
	if err != nil {
		return nil, err
	}

	lp, err := ButterworthLowpass(high, order, sampleRate)
	if err != nil {
		return nil, err
	}

	return append(hp, lp...), nil
}

type sectionFunc func(freq, q, sampleRate float64) (biquad.Coefficients, error)

func butterworth(freq float64, order int, sampleRate float64, second sectionFunc, first func(k float64) biquad.Coefficients) ([]biquad.Coefficients, error) {
	if order <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrOrder, order)
	}

	w0, err := normalizedW0(freq, sampleRate)
	if err != nil {
		return nil, err
	}

	sections := make([]biquad.Coefficients, 0, (order+1)/2)

	for i := order/2 - 1; i >= 0; i-- {
		s, err := second(freq, butterworthQ(order, i), sampleRate)
		if err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}

	if order%2 != 0 {
		sections = append(sections, first(math.Tan(w0/2)))
	}

	return sections, nil
}

// butterworthQ returns the quality factor of the i-th conjugate pole pair.
func butterworthQ(order, i int) float64 {
	theta := math.Pi * float64(2*i+1) / (2 * float64(order))
	return 1 / (2 * math.Sin(theta))
}

func firstOrderLowpass(k float64) biquad.Coefficients {
	norm := 1 / (1 + k)
	return biquad.Coefficients{B0: k * norm, B1: k * norm, A1: (k - 1) * norm}
}

func firstOrderHighpass(k float64) biquad.Coefficients {
	norm := 1 / (1 + k)
	return biquad.Coefficients{B0: norm, B1: -norm, A1: (k - 1) * norm}
}
