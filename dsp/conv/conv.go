package conv

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-streamdsp/dsp/core"
	"gonum.org/v1/gonum/floats"
)

// Errors returned by convolution functions.
var (
	ErrEmptyInput   = errors.New("conv: empty input")
	ErrEmptyKernel  = errors.New("conv: empty kernel")
	ErrInvalidMode  = fmt.Errorf("conv: %w: invalid mode", core.ErrConfiguration)
	ErrShortSignal  = fmt.Errorf("conv: %w: valid mode needs at least as many samples as kernel taps", core.ErrConfiguration)
	ErrAxisMismatch = fmt.Errorf("conv: %w: convolution axis differs from producer axis", core.ErrConfiguration)
)

// Mode specifies the output mode for convolution.
type Mode int

const (
	// ModeFull returns the full convolution result with length N+M-1.
	ModeFull Mode = iota

	// ModeSame returns the N central samples of the full result, aligned
	// with the input.
	ModeSame

	// ModeValid returns only the N-M+1 samples where signal and kernel
	// fully overlap.
	ModeValid
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModeSame:
		return "same"
	case ModeValid:
		return "valid"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps "full", "same" or "valid" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "full":
		return ModeFull, nil
	case "same":
		return ModeSame, nil
	case "valid":
		return ModeValid, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

func (m Mode) validate() error {
	if m < ModeFull || m > ModeValid {
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(m))
	}
	return nil
}

// OutputLen returns the number of samples mode keeps from the convolution of
// n samples with a kernel of m taps.
func (m Mode) OutputLen(n, taps int) int {
	switch m {
	case ModeSame:
		return n
	case ModeValid:
		return max(n-taps+1, 0)
	default:
		return n + taps - 1
	}
}

// trimCounts returns how many samples mode drops from the start and the end
// of a full convolution with a kernel of m taps.
func (m Mode) trimCounts(taps int) (lead, trail int) {
	switch m {
	case ModeSame:
		lead = (taps - 1) / 2
		return lead, taps - 1 - lead
	case ModeValid:
		return taps - 1, taps - 1
	default:
		return 0, 0
	}
}

// Direct performs direct time-domain linear convolution of a and b.
// Returns a new slice of length len(a) + len(b) - 1.
//
// This is an O(N*M) algorithm suitable for short kernels.
func Direct(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	result := make([]float64, len(a)+len(b)-1)
	DirectTo(result, a, b)

	return result, nil
}

// DirectTo performs direct convolution, writing to a pre-allocated destination.
// dst must have length len(a) + len(b) - 1.
func DirectTo(dst, a, b []float64) {
	core.Zero(dst)

	m := len(b)
	for i, x := range a {
		floats.AddScaled(dst[i:i+m], x, b)
	}
}

// Convolve performs linear convolution with automatic algorithm selection.
// For short kernels (<= 64 samples), uses direct convolution.
// For longer kernels, uses FFT-based overlap-add.
func Convolve(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	if len(b) > len(a) {
		a, b = b, a
	}

	const directThreshold = 64
	if len(b) <= directThreshold {
		return Direct(a, b)
	}

	oa, err := NewOverlapAdd(b, 0)
	if err != nil {
		return nil, err
	}

	return oa.Process(a)
}

// ConvolveMode performs convolution of signal a with kernel b in the given
// mode.
func ConvolveMode(a, b []float64, mode Mode) ([]float64, error) {
	if err := mode.validate(); err != nil {
		return nil, err
	}
	if mode == ModeValid && len(a) < len(b) {
		return nil, ErrShortSignal
	}

	full, err := Convolve(a, b)
	if err != nil {
		return nil, err
	}

	lead, trail := mode.trimCounts(len(b))

	return full[lead : len(full)-trail], nil
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
