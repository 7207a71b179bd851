package window

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-streamdsp/dsp/core"
)

var (
	// ErrUnknown is returned for unrecognized window names and types.
	ErrUnknown = fmt.Errorf("window: %w: unknown window", core.ErrConfiguration)

	errEmptyCoeffs      = errors.New("window: coefficients must not be empty")
	errZeroCoherentGain = errors.New("window: coherent gain is zero")
)

func validateLength(size int) error {
	if size <= 0 {
		return fmt.Errorf("window: %w: size must be > 0: %d", core.ErrConfiguration, size)
	}
	return nil
}

// validateParam checks size and that the shape parameter lies in [lo, hi].
func validateParam(size int, name string, v, lo, hi float64) error {
	if err := validateLength(size); err != nil {
		return err
	}
	if v < lo || v > hi {
		return fmt.Errorf("window: %w: %s must be in [%g, %g]: %g", core.ErrConfiguration, name, lo, hi, v)
	}
	return nil
}
