package core

import (
	"errors"
	"fmt"
)

// Error kinds shared by every package of the module. Package-level sentinels
// wrap one of these so callers can classify failures with errors.Is.
var (
	// ErrConfiguration reports an invalid parameter detected before any
	// chunk is processed: unknown mode, scaling or window names,
	// non-positive chunk sizes, out-of-range axes, impossible ratios.
	ErrConfiguration = errors.New("configuration error")

	// ErrBounds reports a sample range outside the available data.
	ErrBounds = errors.New("bounds error")
)

// NormalizeAxis maps a possibly negative axis onto [0, ndim).
func NormalizeAxis(axis, ndim int) (int, error) {
	if axis < 0 {
		axis += ndim
	}

	if axis < 0 || axis >= ndim {
		return 0, fmt.Errorf("%w: axis %d out of range for %d dimensions", ErrConfiguration, axis, ndim)
	}

	return axis, nil
}
