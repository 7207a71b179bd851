package spectrum

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-streamdsp/dsp/core"
	"github.com/cwbudde/algo-streamdsp/dsp/window"
)

// Scaling selects the normalization of a spectral estimate.
type Scaling int

const (
	// ScalingDensity yields power spectral density in V**2/Hz.
	ScalingDensity Scaling = iota
	// ScalingSpectrum yields power spectrum in V**2.
	ScalingSpectrum
)

// Detrend selects the trend removed from every segment before the DFT.
type Detrend int

const (
	// DetrendConstant removes the segment mean.
	DetrendConstant Detrend = iota
	// DetrendLinear removes the least-squares line through the segment.
	DetrendLinear
)

var (
	// ErrScaling is returned for unknown scaling names or values.
	ErrScaling = fmt.Errorf("spectrum: %w: unknown scaling", core.ErrConfiguration)

	// ErrDetrend is returned for unknown detrend names or values.
	ErrDetrend = fmt.Errorf("spectrum: %w: unknown detrend", core.ErrConfiguration)
)

// ParseScaling maps "density" or "spectrum" to a Scaling.
func ParseScaling(name string) (Scaling, error) {
	switch strings.ToLower(name) {
	case "density":
		return ScalingDensity, nil
	case "spectrum":
		return ScalingSpectrum, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrScaling, name)
}

func (s Scaling) String() string {
	switch s {
	case ScalingDensity:
		return "density"
	case ScalingSpectrum:
		return "spectrum"
	}

	return fmt.Sprintf("Scaling(%d)", int(s))
}

// ParseDetrend maps "constant" or "linear" to a Detrend.
func ParseDetrend(name string) (Detrend, error) {
	switch strings.ToLower(name) {
	case "constant":
		return DetrendConstant, nil
	case "linear":
		return DetrendLinear, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrDetrend, name)
}

func (d Detrend) String() string {
	switch d {
	case DetrendConstant:
		return "constant"
	case DetrendLinear:
		return "linear"
	}

	return fmt.Sprintf("Detrend(%d)", int(d))
}

// Option configures the spectral estimators.
type Option func(*config)

type config struct {
	window     window.Type
	detrend    Detrend
	scaling    Scaling
	overlap    float64
	boundary   bool
	padded     bool
	resolution float64
	axis       int
	hasAxis    bool
}

func defaultConfig() config {
	return config{
		window:     window.TypeHann,
		detrend:    DetrendConstant,
		scaling:    ScalingDensity,
		overlap:    0.5,
		boundary:   true,
		padded:     true,
		resolution: 0.5,
	}
}

func applyOptions(opts []Option) (config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg, cfg.validate()
}

func (c config) validate() error {
	switch {
	case !c.window.Valid():
		return fmt.Errorf("%w: %v", window.ErrUnknown, c.window)
	case c.detrend != DetrendConstant && c.detrend != DetrendLinear:
		return fmt.Errorf("%w: %v", ErrDetrend, c.detrend)
	case c.scaling != ScalingDensity && c.scaling != ScalingSpectrum:
		return fmt.Errorf("%w: %v", ErrScaling, c.scaling)
	case c.overlap < 0 || c.overlap >= 1:
		return fmt.Errorf("spectrum: %w: overlap %v outside [0, 1)", core.ErrConfiguration, c.overlap)
	case c.resolution <= 0:
		return fmt.Errorf("spectrum: %w: resolution must be > 0, got %v", core.ErrConfiguration, c.resolution)
	}

	return nil
}

// sampleAxis resolves the configured axis against the producer axis.
func (c config) sampleAxis(ndim, producerAxis int) (int, error) {
	if !c.hasAxis {
		return producerAxis, nil
	}

	ax, err := core.NormalizeAxis(c.axis, ndim)
	if err != nil {
		return 0, fmt.Errorf("spectrum: %w", err)
	}
	if ax != producerAxis {
		return 0, fmt.Errorf("spectrum: %w: axis %d differs from producer axis %d", core.ErrConfiguration, ax, producerAxis)
	}

	return ax, nil
}

// WithWindow sets the taper applied to every segment. Default Hann.
func WithWindow(t window.Type) Option {
	return func(c *config) { c.window = t }
}

// WithDetrend sets the trend removed from every segment. Default constant.
func WithDetrend(d Detrend) Option {
	return func(c *config) { c.detrend = d }
}

// WithScaling sets the normalization. Default density.
func WithScaling(s Scaling) Option {
	return func(c *config) { c.scaling = s }
}

// WithOverlap sets the fraction in [0, 1) by which consecutive segments
// overlap. Default 0.5.
func WithOverlap(f float64) Option {
	return func(c *config) { c.overlap = f }
}

// WithBoundary controls whether STFT pads nfft/2 zeros at both ends so edge
// samples receive full window weight. Default true.
func WithBoundary(on bool) Option {
	return func(c *config) { c.boundary = on }
}

// WithPadded controls whether STFT zero-extends the tail so whole segments
// cover every sample. Default true.
func WithPadded(on bool) Option {
	return func(c *config) { c.padded = on }
}

// WithResolution sets the frequency resolution in Hz from which PSD derives
// nfft = fs/resolution. Default 0.5.
func WithResolution(hz float64) Option {
	return func(c *config) { c.resolution = hz }
}

// WithAxis asserts the sample axis. It must match the producer's axis.
func WithAxis(axis int) Option {
	return func(c *config) {
		c.axis = axis
		c.hasAxis = true
	}
}
