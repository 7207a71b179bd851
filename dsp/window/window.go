package window

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeBlackmanHarris
	TypeNuttall
	TypeFlatTop
	TypeBartlett
	TypeKaiser
	TypeTukey
	TypeGaussian
)

// Cosine-sum coefficients a_k of w(x) = sum a_k cos(2*pi*k*x), x in [0, 1].
var (
	hannCoeffs           = []float64{0.5, -0.5}
	hammingCoeffs        = []float64{0.54, -0.46}
	blackmanCoeffs       = []float64{0.42, -0.5, 0.08}
	blackmanHarrisCoeffs = []float64{0.35875, -0.48829, 0.14128, -0.01168}
	nuttallCoeffs        = []float64{0.3635819, -0.4891775, 0.1365995, -0.0106411}
	flatTopCoeffs        = []float64{0.21557895, -0.41663158, 0.277263158, -0.083578947, 0.006947368}
)

var names = map[string]Type{
	"boxcar":         TypeRectangular,
	"rectangular":    TypeRectangular,
	"hann":           TypeHann,
	"hanning":        TypeHann,
	"hamming":        TypeHamming,
	"blackman":       TypeBlackman,
	"blackmanharris": TypeBlackmanHarris,
	"nuttall":        TypeNuttall,
	"flattop":        TypeFlatTop,
	"bartlett":       TypeBartlett,
	"kaiser":         TypeKaiser,
	"tukey":          TypeTukey,
	"gaussian":       TypeGaussian,
}

// Parse maps a conventional window name such as "hann" or "blackmanharris"
// to its Type. Names are case-insensitive.
func Parse(name string) (Type, error) {
	t, ok := names[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknown, name)
	}

	return t, nil
}

// String returns the canonical window name.
func (t Type) String() string {
	for _, name := range []string{"boxcar", "hann", "hamming", "blackman", "blackmanharris", "nuttall", "flattop", "bartlett", "kaiser", "tukey", "gaussian"} {
		if names[name] == t {
			return name
		}
	}

	return fmt.Sprintf("Type(%d)", int(t))
}

// Valid reports whether t names a known window.
func (t Type) Valid() bool { return t >= TypeRectangular && t <= TypeGaussian }

// Option configures window generation.
type Option func(*config)

type config struct {
	alpha    float64
	periodic bool
}

func defaultConfig(t Type) config {
	cfg := config{}

	switch t {
	case TypeKaiser:
		cfg.alpha = 8.6
	case TypeTukey:
		cfg.alpha = 0.5
	case TypeGaussian:
		cfg.alpha = 2.5
	}

	return cfg
}

// WithAlpha sets the shape parameter of parametric windows: beta for
// Kaiser, the taper fraction for Tukey, the width for Gaussian.
func WithAlpha(v float64) Option {
	return func(c *config) {
		if v >= 0 {
			c.alpha = v
		}
	}
}

// WithPeriodic selects the periodic form used for spectral analysis: the
// first length samples of a symmetric window of length+1.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns length window coefficients. The default form is
// symmetric, as used for filter design.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	cfg := defaultConfig(t)
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = evalWindow(t, samplePosition(i, length, cfg.periodic), cfg.alpha)
	}

	return out
}

// Apply multiplies buf in place by the selected window.
func Apply(t Type, buf []float64, opts ...Option) {
	if len(buf) == 0 {
		return
	}

	vecmath.MulBlockInPlace(buf, Generate(t, len(buf), opts...))
}

// Hann returns Hann window coefficients.
func Hann(size int, opts ...Option) ([]float64, error) {
	return Generate(TypeHann, size, opts...), validateLength(size)
}

// Kaiser returns Kaiser window coefficients.
func Kaiser(size int, beta float64, opts ...Option) ([]float64, error) {
	if err := validateParam(size, "kaiser beta", beta, 0, math.Inf(1)); err != nil {
		return nil, err
	}

	return Generate(TypeKaiser, size, append(opts, WithAlpha(beta))...), nil
}

// Tukey returns Tukey window coefficients.
func Tukey(size int, alpha float64, opts ...Option) ([]float64, error) {
	if err := validateParam(size, "tukey alpha", alpha, 0, 1); err != nil {
		return nil, err
	}

	return Generate(TypeTukey, size, append(opts, WithAlpha(alpha))...), nil
}

// EquivalentNoiseBandwidth returns the ENBW in bins for a window.
func EquivalentNoiseBandwidth(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}

	sum := floats.Sum(coeffs)
	if sum == 0 {
		return 0, errZeroCoherentGain
	}

	return float64(len(coeffs)) * floats.Dot(coeffs, coeffs) / (sum * sum), nil
}

func evalWindow(t Type, x, alpha float64) float64 {
	switch t {
	case TypeHann:
		return cosineSum(x, hannCoeffs)
	case TypeHamming:
		return cosineSum(x, hammingCoeffs)
	case TypeBlackman:
		return cosineSum(x, blackmanCoeffs)
	case TypeBlackmanHarris:
		return cosineSum(x, blackmanHarrisCoeffs)
	case TypeNuttall:
		return cosineSum(x, nuttallCoeffs)
	case TypeFlatTop:
		return cosineSum(x, flatTopCoeffs)
	case TypeBartlett:
		return 1 - math.Abs(2*x-1)
	case TypeKaiser:
		return kaiserAt(x, alpha)
	case TypeTukey:
		return tukeyAt(x, alpha)
	case TypeGaussian:
		v := (2*x - 1) * alpha
		return math.Exp(-0.5 * v * v)
	default:
		return 1
	}
}

func cosineSum(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func samplePosition(n, size int, periodic bool) float64 {
	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	if den == 0 {
		return 0.5
	}

	return float64(n) / den
}

func kaiserAt(x, beta float64) float64 {
	r := 2*x - 1
	return BesselI0(beta*math.Sqrt(math.Max(0, 1-r*r))) / BesselI0(beta)
}

func tukeyAt(x, alpha float64) float64 {
	if alpha <= 0 {
		return 1
	}

	if alpha >= 1 {
		return cosineSum(x, hannCoeffs)
	}

	a := alpha / 2
	switch {
	case x < a:
		return 0.5 * (1 + math.Cos(math.Pi*(2*x/alpha-1)))
	case x <= 1-a:
		return 1
	default:
		return 0.5 * (1 + math.Cos(math.Pi*(2*x/alpha-2/alpha+1)))
	}
}

// BesselI0 evaluates the zeroth-order modified Bessel function of the first
// kind by its power series, summed until terms fall below 1e-17 of the sum.
func BesselI0(x float64) float64 {
	q := x * x / 4
	term, sum := 1.0, 1.0

	for k := 1.0; k < 500; k++ {
		term *= q / (k * k)
		sum += term

		if term < sum*1e-17 {
			break
		}
	}

	return sum
}
