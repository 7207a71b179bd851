// Package signal generates deterministic multichannel test signals as
// producers.
package signal

import (
	"fmt"
	"iter"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-streamdsp/dsp/array"
	"github.com/cwbudde/algo-streamdsp/dsp/core"
	"github.com/cwbudde/algo-streamdsp/dsp/stream"
)

// blockSize is the number of samples generated per block before
// resegmentation to the producer's chunk size.
const blockSize = 4096

// Generator creates deterministic signals at a fixed sample rate.
type Generator struct {
	sampleRate float64
	seed       int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a signal generator for sampleRate.
func NewGenerator(sampleRate float64, opts ...Option) (*Generator, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("signal: %w: sample rate must be > 0: %f", core.ErrConfiguration, sampleRate)
	}

	g := &Generator{sampleRate: sampleRate, seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g, nil
}

// SampleRate returns the generator sample rate.
func (g *Generator) SampleRate() float64 { return g.sampleRate }

// Seed returns the noise seed.
func (g *Generator) Seed() int64 { return g.seed }

// Sine returns a producer with one channel per frequency, channel c holding
// amplitude*sin(2*pi*freqs[c]*t). samples may be stream.Unknown for an
// unbounded signal.
func (g *Generator) Sine(freqs []float64, amplitude float64, samples int, opts ...core.StreamOption) (stream.Producer, error) {
	if len(freqs) == 0 {
		return nil, fmt.Errorf("signal: %w: sine needs at least one frequency", core.ErrConfiguration)
	}

	steps := make([]float64, len(freqs))
	for c, f := range freqs {
		steps[c] = 2 * math.Pi * f / g.sampleRate
	}

	return g.produce(len(freqs), samples, func() fillFunc {
		return func(c, n int) float64 {
			return amplitude * math.Sin(steps[c]*float64(n))
		}
	}, opts)
}

// WhiteNoise returns a producer of channels channels of uniform noise in
// [-amplitude, amplitude]. Every traversal yields the same samples.
func (g *Generator) WhiteNoise(channels int, amplitude float64, samples int, opts ...core.StreamOption) (stream.Producer, error) {
	if amplitude < 0 {
		return nil, fmt.Errorf("signal: %w: noise amplitude must be >= 0: %f", core.ErrConfiguration, amplitude)
	}

	return g.produce(channels, samples, func() fillFunc {
		rng := rand.New(rand.NewSource(g.seed))
		return func(int, int) float64 {
			return (rng.Float64()*2 - 1) * amplitude
		}
	}, opts)
}

// LinearSweep returns a single-channel chirp rising linearly from f0 to f1
// Hz over samples samples.
func (g *Generator) LinearSweep(f0, f1, amplitude float64, samples int, opts ...core.StreamOption) (stream.Producer, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("signal: %w: sweep samples must be > 0: %d", core.ErrConfiguration, samples)
	}

	duration := float64(samples) / g.sampleRate
	rate := (f1 - f0) / duration

	return g.produce(1, samples, func() fillFunc {
		return func(_, n int) float64 {
			t := float64(n) / g.sampleRate
			return amplitude * math.Sin(2*math.Pi*(f0*t+0.5*rate*t*t))
		}
	}, opts)
}

// fillFunc returns the value of channel c at sample n. Calls arrive in
// block order, channel by channel.
type fillFunc func(c, n int) float64

// produce builds a restartable [channels, samples] producer along the last
// axis. newFill is called once per traversal.
func (g *Generator) produce(channels, samples int, newFill func() fillFunc, opts []core.StreamOption) (stream.Producer, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("signal: %w: channels must be > 0: %d", core.ErrConfiguration, channels)
	}
	if samples <= 0 && samples != stream.Unknown {
		return nil, fmt.Errorf("signal: %w: samples must be > 0: %d", core.ErrConfiguration, samples)
	}

	factory := func() iter.Seq2[*array.Array, error] {
		return func(yield func(*array.Array, error) bool) {
			fill := newFill()

			for start := 0; samples == stream.Unknown || start < samples; start += blockSize {
				n := blockSize
				if samples != stream.Unknown {
					n = min(n, samples-start)
				}

				block := array.Zeros[float64](channels, n)
				data := block.Data()
				for c := range channels {
					row := data[c*n : (c+1)*n]
					for i := range row {
						row[i] = fill(c, start+i)
					}
				}

				if !yield(block, nil) {
					return
				}
			}
		}
	}

	p, err := stream.FromFunc(factory, []int{channels, samples}, opts...)
	if err != nil {
		return nil, err
	}
	if p.Axis() != 1 {
		return nil, fmt.Errorf("signal: %w: samples run along axis 1, got axis %d", core.ErrConfiguration, p.Axis())
	}

	return p, nil
}
