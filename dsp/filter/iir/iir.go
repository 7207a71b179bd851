package iir

import (
	"fmt"
	"iter"

	"github.com/cwbudde/algo-streamdsp/dsp/array"
	"github.com/cwbudde/algo-streamdsp/dsp/core"
	"github.com/cwbudde/algo-streamdsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-streamdsp/dsp/stream"
	"github.com/sirupsen/logrus"
)

// ErrInitialState is returned when initial conditions do not match the
// number of lanes or sections.
var ErrInitialState = fmt.Errorf("iir: %w: initial state does not match filter", core.ErrConfiguration)

// Sosfilt returns a producer of p filtered along axis by the cascade
// coeffs. Each lane (in row-major order of the non-axis dimensions) owns a
// delay line carried across chunks. zi gives one initial state per lane;
// nil starts every lane from zeros.
func Sosfilt(p stream.Producer, coeffs []biquad.Coefficients, axis int, zi []biquad.State) (stream.Producer, error) {
	f, err := newFilter(p, coeffs, axis)
	if err != nil {
		return nil, err
	}

	if zi != nil {
		if err := f.checkState(zi); err != nil {
			return nil, err
		}
	}

	factory := func() iter.Seq2[*array.Array, error] {
		return func(yield func(*array.Array, error) bool) {
			var chains []*biquad.Chain

			for chunk, err := range p.Chunks() {
				if err != nil {
					yield(nil, err)
					return
				}

				if chains == nil {
					chains = f.chains(zi)
				}

				if !yield(f.forward(chunk, chains), nil) {
					return
				}
			}
		}
	}

	return stream.FromFunc(factory, p.Shape(), core.WithAxis(f.axis), core.WithChunkSize(p.ChunkSize()))
}

// Sosfiltfilt returns a producer of p filtered forward and then backward
// along axis.
//
// The forward pass is Sosfilt seeded with steady-state conditions scaled by
// each lane's first sample. Every forward chunk is then flipped, filtered
// from steady-state conditions scaled by its first flipped sample and
// flipped back. The backward pass only sees one chunk at a time.
func Sosfiltfilt(p stream.Producer, coeffs []biquad.Coefficients, axis int) (stream.Producer, error) {
	f, err := newFilter(p, coeffs, axis)
	if err != nil {
		return nil, err
	}

	zi, err := biquad.SteadyStateZi(coeffs)
	if err != nil {
		return nil, fmt.Errorf("iir: %w", err)
	}

	factory := func() iter.Seq2[*array.Array, error] {
		return func(yield func(*array.Array, error) bool) {
			var chains []*biquad.Chain

			logrus.WithFields(logrus.Fields{
				"sections":  len(coeffs),
				"chunksize": p.ChunkSize(),
			}).Debug("iir: forward-backward traversal")

			for chunk, err := range p.Chunks() {
				if err != nil {
					yield(nil, err)
					return
				}

				if chains == nil {
					chains = f.chains(f.edgeState(chunk, zi))
				}

				flipped := f.forward(chunk, chains).Flip(f.axis)
				back := f.forward(flipped, f.chains(f.edgeState(flipped, zi)))

				if !yield(back.Flip(f.axis), nil) {
					return
				}
			}
		}
	}

	return stream.FromFunc(factory, p.Shape(), core.WithAxis(f.axis), core.WithChunkSize(p.ChunkSize()))
}

type filter struct {
	coeffs []biquad.Coefficients
	axis   int
	lanes  int
}

func newFilter(p stream.Producer, coeffs []biquad.Coefficients, axis int) (*filter, error) {
	if len(coeffs) == 0 {
		return nil, fmt.Errorf("%w: no sections", biquad.ErrSOSShape)
	}

	shape := p.Shape()

	ax, err := core.NormalizeAxis(axis, len(shape))
	if err != nil {
		return nil, fmt.Errorf("iir: %w", err)
	}
	if ax != p.Axis() {
		return nil, fmt.Errorf("iir: %w: filter axis %d differs from producer axis %d", core.ErrConfiguration, ax, p.Axis())
	}

	lanes := 1
	for i, n := range shape {
		if i != ax {
			lanes *= n
		}
	}

	return &filter{coeffs: coeffs, axis: ax, lanes: lanes}, nil
}

func (f *filter) checkState(zi []biquad.State) error {
	if len(zi) != f.lanes {
		return fmt.Errorf("%w: %d states for %d lanes", ErrInitialState, len(zi), f.lanes)
	}

	for k, st := range zi {
		if len(st) != len(f.coeffs) {
			return fmt.Errorf("%w: lane %d has %d sections, want %d", ErrInitialState, k, len(st), len(f.coeffs))
		}
	}

	return nil
}

// chains builds one cascade per lane, starting from zi when given.
func (f *filter) chains(zi []biquad.State) []*biquad.Chain {
	out := make([]*biquad.Chain, f.lanes)
	for k := range out {
		out[k] = biquad.NewChain(f.coeffs)
		if zi != nil {
			// Lengths were validated by checkState or built to match.
			_ = out[k].SetState(zi[k])
		}
	}

	return out
}

// edgeState scales zi by the first sample of every lane of chunk.
func (f *filter) edgeState(chunk *array.Array, zi biquad.State) []biquad.State {
	states := make([]biquad.State, f.lanes)
	first := chunk.Slice(f.axis, 0, 1)

	for k := range states {
		states[k] = zi.Scaled(first.Lane(f.axis, k)[0])
	}

	return states
}

// forward filters a copy of chunk, advancing the lane chains.
func (f *filter) forward(chunk *array.Array, chains []*biquad.Chain) *array.Array {
	out := chunk.Clone()
	out.ApplyLanes(f.axis, func(k int, lane []float64) {
		chains[k].ProcessBlock(lane)
	})

	return out
}
