package stream

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/cwbudde/algo-streamdsp/dsp/array"
	"github.com/cwbudde/algo-streamdsp/dsp/core"
)

var (
	// ErrExhausted is yielded when a one-shot producer is traversed again.
	ErrExhausted = errors.New("stream: one-shot producer already consumed")

	// ErrUnknownLength is returned by operations that need the logical
	// length of a producer backed by an unbounded generator.
	ErrUnknownLength = fmt.Errorf("stream: %w: producer length is unknown", core.ErrConfiguration)
)

// Unknown marks the sample-axis extent of an unbounded producer.
const Unknown = -1

// Producer is a lazy chunked view over a logical N-dimensional sequence.
type Producer interface {
	// Shape returns the full logical shape. The sample-axis extent is
	// Unknown for unbounded generator sources.
	Shape() []int

	// Axis returns the non-negative sample axis.
	Axis() int

	// ChunkSize returns the number of samples per yielded chunk. Only the
	// final chunk of a traversal may be shorter.
	ChunkSize() int

	// SetChunkSize changes the chunk size for chunks requested afterwards.
	SetChunkSize(n int) error

	// Chunks returns a single traversal of the sequence.
	Chunks() iter.Seq2[*array.Array, error]
}

type base struct {
	shape     []int
	axis      int
	chunksize int
}

func newBase(shape []int, opts ...core.StreamOption) (base, error) {
	cfg, err := core.ApplyStreamOptions(opts...).Validate(len(shape))
	if err != nil {
		return base{}, fmt.Errorf("stream: %w", err)
	}

	return base{shape: slices.Clone(shape), axis: cfg.Axis, chunksize: cfg.ChunkSize}, nil
}

func (b *base) Shape() []int { return slices.Clone(b.shape) }

func (b *base) Axis() int { return b.axis }

func (b *base) ChunkSize() int { return b.chunksize }

func (b *base) SetChunkSize(n int) error {
	if n <= 0 {
		return fmt.Errorf("stream: %w: chunksize must be > 0, got %d", core.ErrConfiguration, n)
	}
	b.chunksize = n

	return nil
}

func (b *base) length() int { return b.shape[b.axis] }

// Len returns the logical number of samples along the producer's axis and
// whether it is known.
func Len(p Producer) (int, bool) {
	n := p.Shape()[p.Axis()]
	return n, n != Unknown
}

// Collect traverses p once and concatenates every chunk along its axis.
func Collect(p Producer) (*array.Array, error) {
	var parts []*array.Array

	for chunk, err := range p.Chunks() {
		if err != nil {
			return nil, err
		}
		parts = append(parts, chunk)
	}

	if len(parts) == 0 {
		shape := p.Shape()
		shape[p.Axis()] = 0

		return array.Zeros[float64](shape...), nil
	}

	out, err := array.Concat(p.Axis(), parts...)
	if err != nil {
		return nil, fmt.Errorf("stream: collect: %w", err)
	}

	return out, nil
}
