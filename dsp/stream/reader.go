package stream

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/cwbudde/algo-streamdsp/dsp/array"
	"github.com/cwbudde/algo-streamdsp/dsp/core"
)

// Reader is a random-access sample source such as a decoded recording.
// Read returns a (len(channels), stop-start) array, or every channel when
// channels is nil. Reads with start beyond the available samples fail with
// core.ErrBounds; stop is clipped to the available samples.
type Reader interface {
	Shape() []int
	Read(start, stop int, channels []int) (*array.Array, error)
	Close() error
}

// Opener acquires a Reader. Producers built on an Opener call it at the
// start of each traversal.
type Opener func() (Reader, error)

type readerProducer struct {
	base
	open     Opener
	channels []int
}

// FromReader returns a restartable producer over the samples of the readers
// returned by open, with samples on the last axis. channels selects a subset
// of rows; nil selects all. The reader is closed when a traversal ends for
// any reason, including the consumer breaking out early.
func FromReader(open Opener, channels []int, opts ...core.StreamOption) (Producer, error) {
	if open == nil {
		return nil, fmt.Errorf("stream: %w: nil opener", core.ErrConfiguration)
	}

	r, err := open()
	if err != nil {
		return nil, fmt.Errorf("stream: open reader: %w", err)
	}

	shape := r.Shape()
	if err := r.Close(); err != nil {
		return nil, fmt.Errorf("stream: close reader: %w", err)
	}

	if len(shape) != 2 {
		return nil, fmt.Errorf("stream: %w: reader shape %v is not (channels, samples)", core.ErrConfiguration, shape)
	}

	for _, c := range channels {
		if c < 0 || c >= shape[0] {
			return nil, fmt.Errorf("stream: %w: channel %d of %d", core.ErrBounds, c, shape[0])
		}
	}

	if channels != nil {
		shape[0] = len(channels)
	}

	b, err := newBase(shape, opts...)
	if err != nil {
		return nil, err
	}

	if b.axis != 1 {
		return nil, fmt.Errorf("stream: %w: reader samples lie on the last axis, got axis %d", core.ErrConfiguration, b.axis)
	}

	return &readerProducer{base: b, open: open, channels: slices.Clone(channels)}, nil
}

func (p *readerProducer) Chunks() iter.Seq2[*array.Array, error] {
	return func(yield func(*array.Array, error) bool) {
		r, err := p.open()
		if err != nil {
			yield(nil, fmt.Errorf("stream: open reader: %w", err))
			return
		}

		closed := false
		defer func() {
			if !closed {
				_ = r.Close()
			}
		}()

		n := p.length()
		for start := 0; start < n; {
			stop := min(start+p.chunksize, n)

			chunk, err := r.Read(start, stop, p.channels)
			if err != nil {
				yield(nil, fmt.Errorf("stream: read [%d:%d]: %w", start, stop, err))
				return
			}

			if !yield(chunk, nil) {
				return
			}
			start = stop
		}

		closed = true
		if err := r.Close(); err != nil {
			yield(nil, fmt.Errorf("stream: close reader: %w", err))
		}
	}
}

func (p *readerProducer) slice(start, stop int) (chunk *array.Array, err error) {
	r, err := p.open()
	if err != nil {
		return nil, fmt.Errorf("stream: open reader: %w", err)
	}
	defer func() {
		err = errors.Join(err, r.Close())
	}()

	return r.Read(start, stop, p.channels)
}
