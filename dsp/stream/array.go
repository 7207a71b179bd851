package stream

import (
	"fmt"
	"iter"

	"github.com/cwbudde/algo-streamdsp/dsp/array"
	"github.com/cwbudde/algo-streamdsp/dsp/core"
)

type arrayProducer struct {
	base
	arr *array.Array
}

// FromArray returns a restartable producer over arr. The array is not
// copied; chunks are copies of its sample ranges.
func FromArray(arr *array.Array, opts ...core.StreamOption) (Producer, error) {
	if arr == nil {
		return nil, fmt.Errorf("stream: %w: nil array", core.ErrConfiguration)
	}

	b, err := newBase(arr.Shape(), opts...)
	if err != nil {
		return nil, err
	}

	return &arrayProducer{base: b, arr: arr}, nil
}

func (p *arrayProducer) Chunks() iter.Seq2[*array.Array, error] {
	return func(yield func(*array.Array, error) bool) {
		n := p.length()
		for start := 0; start < n; {
			stop := min(start+p.chunksize, n)
			if !yield(p.arr.Slice(p.axis, start, stop), nil) {
				return
			}
			start = stop
		}
	}
}

func (p *arrayProducer) slice(start, stop int) (*array.Array, error) {
	return p.arr.Slice(p.axis, start, stop), nil
}
