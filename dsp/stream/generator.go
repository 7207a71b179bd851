package stream

import (
	"fmt"
	"iter"

	"github.com/cwbudde/algo-streamdsp/dsp/array"
	"github.com/cwbudde/algo-streamdsp/dsp/core"
	"github.com/cwbudde/algo-streamdsp/dsp/fifo"
)

type funcProducer struct {
	base
	factory func() iter.Seq2[*array.Array, error]
}

// FromFunc returns a restartable producer. factory is called at the start
// of every traversal and must return a fresh sequence of chunks of any
// length; they are resegmented to the producer's chunk size. shape gives the
// logical shape, with Unknown along the axis for unbounded sequences.
func FromFunc(factory func() iter.Seq2[*array.Array, error], shape []int, opts ...core.StreamOption) (Producer, error) {
	if factory == nil {
		return nil, fmt.Errorf("stream: %w: nil factory", core.ErrConfiguration)
	}

	b, err := newBase(shape, opts...)
	if err != nil {
		return nil, err
	}

	return &funcProducer{base: b, factory: factory}, nil
}

func (p *funcProducer) Chunks() iter.Seq2[*array.Array, error] {
	return Resegment(p.factory(), p.axis, p.ChunkSize)
}

type generatorProducer struct {
	base
	seq      iter.Seq2[*array.Array, error]
	consumed bool
}

// FromGenerator returns a one-shot producer over seq. The first traversal
// consumes seq; any later traversal yields ErrExhausted instead of silently
// reusing stale generator state.
func FromGenerator(seq iter.Seq2[*array.Array, error], shape []int, opts ...core.StreamOption) (Producer, error) {
	if seq == nil {
		return nil, fmt.Errorf("stream: %w: nil sequence", core.ErrConfiguration)
	}

	b, err := newBase(shape, opts...)
	if err != nil {
		return nil, err
	}

	return &generatorProducer{base: b, seq: seq}, nil
}

func (p *generatorProducer) Chunks() iter.Seq2[*array.Array, error] {
	return func(yield func(*array.Array, error) bool) {
		if p.consumed {
			yield(nil, ErrExhausted)
			return
		}
		p.consumed = true

		for chunk, err := range Resegment(p.seq, p.axis, p.ChunkSize) {
			if !yield(chunk, err) {
				return
			}
		}
	}
}

// Resegment turns a sequence of arbitrarily sized chunks into chunks of
// size() samples along axis, with only the last chunk possibly shorter.
// size is consulted before every release so chunk size changes apply to
// the chunks that follow.
func Resegment(src iter.Seq2[*array.Array, error], axis int, size func() int) iter.Seq2[*array.Array, error] {
	return func(yield func(*array.Array, error) bool) {
		q, err := fifo.New(size(), axis)
		if err != nil {
			yield(nil, err)
			return
		}

		for chunk, err := range src {
			if err != nil {
				yield(nil, err)
				return
			}

			if err := q.Put(chunk); err != nil {
				yield(nil, fmt.Errorf("stream: %w", err))
				return
			}

			for {
				if err := q.SetChunkSize(size()); err != nil {
					yield(nil, err)
					return
				}

				if q.Qsize() < q.ChunkSize() {
					break
				}

				out, err := q.Get()
				if !yield(out, err) || err != nil {
					return
				}
			}
		}

		rest, err := q.Flush()
		if err != nil {
			yield(nil, err)
			return
		}

		if rest != nil {
			yield(rest, nil)
		}
	}
}
