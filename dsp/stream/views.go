package stream

import (
	"fmt"
	"iter"

	"github.com/cwbudde/algo-streamdsp/dsp/array"
	"github.com/cwbudde/algo-streamdsp/dsp/core"
)

type rechunked struct {
	base
	src Producer
}

// Rechunk returns a view of p yielding chunks of n samples. p itself is
// not modified and may be traversed independently.
func Rechunk(p Producer, n int) (Producer, error) {
	b, err := newBase(p.Shape(), core.WithAxis(p.Axis()), core.WithChunkSize(n))
	if err != nil {
		return nil, err
	}

	return &rechunked{base: b, src: p}, nil
}

func (p *rechunked) Chunks() iter.Seq2[*array.Array, error] {
	return Resegment(p.src.Chunks(), p.axis, p.ChunkSize)
}

type reversed struct {
	base
	src Producer
}

// Reverse returns a view yielding p's chunks in reverse logical order, each
// chunk's samples reversed along the axis. Random-access sources are read
// lazily from the end; other sources are traversed once and buffered on the
// first traversal of the view.
func Reverse(p Producer) (Producer, error) {
	if _, ok := Len(p); !ok {
		return nil, fmt.Errorf("reverse: %w", ErrUnknownLength)
	}

	b, err := newBase(p.Shape(), core.WithAxis(p.Axis()), core.WithChunkSize(p.ChunkSize()))
	if err != nil {
		return nil, err
	}

	return &reversed{base: b, src: p}, nil
}

func (p *reversed) Chunks() iter.Seq2[*array.Array, error] {
	return func(yield func(*array.Array, error) bool) {
		get, ok := randomAccess(p.src)
		if !ok {
			whole, err := Collect(p.src)
			if err != nil {
				yield(nil, err)
				return
			}
			get = func(start, stop int) (*array.Array, error) {
				return whole.Slice(p.axis, start, stop), nil
			}
		}

		for stop := p.length(); stop > 0; {
			start := max(0, stop-p.chunksize)

			chunk, err := get(start, stop)
			if err != nil {
				yield(nil, err)
				return
			}

			if !yield(chunk.Flip(p.axis), nil) {
				return
			}
			stop = start
		}
	}
}

type padded struct {
	base
	src           Producer
	before, after int
	value         float64
}

// Pad returns a view of p with before samples of value prepended and after
// samples appended along the axis. The padding is generated chunk by chunk.
func Pad(p Producer, before, after int, value float64) (Producer, error) {
	if before < 0 || after < 0 {
		return nil, fmt.Errorf("stream: %w: negative pad (%d, %d)", core.ErrConfiguration, before, after)
	}

	shape := p.Shape()
	if shape[p.Axis()] != Unknown {
		shape[p.Axis()] += before + after
	}

	b, err := newBase(shape, core.WithAxis(p.Axis()), core.WithChunkSize(p.ChunkSize()))
	if err != nil {
		return nil, err
	}

	return &padded{base: b, src: p, before: before, after: after, value: value}, nil
}

func (p *padded) Chunks() iter.Seq2[*array.Array, error] {
	src := func(yield func(*array.Array, error) bool) {
		if !p.constant(p.before, yield) {
			return
		}

		for chunk, err := range p.src.Chunks() {
			if !yield(chunk, err) || err != nil {
				return
			}
		}

		p.constant(p.after, yield)
	}

	return Resegment(src, p.axis, p.ChunkSize)
}

// constant yields n samples of the pad value in pieces no larger than the
// chunk size.
func (p *padded) constant(n int, yield func(*array.Array, error) bool) bool {
	shape := p.Shape()
	for n > 0 {
		shape[p.axis] = min(n, p.chunksize)
		if !yield(array.Full(p.value, shape...), nil) {
			return false
		}
		n -= shape[p.axis]
	}

	return true
}

type sliced struct {
	base
	src         Producer
	start, stop int
}

// Slice returns a view of the samples in [start, stop) of p. A start beyond
// the logical length fails with core.ErrBounds; stop is clipped to the
// length. stop may be Unknown to take every sample from start.
func Slice(p Producer, start, stop int) (Producer, error) {
	n, known := Len(p)
	if start < 0 || (known && start > n) {
		return nil, fmt.Errorf("stream: %w: start %d for length %d", core.ErrBounds, start, n)
	}

	if known && (stop == Unknown || stop > n) {
		stop = n
	}

	if stop != Unknown && stop < start {
		return nil, fmt.Errorf("stream: %w: stop %d before start %d", core.ErrBounds, stop, start)
	}

	shape := p.Shape()
	shape[p.Axis()] = Unknown
	if stop != Unknown {
		shape[p.Axis()] = stop - start
	}

	b, err := newBase(shape, core.WithAxis(p.Axis()), core.WithChunkSize(p.ChunkSize()))
	if err != nil {
		return nil, err
	}

	return &sliced{base: b, src: p, start: start, stop: stop}, nil
}

func (p *sliced) Chunks() iter.Seq2[*array.Array, error] {
	if get, ok := randomAccess(p.src); ok && p.stop != Unknown {
		return func(yield func(*array.Array, error) bool) {
			for lo := p.start; lo < p.stop; {
				hi := min(lo+p.chunksize, p.stop)

				chunk, err := get(lo, hi)
				if !yield(chunk, err) || err != nil {
					return
				}
				lo = hi
			}
		}
	}

	return Resegment(window(p.src, p.start, p.stop), p.axis, p.ChunkSize)
}

// window yields the parts of src's chunks that fall inside [start, stop).
func window(src Producer, start, stop int) iter.Seq2[*array.Array, error] {
	axis := src.Axis()

	return func(yield func(*array.Array, error) bool) {
		pos := 0
		for chunk, err := range src.Chunks() {
			if err != nil {
				yield(nil, err)
				return
			}

			n := chunk.Len(axis)
			lo, hi := max(start-pos, 0), n
			if stop != Unknown {
				hi = min(stop-pos, n)
			}
			pos += n

			if lo < hi && !yield(chunk.Slice(axis, lo, hi), nil) {
				return
			}

			if stop != Unknown && pos >= stop {
				return
			}
		}
	}
}

// randomAccess returns a function reading any sample range of p without a
// full traversal, when p's source supports it.
func randomAccess(p Producer) (func(start, stop int) (*array.Array, error), bool) {
	switch v := p.(type) {
	case *arrayProducer:
		return v.slice, true
	case *readerProducer:
		return v.slice, true
	case *rechunked:
		return randomAccess(v.src)
	case *sliced:
		get, ok := randomAccess(v.src)
		if !ok || v.stop == Unknown {
			return nil, false
		}
		return func(start, stop int) (*array.Array, error) {
			return get(v.start+start, v.start+stop)
		}, true
	}

	return nil, false
}
