// Package fifo provides an axis-aligned first-in first-out buffer that
// releases fixed-length windows from chunks of arbitrary length.
//
// A FIFO decouples the block length an algorithm needs (an FFT segment, a
// resampler working chunk) from the chunk granularity a producer delivers.
package fifo

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cwbudde/algo-streamdsp/dsp/array"
	"github.com/cwbudde/algo-streamdsp/dsp/core"
)

var (
	// ErrUnderflow is returned by Get and Peek when fewer samples are
	// buffered than requested.
	ErrUnderflow = errors.New("fifo: not enough buffered samples")

	// ErrShape is returned by Put for chunks whose non-axis dimensions
	// differ from previously buffered chunks.
	ErrShape = errors.New("fifo: chunk shape mismatch")
)

// FIFO buffers samples along one axis.
type FIFO struct {
	chunksize int
	axis      int

	parts  []*array.Array
	offset int // samples of parts[0] already released
	qsize  int
	shape  []int
}

// New returns an empty FIFO releasing chunksize samples per Get along axis.
func New(chunksize, axis int) (*FIFO, error) {
	if chunksize <= 0 {
		return nil, fmt.Errorf("fifo: %w: chunksize must be > 0, got %d", core.ErrConfiguration, chunksize)
	}

	return &FIFO{chunksize: chunksize, axis: axis}, nil
}

// ChunkSize returns the number of samples released by Get.
func (f *FIFO) ChunkSize() int { return f.chunksize }

// SetChunkSize changes the release amount for later Get calls.
func (f *FIFO) SetChunkSize(n int) error {
	if n <= 0 {
		return fmt.Errorf("fifo: %w: chunksize must be > 0, got %d", core.ErrConfiguration, n)
	}
	f.chunksize = n

	return nil
}

// Qsize returns the number of buffered samples along the axis.
func (f *FIFO) Qsize() int { return f.qsize }

// Put appends a copy of chunk's samples, so the caller may reuse chunk
// once Put returns.
func (f *FIFO) Put(chunk *array.Array) error {
	if chunk == nil {
		return nil
	}

	shape := chunk.Shape()
	ax, err := core.NormalizeAxis(f.axis, len(shape))
	if err != nil {
		return fmt.Errorf("fifo: %w", err)
	}

	if f.shape == nil {
		f.shape = shape
		f.axis = ax
	} else if !sameExceptAxis(f.shape, shape, ax) {
		return fmt.Errorf("%w: %v after %v", ErrShape, shape, f.shape)
	}

	n := shape[ax]
	if n == 0 {
		return nil
	}

	f.parts = append(f.parts, chunk.Clone())
	f.qsize += n

	return nil
}

// Get removes and returns exactly ChunkSize samples from the front.
func (f *FIFO) Get() (*array.Array, error) {
	out, err := f.Peek(f.chunksize)
	if err != nil {
		return nil, err
	}
	f.Discard(f.chunksize)

	return out, nil
}

// Peek returns a copy of the first n buffered samples without releasing them.
func (f *FIFO) Peek(n int) (*array.Array, error) {
	if n > f.qsize {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrUnderflow, n, f.qsize)
	}

	if n <= 0 || len(f.parts) == 0 {
		return f.empty(), nil
	}

	var pieces []*array.Array
	off := f.offset
	need := n

	for _, p := range f.parts {
		avail := p.Len(f.axis) - off
		take := min(avail, need)
		pieces = append(pieces, p.Slice(f.axis, off, off+take))
		need -= take
		off = 0

		if need == 0 {
			break
		}
	}

	return array.Concat(f.axis, pieces...)
}

// Discard releases up to n samples from the front without copying them.
func (f *FIFO) Discard(n int) {
	n = min(n, f.qsize)
	f.qsize -= n

	for n > 0 {
		avail := f.parts[0].Len(f.axis) - f.offset
		if n < avail {
			f.offset += n
			return
		}

		n -= avail
		f.parts[0] = nil
		f.parts = f.parts[1:]
		f.offset = 0
	}
}

// Flush removes and returns every buffered sample. It returns nil when the
// FIFO is empty.
func (f *FIFO) Flush() (*array.Array, error) {
	if f.qsize == 0 {
		return nil, nil
	}

	out, err := f.Peek(f.qsize)
	if err != nil {
		return nil, err
	}
	f.Discard(f.qsize)

	return out, nil
}

func (f *FIFO) empty() *array.Array {
	if f.shape == nil {
		return array.Zeros[float64](0)
	}

	shape := slices.Clone(f.shape)
	shape[f.axis] = 0

	return array.Zeros[float64](shape...)
}

func sameExceptAxis(a, b []int, axis int) bool {
	if len(a) != len(b) {
		return false
	}

	for d := range a {
		if d != axis && a[d] != b[d] {
			return false
		}
	}

	return true
}
