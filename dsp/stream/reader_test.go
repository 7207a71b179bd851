package stream

import (
	"fmt"
	"testing"

	"github.com/cwbudde/algo-streamdsp/dsp/array"
	"github.com/cwbudde/algo-streamdsp/dsp/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memReader struct {
	data   *array.Array
	opened *int
	closed *int
}

func (r *memReader) Shape() []int { return r.data.Shape() }

func (r *memReader) Read(start, stop int, channels []int) (*array.Array, error) {
	n := r.data.Len(1)
	if start > n {
		return nil, fmt.Errorf("%w: start %d beyond %d", core.ErrBounds, start, n)
	}
	out := r.data.Slice(1, start, min(stop, n))
	if channels == nil {
		return out, nil
	}

	rows := make([]*array.Array, len(channels))
	for i, c := range channels {
		rows[i] = out.Slice(0, c, c+1)
	}
	return array.Concat(0, rows...)
}

func (r *memReader) Close() error {
	*r.closed++
	return nil
}

func memOpener(data *array.Array) (Opener, *int, *int) {
	opened, closed := new(int), new(int)
	return func() (Reader, error) {
		*opened++
		return &memReader{data: data, opened: opened, closed: closed}, nil
	}, opened, closed
}

func TestFromReader(t *testing.T) {
	data := ramp(4, 55)
	open, opened, closed := memOpener(data)

	p, err := FromReader(open, []int{3, 1}, core.WithChunkSize(10))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 55}, p.Shape())

	out := requireCollect(t, p)
	assert.Equal(t, data.Lane(1, 3), out.Lane(1, 0))
	assert.Equal(t, data.Lane(1, 1), out.Lane(1, 1))
	assert.Equal(t, *opened, *closed)
}

func TestFromReaderClosesOnEarlyBreak(t *testing.T) {
	open, opened, closed := memOpener(ramp(2, 100))

	p, err := FromReader(open, nil, core.WithChunkSize(10))
	require.NoError(t, err)

	for chunk, err := range p.Chunks() {
		require.NoError(t, err)
		require.Equal(t, 10, chunk.Len(1))
		break
	}
	assert.Equal(t, 2, *opened)
	assert.Equal(t, 2, *closed)
}

func TestFromReaderValidation(t *testing.T) {
	open, _, _ := memOpener(ramp(2, 10))

	_, err := FromReader(open, []int{2})
	require.ErrorIs(t, err, core.ErrBounds)

	_, err = FromReader(open, nil, core.WithAxis(0))
	require.ErrorIs(t, err, core.ErrConfiguration)
}

func TestReverseReaderIsLazy(t *testing.T) {
	data := ramp(2, 33)
	open, opened, closed := memOpener(data)

	p, err := FromReader(open, nil, core.WithChunkSize(10))
	require.NoError(t, err)
	r, err := Reverse(p)
	require.NoError(t, err)

	assert.Equal(t, data.Flip(1).Data(), requireCollect(t, r).Data())
	assert.Equal(t, 5, *opened)
	assert.Equal(t, *opened, *closed)
}
