package fifo

import (
	"testing"

	"github.com/cwbudde/algo-streamdsp/dsp/array"
	"github.com/cwbudde/algo-streamdsp/dsp/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ramp(channels, n, start int) *array.Array {
	a := array.Zeros[float64](channels, n)
	for c := range channels {
		for i := range n {
			a.Set(float64(1000*c+start+i), c, i)
		}
	}
	return a
}

func TestNewRejectsNonPositiveChunksize(t *testing.T) {
	_, err := New(0, -1)
	require.ErrorIs(t, err, core.ErrConfiguration)
}

func TestGetUnderflow(t *testing.T) {
	f, err := New(5, -1)
	require.NoError(t, err)
	require.NoError(t, f.Put(ramp(2, 3, 0)))

	_, err = f.Get()
	require.ErrorIs(t, err, ErrUnderflow)
	assert.Equal(t, 3, f.Qsize())
}

func TestPutRejectsShapeChange(t *testing.T) {
	f, err := New(4, -1)
	require.NoError(t, err)
	require.NoError(t, f.Put(ramp(2, 3, 0)))
	require.ErrorIs(t, f.Put(ramp(3, 3, 0)), ErrShape)
}

func TestWindowsMatchReferenceSlicing(t *testing.T) {
	const (
		total  = 97
		nfft   = 10
		stride = 4
	)
	ref := ramp(3, total, 0)

	f, err := New(stride, -1)
	require.NoError(t, err)

	lengths := []int{1, 7, 13, 2, 30, 5, 11, 28}
	pos := 0
	var got []*array.Array
	for _, n := range lengths {
		require.NoError(t, f.Put(ref.Slice(-1, pos, pos+n)))
		pos += n
		for f.Qsize() >= nfft {
			w, err := f.Peek(nfft)
			require.NoError(t, err)
			got = append(got, w)
			_, err = f.Get()
			require.NoError(t, err)
		}
	}
	require.Equal(t, total, pos)

	want := (total-nfft)/stride + 1
	require.Len(t, got, want)
	for i, w := range got {
		assert.Equal(t, ref.Slice(-1, i*stride, i*stride+nfft).Data(), w.Data(), "window %d", i)
	}
}

func TestFIFOOrderAlongFirstAxis(t *testing.T) {
	f, err := New(4, 0)
	require.NoError(t, err)

	a := array.FromSlice([]float64{0, 1, 2})
	b := array.FromSlice([]float64{3, 4, 5, 6})
	require.NoError(t, f.Put(a))
	require.NoError(t, f.Put(b))
	assert.Equal(t, 7, f.Qsize())

	out, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 3}, out.Data())

	rest, err := f.Flush()
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5, 6}, rest.Data())
	assert.Equal(t, 0, f.Qsize())

	rest, err = f.Flush()
	require.NoError(t, err)
	assert.Nil(t, rest)
}

func TestSetChunkSize(t *testing.T) {
	f, err := New(2, -1)
	require.NoError(t, err)
	require.NoError(t, f.Put(array.FromSlice([]float64{1, 2, 3, 4, 5})))
	require.NoError(t, f.SetChunkSize(3))

	out, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, out.Data())
	require.ErrorIs(t, f.SetChunkSize(0), core.ErrConfiguration)
}

func TestPutCopiesChunk(t *testing.T) {
	f, err := New(3, -1)
	require.NoError(t, err)

	buf := ramp(1, 4, 0)
	require.NoError(t, f.Put(buf))

	out, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2}, out.Data())

	// Overwriting the caller's buffer must not touch the queued sample 3.
	for i := range 4 {
		buf.Set(-1, 0, i)
	}

	rest, err := f.Flush()
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, rest.Data())
}
