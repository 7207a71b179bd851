package stream

import (
	"testing"

	"github.com/cwbudde/algo-streamdsp/dsp/array"
	"github.com/cwbudde/algo-streamdsp/dsp/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRechunkDoesNotMutateSource(t *testing.T) {
	data := ramp(2, 100)
	p, err := FromArray(data, core.WithChunkSize(30))
	require.NoError(t, err)

	r, err := Rechunk(p, 7)
	require.NoError(t, err)

	assert.Equal(t, 30, p.ChunkSize())
	assert.Equal(t, 7, r.ChunkSize())
	assert.Equal(t, []int{30, 30, 30, 10}, chunkLens(t, p))

	lens := chunkLens(t, r)
	assert.Len(t, lens, 15)
	assert.Equal(t, 2, lens[14])
	assert.Equal(t, data.Data(), requireCollect(t, r).Data())
}

func TestReverse(t *testing.T) {
	data := ramp(2, 23)
	want := data.Flip(1).Data()

	arr, err := FromArray(data, core.WithChunkSize(5))
	require.NoError(t, err)
	gen, err := FromGenerator(pieces(data, 1, []int{4, 9}), data.Shape(), core.WithChunkSize(5))
	require.NoError(t, err)

	for name, p := range map[string]Producer{"array": arr, "generator": gen} {
		t.Run(name, func(t *testing.T) {
			r, err := Reverse(p)
			require.NoError(t, err)

			var chunks []*array.Array
			for chunk, err := range r.Chunks() {
				require.NoError(t, err)
				chunks = append(chunks, chunk)
			}
			require.Len(t, chunks, 5)
			assert.Equal(t, []float64{22, 21, 20, 19, 18}, chunks[0].Lane(-1, 0))
			assert.Equal(t, []float64{2, 1, 0}, chunks[4].Lane(-1, 0))

			got, err := array.Concat(-1, chunks...)
			require.NoError(t, err)
			assert.Equal(t, want, got.Data())
		})
	}
}

func TestReverseUnknownLength(t *testing.T) {
	g, err := FromGenerator(pieces(ramp(1, 5), 1, []int{2}), []int{1, Unknown})
	require.NoError(t, err)

	_, err = Reverse(g)
	require.ErrorIs(t, err, ErrUnknownLength)
	require.ErrorIs(t, err, core.ErrConfiguration)
}

func TestPad(t *testing.T) {
	data := ramp(2, 10)
	p, err := FromArray(data, core.WithChunkSize(4))
	require.NoError(t, err)

	padded, err := Pad(p, 3, 5, -1)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 18}, padded.Shape())
	assert.Equal(t, []int{4, 4, 4, 4, 2}, chunkLens(t, padded))
	assert.Equal(t, data.Pad(1, 3, 5, -1).Data(), requireCollect(t, padded).Data())

	_, err = Pad(p, -1, 0, 0)
	require.ErrorIs(t, err, core.ErrConfiguration)
}

func TestPadChunkSizeInvariance(t *testing.T) {
	data := ramp(1, 31)
	want := data.Pad(-1, 12, 7, 0).Data()
	for _, cs := range []int{1, 5, 64} {
		p, err := FromArray(data, core.WithChunkSize(cs))
		require.NoError(t, err)
		padded, err := Pad(p, 12, 7, 0)
		require.NoError(t, err)
		assert.Equal(t, want, requireCollect(t, padded).Data())
	}
}

func TestSlice(t *testing.T) {
	data := ramp(2, 50)
	arr, err := FromArray(data, core.WithChunkSize(8))
	require.NoError(t, err)
	gen, err := FromGenerator(pieces(data, 1, []int{13}), data.Shape(), core.WithChunkSize(8))
	require.NoError(t, err)

	for name, p := range map[string]Producer{"array": arr, "generator": gen} {
		t.Run(name, func(t *testing.T) {
			s, err := Slice(p, 10, 37)
			require.NoError(t, err)
			assert.Equal(t, []int{2, 27}, s.Shape())
			assert.Equal(t, data.Slice(1, 10, 37).Data(), requireCollect(t, s).Data())
		})
	}
}

func TestSliceBounds(t *testing.T) {
	p, err := FromArray(ramp(1, 10))
	require.NoError(t, err)

	_, err = Slice(p, 11, 12)
	require.ErrorIs(t, err, core.ErrBounds)

	s, err := Slice(p, 4, 1000)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 6}, s.Shape())

	s, err = Slice(p, 10, Unknown)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, s.Shape())
}

func TestReverseOfSliceReadsLazily(t *testing.T) {
	data := ramp(1, 40)
	p, err := FromArray(data, core.WithChunkSize(6))
	require.NoError(t, err)
	s, err := Slice(p, 5, 25)
	require.NoError(t, err)
	r, err := Reverse(s)
	require.NoError(t, err)

	assert.Equal(t, data.Slice(1, 5, 25).Flip(1).Data(), requireCollect(t, r).Data())
}
