package resample

import (
	"iter"
	"testing"

	"github.com/cwbudde/algo-streamdsp/dsp/array"
	"github.com/cwbudde/algo-streamdsp/dsp/core"
	"github.com/cwbudde/algo-streamdsp/dsp/stream"
	"github.com/cwbudde/algo-streamdsp/internal/testutil"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, p stream.Producer) *array.Array {
	t.Helper()
	out, err := stream.Collect(p)
	require.NoError(t, err)
	return out
}

func TestKernelDefaults(t *testing.T) {
	h, err := Kernel(3, 2, 1000)
	require.NoError(t, err)
	require.Equal(t, 1, len(h)%2, "odd number of taps")

	// The stop band edge alone moves the pass band edge with it.
	narrow, err := Kernel(3, 2, 1000, WithFstop(200))
	require.NoError(t, err)
	explicit, err := Kernel(3, 2, 1000, WithFstop(200), WithFpass(180))
	require.NoError(t, err)
	require.Equal(t, explicit, narrow)

	custom, err := Kernel(3, 2, 1000, WithKernel([]float64{1, 2, 1}))
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 1}, custom)

	_, err = Kernel(3, 2, 1000, WithKernel([]float64{}))
	require.ErrorIs(t, err, ErrEmptyWindow)

	_, err = Kernel(3, 2, 1000, WithFpass(400), WithFstop(400))
	require.ErrorIs(t, err, core.ErrConfiguration)
}

func TestPolyphaseMatchesWholeSignal(t *testing.T) {
	signal := testutil.DeterministicNoise(5, 1, 3000)

	for _, tc := range []struct {
		up, down, chunksize int
	}{
		{3, 2, 256},
		{2, 3, 100},
		{1, 4, 1000},
		{5, 1, 777},
		{4, 6, 50},
	} {
		h, err := Kernel(tc.up, tc.down, 1000)
		require.NoError(t, err)

		want, err := ResamplePoly(signal, tc.up, tc.down, h)
		require.NoError(t, err)

		src, err := stream.FromArray(array.FromSlice(signal), core.WithChunkSize(333))
		require.NoError(t, err)

		p, err := Polyphase(src, tc.up, tc.down, 1000, tc.chunksize, -1)
		require.NoError(t, err)
		require.Equal(t, []int{core.CeilDiv(len(signal)*tc.up, tc.down)}, p.Shape())
		require.Equal(t, tc.chunksize, p.ChunkSize())

		got := collect(t, p)
		require.Equal(t, len(want), got.Len(0), "%d/%d", tc.up, tc.down)
		testutil.RequireSliceNearlyEqual(t, got.Data(), want, 1e-10)
	}
}

func TestPolyphaseChunkSizes(t *testing.T) {
	signal := testutil.DeterministicNoise(6, 1, 1000)
	src, err := stream.FromArray(array.FromSlice(signal))
	require.NoError(t, err)

	p, err := Polyphase(src, 1, 2, 1000, 128, -1)
	require.NoError(t, err)

	var sizes []int
	for chunk, err := range p.Chunks() {
		require.NoError(t, err)
		sizes = append(sizes, chunk.Len(0))
	}
	require.Equal(t, []int{128, 128, 128, 116}, sizes)
}

func TestPolyphasePreservesLowFrequency(t *testing.T) {
	signal := testutil.DeterministicSine(50, 1000, 1, 4000)
	src, err := stream.FromArray(array.FromSlice(signal), core.WithChunkSize(500))
	require.NoError(t, err)

	p, err := Polyphase(src, 1, 2, 1000, 300, -1)
	require.NoError(t, err)

	got := collect(t, p).Data()
	want := testutil.DeterministicSine(50, 500, 1, len(got))
	for i := 100; i < len(got)-100; i++ {
		require.InDelta(t, want[i], got[i], 0.05, "sample %d", i)
	}
}

func TestPolyphaseMultichannel(t *testing.T) {
	a := testutil.DeterministicNoise(7, 1, 900)
	b := testutil.DeterministicSine(20, 1000, 1, 900)

	rows, err := array.FromRows([][]float64{a, b})
	require.NoError(t, err)

	src, err := stream.FromArray(rows, core.WithChunkSize(128))
	require.NoError(t, err)

	h := []float64{0.1, 0.2, 0.4, 0.2, 0.1}
	p, err := Polyphase(src, 2, 3, 1000, 200, 1, WithKernel(h))
	require.NoError(t, err)
	require.Equal(t, []int{2, 600}, p.Shape())

	got := collect(t, p)
	for k, lane := range [][]float64{a, b} {
		want, err := ResamplePoly(lane, 2, 3, h)
		require.NoError(t, err)
		testutil.RequireSliceNearlyEqual(t, got.Lane(1, k), want, 1e-12)
	}
}

func TestPolyphaseRestartable(t *testing.T) {
	src, err := stream.FromArray(array.FromSlice(testutil.DeterministicNoise(8, 1, 500)))
	require.NoError(t, err)

	p, err := Polyphase(src, 3, 2, 1000, 64, -1)
	require.NoError(t, err)

	first := collect(t, p)
	second := collect(t, p)
	require.Equal(t, first.Data(), second.Data())
}

func TestPolyphaseOneShotSource(t *testing.T) {
	signal := testutil.DeterministicNoise(9, 1, 1200)
	seq := iter.Seq2[*array.Array, error](func(yield func(*array.Array, error) bool) {
		for start := 0; start < len(signal); start += 250 {
			if !yield(array.FromSlice(signal[start:min(start+250, len(signal))]), nil) {
				return
			}
		}
	})

	src, err := stream.FromGenerator(seq, []int{len(signal)}, core.WithChunkSize(100))
	require.NoError(t, err)

	p, err := Polyphase(src, 2, 1, 1000, 500, -1)
	require.NoError(t, err)

	h, err := Kernel(2, 1, 1000)
	require.NoError(t, err)
	want, err := ResamplePoly(signal, 2, 1, h)
	require.NoError(t, err)

	testutil.RequireSliceNearlyEqual(t, collect(t, p).Data(), want, 1e-10)

	_, err = stream.Collect(p)
	require.ErrorIs(t, err, stream.ErrExhausted)
}

func TestPolyphaseUnboundedSource(t *testing.T) {
	signal := testutil.DeterministicNoise(10, 1, 700)
	seq := iter.Seq2[*array.Array, error](func(yield func(*array.Array, error) bool) {
		yield(array.FromSlice(signal), nil)
	})

	src, err := stream.FromGenerator(seq, []int{stream.Unknown})
	require.NoError(t, err)

	p, err := Polyphase(src, 1, 3, 1000, 90, -1)
	require.NoError(t, err)
	require.Equal(t, []int{stream.Unknown}, p.Shape())

	got := collect(t, p)
	require.Equal(t, core.CeilDiv(len(signal), 3), got.Len(0))
}

func TestPolyphaseValidation(t *testing.T) {
	short, err := stream.FromArray(array.FromSlice([]float64{1, 2, 3}))
	require.NoError(t, err)

	_, err = Polyphase(short, 1, 3, 1000, 10, -1)
	require.ErrorIs(t, err, ErrDecimation)
	require.ErrorIs(t, err, core.ErrConfiguration)

	_, err = Polyphase(short, 0, 1, 1000, 10, -1)
	require.ErrorIs(t, err, ErrInvalidRatio)

	_, err = Polyphase(short, 1, 2, 1000, 0, -1)
	require.ErrorIs(t, err, core.ErrConfiguration)

	_, err = Polyphase(short, 1, 2, 1000, 10, 1)
	require.ErrorIs(t, err, core.ErrConfiguration)

	rows, err := array.FromRows([][]float64{{1, 2, 3, 4}, {5, 6, 7, 8}})
	require.NoError(t, err)
	multi, err := stream.FromArray(rows)
	require.NoError(t, err)

	_, err = Polyphase(multi, 1, 2, 1000, 10, 0)
	require.ErrorIs(t, err, core.ErrConfiguration)
}

func TestPolyphaseTrimIsExact(t *testing.T) {
	// An impulse on a working chunk boundary lands where the whole-signal
	// resampler puts it.
	signal := testutil.Impulse(400, 200)
	src, err := stream.FromArray(array.FromSlice(signal))
	require.NoError(t, err)

	p, err := Polyphase(src, 2, 1, 1000, 100, -1, WithKernel([]float64{0.5, 1, 0.5}))
	require.NoError(t, err)

	got := collect(t, p).Data()
	require.Len(t, got, 800)
	for i, v := range got {
		want := 0.0
		switch i {
		case 400:
			want = 2
		case 399, 401:
			want = 1
		}
		require.InDelta(t, want, v, 1e-12, "sample %d", i)
	}
}
