package spectrum

import (
	"fmt"
	"iter"

	"github.com/cwbudde/algo-streamdsp/dsp/array"
	"github.com/cwbudde/algo-streamdsp/dsp/core"
	"github.com/cwbudde/algo-streamdsp/dsp/stream"
)

// STFT returns the frequencies, the segment center times and a sequence of
// modified DFTs, one per overlapping segment of nfft samples of p.
//
// With WithBoundary the signal is extended by nfft/2 zeros at both ends and
// segment k is centered on sample k*stride; otherwise it is centered on
// nfft/2 + k*stride. With WithPadded the tail is zero-extended by the
// fewest samples that make whole segments cover every sample. Times are nil
// when p has unknown length.
func STFT(p stream.Producer, fs float64, nfft int, opts ...Option) ([]float64, []float64, iter.Seq2[*array.Complex, error], error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, nil, nil, err
	}

	ax, err := cfg.sampleAxis(len(p.Shape()), p.Axis())
	if err != nil {
		return nil, nil, nil, err
	}

	e, err := newEstimator(fs, nfft, nfft, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	stride := Stride(nfft, cfg.overlap)

	src := p
	if cfg.boundary {
		if src, err = stream.Pad(src, nfft/2, nfft/2, 0); err != nil {
			return nil, nil, nil, err
		}
	}
	if cfg.padded {
		if src, err = padTail(src, nfft, stride); err != nil {
			return nil, nil, nil, err
		}
	}

	seq, err := Segments(src, nfft, cfg.overlap, ax, func(seg *array.Array) (*array.Complex, error) {
		return e.dft(seg, ax), nil
	})
	if err != nil {
		return nil, nil, nil, err
	}

	var times []float64
	if n, ok := stream.Len(src); ok {
		offset := 0
		if !cfg.boundary {
			offset = nfft / 2
		}

		times = make([]float64, SegmentCount(n, nfft, stride))
		for k := range times {
			times[k] = float64(offset+k*stride) / fs
		}
	}

	return Freqs(nfft, fs), times, seq, nil
}

// CollectSTFT stacks every segment of an STFT sequence along a new trailing
// time axis.
func CollectSTFT(seq iter.Seq2[*array.Complex, error]) (*array.Complex, error) {
	var segs []*array.Complex
	for seg, err := range seq {
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
	}

	if len(segs) == 0 {
		return nil, ErrNoSegments
	}

	out, err := array.Stack(-1, segs...)
	if err != nil {
		return nil, fmt.Errorf("spectrum: %w", err)
	}

	return out, nil
}

// tailPad returns the zeros to append to n samples so that segments of
// nfft samples every stride samples end exactly on the last sample.
func tailPad(n, nfft, stride int) int {
	if n <= 0 {
		return 0
	}
	if n < nfft {
		return nfft - n
	}

	return (stride - (n-nfft)%stride) % stride
}

// padTail extends p with the zeros tailPad asks for. The length is counted
// while streaming so unbounded sources are padded too.
func padTail(p stream.Producer, nfft, stride int) (stream.Producer, error) {
	ax := p.Axis()

	shape := p.Shape()
	if n, ok := stream.Len(p); ok {
		shape[ax] = n + tailPad(n, nfft, stride)
	}

	factory := func() iter.Seq2[*array.Array, error] {
		return func(yield func(*array.Array, error) bool) {
			var (
				n    int
				last []int
			)

			for chunk, err := range p.Chunks() {
				if err != nil {
					yield(nil, err)
					return
				}

				n += chunk.Len(ax)
				last = chunk.Shape()
				if !yield(chunk, nil) {
					return
				}
			}

			if pad := tailPad(n, nfft, stride); pad > 0 && last != nil {
				last[ax] = pad
				yield(array.Zeros[float64](last...), nil)
			}
		}
	}

	return stream.FromFunc(factory, shape, core.WithAxis(ax), core.WithChunkSize(p.ChunkSize()))
}
