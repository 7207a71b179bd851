package conv

import (
	"fmt"
	"iter"

	"github.com/cwbudde/algo-streamdsp/dsp/array"
	"github.com/cwbudde/algo-streamdsp/dsp/core"
	"github.com/cwbudde/algo-streamdsp/dsp/stream"
	"github.com/sirupsen/logrus"
)

// OAConvolve returns a producer of the convolution of p with kernel along
// axis, computed block by block with the overlap-add method.
//
// The source is read through a view rechunked to the engine's block size,
// so p's own chunk size is left untouched; the returned producer uses it.
// Concatenating its chunks equals ConvolveMode on the whole signal.
func OAConvolve(p stream.Producer, kernel []float64, axis int, mode Mode) (stream.Producer, error) {
	if err := mode.validate(); err != nil {
		return nil, err
	}

	shape := p.Shape()
	ax, err := core.NormalizeAxis(axis, len(shape))
	if err != nil {
		return nil, fmt.Errorf("conv: %w", err)
	}
	if ax != p.Axis() {
		return nil, fmt.Errorf("%w: %d vs %d", ErrAxisMismatch, ax, p.Axis())
	}

	oa, err := NewOverlapAdd(kernel, 0)
	if err != nil {
		return nil, err
	}

	n, known := stream.Len(p)
	if known {
		if mode == ModeValid && n < len(kernel) {
			return nil, fmt.Errorf("%w: %d samples, %d taps", ErrShortSignal, n, len(kernel))
		}
		shape[ax] = mode.OutputLen(n, len(kernel))
	}

	eng := &oaEngine{oa: oa, src: p, axis: ax, mode: mode}

	return stream.FromFunc(eng.segments, shape, core.WithAxis(ax), core.WithChunkSize(p.ChunkSize()))
}

type oaEngine struct {
	oa   *OverlapAdd
	src  stream.Producer
	axis int
	mode Mode
}

// segments runs one traversal. Every block but the last yields BlockSize
// samples; the last also flushes its tail. The first and last segment carry
// the mode's edge trim.
func (e *oaEngine) segments() iter.Seq2[*array.Array, error] {
	return func(yield func(*array.Array, error) bool) {
		blocks, err := stream.Rechunk(e.src, e.oa.BlockSize())
		if err != nil {
			yield(nil, err)
			return
		}

		logrus.WithFields(logrus.Fields{
			"fft_size":   e.oa.FFTSize(),
			"block_size": e.oa.BlockSize(),
			"taps":       e.oa.KernelLen(),
			"mode":       e.mode.String(),
		}).Debug("conv: overlap-add traversal")

		var (
			tails   [][]float64
			pending *array.Array
			index   int
		)

		emit := func(block *array.Array, last bool) bool {
			if tails == nil {
				tails = make([][]float64, block.NumLanes(e.axis))
				for k := range tails {
					tails[k] = make([]float64, e.oa.KernelLen()-1)
				}
			}

			seg, err := e.process(block, tails, last)
			if err == nil {
				seg = e.trim(seg, index == 0, last)
			}
			index++

			return yield(seg, err) && err == nil
		}

		for block, err := range blocks.Chunks() {
			if err != nil {
				yield(nil, err)
				return
			}

			if pending != nil && !emit(pending, false) {
				return
			}
			pending = block
		}

		if pending != nil {
			emit(pending, true)
		}
	}
}

func (e *oaEngine) process(block *array.Array, tails [][]float64, last bool) (*array.Array, error) {
	n := block.Len(e.axis)
	m := e.oa.KernelLen()

	outLen := n
	if last {
		outLen = n + m - 1
	}

	full := make([]float64, n+m-1)

	var procErr error
	out := array.MapLanes(block, e.axis, outLen, func(k int, dst, src []float64) {
		if procErr != nil {
			return
		}

		if err := e.oa.ProcessBlock(full, src, tails[k]); err != nil {
			procErr = err
			return
		}

		copy(dst, full)
		if !last {
			copy(tails[k], full[n:])
		}
	})

	return out, procErr
}

func (e *oaEngine) trim(seg *array.Array, first, last bool) *array.Array {
	lead, trail := e.mode.trimCounts(e.oa.KernelLen())

	start, stop := 0, seg.Len(e.axis)
	if first {
		start = lead
	}
	if last {
		stop -= trail
	}

	if start == 0 && stop == seg.Len(e.axis) {
		return seg
	}

	return seg.Slice(e.axis, start, stop)
}
