package spectrum

import (
	"fmt"
	"iter"
	"math"

	"github.com/cwbudde/algo-streamdsp/dsp/array"
	"github.com/cwbudde/algo-streamdsp/dsp/core"
	"github.com/cwbudde/algo-streamdsp/dsp/fifo"
	"github.com/cwbudde/algo-streamdsp/dsp/stream"
	"github.com/sirupsen/logrus"
)

// Stride returns the number of samples between the starts of consecutive
// segments: nfft - floor(nfft*overlap).
func Stride(nfft int, overlap float64) int {
	return nfft - int(math.Floor(float64(nfft)*overlap))
}

// SegmentCount returns how many whole segments fit into n samples.
func SegmentCount(n, nfft, stride int) int {
	if n < nfft || stride <= 0 {
		return 0
	}

	return (n-nfft)/stride + 1
}

// Segments returns a sequence applying estimate to consecutive segments of
// nfft samples of p along axis, each starting stride samples after the
// previous one. Trailing samples too few for a whole segment are dropped.
// Every traversal of the sequence traverses p once.
func Segments[T array.Number](p stream.Producer, nfft int, overlap float64, axis int, estimate func(segment *array.Array) (*array.Dense[T], error)) (iter.Seq2[*array.Dense[T], error], error) {
	if nfft <= 0 {
		return nil, fmt.Errorf("spectrum: %w: nfft must be > 0, got %d", core.ErrConfiguration, nfft)
	}
	if overlap < 0 || overlap >= 1 {
		return nil, fmt.Errorf("spectrum: %w: overlap %v outside [0, 1)", core.ErrConfiguration, overlap)
	}
	if estimate == nil {
		return nil, fmt.Errorf("spectrum: %w: nil estimator", core.ErrConfiguration)
	}

	ax, err := core.NormalizeAxis(axis, len(p.Shape()))
	if err != nil {
		return nil, fmt.Errorf("spectrum: %w", err)
	}
	if ax != p.Axis() {
		return nil, fmt.Errorf("spectrum: %w: axis %d differs from producer axis %d", core.ErrConfiguration, ax, p.Axis())
	}

	stride := Stride(nfft, overlap)

	return func(yield func(*array.Dense[T], error) bool) {
		logrus.WithFields(logrus.Fields{
			"nfft":     nfft,
			"stride":   stride,
			"segments": segmentsOf(p, nfft, stride),
		}).Debug("spectrum: segment traversal")

		q, err := fifo.New(stride, ax)
		if err != nil {
			yield(nil, err)
			return
		}

		for chunk, err := range p.Chunks() {
			if err != nil {
				yield(nil, err)
				return
			}

			if err := q.Put(chunk); err != nil {
				yield(nil, fmt.Errorf("spectrum: %w", err))
				return
			}

			for q.Qsize() >= nfft {
				seg, err := q.Peek(nfft)
				if err != nil {
					yield(nil, err)
					return
				}
				q.Discard(stride)

				out, err := estimate(seg)
				if !yield(out, err) || err != nil {
					return
				}
			}
		}
	}, nil
}

// segmentsOf returns the segment count of p, or stream.Unknown.
func segmentsOf(p stream.Producer, nfft, stride int) int {
	n, ok := stream.Len(p)
	if !ok {
		return stream.Unknown
	}

	return SegmentCount(n, nfft, stride)
}
