package resample

import (
	"fmt"
	"iter"

	"github.com/cwbudde/algo-streamdsp/dsp/array"
	"github.com/cwbudde/algo-streamdsp/dsp/core"
	"github.com/cwbudde/algo-streamdsp/dsp/fifo"
	"github.com/cwbudde/algo-streamdsp/dsp/filter/fir"
	"github.com/cwbudde/algo-streamdsp/dsp/stream"
	"github.com/sirupsen/logrus"
)

// ErrDecimation is returned when the decimation factor is not smaller than
// the producer's length.
var ErrDecimation = fmt.Errorf("resample: %w: decimation factor must be smaller than the signal", core.ErrConfiguration)

// Option configures the antialiasing and interpolation filter of
// Polyphase.
type Option func(*config)

type config struct {
	fpass, fstop float64
	gpass, gstop float64
	kernel       []float64
}

// WithFpass sets the pass band edge in Hz. Default fstop - fstop/10.
func WithFpass(hz float64) Option {
	return func(c *config) { c.fpass = hz }
}

// WithFstop sets the stop band edge in Hz. Default fs/max(up, down).
func WithFstop(hz float64) Option {
	return func(c *config) { c.fstop = hz }
}

// WithGpass sets the maximum pass band loss in dB. Default 1.
func WithGpass(db float64) Option {
	return func(c *config) { c.gpass = db }
}

// WithGstop sets the minimum stop band attenuation in dB. Default 40.
func WithGstop(db float64) Option {
	return func(c *config) { c.gstop = db }
}

// WithKernel replaces the designed filter with h.
func WithKernel(h []float64) Option {
	kernel := append([]float64{}, h...)
	return func(c *config) { c.kernel = kernel }
}

// Kernel returns the FIR window Polyphase uses for up/down at sample rate
// fs. Unless WithKernel is given, it is a Kaiser lowpass.
func Kernel(up, down int, fs float64, opts ...Option) ([]float64, error) {
	if up <= 0 || down <= 0 {
		return nil, fmt.Errorf("%w: %d/%d", ErrInvalidRatio, up, down)
	}

	cfg := config{gpass: 1, gstop: 40}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.kernel != nil {
		if len(cfg.kernel) == 0 {
			return nil, ErrEmptyWindow
		}
		return cfg.kernel, nil
	}

	if cfg.fstop == 0 {
		cfg.fstop = fs / float64(max(up, down))
	}
	if cfg.fpass == 0 {
		cfg.fpass = cfg.fstop - cfg.fstop/10
	}

	f, err := fir.Kaiser(cfg.fpass, cfg.fstop, fs, cfg.gpass, cfg.gstop)
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}

	return f.Coefficients(), nil
}

// Polyphase returns a producer of p resampled by up/down along axis.
//
// The source is processed in working chunks of chunksize samples, at most a
// third of the signal, rounded up to a multiple of down. Each working chunk
// is extended by an overhang of neighboring samples on both sides (zeros at
// the signal edges), resampled with ResamplePoly and trimmed back, so the
// output equals ResamplePoly on the whole signal. The source is traversed
// once per traversal of the result. The output holds ceil(n*up/down)
// samples in chunks of chunksize.
func Polyphase(p stream.Producer, up, down int, fs float64, chunksize, axis int, opts ...Option) (stream.Producer, error) {
	if up <= 0 || down <= 0 {
		return nil, fmt.Errorf("%w: %d/%d", ErrInvalidRatio, up, down)
	}
	if chunksize <= 0 {
		return nil, fmt.Errorf("resample: %w: chunksize must be > 0, got %d", core.ErrConfiguration, chunksize)
	}

	shape := p.Shape()

	ax, err := core.NormalizeAxis(axis, len(shape))
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}
	if ax != p.Axis() {
		return nil, fmt.Errorf("resample: %w: axis %d differs from producer axis %d", core.ErrConfiguration, ax, p.Axis())
	}

	n, known := stream.Len(p)
	if known && down >= n {
		return nil, fmt.Errorf("%w: %d >= %d", ErrDecimation, down, n)
	}

	h, err := Kernel(up, down, fs, opts...)
	if err != nil {
		return nil, err
	}

	filter, err := newPolyFilter(up, down, h)
	if err != nil {
		return nil, err
	}

	csize := chunksize
	if known {
		csize = max(1, min(csize, n/3))
	}
	csize = core.CeilDiv(csize, down) * down

	e := &polyEngine{
		src:      p,
		filter:   filter,
		axis:     ax,
		csize:    csize,
		overhang: core.CeilDiv(len(h)-1, down) * down,
	}
	e.trim = e.overhang * up / down

	if known {
		shape[ax] = core.CeilDiv(n*up, down)
	}

	return stream.FromFunc(e.segments, shape, core.WithAxis(ax), core.WithChunkSize(chunksize))
}

type polyEngine struct {
	src    stream.Producer
	filter *polyFilter
	axis   int

	csize    int
	overhang int
	trim     int
}

// segments resamples one traversal of the source. A FIFO holds the current
// working chunk plus up to overhang samples of lookahead.
func (e *polyEngine) segments() iter.Seq2[*array.Array, error] {
	return func(yield func(*array.Array, error) bool) {
		logrus.WithFields(logrus.Fields{
			"up":       e.filter.up,
			"down":     e.filter.down,
			"csize":    e.csize,
			"overhang": e.overhang,
			"taps":     len(e.filter.h),
		}).Debug("resample: polyphase traversal")

		q, err := fifo.New(e.csize, e.axis)
		if err != nil {
			yield(nil, err)
			return
		}

		next, stop := iter.Pull2(e.src.Chunks())
		defer stop()

		var (
			left      *array.Array
			exhausted bool
		)

		for {
			for !exhausted && q.Qsize() < e.csize+e.overhang {
				chunk, err, ok := next()
				if !ok {
					exhausted = true
					break
				}
				if err != nil {
					yield(nil, err)
					return
				}
				if err := q.Put(chunk); err != nil {
					yield(nil, fmt.Errorf("resample: %w", err))
					return
				}
			}

			if q.Qsize() == 0 {
				return
			}

			take := min(e.csize, q.Qsize())

			view, err := q.Peek(min(q.Qsize(), take+e.overhang))
			if err != nil {
				yield(nil, err)
				return
			}
			q.Discard(take)

			current := view.Slice(e.axis, 0, take)
			right := view.Slice(e.axis, take, view.Len(e.axis))
			right = right.Pad(e.axis, 0, e.overhang-right.Len(e.axis), 0)

			if left == nil {
				shape := current.Shape()
				shape[e.axis] = e.overhang
				left = array.Zeros[float64](shape...)
			}

			padded, err := array.Concat(e.axis, left, current, right)
			if err != nil {
				yield(nil, err)
				return
			}

			out := e.filter.resampleAlong(padded, e.axis)
			out = out.Slice(e.axis, e.trim, out.Len(e.axis)-e.trim)

			history := padded.Slice(e.axis, 0, e.overhang+take)
			left = history.Slice(e.axis, history.Len(e.axis)-e.overhang, history.Len(e.axis))

			if !yield(out, nil) {
				return
			}
		}
	}
}
