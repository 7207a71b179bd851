package wavio

import (
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/algo-streamdsp/dsp/array"
	"github.com/cwbudde/algo-streamdsp/dsp/core"
	"github.com/cwbudde/algo-streamdsp/dsp/stream"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrFormat is returned for files that are not integer PCM WAV files and
// for headers that cannot be written.
var ErrFormat = fmt.Errorf("wavio: %w: unsupported wav format", core.ErrConfiguration)

// pcmFormat is the WAVE format tag of integer PCM.
const pcmFormat = 1

// skipFrames bounds the frames decoded per step while skipping forward.
const skipFrames = 4096

// Header describes the sample layout of a WAV file.
type Header struct {
	SampleRate int
	BitDepth   int
	Channels   int
}

func (h Header) validate() error {
	switch {
	case h.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrFormat, h.SampleRate)
	case h.Channels <= 0:
		return fmt.Errorf("%w: %d channels", ErrFormat, h.Channels)
	case h.BitDepth != 8 && h.BitDepth != 16 && h.BitDepth != 24 && h.BitDepth != 32:
		return fmt.Errorf("%w: bit depth %d", ErrFormat, h.BitDepth)
	}

	return nil
}

// fullScale returns the magnitude of the most negative sample value.
func (h Header) fullScale() float64 {
	return float64(int64(1) << (h.BitDepth - 1))
}

// Reader decodes a PCM WAV file. It implements stream.Reader.
//
// Reads that continue where the previous one stopped decode sequentially;
// reading backwards restarts decoding at the beginning of the data.
type Reader struct {
	f      *os.File
	dec    *wav.Decoder
	header Header
	frames int
	cursor int
	buf    *audio.IntBuffer
}

var _ stream.Reader = (*Reader)(nil)

// Open opens the WAV file at path.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavio: %w", err)
	}

	r := &Reader{f: f}
	if err := r.rewind(); err != nil {
		_ = f.Close()
		return nil, err
	}

	dec := r.dec
	r.header = Header{
		SampleRate: int(dec.SampleRate),
		BitDepth:   int(dec.BitDepth),
		Channels:   int(dec.NumChans),
	}
	if err := r.header.validate(); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	frameBytes := r.header.Channels * r.header.BitDepth / 8
	r.frames = int(dec.PCMLen()) / frameBytes
	r.buf = &audio.IntBuffer{
		Format:         dec.Format(),
		SourceBitDepth: r.header.BitDepth,
	}

	return r, nil
}

// rewind positions a fresh decoder at the first PCM frame.
func (r *Reader) rewind() error {
	if _, err := r.f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("wavio: %w", err)
	}

	dec := wav.NewDecoder(r.f)
	if !dec.IsValidFile() {
		return fmt.Errorf("%w: %s is not a wav file", ErrFormat, r.f.Name())
	}
	if dec.WavAudioFormat != pcmFormat {
		return fmt.Errorf("%w: format tag %d", ErrFormat, dec.WavAudioFormat)
	}
	if err := dec.FwdToPCM(); err != nil {
		return fmt.Errorf("wavio: %w", err)
	}

	r.dec = dec
	r.cursor = 0

	return nil
}

// Header returns the file's sample layout.
func (r *Reader) Header() Header { return r.header }

// Shape returns (channels, frames).
func (r *Reader) Shape() []int { return []int{r.header.Channels, r.frames} }

// Read returns the samples of frames [start, stop) for the given channels,
// or every channel when channels is nil, as a (channels, frames) array.
// stop is clipped to the number of frames.
func (r *Reader) Read(start, stop int, channels []int) (*array.Array, error) {
	if start < 0 || start > r.frames {
		return nil, fmt.Errorf("wavio: %w: start %d for %d frames", core.ErrBounds, start, r.frames)
	}
	stop = min(stop, r.frames)
	if stop < start {
		stop = start
	}

	if channels == nil {
		channels = make([]int, r.header.Channels)
		for c := range channels {
			channels[c] = c
		}
	}
	for _, c := range channels {
		if c < 0 || c >= r.header.Channels {
			return nil, fmt.Errorf("wavio: %w: channel %d of %d", core.ErrBounds, c, r.header.Channels)
		}
	}

	if err := r.seek(start); err != nil {
		return nil, err
	}

	n := stop - start
	data, err := r.decode(n)
	if err != nil {
		return nil, err
	}

	out := array.Zeros[float64](len(channels), n)
	samples := out.Data()
	scale := 1 / r.header.fullScale()
	offset := 0
	if r.header.BitDepth == 8 {
		offset = 128
	}

	nch := r.header.Channels
	for row, c := range channels {
		dst := samples[row*n : (row+1)*n]
		for i := range dst {
			dst[i] = float64(data[i*nch+c]-offset) * scale
		}
	}

	return out, nil
}

// seek moves the decoder to frame start.
func (r *Reader) seek(start int) error {
	if start < r.cursor {
		if err := r.rewind(); err != nil {
			return err
		}
	}

	for r.cursor < start {
		if _, err := r.decode(min(skipFrames, start-r.cursor)); err != nil {
			return err
		}
	}

	return nil
}

// decode reads the next n interleaved frames.
func (r *Reader) decode(n int) ([]int, error) {
	want := n * r.header.Channels
	if cap(r.buf.Data) < want {
		r.buf.Data = make([]int, want)
	}
	data := r.buf.Data[:want]

	for got := 0; got < want; {
		r.buf.Data = data[got:]
		k, err := r.dec.PCMBuffer(r.buf)
		if err != nil {
			return nil, fmt.Errorf("wavio: decode: %w", err)
		}
		if k == 0 {
			return nil, fmt.Errorf("wavio: decode: %w", io.ErrUnexpectedEOF)
		}
		got += k
	}

	r.buf.Data = data
	r.cursor += n

	return data, nil
}

// Close releases the file.
func (r *Reader) Close() error {
	if r.f == nil {
		return nil
	}

	err := r.f.Close()
	r.f = nil

	return err
}

// NewProducer returns a restartable producer over the file at path, with
// samples on the last axis. channels selects rows; nil selects all.
func NewProducer(path string, channels []int, opts ...core.StreamOption) (stream.Producer, error) {
	open := func() (stream.Reader, error) {
		r, err := Open(path)
		if err != nil {
			return nil, err
		}
		return r, nil
	}

	return stream.FromReader(open, channels, opts...)
}
