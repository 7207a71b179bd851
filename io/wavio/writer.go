package wavio

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/cwbudde/algo-streamdsp/dsp/core"
	"github.com/cwbudde/algo-streamdsp/dsp/stream"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"
)

// Write drains p into a new PCM WAV file at path. p must hold
// header.Channels rows with samples on the last axis, or be 1-D for a
// single channel. Samples are clipped to [-1, 1) before quantization.
func Write(path string, header Header, p stream.Producer) (err error) {
	if err := header.validate(); err != nil {
		return err
	}

	shape := p.Shape()
	switch {
	case p.Axis() != len(shape)-1:
		return fmt.Errorf("wavio: %w: samples must lie on the last axis", core.ErrConfiguration)
	case len(shape) == 1 && header.Channels != 1,
		len(shape) == 2 && shape[0] != header.Channels,
		len(shape) > 2:
		return fmt.Errorf("wavio: %w: shape %v for %d channels", core.ErrConfiguration, shape, header.Channels)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	enc := wav.NewEncoder(f, header.SampleRate, header.BitDepth, header.Channels, pcmFormat)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: header.Channels, SampleRate: header.SampleRate},
		SourceBitDepth: header.BitDepth,
	}

	full := header.fullScale()
	offset := 0
	if header.BitDepth == 8 {
		offset = 128
	}

	frames := 0
	for chunk, err := range p.Chunks() {
		if err != nil {
			return err
		}

		n := chunk.Len(-1)
		nch := header.Channels
		if chunk.Ndim() == 1 {
			if chunk, err = chunk.Reshape(1, n); err != nil {
				return err
			}
		}
		if cap(buf.Data) < n*nch {
			buf.Data = make([]int, n*nch)
		}
		buf.Data = buf.Data[:n*nch]

		data := chunk.Data()
		for c := range nch {
			row := data[c*n : (c+1)*n]
			for i, v := range row {
				buf.Data[i*nch+c] = quantize(v, full) + offset
			}
		}

		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("wavio: encode: %w", err)
		}
		frames += n
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavio: encode: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"path":     path,
		"channels": header.Channels,
		"frames":   frames,
		"bitDepth": header.BitDepth,
	}).Debug("wavio: wrote file")

	return nil
}

// quantize maps v in [-1, 1) to an integer sample of the given full scale.
func quantize(v, full float64) int {
	q := math.Round(v * full)
	return int(math.Max(-full, math.Min(full-1, q)))
}
