package spectrum_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-streamdsp/dsp/array"
	"github.com/cwbudde/algo-streamdsp/dsp/core"
	"github.com/cwbudde/algo-streamdsp/dsp/spectrum"
	"github.com/cwbudde/algo-streamdsp/dsp/stream"
)

func ExamplePSD() {
	const fs = 100.0
	x := make([]float64, 2000)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * 5 * float64(i) / fs)
	}

	src, err := stream.FromArray(array.FromSlice(x), core.WithChunkSize(300))
	if err != nil {
		panic(err)
	}

	count, freqs, psd, err := spectrum.PSD(src, fs, spectrum.WithResolution(1))
	if err != nil {
		panic(err)
	}

	peak := 0
	for k, v := range psd.Data() {
		if v > psd.Data()[peak] {
			peak = k
		}
	}

	fmt.Println(count, len(freqs), freqs[peak])
	// Output:
	// 39 51 5
}

func ExampleSTFT() {
	src, err := stream.FromArray(array.FromSlice(make([]float64, 1000)))
	if err != nil {
		panic(err)
	}

	freqs, times, seq, err := spectrum.STFT(src, 1000, 100)
	if err != nil {
		panic(err)
	}

	out, err := spectrum.CollectSTFT(seq)
	if err != nil {
		panic(err)
	}

	fmt.Println(len(freqs), len(times), out.Shape())
	// Output:
	// 51 21 [51 21]
}
