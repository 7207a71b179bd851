package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-streamdsp/dsp/core"
	"github.com/tphakala/simd/c128"
)

// OverlapAdd implements FFT-based convolution using the overlap-add method.
//
// The algorithm:
//  1. Divide the input into non-overlapping blocks of BlockSize samples
//  2. Zero-pad each block to the FFT size
//  3. Convolve via FFT multiplication with the precomputed kernel spectrum
//  4. Add the M-1 sample tail of the previous block into the head of the
//     current one
//
// The kernel spectrum and scratch buffers are shared; the tail is owned by
// the caller so one OverlapAdd can serve many independent lanes.
type OverlapAdd struct {
	kernelFFT []complex128

	kernelLen int
	blockSize int // L = fftSize - kernelLen + 1
	fftSize   int

	plan *algofft.Plan[complex128]

	padded  []complex128
	product []complex128
}

// FFTSizeFor returns the default FFT size for a kernel of m taps: eight
// times the next power of two, so each block carries far more new samples
// than overlap.
func FFTSizeFor(m int) int {
	return 8 * nextPowerOf2(m)
}

// NewOverlapAdd creates a convolver for kernel. fftSize must be a power of
// two of at least len(kernel); 0 selects FFTSizeFor(len(kernel)).
func NewOverlapAdd(kernel []float64, fftSize int) (*OverlapAdd, error) {
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}

	m := len(kernel)
	if fftSize <= 0 {
		fftSize = FFTSizeFor(m)
	}

	if fftSize < m || fftSize != nextPowerOf2(fftSize) {
		return nil, fmt.Errorf("conv: %w: FFT size %d must be a power of two >= %d", core.ErrConfiguration, fftSize, m)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	oa := &OverlapAdd{
		kernelFFT: make([]complex128, fftSize),
		kernelLen: m,
		blockSize: fftSize - m + 1,
		fftSize:   fftSize,
		plan:      plan,
		padded:    make([]complex128, fftSize),
		product:   make([]complex128, fftSize),
	}

	for i, v := range kernel {
		oa.padded[i] = complex(v, 0)
	}

	if err := plan.Forward(oa.kernelFFT, oa.padded); err != nil {
		return nil, fmt.Errorf("conv: failed to compute kernel FFT: %w", err)
	}

	return oa, nil
}

// BlockSize returns the number of new input samples per block.
func (oa *OverlapAdd) BlockSize() int { return oa.blockSize }

// FFTSize returns the FFT size used internally.
func (oa *OverlapAdd) FFTSize() int { return oa.fftSize }

// KernelLen returns the kernel length.
func (oa *OverlapAdd) KernelLen() int { return oa.kernelLen }

// ProcessBlock writes the linear convolution of block with the kernel into
// dst and adds tail to its first KernelLen()-1 samples. block may hold at
// most BlockSize samples; dst must hold len(block)+KernelLen()-1. A nil
// tail is treated as zeros.
func (oa *OverlapAdd) ProcessBlock(dst, block, tail []float64) error {
	if len(block) > oa.blockSize {
		return fmt.Errorf("conv: block of %d samples exceeds block size %d", len(block), oa.blockSize)
	}

	want := len(block) + oa.kernelLen - 1
	if len(dst) != want {
		return fmt.Errorf("conv: destination holds %d samples, want %d", len(dst), want)
	}

	for i := range oa.padded {
		oa.padded[i] = 0
	}
	for i, x := range block {
		oa.padded[i] = complex(x, 0)
	}

	if err := oa.plan.Forward(oa.padded, oa.padded); err != nil {
		return fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	c128.Mul(oa.product, oa.padded, oa.kernelFFT)

	if err := oa.plan.Inverse(oa.product, oa.product); err != nil {
		return fmt.Errorf("conv: inverse FFT failed: %w", err)
	}

	for i := range dst {
		dst[i] = real(oa.product[i])
	}

	for i := 0; i < len(tail) && i < len(dst); i++ {
		dst[i] += tail[i]
	}

	return nil
}

// Process convolves the whole input with the kernel and returns the full
// linear convolution of length len(input)+KernelLen()-1.
func (oa *OverlapAdd) Process(input []float64) ([]float64, error) {
	if len(input) == 0 {
		return nil, ErrEmptyInput
	}

	output := make([]float64, len(input)+oa.kernelLen-1)
	scratch := make([]float64, oa.blockSize+oa.kernelLen-1)

	for start := 0; start < len(input); start += oa.blockSize {
		block := input[start:min(start+oa.blockSize, len(input))]
		res := scratch[:len(block)+oa.kernelLen-1]

		if err := oa.ProcessBlock(res, block, nil); err != nil {
			return nil, err
		}

		out := output[start : start+len(res)]
		for i, v := range res {
			out[i] += v
		}
	}

	return output, nil
}
