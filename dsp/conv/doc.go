// Package conv provides linear convolution for slices and for producers.
//
// The package offers:
//
//   - Direct convolution: simple O(N*M) time-domain convolution, best for very short kernels
//   - Overlap-add (OLA): FFT-based block convolution, efficient for long signals
//   - OAConvolve: overlap-add over a [stream.Producer], chunk by chunk, with
//     full, same and valid boundary modes
//
// # Usage
//
// For one-shot convolution, use the simple functions:
//
//	result, err := conv.Convolve(signal, kernel)              // Auto-selects best algorithm
//	result, err := conv.ConvolveMode(signal, kernel, conv.ModeSame)
//
// For signals that do not fit in memory, convolve a producer:
//
//	out, err := conv.OAConvolve(p, kernel, p.Axis(), conv.ModeSame)
//	for chunk, err := range out.Chunks() {
//		...
//	}
//
// OAConvolve picks an FFT size of eight times the next power of two of the
// kernel length, reads the source in blocks of FFTSize-M+1 samples and carries
// the M-1 sample overlap between blocks per lane. The first and last segment
// are trimmed for the mode, so the concatenated output equals whole-signal
// convolution regardless of the source's chunk size.
package conv
