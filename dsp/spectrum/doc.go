// Package spectrum estimates the spectral content of chunked producers.
//
// [Segments] is the shared engine: it resegments arbitrary producer chunks
// through a FIFO into overlapping windows of nfft samples and applies a
// per-window estimator. [Welch] and [PSD] apply the modified periodogram and
// average it; [STFT] applies the modified DFT and keeps one complex spectrum
// per segment. Frequencies follow the one-sided real DFT layout of nfft/2+1
// bins from 0 to fs/2.
package spectrum
