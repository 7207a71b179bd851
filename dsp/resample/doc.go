// Package resample provides rational sample-rate conversion by polyphase
// FIR filtering.
//
// [ResamplePoly] converts a whole signal by up/down: it upsamples with zero
// stuffing, applies the FIR window h and decimates, compensating the filter
// delay so the output is aligned with the input. [Polyphase] does the same
// for a producer chunk by chunk. Each chunk borrows an overhang of samples
// from its neighbors so the concatenated output equals the one-shot
// conversion of the whole signal.
package resample
