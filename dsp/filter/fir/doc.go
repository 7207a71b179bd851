// Package fir provides linear-phase FIR filters designed with the Kaiser
// window method and applied to producers through overlap-add convolution.
//
// [Kaiser] turns pass and stop band edges plus ripple and attenuation
// criteria into a Type I (odd length, symmetric) filter. [FIR.Apply]
// convolves a producer with the filter coefficients chunk by chunk; its
// output equals one-shot convolution in every boundary mode.
package fir
