// Package biquad provides second-order IIR section runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for one
// second-order section defined by [Coefficients]. Sections are cascaded with
// [Chain]. [ParseSOS] reads the conventional n×6 second-order-section matrix
// and [SteadyStateZi] computes step-response initial conditions for it.
//
// Coefficient design lives in dsp/filter/design; chunked streaming over
// producers lives in dsp/filter/iir.
package biquad
