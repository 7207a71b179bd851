// Package design provides IIR filter coefficient designers.
//
// The designers return cascaded second-order sections consumable by
// dsp/filter/biquad and dsp/filter/iir. Butterworth cascades are built from
// RBJ lowpass and highpass biquads whose quality factors place the poles on
// the Butterworth circle, with a first-order section for odd orders.
package design
