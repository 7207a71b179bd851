// Package iir applies cascaded second-order-section IIR filters to chunked
// producers.
//
// [Sosfilt] carries every lane's delay line from one chunk to the next, so
// its output does not depend on the source chunk size. [Sosfiltfilt] is a
// chunk-local forward-backward approximation of zero-phase filtering: the
// backward pass restarts at every chunk from steady-state conditions, so its
// output depends on chunk size near chunk edges.
package iir
