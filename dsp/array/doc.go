// Package array provides dense, row-major N-dimensional arrays used as the
// chunk type of every producer in this module.
//
// Signals are stored with one designated sample axis; every other axis
// indexes channels (or any other independent dimension). Operations that
// work "per lane" treat each 1-D run of samples along the sample axis as an
// independent signal, which is how filters, convolutions and transforms
// generalize from []float64 to multichannel data.
//
// Shape mismatches and out-of-range indices are programming errors and
// panic, in the same way gonum's mat package does. Functions that combine
// externally supplied arrays (Concat, Stack) return errors instead.
package array
