package core

// EnsureLen returns buf resliced to n, reallocating only when its capacity is
// too small. The contents are not cleared.
func EnsureLen(buf []float64, n int) []float64 {
	n = max(n, 0)
	if cap(buf) < n {
		return make([]float64, n)
	}
	return buf[:n]
}

// Zero clears buf.
func Zero(buf []float64) { clear(buf) }
