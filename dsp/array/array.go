package array

import (
	"errors"
	"fmt"
)

// ErrShape is returned when arrays cannot be combined along an axis.
var ErrShape = errors.New("array: shape mismatch")

// Number is the set of element types a Dense array can hold.
type Number interface {
	~float64 | ~complex128
}

// Dense is a row-major N-dimensional array.
type Dense[T Number] struct {
	shape []int
	data  []T
}

// Array is a real-valued array.
type Array = Dense[float64]

// Complex is a complex-valued array.
type Complex = Dense[complex128]

// New wraps data with the given shape. The data slice is not copied.
func New[T Number](data []T, shape ...int) (*Dense[T], error) {
	if len(shape) == 0 {
		shape = []int{len(data)}
	}

	size := 1
	for _, n := range shape {
		if n < 0 {
			return nil, fmt.Errorf("%w: negative dimension in %v", ErrShape, shape)
		}
		size *= n
	}

	if size != len(data) {
		return nil, fmt.Errorf("%w: %d elements for shape %v", ErrShape, len(data), shape)
	}

	return &Dense[T]{shape: append([]int(nil), shape...), data: data}, nil
}

// Zeros returns a zero-filled array of the given shape.
func Zeros[T Number](shape ...int) *Dense[T] {
	size := 1
	for _, n := range shape {
		if n < 0 {
			panic(fmt.Sprintf("array: negative dimension in %v", shape))
		}
		size *= n
	}

	return &Dense[T]{shape: append([]int(nil), shape...), data: make([]T, size)}
}

// Full returns an array of the given shape filled with value.
func Full[T Number](value T, shape ...int) *Dense[T] {
	a := Zeros[T](shape...)
	if value != 0 {
		for i := range a.data {
			a.data[i] = value
		}
	}

	return a
}

// FromSlice returns a 1-D array holding a copy of x.
func FromSlice(x []float64) *Array {
	return &Array{shape: []int{len(x)}, data: append([]float64(nil), x...)}
}

// FromRows returns a 2-D array whose rows are copies of rows. All rows must
// have the same length.
func FromRows(rows [][]float64) (*Array, error) {
	if len(rows) == 0 {
		return Zeros[float64](0, 0), nil
	}

	n := len(rows[0])
	out := Zeros[float64](len(rows), n)

	for i, r := range rows {
		if len(r) != n {
			return nil, fmt.Errorf("%w: row %d has %d samples, want %d", ErrShape, i, len(r), n)
		}
		copy(out.data[i*n:], r)
	}

	return out, nil
}

// Shape returns a copy of the array shape.
func (a *Dense[T]) Shape() []int { return append([]int(nil), a.shape...) }

// Ndim returns the number of dimensions.
func (a *Dense[T]) Ndim() int { return len(a.shape) }

// Size returns the total number of elements.
func (a *Dense[T]) Size() int { return len(a.data) }

// Data returns the row-major backing slice.
func (a *Dense[T]) Data() []T { return a.data }

// Len returns the extent of the given axis. Negative axes count from the end.
func (a *Dense[T]) Len(axis int) int { return a.shape[a.axis(axis)] }

// Clone returns a deep copy.
func (a *Dense[T]) Clone() *Dense[T] {
	return &Dense[T]{shape: a.Shape(), data: append([]T(nil), a.data...)}
}

// At returns the element at the given multi-index.
func (a *Dense[T]) At(idx ...int) T { return a.data[a.offset(idx)] }

// Set stores v at the given multi-index.
func (a *Dense[T]) Set(v T, idx ...int) { a.data[a.offset(idx)] = v }

// Reshape returns a view of the same data with a new shape of equal size.
func (a *Dense[T]) Reshape(shape ...int) (*Dense[T], error) {
	return New(a.data, shape...)
}

func (a *Dense[T]) offset(idx []int) int {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("array: %d indices for %d dimensions", len(idx), len(a.shape)))
	}

	off := 0
	for d, i := range idx {
		if i < 0 || i >= a.shape[d] {
			panic(fmt.Sprintf("array: index %d out of range [0,%d) on axis %d", i, a.shape[d], d))
		}
		off = off*a.shape[d] + i
	}

	return off
}

func (a *Dense[T]) axis(axis int) int {
	n := len(a.shape)
	if axis < 0 {
		axis += n
	}

	if axis < 0 || axis >= n {
		panic(fmt.Sprintf("array: axis %d out of range for %d dimensions", axis, n))
	}

	return axis
}

// geometry splits the shape around axis into the number of outer blocks,
// the axis length and the inner stride.
func (a *Dense[T]) geometry(axis int) (outer, n, inner int) {
	axis = a.axis(axis)

	outer, inner = 1, 1
	for d := 0; d < axis; d++ {
		outer *= a.shape[d]
	}
	for d := axis + 1; d < len(a.shape); d++ {
		inner *= a.shape[d]
	}

	return outer, a.shape[axis], inner
}

// withAxisLen returns a copy of the shape with the axis extent replaced.
func (a *Dense[T]) withAxisLen(axis, n int) []int {
	shape := a.Shape()
	shape[a.axis(axis)] = n

	return shape
}
