package array

import "fmt"

// Slice returns a copy of the samples in [start, stop) along axis.
func (a *Dense[T]) Slice(axis, start, stop int) *Dense[T] {
	outer, n, inner := a.geometry(axis)
	if start < 0 || stop > n || start > stop {
		panic(fmt.Sprintf("array: slice [%d:%d] out of range for length %d", start, stop, n))
	}

	m := stop - start
	out := &Dense[T]{shape: a.withAxisLen(axis, m), data: make([]T, outer*m*inner)}

	for o := range outer {
		src := a.data[(o*n+start)*inner : (o*n+stop)*inner]
		copy(out.data[o*m*inner:], src)
	}

	return out
}

// Flip returns a copy with the order of samples along axis reversed.
func (a *Dense[T]) Flip(axis int) *Dense[T] {
	outer, n, inner := a.geometry(axis)
	out := &Dense[T]{shape: a.Shape(), data: make([]T, len(a.data))}

	for o := range outer {
		base := o * n * inner
		for j := range n {
			src := a.data[base+j*inner : base+(j+1)*inner]
			copy(out.data[base+(n-1-j)*inner:], src)
		}
	}

	return out
}

// Pad returns a copy with before and after samples of value added along axis.
func (a *Dense[T]) Pad(axis, before, after int, value T) *Dense[T] {
	if before < 0 || after < 0 {
		panic(fmt.Sprintf("array: negative pad (%d, %d)", before, after))
	}

	outer, n, inner := a.geometry(axis)
	m := before + n + after
	out := Full(value, a.withAxisLen(axis, m)...)

	for o := range outer {
		src := a.data[o*n*inner : (o+1)*n*inner]
		copy(out.data[(o*m+before)*inner:], src)
	}

	return out
}

// Concat joins arrays along axis. Nil arrays are skipped; all others must
// agree on every dimension except axis.
func Concat[T Number](axis int, arrs ...*Dense[T]) (*Dense[T], error) {
	var parts []*Dense[T]
	for _, a := range arrs {
		if a != nil {
			parts = append(parts, a)
		}
	}

	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: nothing to concatenate", ErrShape)
	}

	first := parts[0]
	ax := first.axis(axis)
	total := 0

	for _, p := range parts {
		if len(p.shape) != len(first.shape) {
			return nil, fmt.Errorf("%w: %v and %v", ErrShape, first.shape, p.shape)
		}
		for d := range p.shape {
			if d != ax && p.shape[d] != first.shape[d] {
				return nil, fmt.Errorf("%w: %v and %v along axis %d", ErrShape, first.shape, p.shape, ax)
			}
		}
		total += p.shape[ax]
	}

	if len(parts) == 1 {
		return first.Clone(), nil
	}

	outer, _, inner := first.geometry(ax)
	out := Zeros[T](first.withAxisLen(ax, total)...)

	pos := 0
	for o := range outer {
		for _, p := range parts {
			n := p.shape[ax]
			pos += copy(out.data[pos:], p.data[o*n*inner:(o+1)*n*inner])
		}
	}

	return out, nil
}

// Stack joins equally shaped arrays along a new axis inserted at position
// axis of the result. Negative axes count from the end of the result shape.
func Stack[T Number](axis int, arrs ...*Dense[T]) (*Dense[T], error) {
	if len(arrs) == 0 {
		return nil, fmt.Errorf("%w: nothing to stack", ErrShape)
	}

	ndim := len(arrs[0].shape) + 1
	if axis < 0 {
		axis += ndim
	}
	if axis < 0 || axis >= ndim {
		return nil, fmt.Errorf("%w: stack axis %d out of range for %d dimensions", ErrShape, axis, ndim)
	}

	views := make([]*Dense[T], len(arrs))
	for i, a := range arrs {
		shape := make([]int, 0, ndim)
		shape = append(shape, a.shape[:axis]...)
		shape = append(shape, 1)
		shape = append(shape, a.shape[axis:]...)
		views[i] = &Dense[T]{shape: shape, data: a.data}
	}

	return Concat(axis, views...)
}

// NumLanes returns the number of 1-D lanes along axis.
func (a *Dense[T]) NumLanes(axis int) int {
	outer, _, inner := a.geometry(axis)
	return outer * inner
}

// Lane returns a copy of the k-th lane along axis. Lanes are numbered in
// row-major order of the remaining dimensions.
func (a *Dense[T]) Lane(axis, k int) []T {
	outer, n, inner := a.geometry(axis)
	if k < 0 || k >= outer*inner {
		panic(fmt.Sprintf("array: lane %d out of range [0,%d)", k, outer*inner))
	}

	out := make([]T, n)
	gather(out, a.data, k/inner, n, inner, k%inner)

	return out
}

// ApplyLanes calls fn with every lane along axis. Changes fn makes to lane
// are written back to the array.
func (a *Dense[T]) ApplyLanes(axis int, fn func(k int, lane []T)) {
	outer, n, inner := a.geometry(axis)

	if inner == 1 {
		for o := range outer {
			fn(o, a.data[o*n:(o+1)*n])
		}
		return
	}

	buf := make([]T, n)
	for o := range outer {
		for i := range inner {
			gather(buf, a.data, o, n, inner, i)
			fn(o*inner+i, buf)
			scatter(a.data, buf, o, n, inner, i)
		}
	}
}

// MapLanes builds a new array whose lanes along axis have length outLen and
// are filled by fn from the corresponding lanes of a. fn must not retain or
// modify src.
func MapLanes[S, D Number](a *Dense[S], axis, outLen int, fn func(k int, dst []D, src []S)) *Dense[D] {
	outer, n, inner := a.geometry(axis)
	out := Zeros[D](a.withAxisLen(axis, outLen)...)

	if inner == 1 {
		for o := range outer {
			fn(o, out.data[o*outLen:(o+1)*outLen], a.data[o*n:(o+1)*n])
		}
		return out
	}

	src := make([]S, n)
	dst := make([]D, outLen)
	for o := range outer {
		for i := range inner {
			gather(src, a.data, o, n, inner, i)
			clear(dst)
			fn(o*inner+i, dst, src)
			scatter(out.data, dst, o, outLen, inner, i)
		}
	}

	return out
}

func gather[T Number](dst, data []T, o, n, inner, i int) {
	base := o*n*inner + i
	for j := range n {
		dst[j] = data[base+j*inner]
	}
}

func scatter[T Number](data, src []T, o, n, inner, i int) {
	base := o*n*inner + i
	for j := range n {
		data[base+j*inner] = src[j]
	}
}
