// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ndarray

import (
	"iter"
	"slices"
)

// IterKind is the iteration strategy of a view, fixed when the view is built.
type IterKind int

const (
	// IterStrided walks the multi-dimensional index and computes each element position.
	IterStrided IterKind = iota

	// IterContiguous walks rows of the innermost axis directly in the storage.
	IterContiguous
)

// String implements fmt.Stringer.
func (k IterKind) String() string {
	if k == IterContiguous {
		return "Contiguous"
	}
	return "Strided"
}

// Iterator reads the elements of an expression in row-major order.
//
// Usage:
//
//	it := NewIterator(e)
//	for it.Next() {
//	  fmt.Println(it.Indices(), it.Value())
//	}
//
// Iterators can't be restarted: create a new one. Changing the storage under an iterator (e.g.:
// Array.Resize) invalidates it.
type Iterator[T Supported] struct {
	e       Expr[T]
	dims    []int
	indices []int
	size    int
	pos     int
	started bool
	value   T

	// Contiguous fast path: the current row of the innermost axis.
	lay *layout[T]
	row []T
}

// NewIterator returns an iterator over the elements of e.
func NewIterator[T Supported](e Expr[T]) *Iterator[T] {
	shape := e.Shape()
	it := &Iterator[T]{
		e:       e,
		dims:    shape.Dimensions,
		indices: make([]int, shape.Rank()),
		size:    shape.Size(),
	}
	if lay := layoutOf(e); lay != nil && iterKindOf(e) == IterContiguous && lay.innerContiguous() {
		it.lay = lay
	}
	return it
}

// iterKindOf returns the iteration kind of a strided node, or IterStrided for all others.
func iterKindOf[T Supported](e Expr[T]) IterKind {
	switch node := e.(type) {
	case *Array[T]:
		return IterContiguous
	case *View[T]:
		return node.iterKind
	case *IndexView[T]:
		return node.iterKind
	}
	return IterStrided
}

// Next advances to the next element, and returns false when there are no more elements.
func (it *Iterator[T]) Next() bool {
	if it.started {
		incrementIndices(it.indices, it.dims)
	} else {
		it.started = true
	}
	if it.pos >= it.size {
		return false
	}
	if it.lay != nil {
		last := len(it.dims) - 1
		if it.indices[last] == 0 {
			it.row = it.lay.row(it.indices)
		}
		it.value = it.row[it.indices[last]]
	} else {
		it.value = it.e.elementAt(it.indices)
	}
	it.pos++
	return true
}

// Value returns the current element.
func (it *Iterator[T]) Value() T { return it.value }

// Indices returns the multi-index of the current element. It is owned by the iterator and changes
// with Next.
func (it *Iterator[T]) Indices() []int { return it.indices }

// Pos returns the row-major flat position of the current element.
func (it *Iterator[T]) Pos() int { return it.pos - 1 }

// Contiguous returns whether the iterator uses the contiguous fast path.
func (it *Iterator[T]) Contiguous() bool { return it.lay != nil }

// incrementIndices advances indices in row-major order, wrapping around to all zeros after the last.
func incrementIndices(indices, dims []int) {
	for axis := len(indices) - 1; axis >= 0; axis-- {
		indices[axis]++
		if indices[axis] < dims[axis] {
			return
		}
		indices[axis] = 0
	}
}

// Values returns an iterator over the elements of e in row-major order.
func Values[T Supported](e Expr[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		it := NewIterator(e)
		for it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

// Enumerate returns an iterator over the row-major flat position and value of the elements of e.
func Enumerate[T Supported](e Expr[T]) iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		it := NewIterator(e)
		for it.Next() {
			if !yield(it.Pos(), it.Value()) {
				return
			}
		}
	}
}

// ToSlice returns the elements of e in row-major order.
func ToSlice[T Supported](e Expr[T]) []T {
	return slices.AppendSeq(make([]T, 0, e.Shape().Size()), Values(e))
}
