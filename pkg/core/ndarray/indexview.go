// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ndarray

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/ndexpr/pkg/core/shapes"
	"github.com/gomlx/ndexpr/pkg/core/simd"
)

// IndexView is the view of the sub-expression at a fixed position of the leading axis of its parent:
// the leading axis is dropped. It is what indexing an array with a leading integer returns.
type IndexView[T Supported] struct {
	parent   Expr[T]
	index    int
	shape    shapes.Shape
	iterKind IterKind
	lay      *layout[T]
	scratch  []int
}

func newIndexView[T Supported](parent Expr[T], index int) *IndexView[T] {
	parentDims := parent.Shape().Dimensions
	if len(parentDims) == 0 {
		exceptions.Panicf("too many indices: cannot index a scalar (rank 0) %s", parent.Kind())
	}
	index = normalizeIndex(index, parentDims[0], 0)
	iv := &IndexView[T]{
		parent:   parent,
		index:    index,
		shape:    shapes.Make(DTypeOf[T](), parentDims[1:]...),
		iterKind: IterStrided,
		scratch:  make([]int, len(parentDims)),
	}
	iv.scratch[0] = index
	switch p := parent.(type) {
	case *Array[T]:
		iv.iterKind = IterContiguous
	case *View[T]:
		iv.iterKind = p.iterKind
	case *IndexView[T]:
		iv.iterKind = p.iterKind
	}
	if parentLay := layoutOf(parent); parentLay != nil {
		iv.lay = &layout[T]{
			buf:     parentLay.buf,
			offset:  parentLay.offset + index*parentLay.strides[0],
			strides: parentLay.strides[1:],
			dims:    iv.shape.Dimensions,
		}
	}
	return iv
}

// Shape implements shapes.HasShape.
func (iv *IndexView[T]) Shape() shapes.Shape { return iv.shape }

// Kind implements Expr.
func (iv *IndexView[T]) Kind() Kind { return KindIndexView }

// Parent returns the indexed expression.
func (iv *IndexView[T]) Parent() Expr[T] { return iv.parent }

// Position returns the fixed (non-negative) position in the leading axis of the parent.
func (iv *IndexView[T]) Position() int { return iv.index }

// IterKind returns the kind of iteration used for the view.
func (iv *IndexView[T]) IterKind() IterKind { return iv.iterKind }

// Slice indexes the view further. See Index.
func (iv *IndexView[T]) Slice(selectors ...Selector) Expr[T] {
	return Index[T](iv, selectors...)
}

// Assign evaluates source into the view. See Assign.
func (iv *IndexView[T]) Assign(source Expr[T]) *IndexView[T] {
	Assign[T](iv, source)
	return iv
}

func (iv *IndexView[T]) elementAt(indices []int) T {
	if iv.lay != nil {
		return iv.lay.elementAt(indices)
	}
	copy(iv.scratch[1:], indices)
	return iv.parent.elementAt(iv.scratch)
}

func (iv *IndexView[T]) indexed(selectors []Selector) Expr[T] {
	return selectFrom[T](iv, selectors)
}

func (iv *IndexView[T]) mayOverlap() bool { return true }

func (iv *IndexView[T]) readsStorage(buf any) bool {
	if iv.lay != nil {
		return any(iv.lay.buf) == buf
	}
	return iv.parent.readsStorage(buf)
}

func (iv *IndexView[T]) vectorizable() bool {
	return iv.lay != nil && iv.iterKind == IterContiguous && iv.lay.innerContiguous()
}

func (iv *IndexView[T]) loadBlock(lanes simd.Lanes[T], indices []int, n int) simd.Vector[T] {
	offset := iv.lay.offsetOf(indices)
	return lanes.Load(iv.lay.buf.flat[offset : offset+n])
}
