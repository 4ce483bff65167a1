// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ndarray

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/ndexpr/pkg/core/shapes"
	"github.com/gomlx/ndexpr/pkg/core/simd"
)

// FilterExpr is the 1D selection of the elements of an expression where a mask is true, in
// row-major order. It is read-only.
//
// The positions are computed on first need (Len, Shape or reading an element), by fully evaluating
// the mask. Since the length depends on the data, Kind() == KindFilter lets callers detect it.
type FilterExpr[T Supported] struct {
	source    Expr[T]
	mask      Expr[bool]
	positions []int
	evaluated bool
	scratch   []int
}

// Filter returns the elements of source where mask is true. Both must have the same dimensions.
func Filter[T Supported](source Expr[T], mask Expr[bool]) *FilterExpr[T] {
	if !source.Shape().EqualDimensions(mask.Shape()) {
		exceptions.Panicf("Filter: mask dimensions %v differ from the source dimensions %v",
			mask.Shape().Dimensions, source.Shape().Dimensions)
	}
	return &FilterExpr[T]{
		source:  source,
		mask:    mask,
		scratch: make([]int, source.Shape().Rank()),
	}
}

func (f *FilterExpr[T]) evaluate() {
	if f.evaluated {
		return
	}
	for pos, selected := range Enumerate(f.mask) {
		if selected {
			f.positions = append(f.positions, pos)
		}
	}
	f.evaluated = true
}

// Len returns the number of selected elements, evaluating the mask if needed.
func (f *FilterExpr[T]) Len() int {
	f.evaluate()
	return len(f.positions)
}

// Positions returns the row-major flat positions of the selected elements in the source.
func (f *FilterExpr[T]) Positions() []int {
	f.evaluate()
	return f.positions
}

// Shape implements shapes.HasShape. It evaluates the mask if needed.
func (f *FilterExpr[T]) Shape() shapes.Shape {
	return shapes.Make(DTypeOf[T](), f.Len())
}

// Kind implements Expr.
func (f *FilterExpr[T]) Kind() Kind { return KindFilter }

func (f *FilterExpr[T]) elementAt(indices []int) T {
	f.evaluate()
	f.source.Shape().UnflattenIndex(f.positions[indices[0]], f.scratch)
	return f.source.elementAt(f.scratch)
}

func (f *FilterExpr[T]) indexed(selectors []Selector) Expr[T] {
	return selectFrom[T](f, selectors)
}

func (f *FilterExpr[T]) mayOverlap() bool { return true }

func (f *FilterExpr[T]) readsStorage(buf any) bool {
	return f.source.readsStorage(buf) || f.mask.readsStorage(buf)
}

func (f *FilterExpr[T]) vectorizable() bool { return false }

func (f *FilterExpr[T]) loadBlock(simd.Lanes[T], []int, int) simd.Vector[T] {
	return noVectorLoad[T](KindFilter)
}
