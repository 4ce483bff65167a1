// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ndarray

import (
	"fmt"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/ndexpr/pkg/core/shapes"
	"github.com/gomlx/ndexpr/pkg/core/simd"
)

// Kind of an expression node. It drives the structural overlap analysis used by assignments.
type Kind int

const (
	KindArray Kind = iota
	KindView
	KindIndexView
	KindBroadcast
	KindConvert
	KindConst
	KindFilter
)

var kindNames = []string{"Array", "View", "IndexView", "Broadcast", "Convert", "Const", "Filter"}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Expr is implemented by every node of the expression tree: arrays, views, broadcast operations,
// constants and filters.
//
// The interface is sealed: the unexported methods can only be implemented by this package.
type Expr[T Supported] interface {
	shapes.HasShape

	// Kind of the node.
	Kind() Kind

	// elementAt returns the element at the given multi-index. It doesn't check bounds, and the
	// slice may be reused by the caller.
	elementAt(indices []int) T

	// indexed applies the already validated selectors to the node.
	indexed(selectors []Selector) Expr[T]

	// mayOverlap reports whether reading the node may touch storage that an assignment target
	// could also be writing.
	mayOverlap() bool

	// readsStorage reports whether reading the node may access the given buffer.
	readsStorage(buf any) bool

	// vectorizable reports whether loadBlock can be used.
	vectorizable() bool

	// loadBlock loads n (<= lanes.Width()) consecutive elements along the innermost axis,
	// starting at the given multi-index.
	loadBlock(lanes simd.Lanes[T], indices []int, n int) simd.Vector[T]
}

// Dims returns the dimensions of the expression. For a Filter this forces the evaluation of its mask.
func Dims[T Supported](e Expr[T]) []int {
	return e.Shape().Dimensions
}

// Size returns the number of elements of the expression.
func Size[T Supported](e Expr[T]) int {
	return e.Shape().Size()
}

// Rank returns the number of axes of the expression.
func Rank[T Supported](e Expr[T]) int {
	return e.Shape().Rank()
}

// At returns the element at the given indices. Negative indices count from the end of the axis.
//
// It panics if the number of indices doesn't match the rank or if any index is out of range.
func At[T Supported](e Expr[T], indices ...int) T {
	dims := Dims(e)
	if len(indices) != len(dims) {
		exceptions.Panicf("At() requires %d indices for shape %s, got %d", len(dims), e.Shape(), len(indices))
	}
	normalized := make([]int, len(indices))
	for axis, idx := range indices {
		normalized[axis] = normalizeIndex(idx, dims[axis], axis)
	}
	return e.elementAt(normalized)
}

// MayOverlap reports, based only on the structure of the expression (its node kinds), whether
// reading it could touch memory also written by an assignment target.
//
// Independently owned arrays and constants are disjoint. Views and filters may overlap. Broadcast
// operations may overlap if any of their operands may.
func MayOverlap[T Supported](e Expr[T]) bool {
	return e.mayOverlap()
}

// noVectorLoad is used by nodes that can't be vectorized.
func noVectorLoad[T Supported](kind Kind) simd.Vector[T] {
	exceptions.Panicf("%s can't be loaded in vector blocks", kind)
	return nil
}
