// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ndarray

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/ndexpr/pkg/core/shapes"
	"github.com/gomlx/ndexpr/pkg/core/simd"
)

// Broadcast is a lazy elementwise operation over operands of type A producing elements of type R.
//
// Operands are aligned from their trailing axis: operands with lower rank, or with dimension 1 on an
// axis, are repeated over the result. Nothing is evaluated until the expression is read.
//
// It is immutable: indexing it pushes the selectors down to its operands and returns a new Broadcast.
type Broadcast[A Supported, R Supported] struct {
	op      OpType
	fn      func(args []A) R
	args    []Expr[A]
	argDims [][]int
	shape   shapes.Shape

	// Scratch space for element access.
	values     []A
	argIndices [][]int
}

// newBroadcast creates the Broadcast node, panicking if the operands dimensions are incompatible.
func newBroadcast[A, R Supported](op OpType, fn func(args []A) R, args ...Expr[A]) *Broadcast[A, R] {
	b := &Broadcast[A, R]{
		op:         op,
		fn:         fn,
		args:       args,
		argDims:    make([][]int, len(args)),
		values:     make([]A, len(args)),
		argIndices: make([][]int, len(args)),
	}
	for ii, arg := range args {
		b.argDims[ii] = arg.Shape().Dimensions
		b.argIndices[ii] = make([]int, len(b.argDims[ii]))
	}
	dims, err := shapes.BroadcastDimensions(b.argDims...)
	if err != nil {
		exceptions.Panicf("%s: cannot broadcast operands: %v", op, err)
	}
	b.shape = shapes.Make(DTypeOf[R](), dims...)
	return b
}

// Shape implements shapes.HasShape.
func (b *Broadcast[A, R]) Shape() shapes.Shape { return b.shape }

// Kind implements Expr. Conversions report KindConvert.
func (b *Broadcast[A, R]) Kind() Kind {
	if b.op == OpConvert {
		return KindConvert
	}
	return KindBroadcast
}

// Op returns the operation.
func (b *Broadcast[A, R]) Op() OpType { return b.op }

// Args returns the operands.
func (b *Broadcast[A, R]) Args() []Expr[A] { return b.args }

// Slice indexes the expression, see Index.
func (b *Broadcast[A, R]) Slice(selectors ...Selector) Expr[R] {
	return Index[R](b, selectors...)
}

func (b *Broadcast[A, R]) elementAt(indices []int) R {
	for ii, arg := range b.args {
		shapes.ProjectIndex(b.argIndices[ii], indices, b.argDims[ii])
		b.values[ii] = arg.elementAt(b.argIndices[ii])
	}
	return b.fn(b.values)
}

func (b *Broadcast[A, R]) mayOverlap() bool {
	for _, arg := range b.args {
		if arg.mayOverlap() {
			return true
		}
	}
	return false
}

func (b *Broadcast[A, R]) readsStorage(buf any) bool {
	for _, arg := range b.args {
		if arg.readsStorage(buf) {
			return true
		}
	}
	return false
}

// indexed pushes the selectors down to each operand, respecting the trailing alignment: selectors
// over axes an operand doesn't have are dropped, and over axes it repeats they select its single
// position.
func (b *Broadcast[A, R]) indexed(selectors []Selector) Expr[R] {
	dims := b.shape.Dimensions
	checkRank(selectors, len(dims))

	// Validate and normalize the selectors against the result dimensions first.
	normalized := make([]Selector, len(selectors))
	axis := 0
	for ii, s := range selectors {
		normalized[ii] = s
		switch s.kind {
		case IndexSelector:
			normalized[ii].index = normalizeIndex(s.index, dims[axis], axis)
			axis++
		case SliceSelector, ContiguousSelector:
			axis++
		}
	}

	newArgs := make([]Expr[A], len(b.args))
	for argIdx, arg := range b.args {
		argDims := b.argDims[argIdx]
		offset := len(dims) - len(argDims)
		argSelectors := make([]Selector, 0, len(selectors))
		axis = 0
		for _, s := range normalized {
			if s.kind == NewAxisSelector {
				if axis >= offset {
					argSelectors = append(argSelectors, NewAxis)
				}
				continue
			}
			resultAxis := axis
			axis++
			if resultAxis < offset {
				// Operand doesn't have this axis.
				continue
			}
			argDim := argDims[resultAxis-offset]
			repeated := argDim != dims[resultAxis]
			switch {
			case !repeated:
				argSelectors = append(argSelectors, s)
			case s.kind == IndexSelector:
				argSelectors = append(argSelectors, Idx(0))
			default:
				_, _, length := s.slice.Resolve(dims[resultAxis])
				argSelectors = append(argSelectors, Span(0, min(length, 1)))
			}
		}
		newArgs[argIdx] = Index(arg, argSelectors...)
	}
	return newBroadcast(b.op, b.fn, newArgs...)
}

// vectorizable requires the same input and output types, and no operand repeating over the
// innermost axis (scalars included).
func (b *Broadcast[A, R]) vectorizable() bool {
	if _, sameType := any(b.fn).(func([]R) R); !sameType {
		return false
	}
	rank := b.shape.Rank()
	if rank == 0 {
		return false
	}
	inner := b.shape.Dimensions[rank-1]
	for ii, arg := range b.args {
		argDims := b.argDims[ii]
		if len(argDims) == 0 || argDims[len(argDims)-1] != inner {
			return false
		}
		if !arg.vectorizable() {
			return false
		}
	}
	return true
}

func (b *Broadcast[A, R]) loadBlock(lanes simd.Lanes[R], indices []int, n int) simd.Vector[R] {
	argLanes := any(lanes).(simd.Lanes[A])
	fn := any(b.fn).(func([]A) A)
	vectors := make([]simd.Vector[A], len(b.args))
	for ii, arg := range b.args {
		shapes.ProjectIndex(b.argIndices[ii], indices, b.argDims[ii])
		vectors[ii] = arg.loadBlock(argLanes, b.argIndices[ii], n)
	}
	return any(argLanes.Apply(fn, vectors...)).(simd.Vector[R])
}
