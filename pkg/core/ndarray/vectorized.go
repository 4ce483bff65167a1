// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ndarray

import (
	"iter"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/ndexpr/pkg/core/simd"
)

// Vectorizable returns whether e can be read in vector blocks directly from storage: every leaf
// is an array or a contiguous view, operations don't change the element type, and no operand is
// repeated (broadcast) along the innermost axis.
func Vectorizable[T Supported](e Expr[T]) bool {
	return e.vectorizable()
}

// VectorBlocks returns an iterator over blocks of up to lanes.Width() consecutive elements along the
// innermost axis, yielding the row-major flat position of the first element of each block.
//
// If e is Vectorizable, full blocks are loaded from storage and combined with lanes.Apply. The
// tails of rows (and all blocks of non-vectorizable expressions) are read element by element.
// Either way the values are the same as the ones read by NewIterator.
func VectorBlocks[T Supported](e Expr[T], lanes simd.Lanes[T]) iter.Seq2[int, simd.Vector[T]] {
	return func(yield func(int, simd.Vector[T]) bool) {
		if err := simd.CheckWidth(lanes); err != nil {
			exceptions.Panicf("VectorBlocks: %v", err)
		}
		shape := e.Shape()
		size := shape.Size()
		if size == 0 {
			return
		}
		rank := shape.Rank()
		if rank == 0 {
			yield(0, simd.Vector[T]{e.elementAt(nil)})
			return
		}
		width := lanes.Width()
		vectorized := e.vectorizable()
		dims := shape.Dimensions
		inner := dims[rank-1]
		numRows := size / inner
		indices := make([]int, rank)
		pos := 0
		for range numRows {
			for start := 0; start < inner; start += width {
				n := min(width, inner-start)
				indices[rank-1] = start
				var v simd.Vector[T]
				if vectorized && n == width {
					v = e.loadBlock(lanes, indices, n)
				} else {
					v = scalarBlock(e, indices, n)
				}
				if !yield(pos, v) {
					return
				}
				pos += n
			}
			indices[rank-1] = 0
			incrementIndices(indices[:rank-1], dims[:rank-1])
		}
	}
}

// scalarBlock reads n elements along the innermost axis, starting at indices.
func scalarBlock[T Supported](e Expr[T], indices []int, n int) simd.Vector[T] {
	last := len(indices) - 1
	start := indices[last]
	v := make(simd.Vector[T], n)
	for lane := range n {
		indices[last] = start + lane
		v[lane] = e.elementAt(indices)
	}
	indices[last] = start
	return v
}

// EvalVectorized materializes e into a new array using VectorBlocks.
func EvalVectorized[T Supported](e Expr[T], lanes simd.Lanes[T]) *Array[T] {
	result := Zeros[T](e.Shape().Dimensions...)
	flat := result.FlatData()
	for pos, v := range VectorBlocks(e, lanes) {
		lanes.Store(flat[pos:], v)
	}
	return result
}
