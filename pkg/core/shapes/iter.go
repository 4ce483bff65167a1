// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import "iter"

// Iter iterates over all possible indices of the given shape, in row-major order.
// To avoid allocating the slice of indices, the yielded indices is owned by the Iter() method:
// don't change it inside the loop.
//
// Shapes with a zero dimension yield nothing, scalars yield one empty index.
func (s Shape) Iter() iter.Seq[[]int] {
	return IterDimensions(s.Dimensions)
}

// IterDimensions is like Shape.Iter, but takes the dimensions directly.
func IterDimensions(dimensions []int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		rank := len(dimensions)
		if rank == 0 {
			_ = yield(make([]int, 0))
			return
		}
		for _, dim := range dimensions {
			if dim <= 0 {
				return
			}
		}

		currentIndices := make([]int, rank)
		for {
			if !yield(currentIndices) {
				return
			}
			// Increment the indices, last axis changes fastest.
			axis := rank - 1
			for ; axis >= 0; axis-- {
				if dimensions[axis] == 1 {
					continue
				}
				currentIndices[axis]++
				if currentIndices[axis] < dimensions[axis] {
					break
				}
				// Carry-over to the next higher-order axis.
				currentIndices[axis] = 0
			}
			if axis < 0 {
				return
			}
		}
	}
}
