// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"github.com/pkg/errors"
)

// Unconstrained is the dimension used to pad an axis that an operand of a broadcast doesn't have.
//
// Broadcasting aligns the operands from their trailing (fastest-varying) axis, and an operand
// with a lower rank is padded on the leading axes with Unconstrained, as opposed to the more
// common padding with 1. Missing axes and axes of dimension 1 repeat across the broadcast result.
// An operand that actually has dimension 0 on an axis is not repeated: see BroadcastDimensions.
const Unconstrained = 0

// PadDimensions returns the dimensions left-padded with Unconstrained up to the given rank.
func PadDimensions(dimensions []int, rank int) []int {
	padded := make([]int, rank)
	copy(padded[rank-len(dimensions):], dimensions)
	return padded
}

// IsRepeated returns whether an operand axis of dimension `dim` repeats when broadcast to
// dimension `target`.
func IsRepeated(dim, target int) bool {
	return dim != target && (dim == Unconstrained || dim == 1)
}

// BroadcastDimensions returns the dimensions of the broadcast of all given dimensions.
//
// The resulting rank is the largest rank. Each axis, aligned from the trailing end, gets the largest
// dimension among the operands. Operands with a missing axis or dimension 1 repeat over it; any
// other mismatch is an error.
//
// Dimension 0 is the one exception to treating 0 like a missing axis: an operand with dimension 0
// on an axis where the result is not empty has no element to repeat, so it is reported as an error
// instead of being repeated. Broadcasting it against dimensions 0 or 1 yields an empty axis.
func BroadcastDimensions(operands ...[]int) ([]int, error) {
	rank := 0
	for _, dims := range operands {
		rank = max(rank, len(dims))
	}
	result := make([]int, rank)
	hasEmpty := make([]bool, rank)
	for _, dims := range operands {
		offset := rank - len(dims)
		for axis, dim := range dims {
			result[offset+axis] = max(result[offset+axis], dim)
			hasEmpty[offset+axis] = hasEmpty[offset+axis] || dim == 0
		}
	}
	for axis, dim := range result {
		if dim == 1 && hasEmpty[axis] {
			// A length-1 axis broadcast against an empty one yields an empty axis.
			result[axis] = 0
		}
	}
	for opIdx, dims := range operands {
		offset := rank - len(dims)
		for axis, dim := range dims {
			target := result[offset+axis]
			switch {
			case dim == target, dim == 1, target == 0:
				continue
			case dim == 0:
				return nil, errors.Errorf("operand #%d has an empty axis %d, it cannot be broadcast to dimension %d "+
					"(operand dimensions %v, broadcast dimensions %v)", opIdx, axis, target, dims, result)
			default:
				return nil, errors.Errorf("operand #%d dimension %d on axis %d is incompatible with dimension %d "+
					"(operand dimensions %v, broadcast dimensions %v)", opIdx, dim, axis, target, dims, result)
			}
		}
	}
	return result, nil
}

// CanBroadcastTo returns whether dimensions `from` can be broadcast to exactly `to`.
func CanBroadcastTo(from, to []int) bool {
	result, err := BroadcastDimensions(from, to)
	if err != nil || len(result) != len(to) {
		return false
	}
	for axis := range to {
		if result[axis] != to[axis] {
			return false
		}
	}
	return true
}

// ProjectIndex writes into `dst` (length len(operandDims)) the operand index corresponding to the
// broadcast result index `idx`: leading missing axes are dropped and repeated axes read position 0.
func ProjectIndex(dst, idx, operandDims []int) {
	offset := len(idx) - len(operandDims)
	for axis, dim := range operandDims {
		if dim <= 1 {
			dst[axis] = 0
		} else {
			dst[axis] = idx[offset+axis]
		}
	}
}
