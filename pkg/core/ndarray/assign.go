// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ndarray

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/ndexpr/pkg/core/shapes"
	"k8s.io/klog/v2"
)

// IsAssignable returns whether e can be the target of an assignment: an *Array, or a *View or
// *IndexView with a strided layout over storage.
func IsAssignable[T Supported](e Expr[T]) bool {
	return layoutOf(e) != nil
}

// Assign evaluates source into target. The dimensions of source must broadcast to the target's.
//
// The result is as if source was fully read before target is written: if source may overlap
// with the target (see MayOverlap) it is first evaluated into a temporary array, otherwise it is
// written directly in a single pass.
//
// It panics if target is not assignable (see IsAssignable) or if the dimensions are incompatible.
func Assign[T Supported](target, source Expr[T]) {
	assign(target, source, nil, "Assign")
}

// Fill sets all elements of target to value.
func Fill[T Supported](target Expr[T], value T) {
	Assign(target, Expr[T](Scalar(value)))
}

// UpdateAssign sets target to `target <op> source`, for a binary numeric operation op.
// Aliasing is handled as in Assign.
func UpdateAssign[T Number](target Expr[T], op OpType, source Expr[T]) {
	if op.Arity() != 2 || op < OpAdd || op > OpMin {
		exceptions.Panicf("UpdateAssign requires a binary numeric operation, got %s", op)
	}
	fn := numericOp[T](op)
	args := make([]T, 2)
	combine := func(current, value T) T {
		args[0], args[1] = current, value
		return fn(args)
	}
	assign(target, source, combine, op.String()+"Assign")
}

// AddAssign sets target to target + source.
func AddAssign[T Number](target, source Expr[T]) { UpdateAssign(target, OpAdd, source) }

// SubAssign sets target to target - source.
func SubAssign[T Number](target, source Expr[T]) { UpdateAssign(target, OpSub, source) }

// MulAssign sets target to target * source.
func MulAssign[T Number](target, source Expr[T]) { UpdateAssign(target, OpMul, source) }

// DivAssign sets target to target / source.
func DivAssign[T Number](target, source Expr[T]) { UpdateAssign(target, OpDiv, source) }

func assign[T Supported](target, source Expr[T], combine func(current, value T) T, name string) {
	lay := layoutOf(target)
	if lay == nil {
		exceptions.Panicf("%s: target %s (%s) is not assignable", name, target.Kind(), target.Shape())
	}
	if lay.buf.released() {
		exceptions.Panicf("%s: target %s storage already released", name, target.Kind())
	}
	targetDims := target.Shape().Dimensions
	sourceDims := source.Shape().Dimensions
	if !shapes.CanBroadcastTo(sourceDims, targetDims) {
		exceptions.Panicf("%s: source dimensions %v can't be broadcast to target dimensions %v",
			name, sourceDims, targetDims)
	}
	if needsTemporary(target, source, lay) {
		klog.V(2).Infof("ndarray: %s from %s %v into %s %v may overlap, evaluating into a temporary",
			name, source.Kind(), sourceDims, target.Kind(), targetDims)
		tmp := Materialize(source)
		defer tmp.Finalize()
		source = tmp
	}
	assignDirect(lay, targetDims, source, combine)
}

// needsTemporary returns whether source must be evaluated before writing into target: if it may
// overlap structurally, or if it reads the storage of a target view (e.g.: assigning an array into
// its own reversed view). An array target reading itself through same-shaped arrays is safe, since
// each element only reads its own position.
func needsTemporary[T Supported](target, source Expr[T], lay *layout[T]) bool {
	if source.mayOverlap() {
		return true
	}
	if _, isArray := target.(*Array[T]); isArray {
		return false
	}
	return source.readsStorage(lay.buf)
}

// assignDirect writes source into the strided storage in a single pass, in row-major order of the
// target, without checking for aliasing.
func assignDirect[T Supported](lay *layout[T], dims []int, source Expr[T], combine func(current, value T) T) {
	size := shapes.Make(DTypeOf[T](), dims...).Size()
	if size == 0 {
		return
	}
	sourceDims := source.Shape().Dimensions
	sourceIndices := make([]int, len(sourceDims))
	indices := make([]int, len(dims))
	flat := lay.buf.flat
	for range size {
		shapes.ProjectIndex(sourceIndices, indices, sourceDims)
		value := source.elementAt(sourceIndices)
		offset := lay.offsetOf(indices)
		if combine != nil {
			value = combine(flat[offset], value)
		}
		flat[offset] = value
		incrementIndices(indices, dims)
	}
}
