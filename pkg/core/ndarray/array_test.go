// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ndarray

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/ndexpr/pkg/core/simd"
	"github.com/gomlx/ndexpr/pkg/support/xslices"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// iotaArray returns an array with values 0, 1, 2, ... that is the only holder of its buffer.
func iotaArray(dims ...int) *Array[int] {
	return FromFlat(xslices.Iota(0, xslices.Product(dims)), dims...)
}

func TestArray(t *testing.T) {
	a := iotaArray(2, 3)
	assert.Equal(t, KindArray, a.Kind())
	assert.Equal(t, dtypes.Int64, a.Shape().DType)
	assert.Equal(t, []int{2, 3}, a.Dims())
	assert.Equal(t, []int{3, 1}, a.Strides())
	assert.Equal(t, 6, a.Size())
	assert.Equal(t, 2, a.Rank())
	assert.Equal(t, 5, a.At(1, 2))
	assert.Equal(t, 3, a.At(-1, 0))
	assert.Equal(t, [][]int{{0, 1, 2}, {3, 4, 5}}, a.Value())

	a.Set(100, 0, -1)
	assert.Equal(t, []int{0, 1, 100, 3, 4, 5}, a.FlatData())

	require.Panics(t, func() { a.At(2, 0) })
	require.Panics(t, func() { a.At(0) })
	require.Panics(t, func() { a.Set(1, 0, 3) })

	scalar := FromValue[float32](3)
	assert.Equal(t, float32(3), scalar.Value())
	assert.Equal(t, 0, scalar.Rank())

	empty := Zeros[int](2, 0)
	assert.Equal(t, [][]int{{}, {}}, empty.Value())
	assert.Equal(t, 0, empty.Size())
}

func TestArrayFinalize(t *testing.T) {
	a := iotaArray(4)
	buf := a.lay.buf
	a.Finalize()
	assert.True(t, a.IsFinalized())
	assert.Nil(t, buf.flat)
	a.Finalize() // No-op.
	err := exceptions.TryCatch[error](func() { a.At(0) })
	require.Error(t, err)
	assert.Contains(t, a.String(), "finalized")

	// Expressions built before Finalize report it when evaluated.
	b := iotaArray(2, 4)
	sum := Add[int](b, Scalar(1))
	b.Finalize()
	err = exceptions.TryCatch[error](func() { ToSlice[int](sum) })
	require.ErrorContains(t, err, "already finalized")
	err = exceptions.TryCatch[error](func() { EvalVectorized[int](Add[int](b, b), simd.NewPortable[int](4)) })
	require.ErrorContains(t, err, "already finalized")
}

func TestEqual(t *testing.T) {
	a := iotaArray(2, 3)
	assert.True(t, Equal[int](a, iotaArray(2, 3)))
	assert.False(t, Equal[int](a, iotaArray(3, 2)))
	b := iotaArray(2, 3)
	b.Set(-1, 1, 1)
	assert.False(t, Equal[int](a, b))
	assert.True(t, Equal[int](Index[int](a, Idx(1)), FromFlat([]int{3, 4, 5}, 3)))
}
