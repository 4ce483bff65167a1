// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/require"
)

func TestShape(t *testing.T) {
	invalidShape := Invalid()
	require.False(t, invalidShape.Ok())

	shape0 := Make(dtypes.Float64)
	require.True(t, shape0.Ok())
	require.True(t, shape0.IsScalar())
	require.Equal(t, 0, shape0.Rank())
	require.Len(t, shape0.Dimensions, 0)
	require.Equal(t, 1, shape0.Size())
	require.Equal(t, 8, int(shape0.Memory()))

	shape1 := Make(dtypes.Float32, 4, 3, 2)
	require.True(t, shape1.Ok())
	require.False(t, shape1.IsScalar())
	require.Equal(t, 3, shape1.Rank())
	require.Equal(t, 4*3*2, shape1.Size())
	require.Equal(t, 4*4*3*2, int(shape1.Memory()))
	require.Equal(t, 2, shape1.Dim(-1))
	require.Equal(t, []int{6, 2, 1}, shape1.Strides())

	empty := Make(dtypes.Int32, 3, 0)
	require.True(t, empty.IsZeroSize())
	require.Equal(t, 0, empty.Size())

	require.NotNil(t, exceptions.Try(func() { _ = Make(dtypes.Int32, -1) }))
	require.NotNil(t, exceptions.Try(func() { _ = shape1.Dim(3) }))
}

func TestFlatIndex(t *testing.T) {
	shape := Make(dtypes.Int64, 2, 3, 4)
	indices := make([]int, 3)
	for flat := range shape.Size() {
		shape.UnflattenIndex(flat, indices)
		require.Equal(t, flat, shape.FlatIndex(indices))
	}
	shape.UnflattenIndex(17, indices)
	require.Equal(t, []int{1, 1, 1}, indices)
}

func TestBroadcastDimensions(t *testing.T) {
	got, err := BroadcastDimensions([]int{3, 1}, []int{1, 4})
	require.NoError(t, err)
	require.Equal(t, []int{3, 4}, got)

	got, err = BroadcastDimensions([]int{2, 3, 4}, []int{4}, nil)
	require.NoError(t, err)
	require.Equal(t, []int{2, 3, 4}, got)

	_, err = BroadcastDimensions([]int{3}, []int{4})
	require.Error(t, err)

	// An empty operand axis is not repeated.
	_, err = BroadcastDimensions([]int{0}, []int{4})
	require.ErrorContains(t, err, "empty axis")
	_, err = BroadcastDimensions([]int{3, 0}, []int{4})
	require.Error(t, err)

	got, err = BroadcastDimensions([]int{0, 2}, []int{1, 2})
	require.NoError(t, err)
	require.Equal(t, []int{0, 2}, got)

	require.Equal(t, []int{0, 0, 5}, PadDimensions([]int{5}, 3))
	require.True(t, CanBroadcastTo([]int{4}, []int{3, 4}))
	require.False(t, CanBroadcastTo([]int{3, 4}, []int{4}))
	require.True(t, IsRepeated(Unconstrained, 7))
	require.True(t, IsRepeated(1, 7))
	require.False(t, IsRepeated(7, 7))

	dst := make([]int, 2)
	ProjectIndex(dst, []int{5, 2, 3}, []int{1, 4})
	require.Equal(t, []int{0, 3}, dst)
}
