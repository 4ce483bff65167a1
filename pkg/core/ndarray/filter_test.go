// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ndarray

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	a := iotaArray(5)
	f := Filter[int](a, Greater[int](a, Scalar(1)))
	assert.Equal(t, KindFilter, f.Kind())
	assert.False(t, f.evaluated, "positions are computed lazily")
	assert.Equal(t, 3, f.Len())
	assert.True(t, f.evaluated)
	assert.Equal(t, []int{2, 3, 4}, ToSlice[int](f))
	assert.Equal(t, []int{2, 3, 4}, f.Positions())

	m := iotaArray(3, 4)
	even := Filter[int](m, EqualTo[int](Mod[int](m, Scalar(2)), Scalar(0)))
	assert.Equal(t, []int{6}, Dims[int](even))
	assert.Equal(t, []int{0, 2, 4, 6, 8, 10}, ToSlice[int](even))

	// Filters can be indexed and used in expressions.
	assert.Equal(t, 4, At(Index[int](even, Idx(2))))
	assert.Equal(t, []int{2, 4}, ToSlice(Index[int](even, Span(1, 3))))
	assert.Equal(t, []int{0, 20, 40, 60, 80, 100}, ToSlice[int](Mul[int](even, Scalar(10))))

	none := Filter[int](a, Less[int](a, Scalar(0)))
	assert.Equal(t, 0, none.Len())

	require.Panics(t, func() { Filter[int](m, Greater[int](a, Scalar(0))) })
}
