// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ndarray

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMayOverlap(t *testing.T) {
	a := iotaArray(5)
	b := iotaArray(5)
	assert.False(t, MayOverlap[int](a))
	assert.False(t, MayOverlap[int](Scalar(1)))
	assert.True(t, MayOverlap(Index[int](a, From(1))))
	assert.True(t, MayOverlap(Index[int](a, Idx(1))))
	assert.False(t, MayOverlap[int](Add[int](a, Mul[int](b, Scalar(2)))))
	assert.True(t, MayOverlap[int](Add(Expr[int](b), Index[int](a, Step(-1)))))
	assert.True(t, MayOverlap[int](Filter[int](a, Greater[int](a, Scalar(2)))))

	// Arrays sharing their buffer are treated like views.
	r := Reshape(b, 5, 1)
	assert.True(t, MayOverlap[int](r))
	assert.True(t, MayOverlap[int](b))
	r.Finalize()
	assert.False(t, MayOverlap[int](b))
}

func TestAssignAliasing(t *testing.T) {
	// a[1:] = a[:-1]
	a := iotaArray(5)
	Assign(Index[int](a, From(1)), Index[int](a, To(-1)))
	assert.Equal(t, []int{0, 0, 1, 2, 3}, a.FlatData())

	// Writing directly, without the temporary, would propagate the first element.
	b := iotaArray(5)
	target := Index[int](b, From(1))
	assignDirect(layoutOf(target), Dims(target), Index[int](b, To(-1)), nil)
	assert.Equal(t, []int{0, 0, 0, 0, 0}, b.FlatData())

	// Reversal in place.
	c := iotaArray(5)
	c.Assign(Index[int](c, Step(-1)))
	assert.Equal(t, []int{4, 3, 2, 1, 0}, c.FlatData())

	// Overlap through an expression tree.
	d := iotaArray(5)
	Assign[int](Index[int](d, To(-1)), Add[int](Index[int](d, From(1)), Index[int](d, To(-1))))
	assert.Equal(t, []int{1, 3, 5, 7, 4}, d.FlatData())

	// Transposed-like overlap on a 2D array: rows written from a reversed view of itself.
	m := iotaArray(3, 2)
	Assign[int](m, Index[int](m, Step(-1)))
	assert.Equal(t, [][]int{{4, 5}, {2, 3}, {0, 1}}, m.Value())

	// The array itself assigned into its reversed view: the source is an array, but it shares
	// the storage of the target.
	e := iotaArray(5)
	Assign[int](Index[int](e, Step(-1)), e)
	assert.Equal(t, []int{4, 3, 2, 1, 0}, e.FlatData())
	f := iotaArray(5)
	Assign[int](Index[int](f, Step(-1)), Mul[int](f, Scalar(10)))
	assert.Equal(t, []int{40, 30, 20, 10, 0}, f.FlatData())
}

func TestAssign(t *testing.T) {
	m := Zeros[int](3, 4)
	row := FromFlat([]int{1, 2, 3, 4}, 4)
	Assign[int](m, row)
	assert.Equal(t, [][]int{{1, 2, 3, 4}, {1, 2, 3, 4}, {1, 2, 3, 4}}, m.Value())

	Fill(Index[int](m, All(), Idx(0)), 7)
	Index[int](m, Idx(1)).(*IndexView[int]).Assign(Scalar(0))
	Index[int](m, Idx(2), Span(2, 4)).(*View[int]).Assign(FromFlat([]int{30, 40}, 2))
	assert.Equal(t, [][]int{{7, 2, 3, 4}, {0, 0, 0, 0}, {7, 2, 30, 40}}, m.Value())

	// Source with size-1 axes broadcast to the target.
	col := FromFlat([]int{10, 20, 30}, 3, 1)
	Assign[int](m, col)
	assert.Equal(t, [][]int{{10, 10, 10, 10}, {20, 20, 20, 20}, {30, 30, 30, 30}}, m.Value())

	// Empty targets are a no-op.
	Assign(Index[int](m, Span(1, 1)), Expr[int](Scalar(1)))

	assert.True(t, IsAssignable[int](m))
	assert.False(t, IsAssignable[int](Add[int](m, m)))
	require.Panics(t, func() { Assign[int](Add[int](m, m), m) })
	require.Panics(t, func() { Assign[int](m, Zeros[int](4, 3)) })
	require.Panics(t, func() { Assign[int](m, Zeros[int](2, 1, 4)) })
	f := Filter[int](m, Greater[int](m, Scalar(15)))
	require.Panics(t, func() { Assign[int](f, Scalar(0)) })
	require.Panics(t, func() { Assign(Index[int](f, All()), Expr[int](Scalar(0))) })

	finalized := Zeros[int](2)
	v := Index[int](finalized, All())
	finalized.Finalize()
	require.Panics(t, func() { Assign(v, Expr[int](Scalar(1))) })
}

func TestCompoundAssign(t *testing.T) {
	// a[1:] += a[:-1], with the original values of a.
	a := iotaArray(5)
	AddAssign(Index[int](a, From(1)), Index[int](a, To(-1)))
	assert.Equal(t, []int{0, 1, 3, 5, 7}, a.FlatData())

	SubAssign[int](a, Scalar(1))
	assert.Equal(t, []int{-1, 0, 2, 4, 6}, a.FlatData())

	MulAssign(Index[int](a, Step(2)), Index[int](a, Range(None, None, -2)))
	assert.Equal(t, []int{-6, 0, 4, 4, -6}, a.FlatData())

	f := FromFlat([]float64{1, 2, 4}, 3)
	DivAssign[float64](f, Scalar(2.0))
	assert.Equal(t, []float64{0.5, 1, 2}, f.FlatData())

	m := iotaArray(2, 3)
	UpdateAssign[int](m, OpMax, FromFlat([]int{2, 2, 2}, 3))
	assert.Equal(t, [][]int{{2, 2, 2}, {3, 4, 5}}, m.Value())

	require.Panics(t, func() { UpdateAssign[int](m, OpLess, m) })
	require.Panics(t, func() { UpdateAssign[int](m, OpNeg, m) })
}
