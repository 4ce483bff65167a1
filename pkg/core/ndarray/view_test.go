// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ndarray

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexArray(t *testing.T) {
	m := iotaArray(3, 4)

	row := Index[int](m, Idx(1))
	require.IsType(t, &IndexView[int]{}, row)
	assert.Equal(t, []int{4}, Dims(row))
	assert.Equal(t, []int{4, 5, 6, 7}, ToSlice(row))
	assert.Equal(t, IterContiguous, row.(*IndexView[int]).IterKind())

	// Chained IndexView.
	element := Index[int](m, Idx(1), Idx(2))
	require.IsType(t, &IndexView[int]{}, element)
	assert.Equal(t, 0, Rank(element))
	assert.Equal(t, 6, At(element))
	require.IsType(t, &IndexView[int]{}, element.(*IndexView[int]).Parent())

	// Leading integer followed by a slice: View over an IndexView.
	partial := Index[int](m, Idx(-1), Span(1, 3))
	require.IsType(t, &View[int]{}, partial)
	assert.Equal(t, []int{9, 10}, ToSlice(partial))

	column := Index[int](m, All(), Idx(1))
	require.IsType(t, &View[int]{}, column)
	assert.Equal(t, []int{1, 5, 9}, ToSlice(column))
	assert.Equal(t, IterStrided, column.(*View[int]).IterKind())

	assert.Equal(t, []int{1, 3, 4}, Dims(Index[int](m, NewAxis)))
	assert.Equal(t, []int{3, 1, 4}, Dims(Index[int](m, All(), NewAxis)))
	assert.Equal(t, []int{3, 4, 1}, Dims(Index[int](m, All(), All(), NewAxis)))

	everyOther := Index[int](m, Step(2))
	assert.Equal(t, [][]int{{0, 1, 2, 3}, {8, 9, 10, 11}}, Materialize(everyOther).Value())

	// No selectors returns the expression itself.
	assert.Same(t, m, Index[int](m))
}

func TestIterKind(t *testing.T) {
	m := iotaArray(3, 4)
	kindOf := func(selectors ...Selector) IterKind {
		return Index[int](m, selectors...).(*View[int]).IterKind()
	}
	assert.Equal(t, IterContiguous, kindOf(Span(0, 2)))
	assert.Equal(t, IterContiguous, kindOf(Step(2)))
	assert.Equal(t, IterContiguous, kindOf(All(), Span(1, 3)))
	assert.Equal(t, IterStrided, kindOf(All(), Step(2)))
	assert.Equal(t, IterStrided, kindOf(All(), Idx(1)))
	assert.Equal(t, IterContiguous, kindOf(NewAxis))

	// Views of non-arrays are always strided.
	f := Filter[int](Index[int](m, Idx(0)), Greater[int](Index[int](m, Idx(0)), Scalar(0)))
	fv := Index[int](f, Span(0, 2))
	require.IsType(t, &View[int]{}, fv)
	assert.Equal(t, IterStrided, fv.(*View[int]).IterKind())
	assert.False(t, fv.(*View[int]).Strided())
	assert.Equal(t, []int{1, 2}, ToSlice(fv))
}

func TestViewMerge(t *testing.T) {
	a := iotaArray(20)
	v1 := Index[int](a, Range(2, 18, 2))
	assert.Equal(t, []int{2, 4, 6, 8, 10, 12, 14, 16}, ToSlice(v1))

	v2 := Index(v1, Range(1, None, 3))
	require.IsType(t, &View[int]{}, v2)
	assert.Same(t, a, v2.(*View[int]).Parent(), "merged views must not nest")
	assert.Equal(t, []int{4, 10, 16}, ToSlice(v2))
	assert.True(t, Equal(v2, Index[int](a, Range(4, None, 6))))

	// Collapse of a sliced axis by an integer.
	m := iotaArray(4, 5)
	rows := Index[int](m, Span(1, 3))
	row := Index(rows, Idx(1))
	require.IsType(t, &View[int]{}, row)
	assert.Same(t, m, row.(*View[int]).Parent())
	assert.Equal(t, []int{10, 11, 12, 13, 14}, ToSlice(row))

	// Trailing axes selected in a second step.
	cols := Index(rows, All(), Range(None, None, -2))
	assert.Equal(t, [][]int{{9, 7, 5}, {14, 12, 10}}, Materialize(cols).Value())

	// New axes in between are skipped when merging.
	withAxis := Index[int](m, Step(2), NewAxis)
	assert.Equal(t, []int{2, 1, 5}, Dims(withAxis))
	merged := Index(withAxis, Idx(1), Idx(0), Span(1, 3))
	assert.Equal(t, []int{11, 12}, ToSlice(merged))
	emptied := Index(withAxis, All(), Span(0, 0))
	assert.Equal(t, []int{2, 0, 5}, Dims(emptied))
}

// TestViewComposition checks that A[S1][S2] always equals the materialized A[S1] indexed by S2.
func TestViewComposition(t *testing.T) {
	a := iotaArray(4, 6, 5)
	firsts := [][]Selector{
		{Span(1, 4)},
		{Step(-1), Range(1, None, 2)},
		{All(), NewAxis, Range(5, 0, -2)},
		{Range(None, None, 3), All(), Idx(2)},
		{NewAxis, Step(2)},
	}
	seconds := [][]Selector{
		{Idx(0)},
		{Step(-1)},
		{All(), Idx(-1)},
		{Range(1, None, 2), NewAxis},
		{Span(0, 1), All(), Step(2)},
	}
	for _, first := range firsts {
		v1 := Index[int](a, first...)
		materialized := Materialize(v1)
		for _, second := range seconds {
			composed, err := TryIndex(v1, second...)
			expected, expectedErr := TryIndex[int](materialized, second...)
			if expectedErr != nil {
				require.Error(t, err, "%s then %s", SelectorsString(first), SelectorsString(second))
				continue
			}
			require.NoError(t, err, "%s then %s", SelectorsString(first), SelectorsString(second))
			assert.True(t, Equal(composed, expected), "%s then %s: got %s, wanted %s",
				SelectorsString(first), SelectorsString(second), Materialize(composed), Materialize(expected))
		}
	}
}

func TestNegativeSteps(t *testing.T) {
	a := iotaArray(5)
	reversed := Index[int](a, Step(-1))
	assert.Equal(t, []int{4, 3, 2, 1, 0}, ToSlice(reversed))
	assert.Equal(t, []int{3, 1}, ToSlice(Index(reversed, Range(1, None, 2))))
	assert.Equal(t, []int{1, 2, 3, 4}, ToSlice(Index(Index(reversed, Step(-1)), Span(1, None))))
	assert.Equal(t, []int{3, 2, 1}, ToSlice(Index[int](a, Range(3, 0, -1))))
	assert.Equal(t, []int{4, 2, 0}, ToSlice(Index[int](a, Step(-2))))
	assert.Equal(t, 0, Size(Index[int](a, Span(3, 1))))
}

func TestIndexErrors(t *testing.T) {
	m := iotaArray(3, 4)
	_, err := TryIndex[int](m, Idx(0), Idx(0), Idx(0))
	require.Error(t, err)
	_, err = TryIndex[int](m, All(), All(), NewAxis, All())
	require.Error(t, err)
	_, err = TryIndex[int](m, Idx(3))
	require.Error(t, err)
	_, err = TryIndex[int](m, All(), Idx(-5))
	require.Error(t, err)
	_, err = TryIndex[int](m, Selector{})
	require.Error(t, err)

	// Over-indexing a merged view.
	v := Index[int](m, All(), Idx(0))
	_, err = TryIndex(v, Idx(0), Idx(0))
	require.Error(t, err)

	// Scalar constants accept only new axes.
	c := Scalar(3)
	_, err = TryIndex[int](c, Idx(0))
	require.Error(t, err)
	withAxes := Index[int](c, NewAxis, NewAxis)
	assert.Equal(t, []int{1, 1}, Dims(withAxes))
	assert.Equal(t, []int{3}, ToSlice(withAxes))
}

func TestViewLayout(t *testing.T) {
	m := iotaArray(4, 5)
	v := Index[int](m, Range(1, None, 2), Range(4, 0, -2)).(*View[int])
	require.True(t, v.Strided())
	assert.Equal(t, 5+4, v.lay.offset)
	assert.Equal(t, []int{10, -2}, v.lay.strides)
	assert.Equal(t, [][]int{{9, 7}, {19, 17}}, Materialize[int](v).Value())

	iv := Index[int](m, Idx(2)).(*IndexView[int])
	assert.Equal(t, 10, iv.lay.offset)
	assert.Equal(t, 2, iv.Position())
}

func TestDetach(t *testing.T) {
	a := iotaArray(5)
	v := Index[int](a, From(2)).(*View[int])
	assert.False(t, v.IsOwner())
	v.Detach()
	assert.True(t, v.IsOwner())
	buf := v.lay.buf
	a.Finalize()
	assert.NotNil(t, buf.flat, "detached view keeps the buffer alive")
	assert.Equal(t, []int{2, 3, 4}, ToSlice[int](v))
	v.Release()
	assert.False(t, v.IsOwner())
	assert.Nil(t, buf.flat)
	v.Release() // No-op.

	f := Filter[int](iotaArray(3), Greater[int](iotaArray(3), Scalar(0)))
	require.Panics(t, func() { Index[int](f, All()).(*View[int]).Detach() })
}
