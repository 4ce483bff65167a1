// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ndarray

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelectors(t *testing.T) {
	selectors, err := ParseSelectors("1:3, ::2, newaxis, -1")
	require.NoError(t, err)
	assert.Equal(t, []Selector{Span(1, 3), Step(2), NewAxis, Idx(-1)}, selectors)

	selectors, err = ParseSelectors("[::-1, None, :]")
	require.NoError(t, err)
	assert.Equal(t, []Selector{Step(-1), NewAxis, All()}, selectors)
	assert.Equal(t, ContiguousSelector, selectors[2].Kind())

	selectors, err = ParseSelectors("  ")
	require.NoError(t, err)
	assert.Empty(t, selectors)

	// Round trip with SelectorsString.
	original := []Selector{Idx(2), Range(-1, None, -2), From(3), To(-1), NewAxis}
	parsed, err := ParseSelectors(SelectorsString(original))
	require.NoError(t, err)
	assert.Equal(t, original, parsed)

	for _, bad := range []string{"1,,2", "a", "1:2:3:4", "::0", "1:x"} {
		_, err = ParseSelectors(bad)
		assert.Errorf(t, err, "ParseSelectors(%q) should have failed", bad)
	}
}

func TestParseSelectorsIndex(t *testing.T) {
	a := iotaArray(4, 5)
	selectors, err := ParseSelectors("1:3, ::2")
	require.NoError(t, err)
	view := Index[int](a, selectors...)
	assert.Equal(t, []int{2, 3}, Dims(view))
	assert.Equal(t, []int{5, 7, 9, 10, 12, 14}, ToSlice(view))
}
