// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package xslices

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFillSlice(t *testing.T) {
	s := make([]int, 7)
	FillSlice(s, 3)
	require.Equal(t, []int{3, 3, 3, 3, 3, 3, 3}, s)
	FillSlice([]int{}, 1) // No-op.
}

func TestIotaAndProduct(t *testing.T) {
	require.Equal(t, []float64{3, 4}, Iota(3.0, 2))
	require.Equal(t, 24, Product([]int{2, 3, 4}))
	require.Equal(t, 1, Product[int](nil))
	require.Equal(t, []string{"1", "2"}, Map([]int{1, 2}, strconv.Itoa))
}

func TestFlagSet(t *testing.T) {
	f := &genericSliceFlagImpl[int]{parserFn: strconv.Atoi}
	require.NoError(t, f.Set("1, 2,3"))
	require.Equal(t, []int{1, 2, 3}, f.parsedSlice)
	require.Equal(t, "1,2,3", f.String())
	require.Error(t, f.Set("a"))
}
