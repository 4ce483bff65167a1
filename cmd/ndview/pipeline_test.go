// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"testing"

	"github.com/gomlx/ndexpr/pkg/core/ndarray"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	a, err := generate("arange", []int{3, -1}, 0, 12, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, a.Dims())
	assert.Equal(t, 11.0, a.At(2, 3))

	a, err = generate("linspace", nil, 0, 1, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, a.FlatData())

	a, err = generate("ones", []int{2, 2}, 0, 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1, 1}, a.FlatData())

	_, err = generate("random", nil, 0, 1, 1, 1)
	require.Error(t, err)
	_, err = generate("arange", []int{5}, 0, 12, 1, 0)
	require.Error(t, err)
}

func TestParseYAML(t *testing.T) {
	a, err := parseYAML([]byte("- [1, 2, 3]\n- [4, 5.5, 6]\n"))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, a.Dims())
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5.5, 6}}, a.Value())

	a, err = parseYAML([]byte("7"))
	require.NoError(t, err)
	assert.Equal(t, 0, a.Rank())

	_, err = parseYAML([]byte("- [1, 2]\n- [3]\n"))
	require.Error(t, err)
	_, err = parseYAML([]byte("- a\n- b\n"))
	require.Error(t, err)
}

func TestPipeline(t *testing.T) {
	source := ndarray.Reshape(ndarray.Arange(12.0), 3, 4)

	p := &pipeline{selectors: must.M1(ndarray.ParseSelectors("1:, ::-1"))}
	result, err := p.Run(source)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{7, 6, 5, 4}, {11, 10, 9, 8}}, result.Value())

	p = &pipeline{
		selectors: must.M1(ndarray.ParseSelectors("0")),
		mapCode:   "x*x + i",
		filter:    "x > 2",
	}
	result, err = p.Run(source)
	require.NoError(t, err)
	// Row 0 is [0 1 2 3], mapped to [0 2 6 12].
	assert.Equal(t, []float64{6, 12}, result.Value())

	p = &pipeline{mapCode: "x / 3", f16: true}
	result, err = p.Run(ndarray.FromFlat([]float64{1}, 1))
	require.NoError(t, err)
	assert.NotEqual(t, 1.0/3.0, result.FlatData()[0])
	assert.InDelta(t, 1.0/3.0, result.FlatData()[0], 1e-3)

	// Source is left untouched.
	assert.Equal(t, 5.0, source.At(1, 1))

	_, err = (&pipeline{selectors: []ndarray.Selector{ndarray.Idx(5)}}).Run(source)
	require.Error(t, err)
	_, err = (&pipeline{mapCode: "x +"}).Run(source)
	require.Error(t, err)
	_, err = (&pipeline{filter: "x"}).Run(source)
	require.Error(t, err)
}

func TestRenderValues(t *testing.T) {
	a := ndarray.Reshape(ndarray.Arange(6.0), 2, 3)
	text := renderValues(a)
	assert.Contains(t, text, "index")
	assert.Contains(t, text, "[1]")
	assert.Contains(t, text, "5")
	assert.Contains(t, renderValues(ndarray.FromFlat([]float64{3.5})), "3.5")
}
