// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/ndexpr/pkg/core/ndarray"
	"github.com/gomlx/ndexpr/pkg/support/xslices"
	"github.com/muesli/termenv"
)

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)

	oddRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFF")).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999")).
			PaddingLeft(1).PaddingRight(1)

	titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 4, 1, 4)
)

func init() {
	// Plain output when not writing to a terminal, e.g. when piping the values to a file.
	lipgloss.SetColorProfile(termenv.NewOutput(os.Stdout).Profile)
}

// newPlainTable returns a table where the first column holds labels (or indices) and the other
// columns hold values, right-aligned.
func newPlainTable(withHeader bool) *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			if withHeader && row == lgtable.HeaderRow {
				s = headerRowStyle
				return
			}
			if row%2 == 0 {
				s = evenRowStyle
			} else {
				s = oddRowStyle
			}
			if col > 0 {
				s = s.Align(lipgloss.Right)
			} else {
				s = s.Align(lipgloss.Left)
			}
			return
		})
}

func formatValue(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}

// renderValues renders the array as a table: one row per position of the leading axes, and one
// column per position of the last axis.
func renderValues(a *ndarray.Array[float64]) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(ndarray.Summary[float64](a)))
	sb.WriteByte('\n')
	if a.Rank() == 0 {
		sb.WriteString(formatValue(a.Value().(float64)))
		return sb.String()
	}
	dims := a.Dims()
	numColumns := dims[len(dims)-1]
	table := newPlainTable(true)
	headers := append([]string{"index"}, xslices.Map(xslices.Iota(0, numColumns), strconv.Itoa)...)
	table.Headers(headers...)
	if numColumns == 0 {
		return sb.String() + table.Render()
	}

	row := make([]string, 0, numColumns+1)
	it := ndarray.NewIterator[float64](a)
	for it.Next() {
		indices := it.Indices()
		if len(row) == 0 {
			row = append(row, rowLabel(indices[:len(indices)-1]))
		}
		row = append(row, formatValue(it.Value()))
		if len(row) == numColumns+1 {
			table.Row(row...)
			row = row[:0]
		}
	}
	sb.WriteString(table.Render())
	return sb.String()
}

// rowLabel formats the indices of the leading axes, e.g.: "[1 2]".
func rowLabel(indices []int) string {
	if len(indices) == 0 {
		return "[]"
	}
	return fmt.Sprint(indices)
}

// report renders a summary of the source, the steps of the pipeline and the result.
func report(source *ndarray.Array[float64], p *pipeline, result *ndarray.Array[float64]) {
	fmt.Println(titleStyle.Render("Summary"))
	table := newPlainTable(false)
	table.Row("source", ndarray.Summary[float64](source))
	if len(p.selectors) > 0 {
		table.Row("select", ndarray.SelectorsString(p.selectors))
	}
	if p.mapCode != "" {
		table.Row("map", p.mapCode)
	}
	if p.filter != "" {
		table.Row("filter", p.filter)
	}
	if p.f16 {
		table.Row("float16", humanize.Bytes(uint64(2*result.Size())))
	}
	table.Row("result", ndarray.Summary[float64](result))
	table.Row("# elements", humanize.Comma(int64(result.Size())))
	if result.Size() > 0 {
		flat := result.FlatData()
		lowest, highest := flat[0], flat[0]
		var sum float64
		for _, value := range flat {
			lowest = min(lowest, value)
			highest = max(highest, value)
			sum += value
		}
		table.Row("min", formatValue(lowest))
		table.Row("max", formatValue(highest))
		table.Row("mean", formatValue(sum/float64(len(flat))))
	}
	fmt.Println(table.Render())
}
