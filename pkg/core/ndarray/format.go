// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ndarray

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// MaxSizeForString is the largest expression that is printed in full by Format and String.
// Larger ones are printed with Summary.
var MaxSizeForString = 500

// String implements fmt.Stringer. See Format.
func (a *Array[T]) String() string {
	if a.IsFinalized() {
		return fmt.Sprintf("Array%s (finalized)", a.shape)
	}
	return Format[T](a)
}

// String implements fmt.Stringer. See Format.
func (v *View[T]) String() string { return Format[T](v) }

// String implements fmt.Stringer. See Format.
func (iv *IndexView[T]) String() string { return Format[T](iv) }

// Format returns the shape and the values of e, with nested brackets per axis, e.g.:
// "(Int64)[2 3]: [[0 1 2] [3 4 5]]". Expressions larger than MaxSizeForString are summarized.
func Format[T Supported](e Expr[T]) string {
	shape := e.Shape()
	if shape.Size() > MaxSizeForString {
		return Summary(e)
	}
	var sb strings.Builder
	sb.WriteString(shape.String())
	sb.WriteString(": ")
	values := ToSlice(e)
	if shape.IsScalar() {
		fmt.Fprintf(&sb, "%v", values[0])
		return sb.String()
	}
	writeNested(&sb, values, shape.Dimensions)
	return sb.String()
}

func writeNested[T Supported](sb *strings.Builder, values []T, dims []int) {
	sb.WriteByte('[')
	if len(dims) == 1 {
		for ii, value := range values {
			if ii > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(sb, "%v", value)
		}
	} else if dims[0] > 0 {
		subSize := len(values) / dims[0]
		for ii := range dims[0] {
			if ii > 0 {
				sb.WriteByte(' ')
			}
			writeNested(sb, values[ii*subSize:(ii+1)*subSize], dims[1:])
		}
	}
	sb.WriteByte(']')
}

// Summary describes e without its values: kind, shape, number of elements and memory, e.g.:
// "View (Float32)[1000 3]: 3,000 elements, 12 kB".
func Summary[T Supported](e Expr[T]) string {
	shape := e.Shape()
	return fmt.Sprintf("%s %s: %s elements, %s", e.Kind(), shape,
		humanize.Comma(int64(shape.Size())), humanize.Bytes(uint64(shape.Memory())))
}
