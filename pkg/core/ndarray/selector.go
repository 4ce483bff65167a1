// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ndarray

import (
	"fmt"
	"math"
	"strings"

	"github.com/gomlx/exceptions"
	"golang.org/x/exp/constraints"
)

// None is the sentinel for an omitted slice bound, like Python's `a[:3]` or `a[::-1]`.
const None = math.MinInt

// SelectorKind enumerates the kinds of Selector.
type SelectorKind uint8

const (
	// IndexSelector fixes one axis at an integer position, removing the axis.
	IndexSelector SelectorKind = iota + 1

	// SliceSelector selects a strided range of an axis.
	SliceSelector

	// ContiguousSelector selects a range of an axis with step 1.
	ContiguousSelector

	// NewAxisSelector inserts a new axis of dimension 1, without consuming any axis.
	NewAxisSelector
)

var selectorKindNames = map[SelectorKind]string{
	IndexSelector:      "Index",
	SliceSelector:      "Slice",
	ContiguousSelector: "ContiguousSlice",
	NewAxisSelector:    "NewAxis",
}

// String implements fmt.Stringer.
func (k SelectorKind) String() string {
	if name, found := selectorKindNames[k]; found {
		return name
	}
	return fmt.Sprintf("SelectorKind(%d)", int(k))
}

// Slice describes a range of an axis, with Python conventions: negative bounds count from the end,
// bounds are clamped to the axis, and None can be used to omit a bound.
type Slice struct {
	Lower, Upper, Step int
}

// Selector is one element of a list of selectors applied to an expression with Index.
// Create it with Idx, Range, Span, All, From, To, Step or NewAxis.
type Selector struct {
	kind  SelectorKind
	index int
	slice Slice
}

// NewAxis inserts a new axis of dimension 1.
var NewAxis = Selector{kind: NewAxisSelector}

// Idx returns a selector that fixes an axis at the given index (negative counts from the end),
// removing the axis from the result.
func Idx(index int) Selector {
	return Selector{kind: IndexSelector, index: index}
}

// Range returns a strided slice selector. Use None for omitted bounds.
func Range(lower, upper, step int) Selector {
	if step == None {
		step = 1
	}
	if step == 0 {
		exceptions.Panicf("slice step cannot be zero")
	}
	kind := SliceSelector
	if step == 1 {
		kind = ContiguousSelector
	}
	return Selector{kind: kind, slice: Slice{Lower: lower, Upper: upper, Step: step}}
}

// Span returns a contiguous slice selector (step 1). Use None for omitted bounds.
func Span(lower, upper int) Selector {
	return Selector{kind: ContiguousSelector, slice: Slice{Lower: lower, Upper: upper, Step: 1}}
}

// All selects a whole axis, like `:` in Python.
func All() Selector {
	return Span(None, None)
}

// From selects from lower (inclusive) to the end of the axis.
func From(lower int) Selector {
	return Span(lower, None)
}

// To selects from the start of the axis up to upper (exclusive).
func To(upper int) Selector {
	return Span(None, upper)
}

// Step selects the whole axis with the given step, like `::step` in Python.
func Step(step int) Selector {
	return Range(None, None, step)
}

// Kind of the selector.
func (s Selector) Kind() SelectorKind { return s.kind }

// IsSlice returns whether the selector is a (strided or contiguous) slice.
func (s Selector) IsSlice() bool {
	return s.kind == SliceSelector || s.kind == ContiguousSelector
}

// consumesAxis returns whether the selector is applied to an axis of its operand.
func (s Selector) consumesAxis() bool {
	return s.kind != NewAxisSelector
}

// Index returns the index of an IndexSelector.
func (s Selector) Index() int { return s.index }

// Slice returns the slice of a SliceSelector or ContiguousSelector.
func (s Selector) Slice() Slice { return s.slice }

// String implements fmt.Stringer, using Python's syntax.
func (s Selector) String() string {
	switch s.kind {
	case IndexSelector:
		return fmt.Sprintf("%d", s.index)
	case NewAxisSelector:
		return "newaxis"
	case SliceSelector, ContiguousSelector:
		var sb strings.Builder
		if s.slice.Lower != None {
			fmt.Fprintf(&sb, "%d", s.slice.Lower)
		}
		sb.WriteString(":")
		if s.slice.Upper != None {
			fmt.Fprintf(&sb, "%d", s.slice.Upper)
		}
		if s.slice.Step != 1 {
			fmt.Fprintf(&sb, ":%d", s.slice.Step)
		}
		return sb.String()
	}
	return "invalid"
}

// SelectorsString returns the selectors in Python's syntax, e.g.: "[1:3, ::2, newaxis, -1]".
func SelectorsString(selectors []Selector) string {
	parts := make([]string, len(selectors))
	for ii, s := range selectors {
		parts[ii] = s.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func clamp[T constraints.Ordered](value, lower, upper T) T {
	return max(lower, min(value, upper))
}

// Resolve a slice against an axis of dimension dim, returning the first position, the step and the
// number of selected elements. It follows Python's `slice.indices()`.
func (s Slice) Resolve(dim int) (lower, step, length int) {
	step = s.Step
	if step == None {
		step = 1
	}
	if step == 0 {
		exceptions.Panicf("slice step cannot be zero")
	}
	resolveBound := func(bound, defaultValue int) int {
		if bound == None {
			return defaultValue
		}
		if bound < 0 {
			bound += dim
		}
		if step > 0 {
			return clamp(bound, 0, dim)
		}
		return clamp(bound, -1, dim-1)
	}
	var upper int
	if step > 0 {
		lower = resolveBound(s.Lower, 0)
		upper = resolveBound(s.Upper, dim)
		if upper > lower {
			length = (upper - lower + step - 1) / step
		}
	} else {
		lower = resolveBound(s.Lower, dim-1)
		upper = resolveBound(s.Upper, -1)
		if lower > upper {
			length = (lower - upper - step - 1) / (-step)
		}
	}
	if length == 0 {
		// Empty selections are normalized to start at 0 so offsets never leave the buffer.
		lower = 0
	}
	return
}

// normalizeIndex converts a negative index to its positive position and checks its range.
func normalizeIndex(index, dim, axis int) int {
	if index < 0 {
		index += dim
	}
	if index < 0 || index >= dim {
		exceptions.Panicf("index %d out of range for axis %d with dimension %d", index, axis, dim)
	}
	return index
}

// countConsumed returns the number of operand axes consumed by the selectors.
func countConsumed(selectors []Selector) int {
	count := 0
	for _, s := range selectors {
		if s.consumesAxis() {
			count++
		}
	}
	return count
}

// checkRank panics if the selectors consume more axes than available.
func checkRank(selectors []Selector, rank int) {
	if consumed := countConsumed(selectors); consumed > rank {
		exceptions.Panicf("too many indices: %d selectors %s for an expression of rank %d",
			consumed, SelectorsString(selectors), rank)
	}
}
