// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ndarray

import (
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/ndexpr/pkg/core/shapes"
	"github.com/gomlx/ndexpr/pkg/core/simd"
)

// View is a generalized view of a parent expression, built from a list of selectors.
//
// Slicing a View never nests: the new selectors are merged with the existing ones into a single View
// over the same parent, so A[S1][S2] is represented as A[S] with storage proportional to the rank.
//
// Views over arrays (or over views of arrays) have a strided layout: they can be assigned to and
// read without going through the parent. By default, a view only references the buffer of its
// array. Use Detach to make it an owner.
type View[T Supported] struct {
	parent Expr[T]

	// parentAxes holds the merged selection for each axis of the parent.
	parentAxes []parentAxisSelection

	// axes describes each output axis.
	axes []viewAxis

	// numSelected is the number of leading parent axes touched by some selector.
	numSelected int

	shape    shapes.Shape
	iterKind IterKind
	lay      *layout[T]
	owned    bool
	scratch  []int
}

type parentAxisSelection struct {
	// kind is 0 for parent axes carried over without a selector.
	kind SelectorKind

	// index is the fixed position of an axis collapsed by an IndexSelector.
	index int
}

type viewAxis struct {
	// parentAxis is -1 for new axes.
	parentAxis       int
	lower, step, dim int
}

// Index applies the selectors to the expression, returning a view of it.
//
// Selectors are applied to the leading axes, and trailing axes not mentioned are carried over.
// Each Idx removes an axis, each slice keeps one and each NewAxis inserts one of dimension 1.
//
// The returned node depends on e:
//
//   - *Array: if the first selector is an integer, an *IndexView (chained for consecutive leading
//     integers), otherwise a *View.
//   - *View: the selectors are merged into a new *View over the same parent.
//   - *Broadcast: the selectors are pushed down to its operands and the same operation is rebuilt.
//   - Others: a *View (or *IndexView) with generic element access.
//
// It panics if the selectors consume more axes than the rank of e, or if an integer is out of range.
func Index[T Supported](e Expr[T], selectors ...Selector) Expr[T] {
	if len(selectors) == 0 {
		return e
	}
	for ii, s := range selectors {
		if s.kind == 0 {
			exceptions.Panicf("invalid (zero value) selector #%d in %s", ii, SelectorsString(selectors))
		}
	}
	return e.indexed(selectors)
}

// TryIndex is like Index, but returns an error instead of panicking.
func TryIndex[T Supported](e Expr[T], selectors ...Selector) (result Expr[T], err error) {
	err = exceptions.TryCatch[error](func() { result = Index(e, selectors...) })
	return
}

// selectFrom converts leading integer selectors to a chain of IndexView, and the remaining ones
// to a View.
func selectFrom[T Supported](parent Expr[T], selectors []Selector) Expr[T] {
	checkRank(selectors, parent.Shape().Rank())
	for len(selectors) > 0 && selectors[0].kind == IndexSelector {
		parent = newIndexView(parent, selectors[0].index)
		selectors = selectors[1:]
	}
	if len(selectors) == 0 {
		return parent
	}
	return newView(parent, selectors)
}

// newView creates a view of parent with the given selectors.
func newView[T Supported](parent Expr[T], selectors []Selector) *View[T] {
	dims := parent.Shape().Dimensions
	v := &View[T]{
		parent:     parent,
		parentAxes: make([]parentAxisSelection, len(dims)),
		axes:       make([]viewAxis, len(dims)),
	}
	for axis, dim := range dims {
		v.axes[axis] = viewAxis{parentAxis: axis, step: 1, dim: dim}
	}
	v.apply(selectors)
	return v
}

// merge returns a new View over the same parent, equivalent to applying selectors to v.
func (v *View[T]) merge(selectors []Selector) *View[T] {
	merged := &View[T]{
		parent:      v.parent,
		parentAxes:  slices.Clone(v.parentAxes),
		axes:        v.axes,
		numSelected: v.numSelected,
	}
	merged.apply(selectors)
	return merged
}

// apply the selectors to the current output axes, and then recompute shape, iterator kind and layout.
func (v *View[T]) apply(selectors []Selector) {
	checkRank(selectors, len(v.axes))
	newAxes := make([]viewAxis, 0, len(v.axes)+len(selectors))
	pos := 0
	for _, s := range selectors {
		if s.kind == NewAxisSelector {
			newAxes = append(newAxes, viewAxis{parentAxis: -1, dim: 1})
			continue
		}
		axisPos := pos
		ax := v.axes[pos]
		pos++
		switch s.kind {
		case IndexSelector:
			idx := normalizeIndex(s.index, ax.dim, axisPos)
			if ax.parentAxis < 0 {
				// An index into a new axis just removes it.
				continue
			}
			v.parentAxes[ax.parentAxis] = parentAxisSelection{kind: IndexSelector, index: ax.lower + idx*ax.step}
			v.numSelected = max(v.numSelected, ax.parentAxis+1)

		case SliceSelector, ContiguousSelector:
			lower, step, length := s.slice.Resolve(ax.dim)
			if ax.parentAxis < 0 {
				newAxes = append(newAxes, viewAxis{parentAxis: -1, dim: length})
				continue
			}
			merged := viewAxis{
				parentAxis: ax.parentAxis,
				lower:      ax.lower + lower*ax.step,
				step:       step * ax.step,
				dim:        length,
			}
			kind := SliceSelector
			if merged.step == 1 {
				kind = ContiguousSelector
			}
			v.parentAxes[ax.parentAxis] = parentAxisSelection{kind: kind}
			v.numSelected = max(v.numSelected, ax.parentAxis+1)
			newAxes = append(newAxes, merged)
		}
	}
	v.axes = append(newAxes, v.axes[pos:]...)
	v.finalize()
}

func (v *View[T]) finalize() {
	dims := make([]int, len(v.axes))
	for ii, ax := range v.axes {
		dims[ii] = ax.dim
	}
	v.shape = shapes.Make(DTypeOf[T](), dims...)
	v.scratch = make([]int, len(v.parentAxes))

	v.iterKind = IterStrided
	if _, isArray := v.parent.(*Array[T]); isArray {
		if v.numSelected == 0 || v.numSelected < len(v.parentAxes) || v.parentAxes[v.numSelected-1].kind == ContiguousSelector {
			v.iterKind = IterContiguous
		}
	}

	parentLay := layoutOf(v.parent)
	if parentLay == nil {
		return
	}
	v.lay = &layout[T]{buf: parentLay.buf, offset: parentLay.offset, dims: dims, strides: make([]int, len(dims))}
	for parentAxis, sel := range v.parentAxes {
		if sel.kind == IndexSelector {
			v.lay.offset += sel.index * parentLay.strides[parentAxis]
		}
	}
	if v.shape.IsZeroSize() {
		return
	}
	for ii, ax := range v.axes {
		if ax.parentAxis < 0 {
			continue
		}
		v.lay.offset += ax.lower * parentLay.strides[ax.parentAxis]
		v.lay.strides[ii] = ax.step * parentLay.strides[ax.parentAxis]
	}
}

// Shape implements shapes.HasShape.
func (v *View[T]) Shape() shapes.Shape { return v.shape }

// Kind implements Expr.
func (v *View[T]) Kind() Kind { return KindView }

// Parent returns the expression the view selects from. For merged views, it is the parent of the
// first view.
func (v *View[T]) Parent() Expr[T] { return v.parent }

// IterKind returns the kind of iteration used for the view, decided at construction.
func (v *View[T]) IterKind() IterKind { return v.iterKind }

// Strided returns whether the view has a strided layout over storage. Only those can be assigned to.
func (v *View[T]) Strided() bool { return v.lay != nil }

// Slice returns the view merged with the new selectors. See Index.
func (v *View[T]) Slice(selectors ...Selector) Expr[T] {
	return Index[T](v, selectors...)
}

// Assign evaluates source into the view. See Assign.
func (v *View[T]) Assign(source Expr[T]) *View[T] {
	Assign[T](v, source)
	return v
}

// Detach makes the view an owner of the underlying buffer: it remains valid after the array it was
// created from is finalized, until Release is called.
//
// It panics if the view has no strided layout.
func (v *View[T]) Detach() *View[T] {
	if v.lay == nil {
		exceptions.Panicf("only views over arrays can be detached, this view is over a %s", v.parent.Kind())
	}
	if !v.owned {
		v.lay.buf.retain()
		v.owned = true
	}
	return v
}

// IsOwner returns whether the view holds a reference to its buffer (see Detach).
func (v *View[T]) IsOwner() bool { return v.owned }

// Release drops the buffer reference of an owning view. It is a no-op for views that don't own it.
func (v *View[T]) Release() {
	if !v.owned {
		return
	}
	v.lay.buf.release()
	v.owned = false
}

func (v *View[T]) elementAt(indices []int) T {
	if v.lay != nil {
		return v.lay.elementAt(indices)
	}
	for parentAxis, sel := range v.parentAxes {
		if sel.kind == IndexSelector {
			v.scratch[parentAxis] = sel.index
		}
	}
	for ii, ax := range v.axes {
		if ax.parentAxis >= 0 {
			v.scratch[ax.parentAxis] = ax.lower + indices[ii]*ax.step
		}
	}
	return v.parent.elementAt(v.scratch)
}

func (v *View[T]) indexed(selectors []Selector) Expr[T] {
	return v.merge(selectors)
}

func (v *View[T]) mayOverlap() bool { return true }

func (v *View[T]) readsStorage(buf any) bool {
	if v.lay != nil {
		return any(v.lay.buf) == buf
	}
	return v.parent.readsStorage(buf)
}

func (v *View[T]) vectorizable() bool {
	return v.lay != nil && v.iterKind == IterContiguous && v.lay.innerContiguous()
}

func (v *View[T]) loadBlock(lanes simd.Lanes[T], indices []int, n int) simd.Vector[T] {
	offset := v.lay.offsetOf(indices)
	return lanes.Load(v.lay.buf.flat[offset : offset+n])
}
