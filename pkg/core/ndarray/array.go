// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ndarray

import (
	"reflect"
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/ndexpr/pkg/core/shapes"
	"github.com/gomlx/ndexpr/pkg/core/simd"
)

// Array is a dense N-dimensional array: a reference to a flat buffer in row-major order, starting at
// offset 0.
//
// Arrays created by Reshape share the buffer with the original array: the buffer is only released
// when all of them are finalized.
type Array[T Supported] struct {
	shape shapes.Shape
	lay   layout[T]
}

// newArray creates an array over buf. It doesn't retain buf: the caller transfers its reference.
func newArray[T Supported](buf *buffer[T], dims []int) *Array[T] {
	shape := shapes.Make(DTypeOf[T](), dims...)
	if len(buf.flat) < shape.Size() {
		exceptions.Panicf("buffer of %d elements too small for shape %s", len(buf.flat), shape)
	}
	a := &Array[T]{shape: shape}
	a.lay = layout[T]{buf: buf, strides: shape.Strides(), dims: shape.Dimensions}
	return a
}

// Shape implements shapes.HasShape.
func (a *Array[T]) Shape() shapes.Shape { return a.shape }

// Kind implements Expr.
func (a *Array[T]) Kind() Kind { return KindArray }

// Rank returns the number of axes.
func (a *Array[T]) Rank() int { return a.shape.Rank() }

// Size returns the number of elements.
func (a *Array[T]) Size() int { return a.shape.Size() }

// Dims returns a copy of the dimensions.
func (a *Array[T]) Dims() []int { return slices.Clone(a.shape.Dimensions) }

// Strides returns the row-major strides of the array, in number of elements.
func (a *Array[T]) Strides() []int { return slices.Clone(a.lay.strides) }

// FlatData returns the underlying flat storage in row-major order. It is owned by the array
// (and any other array sharing its buffer), and it is invalidated by Resize and Finalize.
func (a *Array[T]) FlatData() []T {
	a.assertValid()
	return a.lay.buf.flat[:a.shape.Size()]
}

// IsFinalized returns whether Finalize was called.
func (a *Array[T]) IsFinalized() bool {
	return a.lay.buf == nil
}

// Finalize drops the array's reference to its buffer. The storage is freed when no other array
// (see Reshape) or owning view holds it. It is safe to call Finalize more than once.
//
// Views referencing the array (not Detach-ed) are invalid afterwards.
func (a *Array[T]) Finalize() {
	if a.lay.buf == nil {
		return
	}
	a.lay.buf.release()
	a.lay.buf = nil
}

func (a *Array[T]) assertValid() {
	if a == nil {
		exceptions.Panicf("ndarray: nil Array")
	}
	if a.lay.buf == nil || a.lay.buf.released() {
		exceptions.Panicf("ndarray: Array %s already finalized", a.shape)
	}
}

// At returns the element at the given indices. Negative indices count from the end.
func (a *Array[T]) At(indices ...int) T {
	a.assertValid()
	return At[T](a, indices...)
}

// Set the element at the given indices. Negative indices count from the end.
func (a *Array[T]) Set(value T, indices ...int) {
	a.assertValid()
	if len(indices) != a.Rank() {
		exceptions.Panicf("Set() requires %d indices for shape %s, got %d", a.Rank(), a.shape, len(indices))
	}
	offset := 0
	for axis, idx := range indices {
		offset += normalizeIndex(idx, a.shape.Dimensions[axis], axis) * a.lay.strides[axis]
	}
	a.lay.buf.flat[offset] = value
}

// Slice returns a view (or an IndexView, if the first selector is an integer) of the array.
// See Index for details.
func (a *Array[T]) Slice(selectors ...Selector) Expr[T] {
	return Index[T](a, selectors...)
}

// Assign evaluates source into the array. See Assign.
func (a *Array[T]) Assign(source Expr[T]) *Array[T] {
	Assign[T](a, source)
	return a
}

// Resize changes the dimensions of the array, reallocating its storage. The leading elements (in
// flat order) are preserved, new elements are zero.
//
// Other arrays sharing the old buffer (see Reshape) keep it. Iterators and views over the array
// are invalidated.
func (a *Array[T]) Resize(dims ...int) *Array[T] {
	a.assertValid()
	shape := shapes.Make(a.shape.DType, dims...)
	buf := newBuffer[T](shape.Size())
	copy(buf.flat, a.lay.buf.flat[:a.shape.Size()])
	a.lay.buf.release()
	a.shape = shape
	a.lay = layout[T]{buf: buf, strides: shape.Strides(), dims: shape.Dimensions}
	return a
}

// Value returns a multidimensional slice (or a scalar, if the rank is 0) containing a copy of the
// values of the array.
//
// This is expensive, and usually only used for small arrays in tests and to print results.
func (a *Array[T]) Value() any {
	a.assertValid()
	flat := slices.Clone(a.FlatData())
	if a.shape.IsScalar() {
		return flat[0]
	}
	if a.Rank() == 1 {
		return flat
	}
	return convertDataToSlices(reflect.ValueOf(flat), a.shape.Dimensions...).Interface()
}

// convertDataToSlices takes data as a flat slice, and creates a multidimensional slices with the
// given dimensions that points to the given data.
func convertDataToSlices(dataV reflect.Value, dimensions ...int) reflect.Value {
	if len(dimensions) <= 1 {
		return dataV
	}
	resultT := dataV.Type().Elem()
	for range dimensions {
		resultT = reflect.SliceOf(resultT)
	}
	strides := make([]int, len(dimensions))
	currentStride := 1
	for axis := len(dimensions) - 1; axis >= 0; axis-- {
		strides[axis] = currentStride
		currentStride *= dimensions[axis]
	}
	return createSlicesRecursively(resultT, dataV, dimensions, strides)
}

func createSlicesRecursively(resultT reflect.Type, data reflect.Value, dimensions []int, strides []int) reflect.Value {
	if len(strides) == 1 {
		return data
	}
	numElements := dimensions[0]
	slice := reflect.MakeSlice(resultT, numElements, numElements)
	for ii := range numElements {
		subData := data.Slice(ii*strides[0], (ii+1)*strides[0])
		slice.Index(ii).Set(createSlicesRecursively(resultT.Elem(), subData, dimensions[1:], strides[1:]))
	}
	return slice
}

func (a *Array[T]) layout() *layout[T] {
	a.assertValid()
	return &a.lay
}

func (a *Array[T]) elementAt(indices []int) T {
	if a.lay.buf == nil {
		// Reached as the operand of an expression built before Finalize.
		a.assertValid()
	}
	return a.lay.elementAt(indices)
}

func (a *Array[T]) indexed(selectors []Selector) Expr[T] {
	return selectFrom[T](a, selectors)
}

// mayOverlap is false for an array that is the only holder of its buffer. Arrays sharing their
// buffer (see Reshape and View.Detach) are treated as views.
func (a *Array[T]) mayOverlap() bool {
	return a.lay.buf != nil && a.lay.buf.refs > 1
}

func (a *Array[T]) readsStorage(buf any) bool {
	return a.lay.buf != nil && any(a.lay.buf) == buf
}

func (a *Array[T]) vectorizable() bool { return a.Rank() > 0 }

func (a *Array[T]) loadBlock(lanes simd.Lanes[T], indices []int, n int) simd.Vector[T] {
	if a.lay.buf == nil {
		a.assertValid()
	}
	offset := a.lay.offsetOf(indices)
	return lanes.Load(a.lay.buf.flat[offset : offset+n])
}

// Equal returns whether the two expressions have the same dimensions and elements.
func Equal[T Supported](a, b Expr[T]) bool {
	if !a.Shape().EqualDimensions(b.Shape()) {
		return false
	}
	it := NewIterator(b)
	for value := range Values(a) {
		it.Next()
		if value != it.Value() {
			return false
		}
	}
	return true
}
