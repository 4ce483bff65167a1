// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ndarray

import (
	"math"
	"reflect"
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/ndexpr/pkg/core/shapes"
	"github.com/gomlx/ndexpr/pkg/support/xslices"
	"github.com/pkg/errors"
)

// DefaultLinspaceNum is the number of samples used by LinspaceDefault.
var DefaultLinspaceNum = 50

// Zeros returns a new array filled with zeros.
func Zeros[T Supported](dims ...int) *Array[T] {
	shape := shapes.Make(DTypeOf[T](), dims...)
	return newArray(newBuffer[T](shape.Size()), dims)
}

// Empty returns a new array whose contents are not meaningful. In Go the storage is always
// zero-initialized, so it is the same as Zeros.
func Empty[T Supported](dims ...int) *Array[T] {
	return Zeros[T](dims...)
}

// Full returns a new array filled with value.
func Full[T Supported](value T, dims ...int) *Array[T] {
	a := Zeros[T](dims...)
	xslices.FillSlice(a.FlatData(), value)
	return a
}

// Ones returns a new array filled with ones (true for bool).
func Ones[T Supported](dims ...int) *Array[T] {
	return Full(convertValue[int, T](1), dims...)
}

// ZerosLike returns a new array of zeros with the dimensions of e.
func ZerosLike[T Supported](e Expr[T]) *Array[T] { return Zeros[T](Dims(e)...) }

// OnesLike returns a new array of ones with the dimensions of e.
func OnesLike[T Supported](e Expr[T]) *Array[T] { return Ones[T](Dims(e)...) }

// EmptyLike returns a new array with the dimensions of e. See Empty.
func EmptyLike[T Supported](e Expr[T]) *Array[T] { return Empty[T](Dims(e)...) }

// FromFlat returns a new array with a copy of the flat data (in row-major order) and the given
// dimensions. It panics if the sizes don't match.
func FromFlat[T Supported](data []T, dims ...int) *Array[T] {
	shape := shapes.Make(DTypeOf[T](), dims...)
	if shape.Size() != len(data) {
		exceptions.Panicf("FromFlat: data has %d elements, dimensions %v require %d", len(data), dims, shape.Size())
	}
	a := Zeros[T](dims...)
	copy(a.FlatData(), data)
	return a
}

// FromValue returns a new array from a scalar or a (possibly nested) slice, e.g.: [][]float32.
// Elements are converted to T, and []any slices (as decoded from JSON or YAML) are accepted.
//
// It panics if the nesting is irregular or an element can't be converted to T.
func FromValue[T Supported](value any) *Array[T] {
	v := reflect.ValueOf(value)
	var dims []int
	if err := dimsForValue(&dims, v); err != nil {
		panic(errors.Wrapf(err, "cannot create array from %T", value))
	}
	a := Zeros[T](dims...)
	flat := a.FlatData()
	pos := 0
	if err := copyValueRecursively(flat, &pos, v); err != nil {
		panic(errors.Wrapf(err, "cannot create array from %T", value))
	}
	return a
}

// TryFromValue is like FromValue, but returns an error instead of panicking.
func TryFromValue[T Supported](value any) (a *Array[T], err error) {
	err = exceptions.TryCatch[error](func() { a = FromValue[T](value) })
	return
}

func unwrapInterface(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	return v
}

// dimsForValue appends the dimensions of v to dims, checking that all sub-slices have the same
// dimensions.
func dimsForValue(dims *[]int, v reflect.Value) error {
	v = unwrapInterface(v)
	if !v.IsValid() {
		return errors.New("nil value")
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil
	}
	*dims = append(*dims, v.Len())
	if v.Len() == 0 {
		return nil
	}
	prefixLen := len(*dims)
	if err := dimsForValue(dims, v.Index(0)); err != nil {
		return err
	}
	for ii := 1; ii < v.Len(); ii++ {
		subDims := slices.Clone((*dims)[:prefixLen])
		if err := dimsForValue(&subDims, v.Index(ii)); err != nil {
			return err
		}
		if !slices.Equal(subDims, *dims) {
			return errors.Errorf("sub-slices have irregular dimensions, found %v and %v", *dims, subDims)
		}
	}
	return nil
}

// copyValueRecursively copies the leaves of v to flat in row-major order.
func copyValueRecursively[T Supported](flat []T, pos *int, v reflect.Value) error {
	v = unwrapInterface(v)
	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		for ii := range v.Len() {
			if err := copyValueRecursively(flat, pos, v.Index(ii)); err != nil {
				return err
			}
		}
		return nil
	}
	var value T
	switch v.Kind() {
	case reflect.Bool:
		value = convertValue[bool, T](v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		value = convertValue[int64, T](v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		value = convertValue[uint64, T](v.Uint())
	case reflect.Float32, reflect.Float64:
		value = convertValue[float64, T](v.Float())
	default:
		return errors.Errorf("element of type %s can't be converted to %s", v.Type(), DTypeOf[T]())
	}
	flat[*pos] = value
	*pos++
	return nil
}

// Arange returns [0, 1, ..., end-1].
func Arange[T Number](end T) *Array[T] {
	return ArangeStep(0, end, 1)
}

// ArangeStep returns the values begin, begin+step, ... up to end (exclusive). The length is
// ceil((end-begin)/step), or 0 if that is negative. It panics if step is 0.
func ArangeStep[T Number](begin, end, step T) *Array[T] {
	if step == 0 {
		exceptions.Panicf("ArangeStep: step cannot be 0")
	}
	n := int(math.Ceil((float64(end) - float64(begin)) / float64(step)))
	n = max(n, 0)
	a := Zeros[T](n)
	flat := a.FlatData()
	for ii := range flat {
		flat[ii] = begin + T(ii)*step
	}
	return a
}

// Linspace returns num evenly spaced values from start to stop, both included.
func Linspace(start, stop float64, num int) *Array[float64] {
	return LinspaceEndpoint(start, stop, num, true)
}

// LinspaceDefault returns DefaultLinspaceNum evenly spaced values from start to stop, both included.
func LinspaceDefault(start, stop float64) *Array[float64] {
	return Linspace(start, stop, DefaultLinspaceNum)
}

// LinspaceEndpoint returns num evenly spaced values from start to stop. The step is
// (stop-start)/(num-1) if endpoint is true, and (stop-start)/num otherwise, in which case stop is
// not included.
//
// It panics if num is negative.
func LinspaceEndpoint(start, stop float64, num int, endpoint bool) *Array[float64] {
	if num < 0 {
		exceptions.Panicf("Linspace: number of samples must be non-negative, got %d", num)
	}
	divisor := num
	if endpoint {
		divisor = num - 1
	}
	var step float64
	if divisor > 0 {
		step = (stop - start) / float64(divisor)
	}
	a := Zeros[float64](num)
	flat := a.FlatData()
	for ii := range flat {
		flat[ii] = start + float64(ii)*step
	}
	if endpoint && num > 1 {
		flat[num-1] = stop
	}
	return a
}

// Reshape returns an array with new dimensions sharing the buffer of a. At most one dimension can
// be -1, in which case it is inferred from the size of a.
//
// Both arrays hold a reference to the buffer: it is only released when both are finalized.
// It panics if the number of elements doesn't match.
func Reshape[T Supported](a *Array[T], dims ...int) *Array[T] {
	a.assertValid()
	dims = slices.Clone(dims)
	inferred := -1
	known := 1
	for axis, dim := range dims {
		switch {
		case dim == -1:
			if inferred >= 0 {
				exceptions.Panicf("Reshape(%v): only one dimension can be -1", dims)
			}
			inferred = axis
		case dim < 0:
			exceptions.Panicf("Reshape(%v): invalid negative dimension", dims)
		default:
			known *= dim
		}
	}
	size := a.Size()
	if inferred >= 0 {
		if known == 0 || size%known != 0 {
			exceptions.Panicf("Reshape(%v): can't infer dimension for array of shape %s", dims, a.shape)
		}
		dims[inferred] = size / known
		known = size
	}
	if known != size {
		exceptions.Panicf("Reshape(%v): array of shape %s has %d elements, new dimensions require %d",
			dims, a.shape, size, known)
	}
	a.lay.buf.retain()
	return newArray(a.lay.buf, dims)
}

// Materialize evaluates e into a new array.
func Materialize[T Supported](e Expr[T]) *Array[T] {
	result := Zeros[T](Dims(e)...)
	flat := result.FlatData()
	for pos, value := range Enumerate(e) {
		flat[pos] = value
	}
	return result
}

// Copy returns a new array with a copy of the contents of a.
func Copy[T Supported](a *Array[T]) *Array[T] {
	return FromFlat(a.FlatData(), a.shape.Dimensions...)
}

// Take gathers the sub-expressions at the given positions of the leading axis of e into a new
// array, with dimensions [len(coords), e's dimensions[1:]...]. Negative positions count from the end.
func Take[T Supported](e Expr[T], coords []int) *Array[T] {
	dims := Dims(e)
	if len(dims) == 0 {
		exceptions.Panicf("Take: cannot take from a scalar")
	}
	resultDims := append([]int{len(coords)}, dims[1:]...)
	result := Zeros[T](resultDims...)
	for ii, coord := range coords {
		Assign(Index[T](result, Idx(ii)), Index(e, Idx(coord)))
	}
	return result
}
