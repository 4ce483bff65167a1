// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ndarray

import (
	"github.com/gomlx/exceptions"
	"github.com/x448/float16"
)

// EncodeFloat16 converts the elements of e (in row-major order) to half-precision floats,
// rounding to the nearest representable value.
func EncodeFloat16[T Number](e Expr[T]) []float16.Float16 {
	encoded := make([]float16.Float16, 0, Size(e))
	for value := range Values(e) {
		encoded = append(encoded, float16.Fromfloat32(float32(value)))
	}
	return encoded
}

// DecodeFloat16 returns a new float32 array with the given dimensions from half-precision floats.
func DecodeFloat16(data []float16.Float16, dims ...int) *Array[float32] {
	a := Zeros[float32](dims...)
	flat := a.FlatData()
	if len(flat) != len(data) {
		exceptions.Panicf("DecodeFloat16: %d values given for dimensions %v (%d elements)", len(data), dims, len(flat))
	}
	for ii, value := range data {
		flat[ii] = value.Float32()
	}
	return a
}
