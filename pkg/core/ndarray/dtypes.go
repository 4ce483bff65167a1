// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ndarray

import (
	"github.com/gomlx/gopjrt/dtypes"
)

// Number lists the numeric Go types that can be stored in an Array and used in arithmetic.
type Number interface {
	int | int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

// Supported lists all Go types that can be stored in an Array: the numbers and bool.
type Supported interface {
	bool | Number
}

// DTypeOf returns the dtypes.DType for the Go type T.
func DTypeOf[T Supported]() dtypes.DType {
	var zero T
	switch any(zero).(type) {
	case bool:
		return dtypes.Bool
	case int:
		return dtypes.Int64
	case int8:
		return dtypes.Int8
	case int16:
		return dtypes.Int16
	case int32:
		return dtypes.Int32
	case int64:
		return dtypes.Int64
	case uint8:
		return dtypes.Uint8
	case uint16:
		return dtypes.Uint16
	case uint32:
		return dtypes.Uint32
	case uint64:
		return dtypes.Uint64
	case float32:
		return dtypes.Float32
	case float64:
		return dtypes.Float64
	}
	return dtypes.InvalidDType
}

// isFloat returns whether T is a floating point type.
func isFloat[T Supported]() bool {
	var zero T
	switch any(zero).(type) {
	case float32, float64:
		return true
	}
	return false
}

// convertValue converts between any two supported types.
// Booleans convert to 0 or 1, and numbers convert to bool as "!= 0".
func convertValue[From, To Supported](v From) To {
	var result To
	switch x := any(v).(type) {
	case bool:
		if x {
			setFromInt64(&result, 1)
		} else {
			setFromInt64(&result, 0)
		}
	case int:
		setFromInt64(&result, int64(x))
	case int8:
		setFromInt64(&result, int64(x))
	case int16:
		setFromInt64(&result, int64(x))
	case int32:
		setFromInt64(&result, int64(x))
	case int64:
		setFromInt64(&result, x)
	case uint8:
		setFromUint64(&result, uint64(x))
	case uint16:
		setFromUint64(&result, uint64(x))
	case uint32:
		setFromUint64(&result, uint64(x))
	case uint64:
		setFromUint64(&result, x)
	case float32:
		setFromFloat64(&result, float64(x))
	case float64:
		setFromFloat64(&result, x)
	}
	return result
}

func setFromInt64[T Supported](dst *T, v int64) {
	switch p := any(dst).(type) {
	case *bool:
		*p = v != 0
	case *int:
		*p = int(v)
	case *int8:
		*p = int8(v)
	case *int16:
		*p = int16(v)
	case *int32:
		*p = int32(v)
	case *int64:
		*p = v
	case *uint8:
		*p = uint8(v)
	case *uint16:
		*p = uint16(v)
	case *uint32:
		*p = uint32(v)
	case *uint64:
		*p = uint64(v)
	case *float32:
		*p = float32(v)
	case *float64:
		*p = float64(v)
	}
}

func setFromUint64[T Supported](dst *T, v uint64) {
	switch p := any(dst).(type) {
	case *bool:
		*p = v != 0
	case *uint64:
		*p = v
	case *float32:
		*p = float32(v)
	case *float64:
		*p = float64(v)
	default:
		setFromInt64(dst, int64(v))
	}
}

func setFromFloat64[T Supported](dst *T, v float64) {
	switch p := any(dst).(type) {
	case *bool:
		*p = v != 0
	case *int:
		*p = int(v)
	case *int8:
		*p = int8(v)
	case *int16:
		*p = int16(v)
	case *int32:
		*p = int32(v)
	case *int64:
		*p = int64(v)
	case *uint8:
		*p = uint8(v)
	case *uint16:
		*p = uint16(v)
	case *uint32:
		*p = uint32(v)
	case *uint64:
		*p = uint64(v)
	case *float32:
		*p = float32(v)
	case *float64:
		*p = v
	}
}
