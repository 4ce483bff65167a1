// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package ndarray implements dense N-dimensional arrays, views over them and lazy elementwise
// expressions, with NumPy-like slicing and broadcasting.
//
// Everything is an Expr[T]: an *Array (dense storage), a *View (generalized view built from a list of
// selectors), an *IndexView (a view fixing the leading axis), a *Broadcast (lazy elementwise
// operation over any mix of expressions), a *Const (scalar) or a *FilterExpr (boolean-mask selection).
// Expressions are built bottom-up and nothing is computed until it is assigned into an array,
// materialized or iterated.
//
// Example:
//
//	a := ndarray.Arange[float64](12)
//	m := ndarray.Reshape(a, 3, 4)
//	row := ndarray.Index[float64](m, ndarray.Idx(1))                  // IndexView, shape [4]
//	cols := ndarray.Index[float64](m, ndarray.All(), ndarray.Step(2)) // View, shape [3 2]
//	sum := ndarray.Add(cols, ndarray.Scalar(10.0))                    // Broadcast, shape [3 2]
//	ndarray.Assign[float64](cols, sum)                                // Writes through m's buffer.
//
// ## Slicing
//
// Selectors are Idx (integer), Range (stepped slice), Span (contiguous slice), All and NewAxis.
// Chained slicing never nests views: slicing a *View merges the selectors into a single *View over
// the same parent. A leading integer selector produces an *IndexView instead.
//
// ## Assignment and aliasing
//
// Assign and the compound variants (AddAssign, SubAssign, MulAssign, DivAssign) evaluate the source
// as if it was read completely before the target is written. Whether that requires a temporary copy
// is decided structurally (see MayOverlap), without comparing memory ranges: views and expressions
// over views are copied first, independent arrays and constants are written directly. A view target
// is also protected from an array source sharing its buffer, as in `a[::-1] = a`.
//
// ## Errors
//
// Ill-formed combinations (incompatible shapes, too many selectors, out-of-range integers) panic
// at construction time with an error, using github.com/gomlx/exceptions. Use TryIndex or
// exceptions.TryCatch to convert them to errors.
//
// ## Concurrency
//
// Nothing in this package is safe for concurrent mutation, and expression nodes keep internal
// scratch space, so an expression shouldn't be evaluated concurrently from different goroutines.
package ndarray
