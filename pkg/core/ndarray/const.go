// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ndarray

import (
	"github.com/gomlx/ndexpr/pkg/core/shapes"
	"github.com/gomlx/ndexpr/pkg/core/simd"
)

// Const is a scalar leaf of an expression. It broadcasts to any shape.
type Const[T Supported] struct {
	value T
}

// Scalar returns a constant expression.
func Scalar[T Supported](value T) *Const[T] {
	return &Const[T]{value: value}
}

// Value returns the constant value.
func (c *Const[T]) Value() T { return c.value }

// Shape implements shapes.HasShape: always a scalar.
func (c *Const[T]) Shape() shapes.Shape { return shapes.Scalar(DTypeOf[T]()) }

// Kind implements Expr.
func (c *Const[T]) Kind() Kind { return KindConst }

func (c *Const[T]) elementAt([]int) T { return c.value }

func (c *Const[T]) indexed(selectors []Selector) Expr[T] {
	return selectFrom[T](c, selectors)
}

func (c *Const[T]) mayOverlap() bool      { return false }
func (c *Const[T]) readsStorage(any) bool { return false }
func (c *Const[T]) vectorizable() bool    { return false }

func (c *Const[T]) loadBlock(simd.Lanes[T], []int, int) simd.Vector[T] {
	return noVectorLoad[T](KindConst)
}
