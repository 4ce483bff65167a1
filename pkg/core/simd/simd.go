// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package simd defines the vector capability consumed by the ndarray vectorized paths:
// load a vector from memory, store a vector to memory, and apply an elementwise function
// across vectors.
//
// The ndarray package only depends on the Lanes interface, not on a specific instruction set.
// The default implementation (Portable) processes lanes in plain Go loops with a width derived
// from a 256-bit register. An accelerated implementation can be installed with Register.
package simd

import (
	"sync"
	"unsafe"

	"github.com/pkg/errors"
)

// RegisterBits is the vector register size assumed by Portable.
const RegisterBits = 256

// Vector holds the lanes of one vector. Its length is at most the Lanes.Width() that created it,
// shorter for the tail of a row.
type Vector[T any] []T

// Lanes is the vector capability for element type T.
type Lanes[T any] interface {
	// Width is the number of lanes of a full vector.
	Width() int

	// Load returns a vector with a copy of the first min(Width, len(src)) elements of src.
	// Vectors returned by consecutive loads must remain valid together, since they are combined by Apply.
	Load(src []T) Vector[T]

	// Store writes the vector lanes to dst, which must be at least len(v) long.
	Store(dst []T, v Vector[T])

	// Apply calls fn lane-wise: result[lane] = fn(args[0][lane], args[1][lane], ...).
	// All args must have the same length.
	Apply(fn func(args []T) T, args ...Vector[T]) Vector[T]
}

// Portable implements Lanes in plain Go.
type Portable[T any] struct {
	width   int
	scratch []T
}

// NewPortable returns a portable Lanes implementation of the given width.
// If width <= 0 it uses RegisterBits / (8 * sizeof(T)), at least 1.
func NewPortable[T any](width int) *Portable[T] {
	if width <= 0 {
		var zero T
		width = max(RegisterBits/(8*int(unsafe.Sizeof(zero))), 1)
	}
	return &Portable[T]{width: width}
}

// Width implements Lanes.
func (p *Portable[T]) Width() int { return p.width }

// Load implements Lanes. The returned vector is a fresh copy, so loads can be combined freely.
func (p *Portable[T]) Load(src []T) Vector[T] {
	n := min(p.width, len(src))
	v := make(Vector[T], n)
	copy(v, src[:n])
	return v
}

// Store implements Lanes.
func (p *Portable[T]) Store(dst []T, v Vector[T]) {
	copy(dst[:len(v)], v)
}

// Apply implements Lanes.
func (p *Portable[T]) Apply(fn func(args []T) T, args ...Vector[T]) Vector[T] {
	if len(args) == 0 {
		return nil
	}
	n := len(args[0])
	result := make(Vector[T], n)
	if cap(p.scratch) < len(args) {
		p.scratch = make([]T, len(args))
	}
	laneArgs := p.scratch[:len(args)]
	for lane := range n {
		for argIdx, arg := range args {
			laneArgs[argIdx] = arg[lane]
		}
		result[lane] = fn(laneArgs)
	}
	return result
}

var (
	registryMu sync.Mutex
	registry   = make(map[any]any)
)

type registryKey[T any] struct{}

// Register installs the Lanes implementation returned by Default for type T.
// It is meant to be called from an init() function of an accelerated implementation.
func Register[T any](lanes Lanes[T]) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[registryKey[T]{}] = lanes
}

// Default returns the registered Lanes for T, or a new Portable with the default width.
func Default[T any]() Lanes[T] {
	registryMu.Lock()
	defer registryMu.Unlock()
	if lanes, found := registry[registryKey[T]{}]; found {
		return lanes.(Lanes[T])
	}
	return NewPortable[T](0)
}

// CheckWidth returns an error if the Lanes width is not usable.
func CheckWidth[T any](lanes Lanes[T]) error {
	if lanes == nil {
		return errors.New("simd: nil Lanes")
	}
	if lanes.Width() <= 0 {
		return errors.Errorf("simd: invalid vector width %d", lanes.Width())
	}
	return nil
}
