// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ndarray

import (
	"github.com/gomlx/exceptions"
	"k8s.io/klog/v2"
)

// buffer holds the flat storage shared by arrays, reshaped arrays and owning views.
//
// The storage is released (set to nil) exactly when the reference count drops to zero.
// It is not safe for concurrent use.
type buffer[T Supported] struct {
	flat []T
	refs int
}

func newBuffer[T Supported](size int) *buffer[T] {
	return &buffer[T]{flat: make([]T, size), refs: 1}
}

func (b *buffer[T]) retain() {
	if b.refs <= 0 {
		exceptions.Panicf("buffer already released")
	}
	b.refs++
}

func (b *buffer[T]) release() {
	if b.refs <= 0 {
		exceptions.Panicf("buffer released more times than it was retained")
	}
	b.refs--
	if b.refs == 0 {
		if klog.V(2).Enabled() {
			klog.Infof("ndarray: releasing buffer of %d elements of %s", len(b.flat), DTypeOf[T]())
		}
		b.flat = nil
	}
}

func (b *buffer[T]) released() bool {
	return b.refs <= 0
}

// layout describes strided access into a buffer: element at indices is at
// offset + Σ indices[i]*strides[i].
type layout[T Supported] struct {
	buf     *buffer[T]
	offset  int
	strides []int
	dims    []int
}

func (l *layout[T]) offsetOf(indices []int) int {
	offset := l.offset
	for axis, idx := range indices {
		offset += idx * l.strides[axis]
	}
	return offset
}

func (l *layout[T]) elementAt(indices []int) T {
	return l.buf.flat[l.offsetOf(indices)]
}

// innerContiguous returns whether rows along the innermost axis are consecutive in the buffer.
func (l *layout[T]) innerContiguous() bool {
	rank := len(l.dims)
	if rank == 0 {
		return false
	}
	return l.strides[rank-1] == 1 || l.dims[rank-1] <= 1
}

// row returns the buffer slice holding the innermost-axis row that starts at indices.
// indices[rank-1] must be 0.
func (l *layout[T]) row(indices []int) []T {
	offset := l.offsetOf(indices)
	return l.buf.flat[offset : offset+l.dims[len(l.dims)-1]]
}

// layoutOf returns the strided layout of e, or nil if e is not backed by strided storage.
func layoutOf[T Supported](e Expr[T]) *layout[T] {
	switch node := e.(type) {
	case *Array[T]:
		return node.layout()
	case *View[T]:
		return node.lay
	case *IndexView[T]:
		return node.lay
	}
	return nil
}
