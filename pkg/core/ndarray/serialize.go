// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ndarray

import (
	"encoding/gob"
	"os"

	"github.com/gomlx/ndexpr/pkg/core/shapes"
	"github.com/pkg/errors"
)

// GobSerialize the array in binary format: its shape followed by its flat data.
//
// It returns an error for I/O errors.
// It panics for finalized arrays.
func (a *Array[T]) GobSerialize(encoder *gob.Encoder) (err error) {
	a.assertValid()
	err = a.shape.GobSerialize(encoder)
	if err != nil {
		return
	}
	err = encoder.Encode(a.FlatData())
	if err != nil {
		err = errors.Wrapf(err, "failed to write array data")
	}
	return
}

// GobDeserialize an array of type T from the decoder.
// A dtype different from T's is returned as an error.
func GobDeserialize[T Supported](decoder *gob.Decoder) (a *Array[T], err error) {
	shape, err := shapes.GobDeserialize(decoder)
	if err != nil {
		err = errors.WithMessagef(err, "failed to deserialize array shape")
		return
	}
	if shape.DType != DTypeOf[T]() {
		err = errors.Errorf("serialized array has dtype %s, but %s was requested", shape.DType, DTypeOf[T]())
		return
	}
	var flat []T
	err = decoder.Decode(&flat)
	if err != nil {
		err = errors.Wrapf(err, "failed to deserialize array data")
		return
	}
	if len(flat) != shape.Size() {
		err = errors.Errorf("serialized array of shape %s has %d elements", shape, len(flat))
		return
	}
	// Use the decoded slice as storage, avoiding a copy.
	a = newArray(&buffer[T]{flat: flat, refs: 1}, shape.Dimensions)
	return
}

// Save the array to the given file path.
//
// It returns an error for I/O errors.
// It panics if the array is finalized.
func (a *Array[T]) Save(filePath string) (err error) {
	a.assertValid()
	var f *os.File
	f, err = os.Create(filePath)
	if err != nil {
		err = errors.Wrapf(err, "creating %q to save array", filePath)
		return
	}
	enc := gob.NewEncoder(f)
	err = a.GobSerialize(enc)
	if err != nil {
		_ = f.Close()
		err = errors.WithMessagef(err, "saving array to %q", filePath)
		return
	}
	err = f.Close()
	if err != nil {
		err = errors.Wrapf(err, "close file %q, where array was saved", filePath)
	}
	return
}

// Load an array of type T from the file path given.
func Load[T Supported](filePath string) (a *Array[T], err error) {
	f, err := os.Open(filePath)
	if err != nil {
		err = errors.Wrapf(err, "opening %q to load array", filePath)
		return
	}
	defer func() { _ = f.Close() }()
	dec := gob.NewDecoder(f)
	a, err = GobDeserialize[T](dec)
	if err != nil {
		err = errors.WithMessagef(err, "loading array from %q", filePath)
	}
	return
}
