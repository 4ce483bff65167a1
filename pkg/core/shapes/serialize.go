// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"encoding/gob"

	"github.com/pkg/errors"
)

// MaxRank is the largest rank accepted when deserializing a Shape.
const MaxRank = 64

// GobSerialize shape in binary format.
func (s Shape) GobSerialize(encoder *gob.Encoder) (err error) {
	enc := func(e any) {
		if err != nil {
			return
		}
		err = encoder.Encode(e)
		if err != nil {
			err = errors.Wrapf(err, "failed to serialize Shape %s", s)
		}
	}
	enc(s.DType)
	enc(len(s.Dimensions))
	for _, dim := range s.Dimensions {
		enc(dim)
	}
	return
}

// GobDeserialize a Shape. Returns new Shape or an error.
func GobDeserialize(decoder *gob.Decoder) (s Shape, err error) {
	dec := func(data any) {
		if err != nil {
			return
		}
		err = decoder.Decode(data)
		if err != nil {
			err = errors.Wrapf(err, "failed to deserialize Shape")
		}
	}
	dec(&s.DType)
	var rank int
	dec(&rank)
	if err != nil {
		return
	}
	if rank < 0 || rank > MaxRank {
		err = errors.Errorf("failed to deserialize Shape: invalid rank %d, it must be between 0 and %d", rank, MaxRank)
		return
	}
	s.Dimensions = make([]int, rank)
	for axis := range s.Dimensions {
		dec(&s.Dimensions[axis])
		if err == nil && s.Dimensions[axis] < 0 {
			err = errors.Errorf("failed to deserialize Shape: negative dimension %d", s.Dimensions[axis])
		}
	}
	return
}
