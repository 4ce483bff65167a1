// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ndarray

import (
	"bytes"
	"encoding/gob"
	"os"
	"path/filepath"
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGobSerialize(t *testing.T) {
	a := FromFlat([]float32{1.5, -2, 3.25, 0, 7, 8}, 2, 3)
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	require.NoError(t, a.GobSerialize(enc))
	require.NoError(t, FromValue[bool](true).GobSerialize(enc))

	dec := gob.NewDecoder(&buf)
	b, err := GobDeserialize[float32](dec)
	require.NoError(t, err)
	assert.Equal(t, a.Dims(), b.Dims())
	assert.Equal(t, a.FlatData(), b.FlatData())
	assert.Equal(t, 1, b.lay.buf.refs)

	flags, err := GobDeserialize[bool](dec)
	require.NoError(t, err)
	assert.Equal(t, true, flags.Value())
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "array.bin")
	a := iotaArray(3, 4)
	require.NoError(t, a.Save(path))

	loaded, err := Load[int](path)
	require.NoError(t, err)
	assert.True(t, Equal[int](a, loaded))

	_, err = Load[float32](path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dtype")

	_, err = Load[int](filepath.Join(dir, "missing.bin"))
	require.Error(t, err)

	require.Error(t, a.Save(filepath.Join(dir, "no-such-dir", "array.bin")))

	// A corrupted header with a huge rank is reported as an error.
	corrupted := filepath.Join(dir, "corrupted.bin")
	f, err := os.Create(corrupted)
	require.NoError(t, err)
	enc := gob.NewEncoder(f)
	require.NoError(t, enc.Encode(dtypes.Int64))
	require.NoError(t, enc.Encode(1<<40))
	require.NoError(t, f.Close())
	_, err = Load[int64](corrupted)
	require.ErrorContains(t, err, "invalid rank")
}
