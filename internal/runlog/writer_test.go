package runlog

import (
	"bufio"
	"encoding/json"
	"os"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frame struct {
	Tick   uint64 `json:"tick"`
	Active int    `json:"active"`
}

func TestWriteAndReadBack(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWriter(dir, "run-abc")
	require.NoError(t, err)
	assert.Contains(t, w.Path(), "run-abc.jsonl.zst")

	for i := 0; i < 5; i++ {
		require.NoError(t, w.Write(frame{Tick: uint64(i), Active: 10 - i}))
	}
	require.NoError(t, w.Close())

	f, err := os.Open(w.Path())
	require.NoError(t, err)
	defer f.Close()

	dec, err := zstd.NewReader(f)
	require.NoError(t, err)
	defer dec.Close()

	var got []frame
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var fr frame
		require.NoError(t, json.Unmarshal(sc.Bytes(), &fr))
		got = append(got, fr)
	}
	require.NoError(t, sc.Err())

	require.Len(t, got, 5)
	assert.Equal(t, frame{Tick: 0, Active: 10}, got[0])
	assert.Equal(t, frame{Tick: 4, Active: 6}, got[4])
}

func TestNewWriterCreatesDir(t *testing.T) {
	dir := t.TempDir() + "/nested/logs"

	w, err := NewWriter(dir, "r1")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = os.Stat(w.Path())
	assert.NoError(t, err)
}
