// Package runlog writes per-run portrayal frames as zstd-compressed
// JSONL, one file per run, for offline replay and inspection.
package runlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Writer appends JSON lines to a compressed run log.
type Writer struct {
	mu   sync.Mutex
	path string
	f    *os.File
	enc  *zstd.Encoder
	w    *bufio.Writer
}

// NewWriter creates <dir>/<runID>.jsonl.zst, creating dir as needed.
func NewWriter(dir, runID string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("run log dir: %w", err)
	}
	path := filepath.Join(dir, runID+".jsonl.zst")
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("run log file: %w", err)
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Writer{
		path: path,
		f:    f,
		enc:  enc,
		w:    bufio.NewWriter(enc),
	}, nil
}

// Path returns the log file location.
func (w *Writer) Path() string {
	return w.path
}

// Write appends one value as a JSON line.
func (w *Writer) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Close flushes and closes the log.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.w.Flush(); err != nil {
		return err
	}
	if err := w.enc.Close(); err != nil {
		return err
	}
	return w.f.Close()
}
