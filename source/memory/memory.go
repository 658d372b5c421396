// Package memory reads sources from in-memory byte buffers.
package memory

import (
	"bytes"
)

type Buffer struct {
	ID string

	reader *bytes.Reader
	size   int64
}

// NewReader creates a reader over the provided buffer. The buffer is not
// copied; the caller must not mutate it while the reader is in use.
func NewReader(id string, data []byte) *Buffer {
	return &Buffer{
		ID:     id,
		reader: bytes.NewReader(data),
		size:   int64(len(data)),
	}
}

func (b *Buffer) ReadAt(p []byte, off int64) (int, error) {
	return b.reader.ReadAt(p, off)
}

func (b *Buffer) Size() int64 {
	return b.size
}

func (b *Buffer) Name() string {
	return b.ID
}

func (b *Buffer) Close() error {
	return nil
}
