// Package column holds the output side of the read pipeline: typed value
// buffers, per-nesting-level validity bitmaps and list offsets, owned by a
// single read call until they are handed to the resulting table.
package column

// Allocator provides the byte arenas of a read call: chunk staging buffers
// and the decoded-page arena. Callers with pooled or pinned memory supply
// their own; the pipeline never frees, buffers are dropped wholesale when
// the call ends.
type Allocator interface {
	AllocateBytes(n int64) ([]byte, error)
}

// HeapAllocator allocates from the Go heap.
type HeapAllocator struct{}

func (HeapAllocator) AllocateBytes(n int64) ([]byte, error) {
	return make([]byte, n), nil
}
