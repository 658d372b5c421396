// Package source defines the byte-range-readable objects the read pipeline
// consumes. The pipeline never streams a source sequentially: every stage
// addresses absolute byte ranges, so a Reader is an io.ReaderAt with a known
// size and an identity used in error reports.
package source

import "io"

type Reader interface {
	io.ReaderAt
	io.Closer

	// Size returns the total byte length of the source.
	Size() int64

	// Name identifies the source in error messages (path, URL, object key).
	Name() string
}
