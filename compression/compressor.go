// Package compression implements the per-page block codecs. Decompression
// writes into a caller-provided slot of the decoded-page arena; the caller
// compares the returned size against the page header to detect corruption.
package compression

import (
	"io"

	"github.com/hexbee-net/errors"
)

const errOutputTooLarge = errors.Error("decompressed data exceeds expected size")

type BlockDecompressor interface {
	// DecompressBlock expands src into dst and returns the number of bytes
	// written. Writing more than len(dst) bytes is an error; writing fewer
	// is reported through the count and judged by the caller.
	DecompressBlock(src, dst []byte) (int, error)
}

// Uncompressed is the identity codec. The pipeline normally aliases
// uncompressed pages into the fetched buffers instead of calling it.
type Uncompressed struct{}

func (c Uncompressed) DecompressBlock(src, dst []byte) (int, error) {
	if len(src) > len(dst) {
		return 0, errors.WithStack(errOutputTooLarge)
	}

	return copy(dst, src), nil
}

// readFullBlock drains a decompressing reader into dst and fails if the
// stream holds more bytes than dst can take.
func readFullBlock(r io.Reader, dst []byte) (int, error) {
	n, err := io.ReadFull(r, dst)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return n, nil
	}

	if err != nil {
		return n, err
	}

	var extra [1]byte
	if m, _ := r.Read(extra[:]); m > 0 {
		return n, errors.WithStack(errOutputTooLarge)
	}

	return n, nil
}
