// Package encoding implements the level and value encodings used inside
// pages: the RLE/bit-packed hybrid, bit-packed arrays for levels, and the
// delta binary packed integer encoding.
package encoding

import (
	"io"

	"github.com/hexbee-net/errors"
)

const (
	errNilReader             = errors.Error("reader is nil")
	errInvalidBlockSize      = errors.Error("invalid block size")
	errInvalidMiniblockCount = errors.Error("invalid mini block count")
	errInvalidBitWidth       = errors.Error("invalid bit-width")
	errOutOfRange            = errors.Error("out of range")
)

// Decoder yields one small integer per call, used for definition levels,
// repetition levels and dictionary indices.
type Decoder interface {
	Init(io.Reader) error
	InitSize(io.Reader) error

	Next() (int32, error)
}
