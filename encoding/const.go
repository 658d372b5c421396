package encoding

import (
	"io"
)

// ConstDecoder is a Decoder that always yields the same value. It stands in
// for the level streams of columns whose max level is zero, which are not
// stored on the wire.
type ConstDecoder int32

func (d ConstDecoder) Init(_ io.Reader) error {
	return nil
}

func (d ConstDecoder) InitSize(_ io.Reader) error {
	return nil
}

func (d ConstDecoder) Next() (int32, error) {
	return int32(d), nil
}
