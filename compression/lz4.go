package compression //nolint:dupl // it's easier to duplicate the algorithm wrappers

import (
	"bytes"

	"github.com/hexbee-net/errors"
	"github.com/pierrec/lz4"
)

type LZ4 struct{}

func (c LZ4) DecompressBlock(src, dst []byte) (int, error) {
	r := lz4.NewReader(bytes.NewReader(src))

	n, err := readFullBlock(r, dst)
	if err != nil {
		return n, errors.Wrap(err, "failed to decompress LZ4 data")
	}

	return n, nil
}
