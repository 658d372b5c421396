package compression //nolint:dupl // it's easier to duplicate the algorithm wrappers

import (
	"bytes"

	"github.com/andybalholm/brotli"
	"github.com/hexbee-net/errors"
)

type Brotli struct{}

func (c Brotli) DecompressBlock(src, dst []byte) (int, error) {
	r := brotli.NewReader(bytes.NewReader(src))

	n, err := readFullBlock(r, dst)
	if err != nil {
		return n, errors.Wrap(err, "failed to decompress Brotli data")
	}

	return n, nil
}
