package compression

import (
	"bytes"

	"github.com/hexbee-net/errors"
	"github.com/klauspost/compress/zstd"
)

type ZStd struct{}

func (c ZStd) DecompressBlock(src, dst []byte) (int, error) {
	r, err := zstd.NewReader(bytes.NewReader(src))
	if err != nil {
		return 0, err
	}

	defer r.Close()

	n, err := readFullBlock(r, dst)
	if err != nil {
		return n, errors.Wrap(err, "failed to decompress ZSTD data")
	}

	return n, nil
}
