package compression

import (
	"bytes"
	"compress/gzip"

	"github.com/hexbee-net/errors"
)

type GZip struct{}

func (c GZip) DecompressBlock(src, dst []byte) (int, error) {
	r, err := gzip.NewReader(bytes.NewReader(src))
	if err != nil {
		return 0, errors.Wrap(err, "failed to open GZIP block")
	}

	n, err := readFullBlock(r, dst)
	if err != nil {
		return n, errors.Wrap(err, "failed to decompress GZIP data")
	}

	return n, r.Close()
}
