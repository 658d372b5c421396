package compression

import "github.com/golang/snappy"

type Snappy struct{}

func (c Snappy) DecompressBlock(src, dst []byte) (int, error) {
	ret, err := snappy.Decode(dst, src)
	if err != nil {
		return 0, err
	}

	// Decode falls back to its own buffer when dst is too small.
	if len(ret) > 0 && len(dst) > 0 && &ret[0] != &dst[0] {
		copy(dst, ret)
	}

	return len(ret), nil
}
