// Package local reads sources from the local file system.
package local

import (
	"os"

	"github.com/hexbee-net/errors"
)

type File struct {
	FilePath string

	file *os.File
	size int64
}

// NewReader creates a local file reader.
func NewReader(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open source file")
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "failed to stat source file")
	}

	return &File{
		FilePath: path,
		file:     f,
		size:     info.Size(),
	}, nil
}

func (f *File) ReadAt(p []byte, off int64) (int, error) {
	return f.file.ReadAt(p, off)
}

func (f *File) Size() int64 {
	return f.size
}

func (f *File) Name() string {
	return f.FilePath
}

func (f *File) Close() error {
	return f.file.Close()
}
