// Package http reads sources from uploaded multipart files.
package http

import (
	"mime/multipart"

	"github.com/hexbee-net/errors"
)

type Reader struct {
	fileHeader *multipart.FileHeader
	file       multipart.File
}

func NewReader(header *multipart.FileHeader, file multipart.File) (r *Reader, err error) {
	r = &Reader{
		fileHeader: header,
		file:       file,
	}

	r.file, err = r.fileHeader.Open()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open HTTP stream")
	}

	return r, nil
}

func (r *Reader) ReadAt(p []byte, off int64) (int, error) {
	return r.file.ReadAt(p, off)
}

func (r *Reader) Size() int64 {
	return r.fileHeader.Size
}

func (r *Reader) Name() string {
	return r.fileHeader.Filename
}

func (r *Reader) Close() error {
	return r.file.Close()
}
