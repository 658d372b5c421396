package azblob

import (
	"context"
	"io"

	"github.com/Azure/azure-storage-blob-go/azblob"
	"github.com/hexbee-net/errors"
)

type Reader struct {
	blob

	ctx      context.Context
	fileSize int64
}

// NewReader creates an Azure Blob Storage reader.
func NewReader(ctx context.Context, blobURL string, credential azblob.Credential, options BlobOptions) (*Reader, error) {
	reader := &Reader{
		blob: blob{
			credential: credential,
		},
		ctx: ctx,
	}

	if err := reader.open(blobURL, options.HTTPSender, options.RetryOptions, options.Log); err != nil {
		return nil, err
	}

	props, err := reader.blockBlobURL.GetProperties(ctx, azblob.BlobAccessConditions{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch blob properties")
	}

	reader.fileSize = props.ContentLength()

	return reader, nil
}

func (r *Reader) ReadAt(p []byte, off int64) (int, error) {
	if r.blockBlobURL == nil {
		return 0, errors.WithStack(errURLNotOpened)
	}

	if off >= r.fileSize {
		return 0, io.EOF
	}

	resp, err := r.blockBlobURL.Download(r.ctx, off, int64(len(p)), azblob.BlobAccessConditions{}, false)
	if err != nil {
		return 0, errors.Wrap(err, "failed to download blob range")
	}

	body := resp.Body(azblob.RetryReaderOptions{})
	defer func() { _ = body.Close() }()

	n, err := io.ReadFull(body, p)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}

	return n, err
}

func (r *Reader) Size() int64 {
	return r.fileSize
}

func (r *Reader) Name() string {
	if r.URL == nil {
		return ""
	}

	return r.URL.String()
}

func (r *Reader) Close() error {
	return nil
}
