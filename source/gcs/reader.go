package gcs

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	"github.com/hexbee-net/errors"
)

type Reader struct {
	object

	ctx      context.Context
	fileSize int64
}

// NewReader creates a GCS reader.
func NewReader(ctx context.Context, bucketName, name string) (*Reader, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, errors.WithStack(errInstantiate)
	}

	reader := &Reader{
		object: object{
			BucketName:     bucketName,
			FilePath:       name,
			externalClient: false,
			Client:         client,
		},
		ctx: ctx,
	}

	if err := reader.open(ctx); err != nil {
		return nil, err
	}

	return reader, nil
}

// NewReaderWithClient is the same as NewReader but allows passing your own GCS client.
func NewReaderWithClient(ctx context.Context, client *storage.Client, bucketName, name string) (*Reader, error) {
	reader := &Reader{
		object: object{
			BucketName:     bucketName,
			FilePath:       name,
			externalClient: true,
			Client:         client,
		},
		ctx: ctx,
	}

	if err := reader.open(ctx); err != nil {
		return nil, err
	}

	return reader, nil
}

func (r *Reader) ReadAt(p []byte, off int64) (cnt int, err error) {
	if off >= r.fileSize {
		return 0, io.EOF
	}

	reader, err := r.Object.NewRangeReader(r.ctx, off, int64(len(p)))
	if err != nil {
		return 0, errors.Wrap(err, "failed to open object range reader")
	}

	defer func() { _ = reader.Close() }()

	cnt, err = io.ReadFull(reader, p)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}

	return cnt, err
}

func (r *Reader) Size() int64 {
	return r.fileSize
}

func (r *Reader) Name() string {
	return "gs://" + r.BucketName + "/" + r.FilePath
}

func (r *Reader) open(ctx context.Context) error {
	r.Bucket = r.Client.Bucket(r.BucketName)
	r.Object = r.Bucket.Object(r.FilePath)

	objAttrs, err := r.Object.Attrs(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get object attributes")
	}

	r.fileSize = objAttrs.Size

	return nil
}
