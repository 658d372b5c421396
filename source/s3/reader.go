package s3

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/hexbee-net/errors"
)

const rangeHeader = "bytes=%d-%d"

type Reader struct {
	object

	fileSize int64
}

// NewReader creates an S3 reader.
func NewReader(ctx context.Context, bucket, key string, configProvider client.ConfigProvider, configs ...*aws.Config) (*Reader, error) {
	return NewReaderWithClient(ctx, s3.New(configProvider, configs...), bucket, key)
}

// NewReaderWithClient is the same as NewReader but allows passing your own S3 client.
func NewReaderWithClient(ctx context.Context, s3Client s3iface.S3API, bucket, key string) (*Reader, error) {
	reader := Reader{
		object: object{
			BucketName: bucket,
			Key:        key,
			ctx:        ctx,
			client:     s3Client,
		},
	}

	input := &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}

	headObject, err := reader.client.HeadObjectWithContext(ctx, input)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch object description")
	}

	if headObject.ContentLength != nil {
		reader.fileSize = *headObject.ContentLength
	}

	return &reader, nil
}

func (r *Reader) ReadAt(p []byte, off int64) (int, error) {
	if off >= r.fileSize {
		return 0, io.EOF
	}

	getObj := &s3.GetObjectInput{
		Bucket: aws.String(r.BucketName),
		Key:    aws.String(r.Key),
		Range:  aws.String(fmt.Sprintf(rangeHeader, off, off+int64(len(p))-1)),
	}

	resp, err := r.client.GetObjectWithContext(r.ctx, getObj)
	if err != nil {
		return 0, errors.Wrap(err, "failed to fetch object range")
	}

	defer func() { _ = resp.Body.Close() }()

	n, err := io.ReadFull(resp.Body, p)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}

	return n, err
}

func (r *Reader) Size() int64 {
	return r.fileSize
}

func (r *Reader) Name() string {
	return "s3://" + r.BucketName + "/" + r.Key
}

func (r *Reader) Close() error {
	return nil
}
