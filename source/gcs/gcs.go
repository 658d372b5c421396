// Package gcs reads sources from Google Cloud Storage objects using range
// readers.
package gcs

import (
	"cloud.google.com/go/storage"
	"github.com/hexbee-net/errors"
)

const errInstantiate = errors.Error("failed to instantiate GCS client")

type object struct {
	BucketName string
	FilePath   string

	externalClient bool
	Client         *storage.Client
	Bucket         *storage.BucketHandle
	Object         *storage.ObjectHandle
}

func (o *object) Close() error {
	if o.Client != nil && !o.externalClient {
		err := o.Client.Close()
		o.Client = nil

		if err != nil {
			return errors.Wrap(err, "failed to close GCS client")
		}
	}

	return nil
}
