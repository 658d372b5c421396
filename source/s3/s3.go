// Package s3 reads sources from Amazon S3 objects using ranged GETs.
package s3

import (
	"context"

	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

type object struct {
	BucketName string
	Key        string

	ctx    context.Context
	client s3iface.S3API
}
