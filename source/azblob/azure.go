// Package azblob reads sources from Azure Blob Storage using ranged
// downloads.
package azblob

import (
	"net/url"

	"github.com/Azure/azure-pipeline-go/pipeline"
	"github.com/Azure/azure-storage-blob-go/azblob"
	"github.com/hexbee-net/errors"
)

const errURLNotOpened = errors.Error("url not opened")

type blob struct {
	URL          *url.URL
	credential   azblob.Credential
	blockBlobURL *azblob.BlockBlobURL
}

// BlobOptions carries the transport options of the Azure pipeline.
type BlobOptions struct {
	// HTTPSender configures the sender of HTTP requests.
	HTTPSender pipeline.Factory
	// Retry configures the built-in retry policy behavior.
	RetryOptions azblob.RetryOptions
	// Log configures the pipeline's logging infrastructure indicating what information is logged and where.
	Log pipeline.LogOptions
}

func (b *blob) open(rawURL string, sender pipeline.Factory, retryOptions azblob.RetryOptions, logOptions pipeline.LogOptions) (err error) {
	if b.URL, err = url.Parse(rawURL); err != nil {
		return errors.Wrap(err, "failed to parse URL")
	}

	blobURL := azblob.NewBlockBlobURL(*b.URL, azblob.NewPipeline(b.credential, azblob.PipelineOptions{
		HTTPSender: sender,
		Retry:      retryOptions,
		Log:        logOptions,
	}))
	b.blockBlobURL = &blobURL

	return nil
}
