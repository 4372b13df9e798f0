package port

import (
	"context"
	"io"
)

// BlobStore is the minimal contract for the attachment storage service: an
// opaque upload/delete facility that resolves bytes to URLs. The production
// backend is an external object store; this port keeps the chat core unaware
// of which one.
type BlobStore interface {
	// Upload stores content under a derived unique name and returns the
	// public URL clients use to fetch it.
	Upload(ctx context.Context, filename string, content io.Reader) (url string, err error)

	// Delete removes the blob behind a previously returned URL. Unknown URLs
	// are not an error; purge jobs may retry.
	Delete(ctx context.Context, url string) error
}
