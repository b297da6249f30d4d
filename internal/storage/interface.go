// Package storage archives raw viewing-history exports in an S3-compatible
// object store. Uploads happen at the API edge; ingestion tasks pull the
// archived payload back by key, so large exports never travel through the
// job broker.
package storage

import (
	"context"
	"io"
)

// ObjectStorage is the contract for export archival.
type ObjectStorage interface {
	// EnsureBucket creates the configured bucket if it does not exist.
	EnsureBucket(ctx context.Context) error

	// Upload stores an object under key.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Download retrieves an object by key. The caller closes the reader.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists reports whether an object is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes an object.
	Delete(ctx context.Context, key string) error

	// GetURL returns the public URL for an object.
	GetURL(key string) string
}
