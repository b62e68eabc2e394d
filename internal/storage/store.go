// Package storage abstracts durable byte storage for uploaded files,
// addressed by an opaque path. Metadata lives in the file repository, not
// here.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrBlobNotFound is returned when the referenced blob no longer exists.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore writes, reads and removes stored binaries.
type BlobStore interface {
	// Save streams r to durable storage and returns the opaque path and the
	// number of bytes written. On error no partial object remains.
	Save(ctx context.Context, r io.Reader, originalName string) (path string, size int64, err error)
	// Open returns a reader over the blob at path. Returns ErrBlobNotFound
	// if the blob is gone.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	// Remove deletes the blob at path. Returns ErrBlobNotFound if it was
	// already gone.
	Remove(ctx context.Context, path string) error
}
