package storage

import (
	"context"
	"io"
)

// BlobStore persists uploaded images. Detect keeps the original upload on a
// best-effort basis, so implementations must be safe to call and fail
// independently of the classification path.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
}
