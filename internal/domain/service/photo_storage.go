package service

import (
	"context"
	"io"
)

// PhotoStorage abstracts the blob store that holds profile photo bytes.
// The persistence layer only ever sees the storage key.
type PhotoStorage interface {
	// Put writes the object under the given key and returns the number of bytes written.
	Put(ctx context.Context, key string, contentType string, r io.Reader) (int64, error)

	// Get opens the object for reading. The caller must close the returned reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object under the given key.
	Delete(ctx context.Context, key string) error
}
