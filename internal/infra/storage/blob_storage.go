// Package storage implements the photo storage service on top of portable blob buckets.
package storage

import (
	"context"
	"io"
	"log/slog"

	"ridelink/config"
	"ridelink/internal/domain/lifecycle"
	"ridelink/internal/domain/service"
	"ridelink/internal/errors"

	"go.uber.org/fx"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	// Blob drivers registered for bucket URL schemes.
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
)

// blobPhotoStorage implements the PhotoStorage interface using a gocloud blob bucket.
// The bucket URL scheme selects the backend (file://, gs://, mem://).
type blobPhotoStorage struct {
	bucket *blob.Bucket
	logger *slog.Logger
}

// Params holds dependencies for the photo storage, injected by Fx
type Params struct {
	fx.In
	fx.Lifecycle

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// New opens the configured blob bucket and returns it as a service.PhotoStorage.
func New(params Params) (service.PhotoStorage, error) {
	if params.Config.Storage == nil || params.Config.Storage.BucketURL == "" {
		return nil, errors.New("storage bucket URL must be configured")
	}

	openCtx, cancel := context.WithTimeout(params.Ctx, lifecycle.DefaultTimeout)
	defer cancel()

	bucket, err := blob.OpenBucket(openCtx, params.Config.Storage.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", params.Config.Storage.BucketURL)
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bucket.Close()
		},
	})

	params.Logger.Info("Photo storage bucket opened",
		slog.String("bucket_url", params.Config.Storage.BucketURL),
	)

	return &blobPhotoStorage{bucket: bucket, logger: params.Logger}, nil
}

// NewWithBucket wraps an already opened bucket. Used by tests with mem:// buckets.
func NewWithBucket(bucket *blob.Bucket, logger *slog.Logger) service.PhotoStorage {
	return &blobPhotoStorage{bucket: bucket, logger: logger}
}

// Put streams the blob body under the given key and returns the number of bytes written.
func (s *blobPhotoStorage) Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	w, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{
		ContentType: contentType,
	})
	if err != nil {
		return 0, errors.Wrapf(err, "failed to open writer for %s", key)
	}

	written, err := io.Copy(w, r)
	if err != nil {
		// Abort the write so a partial object is not committed.
		_ = w.Close()

		return 0, errors.Wrapf(err, "failed to write blob %s", key)
	}

	if err := w.Close(); err != nil {
		return 0, errors.Wrapf(err, "failed to commit blob %s", key)
	}

	return written, nil
}

// Get opens a reader for the blob stored under the given key.
func (s *blobPhotoStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, errors.Wrapf(err, "blob %s not found", key)
		}

		return nil, errors.Wrapf(err, "failed to open reader for %s", key)
	}

	return r, nil
}

// Delete removes the blob stored under the given key. Missing blobs are not an error;
// the metadata row is the source of truth and may outlive a manually purged object.
func (s *blobPhotoStorage) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			s.logger.Warn("Blob already absent on delete", slog.String("key", key))

			return nil
		}

		return errors.Wrapf(err, "failed to delete blob %s", key)
	}

	return nil
}
