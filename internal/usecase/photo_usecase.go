// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"
	"io"

	"ridelink/internal/domain/entity"

	"github.com/google/uuid"
)

// PhotoUsecase defines the interface for profile-photo operations.
type PhotoUsecase interface {
	// UploadPhoto stores the image bytes and records the photo against the user,
	// replacing any previous photo.
	UploadPhoto(ctx context.Context, userID uuid.UUID, input *UploadPhotoInput) (*entity.ProfilePhoto, error)

	// GetPhoto returns the photo record and a reader over the image bytes.
	// The caller owns closing the reader.
	GetPhoto(ctx context.Context, userID uuid.UUID) (*entity.ProfilePhoto, io.ReadCloser, error)

	// DeletePhoto removes the user's photo record and its stored bytes.
	DeletePhoto(ctx context.Context, userID uuid.UUID) error
}

// UploadPhotoInput carries the upload stream and its declared metadata.
type UploadPhotoInput struct {
	ContentType string
	Size        int64
	Body        io.Reader
}
