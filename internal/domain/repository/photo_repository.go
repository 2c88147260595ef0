// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"ridelink/internal/domain/entity"
	"ridelink/internal/errors"

	"github.com/google/uuid"
)

// ErrPhotoNotFound is returned when a photo record is not found.
var ErrPhotoNotFound = errors.New("photo not found")

// PhotoRepository defines the interface for profile-photo metadata persistence.
// The image bytes live in blob storage; only the record is kept here.
type PhotoRepository interface {
	// CreatePhoto persists a new photo record.
	CreatePhoto(ctx context.Context, photo *entity.ProfilePhoto) error

	// FindPhotoByID retrieves a photo record by its unique ID.
	FindPhotoByID(ctx context.Context, id uuid.UUID) (*entity.ProfilePhoto, error)

	// DeletePhoto removes a photo record by its ID.
	DeletePhoto(ctx context.Context, id uuid.UUID) error
}
