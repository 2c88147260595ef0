// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"ridelink/internal/domain/entity"
	"ridelink/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for saved location persistence.
var (
	// ErrLocationNotFound is returned when a saved location is not found.
	ErrLocationNotFound = errors.New("saved location not found")
	// ErrDefaultLocationConflict is returned when trying to set a second default location for the same user.
	ErrDefaultLocationConflict = errors.New("user already has a default location")
)

// SavedLocationRepository defines the interface for saved-location database operations.
type SavedLocationRepository interface {
	// CreateLocation persists a new saved location for a passenger.
	CreateLocation(ctx context.Context, location *entity.SavedLocation) error

	// FindLocationByID retrieves a saved location by its unique ID.
	FindLocationByID(ctx context.Context, id uuid.UUID) (*entity.SavedLocation, error)

	// FindLocationsByUserID retrieves all saved locations for a passenger.
	FindLocationsByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.SavedLocation, error)

	// UpdateLocation updates an existing saved location record.
	UpdateLocation(ctx context.Context, location *entity.SavedLocation) error

	// DeleteLocation removes a saved location by its ID.
	DeleteLocation(ctx context.Context, id uuid.UUID) error

	// ClearDefaultLocation unsets the default flag on all of a user's locations.
	ClearDefaultLocation(ctx context.Context, userID uuid.UUID) error
}
