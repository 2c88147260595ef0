// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"ridelink/internal/domain/entity"

	"github.com/google/uuid"
)

// LocationUsecase defines the interface for saved-location operations.
type LocationUsecase interface {
	CreateLocation(ctx context.Context, userID uuid.UUID, input *CreateLocationInput) (*entity.SavedLocation, error)
	ListLocations(ctx context.Context, userID uuid.UUID) ([]*entity.SavedLocation, error)
	UpdateLocation(ctx context.Context, userID, locationID uuid.UUID, input *UpdateLocationInput) (*entity.SavedLocation, error)
	DeleteLocation(ctx context.Context, userID, locationID uuid.UUID) error
}

// --- Input DTOs ---

// CreateLocationInput defines the data required to save a location.
type CreateLocationInput struct {
	Label       string  `json:"label" validate:"required"`
	FullAddress string  `json:"fullAddress" validate:"required"`
	Latitude    float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude   float64 `json:"longitude" validate:"min=-180,max=180"`
	IsDefault   bool    `json:"isDefault"`
}

// UpdateLocationInput defines the mutable saved-location fields. Nil fields are left unchanged.
type UpdateLocationInput struct {
	Label       *string  `json:"label,omitempty"`
	FullAddress *string  `json:"fullAddress,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	IsDefault   *bool    `json:"isDefault,omitempty"`
}
