// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"ridelink/internal/domain/entity"

	"github.com/google/uuid"
)

// ProfileUsecase defines the interface for profile-related business operations.
type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *UpdateProfileInput) (*entity.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, input *ChangePasswordInput) error
	ActivateDriver(ctx context.Context, userID uuid.UUID, input *ActivateDriverInput) (*entity.User, error)
	GetUserRoles(ctx context.Context, userID uuid.UUID) ([]string, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

// --- Input DTOs ---

// UpdateProfileInput defines the mutable profile fields. Nil fields are left unchanged.
type UpdateProfileInput struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// ChangePasswordInput defines the data required to change an account password.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// ActivateDriverInput defines the data required to add a driver profile to an
// existing account.
type ActivateDriverInput struct {
	LicenseNumber string `json:"licenseNumber" validate:"required"`
	VehicleMake   string `json:"vehicleMake" validate:"required"`
	VehicleModel  string `json:"vehicleModel" validate:"required"`
	VehicleYear   int    `json:"vehicleYear" validate:"min=1980"`
	VehicleColor  string `json:"vehicleColor,omitempty"`
	PlateNumber   string `json:"plateNumber" validate:"required"`
}
