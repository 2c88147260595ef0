// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"ridelink/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterPassengerInput defines the data required to register a new passenger.
type RegisterPassengerInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone,omitempty"`
	Password  string `json:"password" validate:"required"`
}

// RegisterDriverInput defines the data required to register a new driver.
type RegisterDriverInput struct {
	FirstName     string `json:"firstName" validate:"required"`
	LastName      string `json:"lastName" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone,omitempty"`
	Password      string `json:"password" validate:"required"`
	LicenseNumber string `json:"licenseNumber" validate:"required"`
	VehicleMake   string `json:"vehicleMake" validate:"required"`
	VehicleModel  string `json:"vehicleModel" validate:"required"`
	VehicleYear   int    `json:"vehicleYear" validate:"required"`
	VehicleColor  string `json:"vehicleColor,omitempty"`
	PlateNumber   string `json:"plateNumber" validate:"required"`
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenInput carries the refresh token presented by the client.
type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LogoutInput carries the refresh token of the session being closed.
type LogoutInput struct {
	RefreshToken string `json:"refreshToken"`
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user together with the first
// session's token pair, so a fresh account is signed in immediately.
type RegisterOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// RefreshTokenOutput returns the rotated token pair. The presented refresh
// token is revoked and replaced in the same operation.
type RefreshTokenOutput struct {
	AccessToken  string
	RefreshToken string
}

// UserUsecase defines the interface for account and credential operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	RegisterPassenger(ctx context.Context, input *RegisterPassengerInput) (*RegisterOutput, error)
	RegisterDriver(ctx context.Context, input *RegisterDriverInput) (*RegisterOutput, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	RefreshToken(ctx context.Context, input *RefreshTokenInput) (*RefreshTokenOutput, error)
	Logout(ctx context.Context, input *LogoutInput) error
}
