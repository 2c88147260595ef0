// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"ridelink/internal/domain/entity"
	"ridelink/internal/errors"

	"github.com/google/uuid"
)

// ErrPaymentMethodNotFound is returned when a payment method is not found.
var ErrPaymentMethodNotFound = errors.New("payment method not found")

// PaymentMethodRepository defines the interface for payment-method database operations.
// Records here are opaque processor references; no card numbers are stored.
type PaymentMethodRepository interface {
	// CreatePaymentMethod persists a new payment method reference for a passenger.
	CreatePaymentMethod(ctx context.Context, method *entity.PaymentMethod) error

	// FindPaymentMethodByID retrieves a payment method by its unique ID.
	FindPaymentMethodByID(ctx context.Context, id uuid.UUID) (*entity.PaymentMethod, error)

	// FindPaymentMethodsByUserID retrieves all payment methods for a passenger.
	FindPaymentMethodsByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.PaymentMethod, error)

	// UpdatePaymentMethod updates an existing payment method record.
	UpdatePaymentMethod(ctx context.Context, method *entity.PaymentMethod) error

	// DeletePaymentMethod removes a payment method by its ID.
	DeletePaymentMethod(ctx context.Context, id uuid.UUID) error

	// ClearDefaultPaymentMethod unsets the default flag on all of a user's payment methods.
	ClearDefaultPaymentMethod(ctx context.Context, userID uuid.UUID) error
}
