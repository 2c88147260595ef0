// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"ridelink/internal/domain/entity"

	"github.com/google/uuid"
)

// PaymentMethodUsecase defines the interface for payment-method operations.
// Methods hold opaque processor tokens only; the service never sees card numbers.
type PaymentMethodUsecase interface {
	AddPaymentMethod(ctx context.Context, userID uuid.UUID, input *AddPaymentMethodInput) (*entity.PaymentMethod, error)
	ListPaymentMethods(ctx context.Context, userID uuid.UUID) ([]*entity.PaymentMethod, error)
	SetDefaultPaymentMethod(ctx context.Context, userID, methodID uuid.UUID) error
	RemovePaymentMethod(ctx context.Context, userID, methodID uuid.UUID) error
}

// --- Input DTOs ---

// AddPaymentMethodInput defines the data required to register a payment method.
type AddPaymentMethodInput struct {
	ProcessorToken string `json:"processorToken" validate:"required"`
	Brand          string `json:"brand" validate:"required"`
	Last4          string `json:"last4" validate:"required,len=4,numeric"`
	ExpiryMonth    int    `json:"expiryMonth" validate:"min=1,max=12"`
	ExpiryYear     int    `json:"expiryYear" validate:"min=2000"`
	IsDefault      bool   `json:"isDefault"`
}
