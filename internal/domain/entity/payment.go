// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod is an opaque reference to a card stored with an external
// payment processor. The system keeps only the token and display details;
// the full card number never enters this service.
type PaymentMethod struct {
	ID             uuid.UUID // The Global Unique Identifier (GUID) for the payment method.
	UserID         uuid.UUID // The passenger this payment method belongs to.
	ProcessorToken string    // Opaque token issued by the payment processor.
	Brand          string    // Card brand for display, e.g., "visa".
	Last4          string    // Last four digits for display.
	ExpiryMonth    int       // Card expiry month (1-12).
	ExpiryYear     int       // Card expiry year (four digits).
	IsDefault      bool      // Indicates the default payment method for new rides.
	CreatedAt      time.Time // Timestamp of when this payment method was stored.
	UpdatedAt      time.Time // Timestamp of the last modification.
}
