package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethodModel mirrors the 'payment_methods' table.
// Only the processor token and display metadata are stored, never card numbers.
type PaymentMethodModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index"`
	ProcessorToken string    `gorm:"type:varchar(255);not null;unique"`
	Brand          string    `gorm:"type:varchar(50);not null"`
	Last4          string    `gorm:"type:varchar(4);not null"`
	ExpiryMonth    int       `gorm:"not null"`
	ExpiryYear     int       `gorm:"not null"`
	IsDefault      bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (PaymentMethodModel) TableName() string {
	return "payment_methods"
}
