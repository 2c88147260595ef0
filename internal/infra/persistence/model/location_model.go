package model

import (
	"time"

	"github.com/google/uuid"
)

// SavedLocationModel mirrors the 'saved_locations' table.
// A partial unique index keeps at most one default location per user.
type SavedLocationModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Label       string    `gorm:"type:varchar(100);not null"`
	FullAddress string    `gorm:"type:text;not null"`
	Latitude    float64   `gorm:"not null"`
	Longitude   float64   `gorm:"not null"`
	IsDefault   bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (SavedLocationModel) TableName() string {
	return "saved_locations"
}
