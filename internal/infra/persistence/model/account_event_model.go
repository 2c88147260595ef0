package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountEventModel mirrors the 'account_events' audit table. Roles are stored
// as a comma-joined string since the column exists only for display.
type AccountEventModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	EventType  string    `gorm:"type:varchar(100);not null"`
	Email      string    `gorm:"type:varchar(255)"`
	Roles      string    `gorm:"type:varchar(255)"`
	RequestID  string    `gorm:"type:varchar(100)"`
	OccurredAt time.Time `gorm:"not null"`
	ReceivedAt time.Time `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (AccountEventModel) TableName() string {
	return "account_events"
}
