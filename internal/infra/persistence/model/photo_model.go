package model

import (
	"time"

	"github.com/google/uuid"
)

// ProfilePhotoModel mirrors the 'profile_photos' table. The blob body lives in
// object storage under StorageKey.
type ProfilePhotoModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	StorageKey  string    `gorm:"type:varchar(255);not null;unique"`
	ContentType string    `gorm:"type:varchar(100);not null"`
	SizeBytes   int64     `gorm:"not null"`
	Checksum    string    `gorm:"type:varchar(64);not null"`
	CreatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProfilePhotoModel) TableName() string {
	return "profile_photos"
}
