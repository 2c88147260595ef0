package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
// It is an exported type so it can be used by the GORM Gen tool from other packages.
type UserModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email     string     `gorm:"type:varchar(255);unique;not null"`
	FirstName string     `gorm:"type:varchar(100);not null"`
	LastName  string     `gorm:"type:varchar(100);not null"`
	Phone     string     `gorm:"type:varchar(30)"`
	IsAdmin   bool       `gorm:"not null;default:false"`
	PhotoID   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time `gorm:"index"`

	PassengerProfile *PassengerProfileModel `gorm:"foreignKey:UserID"`
	DriverProfile    *DriverProfileModel    `gorm:"foreignKey:UserID"`
	Authentications  []AuthenticationModel  `gorm:"foreignKey:UserID"`
	RefreshTokens    []RefreshTokenModel    `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// PassengerProfileModel mirrors the 'passenger_profiles' table. UserID references users.id (UUID).
type PassengerProfileModel struct {
	UserID         uuid.UUID             `gorm:"primaryKey"`
	SavedLocations []*SavedLocationModel `gorm:"foreignKey:UserID"`
	PaymentMethods []*PaymentMethodModel `gorm:"foreignKey:UserID"`
	RideCount      int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (PassengerProfileModel) TableName() string {
	return "passenger_profiles"
}

// DriverProfileModel mirrors the 'driver_profiles' table. UserID references users.id (UUID).
type DriverProfileModel struct {
	UserID        uuid.UUID `gorm:"primaryKey"`
	LicenseNumber string    `gorm:"type:varchar(100);not null;unique"`
	VehicleMake   string    `gorm:"type:varchar(100);not null"`
	VehicleModel  string    `gorm:"type:varchar(100);not null"`
	VehicleYear   int       `gorm:"not null"`
	VehicleColor  string    `gorm:"type:varchar(50)"`
	PlateNumber   string    `gorm:"type:varchar(30);not null;unique"`
	Rating        float64   `gorm:"not null;default:5"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (DriverProfileModel) TableName() string {
	return "driver_profiles"
}
