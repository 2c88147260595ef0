// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// SavedLocation is a passenger's stored pickup or dropoff place.
type SavedLocation struct {
	ID          uuid.UUID // The Global Unique Identifier (GUID) for the location.
	UserID      uuid.UUID // The passenger this location belongs to.
	Label       string    // A user-defined label, e.g., "Home", "Work".
	FullAddress string    // The full, human-readable street address.
	Latitude    float64   // The geographic latitude.
	Longitude   float64   // The geographic longitude.
	IsDefault   bool      // Indicates the default pickup location for ride requests.
	CreatedAt   time.Time // Timestamp of when this location was created.
	UpdatedAt   time.Time // Timestamp of the last modification.
}
