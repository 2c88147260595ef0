// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing a unique "person" or "account".
// It contains only the most fundamental identity information shared across all roles.
type User struct {
	ID               uuid.UUID         // The Global Unique Identifier (GUID) for the user.
	Email            string            // The user's primary contact email, used as the login identifier.
	FirstName        string            // The user's given name.
	LastName         string            // The user's family name.
	Phone            string            // Optional contact phone number.
	IsAdmin          bool              // Marks operator accounts; never settable through public registration.
	PhotoID          *uuid.UUID        // Optional reference to the user's profile photo record.
	PassengerProfile *PassengerProfile // Pointer to passenger-specific data. Nil if this person has no 'passenger' role.
	DriverProfile    *DriverProfile    // Pointer to driver-specific data. Nil if this person has no 'driver' role.
	CreatedAt        time.Time         // Timestamp of when this user account was created.
	UpdatedAt        time.Time         // Timestamp of the last modification to this user's data.
}

// Roles derives the closed role set from the profiles attached to the user.
func (u *User) Roles() Roles {
	var roles Roles
	if u.PassengerProfile != nil {
		roles = append(roles, RolePassenger)
	}
	if u.DriverProfile != nil {
		roles = append(roles, RoleDriver)
	}
	if u.IsAdmin {
		roles = append(roles, RoleAdmin)
	}

	return roles
}

// PassengerProfile holds data specific to the "passenger" role.
type PassengerProfile struct {
	UserID         uuid.UUID        // Foreign Key that links this profile to a core User entity.
	SavedLocations []*SavedLocation // The passenger's saved pickup/dropoff locations.
	PaymentMethods []*PaymentMethod // References to the passenger's stored payment methods.
	RideCount      int              // Number of completed rides, maintained by the trip subsystem.
	UpdatedAt      time.Time        // Timestamp of the last modification to this profile.
}

// DriverProfile holds data specific to the "driver" role.
type DriverProfile struct {
	UserID        uuid.UUID // Foreign Key that links this profile to a core User entity.
	LicenseNumber string    // The driver's official licence number.
	VehicleMake   string    // Vehicle manufacturer, e.g., "Toyota".
	VehicleModel  string    // Vehicle model, e.g., "Prius".
	VehicleYear   int       // Vehicle model year.
	VehicleColor  string    // Vehicle colour as shown to passengers.
	PlateNumber   string    // Licence plate shown to passengers for pickup verification.
	Rating        float64   // Rolling average rating, maintained by the trip subsystem.
	UpdatedAt     time.Time // Timestamp of the last modification to this profile.
}
