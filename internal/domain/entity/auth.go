// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProviderType identifies the kind of credential stored in an Authentication record.
type ProviderType string

const (
	// ProviderTypeEmail is the email/password credential provider.
	ProviderTypeEmail ProviderType = "email"
)

// Authentication represents a single method of logging in (a credential).
// Credentials live apart from the User so that the password hash never travels
// with profile reads.
type Authentication struct {
	ID             uuid.UUID    // The unique ID for this specific authentication record itself.
	UserID         uuid.UUID    // Links this authentication method to the User it belongs to.
	Provider       ProviderType // The authentication provider; only "email" is supported today.
	ProviderUserID string       // The provider-scoped identifier; for "email" this is the email address.
	PasswordHash   string       // Stores the bcrypt-hashed password. Never the plaintext, never returned to clients.
	CreatedAt      time.Time    // Timestamp of when this authentication method was linked to the user account.
}

// RefreshToken represents a long-lived, authorized user session.
// It is used to obtain a new access token after the old one expires, and its
// presence server-side is what makes logout-before-expiry possible.
type RefreshToken struct {
	ID        uuid.UUID // The unique ID for this specific refresh token record.
	UserID    uuid.UUID // Links this session to the User it belongs to.
	TokenHash string    // Stores a SHA-256 hash of the raw refresh token for secure comparison in the database.
	ExpiresAt time.Time // The exact time when this refresh token will expire and become invalid.
	CreatedAt time.Time // Timestamp of when this session was created (i.e., when the user logged in).
}
