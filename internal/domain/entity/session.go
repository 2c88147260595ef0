// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// SessionInfo is a read model describing one active login session, derived
// from a stored refresh token.
type SessionInfo struct {
	ID        uuid.UUID // The refresh token record ID, used to revoke the session.
	UserID    uuid.UUID // The user this session belongs to.
	CreatedAt time.Time // When the session was established (login or refresh).
	ExpiresAt time.Time // When the session will expire on its own.
	IsActive  bool      // Whether the session is still usable.
}
