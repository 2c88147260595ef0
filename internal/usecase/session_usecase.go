// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"ridelink/internal/domain/entity"

	"github.com/google/uuid"
)

// SessionUsecase defines the interface for session management operations.
// A session corresponds to one stored refresh token.
type SessionUsecase interface {
	GetActiveSessions(ctx context.Context, userID uuid.UUID) ([]*entity.SessionInfo, error)
	RevokeSession(ctx context.Context, userID, sessionID uuid.UUID) error
	RevokeAllSessions(ctx context.Context, userID uuid.UUID) error
	RevokeAllOtherSessions(ctx context.Context, userID, currentSessionID uuid.UUID) error
	CleanupExpiredSessions(ctx context.Context) (int64, error)
}
