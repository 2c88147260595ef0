// Package impl provides the concrete implementations of the use case interfaces.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "ridelink/internal/delivery/context"
	"ridelink/internal/domain/entity"
	domainerrors "ridelink/internal/domain/errors"
	"ridelink/internal/domain/repository"
	"ridelink/internal/errors"
	"ridelink/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type sessionService struct {
	txManager        repository.TransactionManager
	refreshTokenRepo repository.RefreshTokenRepository
	logger           *slog.Logger
}

// SessionServiceParams defines the dependencies for the session service.
type SessionServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	RefreshTokenRepo repository.RefreshTokenRepository
	Logger           *slog.Logger
}

// NewSessionService creates a new instance of the session service.
func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	return &sessionService{
		txManager:        params.TxManager,
		refreshTokenRepo: params.RefreshTokenRepo,
		logger:           params.Logger,
	}
}

func (s *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

// GetActiveSessions lists the user's active sessions, newest first.
func (s *sessionService) GetActiveSessions(ctx context.Context, userID uuid.UUID) ([]*entity.SessionInfo, error) {
	tokens, err := s.refreshTokenRepo.FindRefreshTokensByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sessions := make([]*entity.SessionInfo, 0, len(tokens))
	for _, token := range tokens {
		sessions = append(sessions, &entity.SessionInfo{
			ID:        token.ID,
			UserID:    token.UserID,
			CreatedAt: token.CreatedAt,
			ExpiresAt: token.ExpiresAt,
			IsActive:  token.ExpiresAt.After(now),
		})
	}

	return sessions, nil
}

// RevokeSession ends one session. The session must belong to the calling user.
func (s *sessionService) RevokeSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	err := s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		token, err := factory.RefreshTokenRepo().FindRefreshTokenByID(ctx, sessionID)
		if err != nil {
			if errors.Is(err, repository.ErrRefreshTokenNotFound) {
				return domainerrors.ErrNotFound.WrapMessage("session not found")
			}

			return err
		}

		if token.UserID != userID {
			return domainerrors.ErrForbidden.WrapMessage("session belongs to another user")
		}

		return factory.RefreshTokenRepo().DeleteRefreshToken(ctx, sessionID)
	})
	if err != nil {
		return err
	}

	s.log(ctx).Info("session revoked",
		slog.String("userID", userID.String()),
		slog.String("sessionID", sessionID.String()),
	)

	return nil
}

// RevokeAllSessions ends every session for the user, including the current one.
func (s *sessionService) RevokeAllSessions(ctx context.Context, userID uuid.UUID) error {
	if err := s.refreshTokenRepo.DeleteRefreshTokensByUserID(ctx, userID); err != nil {
		return err
	}

	s.log(ctx).Info("all sessions revoked", slog.String("userID", userID.String()))

	return nil
}

// RevokeAllOtherSessions ends every session for the user except the one identified
// by currentSessionID.
func (s *sessionService) RevokeAllOtherSessions(ctx context.Context, userID, currentSessionID uuid.UUID) error {
	revoked := 0

	err := s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		tokens, err := factory.RefreshTokenRepo().FindRefreshTokensByUserID(ctx, userID)
		if err != nil {
			return err
		}

		for _, token := range tokens {
			if token.ID == currentSessionID {
				continue
			}
			if err := factory.RefreshTokenRepo().DeleteRefreshToken(ctx, token.ID); err != nil {
				return err
			}
			revoked++
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.log(ctx).Info("other sessions revoked",
		slog.String("userID", userID.String()),
		slog.Int("count", revoked),
	)

	return nil
}

// CleanupExpiredSessions removes expired refresh tokens and reports how many
// were deleted. Intended to run on a schedule.
func (s *sessionService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	deleted, err := s.refreshTokenRepo.DeleteExpiredRefreshTokens(ctx)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		s.log(ctx).Info("expired sessions cleaned up", slog.Int64("deleted", deleted))
	}

	return deleted, nil
}
