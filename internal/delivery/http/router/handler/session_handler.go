package handler

import (
	"log/slog"
	"net/http"

	"ridelink/internal/delivery/http/middleware"
	"ridelink/internal/delivery/http/response"
	"ridelink/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SessionHandler holds dependencies for session management handlers.
type SessionHandler struct {
	uc     usecase.SessionUsecase
	logger *slog.Logger
}

// NewSessionHandler is the constructor for SessionHandler, injected by Fx.
func NewSessionHandler(uc usecase.SessionUsecase, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		uc:     uc,
		logger: logger,
	}
}

// ListSessions returns the caller's active sessions, flagging the one that
// issued the presented access token.
func (h *SessionHandler) ListSessions(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	sessions, err := h.uc.GetActiveSessions(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	currentID, _ := currentSessionID(c)
	views := make([]*SessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, &SessionView{
			ID:        s.ID,
			CreatedAt: s.CreatedAt,
			ExpiresAt: s.ExpiresAt,
			IsActive:  s.IsActive,
			Current:   s.ID == currentID,
		})
	}

	return response.Success(c, http.StatusOK, views, "Sessions retrieved successfully")
}

// RevokeSession ends one of the caller's sessions by ID.
func (h *SessionHandler) RevokeSession(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid session ID")
	}

	if err := h.uc.RevokeSession(c.Request().Context(), userID, sessionID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Session revoked successfully")
}

// RevokeAllSessions ends every session of the caller, the current one included.
func (h *SessionHandler) RevokeAllSessions(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	if err := h.uc.RevokeAllSessions(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "All sessions revoked")
}

// RevokeOtherSessions ends every session of the caller except the one that
// issued the presented access token.
func (h *SessionHandler) RevokeOtherSessions(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	currentID, ok := currentSessionID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Token carries no session ID")
	}

	if err := h.uc.RevokeAllOtherSessions(c.Request().Context(), userID, currentID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Other sessions revoked")
}

// currentSessionID reads the session ID set by the auth middleware.
func currentSessionID(c echo.Context) (uuid.UUID, bool) {
	raw, ok := c.Get(middleware.ContextKeySessionID).(string)
	if !ok {
		return uuid.Nil, false
	}

	sessionID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}

	return sessionID, true
}
