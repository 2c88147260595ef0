package handler

import (
	"log/slog"
	"net/http"
	"time"

	"ridelink/internal/delivery/http/response"
	"ridelink/internal/domain/repository"
	"ridelink/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Audit listings are capped; the trail is append-only and can grow without bound.
const maxAccountEventRows = 100

// AdminHandler holds dependencies for administrative handlers.
type AdminHandler struct {
	profileUC usecase.ProfileUsecase
	sessionUC usecase.SessionUsecase
	eventRepo repository.AccountEventRepository
	logger    *slog.Logger
}

// NewAdminHandler is the constructor for AdminHandler, injected by Fx.
func NewAdminHandler(
	profileUC usecase.ProfileUsecase,
	sessionUC usecase.SessionUsecase,
	eventRepo repository.AccountEventRepository,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		profileUC: profileUC,
		sessionUC: sessionUC,
		eventRepo: eventRepo,
		logger:    logger,
	}
}

// GetUser returns any user's profile by ID.
func (h *AdminHandler) GetUser(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid user ID")
	}

	user, err := h.profileUC.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newUserView(user), "User retrieved successfully")
}

// DeleteUser permanently removes a user account, its sessions, and its photo.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid user ID")
	}

	adminID, _ := currentUserID(c)
	h.logger.Info("admin account deletion",
		slog.String("adminID", adminID.String()),
		slog.String("targetUserID", userID.String()),
	)

	if err := h.profileUC.DeleteUser(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "User deleted successfully")
}

// RevokeUserSessions ends every active session of the given user.
func (h *AdminHandler) RevokeUserSessions(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid user ID")
	}

	if err := h.sessionUC.RevokeAllSessions(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "User sessions revoked")
}

// AccountEventView is the wire shape of one audit trail entry.
type AccountEventView struct {
	ID         uuid.UUID `json:"id"`
	EventType  string    `json:"eventType"`
	Email      string    `json:"email,omitempty"`
	Roles      []string  `json:"roles,omitempty"`
	RequestID  string    `json:"requestId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// ListUserEvents returns the audit trail of account lifecycle events for a user.
func (h *AdminHandler) ListUserEvents(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid user ID")
	}

	records, err := h.eventRepo.FindAccountEventsByUserID(c.Request().Context(), userID, maxAccountEventRows)
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]*AccountEventView, 0, len(records))
	for _, record := range records {
		views = append(views, &AccountEventView{
			ID:         record.ID,
			EventType:  record.EventType,
			Email:      record.Email,
			Roles:      record.Roles,
			RequestID:  record.RequestID,
			OccurredAt: record.OccurredAt,
		})
	}

	return response.Success(c, http.StatusOK, views, "Account events retrieved successfully")
}
