package handler

import (
	"log/slog"
	"net/http"
	"time"

	"ridelink/internal/delivery/http/response"
	"ridelink/internal/domain/entity"
	"ridelink/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// LocationHandler holds dependencies for saved-location handlers.
type LocationHandler struct {
	uc     usecase.LocationUsecase
	logger *slog.Logger
}

// NewLocationHandler is the constructor for LocationHandler, injected by Fx.
func NewLocationHandler(uc usecase.LocationUsecase, logger *slog.Logger) *LocationHandler {
	return &LocationHandler{
		uc:     uc,
		logger: logger,
	}
}

// LocationView is the wire shape of a saved location.
type LocationView struct {
	ID          uuid.UUID `json:"id"`
	Label       string    `json:"label"`
	FullAddress string    `json:"fullAddress"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	IsDefault   bool      `json:"isDefault"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newLocationView(loc *entity.SavedLocation) *LocationView {
	if loc == nil {
		return nil
	}

	return &LocationView{
		ID:          loc.ID,
		Label:       loc.Label,
		FullAddress: loc.FullAddress,
		Latitude:    loc.Latitude,
		Longitude:   loc.Longitude,
		IsDefault:   loc.IsDefault,
		CreatedAt:   loc.CreatedAt,
		UpdatedAt:   loc.UpdatedAt,
	}
}

// CreateLocation saves a new location for the authenticated passenger.
func (h *LocationHandler) CreateLocation(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	var input usecase.CreateLocationInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid location input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	loc, err := h.uc.CreateLocation(c.Request().Context(), userID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newLocationView(loc), "Location saved successfully")
}

// ListLocations returns the authenticated passenger's saved locations.
func (h *LocationHandler) ListLocations(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	locations, err := h.uc.ListLocations(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]*LocationView, 0, len(locations))
	for _, loc := range locations {
		views = append(views, newLocationView(loc))
	}

	return response.Success(c, http.StatusOK, views, "Locations retrieved successfully")
}

// UpdateLocation applies partial updates to one of the caller's saved locations.
func (h *LocationHandler) UpdateLocation(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid location ID")
	}

	var input usecase.UpdateLocationInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid location input")
	}

	loc, err := h.uc.UpdateLocation(c.Request().Context(), userID, locationID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newLocationView(loc), "Location updated successfully")
}

// DeleteLocation removes one of the caller's saved locations.
func (h *LocationHandler) DeleteLocation(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid location ID")
	}

	if err := h.uc.DeleteLocation(c.Request().Context(), userID, locationID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Location deleted successfully")
}
