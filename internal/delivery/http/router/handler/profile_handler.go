package handler

import (
	"log/slog"
	"net/http"

	"ridelink/internal/delivery/http/response"
	"ridelink/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ProfileHandler holds dependencies for profile-related handlers.
type ProfileHandler struct {
	uc      usecase.ProfileUsecase
	photoUC usecase.PhotoUsecase
	logger  *slog.Logger
}

// NewProfileHandler is the constructor for ProfileHandler, injected by Fx.
func NewProfileHandler(uc usecase.ProfileUsecase, photoUC usecase.PhotoUsecase, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		uc:      uc,
		photoUC: photoUC,
		logger:  logger,
	}
}

// GetProfile returns the authenticated user's profile.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	user, err := h.uc.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newUserView(user), "Profile retrieved successfully")
}

// UpdateProfile applies partial updates to the authenticated user's profile.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	var input usecase.UpdateProfileInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}

	user, err := h.uc.UpdateProfile(c.Request().Context(), userID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newUserView(user), "Profile updated successfully")
}

// changePasswordRequest is the wire shape of a password change.
type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

// ChangePassword replaces the authenticated user's password and ends all sessions.
func (h *ProfileHandler) ChangePassword(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.uc.ChangePassword(c.Request().Context(), userID, &usecase.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Password changed, all sessions revoked")
}

// ActivateDriver adds a driver profile to the authenticated account.
func (h *ProfileHandler) ActivateDriver(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	var input usecase.ActivateDriverInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid driver input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	user, err := h.uc.ActivateDriver(c.Request().Context(), userID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newUserView(user), "Driver profile activated")
}

// UploadPhoto stores a new profile photo for the authenticated user.
func (h *ProfileHandler) UploadPhoto(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "A 'photo' file field is required")
	}

	src, err := file.Open()
	if err != nil {
		return errors.Wrap(err, "failed to open uploaded file")
	}
	defer src.Close()

	photo, err := h.photoUC.UploadPhoto(c.Request().Context(), userID, &usecase.UploadPhotoInput{
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
		Body:        src,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newPhotoView(photo), "Photo uploaded successfully")
}

// GetPhoto streams the authenticated user's profile photo.
func (h *ProfileHandler) GetPhoto(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	photo, reader, err := h.photoUC.GetPhoto(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}
	defer reader.Close()

	return c.Stream(http.StatusOK, photo.ContentType, reader)
}

// DeletePhoto removes the authenticated user's profile photo.
func (h *ProfileHandler) DeletePhoto(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	if err := h.photoUC.DeletePhoto(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Photo deleted successfully")
}
