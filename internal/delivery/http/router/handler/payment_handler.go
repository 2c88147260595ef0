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

// PaymentHandler holds dependencies for payment-method handlers.
type PaymentHandler struct {
	uc     usecase.PaymentMethodUsecase
	logger *slog.Logger
}

// NewPaymentHandler is the constructor for PaymentHandler, injected by Fx.
func NewPaymentHandler(uc usecase.PaymentMethodUsecase, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{
		uc:     uc,
		logger: logger,
	}
}

// PaymentMethodView is the wire shape of a stored payment method. The
// processor token never leaves the service.
type PaymentMethodView struct {
	ID          uuid.UUID `json:"id"`
	Brand       string    `json:"brand"`
	Last4       string    `json:"last4"`
	ExpiryMonth int       `json:"expiryMonth"`
	ExpiryYear  int       `json:"expiryYear"`
	IsDefault   bool      `json:"isDefault"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newPaymentMethodView(method *entity.PaymentMethod) *PaymentMethodView {
	if method == nil {
		return nil
	}

	return &PaymentMethodView{
		ID:          method.ID,
		Brand:       method.Brand,
		Last4:       method.Last4,
		ExpiryMonth: method.ExpiryMonth,
		ExpiryYear:  method.ExpiryYear,
		IsDefault:   method.IsDefault,
		CreatedAt:   method.CreatedAt,
	}
}

// AddPaymentMethod stores a tokenized payment method for the authenticated passenger.
func (h *PaymentHandler) AddPaymentMethod(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	var input usecase.AddPaymentMethodInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid payment method input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	method, err := h.uc.AddPaymentMethod(c.Request().Context(), userID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newPaymentMethodView(method), "Payment method added successfully")
}

// ListPaymentMethods returns the caller's stored payment methods.
func (h *PaymentHandler) ListPaymentMethods(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	methods, err := h.uc.ListPaymentMethods(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]*PaymentMethodView, 0, len(methods))
	for _, method := range methods {
		views = append(views, newPaymentMethodView(method))
	}

	return response.Success(c, http.StatusOK, views, "Payment methods retrieved successfully")
}

// SetDefaultPaymentMethod marks one of the caller's payment methods as default.
func (h *PaymentHandler) SetDefaultPaymentMethod(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	methodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid payment method ID")
	}

	if err := h.uc.SetDefaultPaymentMethod(c.Request().Context(), userID, methodID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Default payment method updated")
}

// RemovePaymentMethod deletes one of the caller's payment methods.
func (h *PaymentHandler) RemovePaymentMethod(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	methodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid payment method ID")
	}

	if err := h.uc.RemovePaymentMethod(c.Request().Context(), userID, methodID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Payment method removed successfully")
}
