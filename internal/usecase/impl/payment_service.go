// Package impl provides the concrete implementations of the use case interfaces.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "ridelink/internal/delivery/context"
	"ridelink/internal/domain/entity"
	domainerrors "ridelink/internal/domain/errors"
	"ridelink/internal/domain/repository"
	"ridelink/internal/errors"
	"ridelink/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type paymentService struct {
	txManager         repository.TransactionManager
	paymentMethodRepo repository.PaymentMethodRepository
	logger            *slog.Logger
}

// PaymentServiceParams defines the dependencies for the payment-method service.
type PaymentServiceParams struct {
	fx.In

	TxManager         repository.TransactionManager
	PaymentMethodRepo repository.PaymentMethodRepository
	Logger            *slog.Logger
}

// NewPaymentService creates a new instance of the payment-method service.
func NewPaymentService(params PaymentServiceParams) usecase.PaymentMethodUsecase {
	return &paymentService{
		txManager:         params.TxManager,
		paymentMethodRepo: params.PaymentMethodRepo,
		logger:            params.Logger,
	}
}

func (s *paymentService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

// AddPaymentMethod stores a processor token for a passenger. When the new
// method is marked default, any previous default loses the flag in the same
// transaction.
func (s *paymentService) AddPaymentMethod(ctx context.Context, userID uuid.UUID, input *usecase.AddPaymentMethodInput) (*entity.PaymentMethod, error) {
	method := &entity.PaymentMethod{
		UserID:         userID,
		ProcessorToken: input.ProcessorToken,
		Brand:          input.Brand,
		Last4:          input.Last4,
		ExpiryMonth:    input.ExpiryMonth,
		ExpiryYear:     input.ExpiryYear,
		IsDefault:      input.IsDefault,
	}

	err := s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		if err := s.requirePassengerAccount(ctx, factory, userID); err != nil {
			return err
		}

		if input.IsDefault {
			if err := factory.PaymentMethodRepo().ClearDefaultPaymentMethod(ctx, userID); err != nil {
				return errors.Wrap(err, "failed to clear previous default payment method")
			}
		}

		return factory.PaymentMethodRepo().CreatePaymentMethod(ctx, method)
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info("payment method added",
		slog.String("userID", userID.String()),
		slog.String("methodID", method.ID.String()),
		slog.String("brand", method.Brand),
	)

	return method, nil
}

// ListPaymentMethods returns all stored payment methods for a passenger.
func (s *paymentService) ListPaymentMethods(ctx context.Context, userID uuid.UUID) ([]*entity.PaymentMethod, error) {
	return s.paymentMethodRepo.FindPaymentMethodsByUserID(ctx, userID)
}

// SetDefaultPaymentMethod marks one stored method as the default for new
// rides. The method must belong to the calling user.
func (s *paymentService) SetDefaultPaymentMethod(ctx context.Context, userID, methodID uuid.UUID) error {
	return s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		method, err := s.loadOwnedPaymentMethod(ctx, factory, userID, methodID)
		if err != nil {
			return err
		}

		if method.IsDefault {
			return nil
		}

		if err := factory.PaymentMethodRepo().ClearDefaultPaymentMethod(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to clear previous default payment method")
		}
		method.IsDefault = true

		return factory.PaymentMethodRepo().UpdatePaymentMethod(ctx, method)
	})
}

// RemovePaymentMethod deletes a stored payment method. The method must belong
// to the calling user.
func (s *paymentService) RemovePaymentMethod(ctx context.Context, userID, methodID uuid.UUID) error {
	return s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		if _, err := s.loadOwnedPaymentMethod(ctx, factory, userID, methodID); err != nil {
			return err
		}

		return factory.PaymentMethodRepo().DeletePaymentMethod(ctx, methodID)
	})
}

// loadOwnedPaymentMethod fetches a payment method and verifies it belongs to userID.
func (s *paymentService) loadOwnedPaymentMethod(
	ctx context.Context,
	factory repository.RepositoryFactory,
	userID, methodID uuid.UUID,
) (*entity.PaymentMethod, error) {
	method, err := factory.PaymentMethodRepo().FindPaymentMethodByID(ctx, methodID)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentMethodNotFound) {
			return nil, domainerrors.ErrPaymentMethodNotFound
		}

		return nil, err
	}

	if method.UserID != userID {
		return nil, domainerrors.ErrPaymentMethodOwnershipViolation
	}

	return method, nil
}

// requirePassengerAccount verifies the user exists and carries a passenger profile.
func (s *paymentService) requirePassengerAccount(ctx context.Context, factory repository.RepositoryFactory, userID uuid.UUID) error {
	user, err := factory.UserRepo().FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to find user")
	}

	if user.PassengerProfile == nil {
		return domainerrors.ErrForbidden.WrapMessage("account has no passenger profile")
	}

	return nil
}
