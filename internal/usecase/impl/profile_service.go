// Package impl provides the concrete implementations of the use case interfaces.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "ridelink/internal/delivery/context"
	"ridelink/internal/domain/entity"
	domainerrors "ridelink/internal/domain/errors"
	"ridelink/internal/domain/repository"
	"ridelink/internal/domain/service"
	"ridelink/internal/errors"
	"ridelink/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type profileService struct {
	txManager      repository.TransactionManager
	userRepo       repository.UserRepository
	passwordHasher service.PasswordHasher
	photoStorage   service.PhotoStorage
	eventPublisher service.EventPublisher
	logger         *slog.Logger
}

// ProfileServiceParams defines the dependencies for the profile service.
type ProfileServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	UserRepo       repository.UserRepository
	PasswordHasher service.PasswordHasher
	PhotoStorage   service.PhotoStorage
	EventPublisher service.EventPublisher
	Logger         *slog.Logger
}

// NewProfileService creates a new instance of the profile service.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		txManager:      params.TxManager,
		userRepo:       params.UserRepo,
		passwordHasher: params.PasswordHasher,
		photoStorage:   params.PhotoStorage,
		eventPublisher: params.EventPublisher,
		logger:         params.Logger,
	}
}

func (s *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

// GetProfile retrieves the complete user profile including role-specific data.
func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to load user profile")
	}

	return user, nil
}

// UpdateProfile applies the non-nil fields of the input to the user's core
// identity data and returns the updated user.
func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateProfileInput) (*entity.User, error) {
	var updated *entity.User

	err := s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		user, err := factory.UserRepo().FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		if input.FirstName != nil {
			user.FirstName = *input.FirstName
		}
		if input.LastName != nil {
			user.LastName = *input.LastName
		}
		if input.Phone != nil {
			user.Phone = *input.Phone
		}

		if err := factory.UserRepo().Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to update user profile")
		}
		updated = user

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info("profile updated", slog.String("userID", userID.String()))

	return updated, nil
}

// ChangePassword replaces the account password after verifying the current
// one. Every active session is revoked so stolen refresh tokens die with the
// old password.
func (s *profileService) ChangePassword(ctx context.Context, userID uuid.UUID, input *usecase.ChangePasswordInput) error {
	if err := s.passwordHasher.ValidatePasswordStrength(input.NewPassword); err != nil {
		return err
	}

	err := s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		auth, err := factory.AuthRepo().FindAuthenticationByUserID(ctx, userID, entity.ProviderTypeEmail)
		if err != nil {
			if errors.Is(err, repository.ErrAuthNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to load credentials")
		}

		if !s.passwordHasher.Check(input.CurrentPassword, auth.PasswordHash) {
			return domainerrors.ErrInvalidCredentials.WrapMessage("current password does not match")
		}

		newHash, err := s.passwordHasher.Hash(input.NewPassword)
		if err != nil {
			return err
		}
		auth.PasswordHash = newHash

		if err := factory.AuthRepo().UpdateAuthentication(ctx, auth); err != nil {
			return errors.Wrap(err, "failed to store new password")
		}

		return factory.RefreshTokenRepo().DeleteRefreshTokensByUserID(ctx, userID)
	})
	if err != nil {
		return err
	}

	s.log(ctx).Info("password changed, all sessions revoked", slog.String("userID", userID.String()))

	return nil
}

// ActivateDriver adds a driver profile to an existing account. The caller is
// already authenticated, so no password proof is required here.
func (s *profileService) ActivateDriver(ctx context.Context, userID uuid.UUID, input *usecase.ActivateDriverInput) (*entity.User, error) {
	var updated *entity.User

	err := s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		user, err := factory.UserRepo().FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		if user.DriverProfile != nil {
			return domainerrors.ErrDriverAlreadyExists
		}

		user.DriverProfile = &entity.DriverProfile{
			UserID:        user.ID,
			LicenseNumber: input.LicenseNumber,
			VehicleMake:   input.VehicleMake,
			VehicleModel:  input.VehicleModel,
			VehicleYear:   input.VehicleYear,
			VehicleColor:  input.VehicleColor,
			PlateNumber:   input.PlateNumber,
		}

		if err := factory.UserRepo().Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to attach driver profile")
		}
		updated = user

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info("driver profile activated", slog.String("userID", userID.String()))
	s.publishProfileEvent(ctx, service.AccountEventDriverActivated, updated)

	return updated, nil
}

// GetUserRoles returns the roles currently attached to a user.
func (s *profileService) GetUserRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to load user roles")
	}

	return user.Roles().ToStrings(), nil
}

// DeleteUser removes an account with its credentials, sessions, profiles and
// photo. Only the admin flow reaches this operation.
func (s *profileService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	var deleted *entity.User

	err := s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		user, err := factory.UserRepo().FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		if user.PhotoID != nil {
			if err := s.removePhoto(ctx, factory, *user.PhotoID); err != nil {
				return err
			}
		}

		if err := factory.RefreshTokenRepo().DeleteRefreshTokensByUserID(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to revoke sessions")
		}

		if err := factory.UserRepo().Delete(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to delete user")
		}
		deleted = user

		return nil
	})
	if err != nil {
		return err
	}

	s.log(ctx).Info("user deleted", slog.String("userID", userID.String()))
	s.publishProfileEvent(ctx, service.AccountEventDeleted, deleted)

	return nil
}

// removePhoto deletes the photo record and the underlying blob. A blob that is
// already gone is not an error; the record is the source of truth.
func (s *profileService) removePhoto(ctx context.Context, factory repository.RepositoryFactory, photoID uuid.UUID) error {
	photo, err := factory.PhotoRepo().FindPhotoByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, repository.ErrPhotoNotFound) {
			return nil
		}

		return errors.Wrap(err, "failed to load photo record")
	}

	if err := factory.PhotoRepo().DeletePhoto(ctx, photoID); err != nil {
		return errors.Wrap(err, "failed to delete photo record")
	}

	if err := s.photoStorage.Delete(ctx, photo.StorageKey); err != nil {
		s.log(ctx).Warn("failed to delete photo blob",
			slog.String("storageKey", photo.StorageKey),
			slog.Any("error", err),
		)
	}

	return nil
}

func (s *profileService) publishProfileEvent(ctx context.Context, eventType string, user *entity.User) {
	if s.eventPublisher == nil || user == nil {
		return
	}

	event := &service.AccountEvent{
		RequestID: deliverycontext.GetRequestIDFromContext(ctx),
		EventType: eventType,
		UserID:    user.ID.String(),
		Email:     user.Email,
		Roles:     user.Roles().ToStrings(),
	}

	if err := s.eventPublisher.PublishAccountEvent(ctx, event); err != nil {
		s.log(ctx).Warn("failed to publish account event",
			slog.String("eventType", eventType),
			slog.Any("error", err),
		)
	}
}
