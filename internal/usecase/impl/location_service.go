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

type locationService struct {
	txManager    repository.TransactionManager
	locationRepo repository.SavedLocationRepository
	logger       *slog.Logger
}

// LocationServiceParams defines the dependencies for the location service.
type LocationServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	LocationRepo repository.SavedLocationRepository
	Logger       *slog.Logger
}

// NewLocationService creates a new instance of the saved-location service.
func NewLocationService(params LocationServiceParams) usecase.LocationUsecase {
	return &locationService{
		txManager:    params.TxManager,
		locationRepo: params.LocationRepo,
		logger:       params.Logger,
	}
}

func (s *locationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

// CreateLocation saves a new location for a passenger. When the new location
// is marked default, any previous default loses the flag in the same transaction.
func (s *locationService) CreateLocation(ctx context.Context, userID uuid.UUID, input *usecase.CreateLocationInput) (*entity.SavedLocation, error) {
	location := &entity.SavedLocation{
		UserID:      userID,
		Label:       input.Label,
		FullAddress: input.FullAddress,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		IsDefault:   input.IsDefault,
	}

	err := s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		if err := s.requirePassenger(ctx, factory, userID); err != nil {
			return err
		}

		if input.IsDefault {
			if err := factory.LocationRepo().ClearDefaultLocation(ctx, userID); err != nil {
				return errors.Wrap(err, "failed to clear previous default location")
			}
		}

		return factory.LocationRepo().CreateLocation(ctx, location)
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info("saved location created",
		slog.String("userID", userID.String()),
		slog.String("locationID", location.ID.String()),
	)

	return location, nil
}

// ListLocations returns all saved locations for a passenger.
func (s *locationService) ListLocations(ctx context.Context, userID uuid.UUID) ([]*entity.SavedLocation, error) {
	return s.locationRepo.FindLocationsByUserID(ctx, userID)
}

// UpdateLocation applies the non-nil fields of the input to a saved location.
// The location must belong to the calling user.
func (s *locationService) UpdateLocation(ctx context.Context, userID, locationID uuid.UUID, input *usecase.UpdateLocationInput) (*entity.SavedLocation, error) {
	var updated *entity.SavedLocation

	err := s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		location, err := s.loadOwnedLocation(ctx, factory, userID, locationID)
		if err != nil {
			return err
		}

		if input.Label != nil {
			location.Label = *input.Label
		}
		if input.FullAddress != nil {
			location.FullAddress = *input.FullAddress
		}
		if input.Latitude != nil {
			location.Latitude = *input.Latitude
		}
		if input.Longitude != nil {
			location.Longitude = *input.Longitude
		}
		if input.IsDefault != nil {
			if *input.IsDefault && !location.IsDefault {
				if err := factory.LocationRepo().ClearDefaultLocation(ctx, userID); err != nil {
					return errors.Wrap(err, "failed to clear previous default location")
				}
			}
			location.IsDefault = *input.IsDefault
		}

		if err := factory.LocationRepo().UpdateLocation(ctx, location); err != nil {
			return err
		}
		updated = location

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteLocation removes a saved location. The location must belong to the
// calling user.
func (s *locationService) DeleteLocation(ctx context.Context, userID, locationID uuid.UUID) error {
	return s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		if _, err := s.loadOwnedLocation(ctx, factory, userID, locationID); err != nil {
			return err
		}

		return factory.LocationRepo().DeleteLocation(ctx, locationID)
	})
}

// loadOwnedLocation fetches a location and verifies it belongs to userID.
func (s *locationService) loadOwnedLocation(
	ctx context.Context,
	factory repository.RepositoryFactory,
	userID, locationID uuid.UUID,
) (*entity.SavedLocation, error) {
	location, err := factory.LocationRepo().FindLocationByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return nil, domainerrors.ErrLocationNotFound
		}

		return nil, err
	}

	if location.UserID != userID {
		return nil, domainerrors.ErrLocationOwnershipViolation
	}

	return location, nil
}

// requirePassenger verifies the user exists and carries a passenger profile.
func (s *locationService) requirePassenger(ctx context.Context, factory repository.RepositoryFactory, userID uuid.UUID) error {
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
