// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"ridelink/internal/domain/entity"
	domainerrors "ridelink/internal/domain/errors"
	"ridelink/internal/domain/repository"
	"ridelink/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// savedLocationRepository implements the domain.SavedLocationRepository interface using GORM.
type savedLocationRepository struct {
	db *gorm.DB
}

// NewSavedLocationRepository is the constructor for savedLocationRepository.
func NewSavedLocationRepository(db *gorm.DB) repository.SavedLocationRepository {
	return &savedLocationRepository{db: db}
}

// CreateLocation persists a new saved location for a passenger.
func (repo *savedLocationRepository) CreateLocation(ctx context.Context, location *entity.SavedLocation) error {
	locationM := fromSavedLocationDomain(location)

	if err := repo.db.WithContext(ctx).Create(locationM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			// The partial unique index on (user_id) WHERE is_default rejects a second default.
			return repository.ErrDefaultLocationConflict
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("invalid user reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create saved location")
	}

	location.ID = locationM.ID
	location.CreatedAt = locationM.CreatedAt
	location.UpdatedAt = locationM.UpdatedAt

	return nil
}

// FindLocationByID retrieves a saved location by its unique ID.
func (repo *savedLocationRepository) FindLocationByID(ctx context.Context, id uuid.UUID) (*entity.SavedLocation, error) {
	var locationM model.SavedLocationModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&locationM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrLocationNotFound
		}

		return nil, errors.Wrap(err, "failed to find saved location by id")
	}

	return toSavedLocationDomain(&locationM), nil
}

// FindLocationsByUserID retrieves all saved locations for a passenger.
func (repo *savedLocationRepository) FindLocationsByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.SavedLocation, error) {
	var locationModels []*model.SavedLocationModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&locationModels).Error

	if err != nil {
		return nil, errors.WithStack(err)
	}

	locations := make([]*entity.SavedLocation, 0, len(locationModels))
	for _, locationM := range locationModels {
		locations = append(locations, toSavedLocationDomain(locationM))
	}

	return locations, nil
}

// UpdateLocation updates an existing saved location record.
func (repo *savedLocationRepository) UpdateLocation(ctx context.Context, location *entity.SavedLocation) error {
	locationM := fromSavedLocationDomain(location)

	if err := repo.db.WithContext(ctx).Save(locationM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDefaultLocationConflict
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update saved location")
	}

	location.UpdatedAt = locationM.UpdatedAt

	return nil
}

// DeleteLocation removes a saved location by its ID.
func (repo *savedLocationRepository) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.SavedLocationModel{})

	if result.Error != nil {
		return errors.WithStack(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrLocationNotFound
	}

	return nil
}

// ClearDefaultLocation unsets the default flag on all of a user's locations.
func (repo *savedLocationRepository) ClearDefaultLocation(ctx context.Context, userID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Model(&model.SavedLocationModel{}).
		Where("user_id = ? AND is_default", userID).
		Update("is_default", false).Error; err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// --- Mapper Functions ---

// toSavedLocationDomain converts a GORM SavedLocationModel to a domain SavedLocation entity.
func toSavedLocationDomain(data *model.SavedLocationModel) *entity.SavedLocation {
	if data == nil {
		return nil
	}

	return &entity.SavedLocation{
		ID:          data.ID,
		UserID:      data.UserID,
		Label:       data.Label,
		FullAddress: data.FullAddress,
		Latitude:    data.Latitude,
		Longitude:   data.Longitude,
		IsDefault:   data.IsDefault,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

// fromSavedLocationDomain converts a domain SavedLocation entity to a GORM SavedLocationModel.
func fromSavedLocationDomain(data *entity.SavedLocation) *model.SavedLocationModel {
	if data == nil {
		return nil
	}

	return &model.SavedLocationModel{
		ID:          data.ID,
		UserID:      data.UserID,
		Label:       data.Label,
		FullAddress: data.FullAddress,
		Latitude:    data.Latitude,
		Longitude:   data.Longitude,
		IsDefault:   data.IsDefault,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
