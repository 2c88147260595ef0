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

// photoRepository implements the domain.PhotoRepository interface using GORM.
type photoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository is the constructor for photoRepository.
func NewPhotoRepository(db *gorm.DB) repository.PhotoRepository {
	return &photoRepository{db: db}
}

// CreatePhoto persists a new photo record.
func (repo *photoRepository) CreatePhoto(ctx context.Context, photo *entity.ProfilePhoto) error {
	photoM := fromPhotoDomain(photo)

	if err := repo.db.WithContext(ctx).Create(photoM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("invalid user reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create photo record")
	}

	photo.ID = photoM.ID
	photo.CreatedAt = photoM.CreatedAt

	return nil
}

// FindPhotoByID retrieves a photo record by its unique ID.
func (repo *photoRepository) FindPhotoByID(ctx context.Context, id uuid.UUID) (*entity.ProfilePhoto, error) {
	var photoM model.ProfilePhotoModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&photoM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPhotoNotFound
		}

		return nil, errors.Wrap(err, "failed to find photo by id")
	}

	return toPhotoDomain(&photoM), nil
}

// DeletePhoto removes a photo record by its ID.
func (repo *photoRepository) DeletePhoto(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ProfilePhotoModel{})

	if result.Error != nil {
		return errors.WithStack(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrPhotoNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toPhotoDomain converts a GORM ProfilePhotoModel to a domain ProfilePhoto entity.
func toPhotoDomain(data *model.ProfilePhotoModel) *entity.ProfilePhoto {
	if data == nil {
		return nil
	}

	return &entity.ProfilePhoto{
		ID:          data.ID,
		UserID:      data.UserID,
		StorageKey:  data.StorageKey,
		ContentType: data.ContentType,
		SizeBytes:   data.SizeBytes,
		Checksum:    data.Checksum,
		CreatedAt:   data.CreatedAt,
	}
}

// fromPhotoDomain converts a domain ProfilePhoto entity to a GORM ProfilePhotoModel.
func fromPhotoDomain(data *entity.ProfilePhoto) *model.ProfilePhotoModel {
	if data == nil {
		return nil
	}

	return &model.ProfilePhotoModel{
		ID:          data.ID,
		UserID:      data.UserID,
		StorageKey:  data.StorageKey,
		ContentType: data.ContentType,
		SizeBytes:   data.SizeBytes,
		Checksum:    data.Checksum,
		CreatedAt:   data.CreatedAt,
	}
}
