// Package impl provides the concrete implementations of the use case interfaces.
package impl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"ridelink/config"
	deliverycontext "ridelink/internal/delivery/context"
	"ridelink/internal/domain/entity"
	domainerrors "ridelink/internal/domain/errors"
	"ridelink/internal/domain/repository"
	"ridelink/internal/domain/service"
	"ridelink/internal/errors"
	"ridelink/internal/usecase"
	"ridelink/internal/util"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// defaultMaxPhotoBytes caps uploads when no limit is configured.
const defaultMaxPhotoBytes = 5 * 1024 * 1024

// allowedPhotoTypes lists the accepted image content types.
var allowedPhotoTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

type photoService struct {
	txManager     repository.TransactionManager
	userRepo      repository.UserRepository
	photoRepo     repository.PhotoRepository
	photoStorage  service.PhotoStorage
	maxPhotoBytes int64
	logger        *slog.Logger
}

// PhotoServiceParams defines the dependencies for the photo service.
type PhotoServiceParams struct {
	fx.In

	Config       *config.Config
	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	PhotoRepo    repository.PhotoRepository
	PhotoStorage service.PhotoStorage
	Logger       *slog.Logger
}

// NewPhotoService creates a new instance of the profile-photo service.
func NewPhotoService(params PhotoServiceParams) usecase.PhotoUsecase {
	maxBytes := int64(defaultMaxPhotoBytes)
	if params.Config != nil && params.Config.Storage != nil && params.Config.Storage.MaxPhotoBytes > 0 {
		maxBytes = params.Config.Storage.MaxPhotoBytes
	}

	return &photoService{
		txManager:     params.TxManager,
		userRepo:      params.UserRepo,
		photoRepo:     params.PhotoRepo,
		photoStorage:  params.PhotoStorage,
		maxPhotoBytes: maxBytes,
		logger:        params.Logger,
	}
}

func (s *photoService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

// UploadPhoto validates, stores and records a profile photo, replacing any
// previous one. The blob is written before the record so a crash leaves at
// worst an orphaned object, never a dangling record.
func (s *photoService) UploadPhoto(ctx context.Context, userID uuid.UUID, input *usecase.UploadPhotoInput) (*entity.ProfilePhoto, error) {
	if _, ok := allowedPhotoTypes[input.ContentType]; !ok {
		return nil, domainerrors.ErrUnsupportedPhotoType.WithDetails(input.ContentType)
	}
	if input.Size > s.maxPhotoBytes {
		return nil, domainerrors.ErrPhotoTooLarge.WithDetails(
			fmt.Sprintf("limit is %s", util.FormatBytes(s.maxPhotoBytes)),
		)
	}

	// The declared size is client input; read one byte past the limit to
	// catch bodies that lie about their length.
	data, err := io.ReadAll(io.LimitReader(input.Body, s.maxPhotoBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read upload body")
	}
	if int64(len(data)) > s.maxPhotoBytes {
		return nil, domainerrors.ErrPhotoTooLarge.WithDetails(
			fmt.Sprintf("limit is %s", util.FormatBytes(s.maxPhotoBytes)),
		)
	}

	photo := &entity.ProfilePhoto{
		ID:          uuid.New(),
		UserID:      userID,
		ContentType: input.ContentType,
		SizeBytes:   int64(len(data)),
		Checksum:    util.ChecksumBytes(data),
	}
	photo.StorageKey = fmt.Sprintf("photos/%s", photo.ID)

	written, err := s.photoStorage.Put(ctx, photo.StorageKey, photo.ContentType, bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "failed to store photo bytes")
	}
	photo.SizeBytes = written

	err = s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		user, err := factory.UserRepo().FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		oldPhotoID := user.PhotoID

		if err := factory.PhotoRepo().CreatePhoto(ctx, photo); err != nil {
			return errors.Wrap(err, "failed to record photo")
		}

		user.PhotoID = &photo.ID
		if err := factory.UserRepo().Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to link photo to user")
		}

		if oldPhotoID != nil {
			s.removeOldPhoto(ctx, factory, *oldPhotoID)
		}

		return nil
	})
	if err != nil {
		// The record never landed; remove the orphaned blob.
		if delErr := s.photoStorage.Delete(ctx, photo.StorageKey); delErr != nil {
			s.log(ctx).Warn("failed to remove orphaned photo blob",
				slog.String("storageKey", photo.StorageKey),
				slog.Any("error", delErr),
			)
		}

		return nil, err
	}

	s.log(ctx).Info("profile photo uploaded",
		slog.String("userID", userID.String()),
		slog.String("photoID", photo.ID.String()),
		slog.Int64("sizeBytes", photo.SizeBytes),
	)

	return photo, nil
}

// GetPhoto returns the photo record and a reader over the image bytes.
func (s *photoService) GetPhoto(ctx context.Context, userID uuid.UUID) (*entity.ProfilePhoto, io.ReadCloser, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, domainerrors.ErrUserNotFound
		}

		return nil, nil, errors.Wrap(err, "failed to find user")
	}

	if user.PhotoID == nil {
		return nil, nil, domainerrors.ErrPhotoNotFound
	}

	photo, err := s.photoRepo.FindPhotoByID(ctx, *user.PhotoID)
	if err != nil {
		if errors.Is(err, repository.ErrPhotoNotFound) {
			return nil, nil, domainerrors.ErrPhotoNotFound
		}

		return nil, nil, errors.Wrap(err, "failed to load photo record")
	}

	reader, err := s.photoStorage.Get(ctx, photo.StorageKey)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open photo bytes")
	}

	return photo, reader, nil
}

// DeletePhoto removes the user's photo record and its stored bytes.
func (s *photoService) DeletePhoto(ctx context.Context, userID uuid.UUID) error {
	var storageKey string

	err := s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		user, err := factory.UserRepo().FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		if user.PhotoID == nil {
			return domainerrors.ErrPhotoNotFound
		}

		photo, err := factory.PhotoRepo().FindPhotoByID(ctx, *user.PhotoID)
		if err != nil {
			if errors.Is(err, repository.ErrPhotoNotFound) {
				return domainerrors.ErrPhotoNotFound
			}

			return errors.Wrap(err, "failed to load photo record")
		}
		storageKey = photo.StorageKey

		user.PhotoID = nil
		if err := factory.UserRepo().Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to unlink photo from user")
		}

		return factory.PhotoRepo().DeletePhoto(ctx, photo.ID)
	})
	if err != nil {
		return err
	}

	if err := s.photoStorage.Delete(ctx, storageKey); err != nil {
		s.log(ctx).Warn("failed to delete photo blob",
			slog.String("storageKey", storageKey),
			slog.Any("error", err),
		)
	}

	s.log(ctx).Info("profile photo deleted", slog.String("userID", userID.String()))

	return nil
}

// removeOldPhoto deletes a replaced photo record and best-effort deletes its blob.
func (s *photoService) removeOldPhoto(ctx context.Context, factory repository.RepositoryFactory, photoID uuid.UUID) {
	old, err := factory.PhotoRepo().FindPhotoByID(ctx, photoID)
	if err != nil {
		s.log(ctx).Warn("failed to load replaced photo record", slog.Any("error", err))

		return
	}

	if err := factory.PhotoRepo().DeletePhoto(ctx, photoID); err != nil {
		s.log(ctx).Warn("failed to delete replaced photo record", slog.Any("error", err))

		return
	}

	if err := s.photoStorage.Delete(ctx, old.StorageKey); err != nil {
		s.log(ctx).Warn("failed to delete replaced photo blob",
			slog.String("storageKey", old.StorageKey),
			slog.Any("error", err),
		)
	}
}
