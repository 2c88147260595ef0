package impl

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"ridelink/config"
	"ridelink/internal/domain/entity"
	domainerrors "ridelink/internal/domain/errors"
	mockRepo "ridelink/internal/mocks/repository"
	mockSvc "ridelink/internal/mocks/service"
	"ridelink/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type photoServiceFixtures struct {
	service   usecase.PhotoUsecase
	userRepo  *mockRepo.MockUserRepository
	photoRepo *mockRepo.MockPhotoRepository
	storage   *mockSvc.MockPhotoStorage
}

func createTestPhotoService(t *testing.T, maxBytes int64) photoServiceFixtures {
	t.Helper()

	userRepo := mockRepo.NewMockUserRepository(t)
	photoRepo := mockRepo.NewMockPhotoRepository(t)
	storage := mockSvc.NewMockPhotoStorage(t)

	factory := &mockRepo.MockRepositoryFactory{
		UserRepository:  userRepo,
		PhotoRepository: photoRepo,
	}

	service := NewPhotoService(PhotoServiceParams{
		Config: &config.Config{
			Storage: &config.StorageConfig{MaxPhotoBytes: maxBytes},
		},
		TxManager:    &mockRepo.MockTransactionManager{Factory: factory},
		UserRepo:     userRepo,
		PhotoRepo:    photoRepo,
		PhotoStorage: storage,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return photoServiceFixtures{
		service:   service,
		userRepo:  userRepo,
		photoRepo: photoRepo,
		storage:   storage,
	}
}

func TestPhotoService_UploadPhoto_Success(t *testing.T) {
	fixtures := createTestPhotoService(t, 1024)
	ctx := context.Background()
	userID := uuid.New()
	body := []byte("fake-jpeg-bytes")

	user := &entity.User{ID: userID}

	fixtures.storage.On("Put", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "photos/")
	}), "image/jpeg", mock.Anything).Return(int64(len(body)), nil)
	fixtures.userRepo.On("FindByID", ctx, userID).Return(user, nil)
	fixtures.photoRepo.On("CreatePhoto", ctx, mock.MatchedBy(func(p *entity.ProfilePhoto) bool {
		return p.UserID == userID && p.ContentType == "image/jpeg" && p.Checksum != ""
	})).Return(nil)
	fixtures.userRepo.On("Update", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.PhotoID != nil
	})).Return(nil)

	photo, err := fixtures.service.UploadPhoto(ctx, userID, &usecase.UploadPhotoInput{
		ContentType: "image/jpeg",
		Size:        int64(len(body)),
		Body:        bytes.NewReader(body),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(len(body)), photo.SizeBytes)
	assert.Len(t, photo.Checksum, 64)
}

func TestPhotoService_UploadPhoto_RejectsUnsupportedType(t *testing.T) {
	fixtures := createTestPhotoService(t, 1024)

	photo, err := fixtures.service.UploadPhoto(context.Background(), uuid.New(), &usecase.UploadPhotoInput{
		ContentType: "application/pdf",
		Size:        10,
		Body:        strings.NewReader("not an image"),
	})
	require.ErrorIs(t, err, domainerrors.ErrUnsupportedPhotoType)
	assert.Nil(t, photo)
}

func TestPhotoService_UploadPhoto_RejectsDeclaredOversize(t *testing.T) {
	fixtures := createTestPhotoService(t, 16)

	photo, err := fixtures.service.UploadPhoto(context.Background(), uuid.New(), &usecase.UploadPhotoInput{
		ContentType: "image/png",
		Size:        17,
		Body:        strings.NewReader("tiny"),
	})
	require.ErrorIs(t, err, domainerrors.ErrPhotoTooLarge)
	assert.Nil(t, photo)
}

func TestPhotoService_UploadPhoto_RejectsBodyLargerThanDeclared(t *testing.T) {
	fixtures := createTestPhotoService(t, 16)

	// Declared size fits, the actual body does not.
	photo, err := fixtures.service.UploadPhoto(context.Background(), uuid.New(), &usecase.UploadPhotoInput{
		ContentType: "image/png",
		Size:        8,
		Body:        strings.NewReader(strings.Repeat("x", 64)),
	})
	require.ErrorIs(t, err, domainerrors.ErrPhotoTooLarge)
	assert.Nil(t, photo)
}

func TestPhotoService_UploadPhoto_CleansUpBlobWhenRecordFails(t *testing.T) {
	fixtures := createTestPhotoService(t, 1024)
	ctx := context.Background()
	userID := uuid.New()
	body := []byte("fake-png-bytes")

	var storedKey string
	fixtures.storage.On("Put", ctx, mock.AnythingOfType("string"), "image/png", mock.Anything).
		Run(func(args mock.Arguments) { storedKey = args.String(1) }).
		Return(int64(len(body)), nil)
	fixtures.userRepo.On("FindByID", ctx, userID).Return(&entity.User{ID: userID}, nil)
	fixtures.photoRepo.On("CreatePhoto", ctx, mock.AnythingOfType("*entity.ProfilePhoto")).
		Return(domainerrors.ErrInternalError)
	fixtures.storage.On("Delete", ctx, mock.MatchedBy(func(key string) bool {
		return key == storedKey
	})).Return(nil)

	photo, err := fixtures.service.UploadPhoto(ctx, userID, &usecase.UploadPhotoInput{
		ContentType: "image/png",
		Size:        int64(len(body)),
		Body:        bytes.NewReader(body),
	})
	require.Error(t, err)
	assert.Nil(t, photo)
}

func TestPhotoService_GetPhoto_Success(t *testing.T) {
	fixtures := createTestPhotoService(t, 1024)
	ctx := context.Background()
	userID := uuid.New()
	photoID := uuid.New()

	user := &entity.User{ID: userID, PhotoID: &photoID}
	photo := &entity.ProfilePhoto{
		ID:          photoID,
		UserID:      userID,
		StorageKey:  "photos/" + photoID.String(),
		ContentType: "image/jpeg",
	}

	fixtures.userRepo.On("FindByID", ctx, userID).Return(user, nil)
	fixtures.photoRepo.On("FindPhotoByID", ctx, photoID).Return(photo, nil)
	fixtures.storage.On("Get", ctx, photo.StorageKey).
		Return(io.NopCloser(strings.NewReader("fake-jpeg-bytes")), nil)

	got, reader, err := fixtures.service.GetPhoto(ctx, userID)
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, photo, got)
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "fake-jpeg-bytes", string(data))
}

func TestPhotoService_GetPhoto_NoPhoto(t *testing.T) {
	fixtures := createTestPhotoService(t, 1024)
	ctx := context.Background()
	userID := uuid.New()

	fixtures.userRepo.On("FindByID", ctx, userID).Return(&entity.User{ID: userID}, nil)

	got, reader, err := fixtures.service.GetPhoto(ctx, userID)
	require.ErrorIs(t, err, domainerrors.ErrPhotoNotFound)
	assert.Nil(t, got)
	assert.Nil(t, reader)
}

func TestPhotoService_DeletePhoto_Success(t *testing.T) {
	fixtures := createTestPhotoService(t, 1024)
	ctx := context.Background()
	userID := uuid.New()
	photoID := uuid.New()

	user := &entity.User{ID: userID, PhotoID: &photoID}
	photo := &entity.ProfilePhoto{
		ID:         photoID,
		UserID:     userID,
		StorageKey: "photos/" + photoID.String(),
	}

	fixtures.userRepo.On("FindByID", ctx, userID).Return(user, nil)
	fixtures.photoRepo.On("FindPhotoByID", ctx, photoID).Return(photo, nil)
	fixtures.userRepo.On("Update", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.PhotoID == nil
	})).Return(nil)
	fixtures.photoRepo.On("DeletePhoto", ctx, photoID).Return(nil)
	fixtures.storage.On("Delete", ctx, photo.StorageKey).Return(nil)

	err := fixtures.service.DeletePhoto(ctx, userID)
	require.NoError(t, err)
}
