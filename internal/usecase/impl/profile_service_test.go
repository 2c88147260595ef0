package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"ridelink/internal/domain/entity"
	domainerrors "ridelink/internal/domain/errors"
	"ridelink/internal/domain/repository"
	mockRepo "ridelink/internal/mocks/repository"
	mockSvc "ridelink/internal/mocks/service"
	"ridelink/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type profileServiceFixtures struct {
	service     usecase.ProfileUsecase
	userRepo    *mockRepo.MockUserRepository
	authRepo    *mockRepo.MockAuthRepository
	refreshRepo *mockRepo.MockRefreshTokenRepository
	photoRepo   *mockRepo.MockPhotoRepository
	hasher      *mockSvc.MockPasswordHasher
	storage     *mockSvc.MockPhotoStorage
	publisher   *mockSvc.MockEventPublisher
}

func createTestProfileService(t *testing.T) profileServiceFixtures {
	t.Helper()

	userRepo := mockRepo.NewMockUserRepository(t)
	authRepo := mockRepo.NewMockAuthRepository(t)
	refreshRepo := mockRepo.NewMockRefreshTokenRepository(t)
	photoRepo := mockRepo.NewMockPhotoRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	storage := mockSvc.NewMockPhotoStorage(t)
	publisher := mockSvc.NewMockEventPublisher(t)

	factory := &mockRepo.MockRepositoryFactory{
		UserRepository:         userRepo,
		AuthRepository:         authRepo,
		RefreshTokenRepository: refreshRepo,
		PhotoRepository:        photoRepo,
	}

	service := NewProfileService(ProfileServiceParams{
		TxManager:      &mockRepo.MockTransactionManager{Factory: factory},
		UserRepo:       userRepo,
		PasswordHasher: hasher,
		PhotoStorage:   storage,
		EventPublisher: publisher,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return profileServiceFixtures{
		service:     service,
		userRepo:    userRepo,
		authRepo:    authRepo,
		refreshRepo: refreshRepo,
		photoRepo:   photoRepo,
		hasher:      hasher,
		storage:     storage,
		publisher:   publisher,
	}
}

func TestProfileService_GetProfile_Success(t *testing.T) {
	fixtures := createTestProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	user := &entity.User{
		ID:               userID,
		Email:            "ada@example.com",
		PassengerProfile: &entity.PassengerProfile{UserID: userID},
	}
	fixtures.userRepo.On("FindByID", ctx, userID).Return(user, nil)

	got, err := fixtures.service.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestProfileService_GetProfile_NotFound(t *testing.T) {
	fixtures := createTestProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	fixtures.userRepo.On("FindByID", ctx, userID).Return(nil, repository.ErrUserNotFound)

	got, err := fixtures.service.GetProfile(ctx, userID)
	require.ErrorIs(t, err, domainerrors.ErrUserNotFound)
	assert.Nil(t, got)
}

func TestProfileService_UpdateProfile_AppliesOnlyProvidedFields(t *testing.T) {
	fixtures := createTestProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	user := &entity.User{
		ID:        userID,
		FirstName: "Ada",
		LastName:  "Ng",
		Phone:     "+886912345678",
	}
	newPhone := "+886987654321"

	fixtures.userRepo.On("FindByID", ctx, userID).Return(user, nil)
	fixtures.userRepo.On("Update", ctx, user).Return(nil)

	updated, err := fixtures.service.UpdateProfile(ctx, userID, &usecase.UpdateProfileInput{
		Phone: &newPhone,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.FirstName)
	assert.Equal(t, "Ng", updated.LastName)
	assert.Equal(t, newPhone, updated.Phone)
}

func TestProfileService_ChangePassword_Success(t *testing.T) {
	fixtures := createTestProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	auth := &entity.Authentication{
		ID:           uuid.New(),
		UserID:       userID,
		Provider:     entity.ProviderTypeEmail,
		PasswordHash: "old-hash",
	}

	fixtures.hasher.On("ValidatePasswordStrength", "NewStrongC0de!88").Return(nil)
	fixtures.authRepo.On("FindAuthenticationByUserID", ctx, userID, entity.ProviderTypeEmail).
		Return(auth, nil)
	fixtures.hasher.On("Check", "OldStrongC0de!77", "old-hash").Return(true)
	fixtures.hasher.On("Hash", "NewStrongC0de!88").Return("new-hash", nil)
	fixtures.authRepo.On("UpdateAuthentication", ctx, mock.MatchedBy(func(a *entity.Authentication) bool {
		return a.PasswordHash == "new-hash"
	})).Return(nil)
	fixtures.refreshRepo.On("DeleteRefreshTokensByUserID", ctx, userID).Return(nil)

	err := fixtures.service.ChangePassword(ctx, userID, &usecase.ChangePasswordInput{
		CurrentPassword: "OldStrongC0de!77",
		NewPassword:     "NewStrongC0de!88",
	})
	require.NoError(t, err)
}

func TestProfileService_ChangePassword_WrongCurrentPassword(t *testing.T) {
	fixtures := createTestProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	auth := &entity.Authentication{
		UserID:       userID,
		Provider:     entity.ProviderTypeEmail,
		PasswordHash: "old-hash",
	}

	fixtures.hasher.On("ValidatePasswordStrength", "NewStrongC0de!88").Return(nil)
	fixtures.authRepo.On("FindAuthenticationByUserID", ctx, userID, entity.ProviderTypeEmail).
		Return(auth, nil)
	fixtures.hasher.On("Check", "guess", "old-hash").Return(false)

	err := fixtures.service.ChangePassword(ctx, userID, &usecase.ChangePasswordInput{
		CurrentPassword: "guess",
		NewPassword:     "NewStrongC0de!88",
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestProfileService_ActivateDriver_Success(t *testing.T) {
	fixtures := createTestProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	user := &entity.User{
		ID:               userID,
		Email:            "ada@example.com",
		PassengerProfile: &entity.PassengerProfile{UserID: userID},
	}

	fixtures.userRepo.On("FindByID", ctx, userID).Return(user, nil)
	fixtures.userRepo.On("Update", ctx, user).Return(nil)
	fixtures.publisher.On("PublishAccountEvent", ctx, mock.AnythingOfType("*service.AccountEvent")).
		Return(nil)

	updated, err := fixtures.service.ActivateDriver(ctx, userID, &usecase.ActivateDriverInput{
		LicenseNumber: "DL-9988",
		VehicleMake:   "Toyota",
		VehicleModel:  "Prius",
		VehicleYear:   2022,
		PlateNumber:   "ABC-1234",
	})
	require.NoError(t, err)
	require.NotNil(t, updated.DriverProfile)
	assert.Equal(t, "DL-9988", updated.DriverProfile.LicenseNumber)
	assert.True(t, updated.Roles().Contains(entity.RoleDriver))
}

func TestProfileService_ActivateDriver_AlreadyDriver(t *testing.T) {
	fixtures := createTestProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	user := &entity.User{
		ID:            userID,
		DriverProfile: &entity.DriverProfile{UserID: userID, LicenseNumber: "DL-9988"},
	}

	fixtures.userRepo.On("FindByID", ctx, userID).Return(user, nil)

	updated, err := fixtures.service.ActivateDriver(ctx, userID, &usecase.ActivateDriverInput{
		LicenseNumber: "DL-0000",
	})
	require.ErrorIs(t, err, domainerrors.ErrDriverAlreadyExists)
	assert.Nil(t, updated)
}

func TestProfileService_GetUserRoles(t *testing.T) {
	fixtures := createTestProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	user := &entity.User{
		ID:               userID,
		IsAdmin:          true,
		PassengerProfile: &entity.PassengerProfile{UserID: userID},
		DriverProfile:    &entity.DriverProfile{UserID: userID},
	}
	fixtures.userRepo.On("FindByID", ctx, userID).Return(user, nil)

	roles, err := fixtures.service.GetUserRoles(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"passenger", "driver", "admin"}, roles)
}

func TestProfileService_DeleteUser_RemovesSessionsAndPhoto(t *testing.T) {
	fixtures := createTestProfileService(t)
	ctx := context.Background()
	userID := uuid.New()
	photoID := uuid.New()

	user := &entity.User{
		ID:      userID,
		Email:   "ada@example.com",
		PhotoID: &photoID,
	}
	photo := &entity.ProfilePhoto{
		ID:         photoID,
		UserID:     userID,
		StorageKey: "photos/" + photoID.String(),
	}

	fixtures.userRepo.On("FindByID", ctx, userID).Return(user, nil)
	fixtures.photoRepo.On("FindPhotoByID", ctx, photoID).Return(photo, nil)
	fixtures.photoRepo.On("DeletePhoto", ctx, photoID).Return(nil)
	fixtures.storage.On("Delete", ctx, photo.StorageKey).Return(nil)
	fixtures.refreshRepo.On("DeleteRefreshTokensByUserID", ctx, userID).Return(nil)
	fixtures.userRepo.On("Delete", ctx, userID).Return(nil)
	fixtures.publisher.On("PublishAccountEvent", ctx, mock.AnythingOfType("*service.AccountEvent")).
		Return(nil)

	err := fixtures.service.DeleteUser(ctx, userID)
	require.NoError(t, err)
}

func TestProfileService_DeleteUser_NotFound(t *testing.T) {
	fixtures := createTestProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	fixtures.userRepo.On("FindByID", ctx, userID).Return(nil, repository.ErrUserNotFound)

	err := fixtures.service.DeleteUser(ctx, userID)
	require.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}
