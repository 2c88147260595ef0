package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"ridelink/config"
	"ridelink/internal/domain/entity"
	domainerrors "ridelink/internal/domain/errors"
	"ridelink/internal/domain/repository"
	"ridelink/internal/domain/service"
	mockRepo "ridelink/internal/mocks/repository"
	mockSvc "ridelink/internal/mocks/service"
	"ridelink/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// userServiceFixtures holds all test dependencies for user service tests.
type userServiceFixtures struct {
	service     usecase.UserUsecase
	userRepo    *mockRepo.MockUserRepository
	authRepo    *mockRepo.MockAuthRepository
	refreshRepo *mockRepo.MockRefreshTokenRepository
	hasher      *mockSvc.MockPasswordHasher
	tokens      *mockSvc.MockTokenService
	publisher   *mockSvc.MockEventPublisher
}

func createTestUserService(t *testing.T, maxSessions int) userServiceFixtures {
	t.Helper()

	userRepo := mockRepo.NewMockUserRepository(t)
	authRepo := mockRepo.NewMockAuthRepository(t)
	refreshRepo := mockRepo.NewMockRefreshTokenRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokens := mockSvc.NewMockTokenService(t)
	publisher := mockSvc.NewMockEventPublisher(t)

	factory := &mockRepo.MockRepositoryFactory{
		UserRepository:         userRepo,
		AuthRepository:         authRepo,
		RefreshTokenRepository: refreshRepo,
	}

	service := NewUserService(UserServiceParams{
		Config: &config.Config{
			Auth: &config.AuthConfig{MaxActiveSessions: maxSessions},
		},
		TxManager:        &mockRepo.MockTransactionManager{Factory: factory},
		UserRepo:         userRepo,
		AuthRepo:         authRepo,
		RefreshTokenRepo: refreshRepo,
		PasswordHasher:   hasher,
		TokenService:     tokens,
		EventPublisher:   publisher,
		Logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return userServiceFixtures{
		service:     service,
		userRepo:    userRepo,
		authRepo:    authRepo,
		refreshRepo: refreshRepo,
		hasher:      hasher,
		tokens:      tokens,
		publisher:   publisher,
	}
}

func passengerInput() *usecase.RegisterPassengerInput {
	return &usecase.RegisterPassengerInput{
		FirstName: "Ada",
		LastName:  "Ng",
		Email:     "ada@example.com",
		Phone:     "+886912345678",
		Password:  "StrongC0de!77",
	}
}

func TestUserService_RegisterPassenger_NewAccount(t *testing.T) {
	fixtures := createTestUserService(t, 5)
	ctx := context.Background()
	input := passengerInput()

	fixtures.hasher.On("ValidatePasswordStrength", input.Password).Return(nil)
	fixtures.authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, input.Email).
		Return(nil, repository.ErrAuthNotFound)
	fixtures.hasher.On("Hash", input.Password).Return("hashed-password", nil)
	fixtures.userRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			user := args.Get(1).(*entity.User)
			user.ID = uuid.New()
		}).
		Return(nil)
	fixtures.authRepo.On("CreateAuthentication", ctx, mock.AnythingOfType("*entity.Authentication")).
		Return(nil)
	fixtures.tokens.On("GenerateTokens", mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("uuid.UUID"), []string{"passenger"}).
		Return("access-token", "refresh-token", nil)
	fixtures.userRepo.On("AcquireSessionMutex", ctx, mock.AnythingOfType("uuid.UUID")).Return(nil)
	fixtures.refreshRepo.On("FindRefreshTokensByUserID", ctx, mock.AnythingOfType("uuid.UUID")).
		Return([]*entity.RefreshToken{}, nil)
	fixtures.tokens.On("HashToken", "refresh-token").Return("refresh-token-hash")
	fixtures.tokens.On("GetRefreshTokenDuration").Return(7 * 24 * time.Hour)
	fixtures.refreshRepo.On("CreateRefreshToken", ctx, mock.MatchedBy(func(token *entity.RefreshToken) bool {
		return token.TokenHash == "refresh-token-hash"
	})).Return(nil)
	fixtures.publisher.On("PublishAccountEvent", ctx, mock.AnythingOfType("*service.AccountEvent")).
		Return(nil)

	output, err := fixtures.service.RegisterPassenger(ctx, input)
	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, input.Email, output.User.Email)
	assert.Equal(t, input.FirstName, output.User.FirstName)
	assert.NotNil(t, output.User.PassengerProfile)
	assert.Nil(t, output.User.DriverProfile)
	assert.True(t, output.User.Roles().Contains(entity.RolePassenger))
	// A fresh account is signed in: the output carries the first session's pair.
	assert.Equal(t, "access-token", output.AccessToken)
	assert.Equal(t, "refresh-token", output.RefreshToken)
}

func TestUserService_RegisterPassenger_WeakPassword(t *testing.T) {
	fixtures := createTestUserService(t, 5)
	input := passengerInput()
	input.Password = "short"

	fixtures.hasher.On("ValidatePasswordStrength", input.Password).
		Return(domainerrors.ErrPasswordStrength)

	output, err := fixtures.service.RegisterPassenger(context.Background(), input)
	require.Error(t, err)
	require.ErrorIs(t, err, domainerrors.ErrPasswordStrength)
	assert.Nil(t, output)
}

func TestUserService_RegisterPassenger_ExistingPassenger(t *testing.T) {
	fixtures := createTestUserService(t, 5)
	ctx := context.Background()
	input := passengerInput()
	userID := uuid.New()

	auth := &entity.Authentication{
		UserID:         userID,
		Provider:       entity.ProviderTypeEmail,
		ProviderUserID: input.Email,
		PasswordHash:   "hashed-password",
	}
	existing := &entity.User{
		ID:               userID,
		Email:            input.Email,
		PassengerProfile: &entity.PassengerProfile{UserID: userID},
	}

	fixtures.hasher.On("ValidatePasswordStrength", input.Password).Return(nil)
	fixtures.authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, input.Email).
		Return(auth, nil)
	fixtures.hasher.On("Check", input.Password, auth.PasswordHash).Return(true)
	fixtures.userRepo.On("FindByID", ctx, userID).Return(existing, nil)

	output, err := fixtures.service.RegisterPassenger(ctx, input)
	require.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
	assert.Nil(t, output)
}

func TestUserService_RegisterPassenger_ExistingAccountWrongPassword(t *testing.T) {
	fixtures := createTestUserService(t, 5)
	ctx := context.Background()
	input := passengerInput()

	auth := &entity.Authentication{
		UserID:         uuid.New(),
		Provider:       entity.ProviderTypeEmail,
		ProviderUserID: input.Email,
		PasswordHash:   "hashed-password",
	}

	fixtures.hasher.On("ValidatePasswordStrength", input.Password).Return(nil)
	fixtures.authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, input.Email).
		Return(auth, nil)
	fixtures.hasher.On("Check", input.Password, auth.PasswordHash).Return(false)

	output, err := fixtures.service.RegisterPassenger(ctx, input)
	require.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
	assert.Nil(t, output)
}

func TestUserService_RegisterDriver_AttachesProfileToExistingAccount(t *testing.T) {
	fixtures := createTestUserService(t, 5)
	ctx := context.Background()
	userID := uuid.New()

	input := &usecase.RegisterDriverInput{
		FirstName:     "Ada",
		LastName:      "Ng",
		Email:         "ada@example.com",
		Password:      "StrongC0de!77",
		LicenseNumber: "DL-9988",
		VehicleMake:   "Toyota",
		VehicleModel:  "Prius",
		VehicleYear:   2022,
		VehicleColor:  "silver",
		PlateNumber:   "ABC-1234",
	}

	auth := &entity.Authentication{
		UserID:         userID,
		Provider:       entity.ProviderTypeEmail,
		ProviderUserID: input.Email,
		PasswordHash:   "hashed-password",
	}
	existing := &entity.User{
		ID:               userID,
		Email:            input.Email,
		PassengerProfile: &entity.PassengerProfile{UserID: userID},
	}

	fixtures.hasher.On("ValidatePasswordStrength", input.Password).Return(nil)
	fixtures.authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, input.Email).
		Return(auth, nil)
	fixtures.hasher.On("Check", input.Password, auth.PasswordHash).Return(true)
	fixtures.userRepo.On("FindByID", ctx, userID).Return(existing, nil)
	fixtures.userRepo.On("Update", ctx, existing).Return(nil)
	fixtures.tokens.On("GenerateTokens", userID, mock.AnythingOfType("uuid.UUID"), []string{"passenger", "driver"}).
		Return("access-token", "refresh-token", nil)
	fixtures.userRepo.On("AcquireSessionMutex", ctx, userID).Return(nil)
	fixtures.refreshRepo.On("FindRefreshTokensByUserID", ctx, userID).
		Return([]*entity.RefreshToken{}, nil)
	fixtures.tokens.On("HashToken", "refresh-token").Return("refresh-token-hash")
	fixtures.tokens.On("GetRefreshTokenDuration").Return(7 * 24 * time.Hour)
	fixtures.refreshRepo.On("CreateRefreshToken", ctx, mock.MatchedBy(func(token *entity.RefreshToken) bool {
		return token.UserID == userID && token.TokenHash == "refresh-token-hash"
	})).Return(nil)
	fixtures.publisher.On("PublishAccountEvent", ctx, mock.AnythingOfType("*service.AccountEvent")).
		Return(nil)

	output, err := fixtures.service.RegisterDriver(ctx, input)
	require.NoError(t, err)
	require.NotNil(t, output.User.DriverProfile)
	assert.Equal(t, input.LicenseNumber, output.User.DriverProfile.LicenseNumber)
	assert.Equal(t, input.PlateNumber, output.User.DriverProfile.PlateNumber)
	assert.True(t, output.User.Roles().Contains(entity.RoleDriver))
	assert.True(t, output.User.Roles().Contains(entity.RolePassenger))
	assert.Equal(t, "access-token", output.AccessToken)
	assert.Equal(t, "refresh-token", output.RefreshToken)
}

func TestUserService_Login_Success(t *testing.T) {
	fixtures := createTestUserService(t, 5)
	ctx := context.Background()
	userID := uuid.New()

	auth := &entity.Authentication{
		UserID:         userID,
		Provider:       entity.ProviderTypeEmail,
		ProviderUserID: "ada@example.com",
		PasswordHash:   "hashed-password",
	}
	user := &entity.User{
		ID:               userID,
		Email:            "ada@example.com",
		PassengerProfile: &entity.PassengerProfile{UserID: userID},
	}

	fixtures.authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, "ada@example.com").
		Return(auth, nil)
	fixtures.hasher.On("Check", "StrongC0de!77", auth.PasswordHash).Return(true)
	fixtures.userRepo.On("FindByID", ctx, userID).Return(user, nil)
	fixtures.tokens.On("GenerateTokens", userID, mock.AnythingOfType("uuid.UUID"), []string{"passenger"}).
		Return("access-token", "refresh-token", nil)
	fixtures.userRepo.On("AcquireSessionMutex", ctx, userID).Return(nil)
	fixtures.refreshRepo.On("FindRefreshTokensByUserID", ctx, userID).
		Return([]*entity.RefreshToken{}, nil)
	fixtures.tokens.On("HashToken", "refresh-token").Return("refresh-token-hash")
	fixtures.tokens.On("GetRefreshTokenDuration").Return(7 * 24 * time.Hour)
	fixtures.refreshRepo.On("CreateRefreshToken", ctx, mock.MatchedBy(func(token *entity.RefreshToken) bool {
		return token.UserID == userID && token.TokenHash == "refresh-token-hash"
	})).Return(nil)

	output, err := fixtures.service.Login(ctx, &usecase.LoginInput{
		Email:    "ada@example.com",
		Password: "StrongC0de!77",
	})
	require.NoError(t, err)
	assert.Equal(t, "access-token", output.AccessToken)
	assert.Equal(t, "refresh-token", output.RefreshToken)
	assert.Equal(t, userID, output.User.ID)
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	fixtures := createTestUserService(t, 5)
	ctx := context.Background()

	fixtures.authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, "ghost@example.com").
		Return(nil, repository.ErrAuthNotFound)
	// The dummy comparison keeps unknown-email timing close to a real check.
	fixtures.hasher.On("Check", mock.Anything, mock.Anything).Return(false)

	output, err := fixtures.service.Login(ctx, &usecase.LoginInput{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	assert.Nil(t, output)
	fixtures.hasher.AssertCalled(t, "Check", mock.Anything, mock.Anything)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	fixtures := createTestUserService(t, 5)
	ctx := context.Background()

	auth := &entity.Authentication{
		UserID:         uuid.New(),
		Provider:       entity.ProviderTypeEmail,
		ProviderUserID: "ada@example.com",
		PasswordHash:   "hashed-password",
	}

	fixtures.authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, "ada@example.com").
		Return(auth, nil)
	fixtures.hasher.On("Check", "wrong", auth.PasswordHash).Return(false)

	output, err := fixtures.service.Login(ctx, &usecase.LoginInput{
		Email:    "ada@example.com",
		Password: "wrong",
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	assert.Nil(t, output)
}

func TestUserService_Login_SessionLimitExceeded(t *testing.T) {
	fixtures := createTestUserService(t, 2)
	ctx := context.Background()
	userID := uuid.New()

	auth := &entity.Authentication{
		UserID:         userID,
		Provider:       entity.ProviderTypeEmail,
		ProviderUserID: "ada@example.com",
		PasswordHash:   "hashed-password",
	}
	user := &entity.User{
		ID:               userID,
		Email:            "ada@example.com",
		PassengerProfile: &entity.PassengerProfile{UserID: userID},
	}
	activeSessions := []*entity.RefreshToken{
		{ID: uuid.New(), UserID: userID},
		{ID: uuid.New(), UserID: userID},
	}

	fixtures.authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, "ada@example.com").
		Return(auth, nil)
	fixtures.hasher.On("Check", "StrongC0de!77", auth.PasswordHash).Return(true)
	fixtures.userRepo.On("FindByID", ctx, userID).Return(user, nil)
	fixtures.tokens.On("GenerateTokens", userID, mock.AnythingOfType("uuid.UUID"), []string{"passenger"}).
		Return("access-token", "refresh-token", nil)
	fixtures.userRepo.On("AcquireSessionMutex", ctx, userID).Return(nil)
	fixtures.refreshRepo.On("FindRefreshTokensByUserID", ctx, userID).
		Return(activeSessions, nil)

	output, err := fixtures.service.Login(ctx, &usecase.LoginInput{
		Email:    "ada@example.com",
		Password: "StrongC0de!77",
	})
	require.ErrorIs(t, err, domainerrors.ErrSessionLimitExceeded)
	assert.Nil(t, output)
}

func TestUserService_RefreshToken_RotatesSession(t *testing.T) {
	fixtures := createTestUserService(t, 5)
	ctx := context.Background()
	userID := uuid.New()
	storedID := uuid.New()

	claims := &service.Claims{UserID: userID}
	user := &entity.User{
		ID:               userID,
		Email:            "ada@example.com",
		PassengerProfile: &entity.PassengerProfile{UserID: userID},
	}
	stored := &entity.RefreshToken{
		ID:        storedID,
		UserID:    userID,
		TokenHash: "old-hash",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	fixtures.tokens.On("ValidateRefreshToken", "old-refresh").Return(claims, nil)
	fixtures.userRepo.On("FindByID", ctx, userID).Return(user, nil)
	fixtures.tokens.On("GenerateTokens", userID, mock.AnythingOfType("uuid.UUID"), []string{"passenger"}).
		Return("new-access", "new-refresh", nil)
	fixtures.tokens.On("HashToken", "old-refresh").Return("old-hash")
	fixtures.refreshRepo.On("FindRefreshTokenByHash", ctx, "old-hash").Return(stored, nil)
	fixtures.refreshRepo.On("DeleteRefreshToken", ctx, storedID).Return(nil)
	fixtures.tokens.On("HashToken", "new-refresh").Return("new-hash")
	fixtures.tokens.On("GetRefreshTokenDuration").Return(7 * 24 * time.Hour)
	fixtures.refreshRepo.On("CreateRefreshToken", ctx, mock.MatchedBy(func(token *entity.RefreshToken) bool {
		return token.UserID == userID && token.TokenHash == "new-hash"
	})).Return(nil)

	output, err := fixtures.service.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: "old-refresh"})
	require.NoError(t, err)
	assert.Equal(t, "new-access", output.AccessToken)
	assert.Equal(t, "new-refresh", output.RefreshToken)
}

func TestUserService_RefreshToken_UnknownSession(t *testing.T) {
	fixtures := createTestUserService(t, 5)
	ctx := context.Background()
	userID := uuid.New()

	claims := &service.Claims{UserID: userID}
	user := &entity.User{
		ID:               userID,
		PassengerProfile: &entity.PassengerProfile{UserID: userID},
	}

	fixtures.tokens.On("ValidateRefreshToken", "revoked-refresh").Return(claims, nil)
	fixtures.userRepo.On("FindByID", ctx, userID).Return(user, nil)
	fixtures.tokens.On("GenerateTokens", userID, mock.AnythingOfType("uuid.UUID"), []string{"passenger"}).
		Return("new-access", "new-refresh", nil)
	fixtures.tokens.On("HashToken", "revoked-refresh").Return("revoked-hash")
	fixtures.refreshRepo.On("FindRefreshTokenByHash", ctx, "revoked-hash").
		Return(nil, repository.ErrRefreshTokenNotFound)

	output, err := fixtures.service.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: "revoked-refresh"})
	require.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
	assert.Nil(t, output)
}

func TestUserService_RefreshToken_LosesRotationRace(t *testing.T) {
	fixtures := createTestUserService(t, 5)
	ctx := context.Background()
	userID := uuid.New()
	storedID := uuid.New()

	claims := &service.Claims{UserID: userID}
	user := &entity.User{
		ID:               userID,
		PassengerProfile: &entity.PassengerProfile{UserID: userID},
	}
	stored := &entity.RefreshToken{
		ID:        storedID,
		UserID:    userID,
		TokenHash: "old-hash",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	fixtures.tokens.On("ValidateRefreshToken", "old-refresh").Return(claims, nil)
	fixtures.userRepo.On("FindByID", ctx, userID).Return(user, nil)
	fixtures.tokens.On("GenerateTokens", userID, mock.AnythingOfType("uuid.UUID"), []string{"passenger"}).
		Return("new-access", "new-refresh", nil)
	fixtures.tokens.On("HashToken", "old-refresh").Return("old-hash")
	fixtures.refreshRepo.On("FindRefreshTokenByHash", ctx, "old-hash").Return(stored, nil)
	// A concurrent refresh deleted the row between the lookup and the delete.
	fixtures.refreshRepo.On("DeleteRefreshToken", ctx, storedID).
		Return(repository.ErrRefreshTokenNotFound)

	output, err := fixtures.service.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: "old-refresh"})
	require.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
	assert.Nil(t, output)
}

func TestUserService_Logout_Success(t *testing.T) {
	fixtures := createTestUserService(t, 5)
	ctx := context.Background()

	fixtures.tokens.On("ValidateRefreshToken", "valid-refresh").
		Return(&service.Claims{UserID: uuid.New()}, nil)
	fixtures.tokens.On("HashToken", "valid-refresh").Return("valid-hash")
	fixtures.refreshRepo.On("DeleteRefreshTokenByHash", ctx, "valid-hash").Return(nil)

	err := fixtures.service.Logout(ctx, &usecase.LogoutInput{RefreshToken: "valid-refresh"})
	require.NoError(t, err)
}

func TestUserService_Logout_IsIdempotent(t *testing.T) {
	fixtures := createTestUserService(t, 5)
	ctx := context.Background()

	fixtures.tokens.On("ValidateRefreshToken", "valid-refresh").
		Return(&service.Claims{UserID: uuid.New()}, nil)
	fixtures.tokens.On("HashToken", "valid-refresh").Return("valid-hash")
	fixtures.refreshRepo.On("DeleteRefreshTokenByHash", ctx, "valid-hash").
		Return(repository.ErrRefreshTokenNotFound)

	err := fixtures.service.Logout(ctx, &usecase.LogoutInput{RefreshToken: "valid-refresh"})
	require.NoError(t, err)
}

func TestUserService_Logout_ToleratesMalformedToken(t *testing.T) {
	fixtures := createTestUserService(t, 5)

	fixtures.tokens.On("ValidateRefreshToken", "garbage").
		Return(nil, domainerrors.ErrRefreshTokenInvalid)

	err := fixtures.service.Logout(context.Background(), &usecase.LogoutInput{RefreshToken: "garbage"})
	require.NoError(t, err)
}
