// Package repository provides test doubles for the persistence interfaces.
package repository

import (
	"context"
	"testing"

	"ridelink/internal/domain/entity"
	"ridelink/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func setup(t *testing.T, m *mock.Mock) {
	t.Helper()
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}

// MockTransactionManager runs the transactional function against a fixed
// factory, standing in for a real database transaction.
type MockTransactionManager struct {
	Factory repository.RepositoryFactory
	// BeginErr, when set, fails Execute before the function runs.
	BeginErr error
}

func (m *MockTransactionManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	if m.BeginErr != nil {
		return m.BeginErr
	}

	return fn(m.Factory)
}

// MockRepositoryFactory hands out the configured repository mocks.
type MockRepositoryFactory struct {
	UserRepository          *MockUserRepository
	AuthRepository          *MockAuthRepository
	RefreshTokenRepository  *MockRefreshTokenRepository
	LocationRepository      *MockSavedLocationRepository
	PaymentMethodRepository *MockPaymentMethodRepository
	PhotoRepository         *MockPhotoRepository
}

func (f *MockRepositoryFactory) UserRepo() repository.UserRepository { return f.UserRepository }
func (f *MockRepositoryFactory) AuthRepo() repository.AuthRepository { return f.AuthRepository }
func (f *MockRepositoryFactory) RefreshTokenRepo() repository.RefreshTokenRepository {
	return f.RefreshTokenRepository
}
func (f *MockRepositoryFactory) LocationRepo() repository.SavedLocationRepository {
	return f.LocationRepository
}
func (f *MockRepositoryFactory) PaymentMethodRepo() repository.PaymentMethodRepository {
	return f.PaymentMethodRepository
}
func (f *MockRepositoryFactory) PhotoRepo() repository.PhotoRepository { return f.PhotoRepository }

// MockUserRepository is a testify double for repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func NewMockUserRepository(t *testing.T) *MockUserRepository {
	m := &MockUserRepository{}
	setup(t, &m.Mock)

	return m
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) AcquireSessionMutex(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

// MockAuthRepository is a testify double for repository.AuthRepository.
type MockAuthRepository struct {
	mock.Mock
}

func NewMockAuthRepository(t *testing.T) *MockAuthRepository {
	m := &MockAuthRepository{}
	setup(t, &m.Mock)

	return m
}

func (m *MockAuthRepository) CreateAuthentication(ctx context.Context, auth *entity.Authentication) error {
	return m.Called(ctx, auth).Error(0)
}

func (m *MockAuthRepository) FindAuthentication(ctx context.Context, provider entity.ProviderType, providerUserID string) (*entity.Authentication, error) {
	args := m.Called(ctx, provider, providerUserID)
	auth, _ := args.Get(0).(*entity.Authentication)

	return auth, args.Error(1)
}

func (m *MockAuthRepository) FindAuthenticationByUserID(ctx context.Context, userID uuid.UUID, provider entity.ProviderType) (*entity.Authentication, error) {
	args := m.Called(ctx, userID, provider)
	auth, _ := args.Get(0).(*entity.Authentication)

	return auth, args.Error(1)
}

func (m *MockAuthRepository) UpdateAuthentication(ctx context.Context, auth *entity.Authentication) error {
	return m.Called(ctx, auth).Error(0)
}

// MockRefreshTokenRepository is a testify double for repository.RefreshTokenRepository.
type MockRefreshTokenRepository struct {
	mock.Mock
}

func NewMockRefreshTokenRepository(t *testing.T) *MockRefreshTokenRepository {
	m := &MockRefreshTokenRepository{}
	setup(t, &m.Mock)

	return m
}

func (m *MockRefreshTokenRepository) CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockRefreshTokenRepository) FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	token, _ := args.Get(0).(*entity.RefreshToken)

	return token, args.Error(1)
}

func (m *MockRefreshTokenRepository) FindRefreshTokenByID(ctx context.Context, id uuid.UUID) (*entity.RefreshToken, error) {
	args := m.Called(ctx, id)
	token, _ := args.Get(0).(*entity.RefreshToken)

	return token, args.Error(1)
}

func (m *MockRefreshTokenRepository) FindRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.RefreshToken, error) {
	args := m.Called(ctx, userID)
	tokens, _ := args.Get(0).([]*entity.RefreshToken)

	return tokens, args.Error(1)
}

func (m *MockRefreshTokenRepository) DeleteRefreshToken(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRefreshTokenRepository) DeleteRefreshTokenByHash(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

func (m *MockRefreshTokenRepository) DeleteRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockRefreshTokenRepository) DeleteExpiredRefreshTokens(ctx context.Context) (int64, error) {
	args := m.Called(ctx)

	return args.Get(0).(int64), args.Error(1)
}

// MockSavedLocationRepository is a testify double for repository.SavedLocationRepository.
type MockSavedLocationRepository struct {
	mock.Mock
}

func NewMockSavedLocationRepository(t *testing.T) *MockSavedLocationRepository {
	m := &MockSavedLocationRepository{}
	setup(t, &m.Mock)

	return m
}

func (m *MockSavedLocationRepository) CreateLocation(ctx context.Context, location *entity.SavedLocation) error {
	return m.Called(ctx, location).Error(0)
}

func (m *MockSavedLocationRepository) FindLocationByID(ctx context.Context, id uuid.UUID) (*entity.SavedLocation, error) {
	args := m.Called(ctx, id)
	location, _ := args.Get(0).(*entity.SavedLocation)

	return location, args.Error(1)
}

func (m *MockSavedLocationRepository) FindLocationsByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.SavedLocation, error) {
	args := m.Called(ctx, userID)
	locations, _ := args.Get(0).([]*entity.SavedLocation)

	return locations, args.Error(1)
}

func (m *MockSavedLocationRepository) UpdateLocation(ctx context.Context, location *entity.SavedLocation) error {
	return m.Called(ctx, location).Error(0)
}

func (m *MockSavedLocationRepository) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSavedLocationRepository) ClearDefaultLocation(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

// MockPaymentMethodRepository is a testify double for repository.PaymentMethodRepository.
type MockPaymentMethodRepository struct {
	mock.Mock
}

func NewMockPaymentMethodRepository(t *testing.T) *MockPaymentMethodRepository {
	m := &MockPaymentMethodRepository{}
	setup(t, &m.Mock)

	return m
}

func (m *MockPaymentMethodRepository) CreatePaymentMethod(ctx context.Context, method *entity.PaymentMethod) error {
	return m.Called(ctx, method).Error(0)
}

func (m *MockPaymentMethodRepository) FindPaymentMethodByID(ctx context.Context, id uuid.UUID) (*entity.PaymentMethod, error) {
	args := m.Called(ctx, id)
	method, _ := args.Get(0).(*entity.PaymentMethod)

	return method, args.Error(1)
}

func (m *MockPaymentMethodRepository) FindPaymentMethodsByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.PaymentMethod, error) {
	args := m.Called(ctx, userID)
	methods, _ := args.Get(0).([]*entity.PaymentMethod)

	return methods, args.Error(1)
}

func (m *MockPaymentMethodRepository) UpdatePaymentMethod(ctx context.Context, method *entity.PaymentMethod) error {
	return m.Called(ctx, method).Error(0)
}

func (m *MockPaymentMethodRepository) DeletePaymentMethod(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPaymentMethodRepository) ClearDefaultPaymentMethod(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

// MockPhotoRepository is a testify double for repository.PhotoRepository.
type MockPhotoRepository struct {
	mock.Mock
}

func NewMockPhotoRepository(t *testing.T) *MockPhotoRepository {
	m := &MockPhotoRepository{}
	setup(t, &m.Mock)

	return m
}

func (m *MockPhotoRepository) CreatePhoto(ctx context.Context, photo *entity.ProfilePhoto) error {
	return m.Called(ctx, photo).Error(0)
}

func (m *MockPhotoRepository) FindPhotoByID(ctx context.Context, id uuid.UUID) (*entity.ProfilePhoto, error) {
	args := m.Called(ctx, id)
	photo, _ := args.Get(0).(*entity.ProfilePhoto)

	return photo, args.Error(1)
}

func (m *MockPhotoRepository) DeletePhoto(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
