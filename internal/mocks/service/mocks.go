// Package service provides test doubles for the domain service interfaces.
package service

import (
	"context"
	"io"
	"testing"
	"time"

	"ridelink/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func setup(t *testing.T, m *mock.Mock) {
	t.Helper()
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}

// MockPasswordHasher is a testify double for service.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

func NewMockPasswordHasher(t *testing.T) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	setup(t, &m.Mock)

	return m
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

func (m *MockPasswordHasher) ValidatePasswordStrength(password string) error {
	return m.Called(password).Error(0)
}

// MockTokenService is a testify double for service.TokenService.
type MockTokenService struct {
	mock.Mock
}

func NewMockTokenService(t *testing.T) *MockTokenService {
	m := &MockTokenService{}
	setup(t, &m.Mock)

	return m
}

func (m *MockTokenService) GenerateTokens(userID, sessionID uuid.UUID, roles []string) (string, string, error) {
	args := m.Called(userID, sessionID, roles)

	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*service.Claims)

	return claims, args.Error(1)
}

func (m *MockTokenService) ValidateRefreshToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*service.Claims)

	return claims, args.Error(1)
}

func (m *MockTokenService) HashToken(token string) string {
	return m.Called(token).String(0)
}

func (m *MockTokenService) GetRefreshTokenDuration() time.Duration {
	return m.Called().Get(0).(time.Duration)
}

// MockEventPublisher is a testify double for service.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func NewMockEventPublisher(t *testing.T) *MockEventPublisher {
	m := &MockEventPublisher{}
	setup(t, &m.Mock)

	return m
}

func (m *MockEventPublisher) PublishAccountEvent(ctx context.Context, event *service.AccountEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockEventPublisher) Close() error {
	return m.Called().Error(0)
}

// MockPhotoStorage is a testify double for service.PhotoStorage.
type MockPhotoStorage struct {
	mock.Mock
}

func NewMockPhotoStorage(t *testing.T) *MockPhotoStorage {
	m := &MockPhotoStorage{}
	setup(t, &m.Mock)

	return m
}

func (m *MockPhotoStorage) Put(ctx context.Context, key string, contentType string, r io.Reader) (int64, error) {
	args := m.Called(ctx, key, contentType, r)

	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPhotoStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	rc, _ := args.Get(0).(io.ReadCloser)

	return rc, args.Error(1)
}

func (m *MockPhotoStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
