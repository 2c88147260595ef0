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
	"ridelink/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type paymentServiceFixtures struct {
	service     usecase.PaymentMethodUsecase
	userRepo    *mockRepo.MockUserRepository
	paymentRepo *mockRepo.MockPaymentMethodRepository
}

func createTestPaymentService(t *testing.T) paymentServiceFixtures {
	t.Helper()

	userRepo := mockRepo.NewMockUserRepository(t)
	paymentRepo := mockRepo.NewMockPaymentMethodRepository(t)
	factory := &mockRepo.MockRepositoryFactory{
		UserRepository:          userRepo,
		PaymentMethodRepository: paymentRepo,
	}

	service := NewPaymentService(PaymentServiceParams{
		TxManager:         &mockRepo.MockTransactionManager{Factory: factory},
		PaymentMethodRepo: paymentRepo,
		Logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return paymentServiceFixtures{
		service:     service,
		userRepo:    userRepo,
		paymentRepo: paymentRepo,
	}
}

func TestPaymentService_AddPaymentMethod_Success(t *testing.T) {
	fixtures := createTestPaymentService(t)
	ctx := context.Background()
	userID := uuid.New()

	fixtures.userRepo.On("FindByID", ctx, userID).Return(passengerUser(userID), nil)
	fixtures.paymentRepo.On("CreatePaymentMethod", ctx, mock.MatchedBy(func(m *entity.PaymentMethod) bool {
		return m.UserID == userID && m.ProcessorToken == "tok_abc123"
	})).Return(nil)

	method, err := fixtures.service.AddPaymentMethod(ctx, userID, &usecase.AddPaymentMethodInput{
		ProcessorToken: "tok_abc123",
		Brand:          "visa",
		Last4:          "4242",
		ExpiryMonth:    12,
		ExpiryYear:     2028,
	})
	require.NoError(t, err)
	assert.Equal(t, "visa", method.Brand)
	assert.Equal(t, "4242", method.Last4)
	assert.False(t, method.IsDefault)
}

func TestPaymentService_AddPaymentMethod_DefaultClearsPrevious(t *testing.T) {
	fixtures := createTestPaymentService(t)
	ctx := context.Background()
	userID := uuid.New()

	fixtures.userRepo.On("FindByID", ctx, userID).Return(passengerUser(userID), nil)
	fixtures.paymentRepo.On("ClearDefaultPaymentMethod", ctx, userID).Return(nil)
	fixtures.paymentRepo.On("CreatePaymentMethod", ctx, mock.AnythingOfType("*entity.PaymentMethod")).
		Return(nil)

	method, err := fixtures.service.AddPaymentMethod(ctx, userID, &usecase.AddPaymentMethodInput{
		ProcessorToken: "tok_abc123",
		Brand:          "visa",
		Last4:          "4242",
		IsDefault:      true,
	})
	require.NoError(t, err)
	assert.True(t, method.IsDefault)
}

func TestPaymentService_SetDefaultPaymentMethod_Success(t *testing.T) {
	fixtures := createTestPaymentService(t)
	ctx := context.Background()
	userID := uuid.New()
	methodID := uuid.New()

	method := &entity.PaymentMethod{ID: methodID, UserID: userID, Brand: "visa"}

	fixtures.paymentRepo.On("FindPaymentMethodByID", ctx, methodID).Return(method, nil)
	fixtures.paymentRepo.On("ClearDefaultPaymentMethod", ctx, userID).Return(nil)
	fixtures.paymentRepo.On("UpdatePaymentMethod", ctx, mock.MatchedBy(func(m *entity.PaymentMethod) bool {
		return m.ID == methodID && m.IsDefault
	})).Return(nil)

	err := fixtures.service.SetDefaultPaymentMethod(ctx, userID, methodID)
	require.NoError(t, err)
}

func TestPaymentService_SetDefaultPaymentMethod_AlreadyDefault(t *testing.T) {
	fixtures := createTestPaymentService(t)
	ctx := context.Background()
	userID := uuid.New()
	methodID := uuid.New()

	method := &entity.PaymentMethod{ID: methodID, UserID: userID, IsDefault: true}
	fixtures.paymentRepo.On("FindPaymentMethodByID", ctx, methodID).Return(method, nil)

	err := fixtures.service.SetDefaultPaymentMethod(ctx, userID, methodID)
	require.NoError(t, err)
	fixtures.paymentRepo.AssertNotCalled(t, "ClearDefaultPaymentMethod", ctx, userID)
}

func TestPaymentService_RemovePaymentMethod_OwnershipEnforced(t *testing.T) {
	fixtures := createTestPaymentService(t)
	ctx := context.Background()
	methodID := uuid.New()

	foreign := &entity.PaymentMethod{ID: methodID, UserID: uuid.New()}
	fixtures.paymentRepo.On("FindPaymentMethodByID", ctx, methodID).Return(foreign, nil)

	err := fixtures.service.RemovePaymentMethod(ctx, uuid.New(), methodID)
	require.ErrorIs(t, err, domainerrors.ErrPaymentMethodOwnershipViolation)
}

func TestPaymentService_RemovePaymentMethod_NotFound(t *testing.T) {
	fixtures := createTestPaymentService(t)
	ctx := context.Background()
	methodID := uuid.New()

	fixtures.paymentRepo.On("FindPaymentMethodByID", ctx, methodID).
		Return(nil, repository.ErrPaymentMethodNotFound)

	err := fixtures.service.RemovePaymentMethod(ctx, uuid.New(), methodID)
	require.ErrorIs(t, err, domainerrors.ErrPaymentMethodNotFound)
}

func TestPaymentService_ListPaymentMethods(t *testing.T) {
	fixtures := createTestPaymentService(t)
	ctx := context.Background()
	userID := uuid.New()

	methods := []*entity.PaymentMethod{
		{ID: uuid.New(), UserID: userID, Brand: "visa", IsDefault: true},
		{ID: uuid.New(), UserID: userID, Brand: "mastercard"},
	}
	fixtures.paymentRepo.On("FindPaymentMethodsByUserID", ctx, userID).Return(methods, nil)

	got, err := fixtures.service.ListPaymentMethods(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
