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

// paymentMethodRepository implements the domain.PaymentMethodRepository interface using GORM.
type paymentMethodRepository struct {
	db *gorm.DB
}

// NewPaymentMethodRepository is the constructor for paymentMethodRepository.
func NewPaymentMethodRepository(db *gorm.DB) repository.PaymentMethodRepository {
	return &paymentMethodRepository{db: db}
}

// CreatePaymentMethod persists a new payment method reference for a passenger.
func (repo *paymentMethodRepository) CreatePaymentMethod(ctx context.Context, method *entity.PaymentMethod) error {
	methodM := fromPaymentMethodDomain(method)

	if err := repo.db.WithContext(ctx).Create(methodM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("payment method already registered")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("invalid user reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create payment method")
	}

	method.ID = methodM.ID
	method.CreatedAt = methodM.CreatedAt
	method.UpdatedAt = methodM.UpdatedAt

	return nil
}

// FindPaymentMethodByID retrieves a payment method by its unique ID.
func (repo *paymentMethodRepository) FindPaymentMethodByID(ctx context.Context, id uuid.UUID) (*entity.PaymentMethod, error) {
	var methodM model.PaymentMethodModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&methodM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPaymentMethodNotFound
		}

		return nil, errors.Wrap(err, "failed to find payment method by id")
	}

	return toPaymentMethodDomain(&methodM), nil
}

// FindPaymentMethodsByUserID retrieves all payment methods for a passenger.
func (repo *paymentMethodRepository) FindPaymentMethodsByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.PaymentMethod, error) {
	var methodModels []*model.PaymentMethodModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&methodModels).Error

	if err != nil {
		return nil, errors.WithStack(err)
	}

	methods := make([]*entity.PaymentMethod, 0, len(methodModels))
	for _, methodM := range methodModels {
		methods = append(methods, toPaymentMethodDomain(methodM))
	}

	return methods, nil
}

// UpdatePaymentMethod updates an existing payment method record.
func (repo *paymentMethodRepository) UpdatePaymentMethod(ctx context.Context, method *entity.PaymentMethod) error {
	methodM := fromPaymentMethodDomain(method)

	if err := repo.db.WithContext(ctx).Save(methodM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("payment method already registered")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update payment method")
	}

	method.UpdatedAt = methodM.UpdatedAt

	return nil
}

// DeletePaymentMethod removes a payment method by its ID.
func (repo *paymentMethodRepository) DeletePaymentMethod(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.PaymentMethodModel{})

	if result.Error != nil {
		return errors.WithStack(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrPaymentMethodNotFound
	}

	return nil
}

// ClearDefaultPaymentMethod unsets the default flag on all of a user's payment methods.
func (repo *paymentMethodRepository) ClearDefaultPaymentMethod(ctx context.Context, userID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Model(&model.PaymentMethodModel{}).
		Where("user_id = ? AND is_default", userID).
		Update("is_default", false).Error; err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// --- Mapper Functions ---

// toPaymentMethodDomain converts a GORM PaymentMethodModel to a domain PaymentMethod entity.
func toPaymentMethodDomain(data *model.PaymentMethodModel) *entity.PaymentMethod {
	if data == nil {
		return nil
	}

	return &entity.PaymentMethod{
		ID:             data.ID,
		UserID:         data.UserID,
		ProcessorToken: data.ProcessorToken,
		Brand:          data.Brand,
		Last4:          data.Last4,
		ExpiryMonth:    data.ExpiryMonth,
		ExpiryYear:     data.ExpiryYear,
		IsDefault:      data.IsDefault,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}

// fromPaymentMethodDomain converts a domain PaymentMethod entity to a GORM PaymentMethodModel.
func fromPaymentMethodDomain(data *entity.PaymentMethod) *model.PaymentMethodModel {
	if data == nil {
		return nil
	}

	return &model.PaymentMethodModel{
		ID:             data.ID,
		UserID:         data.UserID,
		ProcessorToken: data.ProcessorToken,
		Brand:          data.Brand,
		Last4:          data.Last4,
		ExpiryMonth:    data.ExpiryMonth,
		ExpiryYear:     data.ExpiryYear,
		IsDefault:      data.IsDefault,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}
