package postgres

import (
	"context"
	"strings"

	"ridelink/internal/domain/entity"
	domainerrors "ridelink/internal/domain/errors"
	"ridelink/internal/domain/repository"
	"ridelink/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// accountEventRepository implements the domain.AccountEventRepository interface using GORM.
type accountEventRepository struct {
	db *gorm.DB
}

// NewAccountEventRepository is the constructor for accountEventRepository.
func NewAccountEventRepository(db *gorm.DB) repository.AccountEventRepository {
	return &accountEventRepository{db: db}
}

// CreateAccountEvent appends an audit entry.
func (repo *accountEventRepository) CreateAccountEvent(ctx context.Context, record *entity.AccountEventRecord) error {
	recordM := fromAccountEventDomain(record)

	if err := repo.db.WithContext(ctx).Create(recordM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create account event record")
	}

	record.ID = recordM.ID

	return nil
}

// FindAccountEventsByUserID retrieves audit entries for a user, newest first.
func (repo *accountEventRepository) FindAccountEventsByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.AccountEventRecord, error) {
	var recordMs []model.AccountEventModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&recordMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find account events by user id")
	}

	records := make([]*entity.AccountEventRecord, 0, len(recordMs))
	for i := range recordMs {
		records = append(records, toAccountEventDomain(&recordMs[i]))
	}

	return records, nil
}

// --- Mapper Functions ---

// fromAccountEventDomain converts a domain AccountEventRecord to a GORM AccountEventModel.
func fromAccountEventDomain(data *entity.AccountEventRecord) *model.AccountEventModel {
	if data == nil {
		return nil
	}

	return &model.AccountEventModel{
		ID:         data.ID,
		UserID:     data.UserID,
		EventType:  data.EventType,
		Email:      data.Email,
		Roles:      strings.Join(data.Roles, ","),
		RequestID:  data.RequestID,
		OccurredAt: data.OccurredAt,
		ReceivedAt: data.ReceivedAt,
	}
}

// toAccountEventDomain converts a GORM AccountEventModel to a domain AccountEventRecord.
func toAccountEventDomain(data *model.AccountEventModel) *entity.AccountEventRecord {
	if data == nil {
		return nil
	}

	var roles []string
	if data.Roles != "" {
		roles = strings.Split(data.Roles, ",")
	}

	return &entity.AccountEventRecord{
		ID:         data.ID,
		UserID:     data.UserID,
		EventType:  data.EventType,
		Email:      data.Email,
		Roles:      roles,
		RequestID:  data.RequestID,
		OccurredAt: data.OccurredAt,
		ReceivedAt: data.ReceivedAt,
	}
}
