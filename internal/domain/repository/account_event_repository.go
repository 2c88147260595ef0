package repository

import (
	"context"

	"ridelink/internal/domain/entity"

	"github.com/google/uuid"
)

// AccountEventRepository defines the interface for the account event audit trail.
type AccountEventRepository interface {
	// CreateAccountEvent appends an audit entry. Entries are immutable once written.
	CreateAccountEvent(ctx context.Context, record *entity.AccountEventRecord) error

	// FindAccountEventsByUserID retrieves audit entries for a user, newest first,
	// capped at limit.
	FindAccountEventsByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.AccountEventRecord, error)
}
