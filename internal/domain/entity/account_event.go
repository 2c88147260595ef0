package entity

import (
	"time"

	"github.com/google/uuid"
)

// AccountEventRecord is the audit trail entry written when an account
// lifecycle event is consumed from the message bus.
type AccountEventRecord struct {
	ID         uuid.UUID // The Global Unique Identifier (GUID) for the audit entry.
	UserID     uuid.UUID // The account the event concerns.
	EventType  string    // One of the service.AccountEvent* constants.
	Email      string    // Account email at the time of the event, if carried.
	Roles      []string  // Account roles at the time of the event, if carried.
	RequestID  string    // Request that triggered the event, for tracing.
	OccurredAt time.Time // Publish time reported by the message bus.
	ReceivedAt time.Time // When the worker recorded the event.
}
