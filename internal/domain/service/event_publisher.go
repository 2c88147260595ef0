package service

import (
	"context"
)

// Account event types published to the message bus for downstream consumers
// (CRM sync, fraud screening, analytics).
const (
	AccountEventRegistered      = "account.registered"
	AccountEventDriverActivated = "account.driver_activated"
	AccountEventDeleted         = "account.deleted"
)

// AccountEvent describes a lifecycle change on a user account.
type AccountEvent struct {
	RequestID string   `json:"request_id,omitempty"` // For distributed tracing
	EventType string   `json:"event_type"`
	UserID    string   `json:"user_id"`
	Email     string   `json:"email,omitempty"`
	Roles     []string `json:"roles,omitempty"`
}

// EventPublisher defines the interface for publishing events to a message queue.
type EventPublisher interface {
	// PublishAccountEvent publishes an account lifecycle event for async processing.
	PublishAccountEvent(ctx context.Context, event *AccountEvent) error

	// Close releases any resources held by the publisher.
	Close() error
}
