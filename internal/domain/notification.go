package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Notification types published to the message broker.
const (
	NotificationAttendanceRecorded = "attendance.recorded"
	NotificationCertificateIssued  = "certificate.issued"
)

// Notification is an outbound integration event.
type Notification struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// NewNotification returns a Notification with a fresh random id.
func NewNotification(typ, key string, payload any, occurredAt time.Time) *Notification {
	return &Notification{
		ID:         uuid.NewString(),
		Type:       typ,
		Key:        key,
		OccurredAt: occurredAt,
		Payload:    payload,
	}
}

// EventPublisher publishes notifications to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, n *Notification) error
	Close() error
}
