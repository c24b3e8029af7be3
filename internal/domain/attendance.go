package domain

import (
	"context"
	"time"
)

// AttendanceKind is the direction of an attendance event.
type AttendanceKind string

const (
	CheckIn  AttendanceKind = "check_in"
	CheckOut AttendanceKind = "check_out"
)

// Valid reports whether k is a known kind.
func (k AttendanceKind) Valid() bool {
	return k == CheckIn || k == CheckOut
}

// AttendanceEvent is a single check-in or check-out tied to a ticket. Events are append-only.
// Timestamp is when the participant crossed the door (may be backdated by staff);
// RecordedAt is when the event reached the store.
// swagger:model AttendanceEvent
type AttendanceEvent struct {
	ID         string         `json:"id"`
	TicketID   string         `json:"ticket_id"`
	Timestamp  time.Time      `json:"timestamp"`
	Kind       AttendanceKind `json:"kind"`
	RecordedAt time.Time      `json:"recorded_at"`
}

// NewAttendanceEvent returns a new AttendanceEvent. ID is typically set by the repository on create.
func NewAttendanceEvent(ticketID string, ts time.Time, kind AttendanceKind, recordedAt time.Time) *AttendanceEvent {
	return &AttendanceEvent{
		TicketID:   ticketID,
		Timestamp:  ts,
		Kind:       kind,
		RecordedAt: recordedAt,
	}
}

// Validate checks the fields an attendance event must carry.
func (e *AttendanceEvent) Validate() error {
	if e.TicketID == "" {
		return NewValidationError("ticket_id", "is required")
	}
	if e.Timestamp.IsZero() {
		return NewValidationError("timestamp", "is required")
	}
	if !e.Kind.Valid() {
		return NewValidationError("kind", "must be check_in or check_out")
	}
	return nil
}

// AttendanceRepository defines storage operations for attendance events.
// List operations return events in insertion order.
type AttendanceRepository interface {
	Create(ctx context.Context, e *AttendanceEvent) error
	List(ctx context.Context) ([]*AttendanceEvent, error)
	ListByTicketID(ctx context.Context, ticketID string) ([]*AttendanceEvent, error)
}
