package postgres

import (
	"context"
	"database/sql"

	"checkintracker/internal/domain"
)

type attendanceRepository struct {
	DB *sql.DB
}

func NewAttendanceRepository(db *sql.DB) domain.AttendanceRepository {
	return &attendanceRepository{
		DB: db,
	}
}

func (r *attendanceRepository) Create(ctx context.Context, e *domain.AttendanceEvent) error {
	query := `
		INSERT INTO attendance_events (ticket_id, occurred_at, kind, recorded_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, e.TicketID, e.Timestamp, string(e.Kind), e.RecordedAt).Scan(&e.ID)
	return mapError("create attendance event", err)
}

// List returns every attendance event in insertion order.
func (r *attendanceRepository) List(ctx context.Context) ([]*domain.AttendanceEvent, error) {
	query := `
		SELECT id, ticket_id, occurred_at, kind, recorded_at
		FROM attendance_events
		ORDER BY seq
	`
	return r.query(ctx, "list attendance events", query)
}

// ListByTicketID returns the ticket's attendance events in insertion order.
func (r *attendanceRepository) ListByTicketID(ctx context.Context, ticketID string) ([]*domain.AttendanceEvent, error) {
	query := `
		SELECT id, ticket_id, occurred_at, kind, recorded_at
		FROM attendance_events
		WHERE ticket_id = $1
		ORDER BY seq
	`
	return r.query(ctx, "list attendance events by ticket", query, ticketID)
}

func (r *attendanceRepository) query(ctx context.Context, op, query string, args ...any) ([]*domain.AttendanceEvent, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	events := make([]*domain.AttendanceEvent, 0)
	for rows.Next() {
		e := &domain.AttendanceEvent{}
		var kind string
		if err := rows.Scan(&e.ID, &e.TicketID, &e.Timestamp, &kind, &e.RecordedAt); err != nil {
			return nil, mapError(op, err)
		}
		e.Kind = domain.AttendanceKind(kind)
		if err := e.Validate(); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return events, nil
}
