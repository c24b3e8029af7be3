package postgres

import (
	"context"
	"database/sql"

	"checkintracker/internal/domain"
)

type ticketTypeRepository struct {
	DB *sql.DB
}

func NewTicketTypeRepository(db *sql.DB) domain.TicketTypeRepository {
	return &ticketTypeRepository{
		DB: db,
	}
}

func (r *ticketTypeRepository) List(ctx context.Context) ([]*domain.TicketType, error) {
	query := `
		SELECT id, name, minimum_hours_for_certificate, created_at
		FROM ticket_types
		ORDER BY created_at, id
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError("list ticket types", err)
	}
	defer rows.Close()

	types := make([]*domain.TicketType, 0)
	for rows.Next() {
		tt := &domain.TicketType{}
		if err := rows.Scan(&tt.ID, &tt.Name, &tt.MinimumHoursForCertificate, &tt.CreatedAt); err != nil {
			return nil, mapError("scan ticket type", err)
		}
		types = append(types, tt)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list ticket types", err)
	}
	return types, nil
}

func (r *ticketTypeRepository) GetByID(ctx context.Context, id string) (*domain.TicketType, error) {
	query := `
		SELECT id, name, minimum_hours_for_certificate, created_at
		FROM ticket_types
		WHERE id = $1
	`
	tt := &domain.TicketType{}
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&tt.ID, &tt.Name, &tt.MinimumHoursForCertificate, &tt.CreatedAt)
	if err != nil {
		return nil, mapError("get ticket type", err)
	}
	return tt, nil
}

func (r *ticketTypeRepository) Create(ctx context.Context, tt *domain.TicketType) error {
	query := `
		INSERT INTO ticket_types (name, minimum_hours_for_certificate, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, tt.Name, tt.MinimumHoursForCertificate, tt.CreatedAt).Scan(&tt.ID)
	return mapError("create ticket type", err)
}

func (r *ticketTypeRepository) Update(ctx context.Context, id string, upd domain.TicketTypeUpdate) (*domain.TicketType, error) {
	query := `
		UPDATE ticket_types
		SET name = COALESCE($2, name),
			minimum_hours_for_certificate = COALESCE($3, minimum_hours_for_certificate)
		WHERE id = $1
		RETURNING id, name, minimum_hours_for_certificate, created_at
	`
	tt := &domain.TicketType{}
	err := r.DB.QueryRowContext(ctx, query, id, upd.Name, upd.MinimumHoursForCertificate).
		Scan(&tt.ID, &tt.Name, &tt.MinimumHoursForCertificate, &tt.CreatedAt)
	if err != nil {
		return nil, mapError("update ticket type", err)
	}
	return tt, nil
}

// Delete removes the ticket type. The tickets foreign key is ON DELETE RESTRICT,
// so a referenced type yields domain.ErrConflict.
func (r *ticketTypeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM ticket_types WHERE id = $1`, id)
	if err != nil {
		return mapError("delete ticket type", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError("delete ticket type", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
