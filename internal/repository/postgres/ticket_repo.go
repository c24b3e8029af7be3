package postgres

import (
	"context"
	"database/sql"

	"checkintracker/internal/domain"
)

type ticketRepository struct {
	DB *sql.DB
}

func NewTicketRepository(db *sql.DB) domain.TicketRepository {
	return &ticketRepository{
		DB: db,
	}
}

const ticketColumns = `id, name, email, unique_code, ticket_type_id, created_at`

func scanTicket(row interface{ Scan(...any) error }) (*domain.Ticket, error) {
	t := &domain.Ticket{}
	if err := row.Scan(&t.ID, &t.Name, &t.Email, &t.UniqueCode, &t.TicketTypeID, &t.CreatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *ticketRepository) List(ctx context.Context) ([]*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets ORDER BY created_at, id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError("list tickets", err)
	}
	defer rows.Close()

	tickets := make([]*domain.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, mapError("scan ticket", err)
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list tickets", err)
	}
	return tickets, nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`
	t, err := scanTicket(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError("get ticket", err)
	}
	return t, nil
}

// GetByCode looks a ticket up by its unique code, case-insensitively.
func (r *ticketRepository) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE unique_code = $1`
	t, err := scanTicket(r.DB.QueryRowContext(ctx, query, domain.NormalizeCode(code)))
	if err != nil {
		return nil, mapError("get ticket by code", err)
	}
	return t, nil
}

func (r *ticketRepository) CountByTicketTypeID(ctx context.Context, ticketTypeID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets WHERE ticket_type_id = $1`, ticketTypeID).Scan(&n)
	if err != nil {
		return 0, mapError("count tickets by type", err)
	}
	return n, nil
}

func (r *ticketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	query := `
		INSERT INTO tickets (name, email, unique_code, ticket_type_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, t.Name, t.Email, t.UniqueCode, t.TicketTypeID, t.CreatedAt).Scan(&t.ID)
	return mapError("create ticket", err)
}

func (r *ticketRepository) Update(ctx context.Context, id string, upd domain.TicketUpdate) (*domain.Ticket, error) {
	query := `
		UPDATE tickets
		SET name = COALESCE($2, name),
			email = COALESCE($3, email),
			ticket_type_id = COALESCE($4, ticket_type_id)
		WHERE id = $1
		RETURNING ` + ticketColumns
	t, err := scanTicket(r.DB.QueryRowContext(ctx, query, id, upd.Name, upd.Email, upd.TicketTypeID))
	if err != nil {
		return nil, mapError("update ticket", err)
	}
	return t, nil
}

// Delete removes the ticket. Tickets with attendance events or a certificate are
// restricted by their foreign keys and fail with domain.ErrConflict.
func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		return mapError("delete ticket", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError("delete ticket", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
