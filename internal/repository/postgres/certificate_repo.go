package postgres

import (
	"context"
	"database/sql"
	"errors"

	"checkintracker/internal/domain"
)

type certificateRepository struct {
	DB *sql.DB
}

func NewCertificateRepository(db *sql.DB) domain.CertificateRepository {
	return &certificateRepository{
		DB: db,
	}
}

const certificateColumns = `id, ticket_id, participation_hours, generated_at, downloaded`

func scanCertificate(row interface{ Scan(...any) error }) (*domain.Certificate, error) {
	c := &domain.Certificate{}
	if err := row.Scan(&c.ID, &c.TicketID, &c.ParticipationHours, &c.GeneratedAt, &c.Downloaded); err != nil {
		return nil, err
	}
	return c, nil
}

// CreateIfAbsent relies on the UNIQUE(ticket_id) constraint: a concurrent or
// repeated insert for the same ticket is a no-op and the stored row is returned.
func (r *certificateRepository) CreateIfAbsent(ctx context.Context, c *domain.Certificate) (*domain.Certificate, bool, error) {
	query := `
		INSERT INTO certificates (ticket_id, participation_hours, generated_at, downloaded)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ticket_id) DO NOTHING
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, c.TicketID, c.ParticipationHours, c.GeneratedAt, c.Downloaded).Scan(&c.ID)
	if err == nil {
		return c, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, mapError("create certificate", err)
	}
	existing, err := r.GetByTicketID(ctx, c.TicketID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *certificateRepository) GetByID(ctx context.Context, id string) (*domain.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE id = $1`
	c, err := scanCertificate(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError("get certificate", err)
	}
	return c, nil
}

func (r *certificateRepository) GetByTicketID(ctx context.Context, ticketID string) (*domain.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE ticket_id = $1`
	c, err := scanCertificate(r.DB.QueryRowContext(ctx, query, ticketID))
	if err != nil {
		return nil, mapError("get certificate by ticket", err)
	}
	return c, nil
}

func (r *certificateRepository) List(ctx context.Context) ([]*domain.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates ORDER BY generated_at, id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError("list certificates", err)
	}
	defer rows.Close()

	certs := make([]*domain.Certificate, 0)
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, mapError("scan certificate", err)
		}
		certs = append(certs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list certificates", err)
	}
	return certs, nil
}

// MarkDownloaded sets the downloaded flag, the only mutable certificate field.
func (r *certificateRepository) MarkDownloaded(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE certificates SET downloaded = TRUE WHERE id = $1`, id)
	if err != nil {
		return mapError("mark certificate downloaded", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError("mark certificate downloaded", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
