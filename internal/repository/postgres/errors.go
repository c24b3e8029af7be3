package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"checkintracker/internal/domain"
)

// Postgres error codes mapped onto domain errors.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqInvalidTextRepr     = "22P02"
)

// mapError translates driver errors into the domain error taxonomy. op names the
// failing operation and is kept in the wrapped message.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation, pqForeignKeyViolation:
			return fmt.Errorf("%s: %w: %s", op, domain.ErrConflict, pqErr.Message)
		case pqInvalidTextRepr:
			// Malformed ids (e.g. not a UUID) can never resolve.
			return domain.ErrNotFound
		}
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
