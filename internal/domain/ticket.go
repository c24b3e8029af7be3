package domain

import (
	"context"
	"strings"
	"time"
)

// TicketType is a category of ticket carrying its own certificate threshold.
// swagger:model TicketType
type TicketType struct {
	ID                         string    `json:"id"`
	Name                       string    `json:"name"`
	MinimumHoursForCertificate float64   `json:"minimum_hours_for_certificate"`
	CreatedAt                  time.Time `json:"created_at"`
}

// NewTicketType returns a new TicketType. ID is typically set by the repository on create.
func NewTicketType(name string, minimumHours float64, createdAt time.Time) *TicketType {
	return &TicketType{
		Name:                       name,
		MinimumHoursForCertificate: minimumHours,
		CreatedAt:                  createdAt,
	}
}

// Validate checks the fields a ticket type must carry.
func (t *TicketType) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return NewValidationError("name", "is required")
	}
	if t.MinimumHoursForCertificate < 0 {
		return NewValidationError("minimum_hours_for_certificate", "must be zero or positive")
	}
	return nil
}

// TicketTypeUpdate holds the optional fields of a ticket type update.
type TicketTypeUpdate struct {
	Name                       *string  `json:"name,omitempty"`
	MinimumHoursForCertificate *float64 `json:"minimum_hours_for_certificate,omitempty"`
}

// Ticket is a participant's registration, identified by a unique code.
// swagger:model Ticket
type Ticket struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	UniqueCode   string    `json:"unique_code"`
	TicketTypeID string    `json:"ticket_type_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewTicket returns a new Ticket. ID is typically set by the repository on create.
func NewTicket(name, email, uniqueCode, ticketTypeID string, createdAt time.Time) *Ticket {
	return &Ticket{
		Name:         name,
		Email:        email,
		UniqueCode:   uniqueCode,
		TicketTypeID: ticketTypeID,
		CreatedAt:    createdAt,
	}
}

// Validate checks the fields a ticket must carry. UniqueCode may be empty; it is generated on create.
func (t *Ticket) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return NewValidationError("name", "is required")
	}
	if strings.TrimSpace(t.TicketTypeID) == "" {
		return NewValidationError("ticket_type_id", "is required")
	}
	if t.UniqueCode != "" && !IsValidUniqueCode(t.UniqueCode) {
		return NewValidationError("unique_code", "must contain only letters, digits, '-' or '_'")
	}
	return nil
}

// TicketUpdate holds the optional fields of a ticket update. The unique code is immutable.
type TicketUpdate struct {
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty"`
	TicketTypeID *string `json:"ticket_type_id,omitempty"`
}

// NormalizeCode returns the lookup form of a ticket code.
func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// IsValidUniqueCode reports whether code is URL and QR safe.
func IsValidUniqueCode(code string) bool {
	if code == "" {
		return false
	}
	for _, c := range code {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}

// TicketTypeRepository defines storage operations for ticket types.
type TicketTypeRepository interface {
	List(ctx context.Context) ([]*TicketType, error)
	GetByID(ctx context.Context, id string) (*TicketType, error)
	Create(ctx context.Context, tt *TicketType) error
	Update(ctx context.Context, id string, upd TicketTypeUpdate) (*TicketType, error)
	Delete(ctx context.Context, id string) error
}

// TicketRepository defines storage operations for tickets.
type TicketRepository interface {
	List(ctx context.Context) ([]*Ticket, error)
	GetByID(ctx context.Context, id string) (*Ticket, error)
	GetByCode(ctx context.Context, code string) (*Ticket, error)
	CountByTicketTypeID(ctx context.Context, ticketTypeID string) (int, error)
	Create(ctx context.Context, t *Ticket) error
	Update(ctx context.Context, id string, upd TicketUpdate) (*Ticket, error)
	Delete(ctx context.Context, id string) error
}
