package domain

import (
	"context"
	"time"
)

// Certificate is the one-time record of completed participation for a ticket.
// swagger:model Certificate
type Certificate struct {
	ID                 string    `json:"id"`
	TicketID           string    `json:"ticket_id"`
	ParticipationHours float64   `json:"participation_hours"`
	GeneratedAt        time.Time `json:"generated_at"`
	Downloaded         bool      `json:"downloaded"`
}

// NewCertificate returns a new Certificate. ID is typically set by the repository on create.
func NewCertificate(ticketID string, hours float64, generatedAt time.Time) *Certificate {
	return &Certificate{
		TicketID:           ticketID,
		ParticipationHours: hours,
		GeneratedAt:        generatedAt,
	}
}

// CertificateRepository defines storage operations for certificates.
type CertificateRepository interface {
	// CreateIfAbsent inserts c unless a certificate already exists for c.TicketID.
	// It returns the stored certificate and whether this call created it.
	CreateIfAbsent(ctx context.Context, c *Certificate) (*Certificate, bool, error)
	GetByID(ctx context.Context, id string) (*Certificate, error)
	GetByTicketID(ctx context.Context, ticketID string) (*Certificate, error)
	List(ctx context.Context) ([]*Certificate, error)
	MarkDownloaded(ctx context.Context, id string) error
}

// CertificateDocument is a rendered certificate ready for delivery.
type CertificateDocument struct {
	Filename    string
	ContentType string
	Content     []byte
}

// CertificateRenderer renders the durable document for an issued certificate.
type CertificateRenderer interface {
	Render(ticket *Ticket, cert *Certificate) (*CertificateDocument, error)
}

// QRRenderer encodes a ticket code as a PNG image.
type QRRenderer interface {
	PNG(content string, size int) ([]byte, error)
}
