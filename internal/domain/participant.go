package domain

import (
	"context"
	"time"
)

// ParticipantStatus is the derived view of one ticket's attendance. It is never persisted.
// swagger:model ParticipantStatus
type ParticipantStatus struct {
	Ticket                   *Ticket            `json:"ticket"`
	TicketType               *TicketType        `json:"ticket_type"`
	IsCheckedIn              bool               `json:"is_checked_in"`
	TotalHours               float64            `json:"total_hours"`
	IsEligibleForCertificate bool               `json:"is_eligible_for_certificate"`
	CertificateGenerated     bool               `json:"certificate_generated"`
	LastCheckIn              *time.Time         `json:"last_check_in,omitempty"`
	CheckHistory             []*AttendanceEvent `json:"check_history"`
}

// CertificateState is the issuance state of a ticket.
type CertificateState string

const (
	StateNotEligible          CertificateState = "not_eligible"
	StateEligible             CertificateState = "eligible"
	StateCertificateGenerated CertificateState = "certificate_generated"
)

// CertificateState derives the issuance state from the status.
func (p *ParticipantStatus) CertificateState() CertificateState {
	switch {
	case p.CertificateGenerated:
		return StateCertificateGenerated
	case p.IsEligibleForCertificate:
		return StateEligible
	default:
		return StateNotEligible
	}
}

// ParticipantsReport summarises all participant statuses at a point in time.
// swagger:model ParticipantsReport
type ParticipantsReport struct {
	TotalParticipants      int                  `json:"total_participants"`
	CheckedInCount         int                  `json:"checked_in_count"`
	EligibleForCertificate int                  `json:"eligible_for_certificate"`
	CertificatesGenerated  int                  `json:"certificates_generated"`
	Participants           []*ParticipantStatus `json:"participants"`
	ReportGeneratedAt      time.Time            `json:"report_generated_at"`
}

// CheckOutResult is returned by a check-out. Certificate is set when the check-out issued one.
type CheckOutResult struct {
	Event       *AttendanceEvent `json:"event"`
	Certificate *Certificate     `json:"certificate,omitempty"`
}

// ImportItem is one participant entry of a bulk import file.
type ImportItem struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Sector  string `json:"sector"`
	Codebar string `json:"codebar,omitempty"`
}

// ImportResult aggregates the outcome of a bulk import. Errors holds one message per rejected item.
// swagger:model ImportResult
type ImportResult struct {
	ImportedTypes   int      `json:"imported_types"`
	ImportedTickets int      `json:"imported_tickets"`
	Errors          []string `json:"errors"`
}

// CatalogService manages ticket types and tickets.
type CatalogService interface {
	ListTicketTypes(ctx context.Context) ([]*TicketType, error)
	CreateTicketType(ctx context.Context, tt *TicketType) error
	UpdateTicketType(ctx context.Context, id string, upd TicketTypeUpdate) (*TicketType, error)
	DeleteTicketType(ctx context.Context, id string) error

	ListTickets(ctx context.Context) ([]*Ticket, error)
	GetTicket(ctx context.Context, id string) (*Ticket, error)
	CreateTicket(ctx context.Context, t *Ticket) error
	UpdateTicket(ctx context.Context, id string, upd TicketUpdate) (*Ticket, error)
	DeleteTicket(ctx context.Context, id string) error
	FindTicketByCode(ctx context.Context, code string) (*Ticket, error)
	ImportTickets(ctx context.Context, items []ImportItem) (*ImportResult, error)
}

// StatusService resolves participant statuses.
type StatusService interface {
	GetStatus(ctx context.Context, ticketID string) (*ParticipantStatus, error)
	GetStatusByCode(ctx context.Context, code string) (*ParticipantStatus, error)
	GetAllStatuses(ctx context.Context) ([]*ParticipantStatus, error)
}

// AttendanceService records check-ins and check-outs. A nil timestamp means now.
type AttendanceService interface {
	CheckIn(ctx context.Context, ticketID string, ts *time.Time) (*AttendanceEvent, error)
	CheckOut(ctx context.Context, ticketID string, ts *time.Time) (*CheckOutResult, error)
}

// CertificateService issues and serves certificates.
type CertificateService interface {
	GenerateCertificate(ctx context.Context, ticketID string) (*Certificate, error)
	ListCertificates(ctx context.Context) ([]*Certificate, error)
	GetCertificateDocument(ctx context.Context, certificateID string) (*CertificateDocument, error)
}

// ReportService builds participant reports.
type ReportService interface {
	ParticipantsReport(ctx context.Context) (*ParticipantsReport, error)
	ParticipantsCSV(ctx context.Context) ([]byte, error)
}
