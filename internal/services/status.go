package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"checkintracker/internal/attendance"
	"checkintracker/internal/domain"
)

type statusService struct {
	ticketRepo     domain.TicketRepository
	typeRepo       domain.TicketTypeRepository
	attendanceRepo domain.AttendanceRepository
	certRepo       domain.CertificateRepository
	cache          domain.Cache
	ttl            time.Duration
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewStatusService(ticketRepo domain.TicketRepository,
	typeRepo domain.TicketTypeRepository,
	attendanceRepo domain.AttendanceRepository,
	certRepo domain.CertificateRepository,
	cache domain.Cache,
	ttl time.Duration,
	logger *slog.Logger,
	timeout time.Duration,
) domain.StatusService {
	return &statusService{
		ticketRepo:     ticketRepo,
		typeRepo:       typeRepo,
		attendanceRepo: attendanceRepo,
		certRepo:       certRepo,
		cache:          cache,
		ttl:            ttl,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *statusService) GetStatus(ctx context.Context, ticketID string) (*domain.ParticipantStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return readThrough(ctx, s.cache, s.logger, statusKey(ticketID), s.ttl, func(ctx context.Context) (*domain.ParticipantStatus, error) {
		return s.loadStatus(ctx, ticketID)
	})
}

func (s *statusService) GetStatusByCode(ctx context.Context, code string) (*domain.ParticipantStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	t, err := s.ticketRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find ticket by code: %w", err)
	}
	return s.GetStatus(ctx, t.ID)
}

func (s *statusService) loadStatus(ctx context.Context, ticketID string) (*domain.ParticipantStatus, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	tt, err := s.typeRepo.GetByID(ctx, ticket.TicketTypeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("ticket %s references missing ticket type %s: %w", ticket.ID, ticket.TicketTypeID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get ticket type: %w", err)
	}
	events, err := s.attendanceRepo.ListByTicketID(ctx, ticket.ID)
	if err != nil {
		return nil, fmt.Errorf("list attendance events: %w", err)
	}
	generated := true
	if _, err := s.certRepo.GetByTicketID(ctx, ticket.ID); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get certificate: %w", err)
		}
		generated = false
	}
	return resolveStatus(ticket, tt, events, generated), nil
}

// GetAllStatuses loads the four collections once and resolves every ticket in
// memory. Tickets whose type no longer exists are skipped.
func (s *statusService) GetAllStatuses(ctx context.Context) ([]*domain.ParticipantStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return readThrough(ctx, s.cache, s.logger, domain.CacheKeyParticipantsStatus, s.ttl, s.loadAllStatuses)
}

func (s *statusService) loadAllStatuses(ctx context.Context) ([]*domain.ParticipantStatus, error) {
	tickets, err := s.ticketRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	types, err := s.typeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ticket types: %w", err)
	}
	events, err := s.attendanceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list attendance events: %w", err)
	}
	certs, err := s.certRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}

	typeByID := make(map[string]*domain.TicketType, len(types))
	for _, tt := range types {
		typeByID[tt.ID] = tt
	}
	// Grouping keeps the store order within each ticket, which the accrual
	// uses to break timestamp ties.
	eventsByTicket := make(map[string][]*domain.AttendanceEvent)
	for _, e := range events {
		eventsByTicket[e.TicketID] = append(eventsByTicket[e.TicketID], e)
	}
	generated := make(map[string]bool, len(certs))
	for _, c := range certs {
		generated[c.TicketID] = true
	}

	statuses := make([]*domain.ParticipantStatus, 0, len(tickets))
	for _, t := range tickets {
		tt, ok := typeByID[t.TicketTypeID]
		if !ok {
			s.logger.Warn("skipping ticket with missing ticket type", "ticket_id", t.ID, "ticket_type_id", t.TicketTypeID)
			continue
		}
		statuses = append(statuses, resolveStatus(t, tt, eventsByTicket[t.ID], generated[t.ID]))
	}
	return statuses, nil
}

// resolveStatus is the single computation shared by the single and bulk paths.
func resolveStatus(t *domain.Ticket, tt *domain.TicketType, events []*domain.AttendanceEvent, certificateGenerated bool) *domain.ParticipantStatus {
	summary := attendance.Accrue(events)
	hours := summary.TotalHours()
	return &domain.ParticipantStatus{
		Ticket:                   t,
		TicketType:               tt,
		IsCheckedIn:              summary.IsCheckedIn,
		TotalHours:               hours,
		IsEligibleForCertificate: hours >= tt.MinimumHoursForCertificate,
		CertificateGenerated:     certificateGenerated,
		LastCheckIn:              summary.LastCheckIn,
		CheckHistory:             summary.History,
	}
}
