package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"checkintracker/internal/domain"
)

type attendanceService struct {
	ticketRepo     domain.TicketRepository
	attendanceRepo domain.AttendanceRepository
	status         domain.StatusService
	certificates   domain.CertificateService
	cache          domain.Cache
	publisher      domain.EventPublisher
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

func NewAttendanceService(ticketRepo domain.TicketRepository,
	attendanceRepo domain.AttendanceRepository,
	status domain.StatusService,
	certificates domain.CertificateService,
	cache domain.Cache,
	publisher domain.EventPublisher,
	logger *slog.Logger,
	timeout time.Duration,
) domain.AttendanceService {
	return &attendanceService{
		ticketRepo:     ticketRepo,
		attendanceRepo: attendanceRepo,
		status:         status,
		certificates:   certificates,
		cache:          cache,
		publisher:      publisher,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *attendanceService) CheckIn(ctx context.Context, ticketID string, ts *time.Time) (*domain.AttendanceEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.record(ctx, ticketID, ts, domain.CheckIn)
}

// CheckOut records the check-out and then issues the certificate when the
// refreshed status is eligible and none exists yet. Issuance failures are
// logged; the check-out itself is already durable.
func (s *attendanceService) CheckOut(ctx context.Context, ticketID string, ts *time.Time) (*domain.CheckOutResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.record(ctx, ticketID, ts, domain.CheckOut)
	if err != nil {
		return nil, err
	}
	result := &domain.CheckOutResult{Event: event}

	status, err := s.status.GetStatus(ctx, event.TicketID)
	if err != nil {
		s.logger.Error("resolve status after check-out failed", "ticket_id", event.TicketID, "error", err)
		return result, nil
	}
	if !status.IsEligibleForCertificate || status.CertificateGenerated {
		return result, nil
	}
	cert, err := s.certificates.GenerateCertificate(ctx, event.TicketID)
	if err != nil {
		s.logger.Error("automatic certificate issuance failed", "ticket_id", event.TicketID, "error", err)
		return result, nil
	}
	result.Certificate = cert
	return result, nil
}

func (s *attendanceService) record(ctx context.Context, ticketID string, ts *time.Time, kind domain.AttendanceKind) (*domain.AttendanceEvent, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}

	now := s.now().UTC()
	at := now
	if ts != nil {
		at = ts.UTC()
	}
	event := domain.NewAttendanceEvent(ticket.ID, at, kind, now)
	if err := event.Validate(); err != nil {
		return nil, err
	}
	if err := s.attendanceRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create attendance event: %w", err)
	}
	invalidate(ctx, s.cache, s.logger, domain.CacheKeyParticipantsStatus)

	s.logger.Info("attendance recorded",
		"ticket_id", ticket.ID,
		"kind", string(kind),
		"timestamp", at.Format(time.RFC3339),
		"backdated", ts != nil,
	)
	publish(ctx, s.publisher, s.logger, domain.NewNotification(domain.NotificationAttendanceRecorded, ticket.ID, event, now))
	return event, nil
}
