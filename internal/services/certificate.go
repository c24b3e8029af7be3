package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"checkintracker/internal/domain"
)

type certificateService struct {
	ticketRepo     domain.TicketRepository
	certRepo       domain.CertificateRepository
	status         domain.StatusService
	renderer       domain.CertificateRenderer
	emailService   domain.EmailService
	publisher      domain.EventPublisher
	cache          domain.Cache
	eventName      string
	locks          *keyedMutex
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

func NewCertificateService(ticketRepo domain.TicketRepository,
	certRepo domain.CertificateRepository,
	status domain.StatusService,
	renderer domain.CertificateRenderer,
	emailService domain.EmailService,
	publisher domain.EventPublisher,
	cache domain.Cache,
	eventName string,
	logger *slog.Logger,
	timeout time.Duration,
) domain.CertificateService {
	return &certificateService{
		ticketRepo:     ticketRepo,
		certRepo:       certRepo,
		status:         status,
		renderer:       renderer,
		emailService:   emailService,
		publisher:      publisher,
		cache:          cache,
		eventName:      eventName,
		locks:          newKeyedMutex(),
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// GenerateCertificate issues the ticket's certificate at most once. Calls for the
// same ticket are serialized in-process and the store insert is conditional on
// ticket_id, so repeated or concurrent calls return the one stored certificate.
func (s *certificateService) GenerateCertificate(ctx context.Context, ticketID string) (*domain.Certificate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	unlock := s.locks.Lock(ticketID)
	defer unlock()

	existing, err := s.certRepo.GetByTicketID(ctx, ticketID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get certificate: %w", err)
	}

	// Drop any cached snapshot so eligibility is decided on the stored events.
	invalidate(ctx, s.cache, s.logger, statusKey(ticketID))
	status, err := s.status.GetStatus(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !status.IsEligibleForCertificate {
		return nil, fmt.Errorf("ticket %s has %.2f of %.2f hours: %w",
			ticketID, status.TotalHours, status.TicketType.MinimumHoursForCertificate, domain.ErrNotEligible)
	}

	cert := domain.NewCertificate(ticketID, status.TotalHours, s.now().UTC())
	stored, created, err := s.certRepo.CreateIfAbsent(ctx, cert)
	if err != nil {
		return nil, fmt.Errorf("create certificate: %w", err)
	}
	invalidate(ctx, s.cache, s.logger, domain.CacheKeyParticipantsStatus)
	if !created {
		return stored, nil
	}

	s.logger.Info("certificate issued", "ticket_id", ticketID, "certificate_id", stored.ID, "hours", stored.ParticipationHours)
	s.deliver(ctx, status.Ticket, stored)
	return stored, nil
}

// deliver renders, mails and announces a freshly issued certificate. The record
// is already durable, so every failure here is logged and dropped.
func (s *certificateService) deliver(ctx context.Context, ticket *domain.Ticket, cert *domain.Certificate) {
	doc, err := s.renderer.Render(ticket, cert)
	if err != nil {
		s.logger.Error("render certificate failed", "ticket_id", ticket.ID, "certificate_id", cert.ID, "error", err)
	}
	if doc != nil && ticket.Email != "" {
		data := &domain.CertificateIssuedEmailData{
			Email:     ticket.Email,
			Name:      ticket.Name,
			EventName: s.eventName,
			Hours:     strconv.FormatFloat(cert.ParticipationHours, 'f', 2, 64),
			Code:      ticket.UniqueCode,
			Document:  doc,
		}
		if err := s.emailService.SendCertificateIssued(ctx, data); err != nil {
			s.logger.Error("send certificate email failed", "ticket_id", ticket.ID, "certificate_id", cert.ID, "error", err)
		}
	}
	publish(ctx, s.publisher, s.logger, domain.NewNotification(domain.NotificationCertificateIssued, ticket.ID, cert, cert.GeneratedAt))
}

func (s *certificateService) ListCertificates(ctx context.Context) ([]*domain.Certificate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	certs, err := s.certRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	return certs, nil
}

// GetCertificateDocument renders the certificate and flags it as downloaded.
func (s *certificateService) GetCertificateDocument(ctx context.Context, certificateID string) (*domain.CertificateDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	cert, err := s.certRepo.GetByID(ctx, certificateID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get certificate: %w", err)
	}
	ticket, err := s.ticketRepo.GetByID(ctx, cert.TicketID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	doc, err := s.renderer.Render(ticket, cert)
	if err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}
	if !cert.Downloaded {
		if err := s.certRepo.MarkDownloaded(ctx, cert.ID); err != nil {
			return nil, fmt.Errorf("mark certificate downloaded: %w", err)
		}
	}
	return doc, nil
}

// keyedMutex hands out one mutex per key and forgets it once no caller holds it.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

// Lock blocks until key is free and returns its release func.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.mu.Lock()
	return func() {
		m.mu.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
