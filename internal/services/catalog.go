package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"checkintracker/internal/domain"
)

type catalogService struct {
	typeRepo       domain.TicketTypeRepository
	ticketRepo     domain.TicketRepository
	cache          domain.Cache
	ttl            CacheTTLs
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

func NewCatalogService(typeRepo domain.TicketTypeRepository,
	ticketRepo domain.TicketRepository,
	cache domain.Cache,
	ttl CacheTTLs,
	logger *slog.Logger,
	timeout time.Duration,
) domain.CatalogService {
	return &catalogService{
		typeRepo:       typeRepo,
		ticketRepo:     ticketRepo,
		cache:          cache,
		ttl:            ttl,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *catalogService) ListTicketTypes(ctx context.Context) ([]*domain.TicketType, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	types, err := readThrough(ctx, s.cache, s.logger, domain.CacheKeyTicketTypes, s.ttl.TicketTypes, s.typeRepo.List)
	if err != nil {
		return nil, fmt.Errorf("list ticket types: %w", err)
	}
	return types, nil
}

func (s *catalogService) CreateTicketType(ctx context.Context, tt *domain.TicketType) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	tt.Name = strings.TrimSpace(tt.Name)
	if err := tt.Validate(); err != nil {
		return err
	}
	tt.CreatedAt = s.now()
	if err := s.typeRepo.Create(ctx, tt); err != nil {
		return fmt.Errorf("create ticket type: %w", err)
	}
	invalidate(ctx, s.cache, s.logger, domain.CacheKeyTicketTypes)
	return nil
}

func (s *catalogService) UpdateTicketType(ctx context.Context, id string, upd domain.TicketTypeUpdate) (*domain.TicketType, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "must not be empty")
		}
		upd.Name = &name
	}
	if upd.MinimumHoursForCertificate != nil && *upd.MinimumHoursForCertificate < 0 {
		return nil, domain.NewValidationError("minimum_hours_for_certificate", "must be zero or positive")
	}

	updated, err := s.typeRepo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update ticket type: %w", err)
	}
	// Statuses embed the type and its threshold.
	invalidate(ctx, s.cache, s.logger, domain.CacheKeyTicketTypes, domain.CacheKeyParticipantsStatus)
	return updated, nil
}

func (s *catalogService) DeleteTicketType(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	n, err := s.ticketRepo.CountByTicketTypeID(ctx, id)
	if err != nil {
		return fmt.Errorf("count tickets by type: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("ticket type is referenced by %d ticket(s): %w", n, domain.ErrConflict)
	}
	if err := s.typeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete ticket type: %w", err)
	}
	invalidate(ctx, s.cache, s.logger, domain.CacheKeyTicketTypes)
	return nil
}

func (s *catalogService) ListTickets(ctx context.Context) ([]*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	tickets, err := readThrough(ctx, s.cache, s.logger, domain.CacheKeyTickets, s.ttl.Tickets, s.ticketRepo.List)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}

func (s *catalogService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	t, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return t, nil
}

func (s *catalogService) CreateTicket(ctx context.Context, t *domain.Ticket) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	t.Name = strings.TrimSpace(t.Name)
	t.Email = strings.TrimSpace(t.Email)
	t.UniqueCode = domain.NormalizeCode(t.UniqueCode)
	if err := t.Validate(); err != nil {
		return err
	}
	if err := s.requireTicketType(ctx, t.TicketTypeID); err != nil {
		return err
	}
	t.CreatedAt = s.now()
	if err := s.createTicket(ctx, t); err != nil {
		return err
	}
	invalidate(ctx, s.cache, s.logger, domain.CacheKeyTickets, domain.CacheKeyParticipantsStatus)
	return nil
}

const generateCodeAttempts = 3

// createTicket stores t, generating a unique code when none was supplied.
// A generated code that collides is regenerated; a supplied one is a Conflict.
func (s *catalogService) createTicket(ctx context.Context, t *domain.Ticket) error {
	if t.UniqueCode != "" {
		if err := s.ticketRepo.Create(ctx, t); err != nil {
			return fmt.Errorf("create ticket: %w", err)
		}
		return nil
	}
	var err error
	for range generateCodeAttempts {
		code, genErr := generateTicketCode()
		if genErr != nil {
			return fmt.Errorf("generate ticket code: %w", genErr)
		}
		t.UniqueCode = code
		err = s.ticketRepo.Create(ctx, t)
		if !errors.Is(err, domain.ErrConflict) {
			break
		}
	}
	if err != nil {
		t.UniqueCode = ""
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

func (s *catalogService) requireTicketType(ctx context.Context, id string) error {
	if _, err := s.typeRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewValidationError("ticket_type_id", "does not reference an existing ticket type")
		}
		return fmt.Errorf("get ticket type: %w", err)
	}
	return nil
}

func (s *catalogService) UpdateTicket(ctx context.Context, id string, upd domain.TicketUpdate) (*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "must not be empty")
		}
		upd.Name = &name
	}
	if upd.Email != nil {
		email := strings.TrimSpace(*upd.Email)
		upd.Email = &email
	}
	if upd.TicketTypeID != nil {
		if err := s.requireTicketType(ctx, *upd.TicketTypeID); err != nil {
			return nil, err
		}
	}

	updated, err := s.ticketRepo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update ticket: %w", err)
	}
	invalidate(ctx, s.cache, s.logger, domain.CacheKeyTickets, domain.CacheKeyParticipantsStatus)
	return updated, nil
}

func (s *catalogService) DeleteTicket(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.ticketRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return domain.ErrNotFound
		case errors.Is(err, domain.ErrConflict):
			return fmt.Errorf("ticket has attendance history or a certificate: %w", domain.ErrConflict)
		}
		return fmt.Errorf("delete ticket: %w", err)
	}
	invalidate(ctx, s.cache, s.logger, domain.CacheKeyTickets, domain.CacheKeyParticipantsStatus)
	return nil
}

func (s *catalogService) FindTicketByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	code = domain.NormalizeCode(code)
	if code == "" {
		return nil, domain.NewValidationError("code", "is required")
	}
	t, err := s.ticketRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find ticket by code: %w", err)
	}
	return t, nil
}

// ImportTickets creates one ticket per item, creating missing ticket types by
// sector name. Invalid or duplicate items are reported and skipped; the rest
// of the batch is still processed.
func (s *catalogService) ImportTickets(ctx context.Context, items []domain.ImportItem) (*domain.ImportResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	types, err := s.typeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ticket types: %w", err)
	}
	tickets, err := s.ticketRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	typeByName := make(map[string]*domain.TicketType, len(types))
	for _, tt := range types {
		typeByName[strings.ToLower(tt.Name)] = tt
	}
	emails := make(map[string]bool, len(tickets))
	codes := make(map[string]bool, len(tickets))
	for _, t := range tickets {
		if t.Email != "" {
			emails[strings.ToLower(t.Email)] = true
		}
		codes[t.UniqueCode] = true
	}

	result := &domain.ImportResult{Errors: []string{}}
	for i, item := range items {
		name := strings.TrimSpace(item.Name)
		email := strings.TrimSpace(item.Email)
		sector := strings.TrimSpace(item.Sector)
		code := domain.NormalizeCode(item.Codebar)
		fail := func(err error) {
			result.Errors = append(result.Errors, fmt.Sprintf("item %d (%s): %v", i+1, name, err))
		}

		if name == "" || email == "" || sector == "" {
			fail(domain.NewValidationError("", "name, email and sector are required"))
			continue
		}
		if emails[strings.ToLower(email)] {
			fail(fmt.Errorf("email %s already registered: %w", email, domain.ErrConflict))
			continue
		}
		if code != "" {
			if !domain.IsValidUniqueCode(code) {
				fail(domain.NewValidationError("codebar", "must contain only letters, digits, '-' or '_'"))
				continue
			}
			if codes[code] {
				fail(fmt.Errorf("code %s already in use: %w", code, domain.ErrConflict))
				continue
			}
		}

		tt, ok := typeByName[strings.ToLower(sector)]
		if !ok {
			tt = domain.NewTicketType(sector, 0, s.now())
			if err := s.typeRepo.Create(ctx, tt); err != nil {
				fail(err)
				continue
			}
			typeByName[strings.ToLower(sector)] = tt
			result.ImportedTypes++
		}

		t := domain.NewTicket(name, email, code, tt.ID, s.now())
		if err := s.createTicket(ctx, t); err != nil {
			fail(err)
			continue
		}
		emails[strings.ToLower(email)] = true
		codes[t.UniqueCode] = true
		result.ImportedTickets++
	}

	if result.ImportedTypes > 0 || result.ImportedTickets > 0 {
		invalidate(ctx, s.cache, s.logger, domain.CacheKeyTicketTypes, domain.CacheKeyTickets, domain.CacheKeyParticipantsStatus)
	}
	s.logger.Info("tickets imported",
		"items", len(items),
		"types", result.ImportedTypes,
		"tickets", result.ImportedTickets,
		"errors", len(result.Errors),
	)
	return result, nil
}

const ticketCodeLength = 12

var ticketCodeAlphabet = []rune("abcdefghijklmnopqrstuvwxyz0123456789")

func generateTicketCode() (string, error) {
	b := make([]rune, ticketCodeLength)
	max := big.NewInt(int64(len(ticketCodeAlphabet)))
	for i := 0; i < ticketCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = ticketCodeAlphabet[n.Int64()]
	}
	return string(b), nil
}
