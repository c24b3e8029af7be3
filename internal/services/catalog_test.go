package services

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"checkintracker/internal/cache"
	"checkintracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_CreateTicketType(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		input   *domain.TicketType
		wantErr error
	}{
		{name: "valid", input: &domain.TicketType{Name: " Speaker ", MinimumHoursForCertificate: 4}},
		{name: "zero hours", input: &domain.TicketType{Name: "General"}},
		{name: "missing name", input: &domain.TicketType{Name: "  "}, wantErr: domain.ErrInvalidInput},
		{name: "negative hours", input: &domain.TicketType{Name: "Staff", MinimumHoursForCertificate: -1}, wantErr: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(cache.Disabled{}, at(8, 0))
			err := e.catalog.CreateTicketType(ctx, tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, tt.input.ID)
			assert.Equal(t, at(8, 0), tt.input.CreatedAt)
			assert.NotContains(t, tt.input.Name, " ")
		})
	}
}

func TestCatalogService_ListTicketTypes_ReadAfterWrite(t *testing.T) {
	ctx := context.Background()
	e := newEngine(cache.NewMemory(fixedClock(at(8, 0))), at(8, 0))
	e.types.add("General", 0)

	types, err := e.catalog.ListTicketTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 1)

	// served from cache
	_, err = e.catalog.ListTicketTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, e.types.calls)

	require.NoError(t, e.catalog.CreateTicketType(ctx, &domain.TicketType{Name: "Speaker", MinimumHoursForCertificate: 2}))
	types, err = e.catalog.ListTicketTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 2)
}

func TestCatalogService_UpdateTicketType_RefreshesStatuses(t *testing.T) {
	ctx := context.Background()
	e := newEngine(cache.NewMemory(fixedClock(at(18, 0))), at(18, 0))
	ticketType := e.types.add("General", 4)
	ticket := e.tickets.add("Ana", "", "abc123", ticketType.ID)
	e.events.add(ticket.ID, domain.CheckIn, at(9, 0))
	e.events.add(ticket.ID, domain.CheckOut, at(11, 0))

	status, err := e.status.GetStatus(ctx, ticket.ID)
	require.NoError(t, err)
	require.False(t, status.IsEligibleForCertificate)

	updated, err := e.catalog.UpdateTicketType(ctx, ticketType.ID, domain.TicketTypeUpdate{MinimumHoursForCertificate: ptr(2.0)})
	require.NoError(t, err)
	assert.Equal(t, 2.0, updated.MinimumHoursForCertificate)

	status, err = e.status.GetStatus(ctx, ticket.ID)
	require.NoError(t, err)
	assert.True(t, status.IsEligibleForCertificate)

	_, err = e.catalog.UpdateTicketType(ctx, ticketType.ID, domain.TicketTypeUpdate{MinimumHoursForCertificate: ptr(-1.0)})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = e.catalog.UpdateTicketType(ctx, "missing", domain.TicketTypeUpdate{Name: ptr("x")})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogService_DeleteTicketType(t *testing.T) {
	ctx := context.Background()
	e := newEngine(cache.Disabled{}, at(8, 0))
	used := e.types.add("General", 0)
	unused := e.types.add("Staff", 0)
	e.tickets.add("Ana", "", "abc123", used.ID)

	err := e.catalog.DeleteTicketType(ctx, used.ID)
	require.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, e.catalog.DeleteTicketType(ctx, unused.ID))
	require.ErrorIs(t, e.catalog.DeleteTicketType(ctx, unused.ID), domain.ErrNotFound)
}

func TestCatalogService_CreateTicket(t *testing.T) {
	ctx := context.Background()
	codePattern := regexp.MustCompile(`^[a-z0-9]{12}$`)

	tests := []struct {
		name     string
		ticket   func(typeID string) *domain.Ticket
		wantCode string
		wantErr  error
	}{
		{
			name:   "generated code",
			ticket: func(typeID string) *domain.Ticket { return &domain.Ticket{Name: "Ana", TicketTypeID: typeID} },
		},
		{
			name: "supplied code is normalised",
			ticket: func(typeID string) *domain.Ticket {
				return &domain.Ticket{Name: "Ana", UniqueCode: " VIP-001 ", TicketTypeID: typeID}
			},
			wantCode: "vip-001",
		},
		{
			name: "duplicate code",
			ticket: func(typeID string) *domain.Ticket {
				return &domain.Ticket{Name: "Ana", UniqueCode: "taken", TicketTypeID: typeID}
			},
			wantErr: domain.ErrConflict,
		},
		{
			name: "unknown ticket type",
			ticket: func(string) *domain.Ticket {
				return &domain.Ticket{Name: "Ana", TicketTypeID: "tt-404"}
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "bad code characters",
			ticket: func(typeID string) *domain.Ticket {
				return &domain.Ticket{Name: "Ana", UniqueCode: "a b", TicketTypeID: typeID}
			},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(cache.Disabled{}, at(8, 0))
			ticketType := e.types.add("General", 0)
			e.tickets.add("Bruno", "", "taken", ticketType.ID)

			ticket := tt.ticket(ticketType.ID)
			err := e.catalog.CreateTicket(ctx, ticket)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, ticket.UniqueCode)
			} else {
				assert.Regexp(t, codePattern, ticket.UniqueCode)
			}
		})
	}
}

func TestCatalogService_FindTicketByCode(t *testing.T) {
	ctx := context.Background()
	e := newEngine(cache.Disabled{}, at(8, 0))
	ticketType := e.types.add("General", 0)
	ticket := e.tickets.add("Ana", "", "abc123", ticketType.ID)

	got, err := e.catalog.FindTicketByCode(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, got.ID)

	_, err = e.catalog.FindTicketByCode(ctx, "zzz")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = e.catalog.FindTicketByCode(ctx, "  ")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCatalogService_UpdateAndDeleteTicket(t *testing.T) {
	ctx := context.Background()
	e := newEngine(cache.NewMemory(fixedClock(at(8, 0))), at(8, 0))
	general := e.types.add("General", 0)
	speaker := e.types.add("Speaker", 2)
	ticket := e.tickets.add("Ana", "", "abc123", general.ID)

	tickets, err := e.catalog.ListTickets(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 1)

	updated, err := e.catalog.UpdateTicket(ctx, ticket.ID, domain.TicketUpdate{TicketTypeID: &speaker.ID, Name: ptr(" Ana Maria ")})
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", updated.Name)
	assert.Equal(t, speaker.ID, updated.TicketTypeID)

	_, err = e.catalog.UpdateTicket(ctx, ticket.ID, domain.TicketUpdate{TicketTypeID: ptr("tt-404")})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, e.catalog.DeleteTicket(ctx, ticket.ID))
	tickets, err = e.catalog.ListTickets(ctx)
	require.NoError(t, err)
	assert.Empty(t, tickets)
	require.ErrorIs(t, e.catalog.DeleteTicket(ctx, ticket.ID), domain.ErrNotFound)
}

func TestCatalogService_DeleteTicketWithHistory(t *testing.T) {
	ctx := context.Background()
	e := newEngine(cache.Disabled{}, at(8, 0))
	general := e.types.add("General", 0)
	ticket := e.tickets.add("Ana", "", "abc123", general.ID)
	e.tickets.deleteErr = fmt.Errorf("delete ticket: %w", domain.ErrConflict)

	err := e.catalog.DeleteTicket(ctx, ticket.ID)
	require.ErrorIs(t, err, domain.ErrConflict)

	got, err := e.catalog.GetTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, got.ID)
}

func TestCatalogService_ImportTickets(t *testing.T) {
	ctx := context.Background()
	e := newEngine(cache.Disabled{}, at(8, 0))
	e.types.add("Speaker", 4)
	e.tickets.add("Existing", "old@example.com", "old001", "tt-1")

	items := []domain.ImportItem{
		{Name: "Ana", Email: "ana@example.com", Sector: "speaker"},
		{Name: "Bruno", Email: "bruno@example.com", Sector: "Volunteers", Codebar: "VOL-1"},
		{Name: "Carla", Email: "carla@example.com", Sector: "volunteers"},
		{Name: "", Email: "x@example.com", Sector: "Speaker"},
		{Name: "Dup", Email: "OLD@example.com", Sector: "Speaker"},
		{Name: "Code clash", Email: "clash@example.com", Sector: "Speaker", Codebar: "vol-1"},
		{Name: "Bad code", Email: "bad@example.com", Sector: "Speaker", Codebar: "a b"},
	}

	res, err := e.catalog.ImportTickets(ctx, items)
	require.NoError(t, err)
	assert.Equal(t, 1, res.ImportedTypes)
	assert.Equal(t, 3, res.ImportedTickets)
	assert.Len(t, res.Errors, 4)

	volunteers, err := e.tickets.GetByCode(ctx, "vol-1")
	require.NoError(t, err)
	tt, err := e.types.GetByID(ctx, volunteers.TicketTypeID)
	require.NoError(t, err)
	assert.Equal(t, "Volunteers", tt.Name)
	assert.Zero(t, tt.MinimumHoursForCertificate)

	types, err := e.types.List(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 2)
}

func TestCatalogService_ImportTickets_EmptyBatch(t *testing.T) {
	e := newEngine(cache.Disabled{}, at(8, 0))

	res, err := e.catalog.ImportTickets(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, res.ImportedTickets)
	assert.NotNil(t, res.Errors)
}

func TestGenerateTicketCode(t *testing.T) {
	seen := make(map[string]bool)
	for range 200 {
		code, err := generateTicketCode()
		require.NoError(t, err)
		require.True(t, domain.IsValidUniqueCode(code))
		require.Len(t, code, ticketCodeLength)
		seen[code] = true
	}
	assert.Len(t, seen, 200)
}
