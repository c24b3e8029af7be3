package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"checkintracker/internal/delivery/http/helpers"
	"checkintracker/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// decodeEnvelope decodes the response envelope and unmarshals data into dest when dest is non-nil.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	if dest != nil {
		require.Nil(t, envelope.Error, "success response must have error nil")
		dataBytes, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(dataBytes, dest))
	}
	return envelope
}

// fakeCatalogService implements domain.CatalogService for handler tests.
type fakeCatalogService struct {
	err error

	ticketTypes []*domain.TicketType
	tickets     []*domain.Ticket
	importRes   *domain.ImportResult

	lastTicketType   *domain.TicketType
	lastTypeUpdate   domain.TicketTypeUpdate
	lastTicket       *domain.Ticket
	lastTicketUpdate domain.TicketUpdate
	lastID           string
	lastCode         string
	lastImport       []domain.ImportItem
}

func (f *fakeCatalogService) ListTicketTypes(ctx context.Context) ([]*domain.TicketType, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.ticketTypes == nil {
		return []*domain.TicketType{}, nil
	}
	return f.ticketTypes, nil
}

func (f *fakeCatalogService) CreateTicketType(ctx context.Context, tt *domain.TicketType) error {
	f.lastTicketType = tt
	if f.err != nil {
		return f.err
	}
	tt.ID = "tt-created"
	return nil
}

func (f *fakeCatalogService) UpdateTicketType(ctx context.Context, id string, upd domain.TicketTypeUpdate) (*domain.TicketType, error) {
	f.lastID = id
	f.lastTypeUpdate = upd
	if f.err != nil {
		return nil, f.err
	}
	tt := &domain.TicketType{ID: id, Name: "Standard", MinimumHoursForCertificate: 4}
	if upd.Name != nil {
		tt.Name = *upd.Name
	}
	if upd.MinimumHoursForCertificate != nil {
		tt.MinimumHoursForCertificate = *upd.MinimumHoursForCertificate
	}
	return tt, nil
}

func (f *fakeCatalogService) DeleteTicketType(ctx context.Context, id string) error {
	f.lastID = id
	return f.err
}

func (f *fakeCatalogService) ListTickets(ctx context.Context) ([]*domain.Ticket, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.tickets == nil {
		return []*domain.Ticket{}, nil
	}
	return f.tickets, nil
}

func (f *fakeCatalogService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	for _, t := range f.tickets {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCatalogService) CreateTicket(ctx context.Context, t *domain.Ticket) error {
	f.lastTicket = t
	if f.err != nil {
		return f.err
	}
	t.ID = "t-created"
	if t.UniqueCode == "" {
		t.UniqueCode = "generated0001"
	}
	return nil
}

func (f *fakeCatalogService) UpdateTicket(ctx context.Context, id string, upd domain.TicketUpdate) (*domain.Ticket, error) {
	f.lastID = id
	f.lastTicketUpdate = upd
	if f.err != nil {
		return nil, f.err
	}
	t := &domain.Ticket{ID: id, Name: "Ana", UniqueCode: "abc"}
	if upd.Name != nil {
		t.Name = *upd.Name
	}
	return t, nil
}

func (f *fakeCatalogService) DeleteTicket(ctx context.Context, id string) error {
	f.lastID = id
	return f.err
}

func (f *fakeCatalogService) FindTicketByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	f.lastCode = code
	if f.err != nil {
		return nil, f.err
	}
	for _, t := range f.tickets {
		if t.UniqueCode == domain.NormalizeCode(code) {
			return t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCatalogService) ImportTickets(ctx context.Context, items []domain.ImportItem) (*domain.ImportResult, error) {
	f.lastImport = items
	if f.err != nil {
		return nil, f.err
	}
	if f.importRes != nil {
		return f.importRes, nil
	}
	return &domain.ImportResult{ImportedTickets: len(items), Errors: []string{}}, nil
}

// fakeStatusService implements domain.StatusService.
type fakeStatusService struct {
	err      error
	statuses []*domain.ParticipantStatus
}

func (f *fakeStatusService) GetStatus(ctx context.Context, ticketID string) (*domain.ParticipantStatus, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.statuses {
		if s.Ticket.ID == ticketID {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeStatusService) GetStatusByCode(ctx context.Context, code string) (*domain.ParticipantStatus, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.statuses {
		if s.Ticket.UniqueCode == domain.NormalizeCode(code) {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeStatusService) GetAllStatuses(ctx context.Context) ([]*domain.ParticipantStatus, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.statuses == nil {
		return []*domain.ParticipantStatus{}, nil
	}
	return f.statuses, nil
}

// fakeAttendanceService implements domain.AttendanceService.
type fakeAttendanceService struct {
	err         error
	certificate *domain.Certificate

	lastTicketID  string
	lastTimestamp *time.Time
}

var fakeNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func (f *fakeAttendanceService) record(ticketID string, ts *time.Time, kind domain.AttendanceKind) (*domain.AttendanceEvent, error) {
	f.lastTicketID = ticketID
	f.lastTimestamp = ts
	if f.err != nil {
		return nil, f.err
	}
	when := fakeNow
	if ts != nil {
		when = ts.UTC()
	}
	return &domain.AttendanceEvent{ID: "ev-1", TicketID: ticketID, Timestamp: when, Kind: kind, RecordedAt: fakeNow}, nil
}

func (f *fakeAttendanceService) CheckIn(ctx context.Context, ticketID string, ts *time.Time) (*domain.AttendanceEvent, error) {
	return f.record(ticketID, ts, domain.CheckIn)
}

func (f *fakeAttendanceService) CheckOut(ctx context.Context, ticketID string, ts *time.Time) (*domain.CheckOutResult, error) {
	ev, err := f.record(ticketID, ts, domain.CheckOut)
	if err != nil {
		return nil, err
	}
	return &domain.CheckOutResult{Event: ev, Certificate: f.certificate}, nil
}

// fakeCertificateService implements domain.CertificateService.
type fakeCertificateService struct {
	err          error
	certificates []*domain.Certificate
	document     *domain.CertificateDocument

	lastTicketID      string
	lastCertificateID string
}

func (f *fakeCertificateService) GenerateCertificate(ctx context.Context, ticketID string) (*domain.Certificate, error) {
	f.lastTicketID = ticketID
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Certificate{ID: "cert-1", TicketID: ticketID, ParticipationHours: 4.5, GeneratedAt: fakeNow}, nil
}

func (f *fakeCertificateService) ListCertificates(ctx context.Context) ([]*domain.Certificate, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.certificates == nil {
		return []*domain.Certificate{}, nil
	}
	return f.certificates, nil
}

func (f *fakeCertificateService) GetCertificateDocument(ctx context.Context, certificateID string) (*domain.CertificateDocument, error) {
	f.lastCertificateID = certificateID
	if f.err != nil {
		return nil, f.err
	}
	return f.document, nil
}

// fakeReportService implements domain.ReportService.
type fakeReportService struct {
	err    error
	report *domain.ParticipantsReport
	csv    []byte
}

func (f *fakeReportService) ParticipantsReport(ctx context.Context) (*domain.ParticipantsReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

func (f *fakeReportService) ParticipantsCSV(ctx context.Context) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.csv, nil
}

// fakeQR implements domain.QRRenderer.
type fakeQR struct {
	err         error
	lastContent string
	lastSize    int
}

func (f *fakeQR) PNG(content string, size int) ([]byte, error) {
	f.lastContent = content
	f.lastSize = size
	if f.err != nil {
		return nil, f.err
	}
	return []byte("\x89PNG-fake"), nil
}
