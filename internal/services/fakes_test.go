package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"checkintracker/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// fakeTicketTypeRepo is an in-memory TicketTypeRepository for tests.
type fakeTicketTypeRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.TicketType
	order   []string
	nextID  int
	listErr error
	calls   int // List calls
}

func newFakeTicketTypeRepo() *fakeTicketTypeRepo {
	return &fakeTicketTypeRepo{byID: make(map[string]*domain.TicketType), nextID: 1}
}

func (f *fakeTicketTypeRepo) add(name string, minHours float64) *domain.TicketType {
	tt := domain.NewTicketType(name, minHours, time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	if err := f.Create(context.Background(), tt); err != nil {
		panic(err)
	}
	return tt
}

func (f *fakeTicketTypeRepo) List(ctx context.Context) ([]*domain.TicketType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*domain.TicketType, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.byID[id])
	}
	return out, nil
}

func (f *fakeTicketTypeRepo) GetByID(ctx context.Context, id string) (*domain.TicketType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tt, ok := f.byID[id]; ok {
		return tt, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTicketTypeRepo) Create(ctx context.Context, tt *domain.TicketType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tt.ID = fmt.Sprintf("tt-%d", f.nextID)
	f.nextID++
	f.byID[tt.ID] = tt
	f.order = append(f.order, tt.ID)
	return nil
}

func (f *fakeTicketTypeRepo) Update(ctx context.Context, id string, upd domain.TicketTypeUpdate) (*domain.TicketType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tt, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Name != nil {
		tt.Name = *upd.Name
	}
	if upd.MinimumHoursForCertificate != nil {
		tt.MinimumHoursForCertificate = *upd.MinimumHoursForCertificate
	}
	return tt, nil
}

func (f *fakeTicketTypeRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	for i, o := range f.order {
		if o == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

// fakeTicketRepo is an in-memory TicketRepository for tests.
type fakeTicketRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Ticket
	order     []string
	nextID    int
	createErr error
	deleteErr error
	calls     int // List calls
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{byID: make(map[string]*domain.Ticket), nextID: 1}
}

func (f *fakeTicketRepo) add(name, email, code, typeID string) *domain.Ticket {
	t := domain.NewTicket(name, email, code, typeID, time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC))
	if err := f.Create(context.Background(), t); err != nil {
		panic(err)
	}
	return t
}

func (f *fakeTicketRepo) List(ctx context.Context) ([]*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	out := make([]*domain.Ticket, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.byID[id])
	}
	return out, nil
}

func (f *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.byID[id]; ok {
		return t, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTicketRepo) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	code = domain.NormalizeCode(code)
	for _, t := range f.byID {
		if t.UniqueCode == code {
			return t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTicketRepo) CountByTicketTypeID(ctx context.Context, ticketTypeID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.byID {
		if t.TicketTypeID == ticketTypeID {
			n++
		}
	}
	return n, nil
}

func (f *fakeTicketRepo) Create(ctx context.Context, t *domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if existing.UniqueCode == t.UniqueCode {
			return fmt.Errorf("create ticket: %w", domain.ErrConflict)
		}
	}
	t.ID = fmt.Sprintf("t-%d", f.nextID)
	f.nextID++
	f.byID[t.ID] = t
	f.order = append(f.order, t.ID)
	return nil
}

func (f *fakeTicketRepo) Update(ctx context.Context, id string, upd domain.TicketUpdate) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Name != nil {
		t.Name = *upd.Name
	}
	if upd.Email != nil {
		t.Email = *upd.Email
	}
	if upd.TicketTypeID != nil {
		t.TicketTypeID = *upd.TicketTypeID
	}
	return t, nil
}

func (f *fakeTicketRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.byID, id)
	for i, o := range f.order {
		if o == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

// fakeAttendanceRepo keeps events in insertion order.
type fakeAttendanceRepo struct {
	mu        sync.Mutex
	events    []*domain.AttendanceEvent
	createErr error
}

func (f *fakeAttendanceRepo) add(ticketID string, kind domain.AttendanceKind, ts time.Time) {
	if err := f.Create(context.Background(), domain.NewAttendanceEvent(ticketID, ts, kind, ts)); err != nil {
		panic(err)
	}
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, e *domain.AttendanceEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	e.ID = fmt.Sprintf("ev-%d", len(f.events)+1)
	f.events = append(f.events, e)
	return nil
}

func (f *fakeAttendanceRepo) List(ctx context.Context) ([]*domain.AttendanceEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.AttendanceEvent(nil), f.events...), nil
}

func (f *fakeAttendanceRepo) ListByTicketID(ctx context.Context, ticketID string) ([]*domain.AttendanceEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.AttendanceEvent, 0)
	for _, e := range f.events {
		if e.TicketID == ticketID {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeCertificateRepo enforces one certificate per ticket like the store constraint.
type fakeCertificateRepo struct {
	mu       sync.Mutex
	byTicket map[string]*domain.Certificate
	order    []*domain.Certificate
	inserts  int
}

func newFakeCertificateRepo() *fakeCertificateRepo {
	return &fakeCertificateRepo{byTicket: make(map[string]*domain.Certificate)}
}

func (f *fakeCertificateRepo) CreateIfAbsent(ctx context.Context, c *domain.Certificate) (*domain.Certificate, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.byTicket[c.TicketID]; ok {
		return existing, false, nil
	}
	f.inserts++
	c.ID = fmt.Sprintf("c-%d", f.inserts)
	f.byTicket[c.TicketID] = c
	f.order = append(f.order, c)
	return c, true, nil
}

func (f *fakeCertificateRepo) GetByID(ctx context.Context, id string) (*domain.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.order {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCertificateRepo) GetByTicketID(ctx context.Context, ticketID string) (*domain.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.byTicket[ticketID]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCertificateRepo) List(ctx context.Context) ([]*domain.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.Certificate(nil), f.order...), nil
}

func (f *fakeCertificateRepo) MarkDownloaded(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.order {
		if c.ID == id {
			c.Downloaded = true
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeRenderer struct {
	err   error
	calls int
}

func (f *fakeRenderer) Render(ticket *domain.Ticket, cert *domain.Certificate) (*domain.CertificateDocument, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &domain.CertificateDocument{
		Filename:    "certificate-" + ticket.UniqueCode + ".pdf",
		ContentType: "application/pdf",
		Content:     []byte("%PDF-1.4"),
	}, nil
}

type fakeEmailService struct {
	mu   sync.Mutex
	sent []*domain.CertificateIssuedEmailData
	err  error
}

func (f *fakeEmailService) SendCertificateIssued(ctx context.Context, data *domain.CertificateIssuedEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

type fakePublisher struct {
	mu        sync.Mutex
	published []*domain.Notification
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, n *domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, n)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.published))
	for _, n := range f.published {
		out = append(out, n.Type)
	}
	return out
}

// engine wires every service over in-memory fakes.
type engine struct {
	types        *fakeTicketTypeRepo
	tickets      *fakeTicketRepo
	events       *fakeAttendanceRepo
	certs        *fakeCertificateRepo
	renderer     *fakeRenderer
	email        *fakeEmailService
	publisher    *fakePublisher
	cache        domain.Cache
	catalog      *catalogService
	status       *statusService
	attendance   *attendanceService
	certificates *certificateService
	reports      *reportService
}

func newEngine(c domain.Cache, now time.Time) *engine {
	e := &engine{
		types:     newFakeTicketTypeRepo(),
		tickets:   newFakeTicketRepo(),
		events:    &fakeAttendanceRepo{},
		certs:     newFakeCertificateRepo(),
		renderer:  &fakeRenderer{},
		email:     &fakeEmailService{},
		publisher: &fakePublisher{},
		cache:     c,
	}
	logger := discardLogger()
	timeout := 5 * time.Second

	e.catalog = NewCatalogService(e.types, e.tickets, c, DefaultCacheTTLs(), logger, timeout).(*catalogService)
	e.catalog.now = fixedClock(now)
	e.status = NewStatusService(e.tickets, e.types, e.events, e.certs, c, DefaultCacheTTLs().Status, logger, timeout).(*statusService)
	e.certificates = NewCertificateService(e.tickets, e.certs, e.status, e.renderer, e.email, e.publisher, c, "DevFest", logger, timeout).(*certificateService)
	e.certificates.now = fixedClock(now)
	e.attendance = NewAttendanceService(e.tickets, e.events, e.status, e.certificates, c, e.publisher, logger, timeout).(*attendanceService)
	e.attendance.now = fixedClock(now)
	e.reports = NewReportService(e.status, timeout).(*reportService)
	e.reports.now = fixedClock(now)
	return e
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 1, hour, minute, 0, 0, time.UTC)
}
