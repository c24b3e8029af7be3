package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"checkintracker/internal/domain"
)

type reportService struct {
	status         domain.StatusService
	contextTimeout time.Duration
	now            func() time.Time
}

func NewReportService(status domain.StatusService, timeout time.Duration) domain.ReportService {
	return &reportService{
		status:         status,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *reportService) ParticipantsReport(ctx context.Context) (*domain.ParticipantsReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	statuses, err := s.status.GetAllStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("get participant statuses: %w", err)
	}
	report := &domain.ParticipantsReport{
		TotalParticipants: len(statuses),
		Participants:      statuses,
		ReportGeneratedAt: s.now().UTC(),
	}
	for _, p := range statuses {
		if p.IsCheckedIn {
			report.CheckedInCount++
		}
		if p.IsEligibleForCertificate {
			report.EligibleForCertificate++
		}
		if p.CertificateGenerated {
			report.CertificatesGenerated++
		}
	}
	return report, nil
}

var csvHeader = []string{
	"name",
	"email",
	"code",
	"ticket_type",
	"total_hours",
	"checked_in",
	"eligible_for_certificate",
	"certificate_generated",
	"last_check_in",
}

// ParticipantsCSV exports one row per participant status.
func (s *reportService) ParticipantsCSV(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	statuses, err := s.status.GetAllStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("get participant statuses: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, p := range statuses {
		lastCheckIn := ""
		if p.LastCheckIn != nil {
			lastCheckIn = p.LastCheckIn.UTC().Format(time.RFC3339)
		}
		record := []string{
			p.Ticket.Name,
			p.Ticket.Email,
			p.Ticket.UniqueCode,
			p.TicketType.Name,
			strconv.FormatFloat(p.TotalHours, 'f', 2, 64),
			yesNo(p.IsCheckedIn),
			yesNo(p.IsEligibleForCertificate),
			yesNo(p.CertificateGenerated),
			lastCheckIn,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
