package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"checkintracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStatuses() []*domain.ParticipantStatus {
	tickets := sampleTickets(3)
	tt := &domain.TicketType{ID: "tt-1", Name: "Standard", MinimumHoursForCertificate: 4}
	return []*domain.ParticipantStatus{
		{Ticket: tickets[0], TicketType: tt, TotalHours: 5, IsEligibleForCertificate: true, CertificateGenerated: true, CheckHistory: []*domain.AttendanceEvent{}},
		{Ticket: tickets[1], TicketType: tt, TotalHours: 1.5, IsCheckedIn: true, CheckHistory: []*domain.AttendanceEvent{}},
		{Ticket: tickets[2], TicketType: tt, CheckHistory: []*domain.AttendanceEvent{}},
	}
}

func TestParticipantController_List(t *testing.T) {
	ctrl := NewParticipantController(testLogger, &fakeStatusService{statuses: sampleStatuses()})
	rr := httptest.NewRecorder()

	ctrl.List(rr, httptest.NewRequest(http.MethodGet, "/participants?page=1&page_size=2", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var data ListParticipantsResponse
	decodeEnvelope(t, rr, &data)
	require.Len(t, data.Items, 2)
	assert.Equal(t, 3, data.Pagination.Total)
	assert.Equal(t, 2, data.Pagination.TotalPages)
	assert.Equal(t, "t-1", data.Items[0].Ticket.ID)
	assert.True(t, data.Items[0].CertificateGenerated)
	assert.True(t, data.Items[1].IsCheckedIn)
}

func TestParticipantController_ListHugePage(t *testing.T) {
	ctrl := NewParticipantController(testLogger, &fakeStatusService{statuses: sampleStatuses()})
	rr := httptest.NewRecorder()

	ctrl.List(rr, httptest.NewRequest(http.MethodGet, "/participants?page=100000000000000000&page_size=100", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var data ListParticipantsResponse
	decodeEnvelope(t, rr, &data)
	assert.Empty(t, data.Items)
	assert.Equal(t, 3, data.Pagination.Total)
}

func TestParticipantController_ListError(t *testing.T) {
	ctrl := NewParticipantController(testLogger, &fakeStatusService{err: errors.New("boom")})
	rr := httptest.NewRecorder()

	ctrl.List(rr, httptest.NewRequest(http.MethodGet, "/participants", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestParticipantController_Get(t *testing.T) {
	tests := []struct {
		name       string
		byCode     bool
		value      string
		wantStatus int
		wantID     string
	}{
		{name: "by id", value: "t-2", wantStatus: http.StatusOK, wantID: "t-2"},
		{name: "by id not found", value: "t-9", wantStatus: http.StatusNotFound},
		{name: "by code", byCode: true, value: "CODE0003", wantStatus: http.StatusOK, wantID: "t-3"},
		{name: "by code not found", byCode: true, value: "nope", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewParticipantController(testLogger, &fakeStatusService{statuses: sampleStatuses()})
			rr := httptest.NewRecorder()
			if tt.byCode {
				req := httptest.NewRequest(http.MethodGet, "/participants/by-code/"+tt.value, nil)
				req.SetPathValue("code", tt.value)
				ctrl.GetByCode(rr, req)
			} else {
				req := httptest.NewRequest(http.MethodGet, "/participants/"+tt.value, nil)
				req.SetPathValue("id", tt.value)
				ctrl.Get(rr, req)
			}

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				var status domain.ParticipantStatus
				decodeEnvelope(t, rr, &status)
				assert.Equal(t, tt.wantID, status.Ticket.ID)
			}
		})
	}
}
