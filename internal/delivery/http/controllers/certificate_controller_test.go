package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"checkintracker/internal/delivery/http/helpers"
	"checkintracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCertificateController_List(t *testing.T) {
	fake := &fakeCertificateService{certificates: []*domain.Certificate{
		{ID: "cert-1", TicketID: "t-1", ParticipationHours: 4.25, GeneratedAt: fakeNow},
	}}
	ctrl := NewCertificateController(testLogger, fake)
	rr := httptest.NewRecorder()

	ctrl.List(rr, httptest.NewRequest(http.MethodGet, "/certificates", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var certs []domain.Certificate
	decodeEnvelope(t, rr, &certs)
	require.Len(t, certs, 1)
	assert.Equal(t, 4.25, certs[0].ParticipationHours)
	assert.False(t, certs[0].Downloaded)
}

func TestCertificateController_Generate(t *testing.T) {
	tests := []struct {
		name       string
		fakeErr    error
		wantStatus int
		wantCode   string
	}{
		{name: "issued", wantStatus: http.StatusOK},
		{name: "below threshold", fakeErr: fmt.Errorf("ticket t-1 has 2.00 of 4.00 hours: %w", domain.ErrNotEligible), wantStatus: http.StatusUnprocessableEntity, wantCode: helpers.ErrCodeNotEligible},
		{name: "unknown ticket", fakeErr: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: helpers.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeCertificateService{err: tt.fakeErr}
			ctrl := NewCertificateController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "/tickets/t-1/certificate", nil)
			req.SetPathValue("id", "t-1")
			rr := httptest.NewRecorder()

			ctrl.Generate(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "t-1", fake.lastTicketID)
			if tt.wantCode != "" {
				envelope := decodeEnvelope(t, rr, nil)
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantCode, envelope.Error.Code)
				return
			}
			var cert domain.Certificate
			decodeEnvelope(t, rr, &cert)
			assert.Equal(t, "cert-1", cert.ID)
		})
	}
}

func TestCertificateController_Download(t *testing.T) {
	t.Run("writes document", func(t *testing.T) {
		fake := &fakeCertificateService{document: &domain.CertificateDocument{
			Filename:    "certificate-abc123.pdf",
			ContentType: "application/pdf",
			Content:     []byte("%PDF-1.4 fake"),
		}}
		ctrl := NewCertificateController(testLogger, fake)
		req := httptest.NewRequest(http.MethodGet, "/certificates/cert-1/document", nil)
		req.SetPathValue("id", "cert-1")
		rr := httptest.NewRecorder()

		ctrl.Download(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "cert-1", fake.lastCertificateID)
		assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="certificate-abc123.pdf"`, rr.Header().Get("Content-Disposition"))
		assert.Equal(t, "13", rr.Header().Get("Content-Length"))
		assert.Equal(t, "%PDF-1.4 fake", rr.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := NewCertificateController(testLogger, &fakeCertificateService{err: domain.ErrNotFound})
		req := httptest.NewRequest(http.MethodGet, "/certificates/missing/document", nil)
		req.SetPathValue("id", "missing")
		rr := httptest.NewRecorder()

		ctrl.Download(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	})
}
