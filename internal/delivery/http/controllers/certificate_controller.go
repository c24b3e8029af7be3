package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"checkintracker/internal/delivery/http/helpers"
	"checkintracker/internal/domain"
)

// CertificateSuccessResponse is the success envelope for a single certificate.
type CertificateSuccessResponse struct {
	Data  *domain.Certificate `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// ListCertificatesSuccessResponse is the success envelope for GET /certificates.
type ListCertificatesSuccessResponse struct {
	Data  []*domain.Certificate `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

type CertificateController struct {
	Logger  *slog.Logger
	Service domain.CertificateService
}

func NewCertificateController(logger *slog.Logger, svc domain.CertificateService) *CertificateController {
	return &CertificateController{
		Logger:  logger,
		Service: svc,
	}
}

// List godoc
// @Summary List issued certificates
// @Tags certificates
// @Produce json
// @Success 200 {object} controllers.ListCertificatesSuccessResponse
// @Failure 503 {object} helpers.APIResponse "error.code: store_unavailable"
// @Router /certificates [get]
func (c *CertificateController) List(w http.ResponseWriter, r *http.Request) {
	certs, err := c.Service.ListCertificates(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, certs)
}

// Generate godoc
// @Summary Generate a certificate
// @Description Issues the ticket's certificate when eligible. Returns the existing certificate if one was already issued.
// @Tags certificates
// @Produce json
// @Param id path string true "Ticket ID"
// @Success 200 {object} controllers.CertificateSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: not_eligible"
// @Router /tickets/{id}/certificate [post]
func (c *CertificateController) Generate(w http.ResponseWriter, r *http.Request) {
	cert, err := c.Service.GenerateCertificate(r.Context(), r.PathValue("id"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, cert)
}

// Download godoc
// @Summary Download a certificate
// @Description Renders the certificate PDF and marks it as downloaded.
// @Tags certificates
// @Produce application/pdf
// @Param id path string true "Certificate ID"
// @Success 200 {file} binary
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /certificates/{id}/document [get]
func (c *CertificateController) Download(w http.ResponseWriter, r *http.Request) {
	doc, err := c.Service.GetCertificateDocument(r.Context(), r.PathValue("id"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Content)
}
