package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"checkintracker/internal/delivery/http/helpers"
	"checkintracker/internal/domain"
)

// RecordAttendanceRequest is the optional body of the check-in and check-out endpoints.
// When the body or timestamp is omitted the server clock is used.
type RecordAttendanceRequest struct {
	Timestamp *time.Time `json:"timestamp"`
}

// Validate implements Validator.
func (r RecordAttendanceRequest) Validate() []string {
	if r.Timestamp != nil && r.Timestamp.IsZero() {
		return []string{"timestamp must not be zero"}
	}
	return nil
}

// ScanRequest is the body of the scan-style POST /check-in and POST /check-out endpoints.
type ScanRequest struct {
	Code      string     `json:"code"`
	Timestamp *time.Time `json:"timestamp"`
}

// Validate implements Validator.
func (r ScanRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Code) == "" {
		errs = append(errs, "code is required")
	}
	if r.Timestamp != nil && r.Timestamp.IsZero() {
		errs = append(errs, "timestamp must not be zero")
	}
	return errs
}

// AttendanceEventSuccessResponse is the success envelope for a check-in.
type AttendanceEventSuccessResponse struct {
	Data  *domain.AttendanceEvent `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// CheckOutSuccessResponse is the success envelope for a check-out. data.certificate is set when the check-out issued one.
type CheckOutSuccessResponse struct {
	Data  *domain.CheckOutResult `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

type AttendanceController struct {
	Logger  *slog.Logger
	Service domain.AttendanceService
	Catalog domain.CatalogService
}

func NewAttendanceController(logger *slog.Logger, svc domain.AttendanceService, catalog domain.CatalogService) *AttendanceController {
	return &AttendanceController{
		Logger:  logger,
		Service: svc,
		Catalog: catalog,
	}
}

// CheckIn godoc
// @Summary Check a participant in
// @Tags attendance
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID"
// @Param body body RecordAttendanceRequest false "Optional timestamp (RFC 3339)"
// @Success 201 {object} controllers.AttendanceEventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /tickets/{id}/check-in [post]
func (c *AttendanceController) CheckIn(w http.ResponseWriter, r *http.Request) {
	c.checkIn(w, r, r.PathValue("id"))
}

// CheckOut godoc
// @Summary Check a participant out
// @Description Records a check-out. When the participant becomes eligible, a certificate is issued and returned in data.certificate.
// @Tags attendance
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID"
// @Param body body RecordAttendanceRequest false "Optional timestamp (RFC 3339)"
// @Success 201 {object} controllers.CheckOutSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /tickets/{id}/check-out [post]
func (c *AttendanceController) CheckOut(w http.ResponseWriter, r *http.Request) {
	c.checkOut(w, r, r.PathValue("id"))
}

// Scan godoc
// @Summary Check a participant in by unique code
// @Description Scan-style check-in: the ticket is resolved from its unique code (case-insensitive).
// @Tags attendance
// @Accept json
// @Produce json
// @Param body body ScanRequest true "Unique code and optional timestamp"
// @Success 201 {object} controllers.AttendanceEventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /check-in [post]
func (c *AttendanceController) ScanCheckIn(w http.ResponseWriter, r *http.Request) {
	ticketID, ts, ok := c.scan(w, r)
	if !ok {
		return
	}
	event, err := c.Service.CheckIn(r.Context(), ticketID, ts)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// ScanCheckOut godoc
// @Summary Check a participant out by unique code
// @Tags attendance
// @Accept json
// @Produce json
// @Param body body ScanRequest true "Unique code and optional timestamp"
// @Success 201 {object} controllers.CheckOutSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /check-out [post]
func (c *AttendanceController) ScanCheckOut(w http.ResponseWriter, r *http.Request) {
	ticketID, ts, ok := c.scan(w, r)
	if !ok {
		return
	}
	result, err := c.Service.CheckOut(r.Context(), ticketID, ts)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, result)
}

// scan decodes a ScanRequest and resolves its code to a ticket id.
func (c *AttendanceController) scan(w http.ResponseWriter, r *http.Request) (string, *time.Time, bool) {
	var req ScanRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return "", nil, false
	}
	ticket, err := c.Catalog.FindTicketByCode(r.Context(), req.Code)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return "", nil, false
	}
	return ticket.ID, req.Timestamp, true
}

func (c *AttendanceController) checkIn(w http.ResponseWriter, r *http.Request, ticketID string) {
	var req RecordAttendanceRequest
	if !helpers.DecodeOptionalAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.CheckIn(r.Context(), ticketID, req.Timestamp)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

func (c *AttendanceController) checkOut(w http.ResponseWriter, r *http.Request, ticketID string) {
	var req RecordAttendanceRequest
	if !helpers.DecodeOptionalAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.CheckOut(r.Context(), ticketID, req.Timestamp)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, result)
}
