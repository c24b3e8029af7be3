package controllers

import (
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"checkintracker/internal/delivery/http/helpers"
	"checkintracker/internal/domain"
)

// emailRegex matches a simple email format (local@domain with at least one dot in domain).
var emailRegex = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// CreateTicketRequest is the request body for POST /tickets. unique_code is generated when omitted.
type CreateTicketRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	UniqueCode   string `json:"unique_code"`
	TicketTypeID string `json:"ticket_type_id"`
}

// Validate implements Validator.
func (c CreateTicketRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(c.TicketTypeID) == "" {
		errs = append(errs, "ticket_type_id is required")
	}
	if c.Email != "" && !emailRegex.MatchString(c.Email) {
		errs = append(errs, "email is invalid")
	}
	return errs
}

// UpdateTicketRequest is the request body for PATCH /tickets/{id}. The unique code cannot change.
type UpdateTicketRequest struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	TicketTypeID *string `json:"ticket_type_id"`
}

// Validate implements Validator.
func (u UpdateTicketRequest) Validate() []string {
	var errs []string
	if u.Name == nil && u.Email == nil && u.TicketTypeID == nil {
		errs = append(errs, "at least one field is required")
	}
	if u.Email != nil && *u.Email != "" && !emailRegex.MatchString(*u.Email) {
		errs = append(errs, "email is invalid")
	}
	return errs
}

// ImportTicketsRequest is the request body for POST /tickets/import.
type ImportTicketsRequest struct {
	Items []domain.ImportItem `json:"items"`
}

// Validate implements Validator.
func (i ImportTicketsRequest) Validate() []string {
	if len(i.Items) == 0 {
		return []string{"items must not be empty"}
	}
	return nil
}

// ListTicketsResponse is the data payload for GET /tickets.
type ListTicketsResponse struct {
	Items      []*domain.Ticket       `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListTicketsSuccessResponse is the success envelope for GET /tickets.
type ListTicketsSuccessResponse struct {
	Data  ListTicketsResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// TicketSuccessResponse is the success envelope for a single ticket.
type TicketSuccessResponse struct {
	Data  *domain.Ticket    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ImportTicketsSuccessResponse is the success envelope for POST /tickets/import.
type ImportTicketsSuccessResponse struct {
	Data  *domain.ImportResult `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

type TicketController struct {
	Logger  *slog.Logger
	Service domain.CatalogService
	QR      domain.QRRenderer
}

func NewTicketController(logger *slog.Logger, svc domain.CatalogService, qr domain.QRRenderer) *TicketController {
	return &TicketController{
		Logger:  logger,
		Service: svc,
		QR:      qr,
	}
}

// List godoc
// @Summary List tickets
// @Tags tickets
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListTicketsSuccessResponse "data contains items and pagination"
// @Failure 503 {object} helpers.APIResponse "error.code: store_unavailable"
// @Router /tickets [get]
func (c *TicketController) List(w http.ResponseWriter, r *http.Request) {
	tickets, err := c.Service.ListTickets(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	items, meta := helpers.Page(tickets, helpers.ParsePagination(r))
	helpers.WriteJSONSuccess(w, http.StatusOK, ListTicketsResponse{Items: items, Pagination: meta})
}

// Create godoc
// @Summary Create a ticket
// @Tags tickets
// @Accept json
// @Produce json
// @Param ticket body CreateTicketRequest true "Ticket"
// @Success 201 {object} controllers.TicketSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (unique_code taken)"
// @Router /tickets [post]
func (c *TicketController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTicketRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ticket := &domain.Ticket{
		Name:         req.Name,
		Email:        req.Email,
		UniqueCode:   req.UniqueCode,
		TicketTypeID: req.TicketTypeID,
	}
	if err := c.Service.CreateTicket(r.Context(), ticket); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, ticket)
}

// Update godoc
// @Summary Update a ticket
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID"
// @Param ticket body UpdateTicketRequest true "Fields to change"
// @Success 200 {object} controllers.TicketSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /tickets/{id} [patch]
func (c *TicketController) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing id")
		return
	}
	var req UpdateTicketRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	updated, err := c.Service.UpdateTicket(r.Context(), id, domain.TicketUpdate{
		Name:         req.Name,
		Email:        req.Email,
		TicketTypeID: req.TicketTypeID,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, updated)
}

// Delete godoc
// @Summary Delete a ticket
// @Description Removes a ticket that has no attendance history and no certificate.
// @Tags tickets
// @Param id path string true "Ticket ID"
// @Success 204
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /tickets/{id} [delete]
func (c *TicketController) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing id")
		return
	}
	if err := c.Service.DeleteTicket(r.Context(), id); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetByCode godoc
// @Summary Find a ticket by its unique code
// @Description Lookup is case-insensitive.
// @Tags tickets
// @Produce json
// @Param code path string true "Unique code"
// @Success 200 {object} controllers.TicketSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /ticket-codes/{code} [get]
func (c *TicketController) GetByCode(w http.ResponseWriter, r *http.Request) {
	ticket, err := c.Service.FindTicketByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ticket)
}

// QRCode godoc
// @Summary Ticket QR code
// @Description PNG QR code encoding the ticket's unique code, for scan-style check-in.
// @Tags tickets
// @Produce png
// @Param id path string true "Ticket ID"
// @Param size query int false "Edge in pixels (64-1024, default 256)"
// @Success 200 {file} binary
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /tickets/{id}/qr [get]
func (c *TicketController) QRCode(w http.ResponseWriter, r *http.Request) {
	size := 0
	if s := r.URL.Query().Get("size"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "size must be an integer")
			return
		}
		size = v
	}
	ticket, err := c.Service.GetTicket(r.Context(), r.PathValue("id"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	png, err := c.QR.PNG(ticket.UniqueCode, size)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// Import godoc
// @Summary Bulk import tickets
// @Description Creates one ticket per item. Sectors are matched to ticket types by name (case-insensitive) and created when missing. Invalid or duplicate items are reported in errors; the rest are imported.
// @Tags tickets
// @Accept json
// @Produce json
// @Param import body ImportTicketsRequest true "Items to import"
// @Success 200 {object} controllers.ImportTicketsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /tickets/import [post]
func (c *TicketController) Import(w http.ResponseWriter, r *http.Request) {
	var req ImportTicketsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.ImportTickets(r.Context(), req.Items)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
