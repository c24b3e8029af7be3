package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"checkintracker/internal/delivery/http/helpers"
	"checkintracker/internal/domain"
)

// CreateTicketTypeRequest is the request body for POST /ticket-types.
type CreateTicketTypeRequest struct {
	Name                       string  `json:"name"`
	MinimumHoursForCertificate float64 `json:"minimum_hours_for_certificate"`
}

// Validate implements Validator.
func (c CreateTicketTypeRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if c.MinimumHoursForCertificate < 0 {
		errs = append(errs, "minimum_hours_for_certificate must be zero or positive")
	}
	return errs
}

// UpdateTicketTypeRequest is the request body for PATCH /ticket-types/{id}. Omitted fields are unchanged.
type UpdateTicketTypeRequest struct {
	Name                       *string  `json:"name"`
	MinimumHoursForCertificate *float64 `json:"minimum_hours_for_certificate"`
}

// Validate implements Validator.
func (u UpdateTicketTypeRequest) Validate() []string {
	var errs []string
	if u.Name == nil && u.MinimumHoursForCertificate == nil {
		errs = append(errs, "at least one field is required")
	}
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		errs = append(errs, "name must not be empty")
	}
	if u.MinimumHoursForCertificate != nil && *u.MinimumHoursForCertificate < 0 {
		errs = append(errs, "minimum_hours_for_certificate must be zero or positive")
	}
	return errs
}

// TicketTypeSuccessResponse is the success envelope for a single ticket type.
type TicketTypeSuccessResponse struct {
	Data  *domain.TicketType `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ListTicketTypesSuccessResponse is the success envelope for GET /ticket-types.
type ListTicketTypesSuccessResponse struct {
	Data  []*domain.TicketType `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

type TicketTypeController struct {
	Logger  *slog.Logger
	Service domain.CatalogService
}

func NewTicketTypeController(logger *slog.Logger, svc domain.CatalogService) *TicketTypeController {
	return &TicketTypeController{
		Logger:  logger,
		Service: svc,
	}
}

// List godoc
// @Summary List ticket types
// @Tags ticket-types
// @Produce json
// @Success 200 {object} controllers.ListTicketTypesSuccessResponse
// @Failure 503 {object} helpers.APIResponse "error.code: store_unavailable"
// @Router /ticket-types [get]
func (c *TicketTypeController) List(w http.ResponseWriter, r *http.Request) {
	types, err := c.Service.ListTicketTypes(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, types)
}

// Create godoc
// @Summary Create a ticket type
// @Description Creates a ticket category with its own certificate threshold in hours.
// @Tags ticket-types
// @Accept json
// @Produce json
// @Param ticketType body CreateTicketTypeRequest true "Ticket type"
// @Success 201 {object} controllers.TicketTypeSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /ticket-types [post]
func (c *TicketTypeController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTicketTypeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	tt := &domain.TicketType{Name: req.Name, MinimumHoursForCertificate: req.MinimumHoursForCertificate}
	if err := c.Service.CreateTicketType(r.Context(), tt); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, tt)
}

// Update godoc
// @Summary Update a ticket type
// @Tags ticket-types
// @Accept json
// @Produce json
// @Param id path string true "Ticket type ID"
// @Param ticketType body UpdateTicketTypeRequest true "Fields to change"
// @Success 200 {object} controllers.TicketTypeSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /ticket-types/{id} [patch]
func (c *TicketTypeController) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing id")
		return
	}
	var req UpdateTicketTypeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	updated, err := c.Service.UpdateTicketType(r.Context(), id, domain.TicketTypeUpdate{
		Name:                       req.Name,
		MinimumHoursForCertificate: req.MinimumHoursForCertificate,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, updated)
}

// Delete godoc
// @Summary Delete a ticket type
// @Description Fails with 409 while any ticket references the type.
// @Tags ticket-types
// @Param id path string true "Ticket type ID"
// @Success 204
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /ticket-types/{id} [delete]
func (c *TicketTypeController) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing id")
		return
	}
	if err := c.Service.DeleteTicketType(r.Context(), id); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
