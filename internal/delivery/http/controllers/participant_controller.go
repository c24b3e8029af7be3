package controllers

import (
	"log/slog"
	"net/http"

	"checkintracker/internal/delivery/http/helpers"
	"checkintracker/internal/domain"
)

// ListParticipantsResponse is the data payload for GET /participants.
type ListParticipantsResponse struct {
	Items      []*domain.ParticipantStatus `json:"items"`
	Pagination helpers.PaginationMeta      `json:"pagination"`
}

// ListParticipantsSuccessResponse is the success envelope for GET /participants.
type ListParticipantsSuccessResponse struct {
	Data  ListParticipantsResponse `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// ParticipantStatusSuccessResponse is the success envelope for a single participant status.
type ParticipantStatusSuccessResponse struct {
	Data  *domain.ParticipantStatus `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

type ParticipantController struct {
	Logger  *slog.Logger
	Service domain.StatusService
}

func NewParticipantController(logger *slog.Logger, svc domain.StatusService) *ParticipantController {
	return &ParticipantController{
		Logger:  logger,
		Service: svc,
	}
}

// List godoc
// @Summary List participant statuses
// @Description Attendance status of every ticket: hours accrued, check-in state and certificate eligibility.
// @Tags participants
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListParticipantsSuccessResponse
// @Failure 503 {object} helpers.APIResponse "error.code: store_unavailable"
// @Router /participants [get]
func (c *ParticipantController) List(w http.ResponseWriter, r *http.Request) {
	statuses, err := c.Service.GetAllStatuses(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	items, meta := helpers.Page(statuses, helpers.ParsePagination(r))
	helpers.WriteJSONSuccess(w, http.StatusOK, ListParticipantsResponse{Items: items, Pagination: meta})
}

// Get godoc
// @Summary Get a participant status
// @Tags participants
// @Produce json
// @Param id path string true "Ticket ID"
// @Success 200 {object} controllers.ParticipantStatusSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /participants/{id} [get]
func (c *ParticipantController) Get(w http.ResponseWriter, r *http.Request) {
	status, err := c.Service.GetStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, status)
}

// GetByCode godoc
// @Summary Get a participant status by unique code
// @Tags participants
// @Produce json
// @Param code path string true "Unique code"
// @Success 200 {object} controllers.ParticipantStatusSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /participants/by-code/{code} [get]
func (c *ParticipantController) GetByCode(w http.ResponseWriter, r *http.Request) {
	status, err := c.Service.GetStatusByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, status)
}
