package controllers

import (
	"fmt"
	"log/slog"
	"net/http"

	"checkintracker/internal/delivery/http/helpers"
	"checkintracker/internal/domain"
)

// ParticipantsReportSuccessResponse is the success envelope for GET /reports/participants.
type ParticipantsReportSuccessResponse struct {
	Data  *domain.ParticipantsReport `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

type ReportController struct {
	Logger  *slog.Logger
	Service domain.ReportService
	// Filename of the CSV attachment.
	CSVFilename string
}

func NewReportController(logger *slog.Logger, svc domain.ReportService) *ReportController {
	return &ReportController{
		Logger:      logger,
		Service:     svc,
		CSVFilename: "participants.csv",
	}
}

// Participants godoc
// @Summary Participants report
// @Description Aggregated counts plus every participant status.
// @Tags reports
// @Produce json
// @Success 200 {object} controllers.ParticipantsReportSuccessResponse
// @Failure 503 {object} helpers.APIResponse "error.code: store_unavailable"
// @Router /reports/participants [get]
func (c *ReportController) Participants(w http.ResponseWriter, r *http.Request) {
	report, err := c.Service.ParticipantsReport(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, report)
}

// ParticipantsCSV godoc
// @Summary Participants report as CSV
// @Tags reports
// @Produce text/csv
// @Success 200 {file} binary
// @Failure 503 {object} helpers.APIResponse "error.code: store_unavailable"
// @Router /reports/participants.csv [get]
func (c *ReportController) ParticipantsCSV(w http.ResponseWriter, r *http.Request) {
	data, err := c.Service.ParticipantsCSV(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", c.CSVFilename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
