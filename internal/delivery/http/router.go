package http

import (
	"net/http"

	"checkintracker/internal/delivery/http/controllers"
	"checkintracker/internal/delivery/http/helpers"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Controllers groups the handlers served by the router.
type Controllers struct {
	TicketTypes  *controllers.TicketTypeController
	Tickets      *controllers.TicketController
	Attendance   *controllers.AttendanceController
	Participants *controllers.ParticipantController
	Certificates *controllers.CertificateController
	Reports      *controllers.ReportController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers) *http.ServeMux {
	mux := http.NewServeMux()

	// Ticket types
	mux.HandleFunc("GET /ticket-types", c.TicketTypes.List)
	mux.HandleFunc("POST /ticket-types", c.TicketTypes.Create)
	mux.HandleFunc("PATCH /ticket-types/{id}", c.TicketTypes.Update)
	mux.HandleFunc("DELETE /ticket-types/{id}", c.TicketTypes.Delete)

	// Tickets
	mux.HandleFunc("GET /tickets", c.Tickets.List)
	mux.HandleFunc("POST /tickets", c.Tickets.Create)
	mux.HandleFunc("POST /tickets/import", c.Tickets.Import)
	mux.HandleFunc("GET /ticket-codes/{code}", c.Tickets.GetByCode)
	mux.HandleFunc("PATCH /tickets/{id}", c.Tickets.Update)
	mux.HandleFunc("DELETE /tickets/{id}", c.Tickets.Delete)
	mux.HandleFunc("GET /tickets/{id}/qr", c.Tickets.QRCode)

	// Attendance
	mux.HandleFunc("POST /tickets/{id}/check-in", c.Attendance.CheckIn)
	mux.HandleFunc("POST /tickets/{id}/check-out", c.Attendance.CheckOut)
	mux.HandleFunc("POST /check-in", c.Attendance.ScanCheckIn)
	mux.HandleFunc("POST /check-out", c.Attendance.ScanCheckOut)

	// Participants and reports
	mux.HandleFunc("GET /participants", c.Participants.List)
	mux.HandleFunc("GET /participants/by-code/{code}", c.Participants.GetByCode)
	mux.HandleFunc("GET /participants/{id}", c.Participants.Get)
	mux.HandleFunc("GET /reports/participants", c.Reports.Participants)
	mux.HandleFunc("GET /reports/participants.csv", c.Reports.ParticipantsCSV)

	// Certificates
	mux.HandleFunc("GET /certificates", c.Certificates.List)
	mux.HandleFunc("POST /tickets/{id}/certificate", c.Certificates.Generate)
	mux.HandleFunc("GET /certificates/{id}/document", c.Certificates.Download)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
