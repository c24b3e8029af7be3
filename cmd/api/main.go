package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checkintracker/config"
	_ "checkintracker/docs"
	"checkintracker/internal/adapters/document"
	"checkintracker/internal/adapters/email"
	"checkintracker/internal/adapters/notify"
	"checkintracker/internal/cache"
	deliveryhttp "checkintracker/internal/delivery/http"
	"checkintracker/internal/delivery/http/controllers"
	"checkintracker/internal/delivery/http/middleware"
	"checkintracker/internal/domain"
	"checkintracker/internal/repository/postgres"
	"checkintracker/internal/services"

	_ "github.com/lib/pq"
)

const shutdownTimeout = 10 * time.Second

// @title Check-in Tracker API
// @version 1.0
// @description Event check-in/check-out, attendance hours and participation certificates.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return err
	}
	if err := postgres.Migrate(db); err != nil {
		return err
	}
	logger.Info("database ready")

	store, closeCache, err := newCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		},
	}, logger)
	if err != nil {
		return err
	}
	templates, err := email.NewTemplateRenderer()
	if err != nil {
		return err
	}

	qr := document.NewQRCodeRenderer()
	pdf, err := document.NewPDFRenderer(cfg.CertificateFontPath, cfg.CertificateEventName, qr)
	if err != nil {
		return err
	}

	publisher, err := notify.NewPublisher(notify.Config{
		Driver:       cfg.NotifyDriver,
		KafkaBrokers: cfg.KafkaBrokers,
		KafkaTopic:   cfg.KafkaTopic,
		RabbitMQURL:  cfg.RabbitMQURL,
	}, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("close publisher", "err", err)
		}
	}()

	// Repositories
	ticketTypeRepo := postgres.NewTicketTypeRepository(db)
	ticketRepo := postgres.NewTicketRepository(db)
	attendanceRepo := postgres.NewAttendanceRepository(db)
	certificateRepo := postgres.NewCertificateRepository(db)

	// Services
	ttl := services.CacheTTLs{
		TicketTypes: cfg.CacheTTLTypes,
		Tickets:     cfg.CacheTTLTickets,
		Status:      cfg.CacheTTLStatus,
	}
	timeout := cfg.RequestTimeout
	catalogService := services.NewCatalogService(ticketTypeRepo, ticketRepo, store, ttl, logger, timeout)
	statusService := services.NewStatusService(ticketRepo, ticketTypeRepo, attendanceRepo, certificateRepo, store, ttl.Status, logger, timeout)
	emailService := services.NewEmailService(mailer, templates, logger)
	certificateService := services.NewCertificateService(ticketRepo, certificateRepo, statusService, pdf, emailService, publisher, store, cfg.CertificateEventName, logger, timeout)
	attendanceService := services.NewAttendanceService(ticketRepo, attendanceRepo, statusService, certificateService, store, publisher, logger, timeout)
	reportService := services.NewReportService(statusService, timeout)

	mux := deliveryhttp.NewRouter(deliveryhttp.Controllers{
		TicketTypes:  controllers.NewTicketTypeController(logger, catalogService),
		Tickets:      controllers.NewTicketController(logger, catalogService, qr),
		Attendance:   controllers.NewAttendanceController(logger, attendanceService, catalogService),
		Participants: controllers.NewParticipantController(logger, statusService),
		Certificates: controllers.NewCertificateController(logger, certificateService),
		Reports:      controllers.NewReportController(logger, reportService),
	})
	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, middleware.Recover(logger, mux)))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", server.Addr, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

// newCache builds the configured read-through cache. The returned func releases its resources.
func newCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.Cache, func(), error) {
	switch cfg.CacheDriver {
	case "redis":
		client, err := cache.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("cache ready", "driver", "redis", "addr", cfg.RedisAddr)
		return cache.NewRedis(client, ""), func() { _ = client.Close() }, nil
	case "none":
		logger.Info("cache disabled")
		return cache.Disabled{}, func() {}, nil
	default:
		logger.Info("cache ready", "driver", "memory")
		return cache.NewMemory(time.Now), func() {}, nil
	}
}
