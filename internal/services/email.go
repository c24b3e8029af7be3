package services

import (
	"context"
	"fmt"
	"log/slog"

	"checkintracker/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendCertificateIssued mails the certificate document using the "certificate_issued" template.
func (s *emailService) SendCertificateIssued(ctx context.Context, data *domain.CertificateIssuedEmailData) error {
	if data == nil {
		return fmt.Errorf("certificate email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("certificate_issued", data)
	if err != nil {
		return fmt.Errorf("failed to render certificate_issued template: %w", err)
	}
	msg := &domain.EmailMessage{
		To:      data.Email,
		Subject: subject,
		HTML:    htmlBody,
		Text:    textBody,
	}
	if data.Document != nil {
		msg.Attachments = []domain.Attachment{{
			Filename:    data.Document.Filename,
			ContentType: data.Document.ContentType,
			Content:     data.Document.Content,
		}}
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send certificate email: %w", err)
	}
	s.logger.Info("certificate email sent", "to", data.Email, "code", data.Code)
	return nil
}
