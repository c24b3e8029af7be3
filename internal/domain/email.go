package domain

import "context"

// Attachment is a file attached to an outgoing e-mail.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// EmailMessage is a rendered e-mail ready to be sent.
type EmailMessage struct {
	To          string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, msg *EmailMessage) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// CertificateIssuedEmailData holds data for the certificate delivery email.
type CertificateIssuedEmailData struct {
	Email     string
	Name      string
	EventName string
	Hours     string
	Code      string
	Document  *CertificateDocument
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendCertificateIssued(ctx context.Context, data *CertificateIssuedEmailData) error
}
