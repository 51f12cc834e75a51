package email

import (
	"context"
	"time"

	"rental_agreement_backend/platform/config"
)

// Attachment represents a file attachment for an email.
type Attachment struct {
	Content  []byte // raw file bytes
	FileName string // e.g. "rental-agreement-Jane-Doe.pdf"
	MIMEType string // e.g. "application/pdf"
}

// RentalSummary is the rental information printed in the agreement email.
type RentalSummary struct {
	Vehicle         string
	Color           string
	StartDate       time.Time
	EndDate         time.Time
	GrandTotalCents int64
	DownloadURL     string
}

type Sender interface {
	SendRentalAgreementEmail(ctx context.Context, toEmail, customerName string, summary RentalSummary, attachments ...Attachment) error
	SendRegistrationEmail(ctx context.Context, toEmail, customerName string) error
}

// NoopSender drops every message. Used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendRentalAgreementEmail(ctx context.Context, toEmail, customerName string, summary RentalSummary, attachments ...Attachment) error {
	return nil
}

func (NoopSender) SendRegistrationEmail(ctx context.Context, toEmail, customerName string) error {
	return nil
}

// NewSender returns an SMTP sender, or a NoopSender when email is disabled.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}

var _ Sender = NoopSender{}
var _ Sender = (*SMTPSender)(nil)
