package adapters

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"rental_agreement_backend/internal/agreement"
	"rental_agreement_backend/internal/email"
	"rental_agreement_backend/platform/apperr"
)

var whitespace = regexp.MustCompile(`\s+`)

// AgreementMailer delivers a stored agreement to the renter by email with
// the PDF attached.
type AgreementMailer struct {
	sender    email.Sender
	artifacts ArtifactReader
	baseURL   string
}

// NewAgreementMailer creates the mailer. baseURL prefixes the download link.
func NewAgreementMailer(sender email.Sender, artifacts ArtifactReader, baseURL string) *AgreementMailer {
	return &AgreementMailer{sender: sender, artifacts: artifacts, baseURL: strings.TrimRight(baseURL, "/")}
}

// Deliver sends the agreement referenced by ref.
func (m *AgreementMailer) Deliver(ctx context.Context, party agreement.Party, ref string, summary agreement.Summary) error {
	if strings.TrimSpace(party.Email) == "" {
		return apperr.Validation("customer has no email address")
	}

	doc, err := m.artifacts.Read(ctx, ref)
	if err != nil {
		return fmt.Errorf("load agreement for email: %w", err)
	}

	return m.sender.SendRentalAgreementEmail(ctx, party.Email, party.FullName, email.RentalSummary{
		Vehicle:         summary.Vehicle,
		Color:           summary.Color,
		StartDate:       summary.StartDate,
		EndDate:         summary.EndDate,
		GrandTotalCents: summary.GrandTotalCents,
		DownloadURL:     m.baseURL + summary.DownloadURL,
	}, email.Attachment{
		Content:  doc,
		FileName: AttachmentName(party.FullName),
		MIMEType: "application/pdf",
	})
}

// AttachmentName is the filename the renter sees in their mail client.
func AttachmentName(fullName string) string {
	name := whitespace.ReplaceAllString(strings.TrimSpace(fullName), "-")
	if name == "" {
		name = "customer"
	}
	return "rental-agreement-" + name + ".pdf"
}

var _ agreement.Deliverer = (*AgreementMailer)(nil)
