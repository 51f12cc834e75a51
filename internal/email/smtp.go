package email

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) buildMessage(toEmail, subject, htmlContent string, attachments ...Attachment) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return nil, fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return nil, fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	for _, att := range attachments {
		var fileOpts []gomail.FileOption
		if att.MIMEType != "" {
			fileOpts = append(fileOpts, gomail.WithFileContentType(gomail.ContentType(att.MIMEType)))
		}
		if err := msg.AttachReader(att.FileName, bytes.NewReader(att.Content), fileOpts...); err != nil {
			return nil, fmt.Errorf("smtp attach %s: %w", att.FileName, err)
		}
	}
	return msg, nil
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string, attachments ...Attachment) error {
	msg, err := s.buildMessage(toEmail, subject, htmlContent, attachments...)
	if err != nil {
		return err
	}

	opts := []gomail.Option{
		gomail.WithPort(s.port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15 * time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	}
	if s.username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.username),
			gomail.WithPassword(s.password),
		)
	}

	client, err := gomail.NewClient(s.host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func renderRentalAgreement(customerName string, summary RentalSummary, hasAttachments bool) (string, error) {
	return renderEmailTemplate("rental_agreement.html", rentalAgreementEmailData{
		baseEmailData: baseEmailData{
			Title:      subjectRentalAgreement,
			Heading:    "Drive KL Executive",
			Subheading: "Your Rental Agreement is Ready",
			CTALabel:   "Download agreement",
			CTAURL:     summary.DownloadURL,
		},
		CustomerName:   customerName,
		Vehicle:        summary.Vehicle,
		Color:          summary.Color,
		StartDate:      summary.StartDate.Format(displayDate),
		EndDate:        summary.EndDate.Format(displayDate),
		TotalFormatted: formatCurrencyRM(summary.GrandTotalCents),
		HasAttachments: hasAttachments,
	})
}

func (s *SMTPSender) SendRentalAgreementEmail(ctx context.Context, toEmail, customerName string, summary RentalSummary, attachments ...Attachment) error {
	content, err := renderRentalAgreement(customerName, summary, len(attachments) > 0)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectRentalAgreement, content, attachments...)
}

func (s *SMTPSender) SendRegistrationEmail(ctx context.Context, toEmail, customerName string) error {
	content, err := renderEmailTemplate("registration.html", registrationEmailData{
		baseEmailData: baseEmailData{
			Title:   subjectRegistration,
			Heading: "Drive KL Executive",
		},
		CustomerName: customerName,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectRegistration, content)
}
