package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

const displayDate = "02/01/2006"

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

type rentalAgreementEmailData struct {
	baseEmailData
	CustomerName   string
	Vehicle        string
	Color          string
	StartDate      string
	EndDate        string
	TotalFormatted string
	HasAttachments bool
}

type registrationEmailData struct {
	baseEmailData
	CustomerName string
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func formatCurrencyRM(cents int64) string {
	return "RM " + decimal.New(cents, -2).StringFixed(2)
}
