// Package pdf renders the car rental agreement with maroto/v2.
// The document has a fixed section order: parties and pricing on the first
// page, then the terms, the vehicle condition photos and the signature page,
// each starting on a fresh page.
package pdf

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
)

// Company identity printed on every agreement.
const (
	CompanyName   = "DRIVE KL EXECUTIVE SDN BHD"
	DocumentTitle = "CAR RENTAL AGREEMENT"
)

const (
	pageTopMargin     = 12
	pageSideMargin    = 15
	pageBottomMargin  = 20
	footerHeight      = 10
	photoHeaderHeight = 14
	photoLabelHeight  = 6
	photoImageHeight  = 60
	photoRowGap       = 4
)

// ── Colour palette ──────────────────────────────────────────────────────

var (
	colorPrimary   = &props.Color{Red: 17, Green: 24, Blue: 39}    // near-black
	colorSecondary = &props.Color{Red: 107, Green: 114, Blue: 128} // gray-500
	colorAccent    = &props.Color{Red: 153, Green: 27, Blue: 27}   // red-800
	colorTableHead = &props.Color{Red: 241, Green: 245, Blue: 249} // slate-100
	colorBorder    = &props.Color{Red: 226, Green: 232, Blue: 240} // slate-200
)

// ── Data struct ─────────────────────────────────────────────────────────

// Image is a loaded raster ready for embedding.
type Image struct {
	Data []byte
	Ext  extension.Type
}

// LabeledPhoto is one vehicle condition photo with its slot label.
type LabeledPhoto struct {
	Label string
	Image Image
}

// AgreementPDFData holds all data needed to render an agreement.
type AgreementPDFData struct {
	// Customer
	FullName   string
	ICPassport string
	Email      string
	Phone      string
	Address    string

	// Vehicle
	Vehicle                 string
	Color                   string
	MileageLimitKm          int
	ExtraMileageChargeCents int64
	FuelLevel               int

	// Rental
	StartDate time.Time
	EndDate   time.Time
	TotalDays int

	// Payment
	RentalPerDayCents int64
	DepositCents      int64
	DiscountCents     int64
	GrandTotalCents   int64

	// Photos in slot order; slots that failed to load are left out.
	Photos    []LabeledPhoto
	Signature *Image

	GeneratedAt time.Time
}

// GenerateAgreementPDF renders the agreement and returns the PDF bytes.
func GenerateAgreementPDF(data AgreementPDFData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(pageSideMargin).
		WithTopMargin(pageTopMargin).
		WithRightMargin(pageSideMargin).
		Build()

	m := maroto.New(cfg)

	// ── Registered footer (repeats on every page) ───────────────────────
	if err := m.RegisterFooter(buildFooter()); err != nil {
		return nil, fmt.Errorf("register footer: %w", err)
	}

	// 1-5. Title, parties, vehicle, rental and payment
	m.AddRows(buildTitle()...)
	m.AddRows(buildSection("CUSTOMER INFORMATION", [][2]string{
		{"Full Name", data.FullName},
		{"IC/Passport No.", data.ICPassport},
		{"Email", data.Email},
		{"Phone", data.Phone},
		{"Address", data.Address},
	})...)
	m.AddRows(buildSection("VEHICLE INFORMATION", [][2]string{
		{"Vehicle", data.Vehicle},
		{"Color", data.Color},
		{"Mileage Limit", fmt.Sprintf("%d KM", data.MileageLimitKm)},
		{"Extra Mileage Charge", FormatRM(data.ExtraMileageChargeCents) + "/km"},
		{"Fuel Level at Pickup", FuelLevelText(data.FuelLevel)},
	})...)
	m.AddRows(buildSection("RENTAL DETAILS", [][2]string{
		{"Start Date", data.StartDate.Format("02/01/2006")},
		{"End Date", data.EndDate.Format("02/01/2006")},
		{"Total Days", fmt.Sprintf("%d", data.TotalDays)},
	})...)
	m.AddRows(buildPayment(data)...)

	// 6. Terms
	m.AddPages(page.New().Add(buildTerms()...))

	// 7. Photos, one maroto page per planned page
	for i, rows := range buildPhotoPages(data.Photos) {
		if i == 0 {
			rows = append(buildHeading("VEHICLE CONDITION PHOTOS"), rows...)
		}
		m.AddPages(page.New().Add(rows...))
	}

	// 8. Signature
	m.AddPages(page.New().Add(buildSignature(data)...))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// ── Title ───────────────────────────────────────────────────────────────

func buildTitle() []core.Row {
	return []core.Row{
		row.New(10).Add(
			col.New(12).Add(text.New(CompanyName, props.Text{
				Size:  18,
				Style: fontstyle.Bold,
				Align: align.Center,
				Color: colorPrimary,
			})),
		),
		row.New(9).Add(
			col.New(12).Add(text.New(DocumentTitle, props.Text{
				Size:  14,
				Align: align.Center,
				Color: colorAccent,
				Top:   1,
			})),
		),
		row.New(1).WithStyle(&props.Cell{
			BorderType:  border.Bottom,
			BorderColor: colorBorder,
		}),
		row.New(6),
	}
}

// ── Sections ────────────────────────────────────────────────────────────

func buildHeading(title string) []core.Row {
	return []core.Row{
		row.New(10).Add(
			col.New(12).Add(text.New(title, props.Text{
				Size:  12,
				Style: fontstyle.Bold,
				Color: colorAccent,
				Top:   2,
			})),
		).WithStyle(&props.Cell{
			BorderType:  border.Bottom,
			BorderColor: colorBorder,
		}),
		row.New(4),
	}
}

func buildSection(title string, fields [][2]string) []core.Row {
	rows := buildHeading(title)

	labelStyle := props.Text{Size: 9, Color: colorSecondary}
	valueStyle := props.Text{Size: 9, Color: colorPrimary}
	for _, f := range fields {
		rows = append(rows, row.New(6).Add(
			col.New(4).Add(text.New(f[0]+":", labelStyle)),
			col.New(8).Add(text.New(f[1], valueStyle)),
		))
	}
	rows = append(rows, row.New(4))
	return rows
}

func buildPayment(data AgreementPDFData) []core.Row {
	rows := buildSection("PAYMENT INFORMATION", [][2]string{
		{"Rental Per Day", FormatRM(data.RentalPerDayCents)},
		{"Deposit", FormatRM(data.DepositCents)},
		{"Discount", FormatRM(data.DiscountCents)},
	})

	totalStyle := props.Text{Size: 12, Style: fontstyle.Bold, Color: colorPrimary, Top: 2}
	rows = append(rows, row.New(10).Add(
		col.New(4).Add(text.New("GRAND TOTAL:", totalStyle)),
		col.New(8).Add(text.New(FormatRM(data.GrandTotalCents), totalStyle)),
	).WithStyle(&props.Cell{
		BackgroundColor: colorTableHead,
		BorderType:      border.Top | border.Bottom,
		BorderColor:     colorBorder,
	}))
	return rows
}

// ── Terms ───────────────────────────────────────────────────────────────

func buildTerms() []core.Row {
	rows := []core.Row{
		row.New(12).Add(
			col.New(12).Add(text.New("TERMS AND CONDITIONS", props.Text{
				Size:  14,
				Style: fontstyle.Bold,
				Align: align.Center,
				Color: colorPrimary,
			})),
		),
	}

	for _, block := range rentalTerms {
		style := props.Text{Size: 9, Color: colorPrimary, Align: align.Justify, Top: 2}
		if block.Heading {
			style = props.Text{Size: 10, Style: fontstyle.Bold, Color: colorAccent, Top: 4}
		}
		rows = append(rows, row.New().Add(col.New(12).Add(text.New(block.Text, style))))
	}
	return rows
}

// ── Photos ──────────────────────────────────────────────────────────────

// buildPhotoPages renders the grid planned by PlanPhotoGrid, grouped by page.
// With no photos it still yields one (empty) page for the section header.
func buildPhotoPages(photos []LabeledPhoto) [][]core.Row {
	plan := PlanPhotoGrid(len(photos), DefaultPhotoGrid)
	pages := make([][]core.Row, max(PageCount(plan), 1))

	for _, pr := range plan {
		labels := make([]core.Col, 0, DefaultPhotoGrid.PerRow)
		images := make([]core.Col, 0, DefaultPhotoGrid.PerRow)
		for _, i := range pr.Indexes {
			p := photos[i]
			labels = append(labels, col.New(6).Add(text.New(p.Label, props.Text{
				Size:  9,
				Style: fontstyle.Bold,
				Color: colorSecondary,
			})))
			images = append(images, col.New(6).Add(image.NewFromBytes(p.Image.Data, p.Image.Ext, props.Rect{
				Center:  true,
				Percent: 95,
			})))
		}
		for len(labels) < DefaultPhotoGrid.PerRow {
			labels = append(labels, col.New(6))
			images = append(images, col.New(6))
		}

		pages[pr.Page] = append(pages[pr.Page],
			row.New(photoLabelHeight).Add(labels...),
			row.New(photoImageHeight).Add(images...),
			row.New(photoRowGap),
		)
	}
	return pages
}

// ── Signature ───────────────────────────────────────────────────────────

func buildSignature(data AgreementPDFData) []core.Row {
	rows := buildHeading("DIGITAL SIGNATURE")

	if data.Signature != nil && len(data.Signature.Data) > 0 {
		rows = append(rows, row.New(35).Add(
			col.New(6).Add(image.NewFromBytes(data.Signature.Data, data.Signature.Ext, props.Rect{
				Center:  false,
				Percent: 90,
			})),
			col.New(6),
		))
	} else {
		rows = append(rows, row.New(35))
	}

	rows = append(rows,
		row.New(1).WithStyle(&props.Cell{
			BorderType:  border.Bottom,
			BorderColor: colorBorder,
		}),
		row.New(4),
		row.New(6).Add(col.New(12).Add(text.New("Customer Name: "+data.FullName, props.Text{
			Size:  10,
			Style: fontstyle.Bold,
			Color: colorPrimary,
		}))),
		row.New(6).Add(col.New(12).Add(text.New("Date: "+data.GeneratedAt.Format("02/01/2006"), props.Text{
			Size:  10,
			Color: colorSecondary,
		}))),
	)
	return rows
}

// ── Footer (registered, repeats on every page) ──────────────────────────

func buildFooter() core.Row {
	return row.New(footerHeight).Add(
		col.New(12).Add(
			text.New(joinParts([]string{"Drive KL Executive Sdn Bhd", DocumentTitle}, "  ·  "), props.Text{
				Size:  6.5,
				Color: colorSecondary,
				Align: align.Center,
				Top:   4,
			}),
		),
	).WithStyle(&props.Cell{
		BorderType:  border.Top,
		BorderColor: colorBorder,
	})
}

// ── Helpers ─────────────────────────────────────────────────────────────

var fuelLevels = []string{"Empty", "1/8", "1/4", "3/8", "1/2", "5/8", "3/4", "7/8", "Full"}

// FuelLevelText maps a 0..8 gauge index to its label.
func FuelLevelText(level int) string {
	if level < 0 || level >= len(fuelLevels) {
		return "Unknown"
	}
	return fuelLevels[level]
}

// FormatRM renders sen as "RM 1234.50".
func FormatRM(cents int64) string {
	return "RM " + decimal.New(cents, -2).StringFixed(2)
}

func joinParts(parts []string, sep string) string {
	result := ""
	for i, p := range parts {
		if p == "" {
			continue
		}
		if result != "" && i > 0 {
			result += sep
		}
		result += p
	}
	return result
}
