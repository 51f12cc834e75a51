package adapters

import (
	"context"
	"time"

	"rental_agreement_backend/internal/agreement"
	"rental_agreement_backend/internal/pdf"
	rentalsvc "rental_agreement_backend/internal/rentals/service"
	"rental_agreement_backend/platform/apperr"
	"rental_agreement_backend/platform/logger"

	"github.com/h2non/filetype"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
)

// ArtifactReader loads stored images for embedding.
type ArtifactReader interface {
	Read(ctx context.Context, ref string) ([]byte, error)
}

// AgreementAssembler builds the agreement PDF from a rental, its party and
// the stored images. Images that cannot be loaded are skipped with a warning.
type AgreementAssembler struct {
	artifacts ArtifactReader
	log       *logger.Logger
	now       func() time.Time
}

// NewAgreementAssembler creates the assembler.
func NewAgreementAssembler(artifacts ArtifactReader, log *logger.Logger) *AgreementAssembler {
	return &AgreementAssembler{artifacts: artifacts, log: log, now: time.Now}
}

// Assemble renders the agreement document.
func (a *AgreementAssembler) Assemble(ctx context.Context, rental agreement.Rental, party agreement.Party) ([]byte, error) {
	data := pdf.AgreementPDFData{
		FullName:                party.FullName,
		ICPassport:              party.ICPassport,
		Email:                   party.Email,
		Phone:                   party.Phone,
		Address:                 party.Address,
		Vehicle:                 rental.Vehicle,
		Color:                   rental.Color,
		MileageLimitKm:          rental.MileageLimitKm,
		ExtraMileageChargeCents: rental.ExtraMileageChargeCents,
		FuelLevel:               rental.FuelLevel,
		StartDate:               rental.StartDate,
		EndDate:                 rental.EndDate,
		TotalDays:               max(rental.TotalDays, 1),
		RentalPerDayCents:       rental.RentalPerDayCents,
		DepositCents:            rental.DepositCents,
		DiscountCents:           rental.DiscountCents,
		GeneratedAt:             a.now(),
	}
	data.GrandTotalCents = rentalsvc.GrandTotal(data.RentalPerDayCents, data.TotalDays, data.DepositCents, data.DiscountCents)

	log := a.log.WithContext(ctx)
	for _, slot := range agreement.PhotoSlots {
		ref := rental.Photos[slot]
		if ref == "" {
			continue
		}
		img, err := a.loadImage(ctx, ref)
		if err != nil {
			log.Warn("skipping vehicle photo", "slot", string(slot), "ref", ref, "error", err)
			continue
		}
		data.Photos = append(data.Photos, pdf.LabeledPhoto{Label: slot.Label(), Image: img})
	}

	if rental.SignatureRef != "" {
		img, err := a.loadImage(ctx, rental.SignatureRef)
		if err != nil {
			log.Warn("skipping signature", "ref", rental.SignatureRef, "error", err)
		} else {
			data.Signature = &img
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := pdf.GenerateAgreementPDF(data)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to render agreement", err)
	}
	return doc, nil
}

func (a *AgreementAssembler) loadImage(ctx context.Context, ref string) (pdf.Image, error) {
	data, err := a.artifacts.Read(ctx, ref)
	if err != nil {
		return pdf.Image{}, err
	}
	kind, err := filetype.Match(data)
	if err != nil {
		return pdf.Image{}, apperr.Decode("unreadable image", err)
	}
	switch kind.MIME.Value {
	case "image/png":
		return pdf.Image{Data: data, Ext: extension.Png}, nil
	case "image/jpeg":
		return pdf.Image{Data: data, Ext: extension.Jpg}, nil
	default:
		return pdf.Image{}, apperr.Decode("unsupported image type "+kind.MIME.Value, nil)
	}
}

var _ agreement.Assembler = (*AgreementAssembler)(nil)
