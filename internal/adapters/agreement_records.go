package adapters

import (
	"context"
	"fmt"

	"rental_agreement_backend/internal/agreement"
	customersrepo "rental_agreement_backend/internal/customers/repository"
	rentalsrepo "rental_agreement_backend/internal/rentals/repository"
	rentalsvc "rental_agreement_backend/internal/rentals/service"
	"rental_agreement_backend/platform/phone"

	"github.com/google/uuid"
)

// RentalRecordStore is the narrow rentals repository view the pipeline needs.
type RentalRecordStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (rentalsrepo.Rental, error)
	SetAgreementReference(ctx context.Context, id uuid.UUID, ref string) error
}

// CustomerRecordReader is the narrow customers repository view.
type CustomerRecordReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (customersrepo.Customer, error)
}

// AgreementRecords adapts the rentals and customers repositories to the
// agreement pipeline's RecordStore. It also answers the rentals service's
// customer existence check.
type AgreementRecords struct {
	rentals   RentalRecordStore
	customers CustomerRecordReader
}

// NewAgreementRecords creates the records adapter.
func NewAgreementRecords(rentals RentalRecordStore, customers CustomerRecordReader) *AgreementRecords {
	return &AgreementRecords{rentals: rentals, customers: customers}
}

// GetRentalByID maps a stored rental to the pipeline's view. Days and the
// grand total are recomputed from the stored prices so the document and the
// delivery summary agree even for legacy rows.
func (a *AgreementRecords) GetRentalByID(ctx context.Context, id uuid.UUID) (agreement.Rental, error) {
	r, err := a.rentals.GetByID(ctx, id)
	if err != nil {
		return agreement.Rental{}, fmt.Errorf("look up rental for agreement: %w", err)
	}

	photos := make(map[agreement.PhotoSlot]string, len(r.VehiclePhotos))
	for key, ref := range r.VehiclePhotos {
		slot := agreement.PhotoSlot(key)
		if slot.Valid() && ref != "" {
			photos[slot] = ref
		}
	}

	days := max(r.TotalDays, 1)

	return agreement.Rental{
		ID:                      r.ID,
		CustomerID:              r.CustomerID,
		Vehicle:                 r.Vehicle,
		Color:                   r.Color,
		MileageLimitKm:          r.MileageLimitKm,
		ExtraMileageChargeCents: r.ExtraMileageChargeCents,
		FuelLevel:               r.FuelLevel,
		StartDate:               r.StartDate,
		EndDate:                 r.EndDate,
		TotalDays:               days,
		RentalPerDayCents:       r.RentalPerDayCents,
		DepositCents:            r.DepositCents,
		DiscountCents:           r.DiscountCents,
		GrandTotalCents:         rentalsvc.GrandTotal(r.RentalPerDayCents, days, r.DepositCents, r.DiscountCents),
		Photos:                  photos,
		PaymentProofRef:         deref(r.PaymentProofURL),
		SignatureRef:            deref(r.SignatureURL),
		AgreementRef:            deref(r.AgreementPDFURL),
	}, nil
}

// GetPartyByID maps a customer to the party printed on the agreement.
func (a *AgreementRecords) GetPartyByID(ctx context.Context, id uuid.UUID) (agreement.Party, error) {
	c, err := a.customers.GetByID(ctx, id)
	if err != nil {
		return agreement.Party{}, fmt.Errorf("look up customer for agreement: %w", err)
	}
	return agreement.Party{
		ID:         c.ID,
		FullName:   c.FullName,
		ICPassport: c.ICPassportNumber,
		Email:      c.Email,
		Phone:      phone.Display(c.Phone),
		Address:    c.Address,
	}, nil
}

// SetAgreementReference records the stored agreement on the rental.
func (a *AgreementRecords) SetAgreementReference(ctx context.Context, rentalID uuid.UUID, ref string) error {
	return a.rentals.SetAgreementReference(ctx, rentalID, ref)
}

// CustomerExists reports whether the renter is registered.
func (a *AgreementRecords) CustomerExists(ctx context.Context, id uuid.UUID) error {
	_, err := a.customers.GetByID(ctx, id)
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Compile-time checks.
var (
	_ agreement.RecordStore     = (*AgreementRecords)(nil)
	_ rentalsvc.CustomerChecker = (*AgreementRecords)(nil)
)
