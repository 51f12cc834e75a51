package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rental_agreement_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ── Domain Models ─────────────────────────────────────────────────────────────

// Rental is the database model for a rental
type Rental struct {
	ID                      uuid.UUID         `db:"id"`
	CustomerID              uuid.UUID         `db:"customer_id"`
	Vehicle                 string            `db:"vehicle"`
	Color                   string            `db:"color"`
	MileageLimitKm          int               `db:"mileage_limit_km"`
	ExtraMileageChargeCents int64             `db:"extra_mileage_charge_cents"`
	FuelLevel               int               `db:"fuel_level"`
	StartDate               time.Time         `db:"start_date"`
	EndDate                 time.Time         `db:"end_date"`
	TotalDays               int               `db:"total_days"`
	RentalPerDayCents       int64             `db:"rental_per_day_cents"`
	DepositCents            int64             `db:"deposit_cents"`
	DiscountCents           int64             `db:"discount_cents"`
	GrandTotalCents         int64             `db:"grand_total_cents"`
	VehiclePhotos           map[string]string `db:"vehicle_photos"`
	PaymentProofURL         *string           `db:"payment_proof_url"`
	SignatureURL            *string           `db:"signature_url"`
	AgreementPDFURL         *string           `db:"agreement_pdf_url"`
	Status                  string            `db:"status"`
	CreatedAt               time.Time         `db:"created_at"`
	UpdatedAt               time.Time         `db:"updated_at"`
}

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// ── Repository ────────────────────────────────────────────────────────────────

const rentalNotFoundMsg = "rental not found"

// Repository provides database operations for rentals
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new rentals repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const rentalColumns = `
	id, customer_id, vehicle, color, mileage_limit_km, extra_mileage_charge_cents, fuel_level,
	start_date, end_date, total_days, rental_per_day_cents, deposit_cents, discount_cents,
	grand_total_cents, vehicle_photos, payment_proof_url, signature_url, agreement_pdf_url,
	status, created_at, updated_at`

// Create inserts a rental
func (r *Repository) Create(ctx context.Context, rental *Rental) error {
	photos, err := json.Marshal(rental.VehiclePhotos)
	if err != nil {
		return fmt.Errorf("failed to encode vehicle photos: %w", err)
	}

	query := `
		INSERT INTO rentals (` + rentalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`

	_, err = r.pool.Exec(ctx, query,
		rental.ID, rental.CustomerID, rental.Vehicle, rental.Color, rental.MileageLimitKm,
		rental.ExtraMileageChargeCents, rental.FuelLevel, rental.StartDate, rental.EndDate,
		rental.TotalDays, rental.RentalPerDayCents, rental.DepositCents, rental.DiscountCents,
		rental.GrandTotalCents, photos, rental.PaymentProofURL, rental.SignatureURL,
		rental.AgreementPDFURL, rental.Status, rental.CreatedAt, rental.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert rental: %w", err)
	}
	return nil
}

// GetByID retrieves a rental by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`

	rental, err := scanRental(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Rental{}, apperr.NotFound(rentalNotFoundMsg)
	}
	if err != nil {
		return Rental{}, fmt.Errorf("failed to get rental: %w", err)
	}
	return rental, nil
}

// SetAgreementReference records the generated agreement and completes the rental.
// Later calls overwrite earlier ones.
func (r *Repository) SetAgreementReference(ctx context.Context, id uuid.UUID, ref string) error {
	query := `
		UPDATE rentals
		SET agreement_pdf_url = $2, status = $3, updated_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, ref, StatusCompleted)
	if err != nil {
		return fmt.Errorf("failed to set agreement reference: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(rentalNotFoundMsg)
	}
	return nil
}

// ListMissingAgreement returns the IDs of the oldest rentals without an agreement.
func (r *Repository) ListMissingAgreement(ctx context.Context, limit int) ([]uuid.UUID, error) {
	return r.ListMissingAgreementAfter(ctx, uuid.Nil, limit)
}

// ListMissingAgreementAfter pages through rentals without an agreement in
// (created_at, id) order, starting after the given rental. uuid.Nil starts
// from the oldest.
func (r *Repository) ListMissingAgreementAfter(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	query := `
		SELECT id FROM rentals
		WHERE agreement_pdf_url IS NULL
		ORDER BY created_at ASC, id ASC
		LIMIT $1`
	args := []any{limit}

	if after != uuid.Nil {
		query = `
			SELECT id FROM rentals
			WHERE agreement_pdf_url IS NULL
				AND (created_at, id) > (SELECT created_at, id FROM rentals WHERE id = $2)
			ORDER BY created_at ASC, id ASC
			LIMIT $1`
		args = append(args, after)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rentals without agreement: %w", err)
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("failed to scan rental ids: %w", err)
	}
	return ids, nil
}

func scanRental(row pgx.Row) (Rental, error) {
	var rental Rental
	var photos []byte
	err := row.Scan(
		&rental.ID, &rental.CustomerID, &rental.Vehicle, &rental.Color, &rental.MileageLimitKm,
		&rental.ExtraMileageChargeCents, &rental.FuelLevel, &rental.StartDate, &rental.EndDate,
		&rental.TotalDays, &rental.RentalPerDayCents, &rental.DepositCents, &rental.DiscountCents,
		&rental.GrandTotalCents, &photos, &rental.PaymentProofURL, &rental.SignatureURL,
		&rental.AgreementPDFURL, &rental.Status, &rental.CreatedAt, &rental.UpdatedAt,
	)
	if err != nil {
		return Rental{}, err
	}
	rental.VehiclePhotos = map[string]string{}
	if len(photos) > 0 {
		if err := json.Unmarshal(photos, &rental.VehiclePhotos); err != nil {
			return Rental{}, fmt.Errorf("failed to decode vehicle photos: %w", err)
		}
	}
	return rental, nil
}
