package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rental_agreement_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Customer is the database model for a renter
type Customer struct {
	ID                uuid.UUID  `db:"id"`
	FullName          string     `db:"full_name"`
	Email             string     `db:"email"`
	Phone             string     `db:"phone"`
	Address           string     `db:"address"`
	ICPassportNumber  string     `db:"ic_passport_number"`
	ICPassportURL     *string    `db:"ic_passport_url"`
	UtilityBillURL    *string    `db:"utility_bill_url"`
	SocialMediaHandle *string    `db:"social_media_handle"`
	Status            string     `db:"status"`
	TermsAcceptedAt   *time.Time `db:"terms_accepted_at"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

const customerNotFoundMsg = "customer not found"

// Repository provides database operations for customers
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new customers repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const customerColumns = `
	id, full_name, email, phone, address, ic_passport_number, ic_passport_url,
	utility_bill_url, social_media_handle, status, terms_accepted_at, created_at, updated_at`

// Create inserts a customer. A duplicate email is a conflict.
func (r *Repository) Create(ctx context.Context, c *Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.pool.Exec(ctx, query,
		c.ID, c.FullName, c.Email, c.Phone, c.Address, c.ICPassportNumber, c.ICPassportURL,
		c.UtilityBillURL, c.SocialMediaHandle, c.Status, c.TermsAcceptedAt, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.Conflict("a customer with this email already exists")
		}
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	return nil
}

// GetByID retrieves a customer by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	var c Customer
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.FullName, &c.Email, &c.Phone, &c.Address, &c.ICPassportNumber, &c.ICPassportURL,
		&c.UtilityBillURL, &c.SocialMediaHandle, &c.Status, &c.TermsAcceptedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, apperr.NotFound(customerNotFoundMsg)
	}
	if err != nil {
		return Customer{}, fmt.Errorf("failed to get customer: %w", err)
	}
	return c, nil
}

// AcceptTerms stamps the terms acceptance time.
func (r *Repository) AcceptTerms(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE customers SET terms_accepted_at = $2, updated_at = now() WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("failed to accept terms: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(customerNotFoundMsg)
	}
	return nil
}
