// Package service contains customer registration logic.
package service

import (
	"context"
	"strings"
	"time"

	"rental_agreement_backend/internal/customers/repository"
	"rental_agreement_backend/internal/customers/transport"
	"rental_agreement_backend/internal/events"
	"rental_agreement_backend/internal/media"
	"rental_agreement_backend/platform/phone"
	"rental_agreement_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Repository is the persistence the service needs.
type Repository interface {
	Create(ctx context.Context, c *repository.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (repository.Customer, error)
	AcceptTerms(ctx context.Context, id uuid.UUID, at time.Time) error
}

// ImageNormalizer stores uploaded scans.
type ImageNormalizer interface {
	Normalize(ctx context.Context, upload media.UploadedImage, opts media.Options) (string, error)
}

// Service handles customer registration and lookup.
type Service struct {
	repo       Repository
	normalizer ImageNormalizer
	eventBus   events.Publisher
}

// New creates a customers service.
func New(repo Repository, normalizer ImageNormalizer) *Service {
	return &Service{repo: repo, normalizer: normalizer}
}

// SetEventBus enables CustomerRegistered notifications.
func (s *Service) SetEventBus(bus events.Publisher) {
	s.eventBus = bus
}

// RegisterInput carries the form fields and uploaded scans.
type RegisterInput struct {
	Request     transport.RegisterCustomerRequest
	ICPassport  media.UploadedImage
	UtilityBill *media.UploadedImage
}

// Register watermarks the IC/passport scan, stores the optional utility bill
// and creates the customer.
func (s *Service) Register(ctx context.Context, in RegisterInput) (transport.CustomerResponse, error) {
	icRef, err := s.normalizer.Normalize(ctx, in.ICPassport, media.DocumentOptions())
	if err != nil {
		return transport.CustomerResponse{}, err
	}

	var billRef *string
	if in.UtilityBill != nil {
		ref, err := s.normalizer.Normalize(ctx, *in.UtilityBill, media.UtilityBillOptions())
		if err != nil {
			return transport.CustomerResponse{}, err
		}
		billRef = &ref
	}

	req := in.Request
	now := time.Now()
	c := repository.Customer{
		ID:                uuid.New(),
		FullName:          sanitize.Text(req.FullName),
		Email:             strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:             phone.NormalizeE164(req.Phone),
		Address:           sanitize.Text(req.Address),
		ICPassportNumber:  strings.ToUpper(sanitize.Text(req.ICPassportNumber)),
		ICPassportURL:     &icRef,
		UtilityBillURL:    billRef,
		SocialMediaHandle: optional(sanitize.Text(req.SocialMediaHandle)),
		Status:            "pending",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.Create(ctx, &c); err != nil {
		return transport.CustomerResponse{}, err
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.CustomerRegistered{
			BaseEvent:  events.NewBaseEvent(),
			CustomerID: c.ID,
			FullName:   c.FullName,
			Email:      c.Email,
		})
	}

	return toResponse(c), nil
}

// GetByID returns a customer.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.CustomerResponse, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.CustomerResponse{}, err
	}
	return toResponse(c), nil
}

// AcceptTerms records that the customer accepted the rental terms.
func (s *Service) AcceptTerms(ctx context.Context, id uuid.UUID) (transport.CustomerResponse, error) {
	if err := s.repo.AcceptTerms(ctx, id, time.Now()); err != nil {
		return transport.CustomerResponse{}, err
	}
	return s.GetByID(ctx, id)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toResponse(c repository.Customer) transport.CustomerResponse {
	return transport.CustomerResponse{
		ID:                c.ID,
		FullName:          c.FullName,
		Email:             c.Email,
		Phone:             c.Phone,
		Address:           c.Address,
		ICPassportNumber:  c.ICPassportNumber,
		ICPassportURL:     c.ICPassportURL,
		UtilityBillURL:    c.UtilityBillURL,
		SocialMediaHandle: c.SocialMediaHandle,
		Status:            c.Status,
		TermsAcceptedAt:   c.TermsAcceptedAt,
		CreatedAt:         c.CreatedAt,
	}
}
