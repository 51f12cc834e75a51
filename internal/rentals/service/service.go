// Package service contains rental submission and agreement orchestration.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rental_agreement_backend/internal/agreement"
	"rental_agreement_backend/internal/events"
	"rental_agreement_backend/internal/media"
	"rental_agreement_backend/internal/rentals/repository"
	"rental_agreement_backend/internal/rentals/transport"
	"rental_agreement_backend/platform/apperr"
	"rental_agreement_backend/platform/sanitize"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	dateLayout        = "2006-01-02"
	uploadConcurrency = 4
)

// Repository is the rental persistence the service needs.
type Repository interface {
	Create(ctx context.Context, r *repository.Rental) error
	GetByID(ctx context.Context, id uuid.UUID) (repository.Rental, error)
}

// CustomerChecker confirms the renter exists before anything is stored.
type CustomerChecker interface {
	CustomerExists(ctx context.Context, id uuid.UUID) error
}

// ImageNormalizer stores vehicle photos and payment proofs.
type ImageNormalizer interface {
	Normalize(ctx context.Context, upload media.UploadedImage, opts media.Options) (string, error)
}

// SignatureStore persists the drawn signature.
type SignatureStore interface {
	Store(ctx context.Context, dataURL string) (string, error)
}

// AgreementGenerator runs the agreement pipeline.
type AgreementGenerator interface {
	GenerateAgreement(ctx context.Context, rentalID uuid.UUID) (agreement.Result, error)
}

// AgreementQueue enqueues background generation.
type AgreementQueue interface {
	EnqueueAgreementGeneration(ctx context.Context, rentalID uuid.UUID) (string, error)
}

// ArtifactReader loads stored artifacts for download.
type ArtifactReader interface {
	Read(ctx context.Context, ref string) ([]byte, error)
}

// Service handles rentals.
type Service struct {
	repo       Repository
	customers  CustomerChecker
	normalizer ImageNormalizer
	signatures SignatureStore
	generator  AgreementGenerator
	artifacts  ArtifactReader
	queue      AgreementQueue
	eventBus   events.Publisher
	now        func() time.Time
}

// New creates a rentals service.
func New(repo Repository, customers CustomerChecker, normalizer ImageNormalizer, signatures SignatureStore, generator AgreementGenerator, artifacts ArtifactReader) *Service {
	return &Service{
		repo:       repo,
		customers:  customers,
		normalizer: normalizer,
		signatures: signatures,
		generator:  generator,
		artifacts:  artifacts,
		now:        time.Now,
	}
}

// SetEventBus enables RentalSubmitted notifications.
func (s *Service) SetEventBus(bus events.Publisher) {
	s.eventBus = bus
}

// SetAgreementGenerator replaces the agreement pipeline.
func (s *Service) SetAgreementGenerator(gen AgreementGenerator) {
	s.generator = gen
}

// SetQueue enables background agreement generation.
func (s *Service) SetQueue(queue AgreementQueue) {
	s.queue = queue
}

// SubmitInput carries the rental form and its uploads.
type SubmitInput struct {
	Request      transport.SubmitRentalRequest
	Photos       map[agreement.PhotoSlot]media.UploadedImage
	PaymentProof *media.UploadedImage
}

type pricing struct {
	start, end   time.Time
	days         int
	perDay       int64
	deposit      int64
	discount     int64
	extraMileage int64
	grandTotal   int64
}

func parsePricing(req transport.SubmitRentalRequest) (pricing, error) {
	var p pricing
	var err error
	if p.start, err = time.Parse(dateLayout, req.StartDate); err != nil {
		return p, apperr.Validation("startDate must be YYYY-MM-DD")
	}
	if p.end, err = time.Parse(dateLayout, req.EndDate); err != nil {
		return p, apperr.Validation("endDate must be YYYY-MM-DD")
	}
	if p.end.Before(p.start) {
		return p, apperr.Validation("endDate must not be before startDate")
	}
	if p.perDay, err = ParseRM("rentalPerDay", req.RentalPerDay); err != nil {
		return p, err
	}
	if p.deposit, err = ParseRM("deposit", req.Deposit); err != nil {
		return p, err
	}
	if p.discount, err = ParseRM("discount", req.Discount); err != nil {
		return p, err
	}
	if p.extraMileage, err = ParseRM("extraMileageCharge", req.ExtraMileageCharge); err != nil {
		return p, err
	}
	p.days = TotalDays(p.start, p.end)
	p.grandTotal = GrandTotal(p.perDay, p.days, p.deposit, p.discount)
	return p, nil
}

// Submit stores every upload, computes the totals and creates the rental.
// Every photo slot and the payment proof are required.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (transport.RentalResponse, error) {
	req := in.Request
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return transport.RentalResponse{}, apperr.Validation("customerId must be a UUID")
	}

	var missing []string
	for _, slot := range agreement.PhotoSlots {
		if _, ok := in.Photos[slot]; !ok {
			missing = append(missing, string(slot))
		}
	}
	if in.PaymentProof == nil {
		missing = append(missing, "paymentProof")
	}
	if len(missing) > 0 {
		return transport.RentalResponse{}, apperr.Validation("missing required uploads").
			WithDetails(map[string][]string{"missing": missing})
	}

	price, err := parsePricing(req)
	if err != nil {
		return transport.RentalResponse{}, err
	}

	if err := s.customers.CustomerExists(ctx, customerID); err != nil {
		return transport.RentalResponse{}, err
	}

	photoRefs := make([]string, len(agreement.PhotoSlots))
	var proofRef, signatureRef string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)
	for i, slot := range agreement.PhotoSlots {
		upload := in.Photos[slot]
		g.Go(func() error {
			ref, err := s.normalizer.Normalize(gctx, upload, media.VehiclePhotoOptions())
			if err != nil {
				return fmt.Errorf("%s photo: %w", slot, err)
			}
			photoRefs[i] = ref
			return nil
		})
	}
	g.Go(func() error {
		ref, err := s.normalizer.Normalize(gctx, *in.PaymentProof, media.PaymentProofOptions())
		if err != nil {
			return fmt.Errorf("payment proof: %w", err)
		}
		proofRef = ref
		return nil
	})
	g.Go(func() error {
		ref, err := s.signatures.Store(gctx, req.SignatureData)
		if err != nil {
			return err
		}
		signatureRef = ref
		return nil
	})
	if err := g.Wait(); err != nil {
		return transport.RentalResponse{}, err
	}

	photos := make(map[string]string, len(photoRefs))
	for i, slot := range agreement.PhotoSlots {
		photos[string(slot)] = photoRefs[i]
	}

	now := s.now()
	r := repository.Rental{
		ID:                      uuid.New(),
		CustomerID:              customerID,
		Vehicle:                 sanitize.Text(req.Vehicle),
		Color:                   sanitize.Text(req.Color),
		MileageLimitKm:          req.MileageLimit,
		ExtraMileageChargeCents: price.extraMileage,
		FuelLevel:               req.FuelLevel,
		StartDate:               price.start,
		EndDate:                 price.end,
		TotalDays:               price.days,
		RentalPerDayCents:       price.perDay,
		DepositCents:            price.deposit,
		DiscountCents:           price.discount,
		GrandTotalCents:         price.grandTotal,
		VehiclePhotos:           photos,
		PaymentProofURL:         &proofRef,
		SignatureURL:            optional(signatureRef),
		Status:                  repository.StatusPending,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if err := s.repo.Create(ctx, &r); err != nil {
		return transport.RentalResponse{}, err
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.RentalSubmitted{
			BaseEvent:  events.NewBaseEvent(),
			RentalID:   r.ID,
			CustomerID: r.CustomerID,
		})
	}

	return toResponse(r), nil
}

// GetByID returns a rental.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.RentalResponse, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.RentalResponse{}, err
	}
	return toResponse(r), nil
}

// GenerateAgreement runs the pipeline synchronously.
func (s *Service) GenerateAgreement(ctx context.Context, id uuid.UUID) (transport.GenerateAgreementResponse, error) {
	if s.generator == nil {
		return transport.GenerateAgreementResponse{}, apperr.Unavailable("agreement generation is not configured")
	}
	result, err := s.generator.GenerateAgreement(ctx, id)
	if err != nil {
		return transport.GenerateAgreementResponse{}, err
	}
	msg := "Agreement generated and emailed successfully"
	switch {
	case !result.DeliveryConfigured:
		msg = "Agreement generated; email delivery is not configured"
	case !result.Delivered:
		msg = "Agreement generated; email delivery failed"
	}
	return transport.GenerateAgreementResponse{
		Message:     msg,
		PDFURL:      result.Reference,
		DownloadURL: result.DownloadURL,
		Delivered:   result.Delivered,
	}, nil
}

// EnqueueAgreement queues generation for a background worker.
func (s *Service) EnqueueAgreement(ctx context.Context, id uuid.UUID) (transport.EnqueueAgreementResponse, error) {
	if s.queue == nil {
		return transport.EnqueueAgreementResponse{}, apperr.Unavailable("background generation is not configured")
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return transport.EnqueueAgreementResponse{}, err
	}
	taskID, err := s.queue.EnqueueAgreementGeneration(ctx, id)
	if err != nil {
		return transport.EnqueueAgreementResponse{}, err
	}
	return transport.EnqueueAgreementResponse{Message: "Agreement generation queued", TaskID: taskID}, nil
}

// Download is a stored agreement ready to stream.
type Download struct {
	Filename string
	Content  []byte
}

// DownloadAgreement loads the rental's latest agreement.
func (s *Service) DownloadAgreement(ctx context.Context, id uuid.UUID) (Download, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Download{}, err
	}
	if r.AgreementPDFURL == nil || *r.AgreementPDFURL == "" {
		return Download{}, apperr.NotFound("agreement has not been generated")
	}
	content, err := s.artifacts.Read(ctx, *r.AgreementPDFURL)
	if err != nil {
		return Download{}, err
	}
	ref := *r.AgreementPDFURL
	return Download{Filename: ref[strings.LastIndex(ref, "/")+1:], Content: content}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toResponse(r repository.Rental) transport.RentalResponse {
	return transport.RentalResponse{
		ID:                 r.ID,
		CustomerID:         r.CustomerID,
		Vehicle:            r.Vehicle,
		Color:              r.Color,
		MileageLimit:       r.MileageLimitKm,
		ExtraMileageCharge: FormatAmount(r.ExtraMileageChargeCents),
		FuelLevel:          r.FuelLevel,
		StartDate:          r.StartDate.Format(dateLayout),
		EndDate:            r.EndDate.Format(dateLayout),
		TotalDays:          r.TotalDays,
		RentalPerDay:       FormatAmount(r.RentalPerDayCents),
		Deposit:            FormatAmount(r.DepositCents),
		Discount:           FormatAmount(r.DiscountCents),
		GrandTotal:         FormatAmount(r.GrandTotalCents),
		VehiclePhotos:      r.VehiclePhotos,
		PaymentProofURL:    r.PaymentProofURL,
		SignatureURL:       r.SignatureURL,
		AgreementPDFURL:    r.AgreementPDFURL,
		Status:             r.Status,
		CreatedAt:          r.CreatedAt,
	}
}
