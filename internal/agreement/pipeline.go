// Package agreement orchestrates agreement generation for a stored rental:
// load records, assemble the PDF, persist it, record its reference and try
// to deliver it.
package agreement

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"rental_agreement_backend/internal/adapters/storage"
	"rental_agreement_backend/internal/events"
	"rental_agreement_backend/platform/apperr"
	"rental_agreement_backend/platform/logger"

	"github.com/google/uuid"
)

// RecordStore reads rentals and parties and records the agreement reference.
type RecordStore interface {
	GetRentalByID(ctx context.Context, id uuid.UUID) (Rental, error)
	GetPartyByID(ctx context.Context, id uuid.UUID) (Party, error)
	SetAgreementReference(ctx context.Context, rentalID uuid.UUID, ref string) error
}

// Assembler renders the agreement document.
type Assembler interface {
	Assemble(ctx context.Context, rental Rental, party Party) ([]byte, error)
}

// Deliverer sends the stored agreement to the renter.
type Deliverer interface {
	Deliver(ctx context.Context, party Party, ref string, summary Summary) error
}

// Config tunes the pipeline.
type Config struct {
	// Strict requires a signature and every photo slot before generating.
	Strict      bool
	StepTimeout time.Duration
}

// Pipeline generates agreements.
type Pipeline struct {
	records   RecordStore
	assembler Assembler
	store     storage.ArtifactStore
	deliverer Deliverer
	bus       events.Publisher
	cfg       Config
	log       *logger.Logger
	now       func() time.Time
}

// New creates a pipeline. deliverer may be nil when delivery is disabled.
func New(records RecordStore, assembler Assembler, store storage.ArtifactStore, deliverer Deliverer, cfg Config, log *logger.Logger) *Pipeline {
	if cfg.StepTimeout <= 0 {
		cfg.StepTimeout = 30 * time.Second
	}
	return &Pipeline{
		records:   records,
		assembler: assembler,
		store:     store,
		deliverer: deliverer,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// SetEventBus enables AgreementGenerated notifications.
func (p *Pipeline) SetEventBus(bus events.Publisher) {
	p.bus = bus
}

// GenerateAgreement produces and stores the agreement for rentalID. Concurrent
// calls for the same rental are not serialized; the last recorded reference wins.
func (p *Pipeline) GenerateAgreement(ctx context.Context, rentalID uuid.UUID) (Result, error) {
	var rental Rental
	err := p.step(ctx, "load rental", func(ctx context.Context) error {
		var err error
		rental, err = p.records.GetRentalByID(ctx, rentalID)
		return err
	})
	if err != nil {
		return Result{}, err
	}

	var party Party
	err = p.step(ctx, "load party", func(ctx context.Context) error {
		var err error
		party, err = p.records.GetPartyByID(ctx, rental.CustomerID)
		return err
	})
	if err != nil {
		return Result{}, err
	}

	if p.cfg.Strict {
		if err := checkComplete(rental); err != nil {
			return Result{}, err
		}
	}

	var doc []byte
	err = p.step(ctx, "assemble", func(ctx context.Context) error {
		var err error
		doc, err = p.assembler.Assemble(ctx, rental, party)
		return err
	})
	if err != nil {
		return Result{}, err
	}

	var ref string
	err = p.step(ctx, "store", func(ctx context.Context) error {
		var err error
		ref, err = p.store.Put(ctx, storage.RootBackups, FileName(party.FullName, p.now()), doc, "application/pdf")
		return err
	})
	if err != nil {
		return Result{}, err
	}

	err = p.step(ctx, "record reference", func(ctx context.Context) error {
		return p.records.SetAgreementReference(ctx, rental.ID, ref)
	})
	if err != nil {
		return Result{}, err
	}

	result := Result{Reference: ref, DownloadURL: DownloadURL(rental.ID), DeliveryConfigured: p.deliverer != nil}
	result.Delivered = p.deliver(ctx, rental, party, ref)

	p.log.WithContext(ctx).AgreementGenerated(rental.ID.String(), ref, result.Delivered)
	if p.bus != nil {
		p.bus.Publish(ctx, events.AgreementGenerated{
			BaseEvent: events.NewBaseEvent(),
			RentalID:  rental.ID,
			Reference: ref,
			Delivered: result.Delivered,
			Skipped:   !result.DeliveryConfigured,
		})
	}

	return result, nil
}

// deliver never fails the generation; the stored reference stays in place.
func (p *Pipeline) deliver(ctx context.Context, rental Rental, party Party, ref string) bool {
	if p.deliverer == nil {
		return false
	}
	summary := Summary{
		RentalID:        rental.ID,
		Vehicle:         rental.Vehicle,
		Color:           rental.Color,
		StartDate:       rental.StartDate,
		EndDate:         rental.EndDate,
		TotalDays:       rental.TotalDays,
		GrandTotalCents: rental.GrandTotalCents,
		DownloadURL:     DownloadURL(rental.ID),
	}
	err := p.step(ctx, "deliver", func(ctx context.Context) error {
		return p.deliverer.Deliver(ctx, party, ref, summary)
	})
	if err != nil {
		p.log.WithContext(ctx).DeliveryFailed(rental.ID.String(), ref, apperr.Delivery("agreement delivery failed", err))
		return false
	}
	return true
}

// step runs fn under the per-step deadline. A hit deadline becomes KindTimeout.
func (p *Pipeline) step(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	stepCtx, cancel := context.WithTimeout(ctx, p.cfg.StepTimeout)
	defer cancel()

	err := fn(stepCtx)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || (stepCtx.Err() != nil && ctx.Err() == nil) {
		return apperr.Timeout(fmt.Sprintf("%s timed out", name), err).WithOp(name)
	}
	return err
}

func checkComplete(rental Rental) error {
	var missing []string
	if strings.TrimSpace(rental.SignatureRef) == "" {
		missing = append(missing, "signature")
	}
	for _, slot := range PhotoSlots {
		if strings.TrimSpace(rental.Photos[slot]) == "" {
			missing = append(missing, string(slot))
		}
	}
	if len(missing) > 0 {
		return apperr.Validation("rental is incomplete").WithDetails(map[string][]string{"missing": missing})
	}
	return nil
}

var nameSeparators = regexp.MustCompile(`\s+`)
var nameUnsafe = regexp.MustCompile(`[^A-Za-z0-9-]+`)

// FileName builds <Full-Name>-<YYYY-MM-DD>-<8 hex>-agreement.pdf.
func FileName(fullName string, at time.Time) string {
	name := nameSeparators.ReplaceAllString(strings.TrimSpace(fullName), "-")
	name = strings.Trim(nameUnsafe.ReplaceAllString(name, ""), "-")
	if name == "" {
		name = "Customer"
	}
	return fmt.Sprintf("%s-%s-%s-agreement.pdf", name, at.Format("2006-01-02"), uuid.NewString()[:8])
}
