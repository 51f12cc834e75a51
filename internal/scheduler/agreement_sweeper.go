package scheduler

import (
	"context"
	"time"

	"rental_agreement_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	defaultSweepInterval = 5 * time.Minute
	defaultSweepBatch    = 50
)

// MissingAgreementLister pages through rentals that still have no agreement,
// oldest first, starting after the given rental (uuid.Nil for the start).
type MissingAgreementLister interface {
	ListMissingAgreementAfter(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error)
}

// AgreementEnqueuer queues generation at most once per rental.
type AgreementEnqueuer interface {
	EnqueueAgreementOnce(ctx context.Context, rentalID uuid.UUID) (bool, error)
}

// AgreementSweeper periodically queues generation for rentals that were
// submitted but never received an agreement. Each sweep continues from where
// the previous one stopped and wraps to the oldest rental after the last page,
// so rentals whose task ID is still held by asynq do not block newer ones.
type AgreementSweeper struct {
	rentals  MissingAgreementLister
	queue    AgreementEnqueuer
	log      *logger.Logger
	interval time.Duration
	batch    int
	cursor   uuid.UUID
}

func NewAgreementSweeper(rentals MissingAgreementLister, queue AgreementEnqueuer, log *logger.Logger, interval time.Duration, batch int) *AgreementSweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	if batch <= 0 {
		batch = defaultSweepBatch
	}

	return &AgreementSweeper{
		rentals:  rentals,
		queue:    queue,
		log:      log,
		interval: interval,
		batch:    batch,
	}
}

func (s *AgreementSweeper) Run(ctx context.Context) {
	if s == nil || s.rentals == nil || s.queue == nil {
		return
	}

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep returns how many new tasks were queued.
func (s *AgreementSweeper) sweep(ctx context.Context) int {
	ids, err := s.rentals.ListMissingAgreementAfter(ctx, s.cursor, s.batch)
	if err != nil {
		s.log.Warn("agreement sweep failed", "error", err)
		return 0
	}

	if len(ids) < s.batch {
		s.cursor = uuid.Nil
	} else {
		s.cursor = ids[len(ids)-1]
	}

	queued := 0
	for _, id := range ids {
		created, err := s.queue.EnqueueAgreementOnce(ctx, id)
		if err != nil {
			s.log.Warn("agreement sweep enqueue failed", "rental_id", id.String(), "error", err)
			continue
		}
		if created {
			queued++
		}
	}

	if queued > 0 {
		s.log.Info("agreement sweep queued rentals", "queued", queued)
	}
	return queued
}
