package scheduler

import (
	"context"
	"fmt"

	"rental_agreement_backend/internal/agreement"
	"rental_agreement_backend/platform/apperr"
	"rental_agreement_backend/platform/config"
	"rental_agreement_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// AgreementGenerator runs the agreement pipeline for one rental.
type AgreementGenerator interface {
	GenerateAgreement(ctx context.Context, rentalID uuid.UUID) (agreement.Result, error)
}

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	generator AgreementGenerator
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, generator AgreementGenerator, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	w := &Worker{
		server:    server,
		mux:       asynq.NewServeMux(),
		generator: generator,
		log:       log,
	}
	w.mux.HandleFunc(TaskGenerateAgreement, w.handleGenerateAgreement)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleGenerateAgreement retries transient failures. Missing or incomplete
// rentals will not get better on retry and are skipped.
func (w *Worker) handleGenerateAgreement(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseGenerateAgreementPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	rentalID, err := uuid.Parse(payload.RentalID)
	if err != nil {
		return fmt.Errorf("%w: invalid rental id %q", asynq.SkipRetry, payload.RentalID)
	}

	ctx = context.WithValue(ctx, logger.RentalIDKey, rentalID.String())
	if taskID, ok := asynq.GetTaskID(ctx); ok {
		ctx = context.WithValue(ctx, logger.TaskIDKey, taskID)
	}

	result, err := w.generator.GenerateAgreement(ctx, rentalID)
	if err != nil {
		switch apperr.GetKind(err) {
		case apperr.KindNotFound, apperr.KindValidation:
			w.log.WithContext(ctx).Warn("agreement task dropped", "error", err)
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		return err
	}

	w.log.WithContext(ctx).Info("agreement task completed", "reference", result.Reference, "delivered", result.Delivered)
	return nil
}
