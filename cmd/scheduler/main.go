package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"rental_agreement_backend/internal/adapters"
	"rental_agreement_backend/internal/adapters/storage"
	customersrepo "rental_agreement_backend/internal/customers/repository"
	"rental_agreement_backend/internal/email"
	"rental_agreement_backend/internal/events"
	"rental_agreement_backend/internal/notification"
	rentalsrepo "rental_agreement_backend/internal/rentals/repository"
	"rental_agreement_backend/internal/scheduler"
	"rental_agreement_backend/platform/config"
	"rental_agreement_backend/platform/db"
	"rental_agreement_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	var artifacts storage.ArtifactStore
	if err := withRetry(ctx, log, "artifact store", 5, 2*time.Second, func() error {
		s, err := storage.New(ctx, cfg)
		if err != nil {
			return err
		}
		artifacts = s
		return nil
	}); err != nil {
		log.Error("failed to initialize artifact store", "error", err)
		panic("failed to initialize artifact store: " + err.Error())
	}

	eventBus := events.NewInMemoryBus(log)
	sender := email.NewSender(cfg)

	notificationModule := notification.New(sender, log)
	notificationModule.RegisterHandlers(eventBus)

	rentals := rentalsrepo.New(pool)
	records := adapters.NewAgreementRecords(rentals, customersrepo.New(pool))
	pipeline := adapters.NewAgreementPipeline(cfg, records, artifacts, sender, log)
	pipeline.SetEventBus(eventBus)

	if cfg.GetAgreementAutoGenerate() {
		client, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize agreement queue client", "error", err)
			panic("failed to initialize agreement queue client: " + err.Error())
		}
		defer func() { _ = client.Close() }()

		sweepInterval := getDurationEnv("AGREEMENT_SWEEP_INTERVAL", 5*time.Minute)
		sweepBatch := getPositiveIntEnv("AGREEMENT_SWEEP_BATCH", 50)
		sweeper := scheduler.NewAgreementSweeper(rentals, client, log, sweepInterval, sweepBatch)
		go sweeper.Run(ctx)
	}

	worker, err := scheduler.NewWorker(cfg, pipeline, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
	eventBus.Wait()
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}

func getPositiveIntEnv(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}

	return parsed
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}

	return parsed
}
