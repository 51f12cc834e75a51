package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rental_agreement_backend/internal/adapters"
	"rental_agreement_backend/internal/adapters/storage"
	"rental_agreement_backend/internal/customers"
	"rental_agreement_backend/internal/email"
	"rental_agreement_backend/internal/events"
	apphttp "rental_agreement_backend/internal/http"
	"rental_agreement_backend/internal/http/router"
	"rental_agreement_backend/internal/media"
	"rental_agreement_backend/internal/notification"
	"rental_agreement_backend/internal/rentals"
	rentalsrepo "rental_agreement_backend/internal/rentals/repository"
	"rental_agreement_backend/internal/scheduler"
	"rental_agreement_backend/internal/signature"
	"rental_agreement_backend/platform/config"
	"rental_agreement_backend/platform/db"
	"rental_agreement_backend/platform/logger"
	"rental_agreement_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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
	log.Info("database connection established")

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
	log.Info("artifact store initialized", "backend", cfg.GetStorageBackend())

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	sender := email.NewSender(cfg)
	if !cfg.GetEmailEnabled() {
		log.Warn("SMTP not configured; agreement emails disabled")
	}

	queue, closeQueue := initAgreementQueue(cfg, log)
	if closeQueue != nil {
		defer closeQueue()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	normalizer := media.NewNormalizer(artifacts)
	signatures := signature.NewDecoder(artifacts)

	customersModule := customers.NewModule(pool, eventBus, normalizer, val, cfg.GetMaxUploadBytes())

	// Anti-Corruption Layer: the pipeline and rentals read customers through an adapter
	records := adapters.NewAgreementRecords(rentalsrepo.New(pool), customersModule.Repository())
	rentalsModule := rentals.NewModule(pool, eventBus, rentals.Dependencies{
		Customers:      records,
		Normalizer:     normalizer,
		Signatures:     signatures,
		Artifacts:      artifacts,
		Validator:      val,
		MaxUploadBytes: cfg.GetMaxUploadBytes(),
	})

	pipeline := adapters.NewAgreementPipeline(cfg, records, artifacts, sender, log)
	pipeline.SetEventBus(eventBus)
	rentalsModule.SetAgreementGenerator(pipeline)

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(sender, log)
	if queue != nil {
		rentalsModule.SetQueue(queue)
		if cfg.GetAgreementAutoGenerate() {
			notificationModule.SetAgreementQueue(queue)
		}
	}
	notificationModule.RegisterHandlers(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:    cfg,
		Logger:    log,
		Health:    db.NewPoolAdapter(pool),
		EventBus:  eventBus,
		Artifacts: artifacts,
		Modules: []apphttp.Module{
			customersModule,
			rentalsModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initAgreementQueue(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; background agreement generation disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize agreement queue client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
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
