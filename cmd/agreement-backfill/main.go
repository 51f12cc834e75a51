package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rental_agreement_backend/internal/adapters"
	"rental_agreement_backend/internal/adapters/storage"
	customersrepo "rental_agreement_backend/internal/customers/repository"
	"rental_agreement_backend/internal/email"
	rentalsrepo "rental_agreement_backend/internal/rentals/repository"
	"rental_agreement_backend/platform/config"
	"rental_agreement_backend/platform/db"
	"rental_agreement_backend/platform/logger"

	"github.com/google/uuid"
)

const batchSize = 25

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting agreement backfill")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	artifacts, err := storage.New(ctx, cfg)
	if err != nil {
		log.Error("failed to initialize artifact store", "error", err)
		panic("failed to initialize artifact store: " + err.Error())
	}

	rentals := rentalsrepo.New(pool)
	records := adapters.NewAgreementRecords(rentals, customersrepo.New(pool))
	pipeline := adapters.NewAgreementPipeline(cfg, records, artifacts, email.NewSender(cfg), log)

	failed := make(map[uuid.UUID]bool)
	generated := 0
	for {
		if ctx.Err() != nil {
			log.Info("backfill interrupted", "generated", generated, "failed", len(failed))
			return
		}

		ids, err := rentals.ListMissingAgreement(ctx, batchSize+len(failed))
		if err != nil {
			log.Error("failed to list rentals", "error", err)
			return
		}

		progress := false
		for _, id := range ids {
			if failed[id] {
				continue
			}

			result, err := pipeline.GenerateAgreement(ctx, id)
			if err != nil {
				log.Error("agreement generation failed", "rentalId", id, "error", err)
				failed[id] = true
				continue
			}

			log.Info("agreement generated", "rentalId", id, "reference", result.Reference, "delivered", result.Delivered)
			generated++
			progress = true
			time.Sleep(200 * time.Millisecond)
		}

		if !progress {
			log.Info("no rentals left to backfill", "generated", generated, "failed", len(failed))
			return
		}
	}
}
