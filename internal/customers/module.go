// Package customers provides the renter registration module.
package customers

import (
	"rental_agreement_backend/internal/customers/handler"
	"rental_agreement_backend/internal/customers/repository"
	"rental_agreement_backend/internal/customers/service"
	apphttp "rental_agreement_backend/internal/http"
	"rental_agreement_backend/internal/media"
	"rental_agreement_backend/platform/events"
	"rental_agreement_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the customers domain module
type Module struct {
	handler    *handler.Handler
	service    *service.Service
	repository *repository.Repository
}

// NewModule creates a new customers module with all dependencies wired
func NewModule(pool *pgxpool.Pool, eventBus *events.InMemoryBus, normalizer *media.Normalizer, val *validator.Validator, maxUploadBytes int64) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, normalizer)
	svc.SetEventBus(eventBus)

	return &Module{
		handler:    handler.New(svc, val, maxUploadBytes),
		service:    svc,
		repository: repo,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "customers"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository exposes customer lookups to adapters.
func (m *Module) Repository() *repository.Repository {
	return m.repository
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/customers"), ctx.UploadRateLimit)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
