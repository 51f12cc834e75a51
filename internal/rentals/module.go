// Package rentals provides the rental submission and agreement module.
package rentals

import (
	apphttp "rental_agreement_backend/internal/http"
	"rental_agreement_backend/internal/rentals/handler"
	"rental_agreement_backend/internal/rentals/repository"
	"rental_agreement_backend/internal/rentals/service"
	"rental_agreement_backend/platform/events"
	"rental_agreement_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Dependencies are the collaborators owned by other modules.
type Dependencies struct {
	Customers      service.CustomerChecker
	Normalizer     service.ImageNormalizer
	Signatures     service.SignatureStore
	Artifacts      service.ArtifactReader
	Validator      *validator.Validator
	MaxUploadBytes int64
}

// Module represents the rentals domain module
type Module struct {
	handler    *handler.Handler
	service    *service.Service
	repository *repository.Repository
}

// NewModule creates a new rentals module. The agreement generator is attached
// later with SetAgreementGenerator because it reads through this module's repository.
func NewModule(pool *pgxpool.Pool, eventBus *events.InMemoryBus, deps Dependencies) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, deps.Customers, deps.Normalizer, deps.Signatures, nil, deps.Artifacts)
	svc.SetEventBus(eventBus)

	return &Module{
		handler:    handler.New(svc, deps.Validator, deps.MaxUploadBytes),
		service:    svc,
		repository: repo,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "rentals"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository exposes rental persistence to adapters.
func (m *Module) Repository() *repository.Repository {
	return m.repository
}

// SetAgreementGenerator wires the agreement pipeline.
func (m *Module) SetAgreementGenerator(gen service.AgreementGenerator) {
	m.service.SetAgreementGenerator(gen)
}

// SetQueue enables background generation.
func (m *Module) SetQueue(queue service.AgreementQueue) {
	m.service.SetQueue(queue)
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/rentals"), ctx.UploadRateLimit)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
