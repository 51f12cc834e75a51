package adapters

import (
	"time"

	"rental_agreement_backend/internal/adapters/storage"
	"rental_agreement_backend/internal/agreement"
	"rental_agreement_backend/internal/email"
	"rental_agreement_backend/platform/logger"
)

// PipelineConfig combines the settings the agreement pipeline wiring reads.
type PipelineConfig interface {
	GetAgreementStrict() bool
	GetAgreementStepTimeout() time.Duration
	GetEmailEnabled() bool
	GetAppBaseURL() string
}

// NewAgreementPipeline wires the assembler, store and mailer into a pipeline.
// Delivery is left out when email is disabled.
func NewAgreementPipeline(cfg PipelineConfig, records *AgreementRecords, artifacts storage.ArtifactStore, sender email.Sender, log *logger.Logger) *agreement.Pipeline {
	assembler := NewAgreementAssembler(artifacts, log)

	var deliverer agreement.Deliverer
	if cfg.GetEmailEnabled() {
		deliverer = NewAgreementMailer(sender, artifacts, cfg.GetAppBaseURL())
	}

	return agreement.New(records, assembler, artifacts, deliverer, agreement.Config{
		Strict:      cfg.GetAgreementStrict(),
		StepTimeout: cfg.GetAgreementStepTimeout(),
	}, log)
}
