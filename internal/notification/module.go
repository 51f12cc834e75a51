// Package notification provides event handlers for sending notifications
// and follow-up work in response to domain events.
// Domain modules publish events and never talk to email providers directly.
package notification

import (
	"context"
	"fmt"

	"rental_agreement_backend/internal/email"
	"rental_agreement_backend/internal/events"
	"rental_agreement_backend/platform/logger"

	"github.com/google/uuid"
)

// AgreementQueue queues background agreement generation at most once per rental.
type AgreementQueue interface {
	EnqueueAgreementOnce(ctx context.Context, rentalID uuid.UUID) (bool, error)
}

// Module handles notification events.
type Module struct {
	sender       email.Sender
	queue        AgreementQueue
	autoGenerate bool
	log          *logger.Logger
}

// New creates a notification module. A nil sender disables email.
func New(sender email.Sender, log *logger.Logger) *Module {
	if sender == nil {
		sender = email.NoopSender{}
	}
	return &Module{sender: sender, log: log}
}

// SetAgreementQueue turns on agreement generation for every submitted rental.
func (m *Module) SetAgreementQueue(queue AgreementQueue) {
	m.queue = queue
	m.autoGenerate = queue != nil
}

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.CustomerRegistered{}.EventName(), m)
	bus.Subscribe(events.RentalSubmitted{}.EventName(), m)
	bus.Subscribe(events.AgreementGenerated{}.EventName(), m)

	m.log.Info("notification module registered event handlers", "auto_generate", m.autoGenerate)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.CustomerRegistered:
		return m.handleCustomerRegistered(ctx, e)
	case events.RentalSubmitted:
		return m.handleRentalSubmitted(ctx, e)
	case events.AgreementGenerated:
		return m.handleAgreementGenerated(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleCustomerRegistered(ctx context.Context, e events.CustomerRegistered) error {
	if e.Email == "" {
		return nil
	}
	if err := m.sender.SendRegistrationEmail(ctx, e.Email, e.FullName); err != nil {
		return fmt.Errorf("send registration email for customer %s: %w", e.CustomerID, err)
	}
	return nil
}

func (m *Module) handleRentalSubmitted(ctx context.Context, e events.RentalSubmitted) error {
	if !m.autoGenerate {
		return nil
	}
	created, err := m.queue.EnqueueAgreementOnce(ctx, e.RentalID)
	if err != nil {
		return fmt.Errorf("queue agreement for rental %s: %w", e.RentalID, err)
	}
	if created {
		m.log.Info("agreement generation queued", "rental_id", e.RentalID.String())
	}
	return nil
}

func (m *Module) handleAgreementGenerated(ctx context.Context, e events.AgreementGenerated) error {
	if !e.Delivered && !e.Skipped {
		m.log.WithContext(ctx).Warn("agreement stored but not delivered", "rental_id", e.RentalID.String(), "reference", e.Reference)
	}
	return nil
}
