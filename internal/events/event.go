// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"rental_agreement_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Publisher   = events.Publisher
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Customer Domain Events
// =============================================================================

// CustomerRegistered is published after a customer and their identity
// documents have been stored.
type CustomerRegistered struct {
	BaseEvent
	CustomerID uuid.UUID `json:"customerId"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
}

func (e CustomerRegistered) EventName() string { return "customers.registered" }

// =============================================================================
// Rental Domain Events
// =============================================================================

// RentalSubmitted is published once a rental record with its normalized
// photos and signature has been persisted.
type RentalSubmitted struct {
	BaseEvent
	RentalID   uuid.UUID `json:"rentalId"`
	CustomerID uuid.UUID `json:"customerId"`
}

func (e RentalSubmitted) EventName() string { return "rentals.submitted" }

// AgreementGenerated is published after the agreement PDF has been stored
// and its reference recorded on the rental. Skipped means no delivery
// channel is configured.
type AgreementGenerated struct {
	BaseEvent
	RentalID  uuid.UUID `json:"rentalId"`
	Reference string    `json:"reference"`
	Delivered bool      `json:"delivered"`
	Skipped   bool      `json:"skipped"`
}

func (e AgreementGenerated) EventName() string { return "rentals.agreement.generated" }
