// Package events is the in-process domain event bus used to fan work out of
// request handlers (notifications, queued agreement generation).
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event published on a Bus.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent carries the publish timestamp shared by all events.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent stamps an event with the current UTC time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now().UTC()}
}

// Handler reacts to a published event.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc lets a plain function subscribe to a Bus.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Publisher is the write side of a Bus. Services only ever publish.
type Publisher interface {
	// Publish hands the event to subscribers without waiting for them.
	Publish(ctx context.Context, event Event)
}

// Bus routes events to the handlers subscribed under their EventName.
type Bus interface {
	Publisher
	PublishSync(ctx context.Context, event Event) error
	Subscribe(eventName string, handler Handler)
}
