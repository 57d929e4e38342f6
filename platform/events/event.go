// Package events is the in-process event bus the marketplace modules use to
// announce state changes (signups, approvals, bookings, hires) without
// knowing who listens.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is implemented by every domain event.
type Event interface {
	// EventName is the routing key, e.g. "bookings.created".
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent is embedded by domain events. ID lets a subscriber that delivers
// notices outside the process drop repeats.
type BaseEvent struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a fresh event id and the current UTC time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{ID: uuid.NewString(), Timestamp: time.Now().UTC()}
}

type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Publisher is what domain services depend on.
type Publisher interface {
	// Publish hands the event to its handlers in the background. Request
	// handlers use it so a slow subscriber never delays the response.
	Publish(ctx context.Context, event Event)

	// PublishSync returns once every handler has run. Short lived callers
	// such as scheduled jobs use it so delivery finishes before the job is
	// acknowledged.
	PublishSync(ctx context.Context, event Event) error
}

// Subscriber is what the notification module and other listeners depend on.
type Subscriber interface {
	// Subscribe registers handler for events whose EventName is eventName.
	Subscribe(eventName string, handler Handler)
}

// Bus is both sides, wired once in the composition root.
type Bus interface {
	Publisher
	Subscriber
}
