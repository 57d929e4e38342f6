// Package notification turns domain events into notices for the people they
// concern: hosts hear about bookings, guides about hire requests, tourists
// about decisions. Domain modules only publish events and never know how a
// notice is delivered.
package notification

import (
	"context"
	"fmt"

	"tourism_portal_backend/internal/events"
	"tourism_portal_backend/platform/logger"
)

// Audience identifies who a notice is for when there is no single email.
type Audience string

const (
	AudienceAdmin Audience = "admin"
	AudienceUser  Audience = "user"
)

// Notice is one message to deliver.
type Notice struct {
	Audience  Audience
	Recipient string
	Subject   string
	Event     string
}

// Deliverer sends a notice. The default delivery writes it to the log.
type Deliverer interface {
	Deliver(ctx context.Context, notice Notice) error
}

// LogDeliverer records notices as structured log lines.
type LogDeliverer struct {
	log *logger.Logger
}

func NewLogDeliverer(log *logger.Logger) *LogDeliverer {
	return &LogDeliverer{log: log}
}

func (d *LogDeliverer) Deliver(ctx context.Context, notice Notice) error {
	d.log.WithContext(ctx).Info("notification",
		"event", notice.Event,
		"audience", string(notice.Audience),
		"recipient", notice.Recipient,
		"subject", notice.Subject,
	)
	return nil
}

// Module subscribes to domain events and delivers the resulting notices.
type Module struct {
	deliverer Deliverer
	log       *logger.Logger
}

// New creates the notification module. A nil deliverer logs notices.
func New(deliverer Deliverer, log *logger.Logger) *Module {
	if deliverer == nil {
		deliverer = NewLogDeliverer(log)
	}
	return &Module{deliverer: deliverer, log: log}
}

// RegisterHandlers subscribes the module to every event it reacts to.
func (m *Module) RegisterHandlers(bus events.Subscriber) {
	// Identity
	bus.Subscribe(events.UserSignedUp{}.EventName(), m)
	bus.Subscribe(events.AdminLoggedIn{}.EventName(), m)

	// Moderation and hosting
	bus.Subscribe(events.UserApprovalChanged{}.EventName(), m)
	bus.Subscribe(events.HomestaySubmitted{}.EventName(), m)
	bus.Subscribe(events.HomestayApproved{}.EventName(), m)

	// Bookings
	bus.Subscribe(events.BookingCreated{}.EventName(), m)
	bus.Subscribe(events.BookingStatusChanged{}.EventName(), m)
	bus.Subscribe(events.BookingsExpired{}.EventName(), m)

	// Guides
	bus.Subscribe(events.GuideHireRequested{}.EventName(), m)
	bus.Subscribe(events.GuideHireStatusChanged{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle implements events.Handler.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	for _, notice := range noticesFor(event) {
		notice.Event = event.EventName()
		if err := m.deliverer.Deliver(ctx, notice); err != nil {
			return fmt.Errorf("deliver %s notice: %w", notice.Event, err)
		}
	}
	return nil
}

// noticesFor decides who hears about an event. Unknown events produce nothing.
func noticesFor(event events.Event) []Notice {
	switch e := event.(type) {
	case events.UserSignedUp:
		if !e.PendingApproval {
			return nil
		}
		return []Notice{{Audience: AudienceAdmin, Subject: fmt.Sprintf("%s %s is waiting for approval", e.Role, e.Email)}}
	case events.AdminLoggedIn:
		return []Notice{{Audience: AudienceAdmin, Recipient: e.Email, Subject: "Admin signed in"}}
	case events.UserApprovalChanged:
		subject := "Your account has been approved"
		if !e.Approved {
			subject = "Your account approval was withdrawn"
		}
		return []Notice{{Audience: AudienceUser, Recipient: e.Email, Subject: subject}}
	case events.HomestaySubmitted:
		return []Notice{{Audience: AudienceAdmin, Subject: fmt.Sprintf("Homestay %q submitted by %s", e.Title, e.HostEmail)}}
	case events.HomestayApproved:
		if e.HostEmail == "" {
			return nil
		}
		return []Notice{{Audience: AudienceUser, Recipient: e.HostEmail, Subject: "Your homestay is now live"}}
	case events.BookingCreated:
		if e.TouristEmail == "" {
			return nil
		}
		return []Notice{{Audience: AudienceUser, Recipient: e.TouristEmail, Subject: fmt.Sprintf("Booking %s received", e.BookingID)}}
	case events.BookingStatusChanged:
		return []Notice{{Audience: AudienceAdmin, Subject: fmt.Sprintf("Booking %s is %s, payment %s", e.BookingID, e.Status, e.PaymentStatus)}}
	case events.BookingsExpired:
		if e.Count == 0 {
			return nil
		}
		return []Notice{{Audience: AudienceAdmin, Subject: fmt.Sprintf("%d pending bookings checking in before %s failed", e.Count, e.Before)}}
	case events.GuideHireRequested:
		return []Notice{{Audience: AudienceUser, Recipient: e.GuideEmail, Subject: fmt.Sprintf("New hire request from %s", e.TouristEmail)}}
	case events.GuideHireStatusChanged:
		return []Notice{{Audience: AudienceUser, Recipient: e.TouristEmail, Subject: fmt.Sprintf("Your hire request is %s", e.Status)}}
	default:
		return nil
	}
}
