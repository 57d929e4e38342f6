package notification

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"tourism_portal_backend/internal/events"
	"tourism_portal_backend/platform/logger"
)

type recordingDeliverer struct {
	mu      sync.Mutex
	notices []Notice
	err     error
}

func (d *recordingDeliverer) Deliver(_ context.Context, n Notice) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notices = append(d.notices, n)
	return d.err
}

func TestHireRequestNotifiesGuide(t *testing.T) {
	d := &recordingDeliverer{}
	bus := events.NewInMemoryBus(logger.Discard())
	New(d, logger.Discard()).RegisterHandlers(bus)

	bus.Publish(context.Background(), events.GuideHireRequested{
		BaseEvent:    events.NewBaseEvent(),
		HireID:       "h1",
		GuideEmail:   "guide@example.com",
		TouristEmail: "tourist@example.com",
	})
	bus.Wait()

	if len(d.notices) != 1 {
		t.Fatalf("expected one notice, got %+v", d.notices)
	}
	n := d.notices[0]
	if n.Recipient != "guide@example.com" || n.Event != "guides.hire.requested" || !strings.Contains(n.Subject, "tourist@example.com") {
		t.Fatalf("unexpected notice %+v", n)
	}
}

func TestQuietEventsProduceNoNotice(t *testing.T) {
	d := &recordingDeliverer{}
	m := New(d, logger.Discard())
	ctx := context.Background()

	quiet := []events.Event{
		events.UserSignedUp{Email: "t@example.com", Role: "Tourist", PendingApproval: false},
		events.BookingsExpired{Before: "2026-01-01", Count: 0},
		events.HomestayApproved{HomestayID: "x"},
		events.BookingCreated{BookingID: "b1"},
	}
	for _, e := range quiet {
		if err := m.Handle(ctx, e); err != nil {
			t.Fatal(err)
		}
	}
	if len(d.notices) != 0 {
		t.Fatalf("expected no notices, got %+v", d.notices)
	}

	if err := m.Handle(ctx, events.UserSignedUp{Email: "g@example.com", Role: "Local Guide", PendingApproval: true}); err != nil {
		t.Fatal(err)
	}
	if len(d.notices) != 1 || d.notices[0].Audience != AudienceAdmin {
		t.Fatalf("pending signup should notify the admin, got %+v", d.notices)
	}
}

func TestDeliveryErrorIsReturned(t *testing.T) {
	boom := errors.New("smtp down")
	m := New(&recordingDeliverer{err: boom}, logger.Discard())

	err := m.Handle(context.Background(), events.UserApprovalChanged{Email: "h@example.com", Approved: true})
	if !errors.Is(err, boom) {
		t.Fatalf("expected delivery error, got %v", err)
	}
}

func TestLogDelivererWritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	m := New(nil, logger.NewWithWriter("production", &buf))

	if err := m.Handle(context.Background(), events.GuideHireStatusChanged{TouristEmail: "t@example.com", Status: "Approved"}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `"msg":"notification"`) || !strings.Contains(out, `"recipient":"t@example.com"`) {
		t.Fatalf("unexpected log output %s", out)
	}
}
