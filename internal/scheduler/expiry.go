package scheduler

import (
	"context"
	"fmt"
	"time"

	"tourism_portal_backend/internal/events"
	"tourism_portal_backend/internal/store"
	"tourism_portal_backend/platform/logger"
)

const dateLayout = "2006-01-02"

// BookingExpirer fails bookings that are still Pending although their
// check-in date has passed.
type BookingExpirer struct {
	bookings store.Bookings
	bus      events.Publisher
	log      *logger.Logger
	now      func() time.Time
}

func NewBookingExpirer(bookings store.Bookings, bus events.Publisher, log *logger.Logger) *BookingExpirer {
	return &BookingExpirer{bookings: bookings, bus: bus, log: log, now: time.Now}
}

// Expire fails every Pending booking checking in before the given date, or
// before today when before is empty.
func (e *BookingExpirer) Expire(ctx context.Context, before string) (int64, error) {
	if before == "" {
		before = e.now().UTC().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, before); err != nil {
		return 0, fmt.Errorf("expire bookings: invalid cut-off %q: %w", before, err)
	}

	count, err := e.bookings.ExpirePending(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("expire bookings: %w", err)
	}

	if count > 0 {
		e.log.Info("stale bookings expired", "before", before, "count", count)
		e.announce(ctx, before, count)
	}
	return count, nil
}

// announce delivers BookingsExpired before the task is acknowledged. The
// bookings are already failed at this point, so a delivery error is logged
// rather than returned: a retry would find nothing left to expire.
func (e *BookingExpirer) announce(ctx context.Context, before string, count int64) {
	if e.bus == nil {
		return
	}
	err := e.bus.PublishSync(ctx, events.BookingsExpired{
		BaseEvent: events.NewBaseEvent(),
		Before:    before,
		Count:     count,
	})
	if err != nil {
		e.log.Error("booking expiry notification failed", "before", before, "count", count, "error", err)
	}
}
