package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"tourism_portal_backend/internal/domain"
	"tourism_portal_backend/internal/events"
	"tourism_portal_backend/internal/store/storetest"
	"tourism_portal_backend/platform/logger"

	"github.com/hibiken/asynq"
)

func seedBooking(t *testing.T, bookings interface {
	Create(context.Context, *domain.Booking) error
}, checkin string, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	b := &domain.Booking{
		TouristEmail:  "t@example.com",
		CheckinDate:   checkin,
		CheckoutDate:  "2026-12-31",
		BookingType:   domain.BookingOnline,
		Status:        status,
		PaymentStatus: domain.PaymentPending,
	}
	if err := bookings.Create(context.Background(), b); err != nil {
		t.Fatal(err)
	}
	return b
}

func TestExpireFailsOnlyStalePendingBookings(t *testing.T) {
	st := storetest.New()
	ctx := context.Background()
	bus := events.NewInMemoryBus(logger.Discard())

	var published []events.BookingsExpired
	bus.Subscribe(events.BookingsExpired{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		published = append(published, e.(events.BookingsExpired))
		return nil
	}))

	stale := seedBooking(t, st.Bookings, "2026-03-01", domain.BookingPending)
	today := seedBooking(t, st.Bookings, "2026-03-10", domain.BookingPending)
	approved := seedBooking(t, st.Bookings, "2026-02-01", domain.BookingApproved)

	expirer := NewBookingExpirer(st.Bookings, bus, logger.Discard())
	expirer.now = func() time.Time { return time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC) }

	count, err := expirer.Expire(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	// handlers have already run
	if count != 1 {
		t.Fatalf("expected one expired booking, got %d", count)
	}

	want := map[string]domain.BookingStatus{
		stale.ID.Hex():    domain.BookingFailed,
		today.ID.Hex():    domain.BookingPending,
		approved.ID.Hex(): domain.BookingApproved,
	}
	for id, status := range want {
		b, err := st.Bookings.FindByID(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if b.Status != status {
			t.Errorf("booking %s: status %s, want %s", id, b.Status, status)
		}
	}

	if len(published) != 1 || published[0].Before != "2026-03-10" || published[0].Count != 1 {
		t.Fatalf("unexpected events %+v", published)
	}

	if again, err := expirer.Expire(ctx, ""); err != nil || again != 0 {
		t.Fatalf("second run should expire nothing, got %d, %v", again, err)
	}
}

func TestExpireSurvivesFailingSubscriber(t *testing.T) {
	st := storetest.New()
	bus := events.NewInMemoryBus(logger.Discard())
	bus.Subscribe(events.BookingsExpired{}.EventName(), events.HandlerFunc(func(context.Context, events.Event) error {
		return errors.New("mail relay down")
	}))
	booking := seedBooking(t, st.Bookings, "2026-03-01", domain.BookingPending)

	expirer := NewBookingExpirer(st.Bookings, bus, logger.Discard())
	count, err := expirer.Expire(context.Background(), "2026-03-10")
	if err != nil || count != 1 {
		t.Fatalf("expected the expiry to stand, got %d, %v", count, err)
	}
	b, err := st.Bookings.FindByID(context.Background(), booking.ID.Hex())
	if err != nil || b.Status != domain.BookingFailed {
		t.Fatalf("expected Failed, got %+v, %v", b, err)
	}
}

func TestExpireRejectsMalformedCutOff(t *testing.T) {
	expirer := NewBookingExpirer(storetest.New().Bookings, nil, logger.Discard())
	if _, err := expirer.Expire(context.Background(), "10/03/2026"); err == nil {
		t.Fatal("expected an error for a non ISO date")
	}
}

type fakeExpirer struct {
	before string
	err    error
}

func (f *fakeExpirer) Expire(_ context.Context, before string) (int64, error) {
	f.before = before
	return 0, f.err
}

func TestWorkerHandlesExpiryTask(t *testing.T) {
	fake := &fakeExpirer{}
	w := &Worker{expirer: fake, log: logger.Discard()}

	task, err := NewExpireStaleBookingsTask(ExpireStaleBookingsPayload{Before: "2026-04-01"})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.handleExpireStaleBookings(context.Background(), task); err != nil {
		t.Fatal(err)
	}
	if fake.before != "2026-04-01" {
		t.Fatalf("expected cut-off to reach the expirer, got %q", fake.before)
	}

	fake.err = errors.New("mongo down")
	if err := w.handleExpireStaleBookings(context.Background(), asynq.NewTask(TaskExpireStaleBookings, nil)); !errors.Is(err, fake.err) {
		t.Fatalf("expected the job error so asynq retries, got %v", err)
	}
	if fake.before != "" {
		t.Fatalf("empty payload should mean today, got %q", fake.before)
	}
}

func TestRedisClientOpt(t *testing.T) {
	if _, err := redisClientOpt(""); err == nil {
		t.Fatal("expected an error without a redis url")
	}

	opt, err := redisClientOpt("rediss://user:pw@cache.internal:6380/2")
	if err != nil {
		t.Fatal(err)
	}
	if opt.Addr != "cache.internal:6380" || opt.Password != "pw" || opt.DB != 2 || opt.TLSConfig == nil {
		t.Fatalf("unexpected options %+v", opt)
	}
}
