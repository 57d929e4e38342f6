package service

import (
	"context"
	"strings"
	"testing"

	"tourism_portal_backend/internal/domain"
	"tourism_portal_backend/internal/host/transport"
	"tourism_portal_backend/internal/store"
	"tourism_portal_backend/internal/store/storetest"
	"tourism_portal_backend/platform/apperr"
	"tourism_portal_backend/platform/logger"
)

const (
	hostEmail  = "host@example.com"
	otherEmail = "other@example.com"
)

func newTestService() (*Service, *store.Store) {
	st := storetest.New()
	return New(st.Homestays, st.Bookings, nil, logger.Discard()), st
}

func addHomestay(t *testing.T, svc *Service, host, title string) domain.Homestay {
	t.Helper()
	resp, err := svc.AddHomestay(context.Background(), host, transport.CreateHomestayRequest{Title: title, Location: "Munnar", Price: 1500})
	if err != nil {
		t.Fatalf("add homestay: %v", err)
	}
	return resp.Homestay
}

func onlineBooking(t *testing.T, st *store.Store, h domain.Homestay) *domain.Booking {
	t.Helper()
	b := &domain.Booking{
		TouristEmail:  "t@example.com",
		HomestayID:    h.ID,
		HomestayTitle: h.Title,
		CheckinDate:   "2026-05-01",
		CheckoutDate:  "2026-05-02",
		BookingType:   domain.BookingOnline,
		Status:        domain.BookingPending,
		PaymentStatus: domain.PaymentPending,
	}
	if err := st.Bookings.Create(context.Background(), b); err != nil {
		t.Fatal(err)
	}
	return b
}

func TestAddHomestayForcesOwnershipAndModeration(t *testing.T) {
	svc, _ := newTestService()
	h := addHomestay(t, svc, hostEmail, "Tea Garden Stay")

	if h.HostEmail != hostEmail || h.Approved || h.IsDeleted {
		t.Fatalf("unexpected homestay %+v", h)
	}
}

func TestDashboardIsClosedUnderOwnership(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	mine := addHomestay(t, svc, hostEmail, "Mine")
	gone := addHomestay(t, svc, hostEmail, "Gone")
	theirs := addHomestay(t, svc, otherEmail, "Theirs")
	onlineBooking(t, st, mine)
	onlineBooking(t, st, theirs)

	if _, err := svc.DeleteHomestay(ctx, hostEmail, gone.ID.Hex()); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	dash, err := svc.Dashboard(ctx, hostEmail)
	if err != nil {
		t.Fatal(err)
	}
	if len(dash.Homestays) != 1 || dash.Homestays[0].ID != mine.ID {
		t.Fatalf("expected only the live owned homestay, got %+v", dash.Homestays)
	}
	if len(dash.Bookings) != 1 || dash.Bookings[0].HomestayID != mine.ID {
		t.Fatalf("expected only bookings for owned homestays, got %+v", dash.Bookings)
	}

	empty, err := svc.Dashboard(ctx, "nobody@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if empty.Homestays == nil || empty.Bookings == nil {
		t.Fatal("empty dashboard should carry empty lists, not nulls")
	}
}

func TestUpiQrRequiresOwnership(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	theirs := addHomestay(t, svc, otherEmail, "Theirs")
	mine := addHomestay(t, svc, hostEmail, "Mine")

	_, err := svc.UpdateUpiQr(ctx, hostEmail, theirs.ID.Hex(), transport.UpiQrRequest{UpiQrImage: "data:image/png;base64,AAAA"})
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected 403, got %v", err)
	}

	resp, err := svc.UpdateUpiQr(ctx, hostEmail, mine.ID.Hex(), transport.UpiQrRequest{UpiID: "mine@okhdfcbank"})
	if err != nil {
		t.Fatalf("update qr: %v", err)
	}
	if !strings.HasPrefix(resp.Homestay.UpiQrImage, "data:image/png;base64,") {
		t.Fatal("expected generated QR")
	}

	if _, err := svc.UpdateUpiQr(ctx, hostEmail, "bad", transport.UpiQrRequest{UpiQrImage: "x"}); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected 400 for invalid id, got %v", err)
	}
}

func TestOfflineBooking(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	mine := addHomestay(t, svc, hostEmail, "Mine")
	theirs := addHomestay(t, svc, otherEmail, "Theirs")

	req := transport.OfflineBookingRequest{
		HomestayID:   mine.ID.Hex(),
		TouristName:  "Walk In",
		CheckinDate:  "2026-06-10",
		CheckoutDate: "2026-06-12",
		Guests:       2,
		TotalPrice:   3000,
	}
	resp, err := svc.CreateOfflineBooking(ctx, hostEmail, req)
	if err != nil {
		t.Fatalf("offline booking: %v", err)
	}
	b := resp.Booking
	if b.BookingType != domain.BookingOffline || b.Status != domain.BookingApproved || b.PaymentStatus != domain.PaymentApproved {
		t.Fatalf("unexpected offline booking state %+v", b)
	}
	if b.HostEmail != hostEmail || b.HomestayTitle != "Mine" {
		t.Fatalf("expected host and title snapshot, got %+v", b)
	}

	req.HomestayID = theirs.ID.Hex()
	if _, err := svc.CreateOfflineBooking(ctx, hostEmail, req); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected 403 for foreign homestay, got %v", err)
	}

	req.HomestayID = mine.ID.Hex()
	req.CheckoutDate = req.CheckinDate
	if _, err := svc.CreateOfflineBooking(ctx, hostEmail, req); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected 400 for empty stay, got %v", err)
	}
}

func TestOfflineBookingAcceptsDashboardGuestFields(t *testing.T) {
	svc, _ := newTestService()
	mine := addHomestay(t, svc, hostEmail, "Mine")

	resp, err := svc.CreateOfflineBooking(context.Background(), hostEmail, transport.OfflineBookingRequest{
		HomestayID:   mine.ID.Hex(),
		GuestName:    " Walk In ",
		GuestEmail:   "walkin@x",
		CheckinDate:  "2026-06-10",
		CheckoutDate: "2026-06-12",
		Guests:       1,
	})
	if err != nil {
		t.Fatalf("offline booking: %v", err)
	}
	if resp.Booking.TouristName != "Walk In" || resp.Booking.TouristEmail != "walkin@x" {
		t.Fatalf("expected guest fields on the booking, got %+v", resp.Booking)
	}
}

func TestReviewBookingAndPayment(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()
	mine := addHomestay(t, svc, hostEmail, "Mine")
	theirs := addHomestay(t, svc, otherEmail, "Theirs")
	b := onlineBooking(t, st, mine)
	foreign := onlineBooking(t, st, theirs)

	resp, err := svc.ReviewBooking(ctx, hostEmail, b.ID.Hex(), domain.ActionApprove)
	if err != nil {
		t.Fatalf("approve booking: %v", err)
	}
	if resp.Booking.Status != domain.BookingApproved || resp.Message != "Booking approved" {
		t.Fatalf("unexpected response %+v", resp)
	}

	resp, err = svc.ReviewPayment(ctx, hostEmail, b.ID.Hex(), domain.ActionApprove)
	if err != nil || resp.Booking.PaymentStatus != domain.PaymentApproved {
		t.Fatalf("approve payment: %+v, %v", resp.Booking, err)
	}

	if _, err := svc.ReviewBooking(ctx, hostEmail, foreign.ID.Hex(), domain.ActionReject); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected 403 for another host's booking, got %v", err)
	}
	if _, err := svc.ReviewPayment(ctx, hostEmail, "64b7f0c2a1b2c3d4e5f60718", domain.ActionReject); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected 404, got %v", err)
	}
}
