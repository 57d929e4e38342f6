package service

import (
	"context"
	"testing"

	"tourism_portal_backend/internal/domain"
	"tourism_portal_backend/internal/events"
	"tourism_portal_backend/internal/guides/transport"
	"tourism_portal_backend/internal/store"
	"tourism_portal_backend/internal/store/storetest"
	"tourism_portal_backend/platform/apperr"
	"tourism_portal_backend/platform/logger"
)

const (
	guideEmail   = "guide@example.com"
	touristEmail = "tourist@example.com"
)

type recordingBus struct {
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func newTestService(t *testing.T) (*Service, *store.Store, *recordingBus) {
	t.Helper()
	st := storetest.New()
	bus := &recordingBus{}
	return New(st.Users, st.GuideProfiles, st.GuideHires, bus, logger.Discard()), st, bus
}

func seedUser(t *testing.T, st *store.Store, name, email string, role domain.Role, approved bool) *domain.User {
	t.Helper()
	u := &domain.User{Name: name, Email: email, PasswordHash: "x", Role: role, Approved: approved}
	if err := st.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestGetProfileWithoutStoredProfile(t *testing.T) {
	svc, _, _ := newTestService(t)

	profile, err := svc.GetProfile(context.Background(), guideEmail)
	if err != nil {
		t.Fatal(err)
	}
	if profile.ID != "" || profile.Email != guideEmail {
		t.Fatalf("expected an empty profile, got %+v", profile)
	}
	if profile.Languages == nil || profile.Availability == nil || profile.Portfolio == nil {
		t.Fatal("lists should be empty, not null")
	}
}

func TestUpdateProfileAcceptsBothShapes(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	bio := "Trekking guide"
	langs := []string{" Malayalam ", "", "English"}
	resp, err := svc.UpdateProfile(ctx, guideEmail, transport.UpdateProfileRequest{
		ProfileFields: transport.ProfileFields{Bio: &bio, Languages: &langs},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.Profile.ID == "" || resp.Profile.Bio != bio {
		t.Fatalf("expected a created profile, got %+v", resp.Profile)
	}
	if len(resp.Profile.Languages) != 2 || resp.Profile.Languages[0] != "Malayalam" {
		t.Fatalf("expected trimmed languages, got %v", resp.Profile.Languages)
	}

	price := int64(1200)
	resp, err = svc.UpdateProfile(ctx, guideEmail, transport.UpdateProfileRequest{
		Profile: &transport.ProfileFields{BasePrice: &price},
	})
	if err != nil {
		t.Fatalf("wrapped update: %v", err)
	}
	if resp.Profile.BasePrice != 1200 || resp.Profile.Bio != bio {
		t.Fatalf("wrapped patch should keep untouched fields, got %+v", resp.Profile)
	}
}

func TestApprovalStatus(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()
	seedUser(t, st, "G", guideEmail, domain.RoleLocalGuide, true)
	seedUser(t, st, "P", "pending@example.com", domain.RoleLocalGuide, false)
	seedUser(t, st, "T", touristEmail, domain.RoleTourist, true)

	cases := map[string]bool{
		"GUIDE@example.com":   true,
		"pending@example.com": false,
		touristEmail:          false,
		"ghost@example.com":   false,
		"":                    false,
	}
	for email, want := range cases {
		got, err := svc.ApprovalStatus(ctx, email)
		if err != nil {
			t.Fatalf("%q: %v", email, err)
		}
		if got.IsApproved != want {
			t.Errorf("%q: isApproved = %v, want %v", email, got.IsApproved, want)
		}
	}
}

func TestAvailabilityAndPortfolio(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	profile, err := svc.AddAvailability(ctx, guideEmail, transport.AddAvailabilityRequest{Date: "2026-07-01", Morning: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(profile.Availability) != 1 || !profile.Availability[0].Morning || profile.Availability[0].Evening {
		t.Fatalf("unexpected availability %+v", profile.Availability)
	}

	items, err := svc.Portfolio(ctx, "fresh@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty portfolio, got %v", items)
	}

	resp, err := svc.AddPortfolioItem(ctx, guideEmail, transport.AddPortfolioRequest{Title: " Backwaters walk "})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Portfolio) != 1 || resp.Portfolio[0].Title != "Backwaters walk" {
		t.Fatalf("unexpected portfolio %+v", resp.Portfolio)
	}
}

func TestHireGuide(t *testing.T) {
	svc, st, bus := newTestService(t)
	ctx := context.Background()
	guide := seedUser(t, st, "Guide", guideEmail, domain.RoleLocalGuide, true)
	seedUser(t, st, "Pending", "pending@example.com", domain.RoleLocalGuide, false)
	seedUser(t, st, "Asha", touristEmail, domain.RoleTourist, true)

	hire, err := svc.HireGuide(ctx, touristEmail, transport.HireGuideRequest{GuideID: guide.ID.Hex(), Message: "Two days"})
	if err != nil {
		t.Fatalf("hire by id: %v", err)
	}
	if hire.GuideEmail != guideEmail || hire.Status != domain.HirePending || hire.TouristName != "Asha" {
		t.Fatalf("unexpected hire %+v", hire)
	}
	if len(bus.events) != 1 || bus.events[0].EventName() != (events.GuideHireRequested{}).EventName() {
		t.Fatalf("expected a hire requested event, got %v", bus.events)
	}

	if _, err := svc.HireGuide(ctx, touristEmail, transport.HireGuideRequest{GuideID: "GUIDE@example.com", TouristName: "A"}); err != nil {
		t.Fatalf("hire by email: %v", err)
	}

	if _, err := svc.HireGuide(ctx, touristEmail, transport.HireGuideRequest{GuideID: "pending@example.com"}); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected 404 for unapproved guide, got %v", err)
	}
	if _, err := svc.HireGuide(ctx, touristEmail, transport.HireGuideRequest{GuideID: "   "}); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected 400 for blank guide, got %v", err)
	}
	if _, err := svc.HireGuide(ctx, touristEmail, transport.HireGuideRequest{GuideID: guideEmail, TouristEmail: "else@example.com"}); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected 403 for mismatched tourist, got %v", err)
	}

	hires, err := svc.HireRequests(ctx, guideEmail)
	if err != nil {
		t.Fatal(err)
	}
	if len(hires) != 2 || hires[1].ID != hire.ID {
		t.Fatalf("expected two hires newest first, got %+v", hires)
	}
}

func TestUpdateHireStatusTransitions(t *testing.T) {
	svc, st, bus := newTestService(t)
	ctx := context.Background()
	seedUser(t, st, "Guide", guideEmail, domain.RoleLocalGuide, true)
	seedUser(t, st, "Other", "other@example.com", domain.RoleLocalGuide, true)

	hire, err := svc.HireGuide(ctx, touristEmail, transport.HireGuideRequest{GuideID: guideEmail, TouristName: "T"})
	if err != nil {
		t.Fatal(err)
	}
	id := hire.ID.Hex()
	bus.events = nil

	if _, err := svc.UpdateHireStatus(ctx, guideEmail, id, transport.UpdateHireStatusRequest{Status: "Completed"}); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("Pending -> Completed should be refused, got %v", err)
	}
	if _, err := svc.UpdateHireStatus(ctx, "other@example.com", id, transport.UpdateHireStatusRequest{Status: "Approved"}); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected 403 for another guide, got %v", err)
	}
	if _, err := svc.UpdateHireStatus(ctx, guideEmail, id, transport.UpdateHireStatusRequest{Status: "Cancelled"}); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected 400 for unknown status, got %v", err)
	}

	price := int64(2500)
	resp, err := svc.UpdateHireStatus(ctx, guideEmail, id, transport.UpdateHireStatusRequest{Status: "approved", AgreedPrice: &price})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if resp.Hire.Status != domain.HireApproved || resp.Hire.AgreedPrice != 2500 {
		t.Fatalf("unexpected hire %+v", resp.Hire)
	}

	if _, err := svc.UpdateHireStatus(ctx, guideEmail, id, transport.UpdateHireStatusRequest{Status: "Approved"}); err != nil {
		t.Fatalf("re-applying the current status should succeed, got %v", err)
	}
	if len(bus.events) != 1 {
		t.Fatalf("a no-op change should not publish, got %d events", len(bus.events))
	}

	if _, err := svc.UpdateHireStatus(ctx, guideEmail, id, transport.UpdateHireStatusRequest{Status: "Completed"}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := svc.UpdateHireStatus(ctx, guideEmail, id, transport.UpdateHireStatusRequest{Status: "Rejected"}); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("Completed is terminal, got %v", err)
	}

	if _, err := svc.UpdateHireStatus(ctx, guideEmail, "64b7f0c2a1b2c3d4e5f60718", transport.UpdateHireStatusRequest{Status: "Approved"}); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected 404, got %v", err)
	}
	if _, err := svc.UpdateHireStatus(ctx, guideEmail, "bad", transport.UpdateHireStatusRequest{Status: "Approved"}); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected 400 for invalid id, got %v", err)
	}
}
