package domain

import "testing"

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"Tourist":     RoleTourist,
		"host":        RoleHost,
		"Local Guide": RoleLocalGuide,
		"LocalGuide":  RoleLocalGuide,
		"local_guide": RoleLocalGuide,
		" ADMIN ":     RoleAdmin,
	}
	for raw, want := range cases {
		got, ok := ParseRole(raw)
		if !ok || got != want {
			t.Fatalf("ParseRole(%q) = %q, %v; want %q", raw, got, ok, want)
		}
	}
	if _, ok := ParseRole("Superuser"); ok {
		t.Fatal("expected unknown role to be rejected")
	}
}

func TestRoleStorable(t *testing.T) {
	if RoleAdmin.Storable() {
		t.Fatal("admin must never be stored")
	}
	if !RoleLocalGuide.Storable() || !RoleHost.Storable() || !RoleTourist.Storable() {
		t.Fatal("expected marketplace roles to be storable")
	}
	if !RoleTourist.ApprovedOnSignup() || RoleHost.ApprovedOnSignup() {
		t.Fatal("only tourists are approved on signup")
	}
}

func TestHireStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to HireStatus
		want     bool
	}{
		{HirePending, HireApproved, true},
		{HirePending, HireRejected, true},
		{HirePending, HireCompleted, false},
		{HireApproved, HireCompleted, true},
		{HireApproved, HireRejected, false},
		{HireRejected, HireApproved, false},
		{HireCompleted, HirePending, false},
		{HireCompleted, HireCompleted, true},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Fatalf("%s -> %s: got %v want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestReviewAction(t *testing.T) {
	action, ok := ParseReviewAction("Approve")
	if !ok || action.BookingStatus() != BookingApproved || action.PaymentStatus() != PaymentApproved {
		t.Fatalf("unexpected approve mapping: %v %v", action, ok)
	}
	action, ok = ParseReviewAction("reject")
	if !ok || action.BookingStatus() != BookingRejected || action.PaymentStatus() != PaymentRejected {
		t.Fatalf("unexpected reject mapping: %v %v", action, ok)
	}
	if _, ok := ParseReviewAction("maybe"); ok {
		t.Fatal("expected unknown action to be rejected")
	}
}

func TestParseGuideSelector(t *testing.T) {
	sel, ok := ParseGuideSelector("64b7f0c2a1b2c3d4e5f60718")
	if !ok {
		t.Fatal("expected selector")
	}
	if _, isID := sel.(GuideByID); !isID {
		t.Fatalf("expected id selector, got %T", sel)
	}

	sel, ok = ParseGuideSelector("guide@example.com")
	if !ok {
		t.Fatal("expected selector")
	}
	byEmail, isEmail := sel.(GuideByEmail)
	if !isEmail || byEmail.Email != "guide@example.com" {
		t.Fatalf("expected email selector, got %#v", sel)
	}

	if _, ok := ParseGuideSelector("  "); ok {
		t.Fatal("expected blank selector to be rejected")
	}
}

func TestHomestayVisible(t *testing.T) {
	if (Homestay{Approved: true, IsDeleted: true}).Visible() {
		t.Fatal("deleted homestay must not be visible")
	}
	if (Homestay{Approved: false}).Visible() {
		t.Fatal("unapproved homestay must not be visible")
	}
	if !(Homestay{Approved: true}).Visible() {
		t.Fatal("approved homestay should be visible")
	}
}
