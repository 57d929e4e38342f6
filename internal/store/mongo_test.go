package store

import (
	"regexp"
	"testing"

	"tourism_portal_backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
)

func TestEmailMatchIsExactAndCaseInsensitive(t *testing.T) {
	m := emailMatch("a.b+trip@x")
	if m.Options != "i" {
		t.Fatalf("expected case-insensitive option, got %q", m.Options)
	}
	re := regexp.MustCompile("(?i)" + m.Pattern)

	cases := map[string]bool{
		"a.b+trip@x":    true,
		"A.B+Trip@X":    true,
		"axb+trip@x":    false,
		"a.b+trip@x.in": false,
		"za.b+trip@x":   false,
	}
	for input, want := range cases {
		if got := re.MatchString(input); got != want {
			t.Errorf("%q: match = %v, want %v", input, got, want)
		}
	}
}

func TestUserPatchDocSetsOnlyGivenFields(t *testing.T) {
	if doc := userPatchDoc(domain.UserPatch{}); len(doc) != 0 {
		t.Fatalf("empty patch should set nothing, got %+v", doc)
	}

	name, approved, role := "Asha", false, domain.RoleHost
	doc := userPatchDoc(domain.UserPatch{Name: &name, Approved: &approved, Role: &role})
	want := bson.M{"name": "Asha", "approved": false, "role": domain.RoleHost}
	if len(doc) != len(want) {
		t.Fatalf("unexpected patch %+v", doc)
	}
	for k, v := range want {
		if doc[k] != v {
			t.Errorf("%s = %v, want %v", k, doc[k], v)
		}
	}
	if _, ok := doc["password"]; ok {
		t.Fatal("patch must never touch the password hash")
	}
}

func TestGuideProfilePatchDoc(t *testing.T) {
	langs := []string{"Tamil", "English"}
	price := int64(900)
	doc := guideProfilePatchDoc(domain.GuideProfilePatch{Languages: &langs, BasePrice: &price})

	if len(doc) != 2 || doc["basePrice"] != int64(900) {
		t.Fatalf("unexpected patch %+v", doc)
	}
	if got, ok := doc["languages"].([]string); !ok || len(got) != 2 {
		t.Fatalf("expected languages slice, got %+v", doc["languages"])
	}
	if _, ok := doc["email"]; ok {
		t.Fatal("email comes from the upsert filter, not the patch")
	}
}

func TestExpirePendingFilter(t *testing.T) {
	filter := expirePendingFilter("2026-03-10")
	if filter["status"] != domain.BookingPending {
		t.Fatalf("unexpected status filter %+v", filter)
	}
	cond, ok := filter["checkinDate"].(bson.M)
	if !ok || cond["$lt"] != "2026-03-10" || len(cond) != 1 {
		t.Fatalf("expected a strict $lt on checkinDate, got %+v", filter["checkinDate"])
	}
}

func TestUniqueEmailIndexesAvoidLegacyName(t *testing.T) {
	for _, idx := range Indexes {
		if idx.Field == "email" && idx.Unique && (idx.Name == "" || idx.Name == "email_1") {
			t.Errorf("%s: unique email index must be named apart from email_1", idx.Collection)
		}
	}
}
