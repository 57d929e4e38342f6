package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tourism_portal_backend/internal/auth/password"
	"tourism_portal_backend/internal/auth/token"
	"tourism_portal_backend/internal/catalog"
	"tourism_portal_backend/internal/events"
	"tourism_portal_backend/internal/guides"
	"tourism_portal_backend/internal/host"
	apphttp "tourism_portal_backend/internal/http"
	"tourism_portal_backend/internal/http/router"
	"tourism_portal_backend/internal/identity"
	identityservice "tourism_portal_backend/internal/identity/service"
	"tourism_portal_backend/internal/moderation"
	"tourism_portal_backend/internal/store/storetest"
	"tourism_portal_backend/internal/tourist"
	"tourism_portal_backend/platform/logger"
	"tourism_portal_backend/platform/validator"
)

const (
	adminEmail    = "admin@portal.example"
	adminPassword = "admin-pass"
	adminCode     = "12345678"
)

type testConfig struct{}

func (testConfig) GetHTTPAddr() string                 { return ":0" }
func (testConfig) GetCORSOrigins() []string            { return []string{"http://localhost:3000"} }
func (testConfig) GetMaxBodyBytes() int64              { return 10 << 20 }
func (testConfig) IsDevelopment() bool                 { return false }
func (testConfig) GetJWTSecret() string                { return "test-secret" }
func (testConfig) GetTokenTTL() time.Duration          { return 7 * 24 * time.Hour }
func (testConfig) GetAdminEmail() string               { return adminEmail }
func (testConfig) GetAdminPassword() string            { return adminPassword }
func (testConfig) GetAdminPasswordHash() string        { return "" }
func (testConfig) GetAdminCode() string                { return adminCode }
func (testConfig) GetAdminChallengeTTL() time.Duration { return 5 * time.Minute }

type testServer struct {
	t      *testing.T
	engine http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := testConfig{}
	log := logger.Discard()
	st := storetest.New()
	bus := events.NewInMemoryBus(log)
	t.Cleanup(bus.Wait)
	val := validator.New()
	tokens := token.NewIssuer(cfg)

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Tokens: tokens,
		Modules: []apphttp.Module{
			identity.NewModule(st.Users, password.Hasher{}, tokens, cfg, identityservice.NewMemoryChallengeStore(), bus, val, log),
			catalog.NewModule(st, log),
			tourist.NewModule(st, bus, val, log),
			guides.NewModule(st, bus, val, log),
			host.NewModule(st, bus, val, log),
			moderation.NewModule(st, bus, val, log),
		},
	}
	return &testServer{t: t, engine: router.New(app)}
}

func (s *testServer) do(method, path, bearer string, body any) (int, []byte) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec.Code, rec.Body.Bytes()
}

func (s *testServer) expect(method, path, bearer string, body any, status int) []byte {
	s.t.Helper()
	code, raw := s.do(method, path, bearer, body)
	if code != status {
		s.t.Fatalf("%s %s: status %d, want %d, body %s", method, path, code, status, raw)
	}
	return raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

type authBody struct {
	Token string `json:"token"`
	User  struct {
		ID         string `json:"id"`
		Email      string `json:"email"`
		Role       string `json:"role"`
		IsApproved bool   `json:"isApproved"`
	} `json:"user"`
}

type idBody struct {
	ID            string `json:"_id"`
	Title         string `json:"title"`
	HomestayTitle string `json:"homestayTitle"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
}

func signup(s *testServer, name, email, role string) authBody {
	raw := s.expect(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": name, "email": email, "password": "secret1", "role": role, "mobile": "9999999999",
	}, http.StatusCreated)
	return decode[authBody](s.t, raw)
}

func login(s *testServer, email, role string, status int) authBody {
	raw := s.expect(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": "secret1", "role": role,
	}, status)
	return decode[authBody](s.t, raw)
}

func adminToken(s *testServer) string {
	raw := s.expect(http.MethodPost, "/api/auth/admin/login", "", map[string]string{
		"email": adminEmail, "password": adminPassword,
	}, http.StatusOK)
	challenge := decode[struct {
		ChallengeID string `json:"challengeId"`
	}](s.t, raw)

	raw = s.expect(http.MethodPost, "/api/auth/admin/verify", "", map[string]string{
		"challengeId": challenge.ChallengeID, "code": adminCode,
	}, http.StatusOK)
	return decode[authBody](s.t, raw).Token
}

func publicHomestayIDs(s *testServer) map[string]bool {
	raw := s.expect(http.MethodGet, "/api/public/homestays", "", nil, http.StatusOK)
	ids := map[string]bool{}
	for _, h := range decode[[]idBody](s.t, raw) {
		ids[h.ID] = true
	}
	return ids
}

func TestSignupAndLoginTourist(t *testing.T) {
	s := newTestServer(t)

	created := signup(s, "A", "a@x", "Tourist")
	if created.Token == "" || !created.User.IsApproved {
		t.Fatalf("unexpected signup body %+v", created)
	}

	logged := login(s, "a@x", "Tourist", http.StatusOK)
	if logged.Token == "" || !logged.User.IsApproved {
		t.Fatalf("unexpected login body %+v", logged)
	}

	_, raw := s.do(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "A", "email": "A@X", "password": "secret1", "role": "Tourist",
	})
	if msg := decode[map[string]string](t, raw)["message"]; msg != "User already exists" {
		t.Fatalf("duplicate signup: unexpected message %q", msg)
	}
}

func TestGuidePendingApproval(t *testing.T) {
	s := newTestServer(t)
	admin := adminToken(s)

	signup(s, "G", "g@x.com", "LocalGuide")
	_, raw := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "g@x.com", "password": "secret1", "role": "Local Guide"})
	if msg := decode[map[string]string](t, raw)["message"]; msg != "Approval pending" {
		t.Fatalf("expected approval pending, got %q", msg)
	}

	s.expect(http.MethodPatch, "/api/admin/guides/approve", admin, map[string]string{"email": "g@x.com"}, http.StatusOK)
	login(s, "g@x.com", "LocalGuide", http.StatusOK)

	raw = s.expect(http.MethodGet, "/api/guides/approval-status?email=g@x.com", "", nil, http.StatusOK)
	if !decode[map[string]bool](t, raw)["isApproved"] {
		t.Fatal("approval status should report the guide as approved")
	}
}

func TestHomestayVisibility(t *testing.T) {
	s := newTestServer(t)
	admin := adminToken(s)

	raw := s.expect(http.MethodPost, "/api/admin/homestays", admin, map[string]any{"title": "H", "location": "L", "price": 1000}, http.StatusCreated)
	h := decode[idBody](t, raw)

	if publicHomestayIDs(s)[h.ID] {
		t.Fatal("unapproved homestay must not be public")
	}

	s.expect(http.MethodPatch, "/api/admin/homestays/approve/"+h.ID, admin, nil, http.StatusOK)
	if !publicHomestayIDs(s)[h.ID] {
		t.Fatal("approved homestay should be public")
	}
	s.expect(http.MethodGet, "/api/public/homestays/"+h.ID, "", nil, http.StatusOK)

	s.expect(http.MethodDelete, "/api/admin/homestays/"+h.ID, admin, nil, http.StatusOK)
	if publicHomestayIDs(s)[h.ID] {
		t.Fatal("deleted homestay must not be public")
	}
	s.expect(http.MethodGet, "/api/public/homestays/"+h.ID, "", nil, http.StatusNotFound)
}

func TestBookingLifecycle(t *testing.T) {
	s := newTestServer(t)
	admin := adminToken(s)

	tourist := signup(s, "A", "a@x", "Tourist").Token
	signup(s, "Hosty", "host@x.com", "Host")
	s.expect(http.MethodPut, "/api/admin/users/host@x.com", admin, map[string]any{"approved": true}, http.StatusOK)
	hostToken := login(s, "host@x.com", "Host", http.StatusOK).Token

	raw := s.expect(http.MethodPost, "/api/host/homestays", hostToken, map[string]any{"title": "Hill View", "location": "Ooty", "price": 1500}, http.StatusCreated)
	homestay := decode[struct {
		Homestay idBody `json:"homestay"`
	}](t, raw).Homestay
	s.expect(http.MethodPatch, "/api/admin/homestays/approve/"+homestay.ID, admin, nil, http.StatusOK)

	booking := map[string]any{
		"homestayId": homestay.ID, "checkinDate": "2026-09-01", "checkoutDate": "2026-09-03", "totalPrice": 3000,
	}
	older := decode[idBody](t, s.expect(http.MethodPost, "/api/tourist/bookings", tourist, booking, http.StatusCreated))
	b := decode[idBody](t, s.expect(http.MethodPost, "/api/tourist/bookings", tourist, booking, http.StatusCreated))
	if b.Status != "Pending" || b.PaymentStatus != "Pending" || b.HomestayTitle != "Hill View" {
		t.Fatalf("unexpected new booking %+v", b)
	}

	raw = s.expect(http.MethodPut, "/api/host/bookings/"+b.ID+"/status/approve", hostToken, nil, http.StatusOK)
	if got := decode[struct {
		Booking idBody `json:"booking"`
	}](t, raw).Booking; got.Status != "Approved" {
		t.Fatalf("expected Approved, got %+v", got)
	}

	raw = s.expect(http.MethodPut, "/api/host/bookings/"+b.ID+"/approve", hostToken, nil, http.StatusOK)
	if got := decode[struct {
		Booking idBody `json:"booking"`
	}](t, raw).Booking; got.PaymentStatus != "Approved" {
		t.Fatalf("expected payment Approved, got %+v", got)
	}

	s.expect(http.MethodPut, "/api/host/bookings/"+b.ID+"/status/cancel", hostToken, nil, http.StatusBadRequest)

	list := decode[[]idBody](t, s.expect(http.MethodGet, "/api/tourist/bookings/a@x", tourist, nil, http.StatusOK))
	if len(list) != 2 || list[0].ID != b.ID || list[1].ID != older.ID {
		t.Fatalf("expected newest booking first, got %+v", list)
	}
	if list[0].Status != "Approved" || list[0].PaymentStatus != "Approved" {
		t.Fatalf("listing should reflect host review, got %+v", list[0])
	}

	raw = s.expect(http.MethodPost, "/api/host/offline-booking", hostToken, map[string]any{
		"guestName": "Walk In", "guestEmail": "walkin@x", "homestayId": homestay.ID,
		"checkinDate": "2026-09-05", "checkoutDate": "2026-09-06", "guests": 1,
	}, http.StatusCreated)
	offline := decode[struct {
		Booking map[string]any `json:"booking"`
	}](t, raw).Booking
	if offline["touristName"] != "Walk In" || offline["bookingType"] != "OFFLINE" || offline["status"] != "Approved" {
		t.Fatalf("unexpected offline booking %+v", offline)
	}

	s.expect(http.MethodGet, "/api/tourist/bookings/host@x.com", tourist, nil, http.StatusForbidden)
	s.expect(http.MethodGet, "/api/host/dashboard", tourist, nil, http.StatusForbidden)
}

func TestHireGuideByIDOrEmail(t *testing.T) {
	s := newTestServer(t)
	admin := adminToken(s)

	tourist := signup(s, "A", "a@x", "Tourist").Token
	guide := signup(s, "G", "g@x.com", "LocalGuide")
	signup(s, "P", "p@x.com", "LocalGuide")
	s.expect(http.MethodPatch, "/api/admin/guides/approve", admin, map[string]string{"email": "g@x.com"}, http.StatusOK)

	s.expect(http.MethodPost, "/api/guides/hire-guide", tourist, map[string]string{"guideId": guide.User.ID, "message": "Day trek"}, http.StatusCreated)
	s.expect(http.MethodPost, "/api/guides/hire-guide", tourist, map[string]string{"guideId": "g@x.com", "message": "Night walk"}, http.StatusCreated)
	s.expect(http.MethodPost, "/api/guides/hire-guide", tourist, map[string]string{"guideId": "p@x.com"}, http.StatusNotFound)

	raw := s.expect(http.MethodGet, "/api/guides/hire-requests", guide.Token, nil, http.StatusOK)
	hires := decode[[]struct {
		ID          string `json:"_id"`
		Status      string `json:"status"`
		TouristName string `json:"touristName"`
	}](t, raw)
	if len(hires) != 2 || hires[0].TouristName != "A" {
		t.Fatalf("unexpected hire requests %+v", hires)
	}

	raw = s.expect(http.MethodPatch, "/api/guides/hire-requests/"+hires[0].ID+"/status", guide.Token, map[string]any{"status": "Approved", "agreedPrice": 1500}, http.StatusOK)
	if got := decode[map[string]map[string]any](t, raw)["hire"]["status"]; got != "Approved" {
		t.Fatalf("expected approved hire, got %v", got)
	}

	raw = s.expect(http.MethodGet, "/api/public/guides", "", nil, http.StatusOK)
	if bytes.Contains(raw, []byte("password")) {
		t.Fatalf("public guides leak credentials: %s", raw)
	}
	cards := decode[[]map[string]any](t, raw)
	if len(cards) != 1 || cards[0]["email"] != "g@x.com" || cards[0]["rating"] != 4.5 {
		t.Fatalf("unexpected public guides %+v", cards)
	}

	s.expect(http.MethodPost, "/api/guides/hire-guide", guide.Token, map[string]string{"guideId": "g@x.com"}, http.StatusForbidden)
}

func TestAdminGate(t *testing.T) {
	s := newTestServer(t)

	tourist := signup(s, "A", "a@x", "Tourist").Token
	s.expect(http.MethodGet, "/api/admin/users", tourist, nil, http.StatusForbidden)
	s.expect(http.MethodGet, "/api/admin/users", "", nil, http.StatusUnauthorized)

	s.expect(http.MethodPost, "/api/auth/admin/login", "", map[string]string{"email": adminEmail, "password": "wrong"}, http.StatusUnauthorized)

	raw := s.expect(http.MethodPost, "/api/auth/admin/login", "", map[string]string{"email": adminEmail, "password": adminPassword}, http.StatusOK)
	challengeID := decode[map[string]any](t, raw)["challengeId"].(string)

	s.expect(http.MethodPost, "/api/auth/admin/verify", "", map[string]string{"challengeId": challengeID, "code": "87654321"}, http.StatusUnauthorized)

	raw = s.expect(http.MethodPost, "/api/auth/admin/verify", "", map[string]string{"challengeId": challengeID, "code": adminCode}, http.StatusOK)
	admin := decode[authBody](t, raw)
	if admin.User.Role != "Admin" || admin.Token == "" {
		t.Fatalf("unexpected admin session %+v", admin)
	}

	raw = s.expect(http.MethodGet, "/api/admin/users", admin.Token, nil, http.StatusOK)
	users := decode[map[string]map[string]any](t, raw)
	if _, ok := users["a@x"]; !ok || bytes.Contains(raw, []byte("password")) {
		t.Fatalf("unexpected user map %s", raw)
	}
}

func TestHealthAndUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	s.expect(http.MethodGet, "/api/health", "", nil, http.StatusOK)
	s.expect(http.MethodGet, "/api/nowhere", "", nil, http.StatusNotFound)
}
