package httpkit

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tourism_portal_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubResolver map[string]Principal

func (s stubResolver) Resolve(raw string) (Principal, error) {
	if p, ok := s[raw]; ok {
		return p, nil
	}
	return Principal{}, errors.New("bad token")
}

func newGatedEngine(roles ...string) *gin.Engine {
	resolver := stubResolver{
		"host-token":    {Email: "host@example.com", Role: "Host"},
		"tourist-token": {Email: "t@example.com", Role: "Tourist"},
	}
	engine := gin.New()
	engine.GET("/gated", AuthRequired(resolver), RequireRoles(roles...), func(c *gin.Context) {
		p, _ := GetPrincipal(c)
		OK(c, gin.H{"email": p.Email})
	})
	return engine
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body.Message
}

func TestAuthRequiredAndRoles(t *testing.T) {
	engine := newGatedEngine("Host")

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"wrong role", "Bearer tourist-token", http.StatusForbidden},
		{"allowed", "Bearer host-token", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/gated", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d (%s)", tc.status, rec.Code, rec.Body.String())
			}
			if tc.status != http.StatusOK && decodeMessage(t, rec) == "" {
				t.Fatal("expected a message in the error body")
			}
		})
	}
}

func TestHandleErrorMapsKinds(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{apperr.NotFound("Homestay not found"), http.StatusNotFound, "Homestay not found"},
		{fmt.Errorf("wrapped: %w", apperr.Forbidden("Access denied")), http.StatusForbidden, "Access denied"},
		{apperr.Conflict("User already exists"), http.StatusBadRequest, "User already exists"},
		{apperr.Internal("Signup failed", errors.New("socket closed")), http.StatusInternalServerError, "Signup failed"},
		{errors.New("mongo exploded"), http.StatusInternalServerError, msgInternal},
	}

	for _, tc := range cases {
		engine := gin.New()
		engine.GET("/", func(c *gin.Context) { HandleError(c, tc.err) })

		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != tc.status {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.status, rec.Code)
		}
		if got := decodeMessage(t, rec); got != tc.message {
			t.Fatalf("%v: expected message %q, got %q", tc.err, tc.message, got)
		}
		if strings.Contains(rec.Body.String(), "socket") || strings.Contains(rec.Body.String(), "mongo") {
			t.Fatalf("internal cause leaked: %s", rec.Body.String())
		}
	}
}

func TestBodyLimit(t *testing.T) {
	engine := gin.New()
	engine.POST("/", BodyLimit(16), func(c *gin.Context) {
		var payload map[string]string
		if !BindJSON(c, &payload) {
			return
		}
		OK(c, payload)
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"b"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected small body to pass, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"image":"data:image/png;base64,AAAA"}`)))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}

	// A chunked upload has no Content-Length, so the cap trips while decoding.
	chunked := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"image":"data:image/png;base64,AAAA"}`))
	chunked.ContentLength = -1
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, chunked)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 for an oversized chunked body, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", rec.Code)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) { OK(c, gin.H{}) })

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get(HeaderRequestID) == "" {
		t.Fatal("expected generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Header().Get(HeaderRequestID) != "abc-123" {
		t.Fatalf("expected client request id to be reused, got %q", rec.Header().Get(HeaderRequestID))
	}
}

func TestRateLimit(t *testing.T) {
	limiter := NewIPRateLimiter(0, 2, nil)
	engine := gin.New()
	engine.GET("/", limiter.RateLimit(), func(c *gin.Context) { OK(c, gin.H{}) })

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}
