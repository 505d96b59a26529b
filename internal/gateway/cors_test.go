package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func corsHandler() http.Handler {
	policy := CORSPolicy{
		AllowedOrigins: []string{"https://app.evergreen.dev"},
		APIPrefix:      "/api/",
	}
	return policy.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCORSGrantsListedOriginReadAccess(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/cycles", nil)
	req.Header.Set("Origin", "https://app.evergreen.dev")
	rec := httptest.NewRecorder()

	corsHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.evergreen.dev" {
		t.Fatalf("expected origin grant, got %q", got)
	}
}

func TestCORSIgnoresUnlistedOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/cycles", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()

	corsHandler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unlisted origin must receive no grant, got %q", got)
	}
}

func TestCORSPreflightAllowsReadSafeVerbsOnly(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/cycles", nil)
	req.Header.Set("Origin", "https://app.evergreen.dev")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()

	corsHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != readSafeMethods {
		t.Fatalf("expected read-safe methods, got %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/cycles", nil)
	req.Header.Set("Origin", "https://app.evergreen.dev")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()

	corsHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected preflight refusal for POST, got %d", rec.Code)
	}
}

func TestCORSBlocksCrossOriginMutation(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/pitches", nil)
	req.Header.Set("Origin", "https://app.evergreen.dev")
	rec := httptest.NewRecorder()

	corsHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for cross-origin mutation, got %d", rec.Code)
	}
}

func TestCORSSkipsNonAPIPaths(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()

	corsHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through outside API prefix, got %d", rec.Code)
	}
}
