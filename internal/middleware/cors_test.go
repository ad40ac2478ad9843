package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func corsTestHandler(t *testing.T, origins []string) http.Handler {
	t.Helper()
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = origins
	return CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCORS_SameOriginRequestSkipsCORS(t *testing.T) {
	handler := corsTestHandler(t, []string{"https://example.com"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("no CORS headers expected without an Origin header")
	}
}

func TestCORS_AllowedOrigin(t *testing.T) {
	handler := corsTestHandler(t, []string{"https://example.com"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q, want the origin", got)
	}
	if rec.Header().Get("Vary") != "Origin" {
		t.Error("Vary: Origin header expected")
	}
}

func TestCORS_Preflight(t *testing.T) {
	handler := corsTestHandler(t, []string{"https://example.com"})

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if rec.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("Access-Control-Allow-Methods expected on preflight")
	}
	if rec.Header().Get("Access-Control-Max-Age") != "86400" {
		t.Errorf("Access-Control-Max-Age = %q, want 86400", rec.Header().Get("Access-Control-Max-Age"))
	}
}

func TestCORS_DisallowedPreflight(t *testing.T) {
	handler := corsTestHandler(t, []string{"https://example.com"})

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://evil.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestIsOriginAllowed_Wildcard(t *testing.T) {
	allowed := []string{"*.example.com"}
	originMap := map[string]bool{}

	tests := []struct {
		origin string
		want   bool
	}{
		{"https://sub.example.com", true},
		{"https://a.b.example.com", true},
		{"https://example.com", false},
		{"https://notexample.com", false},
		{"https://evil.com", false},
	}

	for _, test := range tests {
		if got := isOriginAllowed(test.origin, originMap, allowed); got != test.want {
			t.Errorf("isOriginAllowed(%q) = %v, want %v", test.origin, got, test.want)
		}
	}
}
