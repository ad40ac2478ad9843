package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/orgcatalog/orgcatalog/internal/auth"
	"github.com/orgcatalog/orgcatalog/internal/model"
)

func requestWithScopes(scopes ...string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if scopes == nil {
		return req
	}
	authCtx := &model.AuthContext{KeyID: "key1", Scopes: scopes}
	return req.WithContext(auth.ContextWithAuth(req.Context(), authCtx))
}

func TestRequireScope(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		middleware func(http.Handler) http.Handler
		req        *http.Request
		wantStatus int
	}{
		{"unauthenticated", RequireRead(), requestWithScopes(), http.StatusUnauthorized},
		{"read_allows_read", RequireRead(), requestWithScopes(model.ScopeRead), http.StatusOK},
		{"read_denies_write", RequireWrite(), requestWithScopes(model.ScopeRead), http.StatusForbidden},
		{"admin_grants_everything", RequireWrite(), requestWithScopes(model.ScopeAdmin), http.StatusOK},
		{"write_denies_admin", RequireAdmin(), requestWithScopes(model.ScopeWrite), http.StatusForbidden},
		{"any_of_multiple", RequireScope(model.ScopeRead, model.ScopeWrite), requestWithScopes(model.ScopeWrite), http.StatusOK},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			test.middleware(okHandler).ServeHTTP(rec, test.req)

			if rec.Code != test.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, test.wantStatus)
			}
		})
	}
}
