package model

import (
	"testing"
	"time"
)

func TestAPIKey_HasScope(t *testing.T) {
	readKey := &APIKey{Scopes: []string{ScopeRead}}
	adminKey := &APIKey{Scopes: []string{ScopeAdmin}}

	if !readKey.HasScope(ScopeRead) {
		t.Error("key with read scope should have read")
	}
	if readKey.HasScope(ScopeWrite) {
		t.Error("key with read scope should not have write")
	}

	// Admin implies everything
	for _, scope := range ValidScopes {
		if !adminKey.HasScope(scope) {
			t.Errorf("admin key should have scope %s", scope)
		}
	}
}

func TestAPIKey_IsRevoked(t *testing.T) {
	now := time.Now()

	active := &APIKey{}
	revoked := &APIKey{RevokedAt: &now}

	if active.IsRevoked() {
		t.Error("key without revoked_at should not be revoked")
	}
	if !revoked.IsRevoked() {
		t.Error("key with revoked_at should be revoked")
	}
}

func TestAPIKey_GetRateLimitConfig(t *testing.T) {
	pro := &APIKey{RateLimitTier: TierPro}
	if cfg := pro.GetRateLimitConfig(); cfg.RequestsPerMinute != 600 {
		t.Errorf("pro tier rpm = %d, want 600", cfg.RequestsPerMinute)
	}

	unlimited := &APIKey{RateLimitTier: TierUnlimited}
	if cfg := unlimited.GetRateLimitConfig(); cfg.RequestsPerMinute != 0 {
		t.Errorf("unlimited tier rpm = %d, want 0", cfg.RequestsPerMinute)
	}

	// Unknown tiers fall back to free
	unknown := &APIKey{RateLimitTier: "platinum"}
	if cfg := unknown.GetRateLimitConfig(); cfg.RequestsPerMinute != TierConfigs[TierFree].RequestsPerMinute {
		t.Errorf("unknown tier should fall back to free")
	}
}

func TestAuthContext_HasScope(t *testing.T) {
	authCtx := &AuthContext{Scopes: []string{ScopeWrite}}

	if !authCtx.HasScope(ScopeWrite) {
		t.Error("context with write scope should have write")
	}
	if authCtx.HasScope(ScopeAdmin) {
		t.Error("context without admin should not have admin")
	}
}
