// Package testutil provides helpers and data factories for tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/orgcatalog/orgcatalog/internal/model"
	"github.com/orgcatalog/orgcatalog/internal/repository"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 740031

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetCatalogSchema drops and recreates all catalog tables.
func ResetCatalogSchema(ctx context.Context, repo *repository.Repository) error {
	if err := repo.DropSchema(ctx); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	if err := repo.Migrate(ctx); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestBuilding creates a test building with sensible defaults.
func NewTestBuilding(t testing.TB, address string) *model.Building {
	t.Helper()
	now := time.Now().UTC()
	return &model.Building{
		ID:        UniqueID("bld"),
		Address:   address,
		Latitude:  55.7558,
		Longitude: 37.6176,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestActivity creates a test activity with sensible defaults.
// Pass nil parent for a root activity.
func NewTestActivity(t testing.TB, name string, parent *model.Activity) *model.Activity {
	t.Helper()
	a := &model.Activity{
		ID:        UniqueID("act"),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if parent != nil {
		a.ParentID = &parent.ID
		a.Level = parent.Level + 1
	}
	return a
}

// NewTestOrganization creates a test organization located in the given
// building.
func NewTestOrganization(t testing.TB, name, buildingID string) *model.Organization {
	t.Helper()
	now := time.Now().UTC()
	return &model.Organization{
		ID:         UniqueID("org"),
		Name:       name,
		BuildingID: buildingID,
		Phones: []model.Phone{
			{ID: UniqueID("ph"), Number: "2-222-222"},
		},
		Activities: []*model.Activity{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NewTestAPIKey creates a test API key with sensible defaults.
func NewTestAPIKey(t testing.TB) *model.APIKey {
	t.Helper()
	now := time.Now().UTC()
	return &model.APIKey{
		ID:            UniqueID("key"),
		KeyHash:       fmt.Sprintf("hash-%d", now.UnixNano()),
		KeyPrefix:     "abc123",
		Scopes:        []string{model.ScopeRead, model.ScopeWrite},
		RateLimitTier: model.TierFree,
		Name:          "Test Key",
		CreatedAt:     now,
	}
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
