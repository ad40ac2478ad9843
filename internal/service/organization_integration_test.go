//go:build integration

package service_test

import (
	"context"
	"testing"

	"github.com/orgcatalog/orgcatalog/internal/cache"
	"github.com/orgcatalog/orgcatalog/internal/metrics"
	"github.com/orgcatalog/orgcatalog/internal/repository"
	"github.com/orgcatalog/orgcatalog/internal/service"
	"github.com/orgcatalog/orgcatalog/internal/testutil"
)

// orgServiceTestEnv wires the organization service against a real
// database and Redis, with an in-memory recorder to observe cache
// behavior.
type orgServiceTestEnv struct {
	repo     *repository.Repository
	cache    *cache.Cache
	recorder *metrics.InMemoryRecorder
	svc      *service.OrganizationService
	ctx      context.Context
}

func newOrgServiceTestEnv(t *testing.T) *orgServiceTestEnv {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	databaseURL := testutil.RequireEnv(t, "DATABASE_URL")
	redisURL := testutil.RequireEnv(t, "REDIS_URL")
	ctx := context.Background()

	repo, err := repository.New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("failed to acquire DB lock: %v", err)
	}
	t.Cleanup(func() {
		if err := unlock(); err != nil {
			t.Errorf("failed to release DB lock: %v", err)
		}
	})

	if err := testutil.ResetCatalogSchema(ctx, repo); err != nil {
		t.Fatalf("failed to reset schema: %v", err)
	}

	c, err := cache.New(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to Redis: %v", err)
	}
	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Errorf("failed to close Redis client: %v", err)
		}
	})

	if err := testutil.FlushRedis(ctx, c.Client()); err != nil {
		t.Fatalf("failed to flush Redis: %v", err)
	}

	recorder := metrics.NewInMemory()

	return &orgServiceTestEnv{
		repo:     repo,
		cache:    c,
		recorder: recorder,
		svc:      service.NewOrganizationService(repo, c, 500, recorder),
		ctx:      ctx,
	}
}

func TestCreateOrganization_CacheConsistency(t *testing.T) {
	env := newOrgServiceTestEnv(t)

	building := testutil.NewTestBuilding(t, "Lenina 1")
	if err := env.repo.CreateBuilding(env.ctx, building); err != nil {
		t.Fatalf("failed to create building: %v", err)
	}

	org, err := env.svc.CreateOrganization(env.ctx, service.CreateOrganizationInput{
		Name:       "Horns and Hooves LLC",
		BuildingID: building.ID,
		Phones:     []string{"2-222-222"},
	})
	if err != nil {
		t.Fatalf("CreateOrganization failed: %v", err)
	}

	// Creation invalidates, so no marker for the new ID may remain.
	isNeg, err := env.cache.IsNegativelyCached(env.ctx, org.ID)
	if err != nil {
		t.Fatalf("IsNegativelyCached failed: %v", err)
	}
	if isNeg {
		t.Error("freshly created organization should not be negatively cached")
	}

	// First read backfills the cache, the second is served from it.
	if _, err := env.svc.GetOrganization(env.ctx, org.ID); err != nil {
		t.Fatalf("GetOrganization failed: %v", err)
	}
	got, err := env.svc.GetOrganization(env.ctx, org.ID)
	if err != nil {
		t.Fatalf("GetOrganization failed: %v", err)
	}
	if got.Name != "Horns and Hooves LLC" {
		t.Errorf("name = %s, want Horns and Hooves LLC", got.Name)
	}

	snap := env.recorder.Snapshot()
	if snap.OrgCacheMisses != 1 || snap.OrgCacheHits != 1 {
		t.Errorf("cache misses/hits = %d/%d, want 1/1", snap.OrgCacheMisses, snap.OrgCacheHits)
	}
}
