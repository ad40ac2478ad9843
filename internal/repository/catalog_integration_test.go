//go:build integration

package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/orgcatalog/orgcatalog/internal/geo"
	"github.com/orgcatalog/orgcatalog/internal/model"
	"github.com/orgcatalog/orgcatalog/internal/repository"
	"github.com/orgcatalog/orgcatalog/internal/testutil"
)

// catalogTestEnv wires a repository against a real database. Tests are
// serialized with an advisory lock and run on a fresh schema.
type catalogTestEnv struct {
	repo *repository.Repository
	ctx  context.Context
}

func newCatalogTestEnv(t *testing.T) *catalogTestEnv {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	databaseURL := testutil.RequireEnv(t, "DATABASE_URL")
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

	return &catalogTestEnv{repo: repo, ctx: ctx}
}

func (env *catalogTestEnv) createBuilding(t *testing.T, address string) *model.Building {
	t.Helper()
	b := testutil.NewTestBuilding(t, address)
	if err := env.repo.CreateBuilding(env.ctx, b); err != nil {
		t.Fatalf("failed to create building: %v", err)
	}
	return b
}

func (env *catalogTestEnv) createActivity(t *testing.T, name string, parent *model.Activity) *model.Activity {
	t.Helper()
	a := testutil.NewTestActivity(t, name, parent)
	if err := env.repo.CreateActivity(env.ctx, a); err != nil {
		t.Fatalf("failed to create activity: %v", err)
	}
	return a
}

func TestBuildingRepository(t *testing.T) {
	env := newCatalogTestEnv(t)

	created := env.createBuilding(t, "Lenina 1")

	t.Run("get_by_id", func(t *testing.T) {
		got, err := env.repo.GetBuildingByID(env.ctx, created.ID)
		if err != nil {
			t.Fatalf("GetBuildingByID failed: %v", err)
		}
		if got.Address != "Lenina 1" {
			t.Errorf("address = %s, want Lenina 1", got.Address)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		_, err := env.repo.GetBuildingByID(env.ctx, "missing")
		if !errors.Is(err, repository.ErrBuildingNotFound) {
			t.Errorf("error = %v, want ErrBuildingNotFound", err)
		}
	})

	t.Run("exists", func(t *testing.T) {
		exists, err := env.repo.BuildingExists(env.ctx, created.ID)
		if err != nil {
			t.Fatalf("BuildingExists failed: %v", err)
		}
		if !exists {
			t.Error("created building should exist")
		}

		exists, err = env.repo.BuildingExists(env.ctx, "missing")
		if err != nil {
			t.Fatalf("BuildingExists failed: %v", err)
		}
		if exists {
			t.Error("missing building should not exist")
		}
	})

	t.Run("list_pagination", func(t *testing.T) {
		env.createBuilding(t, "Lenina 2")
		env.createBuilding(t, "Lenina 3")

		all, err := env.repo.ListBuildings(env.ctx, 0, 10)
		if err != nil {
			t.Fatalf("ListBuildings failed: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("got %d buildings, want 3", len(all))
		}

		page, err := env.repo.ListBuildings(env.ctx, 1, 1)
		if err != nil {
			t.Fatalf("ListBuildings failed: %v", err)
		}
		if len(page) != 1 {
			t.Fatalf("got %d buildings, want 1", len(page))
		}
		if page[0].ID != all[1].ID {
			t.Errorf("pagination returned %s, want %s", page[0].ID, all[1].ID)
		}
	})

	t.Run("bbox", func(t *testing.T) {
		spb := testutil.NewTestBuilding(t, "Nevsky 1")
		spb.Latitude = 59.9343
		spb.Longitude = 30.3351
		if err := env.repo.CreateBuilding(env.ctx, spb); err != nil {
			t.Fatalf("failed to create building: %v", err)
		}

		// Box around St. Petersburg only
		box := geo.BBox{MinLat: 59, MaxLat: 61, MinLon: 29, MaxLon: 31}
		got, err := env.repo.ListBuildingsInBBox(env.ctx, box)
		if err != nil {
			t.Fatalf("ListBuildingsInBBox failed: %v", err)
		}
		if len(got) != 1 || got[0].ID != spb.ID {
			t.Errorf("bbox should match only the SPb building, got %d", len(got))
		}
	})

	t.Run("bbox_wraps_antimeridian", func(t *testing.T) {
		east := testutil.NewTestBuilding(t, "Dateline East")
		east.Latitude, east.Longitude = 0, 179.9
		west := testutil.NewTestBuilding(t, "Dateline West")
		west.Latitude, west.Longitude = 0, -179.9
		for _, b := range []*model.Building{east, west} {
			if err := env.repo.CreateBuilding(env.ctx, b); err != nil {
				t.Fatalf("failed to create building: %v", err)
			}
		}

		box := geo.BoundingBox(geo.Point{Latitude: 0, Longitude: 179.95}, 50)
		if !box.WrapsLon() {
			t.Fatalf("box should wrap the antimeridian: %+v", box)
		}

		got, err := env.repo.ListBuildingsInBBox(env.ctx, box)
		if err != nil {
			t.Fatalf("ListBuildingsInBBox failed: %v", err)
		}
		found := map[string]bool{}
		for _, b := range got {
			found[b.ID] = true
		}
		if len(got) != 2 || !found[east.ID] || !found[west.ID] {
			t.Errorf("wrapped box should match both dateline buildings, got %d", len(got))
		}
	})
}

func TestActivityRepository(t *testing.T) {
	env := newCatalogTestEnv(t)

	food := env.createActivity(t, "Food", nil)
	meat := env.createActivity(t, "Meat Products", food)
	dairy := env.createActivity(t, "Dairy Products", food)
	cheese := env.createActivity(t, "Cheese", dairy)
	cars := env.createActivity(t, "Cars", nil)

	t.Run("get_by_id", func(t *testing.T) {
		got, err := env.repo.GetActivityByID(env.ctx, meat.ID)
		if err != nil {
			t.Fatalf("GetActivityByID failed: %v", err)
		}
		if got.Level != 1 {
			t.Errorf("level = %d, want 1", got.Level)
		}
		if got.ParentID == nil || *got.ParentID != food.ID {
			t.Error("parent ID should be preserved")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		_, err := env.repo.GetActivityByID(env.ctx, "missing")
		if !errors.Is(err, repository.ErrActivityNotFound) {
			t.Errorf("error = %v, want ErrActivityNotFound", err)
		}
	})

	t.Run("list_parents_first", func(t *testing.T) {
		all, err := env.repo.ListActivities(env.ctx)
		if err != nil {
			t.Fatalf("ListActivities failed: %v", err)
		}
		if len(all) != 5 {
			t.Fatalf("got %d activities, want 5", len(all))
		}
		for i := 1; i < len(all); i++ {
			if all[i].Level < all[i-1].Level {
				t.Fatal("activities should come out ordered by level")
			}
		}
	})

	t.Run("subtree_ids", func(t *testing.T) {
		ids, err := env.repo.GetActivitySubtreeIDs(env.ctx, food.ID)
		if err != nil {
			t.Fatalf("GetActivitySubtreeIDs failed: %v", err)
		}
		want := map[string]bool{food.ID: true, meat.ID: true, dairy.ID: true, cheese.ID: true}
		if len(ids) != len(want) {
			t.Fatalf("got %d IDs, want %d: %v", len(ids), len(want), ids)
		}
		for _, id := range ids {
			if !want[id] {
				t.Errorf("unexpected ID in subtree: %s", id)
			}
		}
	})

	t.Run("subtree_of_leaf", func(t *testing.T) {
		ids, err := env.repo.GetActivitySubtreeIDs(env.ctx, cars.ID)
		if err != nil {
			t.Fatalf("GetActivitySubtreeIDs failed: %v", err)
		}
		if len(ids) != 1 || ids[0] != cars.ID {
			t.Errorf("leaf subtree = %v, want just the leaf", ids)
		}
	})

	t.Run("list_by_ids", func(t *testing.T) {
		got, err := env.repo.ListActivitiesByIDs(env.ctx, []string{meat.ID, cheese.ID, "missing"})
		if err != nil {
			t.Fatalf("ListActivitiesByIDs failed: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("got %d activities, want 2", len(got))
		}
	})
}

func TestOrganizationRepository(t *testing.T) {
	env := newCatalogTestEnv(t)

	building := env.createBuilding(t, "Lenina 1")
	food := env.createActivity(t, "Food", nil)
	meat := env.createActivity(t, "Meat Products", food)
	dairy := env.createActivity(t, "Dairy Products", food)

	org := testutil.NewTestOrganization(t, "Horns and Hooves LLC", building.ID)
	org.Activities = []*model.Activity{meat, dairy}
	if err := env.repo.CreateOrganization(env.ctx, org); err != nil {
		t.Fatalf("CreateOrganization failed: %v", err)
	}

	t.Run("get_hydrated", func(t *testing.T) {
		got, err := env.repo.GetOrganizationByID(env.ctx, org.ID)
		if err != nil {
			t.Fatalf("GetOrganizationByID failed: %v", err)
		}
		if got.Building == nil || got.Building.Address != "Lenina 1" {
			t.Error("building should be hydrated")
		}
		if len(got.Phones) != 1 {
			t.Errorf("got %d phones, want 1", len(got.Phones))
		}
		if len(got.Activities) != 2 {
			t.Errorf("got %d activities, want 2", len(got.Activities))
		}
	})

	t.Run("update_replaces_wholesale", func(t *testing.T) {
		updated := *org
		updated.Name = "Horns and Hooves Inc"
		updated.Phones = []model.Phone{
			{ID: testutil.UniqueID("ph"), Number: "3-333-333"},
			{ID: testutil.UniqueID("ph"), Number: "4-444-444"},
		}
		updated.Activities = []*model.Activity{meat}

		if err := env.repo.UpdateOrganization(env.ctx, &updated); err != nil {
			t.Fatalf("UpdateOrganization failed: %v", err)
		}

		got, err := env.repo.GetOrganizationByID(env.ctx, org.ID)
		if err != nil {
			t.Fatalf("GetOrganizationByID failed: %v", err)
		}
		if got.Name != "Horns and Hooves Inc" {
			t.Errorf("name = %s, want updated name", got.Name)
		}
		if len(got.Phones) != 2 {
			t.Errorf("got %d phones, want 2", len(got.Phones))
		}
		if len(got.Activities) != 1 || got.Activities[0].ID != meat.ID {
			t.Errorf("activities should be replaced, got %d", len(got.Activities))
		}
	})

	t.Run("update_missing", func(t *testing.T) {
		missing := testutil.NewTestOrganization(t, "Ghost", building.ID)
		err := env.repo.UpdateOrganization(env.ctx, missing)
		if !errors.Is(err, repository.ErrOrganizationNotFound) {
			t.Errorf("error = %v, want ErrOrganizationNotFound", err)
		}
	})

	t.Run("list_by_building", func(t *testing.T) {
		got, err := env.repo.ListOrganizationsByBuilding(env.ctx, building.ID)
		if err != nil {
			t.Fatalf("ListOrganizationsByBuilding failed: %v", err)
		}
		if len(got) != 1 || got[0].ID != org.ID {
			t.Errorf("got %d organizations, want 1", len(got))
		}

		empty, err := env.repo.ListOrganizationsByBuilding(env.ctx, "missing")
		if err != nil {
			t.Fatalf("ListOrganizationsByBuilding failed: %v", err)
		}
		if len(empty) != 0 {
			t.Errorf("got %d organizations for a missing building, want 0", len(empty))
		}
	})

	t.Run("list_by_activity_ids_distinct", func(t *testing.T) {
		other := testutil.NewTestOrganization(t, "Dairy Direct", building.ID)
		other.Activities = []*model.Activity{dairy}
		if err := env.repo.CreateOrganization(env.ctx, other); err != nil {
			t.Fatalf("CreateOrganization failed: %v", err)
		}

		// org is linked to meat only after the update above; query the
		// whole subtree and make sure each organization appears once.
		got, err := env.repo.ListOrganizationsByActivityIDs(env.ctx, []string{meat.ID, dairy.ID})
		if err != nil {
			t.Fatalf("ListOrganizationsByActivityIDs failed: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("got %d organizations, want 2", len(got))
		}
	})

	t.Run("search_by_name", func(t *testing.T) {
		got, err := env.repo.SearchOrganizationsByName(env.ctx, "hooves")
		if err != nil {
			t.Fatalf("SearchOrganizationsByName failed: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("got %d organizations, want 1", len(got))
		}
		if got[0].Building == nil {
			t.Error("search results should be hydrated")
		}
	})

	t.Run("delete_cascades", func(t *testing.T) {
		if err := env.repo.DeleteOrganization(env.ctx, org.ID); err != nil {
			t.Fatalf("DeleteOrganization failed: %v", err)
		}

		_, err := env.repo.GetOrganizationByID(env.ctx, org.ID)
		if !errors.Is(err, repository.ErrOrganizationNotFound) {
			t.Errorf("error = %v, want ErrOrganizationNotFound", err)
		}

		if err := env.repo.DeleteOrganization(env.ctx, org.ID); !errors.Is(err, repository.ErrOrganizationNotFound) {
			t.Errorf("second delete error = %v, want ErrOrganizationNotFound", err)
		}
	})
}

func TestAPIKeyRepository(t *testing.T) {
	env := newCatalogTestEnv(t)

	key := testutil.NewTestAPIKey(t)
	if err := env.repo.CreateAPIKey(env.ctx, key); err != nil {
		t.Fatalf("CreateAPIKey failed: %v", err)
	}

	t.Run("get_by_id", func(t *testing.T) {
		got, err := env.repo.GetAPIKeyByID(env.ctx, key.ID)
		if err != nil {
			t.Fatalf("GetAPIKeyByID failed: %v", err)
		}
		if got.KeyPrefix != key.KeyPrefix {
			t.Errorf("prefix = %s, want %s", got.KeyPrefix, key.KeyPrefix)
		}
		if len(got.Scopes) != 2 {
			t.Errorf("got %d scopes, want 2", len(got.Scopes))
		}
	})

	t.Run("get_by_prefix", func(t *testing.T) {
		got, err := env.repo.GetAPIKeysByPrefix(env.ctx, key.KeyPrefix)
		if err != nil {
			t.Fatalf("GetAPIKeysByPrefix failed: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("got %d keys, want 1", len(got))
		}
	})

	t.Run("last_used", func(t *testing.T) {
		if err := env.repo.UpdateAPIKeyLastUsed(env.ctx, key.ID); err != nil {
			t.Fatalf("UpdateAPIKeyLastUsed failed: %v", err)
		}
		got, err := env.repo.GetAPIKeyByID(env.ctx, key.ID)
		if err != nil {
			t.Fatalf("GetAPIKeyByID failed: %v", err)
		}
		if got.LastUsedAt == nil {
			t.Error("last_used_at should be set")
		}
	})

	t.Run("revoke", func(t *testing.T) {
		if err := env.repo.RevokeAPIKey(env.ctx, key.ID); err != nil {
			t.Fatalf("RevokeAPIKey failed: %v", err)
		}

		// Revoked keys are excluded from prefix lookups
		got, err := env.repo.GetAPIKeysByPrefix(env.ctx, key.KeyPrefix)
		if err != nil {
			t.Fatalf("GetAPIKeysByPrefix failed: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %d keys after revocation, want 0", len(got))
		}

		if err := env.repo.RevokeAPIKey(env.ctx, key.ID); !errors.Is(err, repository.ErrAPIKeyNotFound) {
			t.Errorf("second revoke error = %v, want ErrAPIKeyNotFound", err)
		}
	})
}
