package repository

import (
	"context"
	"fmt"
)

// schemaStatements is the catalog DDL, applied in order at startup.
// Every statement is idempotent so Migrate can run on every boot.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS buildings (
		id         TEXT PRIMARY KEY,
		address    TEXT NOT NULL,
		latitude   DOUBLE PRECISION NOT NULL,
		longitude  DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_buildings_coords
		ON buildings (latitude, longitude)`,

	`CREATE TABLE IF NOT EXISTS activities (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		parent_id  TEXT REFERENCES activities(id),
		level      INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_parent_id
		ON activities (parent_id)`,

	`CREATE TABLE IF NOT EXISTS organizations (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		building_id TEXT NOT NULL REFERENCES buildings(id),
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_organizations_building_id
		ON organizations (building_id)`,
	`CREATE INDEX IF NOT EXISTS idx_organizations_name_lower
		ON organizations (lower(name))`,

	`CREATE TABLE IF NOT EXISTS phones (
		id              TEXT PRIMARY KEY,
		number          TEXT NOT NULL,
		organization_id TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_phones_organization_id
		ON phones (organization_id)`,

	`CREATE TABLE IF NOT EXISTS organization_activities (
		organization_id TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		activity_id     TEXT NOT NULL REFERENCES activities(id),
		PRIMARY KEY (organization_id, activity_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_organization_activities_activity_id
		ON organization_activities (activity_id)`,

	`CREATE TABLE IF NOT EXISTS api_keys (
		id              TEXT PRIMARY KEY,
		key_hash        TEXT NOT NULL,
		key_prefix      TEXT NOT NULL,
		scopes          TEXT[] NOT NULL,
		rate_limit_tier TEXT NOT NULL,
		name            TEXT,
		revoked_at      TIMESTAMPTZ,
		last_used_at    TIMESTAMPTZ,
		created_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_api_keys_key_prefix
		ON api_keys (key_prefix)`,
}

// Migrate applies the catalog schema.
func (r *Repository) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	return nil
}

// DropSchema removes all catalog tables. Intended for tests only.
func (r *Repository) DropSchema(ctx context.Context) error {
	stmts := []string{
		`DROP TABLE IF EXISTS organization_activities`,
		`DROP TABLE IF EXISTS phones`,
		`DROP TABLE IF EXISTS organizations`,
		`DROP TABLE IF EXISTS activities`,
		`DROP TABLE IF EXISTS buildings`,
		`DROP TABLE IF EXISTS api_keys`,
	}
	for _, stmt := range stmts {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("drop schema statement: %w", err)
		}
	}
	return nil
}
