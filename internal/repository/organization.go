package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/orgcatalog/orgcatalog/internal/model"
)

// Common errors for organization repository operations.
var (
	ErrOrganizationNotFound = errors.New("organization not found")
)

// CreateOrganization inserts an organization with its phones and
// activity links in a single transaction.
func (r *Repository) CreateOrganization(ctx context.Context, org *model.Organization) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO organizations (id, name, building_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.Exec(ctx, query, org.ID, org.Name, org.BuildingID, org.CreatedAt, org.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}

	if err := insertPhones(ctx, tx, org.ID, org.Phones); err != nil {
		return err
	}

	if err := insertActivityLinks(ctx, tx, org.ID, org.ActivityIDs()); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit organization: %w", err)
	}

	return nil
}

// UpdateOrganization replaces an organization's mutable fields, phones
// and activity links in a single transaction.
func (r *Repository) UpdateOrganization(ctx context.Context, org *model.Organization) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE organizations
		SET name = $2, building_id = $3, updated_at = $4
		WHERE id = $1
	`
	result, err := tx.Exec(ctx, query, org.ID, org.Name, org.BuildingID, org.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update organization: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrOrganizationNotFound
	}

	// Phones and activity links are replaced wholesale.
	if _, err := tx.Exec(ctx, `DELETE FROM phones WHERE organization_id = $1`, org.ID); err != nil {
		return fmt.Errorf("failed to clear phones: %w", err)
	}
	if err := insertPhones(ctx, tx, org.ID, org.Phones); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM organization_activities WHERE organization_id = $1`, org.ID); err != nil {
		return fmt.Errorf("failed to clear activity links: %w", err)
	}
	if err := insertActivityLinks(ctx, tx, org.ID, org.ActivityIDs()); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit organization update: %w", err)
	}

	return nil
}

// DeleteOrganization removes an organization. Phones and activity links
// cascade at the schema level.
func (r *Repository) DeleteOrganization(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrOrganizationNotFound
	}

	return nil
}

// GetOrganizationByID retrieves a fully hydrated organization.
func (r *Repository) GetOrganizationByID(ctx context.Context, id string) (*model.Organization, error) {
	query := `
		SELECT id, name, building_id, created_at, updated_at
		FROM organizations
		WHERE id = $1
	`

	var org model.Organization
	err := r.pool.QueryRow(ctx, query, id).Scan(&org.ID, &org.Name, &org.BuildingID, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization by ID: %w", err)
	}

	if err := r.hydrateOrganizations(ctx, []*model.Organization{&org}); err != nil {
		return nil, err
	}

	return &org, nil
}

// ListOrganizationsByBuilding retrieves all organizations located in a
// building, hydrated.
func (r *Repository) ListOrganizationsByBuilding(ctx context.Context, buildingID string) ([]*model.Organization, error) {
	query := `
		SELECT id, name, building_id, created_at, updated_at
		FROM organizations
		WHERE building_id = $1
		ORDER BY created_at, id
	`

	return r.queryOrganizations(ctx, query, buildingID)
}

// ListOrganizationsByBuildingIDs retrieves organizations located in any
// of the given buildings, hydrated.
func (r *Repository) ListOrganizationsByBuildingIDs(ctx context.Context, buildingIDs []string) ([]*model.Organization, error) {
	if len(buildingIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, name, building_id, created_at, updated_at
		FROM organizations
		WHERE building_id = ANY($1)
		ORDER BY created_at, id
	`

	return r.queryOrganizations(ctx, query, buildingIDs)
}

// ListOrganizationsByActivityIDs retrieves organizations linked to any
// of the given activities, hydrated. Each organization appears once.
func (r *Repository) ListOrganizationsByActivityIDs(ctx context.Context, activityIDs []string) ([]*model.Organization, error) {
	if len(activityIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT DISTINCT o.id, o.name, o.building_id, o.created_at, o.updated_at
		FROM organizations o
		JOIN organization_activities oa ON oa.organization_id = o.id
		WHERE oa.activity_id = ANY($1)
		ORDER BY o.created_at, o.id
	`

	return r.queryOrganizations(ctx, query, activityIDs)
}

// SearchOrganizationsByName retrieves organizations whose name contains
// the given substring, case-insensitively.
func (r *Repository) SearchOrganizationsByName(ctx context.Context, name string) ([]*model.Organization, error) {
	query := `
		SELECT id, name, building_id, created_at, updated_at
		FROM organizations
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY created_at, id
	`

	return r.queryOrganizations(ctx, query, name)
}

// queryOrganizations runs an organization query and hydrates the result.
func (r *Repository) queryOrganizations(ctx context.Context, query string, args ...any) ([]*model.Organization, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query organizations: %w", err)
	}
	defer rows.Close()

	var orgs []*model.Organization
	for rows.Next() {
		var org model.Organization
		if err := rows.Scan(&org.ID, &org.Name, &org.BuildingID, &org.CreatedAt, &org.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		orgs = append(orgs, &org)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating organizations: %w", err)
	}

	if err := r.hydrateOrganizations(ctx, orgs); err != nil {
		return nil, err
	}

	return orgs, nil
}

// hydrateOrganizations batch-loads phones, activities and buildings for
// the given organizations. Three queries total, regardless of result
// size.
func (r *Repository) hydrateOrganizations(ctx context.Context, orgs []*model.Organization) error {
	if len(orgs) == 0 {
		return nil
	}

	byID := make(map[string]*model.Organization, len(orgs))
	orgIDs := make([]string, 0, len(orgs))
	buildingIDSet := make(map[string]struct{})
	for _, org := range orgs {
		org.Phones = []model.Phone{}
		org.Activities = []*model.Activity{}
		byID[org.ID] = org
		orgIDs = append(orgIDs, org.ID)
		buildingIDSet[org.BuildingID] = struct{}{}
	}

	// Phones
	phoneQuery := `
		SELECT id, number, organization_id
		FROM phones
		WHERE organization_id = ANY($1)
		ORDER BY id
	`
	phoneRows, err := r.pool.Query(ctx, phoneQuery, orgIDs)
	if err != nil {
		return fmt.Errorf("failed to load phones: %w", err)
	}
	defer phoneRows.Close()

	for phoneRows.Next() {
		var p model.Phone
		if err := phoneRows.Scan(&p.ID, &p.Number, &p.OrganizationID); err != nil {
			return fmt.Errorf("failed to scan phone: %w", err)
		}
		if org, ok := byID[p.OrganizationID]; ok {
			org.Phones = append(org.Phones, p)
		}
	}
	if err := phoneRows.Err(); err != nil {
		return fmt.Errorf("error iterating phones: %w", err)
	}

	// Activities
	activityQuery := `
		SELECT oa.organization_id, a.id, a.name, a.parent_id, a.level, a.created_at
		FROM organization_activities oa
		JOIN activities a ON a.id = oa.activity_id
		WHERE oa.organization_id = ANY($1)
		ORDER BY a.level, a.created_at, a.id
	`
	activityRows, err := r.pool.Query(ctx, activityQuery, orgIDs)
	if err != nil {
		return fmt.Errorf("failed to load organization activities: %w", err)
	}
	defer activityRows.Close()

	for activityRows.Next() {
		var orgID string
		var a model.Activity
		if err := activityRows.Scan(&orgID, &a.ID, &a.Name, &a.ParentID, &a.Level, &a.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan organization activity: %w", err)
		}
		if org, ok := byID[orgID]; ok {
			org.Activities = append(org.Activities, &a)
		}
	}
	if err := activityRows.Err(); err != nil {
		return fmt.Errorf("error iterating organization activities: %w", err)
	}

	// Buildings
	buildingIDs := make([]string, 0, len(buildingIDSet))
	for id := range buildingIDSet {
		buildingIDs = append(buildingIDs, id)
	}

	buildingQuery := `
		SELECT id, address, latitude, longitude, created_at, updated_at
		FROM buildings
		WHERE id = ANY($1)
	`
	buildingRows, err := r.pool.Query(ctx, buildingQuery, buildingIDs)
	if err != nil {
		return fmt.Errorf("failed to load buildings: %w", err)
	}
	defer buildingRows.Close()

	buildings := make(map[string]*model.Building, len(buildingIDs))
	for buildingRows.Next() {
		var b model.Building
		if err := buildingRows.Scan(&b.ID, &b.Address, &b.Latitude, &b.Longitude, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan building: %w", err)
		}
		buildings[b.ID] = &b
	}
	if err := buildingRows.Err(); err != nil {
		return fmt.Errorf("error iterating buildings: %w", err)
	}

	for _, org := range orgs {
		org.Building = buildings[org.BuildingID]
	}

	return nil
}

// insertPhones inserts phone rows for an organization inside a transaction.
func insertPhones(ctx context.Context, tx pgx.Tx, orgID string, phones []model.Phone) error {
	for _, p := range phones {
		_, err := tx.Exec(ctx,
			`INSERT INTO phones (id, number, organization_id) VALUES ($1, $2, $3)`,
			p.ID, p.Number, orgID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert phone: %w", err)
		}
	}
	return nil
}

// insertActivityLinks inserts join rows for an organization inside a
// transaction.
func insertActivityLinks(ctx context.Context, tx pgx.Tx, orgID string, activityIDs []string) error {
	for _, activityID := range activityIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO organization_activities (organization_id, activity_id) VALUES ($1, $2)`,
			orgID, activityID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert activity link: %w", err)
		}
	}
	return nil
}
