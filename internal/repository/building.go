package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/orgcatalog/orgcatalog/internal/geo"
	"github.com/orgcatalog/orgcatalog/internal/model"
)

// Common errors for building repository operations.
var (
	ErrBuildingNotFound = errors.New("building not found")
)

// CreateBuilding inserts a new building into the database.
func (r *Repository) CreateBuilding(ctx context.Context, building *model.Building) error {
	query := `
		INSERT INTO buildings (id, address, latitude, longitude, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		building.ID,
		building.Address,
		building.Latitude,
		building.Longitude,
		building.CreatedAt,
		building.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create building: %w", err)
	}

	return nil
}

// GetBuildingByID retrieves a building by its ID.
func (r *Repository) GetBuildingByID(ctx context.Context, id string) (*model.Building, error) {
	query := `
		SELECT id, address, latitude, longitude, created_at, updated_at
		FROM buildings
		WHERE id = $1
	`

	building, err := scanBuilding(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBuildingNotFound
		}
		return nil, fmt.Errorf("failed to get building by ID: %w", err)
	}

	return building, nil
}

// ListBuildings retrieves buildings with offset/limit pagination,
// oldest first.
func (r *Repository) ListBuildings(ctx context.Context, skip, limit int) ([]*model.Building, error) {
	query := `
		SELECT id, address, latitude, longitude, created_at, updated_at
		FROM buildings
		ORDER BY created_at, id
		OFFSET $1 LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list buildings: %w", err)
	}
	defer rows.Close()

	return collectBuildings(rows)
}

// ListBuildingsInBBox retrieves buildings whose coordinates fall inside
// the bounding box (inclusive). A wrapped box (MinLon > MaxLon) matches
// the split longitude range on both sides of the antimeridian.
func (r *Repository) ListBuildingsInBBox(ctx context.Context, box geo.BBox) ([]*model.Building, error) {
	lonCond := `longitude >= $3 AND longitude <= $4`
	if box.WrapsLon() {
		lonCond = `(longitude >= $3 OR longitude <= $4)`
	}

	query := `
		SELECT id, address, latitude, longitude, created_at, updated_at
		FROM buildings
		WHERE latitude >= $1 AND latitude <= $2
		  AND ` + lonCond

	rows, err := r.pool.Query(ctx, query, box.MinLat, box.MaxLat, box.MinLon, box.MaxLon)
	if err != nil {
		return nil, fmt.Errorf("failed to list buildings in bbox: %w", err)
	}
	defer rows.Close()

	return collectBuildings(rows)
}

// BuildingExists checks if a building with the given ID exists.
func (r *Repository) BuildingExists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM buildings WHERE id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check building existence: %w", err)
	}

	return exists, nil
}

// scanBuilding scans a single row into a Building model.
func scanBuilding(row pgx.Row) (*model.Building, error) {
	var b model.Building
	err := row.Scan(
		&b.ID,
		&b.Address,
		&b.Latitude,
		&b.Longitude,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return &b, err
}

// collectBuildings drains rows into Building models.
func collectBuildings(rows pgx.Rows) ([]*model.Building, error) {
	var buildings []*model.Building
	for rows.Next() {
		var b model.Building
		if err := rows.Scan(&b.ID, &b.Address, &b.Latitude, &b.Longitude, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan building: %w", err)
		}
		buildings = append(buildings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating buildings: %w", err)
	}

	return buildings, nil
}
