package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/orgcatalog/orgcatalog/internal/model"
)

// Common errors for activity repository operations.
var (
	ErrActivityNotFound = errors.New("activity not found")
)

// CreateActivity inserts a new activity into the database.
// Level must already be computed and validated by the caller.
func (r *Repository) CreateActivity(ctx context.Context, activity *model.Activity) error {
	query := `
		INSERT INTO activities (id, name, parent_id, level, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		activity.ID,
		activity.Name,
		activity.ParentID,
		activity.Level,
		activity.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}

	return nil
}

// GetActivityByID retrieves an activity by its ID.
func (r *Repository) GetActivityByID(ctx context.Context, id string) (*model.Activity, error) {
	query := `
		SELECT id, name, parent_id, level, created_at
		FROM activities
		WHERE id = $1
	`

	var a model.Activity
	err := r.pool.QueryRow(ctx, query, id).Scan(&a.ID, &a.Name, &a.ParentID, &a.Level, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to get activity by ID: %w", err)
	}

	return &a, nil
}

// ListActivities retrieves all activities ordered parents-first, so the
// result can be assembled into a tree in one pass.
func (r *Repository) ListActivities(ctx context.Context) ([]*model.Activity, error) {
	query := `
		SELECT id, name, parent_id, level, created_at
		FROM activities
		ORDER BY level, created_at, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	return collectActivities(rows)
}

// GetActivitySubtreeIDs returns the IDs of the activity and all of its
// descendants. The recursion is bounded by the tree depth limit as a
// guard against cycles in corrupted data.
func (r *Repository) GetActivitySubtreeIDs(ctx context.Context, rootID string) ([]string, error) {
	query := `
		WITH RECURSIVE subtree AS (
			SELECT id, 0 AS depth
			FROM activities
			WHERE id = $1
			UNION ALL
			SELECT a.id, s.depth + 1
			FROM activities a
			JOIN subtree s ON a.parent_id = s.id
			WHERE s.depth < $2
		)
		SELECT id FROM subtree
	`

	rows, err := r.pool.Query(ctx, query, rootID, model.MaxActivityDepth)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity subtree: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan activity ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity subtree: %w", err)
	}

	return ids, nil
}

// ListActivitiesByIDs retrieves activities matching the given IDs.
func (r *Repository) ListActivitiesByIDs(ctx context.Context, ids []string) ([]*model.Activity, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, name, parent_id, level, created_at
		FROM activities
		WHERE id = ANY($1)
		ORDER BY level, created_at, id
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities by IDs: %w", err)
	}
	defer rows.Close()

	return collectActivities(rows)
}

// collectActivities drains rows into Activity models.
func collectActivities(rows pgx.Rows) ([]*model.Activity, error) {
	var activities []*model.Activity
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(&a.ID, &a.Name, &a.ParentID, &a.Level, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activities: %w", err)
	}

	return activities, nil
}
