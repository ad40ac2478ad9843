package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/orgcatalog/orgcatalog/internal/metrics"
	"github.com/orgcatalog/orgcatalog/internal/model"
	"github.com/orgcatalog/orgcatalog/internal/repository"
)

// Activity service errors.
var (
	ErrActivityNameRequired   = errors.New("activity name is required")
	ErrActivityNotFound       = errors.New("activity not found")
	ErrParentActivityNotFound = errors.New("parent activity not found")
	ErrActivityTooDeep        = errors.New("activity tree depth limit exceeded")
)

const maxActivityNameLength = 256

// ActivityService handles activity tree business logic.
type ActivityService struct {
	repo    *repository.Repository
	metrics metrics.Recorder
}

// NewActivityService creates a new ActivityService.
func NewActivityService(repo *repository.Repository, recorder metrics.Recorder) *ActivityService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ActivityService{
		repo:    repo,
		metrics: recorder,
	}
}

// CreateActivityInput defines input for creating an activity.
type CreateActivityInput struct {
	Name     string
	ParentID *string
}

// CreateActivity creates a new activity. The level is derived from the
// parent, and creation is rejected when it would exceed the depth limit.
func (s *ActivityService) CreateActivity(ctx context.Context, input CreateActivityInput) (*model.Activity, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > maxActivityNameLength {
		return nil, ErrActivityNameRequired
	}

	level := 0
	var parentID *string

	if input.ParentID != nil && *input.ParentID != "" {
		parent, err := s.repo.GetActivityByID(ctx, *input.ParentID)
		if err != nil {
			if errors.Is(err, repository.ErrActivityNotFound) {
				return nil, ErrParentActivityNotFound
			}
			return nil, err
		}

		if !parent.CanHaveChildren() {
			return nil, ErrActivityTooDeep
		}

		level = parent.Level + 1
		parentID = &parent.ID
	}

	activity := &model.Activity{
		ID:        newID(),
		Name:      name,
		ParentID:  parentID,
		Level:     level,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateActivity(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}

	s.metrics.IncActivityCreated()

	return activity, nil
}

// GetActivity retrieves an activity by ID.
func (s *ActivityService) GetActivity(ctx context.Context, id string) (*model.Activity, error) {
	activity, err := s.repo.GetActivityByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrActivityNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}

	return activity, nil
}

// GetActivityTree retrieves all activities assembled into a forest of
// root activities with nested children.
func (s *ActivityService) GetActivityTree(ctx context.Context) ([]*model.Activity, error) {
	flat, err := s.repo.ListActivities(ctx)
	if err != nil {
		return nil, err
	}

	tree := model.BuildActivityTree(flat)
	if tree == nil {
		tree = []*model.Activity{}
	}

	return tree, nil
}
