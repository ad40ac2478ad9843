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

// Building service errors.
var (
	ErrAddressRequired    = errors.New("address is required")
	ErrInvalidCoordinates = errors.New("coordinates out of range")
	ErrBuildingNotFound   = errors.New("building not found")
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
	maxAddressLength = 512
)

// BuildingService handles building business logic.
type BuildingService struct {
	repo    *repository.Repository
	metrics metrics.Recorder
}

// NewBuildingService creates a new BuildingService.
func NewBuildingService(repo *repository.Repository, recorder metrics.Recorder) *BuildingService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &BuildingService{
		repo:    repo,
		metrics: recorder,
	}
}

// CreateBuildingInput defines input for creating a building.
type CreateBuildingInput struct {
	Address   string
	Latitude  float64
	Longitude float64
}

// CreateBuilding creates a new building.
func (s *BuildingService) CreateBuilding(ctx context.Context, input CreateBuildingInput) (*model.Building, error) {
	address := strings.TrimSpace(input.Address)
	if address == "" || len(address) > maxAddressLength {
		return nil, ErrAddressRequired
	}

	now := time.Now().UTC()
	building := &model.Building{
		ID:        newID(),
		Address:   address,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if !building.HasValidCoordinates() {
		return nil, ErrInvalidCoordinates
	}

	if err := s.repo.CreateBuilding(ctx, building); err != nil {
		return nil, fmt.Errorf("failed to create building: %w", err)
	}

	s.metrics.IncBuildingCreated()

	return building, nil
}

// GetBuilding retrieves a building by ID.
func (s *BuildingService) GetBuilding(ctx context.Context, id string) (*model.Building, error) {
	building, err := s.repo.GetBuildingByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBuildingNotFound) {
			return nil, ErrBuildingNotFound
		}
		return nil, err
	}

	return building, nil
}

// ListBuildings retrieves buildings with offset/limit pagination.
// Out-of-range values are clamped rather than rejected.
func (s *BuildingService) ListBuildings(ctx context.Context, skip, limit int) ([]*model.Building, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	buildings, err := s.repo.ListBuildings(ctx, skip, limit)
	if err != nil {
		return nil, err
	}

	if buildings == nil {
		buildings = []*model.Building{}
	}

	return buildings, nil
}
