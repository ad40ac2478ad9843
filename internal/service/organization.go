package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/orgcatalog/orgcatalog/internal/cache"
	"github.com/orgcatalog/orgcatalog/internal/geo"
	"github.com/orgcatalog/orgcatalog/internal/metrics"
	"github.com/orgcatalog/orgcatalog/internal/model"
	"github.com/orgcatalog/orgcatalog/internal/repository"
)

// Organization service errors.
var (
	ErrNameRequired         = errors.New("organization name is required")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrInvalidPhone         = errors.New("phone number is invalid")
	ErrInvalidRadius        = errors.New("radius must be positive")
	ErrRadiusTooLarge       = errors.New("radius exceeds the maximum allowed")
	ErrInvalidBoundingBox   = errors.New("bounding box is invalid")
	ErrNoOrganizationsFound = errors.New("no organizations found")
)

const (
	maxOrgNameLength = 256
	maxPhoneLength   = 32
)

// Search kinds reported to metrics.
const (
	searchKindBuilding = "building"
	searchKindActivity = "activity"
	searchKindRadius   = "radius"
	searchKindBBox     = "bbox"
	searchKindName     = "name"
)

// OrganizationService handles organization business logic, including the
// search endpoints.
type OrganizationService struct {
	repo        *repository.Repository
	cache       *cache.Cache
	metrics     metrics.Recorder
	maxRadiusKM float64
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(repo *repository.Repository, cache *cache.Cache, maxRadiusKM float64, recorder metrics.Recorder) *OrganizationService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &OrganizationService{
		repo:        repo,
		cache:       cache,
		metrics:     recorder,
		maxRadiusKM: maxRadiusKM,
	}
}

// CreateOrganizationInput defines input for creating an organization.
type CreateOrganizationInput struct {
	Name        string
	BuildingID  string
	Phones      []string
	ActivityIDs []string
}

// CreateOrganization creates a new organization with its phones and
// activity links.
func (s *OrganizationService) CreateOrganization(ctx context.Context, input CreateOrganizationInput) (*model.Organization, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > maxOrgNameLength {
		return nil, ErrNameRequired
	}

	if err := s.validateBuilding(ctx, input.BuildingID); err != nil {
		return nil, err
	}

	phones, err := buildPhones(input.Phones)
	if err != nil {
		return nil, err
	}

	activities, err := s.resolveActivities(ctx, input.ActivityIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	org := &model.Organization{
		ID:         newID(),
		Name:       name,
		BuildingID: input.BuildingID,
		Phones:     phones,
		Activities: activities,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.CreateOrganization(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	s.metrics.IncOrganizationCreated()

	// Invalidate any cache entry for this ID, as update and delete do.
	if err := s.cache.DeleteOrganization(ctx, org.ID); err != nil {
		_ = err
	}

	// Return the hydrated view so the response matches later reads.
	return s.repo.GetOrganizationByID(ctx, org.ID)
}

// UpdateOrganizationInput defines input for updating an organization.
// Nil fields are left unchanged; non-nil phone and activity lists are
// replaced wholesale.
type UpdateOrganizationInput struct {
	ID          string
	Name        *string
	BuildingID  *string
	Phones      *[]string
	ActivityIDs *[]string
}

// UpdateOrganization updates an organization's mutable fields.
func (s *OrganizationService) UpdateOrganization(ctx context.Context, input UpdateOrganizationInput) (*model.Organization, error) {
	org, err := s.repo.GetOrganizationByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, repository.ErrOrganizationNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" || len(name) > maxOrgNameLength {
			return nil, ErrNameRequired
		}
		org.Name = name
	}

	if input.BuildingID != nil {
		if err := s.validateBuilding(ctx, *input.BuildingID); err != nil {
			return nil, err
		}
		org.BuildingID = *input.BuildingID
	}

	if input.Phones != nil {
		phones, err := buildPhones(*input.Phones)
		if err != nil {
			return nil, err
		}
		org.Phones = phones
	}

	if input.ActivityIDs != nil {
		activities, err := s.resolveActivities(ctx, *input.ActivityIDs)
		if err != nil {
			return nil, err
		}
		org.Activities = activities
	}

	org.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateOrganization(ctx, org); err != nil {
		if errors.Is(err, repository.ErrOrganizationNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}

	s.metrics.IncOrganizationUpdated()

	// Invalidate cache. Eventual consistency is acceptable here.
	if err := s.cache.DeleteOrganization(ctx, org.ID); err != nil {
		_ = err
	}

	return s.repo.GetOrganizationByID(ctx, org.ID)
}

// DeleteOrganization removes an organization. Phones and activity links
// are removed with it.
func (s *OrganizationService) DeleteOrganization(ctx context.Context, id string) error {
	if err := s.repo.DeleteOrganization(ctx, id); err != nil {
		if errors.Is(err, repository.ErrOrganizationNotFound) {
			return ErrOrganizationNotFound
		}
		return err
	}

	s.metrics.IncOrganizationDeleted()

	if err := s.cache.DeleteOrganization(ctx, id); err != nil {
		_ = err
	}

	return nil
}

// GetOrganization retrieves an organization by ID.
// This is the hot path - cache-first lookup with negative caching for
// repeated misses.
func (s *OrganizationService) GetOrganization(ctx context.Context, id string) (*model.Organization, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveLookupDuration(time.Since(start))
	}()

	// Step 1: Try cache
	cached, err := s.cache.GetOrganization(ctx, id)
	if err == nil {
		s.metrics.IncOrgCacheHit()
		return cached, nil
	}

	s.metrics.IncOrgCacheMiss()

	// Step 2: Check negative cache
	isNegative, _ := s.cache.IsNegativelyCached(ctx, id)
	if isNegative {
		return nil, ErrOrganizationNotFound
	}

	// Step 3: DB lookup
	org, err := s.repo.GetOrganizationByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrganizationNotFound) {
			_ = s.cache.SetNegativeCache(ctx, id)
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}

	// Step 4: Backfill cache
	if err := s.cache.SetOrganization(ctx, org); err != nil {
		_ = err
	}

	return org, nil
}

// SearchByBuilding retrieves all organizations located in a building.
// Returns ErrBuildingNotFound for an unknown building and
// ErrNoOrganizationsFound when the building is empty.
func (s *OrganizationService) SearchByBuilding(ctx context.Context, buildingID string) ([]*model.Organization, error) {
	defer s.observeSearch(searchKindBuilding, time.Now())

	exists, err := s.repo.BuildingExists(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrBuildingNotFound
	}

	orgs, err := s.repo.ListOrganizationsByBuilding(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	if len(orgs) == 0 {
		return nil, ErrNoOrganizationsFound
	}

	return orgs, nil
}

// SearchByActivity retrieves organizations linked to an activity or any
// of its descendants. Returns ErrActivityNotFound for an unknown
// activity and ErrNoOrganizationsFound when nothing matches.
func (s *OrganizationService) SearchByActivity(ctx context.Context, activityID string) ([]*model.Organization, error) {
	defer s.observeSearch(searchKindActivity, time.Now())

	if _, err := s.repo.GetActivityByID(ctx, activityID); err != nil {
		if errors.Is(err, repository.ErrActivityNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}

	subtreeIDs, err := s.repo.GetActivitySubtreeIDs(ctx, activityID)
	if err != nil {
		return nil, err
	}

	orgs, err := s.repo.ListOrganizationsByActivityIDs(ctx, subtreeIDs)
	if err != nil {
		return nil, err
	}
	if len(orgs) == 0 {
		return nil, ErrNoOrganizationsFound
	}

	return orgs, nil
}

// SearchByRadius retrieves organizations in buildings within radiusKM of
// the center point. Candidates are prefiltered with a bounding box in
// SQL, then refined with the exact great-circle distance.
func (s *OrganizationService) SearchByRadius(ctx context.Context, center geo.Point, radiusKM float64) ([]*model.Organization, error) {
	defer s.observeSearch(searchKindRadius, time.Now())

	if !validPoint(center) {
		return nil, ErrInvalidCoordinates
	}
	if radiusKM <= 0 {
		return nil, ErrInvalidRadius
	}
	if s.maxRadiusKM > 0 && radiusKM > s.maxRadiusKM {
		return nil, ErrRadiusTooLarge
	}

	box := geo.BoundingBox(center, radiusKM)
	candidates, err := s.repo.ListBuildingsInBBox(ctx, box)
	if err != nil {
		return nil, err
	}

	var buildingIDs []string
	for _, b := range candidates {
		p := geo.Point{Latitude: b.Latitude, Longitude: b.Longitude}
		if geo.DistanceKM(center, p) <= radiusKM {
			buildingIDs = append(buildingIDs, b.ID)
		}
	}

	orgs, err := s.repo.ListOrganizationsByBuildingIDs(ctx, buildingIDs)
	if err != nil {
		return nil, err
	}
	if orgs == nil {
		orgs = []*model.Organization{}
	}

	return orgs, nil
}

// SearchByBBox retrieves organizations in buildings inside the bounding
// box.
func (s *OrganizationService) SearchByBBox(ctx context.Context, box geo.BBox) ([]*model.Organization, error) {
	defer s.observeSearch(searchKindBBox, time.Now())

	if !box.IsValid() {
		return nil, ErrInvalidBoundingBox
	}

	buildings, err := s.repo.ListBuildingsInBBox(ctx, box)
	if err != nil {
		return nil, err
	}

	buildingIDs := make([]string, 0, len(buildings))
	for _, b := range buildings {
		buildingIDs = append(buildingIDs, b.ID)
	}

	orgs, err := s.repo.ListOrganizationsByBuildingIDs(ctx, buildingIDs)
	if err != nil {
		return nil, err
	}
	if orgs == nil {
		orgs = []*model.Organization{}
	}

	return orgs, nil
}

// SearchByName retrieves organizations whose name contains the given
// substring, case-insensitively.
func (s *OrganizationService) SearchByName(ctx context.Context, name string) ([]*model.Organization, error) {
	defer s.observeSearch(searchKindName, time.Now())

	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxOrgNameLength {
		return nil, ErrNameRequired
	}

	orgs, err := s.repo.SearchOrganizationsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if orgs == nil {
		orgs = []*model.Organization{}
	}

	return orgs, nil
}

// observeSearch records search metrics. Meant to be deferred with the
// call start time.
func (s *OrganizationService) observeSearch(kind string, start time.Time) {
	s.metrics.IncSearch(kind)
	s.metrics.ObserveSearchDuration(time.Since(start))
}

// validateBuilding checks the referenced building exists.
func (s *OrganizationService) validateBuilding(ctx context.Context, buildingID string) error {
	if buildingID == "" {
		return ErrBuildingNotFound
	}

	exists, err := s.repo.BuildingExists(ctx, buildingID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrBuildingNotFound
	}

	return nil
}

// resolveActivities loads and validates the referenced activities.
// Duplicate IDs collapse to one link.
func (s *OrganizationService) resolveActivities(ctx context.Context, ids []string) ([]*model.Activity, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	if len(unique) == 0 {
		return []*model.Activity{}, nil
	}

	activities, err := s.repo.ListActivitiesByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(activities) != len(unique) {
		return nil, ErrActivityNotFound
	}

	return activities, nil
}

// buildPhones validates raw phone numbers and assigns IDs.
func buildPhones(numbers []string) ([]model.Phone, error) {
	phones := make([]model.Phone, 0, len(numbers))
	for _, raw := range numbers {
		number := strings.TrimSpace(raw)
		if number == "" || len(number) > maxPhoneLength {
			return nil, ErrInvalidPhone
		}
		phones = append(phones, model.Phone{
			ID:     newID(),
			Number: number,
		})
	}
	return phones, nil
}

// validPoint reports whether the point's coordinates are in range.
func validPoint(p geo.Point) bool {
	return p.Latitude >= model.MinLatitude && p.Latitude <= model.MaxLatitude &&
		p.Longitude >= model.MinLongitude && p.Longitude <= model.MaxLongitude
}
