// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/orgcatalog/orgcatalog/internal/model"
)

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// CreateBuildingRequest represents the request body for creating a building.
type CreateBuildingRequest struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// BuildingResponse represents a building in API responses.
type BuildingResponse struct {
	ID        string    `json:"id"`
	Address   string    `json:"address"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BuildingListResponse represents a list of buildings.
type BuildingListResponse struct {
	Data []BuildingResponse `json:"data"`
}

// CreateActivityRequest represents the request body for creating an activity.
type CreateActivityRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"`
}

// ActivityResponse represents an activity in API responses.
// Children is populated for tree responses and omitted elsewhere.
type ActivityResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	ParentID  *string            `json:"parent_id,omitempty"`
	Level     int                `json:"level"`
	Children  []ActivityResponse `json:"children,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// ActivityTreeResponse represents the full activity forest.
type ActivityTreeResponse struct {
	Data []ActivityResponse `json:"data"`
}

// CreateOrganizationRequest represents the request body for creating an
// organization.
type CreateOrganizationRequest struct {
	Name        string   `json:"name"`
	BuildingID  string   `json:"building_id"`
	Phones      []string `json:"phone_numbers,omitempty"`
	ActivityIDs []string `json:"activity_ids,omitempty"`
}

// UpdateOrganizationRequest represents the request body for updating an
// organization. Omitted fields are left unchanged.
type UpdateOrganizationRequest struct {
	Name        *string   `json:"name,omitempty"`
	BuildingID  *string   `json:"building_id,omitempty"`
	Phones      *[]string `json:"phone_numbers,omitempty"`
	ActivityIDs *[]string `json:"activity_ids,omitempty"`
}

// OrganizationResponse represents an organization in API responses.
type OrganizationResponse struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	BuildingID string             `json:"building_id"`
	Building   *BuildingResponse  `json:"building,omitempty"`
	Phones     []string           `json:"phones"`
	Activities []ActivityResponse `json:"activities"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// OrganizationListResponse represents a list of organizations.
type OrganizationListResponse struct {
	Data []OrganizationResponse `json:"data"`
}

// CreateAPIKeyRequest represents the request body for creating an API key.
type CreateAPIKeyRequest struct {
	Name   string   `json:"name"`
	Scopes []string `json:"scopes,omitempty"`
	Tier   string   `json:"tier,omitempty"`
	Env    string   `json:"env,omitempty"`
}

// APIKeyResponse represents an API key in API responses.
// The hash is never exposed.
type APIKeyResponse struct {
	ID            string     `json:"id"`
	KeyPrefix     string     `json:"key_prefix"`
	Scopes        []string   `json:"scopes"`
	RateLimitTier string     `json:"rate_limit_tier"`
	Name          string     `json:"name,omitempty"`
	RevokedAt     *time.Time `json:"revoked_at,omitempty"`
	LastUsedAt    *time.Time `json:"last_used_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// CreateAPIKeyResponse includes the plaintext key, shown exactly once.
type CreateAPIKeyResponse struct {
	APIKeyResponse
	Key string `json:"key"`
}

// APIKeyListResponse represents a list of API keys.
type APIKeyListResponse struct {
	Data []APIKeyResponse `json:"data"`
}

// ToBuildingResponse converts a Building model to BuildingResponse DTO.
func ToBuildingResponse(b *model.Building) *BuildingResponse {
	return &BuildingResponse{
		ID:        b.ID,
		Address:   b.Address,
		Latitude:  b.Latitude,
		Longitude: b.Longitude,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// ToBuildingListResponse converts a slice of Building models.
func ToBuildingListResponse(buildings []*model.Building) *BuildingListResponse {
	responses := make([]BuildingResponse, len(buildings))
	for i, b := range buildings {
		responses[i] = *ToBuildingResponse(b)
	}
	return &BuildingListResponse{Data: responses}
}

// ToActivityResponse converts an Activity model, including nested
// children.
func ToActivityResponse(a *model.Activity) *ActivityResponse {
	resp := &ActivityResponse{
		ID:        a.ID,
		Name:      a.Name,
		ParentID:  a.ParentID,
		Level:     a.Level,
		CreatedAt: a.CreatedAt,
	}
	for _, child := range a.Children {
		resp.Children = append(resp.Children, *ToActivityResponse(child))
	}
	return resp
}

// ToActivityTreeResponse converts an activity forest.
func ToActivityTreeResponse(roots []*model.Activity) *ActivityTreeResponse {
	responses := make([]ActivityResponse, len(roots))
	for i, a := range roots {
		responses[i] = *ToActivityResponse(a)
	}
	return &ActivityTreeResponse{Data: responses}
}

// ToOrganizationResponse converts an Organization model to its DTO.
func ToOrganizationResponse(org *model.Organization) *OrganizationResponse {
	resp := &OrganizationResponse{
		ID:         org.ID,
		Name:       org.Name,
		BuildingID: org.BuildingID,
		Phones:     org.PhoneNumbers(),
		Activities: make([]ActivityResponse, len(org.Activities)),
		CreatedAt:  org.CreatedAt,
		UpdatedAt:  org.UpdatedAt,
	}
	if org.Building != nil {
		resp.Building = ToBuildingResponse(org.Building)
	}
	for i, a := range org.Activities {
		resp.Activities[i] = *ToActivityResponse(a)
	}
	return resp
}

// ToOrganizationListResponse converts a slice of Organization models.
func ToOrganizationListResponse(orgs []*model.Organization) *OrganizationListResponse {
	responses := make([]OrganizationResponse, len(orgs))
	for i, org := range orgs {
		responses[i] = *ToOrganizationResponse(org)
	}
	return &OrganizationListResponse{Data: responses}
}

// ToAPIKeyResponse converts an APIKey model to its DTO.
func ToAPIKeyResponse(key *model.APIKey) *APIKeyResponse {
	return &APIKeyResponse{
		ID:            key.ID,
		KeyPrefix:     key.KeyPrefix,
		Scopes:        key.Scopes,
		RateLimitTier: key.RateLimitTier,
		Name:          key.Name,
		RevokedAt:     key.RevokedAt,
		LastUsedAt:    key.LastUsedAt,
		CreatedAt:     key.CreatedAt,
	}
}

// ToAPIKeyListResponse converts a slice of APIKey models.
func ToAPIKeyListResponse(keys []*model.APIKey) *APIKeyListResponse {
	responses := make([]APIKeyResponse, len(keys))
	for i, key := range keys {
		responses[i] = *ToAPIKeyResponse(key)
	}
	return &APIKeyListResponse{Data: responses}
}
