package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/orgcatalog/orgcatalog/internal/auth"
	"github.com/orgcatalog/orgcatalog/internal/metrics"
	"github.com/orgcatalog/orgcatalog/internal/model"
	"github.com/orgcatalog/orgcatalog/internal/repository"
)

// API key service errors.
var (
	ErrInvalidScope    = errors.New("invalid scope")
	ErrInvalidTier     = errors.New("invalid rate limit tier")
	ErrAPIKeyNotFound  = errors.New("API key not found")
	ErrKeyNameRequired = errors.New("key name is required")
)

const maxKeyNameLength = 128

// APIKeyService handles API key lifecycle.
type APIKeyService struct {
	repo    *repository.Repository
	metrics metrics.Recorder
}

// NewAPIKeyService creates a new APIKeyService.
func NewAPIKeyService(repo *repository.Repository, recorder metrics.Recorder) *APIKeyService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &APIKeyService{
		repo:    repo,
		metrics: recorder,
	}
}

// CreateAPIKeyInput defines input for creating an API key.
type CreateAPIKeyInput struct {
	Name   string
	Scopes []string
	Tier   string
	Env    string
}

// CreateAPIKey generates and stores a new API key.
// The plaintext key is returned once and never stored.
func (s *APIKeyService) CreateAPIKey(ctx context.Context, input CreateAPIKeyInput) (*model.APIKey, string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > maxKeyNameLength {
		return nil, "", ErrKeyNameRequired
	}

	scopes := input.Scopes
	if len(scopes) == 0 {
		scopes = []string{model.ScopeRead}
	}
	for _, scope := range scopes {
		if !slices.Contains(model.ValidScopes, scope) {
			return nil, "", ErrInvalidScope
		}
	}

	tier := input.Tier
	if tier == "" {
		tier = model.TierFree
	}
	if _, ok := model.TierConfigs[tier]; !ok {
		return nil, "", ErrInvalidTier
	}

	generated, err := auth.GenerateAPIKey(input.Env)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate API key: %w", err)
	}

	key := &model.APIKey{
		ID:            newID(),
		KeyHash:       generated.Hash,
		KeyPrefix:     generated.Prefix,
		Scopes:        scopes,
		RateLimitTier: tier,
		Name:          name,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.CreateAPIKey(ctx, key); err != nil {
		return nil, "", fmt.Errorf("failed to store API key: %w", err)
	}

	return key, generated.Plaintext, nil
}

// ListAPIKeys retrieves all API keys, newest first. Hashes are never
// included in the serialized form.
func (s *APIKeyService) ListAPIKeys(ctx context.Context) ([]*model.APIKey, error) {
	keys, err := s.repo.ListAPIKeys(ctx)
	if err != nil {
		return nil, err
	}

	if keys == nil {
		keys = []*model.APIKey{}
	}

	return keys, nil
}

// RevokeAPIKey revokes an API key. Cached auth contexts expire on their
// own TTL, so revocation takes effect within a few minutes at most.
func (s *APIKeyService) RevokeAPIKey(ctx context.Context, id string) error {
	if err := s.repo.RevokeAPIKey(ctx, id); err != nil {
		if errors.Is(err, repository.ErrAPIKeyNotFound) {
			return ErrAPIKeyNotFound
		}
		return err
	}

	return nil
}
