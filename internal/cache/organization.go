package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/orgcatalog/orgcatalog/internal/model"
)

// Cache key prefixes and TTLs.
const (
	orgKeyPrefix      = "org:"
	negCacheKeySuffix = ":neg"

	// DefaultOrgTTL is the TTL for cached organization data.
	DefaultOrgTTL = 1 * time.Hour

	// NegativeCacheTTL is the TTL for negative cache entries.
	NegativeCacheTTL = 5 * time.Minute
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// GetOrganization retrieves a hydrated organization from cache by ID.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetOrganization(ctx context.Context, id string) (*model.Organization, error) {
	key := orgKeyPrefix + id

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, ErrCacheMiss
	}

	var org model.Organization
	if err := json.Unmarshal(data, &org); err != nil {
		// Corrupted entry - drop it and treat as miss
		c.client.Del(ctx, key)
		return nil, ErrCacheMiss
	}

	return &org, nil
}

// SetOrganization stores a hydrated organization in cache.
func (c *Cache) SetOrganization(ctx context.Context, org *model.Organization) error {
	key := orgKeyPrefix + org.ID

	data, err := json.Marshal(org)
	if err != nil {
		return fmt.Errorf("marshal organization: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, data, DefaultOrgTTL)
	pipe.Del(ctx, key+negCacheKeySuffix)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache organization: %w", err)
	}

	return nil
}

// DeleteOrganization removes an organization from cache.
func (c *Cache) DeleteOrganization(ctx context.Context, id string) error {
	key := orgKeyPrefix + id

	pipe := c.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.Del(ctx, key+negCacheKeySuffix)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete organization from cache: %w", err)
	}

	return nil
}

// IsNegativelyCached checks if an organization ID is in negative cache.
func (c *Cache) IsNegativelyCached(ctx context.Context, id string) (bool, error) {
	key := orgKeyPrefix + id + negCacheKeySuffix

	exists, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check negative cache: %w", err)
	}

	return exists > 0, nil
}

// SetNegativeCache marks an organization ID as not found.
func (c *Cache) SetNegativeCache(ctx context.Context, id string) error {
	key := orgKeyPrefix + id + negCacheKeySuffix

	err := c.client.SetEx(ctx, key, "", NegativeCacheTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to set negative cache: %w", err)
	}

	return nil
}
