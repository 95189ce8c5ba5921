package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/serkuksov/NotesAPI/internal/model"
)

const (
	// identityCachePrefix is the Redis key prefix for the identity cache.
	identityCachePrefix = "auth:identity:"
	// identityCacheTTL is the time-to-live for cached identities.
	identityCacheTTL = 5 * time.Minute
)

// cachedIdentity is the Redis representation of a resolved identity.
type cachedIdentity struct {
	UserID      int64  `json:"user_id"`
	UserName    string `json:"user_name"`
	IsSuperuser bool   `json:"is_superuser"`
	TokenID     string `json:"token_id"`
}

// GetIdentity retrieves a cached identity by cache key.
// Returns nil if not found (cache miss).
func (c *Cache) GetIdentity(ctx context.Context, cacheKey string) (*model.Identity, error) {
	key := identityCachePrefix + cacheKey

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var cached cachedIdentity
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &model.Identity{
		UserID:      cached.UserID,
		UserName:    cached.UserName,
		IsSuperuser: cached.IsSuperuser,
		TokenID:     cached.TokenID,
	}, nil
}

// SetIdentity caches a resolved identity.
func (c *Cache) SetIdentity(ctx context.Context, cacheKey string, identity *model.Identity) error {
	key := identityCachePrefix + cacheKey

	cached := cachedIdentity{
		UserID:      identity.UserID,
		UserName:    identity.UserName,
		IsSuperuser: identity.IsSuperuser,
		TokenID:     identity.TokenID,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}

	return c.client.Set(ctx, key, data, identityCacheTTL).Err()
}

// DeleteIdentity removes a cached identity.
// Used when a token is revoked or a user is deactivated.
func (c *Cache) DeleteIdentity(ctx context.Context, cacheKey string) error {
	key := identityCachePrefix + cacheKey
	return c.client.Del(ctx, key).Err()
}
