package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taskdeck/taskdeck/internal/model"
)

// The public profile endpoint is the only unauthenticated read path, so
// it gets a read-through cache. Token validity is never cached; the
// authorization gate always hits Postgres.
const (
	profileKeyPrefix = "profile:"

	// DefaultProfileTTL is the TTL for cached public profiles.
	DefaultProfileTTL = 15 * time.Minute
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// ProfileKey builds the cache key for a user's public profile.
func ProfileKey(userID string) string {
	return profileKeyPrefix + userID
}

// GetProfile retrieves a cached public profile.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetProfile(ctx context.Context, userID string) (*model.PublicUser, error) {
	raw, err := c.client.Get(ctx, ProfileKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var profile model.PublicUser
	if err := json.Unmarshal(raw, &profile); err != nil {
		// Treat a corrupt entry as a miss; it will be overwritten.
		return nil, ErrCacheMiss
	}

	return &profile, nil
}

// SetProfile stores a public profile with the default TTL.
func (c *Cache) SetProfile(ctx context.Context, profile *model.PublicUser) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	if err := c.client.Set(ctx, ProfileKey(profile.ID), raw, DefaultProfileTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache profile: %w", err)
	}

	return nil
}

// InvalidateProfile drops the cached profile after an update or removal.
func (c *Cache) InvalidateProfile(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, ProfileKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate profile: %w", err)
	}

	return nil
}
