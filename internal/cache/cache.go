// Package cache provides the short-lived read-through cache fronting
// template and override reads. Every mutation invalidates the business's
// keys, so staleness is bounded by the TTL only between unrelated reads;
// booking decisions bypass the cache entirely.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nextwaveweb/salonbook/internal/schedule"
	"github.com/nextwaveweb/salonbook/pkg/logging"
)

// AvailabilityCache stores template and override snapshots in Redis.
type AvailabilityCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// New creates an availability cache. A zero TTL disables caching: every
// Get misses and Set is a no-op.
func New(redisClient *redis.Client, ttl time.Duration, logger *logging.Logger) *AvailabilityCache {
	if logger == nil {
		logger = logging.Default()
	}
	return &AvailabilityCache{redis: redisClient, ttl: ttl, logger: logger}
}

func templateKey(businessID string) string {
	return fmt.Sprintf("availability:template:%s", businessID)
}

func overridesKey(businessID string) string {
	return fmt.Sprintf("availability:overrides:%s", businessID)
}

// GetTemplate returns the cached weekly template, if present.
func (c *AvailabilityCache) GetTemplate(ctx context.Context, businessID string) (schedule.WeeklyTemplate, bool) {
	var tpl schedule.WeeklyTemplate
	if !c.get(ctx, templateKey(businessID), &tpl) {
		return nil, false
	}
	return tpl, true
}

// SetTemplate caches the weekly template.
func (c *AvailabilityCache) SetTemplate(ctx context.Context, businessID string, tpl schedule.WeeklyTemplate) {
	c.set(ctx, templateKey(businessID), tpl)
}

// GetOverrides returns the cached override map, if present.
func (c *AvailabilityCache) GetOverrides(ctx context.Context, businessID string) (map[string]schedule.OverrideEntry, bool) {
	var entries map[string]schedule.OverrideEntry
	if !c.get(ctx, overridesKey(businessID), &entries) {
		return nil, false
	}
	return entries, true
}

// SetOverrides caches the override map.
func (c *AvailabilityCache) SetOverrides(ctx context.Context, businessID string, entries map[string]schedule.OverrideEntry) {
	c.set(ctx, overridesKey(businessID), entries)
}

// Invalidate drops both cached snapshots for a business.
func (c *AvailabilityCache) Invalidate(ctx context.Context, businessID string) error {
	if c.redis == nil {
		return nil
	}
	if err := c.redis.Del(ctx, templateKey(businessID), overridesKey(businessID)).Err(); err != nil {
		return fmt.Errorf("cache: invalidate %s: %w", businessID, err)
	}
	return nil
}

func (c *AvailabilityCache) get(ctx context.Context, key string, dest any) bool {
	if c.redis == nil || c.ttl <= 0 {
		return false
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		c.logger.Warn("cache read failed", "error", err, "key", key)
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("cache payload corrupt, ignoring", "error", err, "key", key)
		return false
	}
	return true
}

func (c *AvailabilityCache) set(ctx context.Context, key string, val any) {
	if c.redis == nil || c.ttl <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		c.logger.Warn("cache marshal failed", "error", err, "key", key)
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", "error", err, "key", key)
	}
}
