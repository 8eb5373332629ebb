package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vendra/licensing-api/internal/models"
)

const metricsKey = "dashboard:stats"

// MetricsCache stores the dashboard aggregate snapshot in Redis so that
// repeated dashboard loads do not hit the contracts table.
type MetricsCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewMetricsCache creates a new MetricsCache with the given snapshot TTL.
func NewMetricsCache(redis *RedisClient, ttl time.Duration) *MetricsCache {
	return &MetricsCache{redis: redis, ttl: ttl}
}

// Get returns the cached snapshot, or nil when absent or unreadable.
func (c *MetricsCache) Get(ctx context.Context) (*models.DashboardStats, error) {
	raw, err := c.redis.Get(ctx, metricsKey)
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var stats models.DashboardStats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		// Treat a corrupt entry as a miss; the caller will recompute.
		return nil, nil
	}
	return &stats, nil
}

// Set stores a snapshot with the configured TTL.
func (c *MetricsCache) Set(ctx context.Context, stats *models.DashboardStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, metricsKey, string(raw), c.ttl)
}

// Invalidate drops the cached snapshot, forcing the next read to recompute.
func (c *MetricsCache) Invalidate(ctx context.Context) error {
	return c.redis.Delete(ctx, metricsKey)
}
