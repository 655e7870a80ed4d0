package persistence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/macxnet80/tigube-approval-service/internal/domain"
)

const statsCacheKey = "approval:stats"

// StatsCache keeps the admin dashboard approval counters in Redis so
// every dashboard load does not hit the aggregate query. Entries are
// invalidated whenever a decision or reset mutates approval state.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewStatsCache builds a cache over the shared Redis client.
func NewStatsCache(r *Redis, ttl time.Duration, logger *zap.Logger) *StatsCache {
	if r == nil || r.Client == nil {
		return nil
	}
	return &StatsCache{client: r.Client, ttl: ttl, logger: logger}
}

// GetStats returns cached counters, or ok=false on miss or any Redis error.
func (c *StatsCache) GetStats(ctx context.Context) (*domain.ApprovalStats, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("stats cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var stats domain.ApprovalStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, false
	}
	return &stats, true
}

// SetStats stores counters with the configured TTL. Errors only degrade caching.
func (c *StatsCache) SetStats(ctx context.Context, stats *domain.ApprovalStats) {
	if c == nil || stats == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, statsCacheKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("stats cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached counters.
func (c *StatsCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, statsCacheKey).Err(); err != nil {
		c.logger.Warn("stats cache invalidation failed", zap.Error(err))
	}
}
