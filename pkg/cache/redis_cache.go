// Package cache provides the optional Redis-backed verdict response cache.
package cache

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"github.com/redis/go-redis/v9"

	"detection_server/core/domain"
)

const keyPrefix = "verdict:"

// VerdictCache stores verdicts in Redis under a short TTL, keyed by the
// normalized URL. Strictly a response cache: errors are swallowed and a
// miss just means the pipeline runs again.
type VerdictCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewVerdictCache creates a verdict cache with the given TTL.
func NewVerdictCache(client *redis.Client, ttl time.Duration) *VerdictCache {
	return &VerdictCache{client: client, ttl: ttl}
}

// GetVerdict returns the cached verdict for key, if any.
func (c *VerdictCache) GetVerdict(ctx context.Context, key string) (*domain.Verdict, bool) {
	data, err := c.client.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		return nil, false
	}

	var verdict domain.Verdict
	if err := json.Unmarshal([]byte(data), &verdict); err != nil {
		return nil, false
	}
	return &verdict, true
}

// SetVerdict stores a verdict under key for the configured TTL.
func (c *VerdictCache) SetVerdict(ctx context.Context, key string, verdict *domain.Verdict) {
	data, err := json.Marshal(verdict)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, keyPrefix+key, string(data), c.ttl).Err()
}
