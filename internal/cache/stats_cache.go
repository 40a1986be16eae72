// Package cache keeps per-user task statistics in Redis.
package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"smart-tasks/internal/model"
)

// NoGeneration marks a lookup whose generation could not be read; results
// computed after it must not be stored.
const NoGeneration int64 = -1

// StatsCache is a read-through cache for per-user task stats. A nil client
// disables caching; Redis failures fall back to the backing store.
//
// Entries are keyed by a per-user generation that every write bumps. Stats
// counted before a write are stored under the old generation and never read.
type StatsCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	if ttl < 0 {
		ttl = 0
	}
	return &StatsCache{redis: client, ttl: ttl}
}

// NewClient builds a Redis client from a redis:// URL.
func NewClient(rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}

// LoadStats returns the cached stats for the user's current generation. The
// generation is returned on a miss so the caller can store what it computes.
func (c *StatsCache) LoadStats(ctx context.Context, userID uint) (model.TaskStats, int64, bool) {
	if c == nil || c.redis == nil {
		return model.TaskStats{}, NoGeneration, false
	}
	gen, err := c.redis.Get(ctx, generationKey(userID)).Int64()
	switch {
	case err == redis.Nil:
		gen = 0
	case err != nil:
		return model.TaskStats{}, NoGeneration, false
	}

	key := statsCacheKey(userID, gen)
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			_ = c.redis.Del(ctx, key).Err()
		}
		return model.TaskStats{}, gen, false
	}
	var stats model.TaskStats
	if err := json.Unmarshal(data, &stats); err != nil {
		_ = c.redis.Del(ctx, key).Err()
		return model.TaskStats{}, gen, false
	}
	return stats, gen, true
}

// StoreStats caches stats under gen, as returned by the LoadStats that missed.
func (c *StatsCache) StoreStats(ctx context.Context, userID uint, gen int64, stats model.TaskStats) {
	if c == nil || c.redis == nil || c.ttl == 0 || gen < 0 {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, statsCacheKey(userID, gen), data, c.ttl).Err()
}

// EvictStats invalidates every cached entry for the user.
func (c *StatsCache) EvictStats(ctx context.Context, userID uint) {
	if c == nil || c.redis == nil {
		return
	}
	_ = c.redis.Incr(ctx, generationKey(userID)).Err()
}

func statsCacheKey(userID uint, gen int64) string {
	return "stats:" + strconv.FormatUint(uint64(userID), 10) + ":" + strconv.FormatInt(gen, 10)
}

func generationKey(userID uint) string {
	return "stats:gen:" + strconv.FormatUint(uint64(userID), 10)
}
