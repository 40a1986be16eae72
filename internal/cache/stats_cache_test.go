package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"smart-tasks/internal/model"
)

func newTestCache(t *testing.T, ttl time.Duration) (*StatsCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStatsCache(client, ttl), mr
}

func TestStatsCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)

	_, gen, ok := c.LoadStats(ctx, 1)
	if ok {
		t.Fatalf("expected miss on empty cache")
	}
	if gen != 0 {
		t.Fatalf("expected generation 0, got %d", gen)
	}

	want := model.TaskStats{TotalTasks: 4, CompletedTasks: 3}
	c.StoreStats(ctx, 1, gen, want)
	if !mr.Exists("stats:1:0") {
		t.Fatalf("expected stats:1:0 key to be written")
	}

	got, _, ok := c.LoadStats(ctx, 1)
	if !ok || got != want {
		t.Fatalf("LoadStats = %+v, %v", got, ok)
	}
	if _, _, ok := c.LoadStats(ctx, 2); ok {
		t.Fatalf("stats leaked across users")
	}

	c.EvictStats(ctx, 1)
	_, gen, ok = c.LoadStats(ctx, 1)
	if ok {
		t.Fatalf("expected miss after evict")
	}
	if gen != 1 {
		t.Fatalf("expected generation 1 after evict, got %d", gen)
	}
}

func TestStatsCacheIgnoresStoreFromBeforeWrite(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, time.Minute)

	// Reader misses and starts counting.
	_, gen, ok := c.LoadStats(ctx, 1)
	if ok {
		t.Fatalf("expected miss")
	}
	stale := model.TaskStats{TotalTasks: 0}

	// A write commits and evicts while the reader is still counting.
	c.EvictStats(ctx, 1)

	// Reader stores what it counted before the write.
	c.StoreStats(ctx, 1, gen, stale)

	if got, _, ok := c.LoadStats(ctx, 1); ok {
		t.Fatalf("stale stats served after write: %+v", got)
	}
}

func TestStatsCacheExpires(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)

	_, gen, _ := c.LoadStats(ctx, 1)
	c.StoreStats(ctx, 1, gen, model.TaskStats{TotalTasks: 1})
	mr.FastForward(2 * time.Minute)

	if _, _, ok := c.LoadStats(ctx, 1); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestStatsCacheDropsCorruptEntries(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)

	if err := mr.Set("stats:1:0", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, _, ok := c.LoadStats(ctx, 1); ok {
		t.Fatalf("expected miss for corrupt entry")
	}
	if mr.Exists("stats:1:0") {
		t.Fatalf("corrupt entry should be deleted")
	}
}

func TestStatsCacheUnreadableGeneration(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)

	if err := mr.Set("stats:gen:1", "not-a-number"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_, gen, ok := c.LoadStats(ctx, 1)
	if ok || gen != NoGeneration {
		t.Fatalf("LoadStats = gen %d, ok %v", gen, ok)
	}
	c.StoreStats(ctx, 1, gen, model.TaskStats{TotalTasks: 1})
	if keys := mr.Keys(); len(keys) != 1 {
		t.Fatalf("expected no stats write, keys %v", keys)
	}
}

func TestStatsCacheZeroTTLDisablesWrites(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, 0)

	c.StoreStats(ctx, 1, 0, model.TaskStats{TotalTasks: 1})
	if mr.Exists("stats:1:0") {
		t.Fatalf("expected no write with zero ttl")
	}
}

func TestStatsCacheNilClient(t *testing.T) {
	ctx := context.Background()
	c := NewStatsCache(nil, time.Minute)

	c.StoreStats(ctx, 1, 0, model.TaskStats{TotalTasks: 1})
	c.EvictStats(ctx, 1)
	if _, _, ok := c.LoadStats(ctx, 1); ok {
		t.Fatalf("nil client must always miss")
	}

	var nilCache *StatsCache
	if _, _, ok := nilCache.LoadStats(ctx, 1); ok {
		t.Fatalf("nil cache must always miss")
	}
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient("redis://" + mr.Addr() + "/0")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("ping: %v", err)
	}

	if _, err := NewClient("://bad"); err == nil {
		t.Fatalf("expected error for bad url")
	}
}
