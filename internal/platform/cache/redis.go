package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// WindowCounter counts hits per key inside a fixed window.
type WindowCounter interface {
	// Hit increments key and returns the count within the current window.
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("cache: could not connect to redis: %w", err)
	}
	return rdb, nil
}

type redisCounter struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisCounter(rdb *redis.Client, prefix string) WindowCounter {
	return &redisCounter{rdb: rdb, prefix: prefix}
}

// Hit runs SET NX EX and INCR in one MULTI. The key is created with its TTL,
// so a window always expires even if a later command fails.
func (c *redisCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	k := c.prefix + key
	var incr *redis.IntCmd
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, k, 0, window)
		incr = pipe.Incr(ctx, k)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("cache: hit %s: %w", k, err)
	}
	return incr.Val(), nil
}

// memoryCounter is used when no Redis address is configured.
type memoryCounter struct {
	mu      sync.Mutex
	now     func() time.Time
	buckets map[string]*bucket
}

type bucket struct {
	count   int64
	resetAt time.Time
}

func NewMemoryCounter(now func() time.Time) WindowCounter {
	if now == nil {
		now = time.Now
	}
	return &memoryCounter{now: now, buckets: make(map[string]*bucket)}
}

func (c *memoryCounter) Hit(_ context.Context, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	b, ok := c.buckets[key]
	if !ok || !now.Before(b.resetAt) {
		b = &bucket{resetAt: now.Add(window)}
		c.buckets[key] = b
		c.evict(now)
	}
	b.count++
	return b.count, nil
}

// evict drops expired buckets so the map does not grow without bound.
func (c *memoryCounter) evict(now time.Time) {
	for k, b := range c.buckets {
		if !now.Before(b.resetAt) {
			delete(c.buckets, k)
		}
	}
}
