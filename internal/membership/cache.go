package membership

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "bpd:membership:admin:"

// RedisCache stores admin membership decisions with a TTL.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get returns the cached decision and whether one was found.
func (c *RedisCache) Get(ctx context.Context, subject string) (bool, bool, error) {
	val, err := c.client.Get(ctx, cacheKeyPrefix+subject).Result()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("get membership: %w", err)
	}
	return val == "1", true, nil
}

// Set caches a decision for ttl.
func (c *RedisCache) Set(ctx context.Context, subject string, isAdmin bool, ttl time.Duration) error {
	val := "0"
	if isAdmin {
		val = "1"
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+subject, val, ttl).Err(); err != nil {
		return fmt.Errorf("set membership: %w", err)
	}
	return nil
}

// InMemoryCache is a process-local Cache for tests and single-instance runs.
type InMemoryCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	isAdmin   bool
	expiresAt time.Time
}

func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{entries: make(map[string]cacheEntry), now: time.Now}
}

func (c *InMemoryCache) Get(_ context.Context, subject string) (bool, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[subject]
	if !ok {
		return false, false, nil
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, subject)
		return false, false, nil
	}
	return e.isAdmin, true, nil
}

func (c *InMemoryCache) Set(_ context.Context, subject string, isAdmin bool, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[subject] = cacheEntry{isAdmin: isAdmin, expiresAt: c.now().Add(ttl)}
	return nil
}
