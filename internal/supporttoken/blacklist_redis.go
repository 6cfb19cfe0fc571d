package supporttoken

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var isBlacklistedDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "bpd_support_token_blacklist_check_duration_ms",
	Help:    "Latency of support token blacklist checks in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
})

const blacklistKeyPrefix = "bpd:support-token:blacklist:"

// RedisBlacklist is the Redis-backed blacklist shared by every instance.
type RedisBlacklist struct {
	client *redis.Client
}

// NewRedisBlacklist constructs a Redis-backed blacklist.
func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{client: client}
}

// Revoke marks the fingerprint as revoked until ttl elapses.
func (b *RedisBlacklist) Revoke(ctx context.Context, fingerprint string, ttl time.Duration) error {
	if err := validateRevocation(fingerprint, ttl); err != nil {
		return err
	}
	if err := b.client.Set(ctx, blacklistKeyPrefix+fingerprint, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist support token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the fingerprint is blacklisted. An expired entry
// is absent from Redis and so reported as not revoked.
func (b *RedisBlacklist) IsRevoked(ctx context.Context, fingerprint string) (bool, error) {
	start := time.Now()
	defer func() {
		isBlacklistedDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	if fingerprint == "" {
		return false, nil
	}
	_, err := b.client.Get(ctx, blacklistKeyPrefix+fingerprint).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check support token blacklist: %w", err)
	}
	return true, nil
}
