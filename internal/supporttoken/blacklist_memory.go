package supporttoken

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bpd/pkg/platform/sentinel"
)

// InMemoryBlacklist is a process-local blacklist for tests and single
// instance development.
type InMemoryBlacklist struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewInMemoryBlacklist constructs an empty blacklist.
func NewInMemoryBlacklist() *InMemoryBlacklist {
	return &InMemoryBlacklist{entries: make(map[string]time.Time), now: time.Now}
}

// Revoke marks the fingerprint as revoked until ttl elapses.
func (b *InMemoryBlacklist) Revoke(_ context.Context, fingerprint string, ttl time.Duration) error {
	if err := validateRevocation(fingerprint, ttl); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[fingerprint] = b.now().Add(ttl)
	return nil
}

// IsRevoked reports whether the fingerprint is blacklisted and unexpired.
func (b *InMemoryBlacklist) IsRevoked(_ context.Context, fingerprint string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	expiresAt, ok := b.entries[fingerprint]
	if !ok {
		return false, nil
	}
	return b.now().Before(expiresAt), nil
}

func validateRevocation(fingerprint string, ttl time.Duration) error {
	if fingerprint == "" {
		return fmt.Errorf("fingerprint is required: %w", sentinel.ErrInvalidState)
	}
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive: %w", sentinel.ErrInvalidState)
	}
	return nil
}
