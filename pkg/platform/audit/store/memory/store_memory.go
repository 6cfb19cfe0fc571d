package memory

import (
	"context"
	"fmt"
	"sync"

	audit "bpd/pkg/platform/audit"
)

// InMemoryStore keeps entries keyed by PartitionKey/RowKey. Like the
// Postgres store it is append-only.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]audit.Entry
	order   []string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string]audit.Entry)}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]audit.Entry)
	s.order = nil
}

func (s *InMemoryStore) Append(_ context.Context, entry audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := entry.PartitionKey + "/" + entry.RowKey
	if _, exists := s.entries[key]; exists {
		return fmt.Errorf("append %s: %w", key, audit.ErrDuplicateEntry)
	}
	s.order = append(s.order, key)
	s.entries[key] = entry
	return nil
}

// ListByActor returns the entries of one actor in insertion order.
func (s *InMemoryStore) ListByActor(_ context.Context, partitionKey string) ([]audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []audit.Entry
	for _, key := range s.order {
		if e := s.entries[key]; e.PartitionKey == partitionKey {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListAll returns every entry in insertion order.
func (s *InMemoryStore) ListAll(_ context.Context) ([]audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]audit.Entry, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.entries[key])
	}
	return out, nil
}
