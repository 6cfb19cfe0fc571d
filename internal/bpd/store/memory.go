package store

import (
	"context"
	"sync"

	"bpd/internal/bpd/models"
	"bpd/pkg/domain"
)

// InMemoryStore serves rows seeded by tests and local runs.
type InMemoryStore struct {
	mu           sync.RWMutex
	citizens     map[domain.FiscalCode][]models.CitizenRow
	awards       map[domain.FiscalCode][]models.AwardRow
	transactions map[domain.FiscalCode][]models.TransactionRow
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		citizens:     make(map[domain.FiscalCode][]models.CitizenRow),
		awards:       make(map[domain.FiscalCode][]models.AwardRow),
		transactions: make(map[domain.FiscalCode][]models.TransactionRow),
	}
}

func (s *InMemoryStore) PutCitizen(fc domain.FiscalCode, rows ...models.CitizenRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.citizens[fc] = append(s.citizens[fc], rows...)
}

func (s *InMemoryStore) PutAwards(fc domain.FiscalCode, rows ...models.AwardRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.awards[fc] = append(s.awards[fc], rows...)
}

func (s *InMemoryStore) PutTransactions(fc domain.FiscalCode, rows ...models.TransactionRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[fc] = append(s.transactions[fc], rows...)
}

func (s *InMemoryStore) FindCitizen(_ context.Context, fc domain.FiscalCode) ([]models.CitizenRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CitizenRow(nil), s.citizens[fc]...), nil
}

func (s *InMemoryStore) FindAwards(_ context.Context, fc domain.FiscalCode) ([]models.AwardRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.AwardRow(nil), s.awards[fc]...), nil
}

func (s *InMemoryStore) FindTransactions(_ context.Context, fc domain.FiscalCode) ([]models.TransactionRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.TransactionRow(nil), s.transactions[fc]...), nil
}
