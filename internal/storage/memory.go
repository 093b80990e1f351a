package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/hammamikhairi/voicetodo/internal/domain"
	"github.com/hammamikhairi/voicetodo/internal/logger"
)

// Compile-time interface check.
var _ domain.ItemStore = (*MemoryStore)(nil)

// MemoryStore keeps the list in memory only. Safe for concurrent access.
// Used when persistence is disabled and in tests.
type MemoryStore struct {
	mu     sync.RWMutex
	items  []domain.Item
	exists bool
	saves  int
	log    *logger.Logger
}

// NewMemoryStore creates a store with no persisted state.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{log: log}
}

// Load returns a copy of the stored list.
func (s *MemoryStore) Load(ctx context.Context) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Clone(s.items)
	if out == nil {
		out = []domain.Item{}
	}
	return out, nil
}

// Save replaces the stored list with a copy of items.
func (s *MemoryStore) Save(ctx context.Context, items []domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("memory store: saving %d items", len(items))
	s.items = slices.Clone(items)
	s.exists = true
	s.saves++
	return nil
}

// Clear drops the stored list.
func (s *MemoryStore) Clear(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existed := s.exists
	s.items = nil
	s.exists = false
	return existed, nil
}

// Saves returns how many times Save has been called.
func (s *MemoryStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
