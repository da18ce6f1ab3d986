// Package persist holds the types.Storage backends entries are persisted to.
package persist

import (
	"context"
	"sync"
)

// MemoryStorage keeps persisted entries in a map. It is what tests and the
// demo use in place of a real store.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string]map[string]any
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string]map[string]any)}
}

func (s *MemoryStorage) Load(_ context.Context, id string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[id], nil
}

func (s *MemoryStorage) Put(_ context.Context, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = fields
	return nil
}

// Delete drops a persisted entry.
func (s *MemoryStorage) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
}

// Len returns the number of persisted entries.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
