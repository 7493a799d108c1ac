package session

import (
	"context"
	"maps"
	"sync"
)

// MemoryStore implements Store in process memory. Nothing survives a restart.
type MemoryStore struct {
	entries map[string]string
	m       sync.RWMutex
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]string)}
}

// Get implements Store.Get.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.m.RLock()
	defer s.m.RUnlock()

	value, ok := s.entries[key]

	return value, ok, nil
}

// SetAll implements Store.SetAll.
func (s *MemoryStore) SetAll(_ context.Context, values map[string]string) error {
	s.m.Lock()
	defer s.m.Unlock()

	maps.Copy(s.entries, values)

	return nil
}

// Delete implements Store.Delete.
func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.m.Lock()
	defer s.m.Unlock()

	for _, key := range keys {
		delete(s.entries, key)
	}

	return nil
}

// Close implements Store.Close.
func (s *MemoryStore) Close() error {
	return nil
}
