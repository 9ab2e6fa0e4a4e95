package storage

import (
	"sync"

	"momentlog/internal/journal"
)

// MemoryStorage is an in-memory implementation of the Storage interface.
// It keeps all snapshots in memory, making it useful for testing.
// This implementation is safe for concurrent use.
type MemoryStorage struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		snapshots: make(map[string][]byte),
	}
}

// Put stores data under the namespace, replacing any previous value.
func (s *MemoryStorage) Put(namespace string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[namespace] = append([]byte(nil), data...)
	return nil
}

// Get returns the data stored under the namespace, or (nil, nil) if the
// namespace has never been written.
func (s *MemoryStorage) Get(namespace string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.snapshots[namespace]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

// Delete removes the namespace. Deleting an absent namespace is a no-op.
func (s *MemoryStorage) Delete(namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, namespace)
	return nil
}

// Close is a no-op for in-memory storage.
func (s *MemoryStorage) Close() error { return nil }

// Compile-time check that MemoryStorage implements journal.Storage
var _ journal.Storage = (*MemoryStorage)(nil)
