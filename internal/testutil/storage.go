package testutil

import (
	"errors"
	"sync"

	"momentlog/internal/journal"
	"momentlog/internal/storage"
)

// ErrStorageFailure is the error FailingStorage returns from failing calls.
var ErrStorageFailure = errors.New("storage failure")

// FailingStorage wraps an in-memory backend and can be switched into a
// failing mode where every Put returns ErrStorageFailure. Reads keep working
// so tests can verify what did or did not land.
type FailingStorage struct {
	mu      sync.Mutex
	inner   *storage.MemoryStorage
	failing bool
}

func NewFailingStorage() *FailingStorage {
	return &FailingStorage{inner: storage.NewMemoryStorage()}
}

// Fail switches write failures on or off.
func (s *FailingStorage) Fail(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = on
}

func (s *FailingStorage) Put(namespace string, data []byte) error {
	s.mu.Lock()
	failing := s.failing
	s.mu.Unlock()
	if failing {
		return ErrStorageFailure
	}
	return s.inner.Put(namespace, data)
}

func (s *FailingStorage) Get(namespace string) ([]byte, error) {
	return s.inner.Get(namespace)
}

func (s *FailingStorage) Delete(namespace string) error {
	return s.inner.Delete(namespace)
}

func (s *FailingStorage) Close() error { return s.inner.Close() }

var _ journal.Storage = (*FailingStorage)(nil)
