package storage

import (
	"path/filepath"
	"testing"

	"momentlog/internal/config"
)

func TestNewStorageFromConfig(t *testing.T) {
	t.Run("creates memory storage", func(t *testing.T) {
		s, err := NewStorageFromConfig(config.StorageConfig{Type: "memory"}, nil, nil)
		if err != nil {
			t.Fatalf("NewStorageFromConfig() error = %v", err)
		}
		defer s.Close()

		if _, ok := s.(*MemoryStorage); !ok {
			t.Errorf("storage type = %T, want *MemoryStorage", s)
		}
	})

	t.Run("creates filesystem storage", func(t *testing.T) {
		s, err := NewStorageFromConfig(config.StorageConfig{
			Type:    "filesystem",
			DataDir: filepath.Join(t.TempDir(), "journal"),
		}, nil, nil)
		if err != nil {
			t.Fatalf("NewStorageFromConfig() error = %v", err)
		}
		defer s.Close()

		if _, ok := s.(*FileSystemStorage); !ok {
			t.Errorf("storage type = %T, want *FileSystemStorage", s)
		}
	})

	t.Run("filesystem requires data_dir", func(t *testing.T) {
		if _, err := NewStorageFromConfig(config.StorageConfig{Type: "filesystem"}, nil, nil); err == nil {
			t.Error("NewStorageFromConfig() error = nil, want error")
		}
	})

	t.Run("creates sqlite storage", func(t *testing.T) {
		s, err := NewStorageFromConfig(config.StorageConfig{
			Type:   "sqlite",
			DBPath: filepath.Join(t.TempDir(), "snapshots.db"),
		}, nil, nil)
		if err != nil {
			t.Fatalf("NewStorageFromConfig() error = %v", err)
		}
		defer s.Close()

		if _, ok := s.(*SQLiteStorage); !ok {
			t.Errorf("storage type = %T, want *SQLiteStorage", s)
		}
	})

	t.Run("sqlite requires db_path", func(t *testing.T) {
		if _, err := NewStorageFromConfig(config.StorageConfig{Type: "sqlite"}, nil, nil); err == nil {
			t.Error("NewStorageFromConfig() error = nil, want error")
		}
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		if _, err := NewStorageFromConfig(config.StorageConfig{Type: "tape"}, nil, nil); err == nil {
			t.Error("NewStorageFromConfig() error = nil, want error")
		}
	})
}
