package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewConfig(t *testing.T) {
	t.Run("derives paths from the base directory", func(t *testing.T) {
		cfg := NewConfig("/data/momentlog")

		if cfg.Storage.Type != "filesystem" {
			t.Errorf("Storage.Type = %q, want filesystem", cfg.Storage.Type)
		}
		if cfg.Storage.DataDir != filepath.Join("/data/momentlog", "journal") {
			t.Errorf("Storage.DataDir = %q", cfg.Storage.DataDir)
		}
		if cfg.Media.MediaDir != filepath.Join("/data/momentlog", "media") {
			t.Errorf("Media.MediaDir = %q", cfg.Media.MediaDir)
		}
		if cfg.Encryption.Type != "none" {
			t.Errorf("Encryption.Type = %q, want none", cfg.Encryption.Type)
		}
		if cfg.Generation.BaseURL == "" {
			t.Error("Generation.BaseURL is empty")
		}
		if cfg.Generation.TimeoutSeconds != 60 {
			t.Errorf("Generation.TimeoutSeconds = %d, want 60", cfg.Generation.TimeoutSeconds)
		}
	})
}

func TestManager(t *testing.T) {
	t.Run("write then read round-trips", func(t *testing.T) {
		cfg := NewConfig("/data/momentlog")
		cfg.Storage = StorageConfig{Type: "sqlite", DBPath: "/data/momentlog/snapshots.db"}
		cfg.Generation.APIKey = "secret"

		m := &Manager{}
		var buf bytes.Buffer
		if err := m.Write(&buf, cfg); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		got, err := m.Read(&buf)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if got.Storage.Type != "sqlite" {
			t.Errorf("Storage.Type = %q, want sqlite", got.Storage.Type)
		}
		if got.Storage.DBPath != "/data/momentlog/snapshots.db" {
			t.Errorf("Storage.DBPath = %q", got.Storage.DBPath)
		}
		if got.Generation.APIKey != "secret" {
			t.Errorf("Generation.APIKey = %q, want secret", got.Generation.APIKey)
		}
	})

	t.Run("read rejects malformed toml", func(t *testing.T) {
		m := &Manager{}
		if _, err := m.Read(strings.NewReader("storage = [broken")); err == nil {
			t.Error("Read() error = nil, want error")
		}
	})
}

func TestInit(t *testing.T) {
	t.Run("creates the file and parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "conf", "momentlog.toml")
		cfg := NewConfig("/data/momentlog")

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.BaseDir != "/data/momentlog" {
			t.Errorf("BaseDir = %q", got.BaseDir)
		}
	})

	t.Run("refuses to overwrite an existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "momentlog.toml")
		cfg := NewConfig("/data/momentlog")

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}
		if err := Init(path, cfg); err == nil {
			t.Error("second Init() error = nil, want error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("fails for a missing file", func(t *testing.T) {
		if _, err := ReadFromFile(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("ReadFromFile() error = nil, want error")
		}
	})
}
