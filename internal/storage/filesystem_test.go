package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"momentlog/internal/encryption"
)

func TestFileSystemStorage(t *testing.T) {
	t.Run("returns nil for unwritten namespace", func(t *testing.T) {
		s, err := NewFileSystemStorage(t.TempDir(), nil, nil)
		if err != nil {
			t.Fatalf("NewFileSystemStorage() error = %v", err)
		}

		data, err := s.Get("events")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if data != nil {
			t.Errorf("Get() = %v, want nil", data)
		}
	})

	t.Run("writes one file per namespace", func(t *testing.T) {
		root := t.TempDir()
		s, err := NewFileSystemStorage(root, nil, nil)
		if err != nil {
			t.Fatalf("NewFileSystemStorage() error = %v", err)
		}

		if err := s.Put("events", []byte(`[]`)); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		if _, err := os.Stat(filepath.Join(root, "events.json")); err != nil {
			t.Errorf("events.json not written: %v", err)
		}
	})

	t.Run("survives reopening", func(t *testing.T) {
		root := t.TempDir()
		s, err := NewFileSystemStorage(root, nil, nil)
		if err != nil {
			t.Fatalf("NewFileSystemStorage() error = %v", err)
		}
		if err := s.Put("moments", []byte("payload")); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		reopened, err := NewFileSystemStorage(root, nil, nil)
		if err != nil {
			t.Fatalf("NewFileSystemStorage() error = %v", err)
		}
		data, err := reopened.Get("moments")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if string(data) != "payload" {
			t.Errorf("Get() = %s, want payload", data)
		}
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		root := t.TempDir()
		s, err := NewFileSystemStorage(root, nil, nil)
		if err != nil {
			t.Fatalf("NewFileSystemStorage() error = %v", err)
		}
		if err := s.Put("events", []byte("x")); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		entries, err := os.ReadDir(root)
		if err != nil {
			t.Fatalf("ReadDir() error = %v", err)
		}
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), ".tmp-") {
				t.Errorf("temp file left behind: %s", e.Name())
			}
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		s, err := NewFileSystemStorage(t.TempDir(), nil, nil)
		if err != nil {
			t.Fatalf("NewFileSystemStorage() error = %v", err)
		}
		if err := s.Put("events", []byte("x")); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		if err := s.Delete("events"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if err := s.Delete("events"); err != nil {
			t.Errorf("second Delete() error = %v, want nil", err)
		}
	})

	t.Run("encrypts snapshots at rest", func(t *testing.T) {
		root := t.TempDir()
		enc := encryption.NewTestEncryptor()
		decctx, err := enc.Unlock("")
		if err != nil {
			t.Fatalf("Unlock() error = %v", err)
		}

		s, err := NewFileSystemStorage(root, enc, decctx)
		if err != nil {
			t.Fatalf("NewFileSystemStorage() error = %v", err)
		}
		plaintext := []byte(`[{"id":"e1"}]`)
		if err := s.Put("events", plaintext); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		onDisk, err := os.ReadFile(filepath.Join(root, "events.json"))
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if bytes.Equal(onDisk, plaintext) {
			t.Error("snapshot stored as plaintext despite encryptor")
		}

		data, err := s.Get("events")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !bytes.Equal(data, plaintext) {
			t.Errorf("Get() = %s, want %s", data, plaintext)
		}
	})

	t.Run("refuses encrypted read without unlocked key", func(t *testing.T) {
		root := t.TempDir()
		enc := encryption.NewTestEncryptor()

		s, err := NewFileSystemStorage(root, enc, nil)
		if err != nil {
			t.Fatalf("NewFileSystemStorage() error = %v", err)
		}
		if err := s.Put("events", []byte("secret")); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		if _, err := s.Get("events"); err == nil {
			t.Error("Get() error = nil, want error for locked snapshot")
		}
	})
}
