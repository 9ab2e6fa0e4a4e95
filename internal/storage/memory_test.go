package storage

import (
	"bytes"
	"testing"
)

func TestMemoryStorage(t *testing.T) {
	t.Run("returns nil for unwritten namespace", func(t *testing.T) {
		s := NewMemoryStorage()

		data, err := s.Get("events")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if data != nil {
			t.Errorf("Get() = %v, want nil", data)
		}
	})

	t.Run("put then get round-trips", func(t *testing.T) {
		s := NewMemoryStorage()

		if err := s.Put("events", []byte(`[{"id":"e1"}]`)); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		data, err := s.Get("events")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !bytes.Equal(data, []byte(`[{"id":"e1"}]`)) {
			t.Errorf("Get() = %s", data)
		}
	})

	t.Run("put replaces previous value", func(t *testing.T) {
		s := NewMemoryStorage()

		s.Put("events", []byte("old"))
		s.Put("events", []byte("new"))

		data, _ := s.Get("events")
		if string(data) != "new" {
			t.Errorf("Get() = %s, want new", data)
		}
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		s := NewMemoryStorage()
		s.Put("events", []byte("abc"))

		data, _ := s.Get("events")
		data[0] = 'x'

		again, _ := s.Get("events")
		if string(again) != "abc" {
			t.Errorf("Get() = %s after caller mutation, want abc", again)
		}
	})

	t.Run("delete removes namespace and is idempotent", func(t *testing.T) {
		s := NewMemoryStorage()
		s.Put("events", []byte("abc"))

		if err := s.Delete("events"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if data, _ := s.Get("events"); data != nil {
			t.Errorf("Get() = %v after delete, want nil", data)
		}
		if err := s.Delete("events"); err != nil {
			t.Errorf("second Delete() error = %v, want nil", err)
		}
	})
}
