package storage

import (
	"testing"
)

// newTestSQLite creates a migrated in-memory snapshot database.
func newTestSQLite(t *testing.T) *SQLiteStorage {
	t.Helper()

	s, err := NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStorage() error = %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func TestSQLiteStorage(t *testing.T) {
	t.Run("returns nil for unwritten namespace", func(t *testing.T) {
		s := newTestSQLite(t)

		data, err := s.Get("events")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if data != nil {
			t.Errorf("Get() = %v, want nil", data)
		}
	})

	t.Run("put then get round-trips", func(t *testing.T) {
		s := newTestSQLite(t)

		if err := s.Put("events", []byte(`[{"id":"e1"}]`)); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		data, err := s.Get("events")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if string(data) != `[{"id":"e1"}]` {
			t.Errorf("Get() = %s", data)
		}
	})

	t.Run("put upserts over the previous row", func(t *testing.T) {
		s := newTestSQLite(t)

		if err := s.Put("events", []byte("old")); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if err := s.Put("events", []byte("new")); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		data, err := s.Get("events")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if string(data) != "new" {
			t.Errorf("Get() = %s, want new", data)
		}
	})

	t.Run("namespaces are independent", func(t *testing.T) {
		s := newTestSQLite(t)

		s.Put("events", []byte("e"))
		s.Put("moments", []byte("m"))

		if data, _ := s.Get("events"); string(data) != "e" {
			t.Errorf("Get(events) = %s, want e", data)
		}
		if data, _ := s.Get("moments"); string(data) != "m" {
			t.Errorf("Get(moments) = %s, want m", data)
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		s := newTestSQLite(t)
		s.Put("events", []byte("x"))

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
