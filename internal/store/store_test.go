package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew_CreatesDatabaseAndDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "data", "catalog.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("database file should exist: %v", err)
	}
	if s.Path() != dbPath {
		t.Errorf("Path() = %q, want %q", s.Path(), dbPath)
	}
}

func TestNew_SchemaObjects(t *testing.T) {
	s := newTestStore(t)

	objects := []struct {
		kind string
		name string
	}{
		{"table", "sessions"},
		{"table", "snapshots"},
		{"index", "idx_snapshots_session_id"},
		{"index", "idx_snapshots_created_at"},
	}
	for _, o := range objects {
		t.Run(o.name, func(t *testing.T) {
			var name string
			err := s.DB().QueryRow(
				"SELECT name FROM sqlite_master WHERE type=? AND name=?", o.kind, o.name,
			).Scan(&name)
			if err != nil {
				t.Errorf("%s %q should exist after migrations: %v", o.kind, o.name, err)
			}
		})
	}

	v, err := s.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion() error = %v", err)
	}
	if v != len(migrations) {
		t.Errorf("SchemaVersion() = %d, want %d", v, len(migrations))
	}
}

func TestNew_ReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Sessions().Start(&Session{ID: "sess-1", Width: 1280, Height: 720}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	s.Close()

	s, err = New(dbPath)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()

	if _, err := s.Sessions().GetByID("sess-1"); err != nil {
		t.Errorf("session lost on reopen: %v", err)
	}
}

func TestStore_Close(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if _, err := s.DB().Exec("SELECT 1"); err == nil {
		t.Error("DB operations should fail after close")
	}
}

func TestStore_ForeignKeysEnabled(t *testing.T) {
	s := newTestStore(t)

	var fkEnabled int
	if err := s.DB().QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled); err != nil {
		t.Fatalf("failed to check foreign keys pragma: %v", err)
	}
	if fkEnabled != 1 {
		t.Error("foreign keys should be enabled")
	}

	t.Run("deleting a session removes its snapshots", func(t *testing.T) {
		s.Sessions().Start(&Session{ID: "sess-1", Width: 1, Height: 1})
		s.Snapshots().Create(&Snapshot{ID: "snap-1", SessionID: "sess-1", Filename: "a.png", Path: "/a.png"})

		if _, err := s.DB().Exec("DELETE FROM sessions WHERE id = ?", "sess-1"); err != nil {
			t.Fatalf("delete session: %v", err)
		}
		if _, err := s.Snapshots().GetByID("snap-1"); err != ErrNotFound {
			t.Errorf("GetByID() error = %v, want ErrNotFound", err)
		}
	})
}
