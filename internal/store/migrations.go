package store

import "fmt"

// migrations are applied in order; PRAGMA user_version records how many ran.
// Append only.
var migrations = [][]string{
	// 1: sessions, one row per run of the paint loop
	{`CREATE TABLE sessions (
		id TEXT PRIMARY KEY,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		ended_at DATETIME
	)`},

	// 2: snapshots, every canvas written to disk
	{`CREATE TABLE snapshots (
		id TEXT PRIMARY KEY,
		session_id TEXT REFERENCES sessions(id) ON DELETE CASCADE,
		filename TEXT NOT NULL,
		path TEXT NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		tool TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
		`CREATE INDEX idx_snapshots_session_id ON snapshots(session_id)`,
		`CREATE INDEX idx_snapshots_created_at ON snapshots(created_at)`},
}

// SchemaVersion returns the number of migrations applied to the database.
func (s *Store) SchemaVersion() (int, error) {
	var v int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&v)
	return v, err
}

// migrate runs the migrations the database has not seen yet, each in its own
// transaction.
func (s *Store) migrate() error {
	current, err := s.SchemaVersion()
	if err != nil {
		return err
	}

	for i := current; i < len(migrations); i++ {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		for _, stmt := range migrations[i] {
			if _, err := tx.Exec(stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf("migration %d: %w", i+1, err)
			}
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}
