package store

import (
	"database/sql"
	"errors"
	"time"
)

// Snapshot is a canvas image saved to disk.
type Snapshot struct {
	ID        string
	SessionID string
	Filename  string
	Path      string
	Width     int
	Height    int
	Tool      string
	CreatedAt time.Time
}

// SnapshotRepository provides CRUD operations for snapshots.
type SnapshotRepository struct {
	db *sql.DB
}

// Snapshots returns the snapshot repository for this store.
func (s *Store) Snapshots() *SnapshotRepository {
	return &SnapshotRepository{db: s.db}
}

const snapshotColumns = `id, COALESCE(session_id, ''), filename, path, width, height, tool, created_at`

// Create inserts a new snapshot. An empty SessionID is stored as NULL.
func (r *SnapshotRepository) Create(snap *Snapshot) error {
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now()
	}

	var sessionID any
	if snap.SessionID != "" {
		sessionID = snap.SessionID
	}

	_, err := r.db.Exec(
		`INSERT INTO snapshots (id, session_id, filename, path, width, height, tool, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, sessionID, snap.Filename, snap.Path, snap.Width, snap.Height, snap.Tool, snap.CreatedAt,
	)
	return err
}

// GetByID retrieves a snapshot by its ID.
func (r *SnapshotRepository) GetByID(id string) (*Snapshot, error) {
	row := r.db.QueryRow(`SELECT `+snapshotColumns+` FROM snapshots WHERE id = ?`, id)

	snap, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return snap, nil
}

// List retrieves all snapshots, newest first.
func (r *SnapshotRepository) List() ([]*Snapshot, error) {
	return r.query(`SELECT ` + snapshotColumns + ` FROM snapshots ORDER BY created_at DESC`)
}

// ListBySession retrieves the snapshots of one session, oldest first.
func (r *SnapshotRepository) ListBySession(sessionID string) ([]*Snapshot, error) {
	return r.query(`SELECT `+snapshotColumns+` FROM snapshots WHERE session_id = ? ORDER BY created_at`, sessionID)
}

// Delete removes a snapshot record. The image file is left on disk.
func (r *SnapshotRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *SnapshotRepository) query(q string, args ...any) ([]*Snapshot, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []*Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return snaps, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(s scanner) (*Snapshot, error) {
	snap := &Snapshot{}
	err := s.Scan(&snap.ID, &snap.SessionID, &snap.Filename, &snap.Path,
		&snap.Width, &snap.Height, &snap.Tool, &snap.CreatedAt)
	if err != nil {
		return nil, err
	}
	return snap, nil
}
