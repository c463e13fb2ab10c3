package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Snapshot is a validated puzzle state.
type Snapshot struct {
	SnapshotID string
	SessionID  *string
	CreatedAt  time.Time
	Facelets   string
	Status     string
	Message    string
	Solution   *string
}

// SnapshotRepository provides CRUD operations for snapshots.
type SnapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new snapshot repository.
func NewSnapshotRepository(db *DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Create stores a snapshot and returns its ID. sessionID and solution
// may be empty.
func (r *SnapshotRepository) Create(sessionID, facelets, status, message, solution string) (string, error) {
	id := uuid.New().String()

	var sessionPtr, solutionPtr *string
	if sessionID != "" {
		sessionPtr = &sessionID
	}
	if solution != "" {
		solutionPtr = &solution
	}

	_, err := r.db.Exec(`
		INSERT INTO snapshots (snapshot_id, session_id, created_at, facelets, status, message, solution)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, sessionPtr, time.Now().UTC().Format(timeFormat), facelets, status, message, solutionPtr)
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot: %w", err)
	}
	return id, nil
}

// Get retrieves a snapshot by ID. It returns nil when there is none.
func (r *SnapshotRepository) Get(snapshotID string) (*Snapshot, error) {
	row := r.db.QueryRow(`
		SELECT snapshot_id, session_id, created_at, facelets, status, message, solution
		FROM snapshots
		WHERE snapshot_id = ?
	`, snapshotID)

	s, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return s, nil
}

// List retrieves recent snapshots, newest first.
func (r *SnapshotRepository) List(limit int) ([]Snapshot, error) {
	rows, err := r.db.Query(`
		SELECT snapshot_id, session_id, created_at, facelets, status, message, solution
		FROM snapshots
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, *s)
	}
	return snapshots, rows.Err()
}

// GetBySession retrieves the snapshots of a session in order.
func (r *SnapshotRepository) GetBySession(sessionID string) ([]Snapshot, error) {
	rows, err := r.db.Query(`
		SELECT snapshot_id, session_id, created_at, facelets, status, message, solution
		FROM snapshots
		WHERE session_id = ?
		ORDER BY created_at, rowid
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, *s)
	}
	return snapshots, rows.Err()
}

func scanSnapshot(row scanner) (*Snapshot, error) {
	var s Snapshot
	var createdAt string
	if err := row.Scan(&s.SnapshotID, &s.SessionID, &createdAt, &s.Facelets, &s.Status, &s.Message, &s.Solution); err != nil {
		return nil, err
	}
	s.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	return &s, nil
}
