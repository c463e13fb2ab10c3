package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

// MoveRecord is a move played during a session.
type MoveRecord struct {
	MoveID    int64
	SessionID string
	Seq       int
	TsMs      int64
	Slice     string
	Turn      int
	Notation  string
}

// Move converts the record back into a move.
func (m MoveRecord) Move() (types.Move, error) {
	return types.ParseMove(m.Notation)
}

// MoveRepository provides CRUD operations for moves.
type MoveRepository struct {
	db *DB
}

// NewMoveRepository creates a new move repository.
func NewMoveRepository(db *DB) *MoveRepository {
	return &MoveRepository{db: db}
}

// Append stores move as the next move of the session and returns its
// sequence number.
func (r *MoveRepository) Append(sessionID string, move types.Move, at time.Time) (int, error) {
	seq, err := r.NextSeq(sessionID)
	if err != nil {
		return 0, err
	}

	_, err = r.db.Exec(`
		INSERT INTO moves (session_id, seq, ts_ms, slice, turn, notation)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sessionID, seq, at.UnixMilli(), move.Slice.String(), int(move.Turn), move.Notation())
	if err != nil {
		return 0, fmt.Errorf("failed to create move: %w", err)
	}
	return seq, nil
}

// AppendBatch stores moves in a single transaction.
func (r *MoveRepository) AppendBatch(sessionID string, moves []types.Move, at time.Time) error {
	start, err := r.NextSeq(sessionID)
	if err != nil {
		return err
	}

	return r.db.Transaction(func(tx *sql.Tx) error {
		for i, move := range moves {
			_, err := tx.Exec(`
				INSERT INTO moves (session_id, seq, ts_ms, slice, turn, notation)
				VALUES (?, ?, ?, ?, ?, ?)
			`, sessionID, start+i, at.UnixMilli(), move.Slice.String(), int(move.Turn), move.Notation())
			if err != nil {
				return fmt.Errorf("failed to create move %d: %w", start+i, err)
			}
		}
		return nil
	})
}

// GetBySession retrieves all moves of a session in order.
func (r *MoveRepository) GetBySession(sessionID string) ([]MoveRecord, error) {
	rows, err := r.db.Query(`
		SELECT move_id, session_id, seq, ts_ms, slice, turn, notation
		FROM moves
		WHERE session_id = ?
		ORDER BY seq
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get moves: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		if err := rows.Scan(&m.MoveID, &m.SessionID, &m.Seq, &m.TsMs, &m.Slice, &m.Turn, &m.Notation); err != nil {
			return nil, fmt.Errorf("failed to scan move: %w", err)
		}
		moves = append(moves, m)
	}
	return moves, rows.Err()
}

// NextSeq returns the next sequence number for a session.
func (r *MoveRepository) NextSeq(sessionID string) (int, error) {
	var maxSeq int
	err := r.db.QueryRow(`
		SELECT COALESCE(MAX(seq), -1) FROM moves WHERE session_id = ?
	`, sessionID).Scan(&maxSeq)
	if err != nil {
		return 0, fmt.Errorf("failed to get max move seq: %w", err)
	}
	return maxSeq + 1, nil
}

// Count returns the number of moves in a session.
func (r *MoveRepository) Count(sessionID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM moves WHERE session_id = ?", sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count moves: %w", err)
	}
	return count, nil
}

// ToMoves converts records to moves, skipping any that no longer parse.
func ToMoves(records []MoveRecord) []types.Move {
	moves := make([]types.Move, 0, len(records))
	for _, r := range records {
		if m, err := r.Move(); err == nil {
			moves = append(moves, m)
		}
	}
	return moves
}
