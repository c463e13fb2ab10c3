// Package recorder persists puzzle sessions: every completed move and
// every validated state is written to the history database.
package recorder

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/SeamusWaldron/cubesolver"
	"github.com/SeamusWaldron/cubesolver/internal/storage"
	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

// Session errors
var (
	ErrNotRecording     = errors.New("recorder: no session in progress")
	ErrAlreadyRecording = errors.New("recorder: session already in progress")
	ErrSessionNotFound  = errors.New("recorder: session not found")
	ErrSessionEnded     = errors.New("recorder: session already ended")
)

// SessionState represents the current state of a recording session.
type SessionState int

const (
	StateIdle SessionState = iota
	StateRecording
	StateEnded
)

// String returns the string representation of the session state.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Session records one run of the puzzle. It is safe for concurrent use.
type Session struct {
	log *zap.Logger

	mu        sync.RWMutex
	state     SessionState
	sessionID string
	startTime time.Time
	moveCount int

	sessions  *storage.SessionRepository
	moves     *storage.MoveRepository
	snapshots *storage.SnapshotRepository
}

// NewSession creates a session recorder on db.
func NewSession(db *storage.DB, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		log:       log,
		state:     StateIdle,
		sessions:  storage.NewSessionRepository(db),
		moves:     storage.NewMoveRepository(db),
		snapshots: storage.NewSnapshotRepository(db),
	}
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SessionID returns the current session ID.
func (s *Session) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}

// MoveCount returns the number of moves recorded so far.
func (s *Session) MoveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.moveCount
}

// Elapsed returns the time since the session started.
func (s *Session) Elapsed() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateRecording {
		return 0
	}
	return time.Since(s.startTime)
}

// Start opens a new session.
func (s *Session) Start(source, notes string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRecording {
		return "", ErrAlreadyRecording
	}

	id, err := s.sessions.Create(source, notes)
	if err != nil {
		return "", fmt.Errorf("failed to start session: %w", err)
	}

	s.sessionID = id
	s.startTime = time.Now()
	s.moveCount = 0
	s.state = StateRecording

	s.log.Info("session started", zap.String("session", id), zap.String("source", source))
	return id, nil
}

// Resume continues an unfinished session.
func (s *Session) Resume(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if sess == nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if sess.EndedAt != nil {
		return ErrSessionEnded
	}

	next, err := s.moves.NextSeq(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get next move index: %w", err)
	}

	s.sessionID = sessionID
	s.startTime = sess.StartedAt
	s.moveCount = next
	s.state = StateRecording
	return nil
}

// End closes the session.
func (s *Session) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return ErrNotRecording
	}
	if err := s.sessions.End(s.sessionID); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	s.state = StateEnded
	s.log.Info("session ended",
		zap.String("session", s.sessionID),
		zap.Int("moves", s.moveCount),
		zap.Duration("elapsed", time.Since(s.startTime)))
	return nil
}

// RecordMove appends a completed move. It is a no-op when idle.
func (s *Session) RecordMove(m types.Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return nil
	}
	if _, err := s.moves.Append(s.sessionID, m, time.Now()); err != nil {
		return fmt.Errorf("failed to record move: %w", err)
	}
	s.moveCount++
	return nil
}

// RecordState stores a snapshot of st. Blank states are skipped.
// Snapshots can be stored without a session in progress.
func (s *Session) RecordState(st cubesolver.State) (string, error) {
	if st.Status() == cubesolver.StatusNotValidated {
		return "", nil
	}

	s.mu.RLock()
	sessionID := ""
	if s.state == StateRecording {
		sessionID = s.sessionID
	}
	s.mu.RUnlock()

	id, err := s.snapshots.Create(sessionID, st.Facelets, st.Status().String(), st.Message(), types.FormatMoves(st.Solution()))
	if err != nil {
		return "", fmt.Errorf("failed to record state: %w", err)
	}
	return id, nil
}

// Replay applies the moves recorded for sessionID to p, in order.
func Replay(db *storage.DB, sessionID string, p *cubesolver.Puzzle) ([]types.Move, error) {
	records, err := storage.NewMoveRepository(db).GetBySession(sessionID)
	if err != nil {
		return nil, err
	}

	moves := make([]types.Move, 0, len(records))
	for _, rec := range records {
		m, err := rec.Move()
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", rec.Seq, err)
		}
		moves = append(moves, m)
	}

	if err := p.Apply(moves...); err != nil {
		return nil, fmt.Errorf("failed to replay session: %w", err)
	}
	return moves, nil
}
