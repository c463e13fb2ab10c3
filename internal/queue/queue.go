// Package queue holds moves waiting to be played on a puzzle: a FIFO of
// pending moves and a solution that can be stepped through in both
// directions.
package queue

import (
	"errors"

	"go.uber.org/zap"

	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

// Sentinel errors for the queue package.
var (
	ErrMoveInProgress = errors.New("queue: a move is in progress")
	ErrAtStart        = errors.New("queue: already at the beginning of the sequence")
	ErrAtEnd          = errors.New("queue: already at the end of the sequence")
	ErrEmpty          = errors.New("queue: no moves loaded")
)

// Dispatcher starts moves on a puzzle.
type Dispatcher interface {
	DispatchMove(m types.Move) error
	Busy() bool
}

// Queue is not safe for concurrent use.
type Queue struct {
	solution  []types.Move
	highlight int // 0..len(solution)
	pending   []types.Move
	current   *types.Move
	log       *zap.Logger
}

// New creates an empty queue. A nil logger is replaced by a no-op one.
func New(log *zap.Logger) *Queue {
	if log == nil {
		log = zap.NewNop()
	}
	return &Queue{log: log}
}

// Load replaces the solution and moves the highlight to its start.
func (q *Queue) Load(solution []types.Move) {
	q.solution = append([]types.Move(nil), solution...)
	q.highlight = 0
}

// Enqueue appends moves to the pending FIFO.
func (q *Queue) Enqueue(moves ...types.Move) {
	q.pending = append(q.pending, moves...)
}

// Clear drops the solution, pending moves and the current move.
func (q *Queue) Clear() {
	q.solution = nil
	q.highlight = 0
	q.pending = nil
	q.current = nil
}

// Next returns the move at the highlight and advances it. The move
// becomes current until OnCompleted.
func (q *Queue) Next() (types.Move, error) {
	if err := q.check(); err != nil {
		return types.Move{}, err
	}
	if q.highlight >= len(q.solution) {
		return types.Move{}, ErrAtEnd
	}
	m := q.solution[q.highlight]
	q.highlight++
	q.current = &m
	q.log.Debug("step forward", zap.String("move", m.Notation()), zap.Int("position", q.highlight))
	return m, nil
}

// Prev moves the highlight back and returns the inverse of the move it
// passes over.
func (q *Queue) Prev() (types.Move, error) {
	if err := q.check(); err != nil {
		return types.Move{}, err
	}
	if q.highlight == 0 {
		return types.Move{}, ErrAtStart
	}
	q.highlight--
	m := q.solution[q.highlight].Inverse()
	q.current = &m
	q.log.Debug("step back", zap.String("move", m.Notation()), zap.Int("position", q.highlight))
	return m, nil
}

func (q *Queue) check() error {
	if len(q.solution) == 0 {
		return ErrEmpty
	}
	if q.current != nil {
		return ErrMoveInProgress
	}
	return nil
}

// Drive dispatches the next pending move when nothing is current and d
// is idle. It reports whether a move was started.
func (q *Queue) Drive(d Dispatcher) (bool, error) {
	if q.current != nil || len(q.pending) == 0 || d.Busy() {
		return false, nil
	}
	m := q.pending[0]
	if err := d.DispatchMove(m); err != nil {
		return false, err
	}
	q.pending = q.pending[1:]
	q.current = &m
	return true, nil
}

// OnCompleted clears the current move.
func (q *Queue) OnCompleted() {
	q.current = nil
}

// Current returns the move being played, if any.
func (q *Queue) Current() (types.Move, bool) {
	if q.current == nil {
		return types.Move{}, false
	}
	return *q.current, true
}

// Highlight returns the position between played and upcoming moves.
func (q *Queue) Highlight() int {
	return q.highlight
}

// Played returns the solution moves before the highlight.
func (q *Queue) Played() []types.Move {
	return q.solution[:q.highlight]
}

// Upcoming returns the solution moves from the highlight on.
func (q *Queue) Upcoming() []types.Move {
	return q.solution[q.highlight:]
}

// Pending returns the number of queued moves.
func (q *Queue) Pending() int {
	return len(q.pending)
}

// Idle reports whether there is nothing current and nothing pending.
func (q *Queue) Idle() bool {
	return q.current == nil && len(q.pending) == 0
}
