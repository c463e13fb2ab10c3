package feed

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/SeamusWaldron/cubesolver"
	"github.com/SeamusWaldron/cubesolver/internal/queue"
	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

// ErrStopped is returned when the engine loop is not running.
var ErrStopped = errors.New("feed: engine stopped")

// Engine owns a puzzle and its move queue. Every access goes through
// the loop goroutine started by Run.
type Engine struct {
	puzzle *cubesolver.Puzzle
	queue  *queue.Queue
	hub    *Hub
	tick   time.Duration
	log    *zap.Logger

	cmds chan func()
	done chan struct{}

	onMove func(types.Move)
}

// NewEngine wires p to hub. Tick is the loop period.
func NewEngine(p *cubesolver.Puzzle, hub *Hub, tick time.Duration, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if tick <= 0 {
		tick = 16 * time.Millisecond
	}

	e := &Engine{
		puzzle: p,
		queue:  queue.New(log.Named("queue")),
		hub:    hub,
		tick:   tick,
		log:    log,
		cmds:   make(chan func()),
		done:   make(chan struct{}),
	}

	p.OnRotationCompleted(func(c cubesolver.RotationCompleted) {
		e.queue.OnCompleted()
		e.hub.Publish(Event{Type: EventRotationCompleted, Time: time.Now(), Move: c.Move().Notation()})
		if e.onMove != nil {
			e.onMove(c.Move())
		}
	})
	p.OnStateChange(func(sc cubesolver.StateChanged) {
		e.hub.Publish(Event{Type: EventStateChanged, Time: time.Now(), State: e.payload(sc.State)})
	})
	return e
}

// OnMove sets a callback for every completed move. It runs on the loop
// goroutine and must be set before Run.
func (e *Engine) OnMove(cb func(types.Move)) {
	e.onMove = cb
}

// Run drives the puzzle until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	defer close(e.done)

	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	last := time.Now()
	e.log.Info("engine started", zap.Duration("tick", e.tick))
	for {
		select {
		case <-ctx.Done():
			e.log.Info("engine stopped")
			return ctx.Err()
		case fn := <-e.cmds:
			fn()
		case now := <-ticker.C:
			e.Step(now.Sub(last))
			last = now
		}
	}
}

// Step feeds the queue and advances the puzzle by dt. It must only be
// called from the loop goroutine, or before Run.
func (e *Engine) Step(dt time.Duration) {
	if _, err := e.queue.Drive(e.puzzle); err != nil {
		e.log.Warn("queued move rejected", zap.Error(err))
	}
	e.puzzle.Tick(dt)
}

// Do runs fn on the loop goroutine and waits for it.
func (e *Engine) Do(ctx context.Context, fn func(p *cubesolver.Puzzle, q *queue.Queue)) error {
	finished := make(chan struct{})
	cmd := func() {
		defer close(finished)
		fn(e.puzzle, e.queue)
	}

	select {
	case e.cmds <- cmd:
	case <-e.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit parses notation and queues its moves.
func (e *Engine) Submit(ctx context.Context, notation string) ([]types.Move, error) {
	moves, err := types.ParseMoves(notation)
	if err != nil {
		return nil, err
	}
	if err := e.Enqueue(ctx, moves...); err != nil {
		return nil, err
	}
	return moves, nil
}

// Enqueue queues moves behind any already pending.
func (e *Engine) Enqueue(ctx context.Context, moves ...types.Move) error {
	err := e.Do(ctx, func(_ *cubesolver.Puzzle, q *queue.Queue) {
		q.Enqueue(moves...)
	})
	if err != nil {
		return err
	}
	e.log.Debug("moves queued", zap.String("moves", types.FormatMoves(moves)))
	return nil
}

// Snapshot returns the current state.
func (e *Engine) Snapshot(ctx context.Context) (*StatePayload, error) {
	var out *StatePayload
	err := e.Do(ctx, func(p *cubesolver.Puzzle, _ *queue.Queue) {
		out = e.payload(p.State())
	})
	return out, err
}

// Solve runs full validation through the oracle and loads a found
// solution into the queue.
func (e *Engine) Solve(ctx context.Context) (*StatePayload, error) {
	var out *StatePayload
	err := e.Do(ctx, func(p *cubesolver.Puzzle, q *queue.Queue) {
		res := p.Solve(ctx)
		if res.Status == cubesolver.StatusSolved {
			q.Load(res.Solution)
		}
		out = e.payload(p.State())
	})
	return out, err
}

func (e *Engine) payload(st cubesolver.State) *StatePayload {
	p := newStatePayload(st)
	p.Busy = e.puzzle.Busy()
	p.Pending = e.queue.Pending()
	return p
}
