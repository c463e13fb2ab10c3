// Package rotation drives slice turns over time. At most one turn is
// active across the whole assembly.
package rotation

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/SeamusWaldron/cubesolver/internal/geom"
	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

// Default turn durations.
const (
	DefaultQuarterTurn = 700 * time.Millisecond
	DefaultHalfTurn    = 1200 * time.Millisecond
)

// Rig is the part of the assembly the animator drives.
type Rig interface {
	Prepare(s types.Slice)
	Finalize(s types.Slice)
	PivotRotation(s types.Slice) mgl64.Quat
	SetPivotRotation(s types.Slice, q mgl64.Quat)
}

// State is the animator state.
type State int

const (
	StateIdle State = iota
	StateAnimating
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAnimating:
		return "animating"
	default:
		return "unknown"
	}
}

// Animation is an in-flight turn.
type Animation struct {
	Move     types.Move
	Target   float64 // radians about the slice axis
	Elapsed  time.Duration
	Duration time.Duration
	Initial  mgl64.Quat // pivot orientation before the turn
	Prepared bool
}

// Progress returns elapsed/duration clamped to [0, 1].
func (a *Animation) Progress() float64 {
	if a.Duration <= 0 {
		return 1
	}
	p := float64(a.Elapsed) / float64(a.Duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Completed is emitted when a turn has been baked into the assembly.
type Completed struct {
	Slice types.Slice `json:"slice"`
	Turn  types.Turn  `json:"turn"`
}

// Move returns the move that completed.
func (c Completed) Move() types.Move {
	return types.Move{Slice: c.Slice, Turn: c.Turn}
}

// Option configures an Animator.
type Option func(*Animator)

// WithDurations sets the quarter and half turn durations.
func WithDurations(quarter, half time.Duration) Option {
	return func(a *Animator) {
		a.quarter = quarter
		a.half = half
	}
}

// WithLogger sets the animator's logger.
func WithLogger(log *zap.Logger) Option {
	return func(a *Animator) {
		a.log = log
	}
}

// Animator is the Idle -> Animating -> Idle state machine.
type Animator struct {
	rig     Rig
	active  *Animation // ActiveTurn
	quarter time.Duration
	half    time.Duration
	log     *zap.Logger
}

// NewAnimator creates an idle animator for rig.
func NewAnimator(rig Rig, opts ...Option) *Animator {
	a := &Animator{
		rig:     rig,
		quarter: DefaultQuarterTurn,
		half:    DefaultHalfTurn,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// State returns the current state.
func (a *Animator) State() State {
	if a.active != nil {
		return StateAnimating
	}
	return StateIdle
}

// IsBusy reports whether a turn is in flight.
func (a *Animator) IsBusy() bool {
	return a.active != nil
}

// Active returns a copy of the in-flight animation, if any.
func (a *Animator) Active() (Animation, bool) {
	if a.active == nil {
		return Animation{}, false
	}
	return *a.active, true
}

// DurationFor returns how long m takes to animate.
func (a *Animator) DurationFor(m types.Move) time.Duration {
	if m.Turn.IsHalf() {
		return a.half
	}
	return a.quarter
}

// TryStart begins animating m. It returns false, and changes nothing,
// when another turn is already in flight.
func (a *Animator) TryStart(m types.Move) bool {
	if a.active != nil {
		a.log.Warn("move discarded, rotation in progress",
			zap.String("move", m.Notation()),
			zap.String("active", a.active.Move.Notation()))
		return false
	}
	a.active = &Animation{
		Move:     m,
		Target:   m.TargetAngle(),
		Duration: a.DurationFor(m),
		Initial:  a.rig.PivotRotation(m.Slice),
	}
	a.log.Debug("rotation started", zap.String("move", m.Notation()))
	return true
}

// Prepare reparents the pieces of the active slice if that has not
// happened yet. It returns false when idle.
func (a *Animator) Prepare() bool {
	if a.active == nil {
		return false
	}
	if !a.active.Prepared {
		a.rig.Prepare(a.active.Move.Slice)
		a.active.Prepared = true
	}
	return true
}

// Tick advances the active turn by dt. On the tick that reaches the
// duration the full target angle is applied, the turn is baked and a
// Completed event is returned.
func (a *Animator) Tick(dt time.Duration) (Completed, bool) {
	if !a.Prepare() {
		return Completed{}, false
	}
	anim := a.active
	anim.Elapsed += dt

	slice := anim.Move.Slice
	axis := geom.AxisVector(slice.Axis())
	angle := anim.Target * anim.Progress()
	a.rig.SetPivotRotation(slice, anim.Initial.Mul(mgl64.QuatRotate(angle, axis)))

	if anim.Elapsed < anim.Duration {
		return Completed{}, false
	}

	a.rig.Finalize(slice)
	a.active = nil

	done := Completed{Slice: slice, Turn: anim.Move.Turn}
	a.log.Info("rotation completed", zap.String("move", anim.Move.Notation()))
	return done, true
}
