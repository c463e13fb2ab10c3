package cubesolver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/SeamusWaldron/cubesolver/internal/assembly"
	"github.com/SeamusWaldron/cubesolver/internal/facelet"
	"github.com/SeamusWaldron/cubesolver/internal/rotation"
	"github.com/SeamusWaldron/cubesolver/internal/validate"
	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

// DragSensitivity converts drag distance into radians for Reorient.
const DragSensitivity = 0.005

// RotationCompleted is delivered when a turn has been baked into the
// assembly.
type RotationCompleted = rotation.Completed

// Sticker describes one sticker of the puzzle.
type Sticker struct {
	ID    int   `json:"id"`
	Piece int   `json:"piece"`
	Face  Face  `json:"face"` // face the sticker currently points to
	Color Color `json:"color"`
}

// Puzzle is a virtual 3x3x3 puzzle.
//
// Puzzle is driven by Tick and is not safe for concurrent use.
type Puzzle struct {
	cfg       *config
	asm       *assembly.Assembly
	anim      *rotation.Animator
	mapper    *facelet.Mapper
	validator *validate.Validator
	log       *zap.Logger

	tracker stateTracker
	state   State

	// Callbacks
	onRotation func(RotationCompleted)
	onState    func(StateChanged)
}

// New creates a puzzle at rest with every sticker blank.
func New(opts ...Option) *Puzzle {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	asm := assembly.New(
		assembly.WithGridStep(cfg.gridStep),
		assembly.WithLogger(cfg.log.Named("assembly")),
	)

	p := &Puzzle{
		cfg: cfg,
		asm: asm,
		anim: rotation.NewAnimator(asm,
			rotation.WithDurations(cfg.quarterTurn, cfg.halfTurn),
			rotation.WithLogger(cfg.log.Named("rotation")),
		),
		mapper: facelet.NewMapper(cfg.log.Named("facelet")),
		validator: validate.New(cfg.oracle,
			validate.WithMaxDepth(cfg.maxDepth),
			validate.WithVerification(cfg.verify),
			validate.WithLogger(cfg.log.Named("validate")),
		),
		log: cfg.log,
	}
	p.refresh()
	return p
}

// Event callbacks

// OnRotationCompleted sets a callback that fires after each turn is
// baked, before the state is recomputed.
func (p *Puzzle) OnRotationCompleted(cb func(RotationCompleted)) {
	p.onRotation = cb
}

// OnStateChange sets a callback that fires whenever the derived state
// is recomputed or a solve finishes.
func (p *Puzzle) OnStateChange(cb func(StateChanged)) {
	p.onState = cb
}

// Turns

// Dispatch parses notation and starts the turn. A move dispatched while
// another turn is in flight is discarded with ErrRotationInProgress.
func (p *Puzzle) Dispatch(notation string) error {
	m, err := types.ParseMove(notation)
	if err != nil {
		p.log.Warn("move rejected", zap.String("move", notation), zap.Error(err))
		return err
	}
	return p.DispatchMove(m)
}

// DispatchMove starts m.
func (p *Puzzle) DispatchMove(m Move) error {
	if !p.anim.TryStart(m) {
		return fmt.Errorf("%w: %s discarded", ErrRotationInProgress, m.Notation())
	}
	p.anim.Prepare()
	return nil
}

// Busy reports whether a turn is in flight.
func (p *Puzzle) Busy() bool {
	return p.anim.IsBusy()
}

// Active returns the in-flight turn, if any.
func (p *Puzzle) Active() (Move, float64, bool) {
	a, ok := p.anim.Active()
	if !ok {
		return Move{}, 0, false
	}
	return a.Move, a.Progress(), true
}

// Tick advances the active turn by dt. When the turn completes it is
// returned and the state is recomputed.
func (p *Puzzle) Tick(dt time.Duration) (RotationCompleted, bool) {
	done, ok := p.anim.Tick(dt)
	if ok && p.onRotation != nil {
		p.onRotation(done)
	}
	p.refresh()
	return done, ok
}

// Apply runs moves to completion, one tick per move.
func (p *Puzzle) Apply(moves ...Move) error {
	for _, m := range moves {
		if err := p.DispatchMove(m); err != nil {
			return err
		}
		for p.Busy() {
			p.Tick(p.anim.DurationFor(m))
		}
	}
	return nil
}

// ApplyNotation parses a space-separated sequence and runs it to
// completion.
func (p *Puzzle) ApplyNotation(s string) error {
	moves, err := types.ParseMoves(s)
	if err != nil {
		return err
	}
	return p.Apply(moves...)
}

// Colors

// Stickers returns every sticker with the face it currently points to.
func (p *Puzzle) Stickers() []Sticker {
	raw := p.asm.Stickers()
	out := make([]Sticker, 0, len(raw))
	for _, s := range raw {
		face, err := p.asm.StickerFace(s.ID)
		if err != nil {
			p.log.Debug("sticker face unavailable", zap.Int("sticker", s.ID), zap.Error(err))
			face = s.Face
		}
		out = append(out, Sticker{ID: s.ID, Piece: s.Piece, Face: face, Color: s.Color})
	}
	return out
}

// StickerAt returns the sticker currently shown at a facelet index.
func (p *Puzzle) StickerAt(index int) (Sticker, bool) {
	for _, s := range p.asm.Stickers() {
		spose, err := p.asm.StickerRootPose(s.ID)
		if err != nil {
			continue
		}
		lattice, err := p.asm.PieceLattice(s.Piece)
		if err != nil {
			continue
		}
		face := assembly.DominantFace(spose.Translation)
		if facelet.Index(face, lattice) == index {
			return Sticker{ID: s.ID, Piece: s.Piece, Face: face, Color: s.Color}, true
		}
	}
	return Sticker{}, false
}

// SetColor colors a sticker. types.ColorNone clears it.
func (p *Puzzle) SetColor(sticker int, c Color) error {
	if err := p.asm.SetColor(sticker, c); err != nil {
		return err
	}
	p.refresh()
	return nil
}

// PaintSolved colors every sticker with the solved color of the face
// it currently points to.
func (p *Puzzle) PaintSolved() error {
	if p.Busy() {
		return ErrRotationInProgress
	}
	for _, s := range p.Stickers() {
		if err := p.asm.SetColor(s.ID, types.SolvedColor(s.Face)); err != nil {
			return err
		}
	}
	p.refresh()
	return nil
}

// ClearColors blanks every sticker, which also resets validation.
func (p *Puzzle) ClearColors() {
	p.asm.ClearColors()
	p.refresh()
}

// Orientation

// Reorient rotates the whole puzzle by a drag of (dx, dy): yaw about Y,
// then pitch about X. The facelet string does not change.
func (p *Puzzle) Reorient(dx, dy float64) {
	yaw := mgl64.QuatRotate(dx*DragSensitivity, mgl64.Vec3{0, 1, 0})
	pitch := mgl64.QuatRotate(dy*DragSensitivity, mgl64.Vec3{1, 0, 0})
	p.asm.SetRootRotation(pitch.Mul(yaw).Mul(p.asm.Root().Rotation))
}

// SetOrientation sets the root rotation directly.
func (p *Puzzle) SetOrientation(q mgl64.Quat) {
	p.asm.SetRootRotation(q)
}

// Orientation returns the root rotation.
func (p *Puzzle) Orientation() mgl64.Quat {
	return p.asm.Root().Rotation
}

// ResetOrientation returns the root rotation to identity.
func (p *Puzzle) ResetOrientation() {
	p.asm.SetRootRotation(mgl64.QuatIdent())
}

// Reset returns every piece to its rest position. Colors travel with
// their pieces. It is refused while a turn is in flight.
func (p *Puzzle) Reset() error {
	if p.Busy() {
		return ErrRotationInProgress
	}
	p.asm.ResetPoses()
	p.refresh()
	return nil
}

// State

// State returns the derived state, recomputing it if stale.
func (p *Puzzle) State() State {
	p.refresh()
	return p.state
}

// Facelets returns the canonical facelet string.
func (p *Puzzle) Facelets() string {
	return p.State().Facelets
}

// PieceLattice returns the lattice coordinate piece id sits on.
func (p *Puzzle) PieceLattice(id int) ([3]int, error) {
	return p.asm.PieceLattice(id)
}

// PieceRest returns the rest lattice coordinate of every piece, by id.
func (p *Puzzle) PieceRest() [][3]int {
	pieces := p.asm.Pieces()
	out := make([][3]int, len(pieces))
	for i, pc := range pieces {
		out[i] = pc.Rest
	}
	return out
}

// Solve runs full validation of the current state through the oracle.
// The result is kept until the state changes.
func (p *Puzzle) Solve(ctx context.Context) Result {
	p.refresh()
	if p.state.Result.Status == StatusInvalid {
		return p.state.Result
	}

	res := p.validator.Solve(ctx, p.state.Facelets)
	p.state.Result = res
	p.emitState()
	return res
}

// refresh recomputes the state when the assembly changed since the
// last observation.
func (p *Puzzle) refresh() {
	colors, poses := p.asm.ColorVersion(), p.asm.PoseVersion()
	if !p.tracker.stale(colors, poses) {
		return
	}
	p.tracker.observe(colors, poses)
	p.state = p.derive()
	p.emitState()
}

func (p *Puzzle) derive() State {
	raw, misses := p.mapper.Map(p.asm)
	st := State{Raw: raw, Facelets: raw, Misses: misses}

	if strings.TrimSpace(raw) == "" {
		return st
	}

	canonical, err := facelet.Canonicalize(raw)
	if err != nil {
		p.log.Warn("cannot canonicalize facelets", zap.String("raw", raw), zap.Error(err))
		st.Result = Result{Status: StatusInvalid, Err: err}
		return st
	}
	st.Facelets = canonical
	st.Result = p.validator.Check(canonical)
	return st
}

func (p *Puzzle) emitState() {
	if p.onState != nil {
		p.onState(StateChanged{State: p.state})
	}
}
