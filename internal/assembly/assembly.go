// Package assembly holds the cube's pieces, stickers and slice pivots in
// flat arrays. Each piece records the index of its current owner (the
// root or one of the nine pivots); world poses are recomputed on demand
// by walking root -> pivot -> piece.
package assembly

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/SeamusWaldron/cubesolver/internal/geom"
	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

// Sentinel errors for the assembly package.
var (
	ErrGeometryLookupMiss = errors.New("assembly: geometry lookup miss")
	ErrUnknownSticker     = errors.New("assembly: unknown sticker")
	ErrInvalidColor       = errors.New("assembly: invalid color")
)

// Construction constants.
const (
	PieceScale    = 0.9
	StickerScale  = 0.9
	stickerInset  = 0.505
	stickerRaise  = 0.01
	pivotCount    = 9
	expectedCount = 26
)

// Owner identifies the current parent of a piece.
type Owner int

// OwnerRoot means the piece is parented directly to the assembly root.
const OwnerRoot Owner = -1

// PivotOwner returns the owner value for the pivot of slice.
func PivotOwner(s types.Slice) Owner {
	return Owner(s)
}

// IsRoot reports whether o is the root.
func (o Owner) IsRoot() bool {
	return o == OwnerRoot
}

func (o Owner) String() string {
	if o.IsRoot() {
		return "root"
	}
	return types.Slice(o).String()
}

// Piece is one of the 26 visible cubies.
type Piece struct {
	ID    int
	Rest  [3]int
	Local geom.Transform
	Owner Owner
}

// Sticker is a colored face of a piece.
type Sticker struct {
	ID     int
	Piece  int
	Face   types.Face
	Offset geom.Transform
	Color  types.Color
}

// Pivot is the rotation handle of one slice.
type Pivot struct {
	Slice    types.Slice
	Local    geom.Transform
	Baseline geom.Transform
	Prepared bool
}

// Option configures an Assembly.
type Option func(*Assembly)

// WithGridStep overrides the spacing between piece centers.
func WithGridStep(step float64) Option {
	return func(a *Assembly) {
		a.step = step
	}
}

// WithLogger sets the logger used for geometry misses.
func WithLogger(log *zap.Logger) Option {
	return func(a *Assembly) {
		a.log = log
	}
}

// Assembly is the arena of pieces, stickers and pivots.
// It is not safe for concurrent use.
type Assembly struct {
	step     float64
	root     geom.Transform
	pieces   []Piece
	stickers []Sticker
	pivots   [pivotCount]Pivot
	log      *zap.Logger

	colorVersion uint64
	poseVersion  uint64
}

// New builds a cube at rest with all stickers blank.
func New(opts ...Option) *Assembly {
	a := &Assembly{
		step: geom.GridStep,
		root: geom.Identity(),
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}

	for _, s := range types.AllSlices {
		a.pivots[s] = Pivot{
			Slice:    s,
			Local:    geom.Identity(),
			Baseline: geom.Identity(),
		}
	}

	a.pieces = make([]Piece, 0, expectedCount)
	a.stickers = make([]Sticker, 0, types.FaceletCount)

	for x := -1; x <= 1; x++ {
		for y := -1; y <= 1; y++ {
			for z := -1; z <= 1; z++ {
				if x == 0 && y == 0 && z == 0 {
					continue
				}
				a.addPiece([3]int{x, y, z})
			}
		}
	}

	return a
}

func (a *Assembly) addPiece(rest [3]int) {
	id := len(a.pieces)
	a.pieces = append(a.pieces, Piece{
		ID:    id,
		Rest:  rest,
		Local: a.restPose(rest),
		Owner: OwnerRoot,
	})

	offset := a.step*stickerInset + stickerRaise
	for _, face := range types.FaceOrder {
		axis, out := face.Normal()
		if rest[axis] != out {
			continue
		}
		dir := geom.AxisVector(axis).Mul(float64(out) * offset)
		a.stickers = append(a.stickers, Sticker{
			ID:     len(a.stickers),
			Piece:  id,
			Face:   face,
			Offset: geom.FromTranslation(dir).WithUniformScale(StickerScale),
			Color:  types.ColorNone,
		})
	}
}

func (a *Assembly) restPose(rest [3]int) geom.Transform {
	pos := mgl64.Vec3{float64(rest[0]), float64(rest[1]), float64(rest[2])}.Mul(a.step)
	return geom.FromTranslation(pos).WithUniformScale(PieceScale)
}

// Step returns the grid step.
func (a *Assembly) Step() float64 {
	return a.step
}

// Root returns the world pose of the assembly root.
func (a *Assembly) Root() geom.Transform {
	return a.root
}

// SetRootRotation reorients the whole assembly. Piece ownership and
// local poses are untouched.
func (a *Assembly) SetRootRotation(q mgl64.Quat) {
	a.root.Rotation = q.Normalize()
}

// Pieces returns a copy of the piece table.
func (a *Assembly) Pieces() []Piece {
	out := make([]Piece, len(a.pieces))
	copy(out, a.pieces)
	return out
}

// Stickers returns a copy of the sticker table.
func (a *Assembly) Stickers() []Sticker {
	out := make([]Sticker, len(a.stickers))
	copy(out, a.stickers)
	return out
}

// Pivot returns the pivot of slice.
func (a *Assembly) Pivot(s types.Slice) Pivot {
	return a.pivots[s]
}

// PivotRotation returns the local rotation of a pivot.
func (a *Assembly) PivotRotation(s types.Slice) mgl64.Quat {
	return a.pivots[s].Local.Rotation
}

// SetPivotRotation sets the local rotation of a pivot.
func (a *Assembly) SetPivotRotation(s types.Slice, q mgl64.Quat) {
	a.pivots[s].Local.Rotation = q
}

// ColorVersion increases every time a sticker color changes.
func (a *Assembly) ColorVersion() uint64 {
	return a.colorVersion
}

// PoseVersion increases every time a turn is baked or poses are reset.
func (a *Assembly) PoseVersion() uint64 {
	return a.poseVersion
}

// SetColor assigns a color to a sticker. types.ColorNone clears it.
func (a *Assembly) SetColor(sticker int, c types.Color) error {
	if sticker < 0 || sticker >= len(a.stickers) {
		return fmt.Errorf("%w: %d", ErrUnknownSticker, sticker)
	}
	if c != types.ColorNone && !c.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidColor, c)
	}
	if a.stickers[sticker].Color == c {
		return nil
	}
	a.stickers[sticker].Color = c
	a.colorVersion++
	return nil
}

// ClearColors blanks every sticker.
func (a *Assembly) ClearColors() {
	changed := false
	for i := range a.stickers {
		if a.stickers[i].Color != types.ColorNone {
			a.stickers[i].Color = types.ColorNone
			changed = true
		}
	}
	if changed {
		a.colorVersion++
	}
}

// ResetPoses returns every piece to its rest pose under the root and
// every pivot to its baseline. Sticker colors travel with their pieces.
func (a *Assembly) ResetPoses() {
	for i := range a.pieces {
		a.pieces[i].Local = a.restPose(a.pieces[i].Rest)
		a.pieces[i].Owner = OwnerRoot
	}
	for i := range a.pivots {
		a.pivots[i].Local = a.pivots[i].Baseline
		a.pivots[i].Prepared = false
	}
	a.poseVersion++
}

func (a *Assembly) parentWorld(o Owner) (geom.Transform, error) {
	if o.IsRoot() {
		return a.root, nil
	}
	if int(o) < 0 || int(o) >= pivotCount {
		return geom.Transform{}, fmt.Errorf("%w: owner %d", ErrGeometryLookupMiss, o)
	}
	w, err := a.root.Compose(a.pivots[o].Local)
	if err != nil {
		return geom.Transform{}, fmt.Errorf("%w: pivot %s: %v", ErrGeometryLookupMiss, o, err)
	}
	return w, nil
}

// PieceWorld returns the world pose of a piece.
func (a *Assembly) PieceWorld(id int) (geom.Transform, error) {
	if id < 0 || id >= len(a.pieces) {
		return geom.Transform{}, fmt.Errorf("%w: piece %d", ErrGeometryLookupMiss, id)
	}
	p := a.pieces[id]
	parent, err := a.parentWorld(p.Owner)
	if err != nil {
		return geom.Transform{}, err
	}
	w, err := parent.Compose(p.Local)
	if err != nil {
		return geom.Transform{}, fmt.Errorf("%w: piece %d: %v", ErrGeometryLookupMiss, id, err)
	}
	return w, nil
}

// PieceRootPose returns the pose of a piece relative to the root.
func (a *Assembly) PieceRootPose(id int) (geom.Transform, error) {
	w, err := a.PieceWorld(id)
	if err != nil {
		return geom.Transform{}, err
	}
	rel, err := geom.Relative(a.root, w)
	if err != nil {
		return geom.Transform{}, fmt.Errorf("%w: piece %d: %v", ErrGeometryLookupMiss, id, err)
	}
	return rel, nil
}

// PieceLattice returns the lattice coordinate a piece currently sits on.
func (a *Assembly) PieceLattice(id int) ([3]int, error) {
	rel, err := a.PieceRootPose(id)
	if err != nil {
		return [3]int{}, err
	}
	return geom.LatticeIndex(rel.Translation, a.step), nil
}

// StickerRootPose returns the pose of a sticker relative to the root.
func (a *Assembly) StickerRootPose(id int) (geom.Transform, error) {
	if id < 0 || id >= len(a.stickers) {
		return geom.Transform{}, fmt.Errorf("%w: sticker %d", ErrGeometryLookupMiss, id)
	}
	s := a.stickers[id]
	pw, err := a.PieceWorld(s.Piece)
	if err != nil {
		return geom.Transform{}, err
	}
	w, err := pw.Compose(s.Offset)
	if err != nil {
		return geom.Transform{}, fmt.Errorf("%w: sticker %d: %v", ErrGeometryLookupMiss, id, err)
	}
	rel, err := geom.Relative(a.root, w)
	if err != nil {
		return geom.Transform{}, fmt.Errorf("%w: sticker %d: %v", ErrGeometryLookupMiss, id, err)
	}
	return rel, nil
}

// StickerFace returns the face a sticker currently points to.
func (a *Assembly) StickerFace(id int) (types.Face, error) {
	rel, err := a.StickerRootPose(id)
	if err != nil {
		return 0, err
	}
	return DominantFace(rel.Translation), nil
}

// DominantFace returns the face whose normal is closest to v, choosing
// the axis with the largest magnitude.
func DominantFace(v mgl64.Vec3) types.Face {
	ax, ay, az := abs(v.X()), abs(v.Y()), abs(v.Z())
	switch {
	case ax > ay && ax > az:
		return types.FaceFromNormal(types.AxisX, sign(v.X()))
	case ay > az:
		return types.FaceFromNormal(types.AxisY, sign(v.Y()))
	default:
		return types.FaceFromNormal(types.AxisZ, sign(v.Z()))
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}
