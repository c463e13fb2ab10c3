package assembly

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubesolver/internal/geom"
	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

func TestNewAssembly(t *testing.T) {
	a := New()
	require.Len(t, a.Pieces(), 26)
	require.Len(t, a.Stickers(), 54)

	perFace := map[types.Face]int{}
	for _, s := range a.Stickers() {
		perFace[s.Face]++
		assert.Equal(t, types.ColorNone, s.Color)

		face, err := a.StickerFace(s.ID)
		require.NoError(t, err)
		assert.Equal(t, s.Face, face)
	}
	for _, f := range types.FaceOrder {
		assert.Equal(t, 9, perFace[f], "face %s", f)
	}

	for _, p := range a.Pieces() {
		assert.True(t, p.Owner.IsRoot())
		lat, err := a.PieceLattice(p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.Rest, lat)
	}
}

func TestBelongsTo(t *testing.T) {
	assert.True(t, BelongsTo(mgl64.Vec3{1, 0, 0}, types.SliceRight))
	assert.False(t, BelongsTo(mgl64.Vec3{0, 0, 0}, types.SliceRight))
	assert.True(t, BelongsTo(mgl64.Vec3{-1, 1, 1}, types.SliceLeft))
	assert.True(t, BelongsTo(mgl64.Vec3{0, 1, 1}, types.SliceMidX))
	assert.False(t, BelongsTo(mgl64.Vec3{1, 1, 1}, types.SliceMidX))
	assert.True(t, BelongsTo(mgl64.Vec3{1, -1, 0}, types.SliceMidZ))
	assert.True(t, BelongsTo(mgl64.Vec3{1, -1, 0}, types.SliceDown))
	assert.False(t, BelongsTo(mgl64.Vec3{1, -1, 0}, types.SliceUp))

	// inside the tolerance band a coordinate counts for both layers
	assert.True(t, BelongsTo(mgl64.Vec3{0.45, 0, 0}, types.SliceRight))
	assert.True(t, BelongsTo(mgl64.Vec3{0.45, 0, 0}, types.SliceMidX))
}

func TestPrepareMembersAndPosePreserved(t *testing.T) {
	a := New()
	a.SetRootRotation(mgl64.QuatRotate(0.4, mgl64.Vec3{0, 1, 0}))

	before := make([]geom.Transform, 26)
	for i := range before {
		w, err := a.PieceWorld(i)
		require.NoError(t, err)
		before[i] = w
	}

	for _, s := range types.AllSlices {
		a.Prepare(s)
		members := a.Members(s)
		if s.IsOuter() {
			assert.Len(t, members, 9, "slice %s", s)
		} else {
			assert.Len(t, members, 8, "slice %s", s)
		}
		for i := range before {
			w, err := a.PieceWorld(i)
			require.NoError(t, err)
			assert.True(t, before[i].Translation.ApproxEqualThreshold(w.Translation, 1e-9))
		}
		a.Finalize(s)
		assert.Empty(t, a.Members(s))
	}
}

func TestPrepareIsIdempotentWhilePrepared(t *testing.T) {
	a := New()
	a.Prepare(types.SliceUp)
	a.SetPivotRotation(types.SliceUp, mgl64.QuatRotate(0.3, mgl64.Vec3{0, 1, 0}))
	a.Prepare(types.SliceUp)
	assert.Len(t, a.Members(types.SliceUp), 9)
	assert.True(t, a.Pivot(types.SliceUp).Prepared)
}

func TestFinalizeRotatesMembers(t *testing.T) {
	a := New()
	move := types.Move{Slice: types.SliceRight, Turn: types.TurnCW}

	a.Prepare(move.Slice)
	a.SetPivotRotation(move.Slice, mgl64.QuatRotate(move.TargetAngle(), geom.AxisVector(types.AxisX)))
	a.Finalize(move.Slice)

	assert.Equal(t, uint64(1), a.PoseVersion())
	assert.False(t, a.Pivot(move.Slice).Prepared)

	for _, p := range a.Pieces() {
		lat, err := a.PieceLattice(p.ID)
		require.NoError(t, err)
		if p.Rest[0] != 1 {
			assert.Equal(t, p.Rest, lat)
			continue
		}
		// R sends the top layer to the back: (y, z) -> (z, -y)
		assert.Equal(t, [3]int{1, p.Rest[2], -p.Rest[1]}, lat, "piece %v", p.Rest)
	}
}

func TestFinalizeSnapsDrift(t *testing.T) {
	a := New()
	a.Prepare(types.SliceFront)
	// slightly short of a quarter turn
	a.SetPivotRotation(types.SliceFront, mgl64.QuatRotate(-math.Pi/2+0.02, mgl64.Vec3{0, 0, 1}))
	a.Finalize(types.SliceFront)

	for _, p := range a.Pieces() {
		rel, err := a.PieceRootPose(p.ID)
		require.NoError(t, err)
		snapped := geom.SnapTranslation(rel.Translation, a.Step())
		assert.True(t, snapped.ApproxEqualThreshold(rel.Translation, 1e-12))
		assert.True(t, geom.SameRotation(geom.SnapRotation(rel.Rotation), rel.Rotation, 1e-12))
	}
}

func TestSetColor(t *testing.T) {
	a := New()
	require.NoError(t, a.SetColor(0, types.ColorRed))
	assert.Equal(t, uint64(1), a.ColorVersion())

	// same color does not bump the version
	require.NoError(t, a.SetColor(0, types.ColorRed))
	assert.Equal(t, uint64(1), a.ColorVersion())

	assert.ErrorIs(t, a.SetColor(99, types.ColorRed), ErrUnknownSticker)
	assert.ErrorIs(t, a.SetColor(1, types.Color(9)), ErrInvalidColor)

	a.ClearColors()
	assert.Equal(t, types.ColorNone, a.Stickers()[0].Color)
	assert.Equal(t, uint64(2), a.ColorVersion())
}

func TestGeometryLookupMiss(t *testing.T) {
	a := New()
	_, err := a.PieceWorld(-1)
	assert.ErrorIs(t, err, ErrGeometryLookupMiss)
	_, err = a.StickerRootPose(100)
	assert.ErrorIs(t, err, ErrGeometryLookupMiss)
}

func TestResetPoses(t *testing.T) {
	a := New()
	a.Prepare(types.SliceUp)
	a.SetPivotRotation(types.SliceUp, mgl64.QuatRotate(-math.Pi/2, mgl64.Vec3{0, 1, 0}))
	a.Finalize(types.SliceUp)
	a.ResetPoses()

	for _, p := range a.Pieces() {
		lat, err := a.PieceLattice(p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.Rest, lat)
	}
}
