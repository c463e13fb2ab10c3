package facelet

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubesolver/internal/assembly"
	"github.com/SeamusWaldron/cubesolver/internal/facecube"
	"github.com/SeamusWaldron/cubesolver/internal/geom"
	"github.com/SeamusWaldron/cubesolver/internal/rotation"
	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

func paintedAssembly(t *testing.T) *assembly.Assembly {
	t.Helper()
	a := assembly.New()
	for _, s := range a.Stickers() {
		require.NoError(t, a.SetColor(s.ID, types.SolvedColor(s.Face)))
	}
	return a
}

func turn(t *testing.T, a *assembly.Assembly, seq string) {
	t.Helper()
	moves, err := types.ParseMoves(seq)
	require.NoError(t, err)

	anim := rotation.NewAnimator(a)
	for _, m := range moves {
		require.True(t, anim.TryStart(m))
		for {
			if _, done := anim.Tick(100 * time.Millisecond); done {
				break
			}
		}
	}
}

func canonical(t *testing.T, a *assembly.Assembly) string {
	t.Helper()
	raw, misses := NewMapper(nil).Map(a)
	require.Zero(t, misses)
	out, err := Canonicalize(raw)
	require.NoError(t, err)
	return out
}

func TestSolvedMapping(t *testing.T) {
	a := paintedAssembly(t)
	assert.Equal(t, types.SolvedFacelets, canonical(t, a))
}

func TestBlankStickers(t *testing.T) {
	a := assembly.New()
	raw, misses := NewMapper(nil).Map(a)
	assert.Zero(t, misses)
	assert.Equal(t, strings.Repeat(" ", 54), raw)

	require.NoError(t, a.SetColor(0, types.ColorRed))
	raw, _ = NewMapper(nil).Map(a)
	assert.Equal(t, 53, strings.Count(raw, " "))
}

func TestMatchesFaceletModel(t *testing.T) {
	sequences := []string{
		"R",
		"U'",
		"F2",
		"R U R' U'",
		"L D2 B' F U R2",
		"B L' D F2 R U' B2 D' L2 F'",
	}
	for _, seq := range sequences {
		t.Run(seq, func(t *testing.T) {
			a := paintedAssembly(t)
			turn(t, a, seq)

			ref := facecube.New()
			require.NoError(t, ref.ApplyNotation(seq))
			assert.Equal(t, ref.String(), canonical(t, a))
		})
	}
}

func TestOrientationInvariance(t *testing.T) {
	a := paintedAssembly(t)
	turn(t, a, "R U F'")
	want := canonical(t, a)

	rotations := []mgl64.Quat{
		mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0}),
		mgl64.QuatRotate(0.37, mgl64.Vec3{1, 0, 0}),
		mgl64.QuatRotate(2.1, mgl64.Vec3{1, -2, 0.5}.Normalize()),
	}
	q := mgl64.QuatIdent()
	for _, r := range rotations {
		q = r.Mul(q)
		a.SetRootRotation(q)
		assert.Equal(t, want, canonical(t, a))
	}

	// turns keep working on a reoriented cube
	turn(t, a, "U")
	ref := facecube.New()
	require.NoError(t, ref.ApplyNotation("R U F' U"))
	assert.Equal(t, ref.String(), canonical(t, a))
}

func TestSliceMoveIsCanonicalized(t *testing.T) {
	a := paintedAssembly(t)
	turn(t, a, "M")

	raw, _ := NewMapper(nil).Map(a)
	assert.NotEqual(t, byte('F'), raw[22], "M should carry a new center to the front")

	// M, E and S each move every center, so M M' after canonicalization
	// is the solved cube again and M alone is a whole-cube relabel of it
	got := canonical(t, a)
	assert.Equal(t, 9, strings.Count(got, "R"))
	assert.Equal(t, "RRRRRRRRR", got[9:18])
	assert.Equal(t, "LLLLLLLLL", got[36:45])

	turn(t, a, "M'")
	assert.Equal(t, types.SolvedFacelets, canonical(t, a))
}

func TestCanonicalizeRelabels(t *testing.T) {
	// the solved cube held with green up and white front
	c := facecube.New()
	raw := []byte(c.String())
	swap := map[byte]byte{'U': 'F', 'F': 'D', 'D': 'B', 'B': 'U', 'R': 'R', 'L': 'L'}
	for i, ch := range raw {
		raw[i] = swap[ch]
	}

	out, err := Canonicalize(string(raw))
	require.NoError(t, err)
	assert.Equal(t, types.SolvedFacelets, out)
}

func TestCanonicalizeEdgeCases(t *testing.T) {
	out, err := Canonicalize("UUU")
	require.NoError(t, err)
	assert.Equal(t, "UUU", out)

	blank := strings.Repeat(" ", 54)
	out, err = Canonicalize(blank)
	require.NoError(t, err)
	assert.Equal(t, blank, out)

	dup := []byte(types.SolvedFacelets)
	dup[13] = 'U'
	out, err = Canonicalize(string(dup))
	assert.True(t, errors.Is(err, ErrAmbiguousCenters))
	assert.Equal(t, string(dup), out)
}

type missingGeometry struct {
	*assembly.Assembly
	missing int
}

func (g missingGeometry) StickerRootPose(id int) (geom.Transform, error) {
	if id == g.missing {
		return geom.Transform{}, assembly.ErrGeometryLookupMiss
	}
	return g.Assembly.StickerRootPose(id)
}

func TestGeometryMissIsSkipped(t *testing.T) {
	a := paintedAssembly(t)
	raw, misses := NewMapper(nil).Map(missingGeometry{Assembly: a, missing: 0})
	assert.Equal(t, 1, misses)
	assert.Equal(t, 1, strings.Count(raw, " "))
}

func TestIndex(t *testing.T) {
	assert.Equal(t, 0, Index(types.FaceU, [3]int{-1, 1, -1}))
	assert.Equal(t, 8, Index(types.FaceU, [3]int{1, 1, 1}))
	assert.Equal(t, 9, Index(types.FaceR, [3]int{1, 1, 1}))
	assert.Equal(t, 18, Index(types.FaceF, [3]int{-1, 1, 1}))
	assert.Equal(t, 27, Index(types.FaceD, [3]int{-1, -1, 1}))
	assert.Equal(t, 36, Index(types.FaceL, [3]int{-1, 1, -1}))
	assert.Equal(t, 45, Index(types.FaceB, [3]int{1, 1, -1}))
	assert.Equal(t, 53, Index(types.FaceB, [3]int{-1, -1, -1}))
}
