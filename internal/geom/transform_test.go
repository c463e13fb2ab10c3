package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vecNear(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, 1e-9), "want %v, got %v", want, got)
}

func TestMatrixRoundTrip(t *testing.T) {
	in := Transform{
		Translation: mgl64.Vec3{0.5, -1, 2},
		Rotation:    mgl64.QuatRotate(0.3, mgl64.Vec3{1, 2, 3}.Normalize()),
		Scale:       mgl64.Vec3{0.9, 0.9, 0.9},
	}

	out, err := FromMatrix(in.Matrix())
	require.NoError(t, err)
	vecNear(t, in.Translation, out.Translation)
	vecNear(t, in.Scale, out.Scale)
	assert.True(t, SameRotation(in.Rotation, out.Rotation, 1e-9))
}

func TestRelativeUndoesCompose(t *testing.T) {
	parent := Transform{
		Translation: mgl64.Vec3{1, 2, 3},
		Rotation:    mgl64.QuatRotate(math.Pi/3, mgl64.Vec3{0, 1, 0}),
		Scale:       mgl64.Vec3{1, 1, 1},
	}
	child := FromTranslation(mgl64.Vec3{GridStep, 0, -GridStep}).WithUniformScale(0.9)

	world, err := parent.Compose(child)
	require.NoError(t, err)

	rel, err := Relative(parent, world)
	require.NoError(t, err)
	vecNear(t, child.Translation, rel.Translation)
	vecNear(t, child.Scale, rel.Scale)
	assert.True(t, SameRotation(child.Rotation, rel.Rotation, 1e-9))
}

func TestInverse(t *testing.T) {
	tr := Transform{
		Translation: mgl64.Vec3{1, 0, 0},
		Rotation:    mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}),
		Scale:       mgl64.Vec3{1, 1, 1},
	}
	inv, err := tr.Inverse()
	require.NoError(t, err)

	id, err := tr.Compose(inv)
	require.NoError(t, err)
	vecNear(t, mgl64.Vec3{}, id.Translation)
	assert.True(t, SameRotation(mgl64.QuatIdent(), id.Rotation, 1e-9))
}

func TestDegenerate(t *testing.T) {
	zero := Identity().WithUniformScale(0)
	_, err := zero.Inverse()
	assert.ErrorIs(t, err, ErrDegenerate)

	_, err = Relative(zero, Identity())
	assert.ErrorIs(t, err, ErrDegenerate)

	nan := Identity()
	nan.Translation = mgl64.Vec3{math.NaN(), 0, 0}
	_, err = FromMatrix(nan.Matrix())
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestTransformPoint(t *testing.T) {
	tr := Transform{
		Translation: mgl64.Vec3{0, 0, 1},
		Rotation:    mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}),
		Scale:       mgl64.Vec3{2, 2, 2},
	}
	vecNear(t, mgl64.Vec3{0, 2, 1}, tr.TransformPoint(mgl64.Vec3{1, 0, 0}))
}
