// Package geom provides rigid transforms and grid snapping for the cube
// assembly.
package geom

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

// GridStep is the spacing between adjacent piece centers.
const GridStep = 2.0 / 3.0

// ErrDegenerate is returned when a matrix cannot be decomposed into a
// transform (non-finite entries or a zero scale).
var ErrDegenerate = errors.New("geom: degenerate transform")

const degenerateEpsilon = 1e-9

// Transform is a translation, rotation and scale applied in TRS order.
type Transform struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
	Scale       mgl64.Vec3
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// FromTranslation returns an unrotated, unscaled transform at v.
func FromTranslation(v mgl64.Vec3) Transform {
	t := Identity()
	t.Translation = v
	return t
}

// WithUniformScale returns a copy of t with every scale axis set to s.
func (t Transform) WithUniformScale(s float64) Transform {
	t.Scale = mgl64.Vec3{s, s, s}
	return t
}

// Matrix returns the 4x4 affine matrix T * R * S.
func (t Transform) Matrix() mgl64.Mat4 {
	tr := mgl64.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z())
	sc := mgl64.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return tr.Mul4(t.Rotation.Normalize().Mat4()).Mul4(sc)
}

// FromMatrix decomposes an affine matrix into translation, rotation and
// scale. A negative determinant is folded into the x scale.
func FromMatrix(m mgl64.Mat4) (Transform, error) {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Transform{}, ErrDegenerate
		}
	}

	c0 := m.Col(0).Vec3()
	c1 := m.Col(1).Vec3()
	c2 := m.Col(2).Vec3()

	sx, sy, sz := c0.Len(), c1.Len(), c2.Len()
	if sx < degenerateEpsilon || sy < degenerateEpsilon || sz < degenerateEpsilon {
		return Transform{}, ErrDegenerate
	}
	if m.Mat3().Det() < 0 {
		sx = -sx
	}

	rot := mgl64.Mat3FromCols(c0.Mul(1/sx), c1.Mul(1/sy), c2.Mul(1/sz))

	return Transform{
		Translation: m.Col(3).Vec3(),
		Rotation:    mgl64.Mat4ToQuat(rot.Mat4()).Normalize(),
		Scale:       mgl64.Vec3{sx, sy, sz},
	}, nil
}

// Compose returns parent * child, the pose of child expressed in the
// space parent is expressed in.
func (t Transform) Compose(child Transform) (Transform, error) {
	return FromMatrix(t.Matrix().Mul4(child.Matrix()))
}

// Inverse returns the transform that undoes t.
func (t Transform) Inverse() (Transform, error) {
	m := t.Matrix()
	if math.Abs(m.Det()) < degenerateEpsilon {
		return Transform{}, ErrDegenerate
	}
	return FromMatrix(m.Inv())
}

// Relative returns the pose of child (given in world space) expressed
// relative to parent (also in world space): inverse(parent) * child.
func Relative(parent, child Transform) (Transform, error) {
	pm := parent.Matrix()
	if math.Abs(pm.Det()) < degenerateEpsilon {
		return Transform{}, ErrDegenerate
	}
	return FromMatrix(pm.Inv().Mul4(child.Matrix()))
}

// TransformPoint applies t to p.
func (t Transform) TransformPoint(p mgl64.Vec3) mgl64.Vec3 {
	return t.Matrix().Mul4x1(p.Vec4(1)).Vec3()
}

// AxisVector returns the unit vector of axis.
func AxisVector(a types.Axis) mgl64.Vec3 {
	switch a {
	case types.AxisX:
		return mgl64.Vec3{1, 0, 0}
	case types.AxisY:
		return mgl64.Vec3{0, 1, 0}
	default:
		return mgl64.Vec3{0, 0, 1}
	}
}

// SameRotation reports whether a and b describe the same rotation
// within eps. q and -q are the same rotation.
func SameRotation(a, b mgl64.Quat, eps float64) bool {
	return math.Abs(a.Normalize().Dot(b.Normalize())) >= 1-eps
}
