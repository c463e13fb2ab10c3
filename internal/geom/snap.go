package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// LatticeIndex rounds each axis of v to the nearest multiple of step and
// clamps the result to {-1, 0, 1}.
func LatticeIndex(v mgl64.Vec3, step float64) [3]int {
	var idx [3]int
	for i := 0; i < 3; i++ {
		n := int(math.Round(v[i] / step))
		if n > 1 {
			n = 1
		} else if n < -1 {
			n = -1
		}
		idx[i] = n
	}
	return idx
}

// Lattice expresses v in grid units without rounding.
func Lattice(v mgl64.Vec3, step float64) mgl64.Vec3 {
	return v.Mul(1 / step)
}

// SnapTranslation moves v onto the nearest lattice point.
func SnapTranslation(v mgl64.Vec3, step float64) mgl64.Vec3 {
	idx := LatticeIndex(v, step)
	return mgl64.Vec3{
		float64(idx[0]) * step,
		float64(idx[1]) * step,
		float64(idx[2]) * step,
	}
}

// SnapRotation returns the axis-aligned rotation nearest to q. The x and
// y basis vectors are snapped to cardinal directions and the basis is
// rebuilt with cross products.
func SnapRotation(q mgl64.Quat) mgl64.Quat {
	m := q.Normalize().Mat4()
	x := snapDirection(m.Col(0).Vec3())
	y := snapDirection(m.Col(1).Vec3())

	z := x.Cross(y)
	if z.Dot(z) < 0.5 {
		// x and y snapped onto the same axis
		if math.Abs(x.X()) > 0.5 {
			y = mgl64.Vec3{0, 0, 1}
		} else {
			y = mgl64.Vec3{1, 0, 0}
		}
		z = x.Cross(y)
	}
	y = z.Cross(x)

	basis := mgl64.Mat3FromCols(x.Normalize(), y.Normalize(), z.Normalize())
	return mgl64.Mat4ToQuat(basis.Mat4()).Normalize()
}

// snapDirection returns the signed unit axis closest to v.
func snapDirection(v mgl64.Vec3) mgl64.Vec3 {
	best := 0
	for i := 1; i < 3; i++ {
		if math.Abs(v[i]) > math.Abs(v[best]) {
			best = i
		}
	}
	var out mgl64.Vec3
	if v[best] < 0 {
		out[best] = -1
	} else {
		out[best] = 1
	}
	return out
}
