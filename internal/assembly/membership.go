package assembly

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

// MembershipTolerance widens the ±0.5 boundary between layers.
const MembershipTolerance = 0.1

// BelongsTo reports whether a piece at lattice position pos (root
// relative, in grid units) is part of slice. Outer slices need the
// coordinate beyond ±(0.5 - tolerance); middle slices need it within
// 0.5 + tolerance of zero.
func BelongsTo(pos mgl64.Vec3, s types.Slice) bool {
	v := pos[s.Axis()]
	const edge = 0.5 - MembershipTolerance
	switch s.Layer() {
	case 1:
		return v > edge
	case -1:
		return v < -edge
	default:
		return v > -(0.5+MembershipTolerance) && v < 0.5+MembershipTolerance
	}
}
