package facelet

import (
	"errors"

	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

// ErrAmbiguousCenters is returned when two centers carry the same color.
var ErrAmbiguousCenters = errors.New("facelet: duplicate center colors")

// Canonicalize relabels raw so that each center holds the label of its
// own face. Every other facelet is relabeled through the same mapping,
// which makes the result independent of how the cube is held.
//
// Strings that are not 54 long are returned unchanged. Blank centers add
// no mapping and blanks pass through. When two centers share a color the
// mapping is ill-defined and raw is returned unchanged with
// ErrAmbiguousCenters.
func Canonicalize(raw string) (string, error) {
	if len(raw) != types.FaceletCount {
		return raw, nil
	}

	var mapping [256]byte
	var mapped [256]bool
	for i, idx := range types.CenterIndices {
		c := raw[idx]
		if c == Blank {
			continue
		}
		if mapped[c] {
			return raw, ErrAmbiguousCenters
		}
		mapping[c] = byte(types.FaceOrder[i])
		mapped[c] = true
	}

	out := []byte(raw)
	for i, c := range out {
		if c != Blank && mapped[c] {
			out[i] = mapping[c]
		}
	}
	return string(out), nil
}
