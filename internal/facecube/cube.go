// Package facecube provides a 3x3 cube modeled directly on its 54
// facelets. It applies outer face turns by permuting labels and is used
// to scramble states and check solutions.
package facecube

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

// Errors
var (
	ErrInvalidLength = errors.New("facecube: facelet string must be 54 characters")
	ErrSliceMove     = errors.New("facecube: only outer face turns are supported")
)

// Cube holds one label per facelet in U R F D L B order. Each face is
// indexed as seen from outside:
//
//	0 1 2
//	3 4 5
//	6 7 8
type Cube struct {
	Facelets [types.FaceletCount]byte
}

// New creates a solved cube.
func New() *Cube {
	c := &Cube{}
	copy(c.Facelets[:], types.SolvedFacelets)
	return c
}

// Parse creates a cube from a facelet string.
func Parse(s string) (*Cube, error) {
	if len(s) != types.FaceletCount {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLength, len(s))
	}
	c := &Cube{}
	copy(c.Facelets[:], s)
	return c, nil
}

// Clone creates a deep copy of the cube.
func (c *Cube) Clone() *Cube {
	clone := *c
	return &clone
}

// String returns the facelet string.
func (c *Cube) String() string {
	return string(c.Facelets[:])
}

// IsSolved reports whether every face shows a single label.
func (c *Cube) IsSolved() bool {
	for _, f := range types.FaceOrder {
		base := f.Offset()
		center := c.Facelets[base+4]
		for i := 0; i < 9; i++ {
			if c.Facelets[base+i] != center {
				return false
			}
		}
	}
	return true
}

// Move applies an outer face turn.
func (c *Cube) Move(m types.Move) error {
	if !m.Slice.IsOuter() {
		return fmt.Errorf("%w: %s", ErrSliceMove, m.Notation())
	}
	face := types.Face(m.Slice.String()[0])

	switch m.Turn {
	case types.TurnCW:
		c.quarter(face)
	case types.TurnCCW:
		c.quarter(face)
		c.quarter(face)
		c.quarter(face)
	case types.Turn180:
		c.quarter(face)
		c.quarter(face)
	}
	return nil
}

// ApplyMoves applies a sequence of moves.
func (c *Cube) ApplyMoves(moves []types.Move) error {
	for _, m := range moves {
		if err := c.Move(m); err != nil {
			return err
		}
	}
	return nil
}

// ApplyNotation parses and applies a move sequence such as "R U R' U'".
func (c *Cube) ApplyNotation(s string) error {
	moves, err := types.ParseMoves(s)
	if err != nil {
		return err
	}
	return c.ApplyMoves(moves)
}

// quarter turns a face clockwise as seen from outside.
func (c *Cube) quarter(face types.Face) {
	base := face.Offset()
	// corners 0->2->8->6, edges 1->5->7->3
	c.cycle([]int{base + 0, base + 2, base + 8, base + 6})
	c.cycle([]int{base + 1, base + 5, base + 7, base + 3})

	ring := rings[face]
	for i := 0; i < 3; i++ {
		c.cycle([]int{ring[0][i], ring[1][i], ring[2][i], ring[3][i]})
	}
}

// cycle moves the label at idx[k] to idx[k+1], wrapping around.
func (c *Cube) cycle(idx []int) {
	last := c.Facelets[idx[len(idx)-1]]
	for k := len(idx) - 1; k > 0; k-- {
		c.Facelets[idx[k]] = c.Facelets[idx[k-1]]
	}
	c.Facelets[idx[0]] = last
}

// rings lists, for each face, the four neighboring edge strips in the
// order a clockwise turn carries them.
var rings = map[types.Face][4][3]int{
	types.FaceU: {{18, 19, 20}, {36, 37, 38}, {45, 46, 47}, {9, 10, 11}},
	types.FaceD: {{24, 25, 26}, {15, 16, 17}, {51, 52, 53}, {42, 43, 44}},
	types.FaceF: {{6, 7, 8}, {9, 12, 15}, {29, 28, 27}, {44, 41, 38}},
	types.FaceB: {{2, 1, 0}, {36, 39, 42}, {33, 34, 35}, {17, 14, 11}},
	types.FaceR: {{2, 5, 8}, {51, 48, 45}, {29, 32, 35}, {20, 23, 26}},
	types.FaceL: {{0, 3, 6}, {18, 21, 24}, {27, 30, 33}, {53, 50, 47}},
}

// Net returns a text representation of the cube laid out as an
// unfolded net.
func (c *Cube) Net() string {
	var b strings.Builder
	row := func(f types.Face, r int) string {
		base := f.Offset() + r*3
		return fmt.Sprintf("%c %c %c ", c.Facelets[base], c.Facelets[base+1], c.Facelets[base+2])
	}

	for r := 0; r < 3; r++ {
		b.WriteString("      " + row(types.FaceU, r) + "\n")
	}
	for r := 0; r < 3; r++ {
		for _, f := range []types.Face{types.FaceL, types.FaceF, types.FaceR, types.FaceB} {
			b.WriteString(row(f, r))
		}
		b.WriteString("\n")
	}
	for r := 0; r < 3; r++ {
		b.WriteString("      " + row(types.FaceD, r) + "\n")
	}
	return b.String()
}

// Scramble returns the facelet string of a solved cube after moves.
func Scramble(moves []types.Move) (string, error) {
	c := New()
	if err := c.ApplyMoves(moves); err != nil {
		return "", err
	}
	return c.String(), nil
}

// Solves reports whether applying solution to the state facelets leaves
// the cube solved.
func Solves(facelets string, solution []types.Move) (bool, error) {
	c, err := Parse(facelets)
	if err != nil {
		return false, err
	}
	if err := c.ApplyMoves(solution); err != nil {
		return false, err
	}
	return c.IsSolved(), nil
}
