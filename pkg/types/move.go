// Package types contains shared type definitions for the cubesolver application.
package types

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidNotation is wrapped by every ParseError.
var ErrInvalidNotation = errors.New("cubesolver: invalid move notation")

// ParseError reports a notation token that could not be parsed.
type ParseError struct {
	Notation string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cubesolver: invalid move notation %q", e.Notation)
}

func (e *ParseError) Unwrap() error {
	return ErrInvalidNotation
}

// Axis is one of the three rotation axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "?"
	}
}

// Slice identifies one of the nine rotatable layers.
type Slice int

const (
	SliceRight Slice = iota
	SliceMidX
	SliceLeft
	SliceUp
	SliceMidY
	SliceDown
	SliceFront
	SliceMidZ
	SliceBack
)

// AllSlices lists every slice in pivot order.
var AllSlices = []Slice{
	SliceRight, SliceMidX, SliceLeft,
	SliceUp, SliceMidY, SliceDown,
	SliceFront, SliceMidZ, SliceBack,
}

// String returns the notation letter for the slice.
func (s Slice) String() string {
	switch s {
	case SliceRight:
		return "R"
	case SliceMidX:
		return "M"
	case SliceLeft:
		return "L"
	case SliceUp:
		return "U"
	case SliceMidY:
		return "E"
	case SliceDown:
		return "D"
	case SliceFront:
		return "F"
	case SliceMidZ:
		return "S"
	case SliceBack:
		return "B"
	default:
		return "?"
	}
}

// Axis returns the axis the slice rotates about.
func (s Slice) Axis() Axis {
	switch s {
	case SliceRight, SliceMidX, SliceLeft:
		return AxisX
	case SliceUp, SliceMidY, SliceDown:
		return AxisY
	default:
		return AxisZ
	}
}

// Layer returns the lattice coordinate of the slice along its axis:
// 1 for R/U/F, 0 for the middle slices and -1 for L/D/B.
func (s Slice) Layer() int {
	switch s {
	case SliceRight, SliceUp, SliceFront:
		return 1
	case SliceLeft, SliceDown, SliceBack:
		return -1
	default:
		return 0
	}
}

// Direction is the sign applied to a turn angle so that a clockwise
// turn is clockwise when viewed from the slice's own face. Middle
// slices follow R, U and F.
func (s Slice) Direction() float64 {
	switch s {
	case SliceLeft, SliceDown, SliceBack:
		return 1
	default:
		return -1
	}
}

// IsOuter reports whether the slice is a face layer.
func (s Slice) IsOuter() bool {
	return s.Layer() != 0
}

// Turn represents the direction and magnitude of a slice turn.
type Turn int

const (
	TurnCW  Turn = 1  // Clockwise quarter turn
	TurnCCW Turn = -1 // Counter-clockwise quarter turn
	Turn180 Turn = 2  // 180 degree turn (half turn)
)

// Angle returns the signed turn angle in radians before the slice
// direction is applied.
func (t Turn) Angle() float64 {
	switch t {
	case TurnCW:
		return math.Pi / 2
	case TurnCCW:
		return -math.Pi / 2
	case Turn180:
		return math.Pi
	default:
		return 0
	}
}

// IsHalf reports whether the turn is a 180 degree turn.
func (t Turn) IsHalf() bool {
	return t == Turn180
}

func (t Turn) String() string {
	switch t {
	case TurnCW:
		return "cw"
	case TurnCCW:
		return "ccw"
	case Turn180:
		return "half"
	default:
		return "?"
	}
}

// Move represents a single slice turn.
type Move struct {
	Slice Slice `json:"slice"`
	Turn  Turn  `json:"turn"`
}

// Notation returns the standard cube notation string for this move.
// Examples: R, R', R2, M, E', S2
func (m Move) Notation() string {
	suffix := ""
	switch m.Turn {
	case TurnCCW:
		suffix = "'"
	case Turn180:
		suffix = "2"
	}
	return m.Slice.String() + suffix
}

// String returns the notation string (alias for Notation).
func (m Move) String() string {
	return m.Notation()
}

// Inverse returns the inverse of this move.
// R becomes R', R' becomes R, R2 stays R2.
func (m Move) Inverse() Move {
	inv := m
	switch m.Turn {
	case TurnCW:
		inv.Turn = TurnCCW
	case TurnCCW:
		inv.Turn = TurnCW
	// Turn180 is its own inverse
	}
	return inv
}

// TargetAngle returns the pivot rotation, in radians about the slice
// axis, that completes this move.
func (m Move) TargetAngle() float64 {
	return m.Turn.Angle() * m.Slice.Direction()
}

func sliceFromLetter(c byte) (Slice, bool) {
	switch c {
	case 'R':
		return SliceRight, true
	case 'M':
		return SliceMidX, true
	case 'L':
		return SliceLeft, true
	case 'U':
		return SliceUp, true
	case 'E':
		return SliceMidY, true
	case 'D':
		return SliceDown, true
	case 'F':
		return SliceFront, true
	case 'S':
		return SliceMidZ, true
	case 'B':
		return SliceBack, true
	}
	return 0, false
}

// ParseMove parses a notation token into a Move.
// The token is a slice letter (F B R L U D M E S) optionally followed by
// ' or 2. Anything else yields a *ParseError.
func ParseMove(s string) (Move, error) {
	if len(s) == 0 || len(s) > 2 {
		return Move{}, &ParseError{Notation: s}
	}

	slice, ok := sliceFromLetter(s[0])
	if !ok {
		return Move{}, &ParseError{Notation: s}
	}

	turn := TurnCW
	if len(s) == 2 {
		switch s[1] {
		case '\'':
			turn = TurnCCW
		case '2':
			turn = Turn180
		default:
			return Move{}, &ParseError{Notation: s}
		}
	}

	return Move{Slice: slice, Turn: turn}, nil
}

// ParseMoves parses a whitespace-separated sequence of moves.
// Example: "R U R' U'"
// The first invalid token aborts parsing.
func ParseMoves(s string) ([]Move, error) {
	parts := strings.Fields(s)
	moves := make([]Move, 0, len(parts))

	for _, part := range parts {
		move, err := ParseMove(part)
		if err != nil {
			return nil, err
		}
		moves = append(moves, move)
	}

	return moves, nil
}

// FormatMoves formats a slice of moves as a space-separated notation string.
func FormatMoves(moves []Move) string {
	if len(moves) == 0 {
		return ""
	}

	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.Notation()
	}

	return strings.Join(parts, " ")
}

// InvertMoves returns the sequence that undoes moves.
func InvertMoves(moves []Move) []Move {
	inv := make([]Move, len(moves))
	for i, m := range moves {
		inv[len(moves)-1-i] = m.Inverse()
	}
	return inv
}
