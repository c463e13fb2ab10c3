package cubesolver

import (
	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

// Shared value types.
type (
	Move  = types.Move
	Slice = types.Slice
	Turn  = types.Turn
	Color = types.Color
	Face  = types.Face
)

// Sticker colors.
const (
	ColorNone   = types.ColorNone
	ColorWhite  = types.ColorWhite
	ColorYellow = types.ColorYellow
	ColorGreen  = types.ColorGreen
	ColorBlue   = types.ColorBlue
	ColorRed    = types.ColorRed
	ColorOrange = types.ColorOrange
)

// Predefined moves for convenience.
// Use these instead of constructing Move structs manually.
//
// Example:
//
//	p.Apply(cubesolver.R, cubesolver.U, cubesolver.RPrime, cubesolver.UPrime)
var (
	// Right face moves
	R      = Move{Slice: types.SliceRight, Turn: types.TurnCW}
	RPrime = Move{Slice: types.SliceRight, Turn: types.TurnCCW}
	R2     = Move{Slice: types.SliceRight, Turn: types.Turn180}

	// Left face moves
	L      = Move{Slice: types.SliceLeft, Turn: types.TurnCW}
	LPrime = Move{Slice: types.SliceLeft, Turn: types.TurnCCW}
	L2     = Move{Slice: types.SliceLeft, Turn: types.Turn180}

	// Up face moves
	U      = Move{Slice: types.SliceUp, Turn: types.TurnCW}
	UPrime = Move{Slice: types.SliceUp, Turn: types.TurnCCW}
	U2     = Move{Slice: types.SliceUp, Turn: types.Turn180}

	// Down face moves
	D      = Move{Slice: types.SliceDown, Turn: types.TurnCW}
	DPrime = Move{Slice: types.SliceDown, Turn: types.TurnCCW}
	D2     = Move{Slice: types.SliceDown, Turn: types.Turn180}

	// Front face moves
	F      = Move{Slice: types.SliceFront, Turn: types.TurnCW}
	FPrime = Move{Slice: types.SliceFront, Turn: types.TurnCCW}
	F2     = Move{Slice: types.SliceFront, Turn: types.Turn180}

	// Back face moves
	B      = Move{Slice: types.SliceBack, Turn: types.TurnCW}
	BPrime = Move{Slice: types.SliceBack, Turn: types.TurnCCW}
	B2     = Move{Slice: types.SliceBack, Turn: types.Turn180}

	// Middle slice moves
	M      = Move{Slice: types.SliceMidX, Turn: types.TurnCW}
	MPrime = Move{Slice: types.SliceMidX, Turn: types.TurnCCW}
	E      = Move{Slice: types.SliceMidY, Turn: types.TurnCW}
	EPrime = Move{Slice: types.SliceMidY, Turn: types.TurnCCW}
	S      = Move{Slice: types.SliceMidZ, Turn: types.TurnCW}
	SPrime = Move{Slice: types.SliceMidZ, Turn: types.TurnCCW}
)

// Sexy move: R U R' U'. Six repetitions return the cube to its start.
var SexyMove = []Move{R, U, RPrime, UPrime}

// T-perm algorithm
var TPerm = []Move{R, U, RPrime, UPrime, RPrime, F, R2, UPrime, RPrime, UPrime, R, U, RPrime, FPrime}

// ParseMove parses a single move in standard notation.
func ParseMove(s string) (Move, error) {
	return types.ParseMove(s)
}

// ParseMoves parses a space-separated sequence of moves.
func ParseMoves(s string) ([]Move, error) {
	return types.ParseMoves(s)
}
