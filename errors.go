package cubesolver

import (
	"errors"

	"github.com/SeamusWaldron/cubesolver/internal/assembly"
	"github.com/SeamusWaldron/cubesolver/internal/facelet"
	"github.com/SeamusWaldron/cubesolver/internal/validate"
	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

// Sentinel errors for the cubesolver package.
var (
	// Turn errors
	ErrRotationInProgress = errors.New("cubesolver: rotation in progress")

	// Parsing errors
	ErrInvalidNotation = types.ErrInvalidNotation

	// Geometry errors
	ErrGeometryLookupMiss = assembly.ErrGeometryLookupMiss
	ErrUnknownSticker     = assembly.ErrUnknownSticker
	ErrInvalidColor       = assembly.ErrInvalidColor
	ErrAmbiguousCenters   = facelet.ErrAmbiguousCenters

	// Palette errors
	ErrColorExhausted = errors.New("cubesolver: color already used 9 times")

	// Solving errors
	ErrSolutionMismatch = validate.ErrSolutionMismatch
)

// Error types re-exported for errors.As.
type (
	ParseError      = types.ParseError
	ValidationError = validate.ValidationError
	SolverError     = validate.SolverError
)
