package validate

import (
	"errors"
	"fmt"
)

// ErrSolutionMismatch is returned when a solution reported by the
// oracle does not solve the state it was asked about.
var ErrSolutionMismatch = errors.New("validate: solution does not solve the cube")

// Kind classifies a structural problem in a facelet string.
type Kind string

const (
	KindLength    Kind = "length"
	KindBlank     Kind = "blank"
	KindChar      Kind = "char"
	KindCount     Kind = "count"
	KindStructure Kind = "structure"
)

// ValidationError is a structural problem found by lightweight checks.
type ValidationError struct {
	Kind    Kind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// SolverKind is an entry of the solver error taxonomy.
type SolverKind int

const (
	SolverUnknown SolverKind = iota
	InvalidFaceletLength
	InvalidFaceletCharacter
	IncorrectColorCount
	MissingEdges
	EdgeFlipError
	MissingCorners
	CornerTwistError
	ParityError
	NoSolutionExists
	ProbeLimitExceeded
)

// kindByCode maps "Error N" results of the oracle. Negative codes are the
// verifier's own numbering for the same conditions.
var kindByCode = map[int]SolverKind{
	1:  IncorrectColorCount,
	2:  MissingEdges,
	3:  EdgeFlipError,
	4:  MissingCorners,
	5:  CornerTwistError,
	6:  ParityError,
	7:  NoSolutionExists,
	8:  ProbeLimitExceeded,
	-1: InvalidFaceletLength,
	-2: MissingEdges,
	-3: EdgeFlipError,
	-4: MissingCorners,
	-5: CornerTwistError,
	-6: ParityError,
}

// SolverKindFromCode maps an oracle error code to the taxonomy.
func SolverKindFromCode(code int) (SolverKind, bool) {
	k, ok := kindByCode[code]
	return k, ok
}

// Description is a one-line summary of the failure.
func (k SolverKind) Description() string {
	switch k {
	case InvalidFaceletLength:
		return "Invalid facelet string: incorrect length or format"
	case InvalidFaceletCharacter:
		return "Invalid facelet string: contains invalid characters"
	case IncorrectColorCount:
		return "Invalid cube: there is not exactly one facelet of each color"
	case MissingEdges:
		return "Invalid cube: not all 12 edges exist exactly once"
	case EdgeFlipError:
		return "Invalid cube: one edge has to be flipped"
	case MissingCorners:
		return "Invalid cube: not all 8 corners exist exactly once"
	case CornerTwistError:
		return "Invalid cube: one corner has to be twisted"
	case ParityError:
		return "Invalid cube: two corners or two edges have to be exchanged"
	case NoSolutionExists:
		return "Cube is valid but no solution exists within the given move limit"
	case ProbeLimitExceeded:
		return "Cube is valid but no solution found within the probe limit"
	default:
		return "Unknown solver error"
	}
}

// Explanation describes what the failure means for the physical cube.
func (k SolverKind) Explanation() string {
	switch k {
	case InvalidFaceletLength:
		return "The cube facelet string has an incorrect length or format. " +
			"It must be 54 characters laid out as U1..U9 R1..R9 F1..F9 D1..D9 L1..L9 B1..B9."
	case InvalidFaceletCharacter:
		return "The cube facelet string contains invalid characters. " +
			"Only the characters U, R, F, D, L, B are allowed."
	case IncorrectColorCount:
		return "The cube has an incorrect number of facelets for each color. " +
			"Each color (U, R, F, D, L, B) must appear exactly 9 times."
	case MissingEdges:
		return "The cube is missing some edges or has duplicate edges. " +
			"A valid cube must have exactly 12 edges, each appearing once."
	case EdgeFlipError:
		return "The cube has an edge that is flipped incorrectly. " +
			"One edge piece is oriented the wrong way."
	case MissingCorners:
		return "The cube is missing some corners or has duplicate corners. " +
			"A valid cube must have exactly 8 corners, each appearing once."
	case CornerTwistError:
		return "The cube has a corner that is twisted incorrectly. " +
			"One corner piece is rotated the wrong way."
	case ParityError:
		return "The cube has a parity error: two pieces need to be swapped. " +
			"This is impossible to solve with standard moves."
	case NoSolutionExists:
		return "The cube is valid but cannot be solved within the current move limit. " +
			"Try increasing the maximum number of moves allowed."
	case ProbeLimitExceeded:
		return "The cube is valid but the solver couldn't find a solution within the time limit. " +
			"This usually means the cube requires many moves to solve."
	default:
		return "The solver reported an error this tool does not recognize."
	}
}

// Suggestion is the remediation offered to the user.
func (k SolverKind) Suggestion() string {
	switch k {
	case InvalidFaceletLength, InvalidFaceletCharacter:
		return "Check that all 54 cube faces are properly colored and mapped."
	case IncorrectColorCount:
		return "Make sure each color appears exactly 9 times on the cube."
	case MissingEdges, MissingCorners:
		return "Check that all cube pieces are in their correct positions."
	case EdgeFlipError, CornerTwistError:
		return "Check that all pieces are oriented correctly. You may need to physically twist or flip pieces."
	case ParityError:
		return "This cube cannot be solved with standard moves. You may need to disassemble and reassemble it."
	case NoSolutionExists, ProbeLimitExceeded:
		return "Try increasing the solver's move limit or probe limit. This cube may require many moves to solve."
	default:
		return "Re-check the sticker colors and try again."
	}
}

// SolverError is a failure reported by the solving oracle.
type SolverError struct {
	Code int
	Kind SolverKind
	Raw  string
}

func (e *SolverError) Error() string {
	if e.Kind == SolverUnknown {
		return fmt.Sprintf("Unknown solver error: %s", e.Raw)
	}
	return fmt.Sprintf("%s (Error: %s)", e.Kind.Description(), e.Raw)
}

// Detail returns the description, explanation and suggestion as one
// user-facing message.
func (e *SolverError) Detail() string {
	if e.Kind == SolverUnknown {
		return e.Error()
	}
	return fmt.Sprintf("%s\n\nExplanation: %s\n\nSuggestion: %s",
		e.Error(), e.Kind.Explanation(), e.Kind.Suggestion())
}

// Suggestion returns the remediation text.
func (e *SolverError) Suggestion() string {
	return e.Kind.Suggestion()
}
