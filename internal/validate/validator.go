// Package validate checks facelet strings and interprets the results of
// the solving oracle.
package validate

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/SeamusWaldron/cubesolver/internal/facecube"
	"github.com/SeamusWaldron/cubesolver/internal/solver"
	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

// Status is the validation state of a puzzle.
type Status int

const (
	StatusNotValidated Status = iota
	StatusValid
	StatusInvalid
	StatusSolved // valid, with a solution
	StatusSolvingFailed
)

func (s Status) String() string {
	switch s {
	case StatusNotValidated:
		return "not_validated"
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	case StatusSolved:
		return "solved"
	case StatusSolvingFailed:
		return "solving_failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of a validation.
type Result struct {
	Status   Status
	Err      error
	Solution []types.Move
}

// Valid reports whether the facelets passed the structural checks.
func (r Result) Valid() bool {
	return r.Status == StatusValid || r.Status == StatusSolved
}

// Message returns the user-facing summary.
func (r Result) Message() string {
	switch r.Status {
	case StatusNotValidated:
		return "Cube not yet validated"
	case StatusValid:
		return "Valid cube (press Solve to find solution)"
	case StatusSolved:
		return fmt.Sprintf("Valid cube, solvable in %d moves", len(r.Solution))
	case StatusInvalid:
		return "Invalid: " + errMessage(r.Err)
	case StatusSolvingFailed:
		return "Solving failed: " + errMessage(r.Err)
	default:
		return "unknown state"
	}
}

func errMessage(err error) string {
	var se *SolverError
	if errors.As(err, &se) {
		return se.Detail()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// Lightweight runs the structural checks in order: length, blanks,
// characters, per-label counts, centers. It returns the first problem
// found as a *ValidationError.
func Lightweight(facelets string) error {
	if len(facelets) != types.FaceletCount {
		return &ValidationError{
			Kind:    KindLength,
			Message: fmt.Sprintf("Invalid facelet length: %d (expected %d)", len(facelets), types.FaceletCount),
		}
	}

	if n := strings.Count(facelets, " "); n > 0 {
		return &ValidationError{
			Kind:    KindBlank,
			Message: fmt.Sprintf("Incomplete cube: %d faces are not colored", n),
		}
	}

	counts := map[byte]int{}
	for i := 0; i < len(facelets); i++ {
		c := facelets[i]
		if !types.IsFaceLabel(c) {
			return &ValidationError{
				Kind:    KindChar,
				Message: fmt.Sprintf("Invalid character '%c' at position %d", c, i),
			}
		}
		counts[c]++
	}

	for _, f := range types.FaceOrder {
		if n := counts[byte(f)]; n != 9 {
			return &ValidationError{
				Kind:    KindCount,
				Message: fmt.Sprintf("Invalid color count: %c appears %d times (expected 9)", byte(f), n),
			}
		}
	}

	for i, idx := range types.CenterIndices {
		want := byte(types.FaceOrder[i])
		if got := facelets[idx]; got != want {
			return &ValidationError{
				Kind:    KindStructure,
				Message: fmt.Sprintf("Center piece at position %d should be %c, but is %c", idx, want, got),
			}
		}
	}

	return nil
}

// Option configures a Validator.
type Option func(*Validator)

// WithMaxDepth sets the depth bound passed to the oracle.
func WithMaxDepth(depth int) Option {
	return func(v *Validator) {
		v.maxDepth = depth
	}
}

// WithLogger sets the validator's logger.
func WithLogger(log *zap.Logger) Option {
	return func(v *Validator) {
		v.log = log
	}
}

// WithVerification checks every oracle solution against the facelet
// model before accepting it.
func WithVerification(enabled bool) Option {
	return func(v *Validator) {
		v.verify = enabled
	}
}

// Validator runs lightweight and full validation.
type Validator struct {
	oracle   solver.Oracle
	maxDepth int
	verify   bool
	log      *zap.Logger
}

// New creates a validator. oracle may be nil, in which case full
// validation fails with solver.ErrNoCommand.
func New(oracle solver.Oracle, opts ...Option) *Validator {
	v := &Validator{
		oracle:   oracle,
		maxDepth: solver.DefaultMaxDepth,
		verify:   true,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Check runs the lightweight checks only.
func (v *Validator) Check(facelets string) Result {
	if err := Lightweight(facelets); err != nil {
		return Result{Status: StatusInvalid, Err: err}
	}
	return Result{Status: StatusValid}
}

// Solve runs the lightweight checks and, if they pass, asks the oracle
// for a solution.
func (v *Validator) Solve(ctx context.Context, facelets string) Result {
	res := v.Check(facelets)
	if !res.Valid() {
		v.log.Warn("cannot solve invalid cube", zap.Error(res.Err))
		return res
	}
	if v.oracle == nil {
		return Result{Status: StatusSolvingFailed, Err: solver.ErrNoCommand}
	}

	out, err := v.oracle.Solve(ctx, facelets, v.maxDepth)
	if err != nil {
		v.log.Warn("solver failed", zap.Error(err))
		return Result{Status: StatusSolvingFailed, Err: err}
	}

	res = Interpret(out)
	if res.Status == StatusSolved && v.verify {
		ok, err := facecube.Solves(facelets, res.Solution)
		if err != nil || !ok {
			v.log.Warn("solution rejected",
				zap.String("solution", types.FormatMoves(res.Solution)),
				zap.Error(err))
			return Result{Status: StatusSolvingFailed, Err: ErrSolutionMismatch}
		}
	}

	switch res.Status {
	case StatusSolved:
		v.log.Info("solution found", zap.Int("moves", len(res.Solution)))
	default:
		v.log.Warn("solving failed", zap.Error(res.Err))
	}
	return res
}

// Interpret converts an oracle result into a Result.
func Interpret(out string) Result {
	out = strings.TrimSpace(out)

	if strings.HasPrefix(out, "Error") {
		code, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(out, "Error")))
		if err != nil {
			return Result{Status: StatusSolvingFailed, Err: &SolverError{Raw: out}}
		}
		kind, ok := SolverKindFromCode(code)
		if !ok {
			return Result{Status: StatusSolvingFailed, Err: &SolverError{Code: code, Raw: out}}
		}
		return Result{Status: StatusSolvingFailed, Err: &SolverError{Code: code, Kind: kind, Raw: strconv.Itoa(code)}}
	}

	moves, err := types.ParseMoves(out)
	if err != nil {
		return Result{Status: StatusSolvingFailed, Err: err}
	}
	for _, m := range moves {
		if !m.Slice.IsOuter() {
			return Result{Status: StatusSolvingFailed, Err: &types.ParseError{Notation: m.Notation()}}
		}
	}
	return Result{Status: StatusSolved, Solution: moves}
}
