package cubesolver

import (
	"time"

	"go.uber.org/zap"

	"github.com/SeamusWaldron/cubesolver/internal/geom"
	"github.com/SeamusWaldron/cubesolver/internal/rotation"
	"github.com/SeamusWaldron/cubesolver/internal/solver"
)

// Option configures a Puzzle.
type Option func(*config)

type (
	// Oracle finds a solution for a facelet string.
	Oracle = solver.Oracle
	// OracleFunc adapts a function to Oracle.
	OracleFunc = solver.OracleFunc
	// SolverCommand runs an external solver binary as the Oracle.
	SolverCommand = solver.Command
)

type config struct {
	log         *zap.Logger
	quarterTurn time.Duration
	halfTurn    time.Duration
	gridStep    float64
	oracle      solver.Oracle
	maxDepth    int
	verify      bool
}

func defaultConfig() *config {
	return &config{
		log:         zap.NewNop(),
		quarterTurn: rotation.DefaultQuarterTurn,
		halfTurn:    rotation.DefaultHalfTurn,
		gridStep:    geom.GridStep,
		maxDepth:    solver.DefaultMaxDepth,
		verify:      true,
	}
}

// WithLogger sets the logger shared by every component of the puzzle.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}

// WithDurations sets how long quarter and half turns take to animate.
func WithDurations(quarter, half time.Duration) Option {
	return func(c *config) {
		c.quarterTurn = quarter
		c.halfTurn = half
	}
}

// WithGridStep sets the spacing between piece centers.
func WithGridStep(step float64) Option {
	return func(c *config) {
		c.gridStep = step
	}
}

// WithOracle sets the solver used by Solve.
// Without an oracle, Solve fails with solver.ErrNoCommand.
func WithOracle(o Oracle) Option {
	return func(c *config) {
		c.oracle = o
	}
}

// WithMaxDepth sets the search depth passed to the oracle.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		c.maxDepth = depth
	}
}

// WithSolutionCheck enables or disables replaying oracle solutions on
// the facelet model before accepting them. Enabled by default.
func WithSolutionCheck(enabled bool) Option {
	return func(c *config) {
		c.verify = enabled
	}
}
