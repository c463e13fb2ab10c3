package cubesolver

import (
	"github.com/SeamusWaldron/cubesolver/internal/validate"
)

// Validation status values.
const (
	StatusNotValidated  = validate.StatusNotValidated
	StatusValid         = validate.StatusValid
	StatusInvalid       = validate.StatusInvalid
	StatusSolved        = validate.StatusSolved
	StatusSolvingFailed = validate.StatusSolvingFailed
)

// Result is the outcome of validating a facelet string.
type Result = validate.Result

// State is the derived puzzle state. It is recomputed wholesale when a
// sticker color changes or a turn completes, and is never authoritative.
type State struct {
	// Raw is the facelet string labeled by sticker color.
	Raw string `json:"raw"`

	// Facelets is Raw relabeled so each center carries its face label.
	Facelets string `json:"facelets"`

	// Misses counts stickers whose geometry could not be resolved.
	Misses int `json:"misses,omitempty"`

	Result Result `json:"-"`
}

// Status returns the validation status.
func (s State) Status() validate.Status {
	return s.Result.Status
}

// Message returns the user-facing validation message.
func (s State) Message() string {
	return s.Result.Message()
}

// Solution returns the last solution found, if any.
func (s State) Solution() []Move {
	return s.Result.Solution
}

// StateChanged is delivered when the derived state has been recomputed.
type StateChanged struct {
	State State
}

// stateTracker detects when the derived state is stale by comparing the
// assembly's version counters with the last observed pair.
type stateTracker struct {
	colorVersion uint64
	poseVersion  uint64
	observed     bool
}

// stale reports whether the counters moved since the last observation.
func (t *stateTracker) stale(colorVersion, poseVersion uint64) bool {
	return !t.observed || t.colorVersion != colorVersion || t.poseVersion != poseVersion
}

// observe records the counters the state was computed from.
func (t *stateTracker) observe(colorVersion, poseVersion uint64) {
	t.colorVersion = colorVersion
	t.poseVersion = poseVersion
	t.observed = true
}
