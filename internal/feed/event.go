// Package feed serves a puzzle over HTTP and streams its events to
// websocket clients. A single engine goroutine owns the puzzle.
package feed

import (
	"time"

	"github.com/SeamusWaldron/cubesolver"
	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

// Event types
const (
	EventRotationCompleted = "rotation_completed"
	EventStateChanged      = "state_changed"
)

// Event is one message on the websocket stream.
type Event struct {
	Type  string        `json:"type"`
	Time  time.Time     `json:"time"`
	Move  string        `json:"move,omitempty"`
	State *StatePayload `json:"state,omitempty"`
}

// StatePayload is the JSON form of a puzzle state.
type StatePayload struct {
	Raw      string `json:"raw"`
	Facelets string `json:"facelets"`
	Status   string `json:"status"`
	Message  string `json:"message"`
	Solution string `json:"solution,omitempty"`
	Error    string `json:"error,omitempty"`
	Misses   int    `json:"misses,omitempty"`
	Busy     bool   `json:"busy"`
	Pending  int    `json:"pending"`
}

func newStatePayload(st cubesolver.State) *StatePayload {
	p := &StatePayload{
		Raw:      st.Raw,
		Facelets: st.Facelets,
		Status:   st.Status().String(),
		Message:  st.Message(),
		Solution: types.FormatMoves(st.Solution()),
		Misses:   st.Misses,
	}
	if st.Result.Err != nil {
		p.Error = st.Result.Err.Error()
	}
	return p
}
