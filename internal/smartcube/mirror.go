package smartcube

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/SeamusWaldron/cubesolver/internal/facecube"
	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

// Mirror decodes notifications from a smart cube, keeps a facelet model
// of the physical cube and reports turns through callbacks. Callbacks
// run on the notification goroutine.
type Mirror struct {
	mu      sync.RWMutex
	cube    *facecube.Cube
	history []types.Move
	battery int
	log     *zap.Logger

	onMoves       func([]types.Move)
	onOrientation func(Orientation)
	onBattery     func(int)
}

// NewMirror creates a mirror whose model starts solved. A nil logger is
// replaced by a no-op one.
func NewMirror(log *zap.Logger) *Mirror {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mirror{cube: facecube.New(), battery: -1, log: log}
}

// OnMoves sets a callback for decoded turns.
func (m *Mirror) OnMoves(cb func([]types.Move)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onMoves = cb
}

// OnOrientation sets a callback for orientation updates.
func (m *Mirror) OnOrientation(cb func(Orientation)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onOrientation = cb
}

// OnBattery sets a callback for battery updates.
func (m *Mirror) OnBattery(cb func(int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onBattery = cb
}

// HandleFrame parses and handles a raw notification.
func (m *Mirror) HandleFrame(data []byte) {
	msg, err := ParseMessage(data)
	if err != nil {
		m.log.Debug("dropping frame", zap.Error(err))
		return
	}
	m.Handle(msg)
}

// Handle dispatches a parsed message.
func (m *Mirror) Handle(msg *Message) {
	switch msg.Type {
	case MsgTypeRotation:
		m.handleRotation(msg)
	case MsgTypeBattery:
		m.handleBattery(msg)
	case MsgTypeOrientation:
		m.handleOrientation(msg)
	default:
		m.log.Debug("ignoring message", zap.String("type", MessageTypeName(msg.Type)))
	}
}

func (m *Mirror) handleRotation(msg *Message) {
	rotations, err := DecodeRotation(msg.Payload)
	if err != nil {
		m.log.Warn("bad rotation payload", zap.Error(err))
		return
	}
	moves, err := RotationsToMoves(rotations)
	if err != nil {
		m.log.Warn("cannot convert rotation", zap.Error(err))
		return
	}
	if len(moves) == 0 {
		return
	}

	m.mu.Lock()
	if err := m.cube.ApplyMoves(moves); err != nil {
		m.log.Warn("cannot track moves", zap.Error(err))
	}
	m.history = append(m.history, moves...)
	cb := m.onMoves
	m.mu.Unlock()

	m.log.Debug("cube turned",
		zap.String("moves", types.FormatMoves(moves)),
		zap.Time("at", time.Now()))

	if cb != nil {
		cb(moves)
	}
}

func (m *Mirror) handleBattery(msg *Message) {
	level, err := DecodeBattery(msg.Payload)
	if err != nil {
		return
	}

	m.mu.Lock()
	m.battery = level
	cb := m.onBattery
	m.mu.Unlock()

	if cb != nil {
		cb(level)
	}
}

func (m *Mirror) handleOrientation(msg *Message) {
	o, err := DecodeOrientation(msg.Payload)
	if err != nil {
		m.log.Debug("bad orientation payload", zap.Error(err))
		return
	}

	m.mu.RLock()
	cb := m.onOrientation
	m.mu.RUnlock()

	if cb != nil {
		cb(o)
	}
}

// Facelets returns the facelet string of the physical cube.
func (m *Mirror) Facelets() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cube.String()
}

// IsSolved reports whether the physical cube is solved.
func (m *Mirror) IsSolved() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cube.IsSolved()
}

// Moves returns every move seen since creation or the last Reset.
func (m *Mirror) Moves() []types.Move {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Move, len(m.history))
	copy(out, m.history)
	return out
}

// Battery returns the last known battery level, or -1.
func (m *Mirror) Battery() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.battery
}

// Reset sets the model to solved and clears the history. It does not
// affect the physical cube.
func (m *Mirror) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cube = facecube.New()
	m.history = nil
}
