package feed

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Hub fans events out to subscribers. Slow subscribers drop events
// rather than block the engine.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]chan []byte
	nextID uint64
	buffer int
	log    *zap.Logger
}

// NewHub creates a hub whose subscriber channels hold buffer events.
func NewHub(buffer int, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	if buffer <= 0 {
		buffer = 64
	}
	return &Hub{subs: make(map[uint64]chan []byte), buffer: buffer, log: log}
}

// Subscribe returns a channel of encoded events and a function that
// closes it.
func (h *Hub) Subscribe() (<-chan []byte, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	ch := make(chan []byte, h.buffer)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
}

// Subscribers returns the number of open subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish encodes ev and offers it to every subscriber.
func (h *Hub) Publish(ev Event) {
	b, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("failed to encode event", zap.String("type", ev.Type), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.subs {
		select {
		case ch <- b:
		default:
			h.log.Debug("subscriber lagging, event dropped", zap.Uint64("subscriber", id))
		}
	}
}
