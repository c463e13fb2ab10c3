package feed

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

const (
	writeWait    = 5 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	maxBodyBytes = 4 << 10
)

// Server exposes an engine over HTTP.
type Server struct {
	engine   *Engine
	hub      *Hub
	log      *zap.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a server for engine and its hub.
func NewServer(engine *Engine, hub *Hub, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		engine: engine,
		hub:    hub,
		log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /state", s.handleState)
	mux.HandleFunc("POST /moves", s.handleMoves)
	mux.HandleFunc("POST /solve", s.handleSolve)
	return mux
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

type movesRequest struct {
	Moves string `json:"moves"`
}

type movesResponse struct {
	Queued []string `json:"queued"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleState(rw http.ResponseWriter, r *http.Request) {
	st, err := s.engine.Snapshot(r.Context())
	if err != nil {
		writeError(rw, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(rw, http.StatusOK, st)
}

// handleMoves accepts {"moves": "R U R'"} or plain text notation.
func (s *Server) handleMoves(rw http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(rw, http.StatusBadRequest, err)
		return
	}

	notation := strings.TrimSpace(string(body))
	if strings.HasPrefix(notation, "{") {
		var req movesRequest
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(rw, http.StatusBadRequest, err)
			return
		}
		notation = req.Moves
	}

	moves, err := s.engine.Submit(r.Context(), notation)
	if err != nil {
		var perr *types.ParseError
		if errors.As(err, &perr) {
			writeError(rw, http.StatusBadRequest, err)
			return
		}
		writeError(rw, http.StatusServiceUnavailable, err)
		return
	}

	resp := movesResponse{Queued: make([]string, len(moves))}
	for i, m := range moves {
		resp.Queued[i] = m.Notation()
	}
	writeJSON(rw, http.StatusAccepted, resp)
}

func (s *Server) handleSolve(rw http.ResponseWriter, r *http.Request) {
	st, err := s.engine.Solve(r.Context())
	if err != nil {
		writeError(rw, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(rw, http.StatusOK, st)
}

func (s *Server) handleWS(rw http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	events, unsubscribe := s.hub.Subscribe()
	defer unsubscribe()

	// current state first so clients need not poll /state
	if st, err := s.engine.Snapshot(r.Context()); err == nil {
		b, _ := json.Marshal(Event{Type: EventStateChanged, Time: time.Now(), State: st})
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			return
		}
	}

	// reader: only control frames are expected
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(maxBodyBytes)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case b, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}

func writeError(rw http.ResponseWriter, status int, err error) {
	writeJSON(rw, status, errorResponse{Error: err.Error()})
}
