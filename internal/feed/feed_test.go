package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubesolver"
	"github.com/SeamusWaldron/cubesolver/internal/facecube"
	"github.com/SeamusWaldron/cubesolver/internal/solver"
	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

func newTestEngine(t *testing.T, opts ...cubesolver.Option) (*Engine, *Hub) {
	t.Helper()
	opts = append([]cubesolver.Option{cubesolver.WithDurations(10*time.Millisecond, 20*time.Millisecond)}, opts...)
	p := cubesolver.New(opts...)
	require.NoError(t, p.PaintSolved())
	hub := NewHub(64, nil)
	return NewEngine(p, hub, time.Millisecond, nil), hub
}

func startEngine(t *testing.T, e *Engine) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		_ = e.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})
}

func decode(t *testing.T, b []byte) Event {
	t.Helper()
	var ev Event
	require.NoError(t, json.Unmarshal(b, &ev))
	return ev
}

func TestEngineStepPublishes(t *testing.T) {
	e, hub := newTestEngine(t)
	events, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	var recorded []types.Move
	e.OnMove(func(m types.Move) { recorded = append(recorded, m) })

	e.queue.Enqueue(cubesolver.R, cubesolver.UPrime)

	e.Step(0)
	assert.True(t, e.puzzle.Busy())
	e.Step(10 * time.Millisecond)
	assert.False(t, e.puzzle.Busy())

	ev := decode(t, <-events)
	assert.Equal(t, EventRotationCompleted, ev.Type)
	assert.Equal(t, "R", ev.Move)

	ev = decode(t, <-events)
	assert.Equal(t, EventStateChanged, ev.Type)
	require.NotNil(t, ev.State)
	assert.Equal(t, "valid", ev.State.Status)
	assert.Equal(t, 1, ev.State.Pending)

	e.Step(0)
	e.Step(10 * time.Millisecond)
	assert.True(t, e.queue.Idle())
	assert.Equal(t, "R U'", types.FormatMoves(recorded))
}

func TestHubDropsForLaggingSubscriber(t *testing.T) {
	hub := NewHub(1, nil)
	events, unsubscribe := hub.Subscribe()
	assert.Equal(t, 1, hub.Subscribers())

	hub.Publish(Event{Type: EventStateChanged})
	hub.Publish(Event{Type: EventRotationCompleted})
	assert.Equal(t, EventStateChanged, decode(t, <-events).Type)

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 0, hub.Subscribers())
	_, ok := <-events
	assert.False(t, ok)
}

func TestDoAfterStop(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, e.Run(ctx), context.Canceled)

	_, err := e.Snapshot(context.Background())
	assert.ErrorIs(t, err, ErrStopped)
}

func TestHTTPMovesAndState(t *testing.T) {
	e, hub := newTestEngine(t)
	startEngine(t, e)
	ts := httptest.NewServer(NewServer(e, hub, nil).Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/moves", "application/json", strings.NewReader(`{"moves":"R U"}`))
	require.NoError(t, err)
	var queued movesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&queued))
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, []string{"R", "U"}, queued.Queued)

	var st StatePayload
	require.Eventually(t, func() bool {
		resp, err := http.Get(ts.URL + "/state")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		st = StatePayload{}
		if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
			return false
		}
		return !st.Busy && st.Pending == 0 && st.Facelets != types.SolvedFacelets
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, "valid", st.Status)
	moves, err := types.ParseMoves("R U")
	require.NoError(t, err)
	want, err := facecube.Scramble(moves)
	require.NoError(t, err)
	assert.Equal(t, want, st.Facelets)

	resp, err = http.Post(ts.URL+"/moves", "text/plain", strings.NewReader("R X"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/moves")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHTTPSolve(t *testing.T) {
	oracle := solver.OracleFunc(func(_ context.Context, _ string, _ int) (string, error) {
		return "R'", nil
	})
	e, hub := newTestEngine(t, cubesolver.WithOracle(oracle))
	startEngine(t, e)
	ts := httptest.NewServer(NewServer(e, hub, nil).Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/moves", "text/plain", strings.NewReader("R"))
	require.NoError(t, err)
	resp.Body.Close()

	require.Eventually(t, func() bool {
		st, err := e.Snapshot(context.Background())
		return err == nil && !st.Busy && st.Pending == 0 && st.Facelets != types.SolvedFacelets
	}, 2*time.Second, 5*time.Millisecond)

	resp, err = http.Post(ts.URL+"/solve", "text/plain", nil)
	require.NoError(t, err)
	var st StatePayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	resp.Body.Close()
	assert.Equal(t, "solved", st.Status)
	assert.Equal(t, "R'", st.Solution)
	assert.Equal(t, "Valid cube, solvable in 1 moves", st.Message)
}

func TestWebsocketStream(t *testing.T) {
	e, hub := newTestEngine(t)
	startEngine(t, e)
	ts := httptest.NewServer(NewServer(e, hub, nil).Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	first := decode(t, msg)
	assert.Equal(t, EventStateChanged, first.Type)
	require.NotNil(t, first.State)
	assert.Equal(t, types.SolvedFacelets, first.State.Facelets)

	resp, err := http.Post(ts.URL+"/moves", "text/plain", strings.NewReader("F2"))
	require.NoError(t, err)
	resp.Body.Close()

	for {
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		ev := decode(t, msg)
		if ev.Type == EventRotationCompleted {
			assert.Equal(t, "F2", ev.Move)
			return
		}
	}
}
