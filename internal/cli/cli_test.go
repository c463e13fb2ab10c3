package cli

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SeamusWaldron/cubesolver"
	"github.com/SeamusWaldron/cubesolver/internal/config"
	"github.com/SeamusWaldron/cubesolver/internal/storage"
	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

func TestRenderNet(t *testing.T) {
	p := cubesolver.New()
	require.NoError(t, p.PaintSolved())

	net := renderNet(p.State().Raw)
	assert.Len(t, strings.Split(strings.TrimSuffix(net, "\n"), "\n"), 9)

	assert.Contains(t, renderNet("short"), "bad facelet string")
}

func TestResolveSessionID(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer db.Close()

	id, err := resolveSessionID(db, []string{"abc"}, false)
	require.NoError(t, err)
	assert.Equal(t, "abc", id)

	_, err = resolveSessionID(db, nil, false)
	assert.Error(t, err)
	_, err = resolveSessionID(db, nil, true)
	assert.Error(t, err)

	created, err := storage.NewSessionRepository(db).Create(storage.SourceCLI, "")
	require.NoError(t, err)
	id, err = resolveSessionID(db, nil, true)
	require.NoError(t, err)
	assert.Equal(t, created, id)
}

func TestPlayTurnKeys(t *testing.T) {
	cfg := config.Default()
	cfg.Animation.QuarterTurn = 10 * time.Millisecond
	cfg.Animation.HalfTurn = 20 * time.Millisecond
	cfg.Solver.Command = ""

	m := newPlayModel(cfg, zap.NewNop(), nil)
	require.NoError(t, m.puzzle.PaintSolved())

	m.handleTurnKey("R")
	mv, _, ok := m.puzzle.Active()
	require.True(t, ok)
	assert.Equal(t, "R'", mv.Notation())

	// a second turn is refused while the first animates
	m.handleTurnKey("u")
	assert.ErrorIs(t, m.err, cubesolver.ErrRotationInProgress)

	m.puzzle.Tick(time.Second)
	assert.Equal(t, "R'", types.FormatMoves(m.moves))

	m.handleTurnKey("r")
	m.puzzle.Tick(time.Second)
	assert.Equal(t, "R' R", types.FormatMoves(m.moves))
	assert.Equal(t, cubesolver.StatusValid, m.puzzle.State().Status())
}

func TestPlayPaintCursor(t *testing.T) {
	m := newPlayModel(config.Default(), zap.NewNop(), nil)
	m.palette.Sync(m.puzzle)

	m.cursor = 0
	m.moveCursor(-1)
	assert.Equal(t, types.FaceletCount-1, m.cursor)
	m.moveCursor(1)
	assert.Equal(t, 0, m.cursor)

	m.handlePaintKey("5")
	assert.Equal(t, types.ColorRed, m.palette.Selected())

	m.handlePaintKey(" ")
	require.NoError(t, m.err)
	s, ok := m.puzzle.StickerAt(0)
	require.True(t, ok)
	assert.Equal(t, types.ColorRed, s.Color)
	assert.Equal(t, 1, m.palette.Count(types.ColorRed))
}
