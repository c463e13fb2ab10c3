package recorder

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubesolver"
	"github.com/SeamusWaldron/cubesolver/internal/storage"
	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

func openDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSessionLifecycle(t *testing.T) {
	db := openDB(t)
	s := NewSession(db, nil)
	assert.Equal(t, StateIdle, s.State())

	// idle sessions ignore moves
	require.NoError(t, s.RecordMove(cubesolver.R))
	assert.Equal(t, 0, s.MoveCount())
	require.ErrorIs(t, s.End(), ErrNotRecording)

	id, err := s.Start(storage.SourcePlay, "")
	require.NoError(t, err)
	assert.Equal(t, StateRecording, s.State())
	_, err = s.Start(storage.SourcePlay, "")
	require.ErrorIs(t, err, ErrAlreadyRecording)

	for _, m := range cubesolver.SexyMove {
		require.NoError(t, s.RecordMove(m))
	}
	assert.Equal(t, 4, s.MoveCount())

	require.NoError(t, s.End())
	assert.Equal(t, StateEnded, s.State())

	resumed := NewSession(db, nil)
	require.ErrorIs(t, resumed.Resume(id), ErrSessionEnded)
	require.ErrorIs(t, resumed.Resume("missing"), ErrSessionNotFound)
}

func TestResumeContinuesSequence(t *testing.T) {
	db := openDB(t)
	s := NewSession(db, nil)
	id, err := s.Start(storage.SourceServe, "")
	require.NoError(t, err)
	require.NoError(t, s.RecordMove(cubesolver.F))

	other := NewSession(db, nil)
	require.NoError(t, other.Resume(id))
	assert.Equal(t, 1, other.MoveCount())
	require.NoError(t, other.RecordMove(cubesolver.M))

	records, err := storage.NewMoveRepository(db).GetBySession(id)
	require.NoError(t, err)
	assert.Equal(t, "F M", types.FormatMoves(storage.ToMoves(records)))
}

func TestRecordStateAndReplay(t *testing.T) {
	db := openDB(t)
	s := NewSession(db, nil)

	blank := cubesolver.New()
	snap, err := s.RecordState(blank.State())
	require.NoError(t, err)
	assert.Empty(t, snap)

	id, err := s.Start(storage.SourceCLI, "replay")
	require.NoError(t, err)

	p := cubesolver.New(cubesolver.WithDurations(10, 20))
	require.NoError(t, p.PaintSolved())
	p.OnRotationCompleted(func(c cubesolver.RotationCompleted) {
		require.NoError(t, s.RecordMove(c.Move()))
	})
	require.NoError(t, p.ApplyNotation("R U' S2"))

	snap, err = s.RecordState(p.State())
	require.NoError(t, err)
	require.NotEmpty(t, snap)

	stored, err := storage.NewSnapshotRepository(db).Get(snap)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, p.Facelets(), stored.Facelets)
	assert.Equal(t, "valid", stored.Status)
	require.NotNil(t, stored.SessionID)
	assert.Equal(t, id, *stored.SessionID)

	fresh := cubesolver.New(cubesolver.WithDurations(10, 20))
	require.NoError(t, fresh.PaintSolved())
	moves, err := Replay(db, id, fresh)
	require.NoError(t, err)
	assert.Equal(t, "R U' S2", types.FormatMoves(moves))
	assert.Equal(t, p.Facelets(), fresh.Facelets())
}
