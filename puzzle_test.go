package cubesolver

import (
	"context"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubesolver/internal/facecube"
	"github.com/SeamusWaldron/cubesolver/internal/solver"
	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

func paintedPuzzle(t *testing.T, opts ...Option) *Puzzle {
	t.Helper()
	p := New(opts...)
	require.NoError(t, p.PaintSolved())
	return p
}

func assertAtRest(t *testing.T, p *Puzzle) {
	t.Helper()
	for id, rest := range p.PieceRest() {
		got, err := p.PieceLattice(id)
		require.NoError(t, err)
		assert.Equal(t, rest, got, "piece %d", id)
	}
}

func TestNewPuzzleIsBlank(t *testing.T) {
	p := New()
	st := p.State()
	assert.Equal(t, StatusNotValidated, st.Status())
	assert.Len(t, st.Facelets, types.FaceletCount)
	assert.Equal(t, "Cube not yet validated", st.Message())
	assert.Len(t, p.Stickers(), types.FaceletCount)
}

func TestPaintSolved(t *testing.T) {
	p := paintedPuzzle(t)
	st := p.State()
	assert.Equal(t, types.SolvedFacelets, st.Facelets)
	assert.Equal(t, StatusValid, st.Status())
	assert.Zero(t, st.Misses)
}

func TestTickProgressAndCompletion(t *testing.T) {
	p := paintedPuzzle(t)

	var events []RotationCompleted
	p.OnRotationCompleted(func(e RotationCompleted) {
		events = append(events, e)
	})

	require.NoError(t, p.Dispatch("R"))
	assert.True(t, p.Busy())

	_, done := p.Tick(350 * time.Millisecond)
	assert.False(t, done)
	m, progress, ok := p.Active()
	require.True(t, ok)
	assert.Equal(t, R, m)
	assert.InDelta(t, 0.5, progress, 1e-9)

	e, done := p.Tick(350 * time.Millisecond)
	require.True(t, done)
	assert.Equal(t, R, e.Move())
	assert.False(t, p.Busy())
	require.Len(t, events, 1)

	want, err := facecube.Scramble([]Move{R})
	require.NoError(t, err)
	assert.Equal(t, want, p.Facelets())
}

func TestSingleFlight(t *testing.T) {
	p := paintedPuzzle(t)
	require.NoError(t, p.Dispatch("U"))

	err := p.Dispatch("R")
	assert.ErrorIs(t, err, ErrRotationInProgress)

	m, _, ok := p.Active()
	require.True(t, ok)
	assert.Equal(t, U, m)

	for p.Busy() {
		p.Tick(100 * time.Millisecond)
	}
	want, err := facecube.Scramble([]Move{U})
	require.NoError(t, err)
	assert.Equal(t, want, p.Facelets())
}

func TestDispatchRejectsNotation(t *testing.T) {
	p := New()
	for _, bad := range []string{"X", "R3", "R'2", "", "r"} {
		err := p.Dispatch(bad)
		assert.ErrorIs(t, err, ErrInvalidNotation, bad)
		assert.False(t, p.Busy())
	}
}

func TestInverseRoundTrip(t *testing.T) {
	for _, s := range types.AllSlices {
		for _, turn := range []types.Turn{types.TurnCW, types.TurnCCW, types.Turn180} {
			m := Move{Slice: s, Turn: turn}
			t.Run(m.Notation(), func(t *testing.T) {
				p := paintedPuzzle(t)
				require.NoError(t, p.Apply(m, m.Inverse()))
				assertAtRest(t, p)
				assert.Equal(t, types.SolvedFacelets, p.Facelets())
			})
		}
	}
}

func TestSexyMoveSixTimes(t *testing.T) {
	p := paintedPuzzle(t)
	for i := 0; i < 6; i++ {
		require.NoError(t, p.Apply(SexyMove...))
	}
	assertAtRest(t, p)
	assert.Equal(t, types.SolvedFacelets, p.Facelets())
}

func TestFourQuarterTurnsAreIdentity(t *testing.T) {
	p := paintedPuzzle(t)
	require.NoError(t, p.Apply(M, M, M, M))
	assertAtRest(t, p)
	require.NoError(t, p.Apply(F2, F2))
	assertAtRest(t, p)
}

func TestAgreesWithFaceletModel(t *testing.T) {
	sequences := []string{
		"R U R' U'",
		"F B2 L' D",
		"R U F' D2 L B' U2 R2",
		"R U R' U' R' F R2 U' R' U' R U R' F'",
	}
	for _, seq := range sequences {
		t.Run(seq, func(t *testing.T) {
			p := paintedPuzzle(t)
			require.NoError(t, p.ApplyNotation(seq))

			moves, err := types.ParseMoves(seq)
			require.NoError(t, err)
			want, err := facecube.Scramble(moves)
			require.NoError(t, err)

			assert.Equal(t, want, p.Facelets())
		})
	}
}

func TestReorientedPuzzleMatchesModel(t *testing.T) {
	p := New()
	p.Reorient(240, -130)
	require.NoError(t, p.PaintSolved())
	assert.Equal(t, types.SolvedFacelets, p.Facelets())

	require.NoError(t, p.ApplyNotation("R U F'"))
	want, err := facecube.Scramble([]Move{R, U, FPrime})
	require.NoError(t, err)
	assert.Equal(t, want, p.Facelets())

	p.ResetOrientation()
	assert.True(t, p.Orientation().ApproxEqual(mgl64.QuatIdent()))
}

func TestReorientComposesYawThenPitch(t *testing.T) {
	p := New()
	p.Reorient(100, 0)
	yaw := mgl64.QuatRotate(0.5, mgl64.Vec3{0, 1, 0})
	assert.True(t, p.Orientation().ApproxEqualThreshold(yaw, 1e-9))

	p.ResetOrientation()
	p.Reorient(0, 100)
	pitch := mgl64.QuatRotate(0.5, mgl64.Vec3{1, 0, 0})
	assert.True(t, p.Orientation().ApproxEqualThreshold(pitch, 1e-9))
}

func TestMiddleSliceIsCanonicalized(t *testing.T) {
	p := paintedPuzzle(t)
	require.NoError(t, p.Apply(M))

	st := p.State()
	assert.NotEqual(t, st.Raw, st.Facelets)
	for i, idx := range types.CenterIndices {
		assert.Equal(t, byte(types.FaceOrder[i]), st.Facelets[idx])
	}
	assert.Equal(t, StatusValid, st.Status())
}

func TestResetRefusedWhileBusy(t *testing.T) {
	p := paintedPuzzle(t)
	require.NoError(t, p.Dispatch("F"))
	assert.ErrorIs(t, p.Reset(), ErrRotationInProgress)
	assert.ErrorIs(t, p.PaintSolved(), ErrRotationInProgress)
	assert.True(t, p.Busy())

	for p.Busy() {
		p.Tick(time.Second)
	}
	require.NoError(t, p.Reset())
	assertAtRest(t, p)
	assert.Equal(t, types.SolvedFacelets, p.Facelets())
}

func TestClearColorsResetsValidation(t *testing.T) {
	p := paintedPuzzle(t)
	p.ClearColors()
	assert.Equal(t, StatusNotValidated, p.State().Status())
}

func TestPartialColoringIsInvalid(t *testing.T) {
	p := paintedPuzzle(t)
	s, ok := p.StickerAt(0)
	require.True(t, ok)
	require.NoError(t, p.SetColor(s.ID, types.ColorNone))

	st := p.State()
	assert.Equal(t, StatusInvalid, st.Status())
	assert.Equal(t, "Invalid: Incomplete cube: 1 faces are not colored", st.Message())

	assert.ErrorIs(t, p.SetColor(999, types.ColorRed), ErrUnknownSticker)
	assert.ErrorIs(t, p.SetColor(s.ID, types.Color(9)), ErrInvalidColor)
}

func TestStateChangeEvents(t *testing.T) {
	p := New()
	var got []StateChanged
	p.OnStateChange(func(e StateChanged) {
		got = append(got, e)
	})

	require.NoError(t, p.PaintSolved())
	require.Len(t, got, 1)
	assert.Equal(t, types.SolvedFacelets, got[0].State.Facelets)

	// reorientation leaves the state alone
	p.Reorient(50, 50)
	p.State()
	assert.Len(t, got, 1)

	require.NoError(t, p.Apply(R))
	assert.Len(t, got, 2)
}

func TestSolve(t *testing.T) {
	calls := 0
	oracle := solver.OracleFunc(func(_ context.Context, facelets string, depth int) (string, error) {
		calls++
		assert.Equal(t, 21, depth)
		return "F R U", nil
	})

	p := paintedPuzzle(t, WithOracle(oracle))
	require.NoError(t, p.Apply(UPrime, RPrime, FPrime))

	res := p.Solve(context.Background())
	require.Equal(t, StatusSolved, res.Status, res.Message())
	assert.Equal(t, []Move{F, R, U}, res.Solution)
	assert.Equal(t, 1, calls)

	// kept until the state changes
	assert.Equal(t, StatusSolved, p.State().Status())
	require.NoError(t, p.Apply(F))
	assert.Equal(t, StatusValid, p.State().Status())
}

func TestSolveInvalidSkipsOracle(t *testing.T) {
	calls := 0
	oracle := solver.OracleFunc(func(context.Context, string, int) (string, error) {
		calls++
		return "", nil
	})

	p := New(WithOracle(oracle))
	s, ok := p.StickerAt(4)
	require.True(t, ok)
	require.NoError(t, p.SetColor(s.ID, types.ColorWhite))

	res := p.Solve(context.Background())
	assert.Equal(t, StatusInvalid, res.Status)
	assert.Zero(t, calls)
}

func TestSolveWithoutOracle(t *testing.T) {
	p := paintedPuzzle(t)
	res := p.Solve(context.Background())
	assert.Equal(t, StatusSolvingFailed, res.Status)
	assert.ErrorIs(t, res.Err, solver.ErrNoCommand)
}

func TestCustomDurations(t *testing.T) {
	p := paintedPuzzle(t, WithDurations(100*time.Millisecond, 200*time.Millisecond))
	require.NoError(t, p.Dispatch("R2"))
	_, done := p.Tick(150 * time.Millisecond)
	assert.False(t, done)
	_, done = p.Tick(50 * time.Millisecond)
	assert.True(t, done)
}
