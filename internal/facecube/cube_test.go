package facecube

import (
	"errors"
	"testing"

	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

func move(t *testing.T, n string) types.Move {
	t.Helper()
	m, err := types.ParseMove(n)
	if err != nil {
		t.Fatalf("ParseMove(%q): %v", n, err)
	}
	return m
}

func TestNewCubeIsSolved(t *testing.T) {
	c := New()
	if !c.IsSolved() {
		t.Error("New cube should be solved")
	}
	if c.String() != types.SolvedFacelets {
		t.Errorf("unexpected facelets %q", c.String())
	}
}

func TestSingleMoveBreaksSolved(t *testing.T) {
	c := New()
	c.Move(move(t, "R"))
	if c.IsSolved() {
		t.Error("Cube should not be solved after R move")
	}
}

func TestRMoveFacelets(t *testing.T) {
	c := New()
	c.Move(move(t, "R"))
	want := "UUFUUFUUF" + "RRRRRRRRR" + "FFDFFDFFD" + "DDBDDBDDB" + "LLLLLLLLL" + "UBBUBBUBB"
	if c.String() != want {
		t.Errorf("after R got %q, want %q", c.String(), want)
		t.Log(c.Net())
	}
}

func TestUMoveFacelets(t *testing.T) {
	c := New()
	c.Move(move(t, "U"))
	want := "UUUUUUUUU" + "BBBRRRRRR" + "RRRFFFFFF" + "DDDDDDDDD" + "FFFLLLLLL" + "LLLBBBBBB"
	if c.String() != want {
		t.Errorf("after U got %q, want %q", c.String(), want)
		t.Log(c.Net())
	}
}

func TestFourQuartersReturnToSolved_AllFaces(t *testing.T) {
	for _, n := range []string{"U", "D", "F", "B", "R", "L"} {
		c := New()
		for i := 0; i < 4; i++ {
			c.Move(move(t, n))
		}
		if !c.IsSolved() {
			t.Errorf("%s x 4 should return to solved", n)
			t.Log(c.Net())
		}
	}
}

func TestHalfTurnsReturnToSolved(t *testing.T) {
	c := New()
	c.Move(move(t, "R2"))
	c.Move(move(t, "R2"))
	if !c.IsSolved() {
		t.Error("R2 R2 should return to solved")
		t.Log(c.Net())
	}
}

func TestSexyMove_6Times_ReturnsToSolved(t *testing.T) {
	c := New()
	for i := 0; i < 6; i++ {
		if err := c.ApplyNotation("R U R' U'"); err != nil {
			t.Fatal(err)
		}
	}
	if !c.IsSolved() {
		t.Error("Sexy move x 6 should return to solved")
		t.Log(c.Net())
	}
}

func TestSolvesChecksInverse(t *testing.T) {
	scramble, _ := types.ParseMoves("F R U' B2 L D")
	state, err := Scramble(scramble)
	if err != nil {
		t.Fatal(err)
	}

	ok, err := Solves(state, types.InvertMoves(scramble))
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("inverse scramble should solve the cube")
	}

	ok, _ = Solves(state, scramble)
	if ok {
		t.Error("repeating the scramble should not solve the cube")
	}
}

func TestSliceMovesRejected(t *testing.T) {
	c := New()
	if err := c.Move(move(t, "M")); !errors.Is(err, ErrSliceMove) {
		t.Errorf("expected ErrSliceMove, got %v", err)
	}
}

func TestParseLength(t *testing.T) {
	if _, err := Parse("UUU"); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("expected ErrInvalidLength, got %v", err)
	}
}
