package solver

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOracleFunc(t *testing.T) {
	var gotDepth int
	o := OracleFunc(func(_ context.Context, facelets string, depth int) (string, error) {
		gotDepth = depth
		return "R U", nil
	})
	out, err := o.Solve(context.Background(), "x", DefaultMaxDepth)
	require.NoError(t, err)
	assert.Equal(t, "R U", out)
	assert.Equal(t, 21, gotDepth)
}

func TestCommandWithoutPath(t *testing.T) {
	_, err := (&Command{}).Solve(context.Background(), "x", 21)
	assert.ErrorIs(t, err, ErrNoCommand)
}

func TestCommandPassesArguments(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	c := &Command{
		Path:    "sh",
		Args:    []string{"-c", `echo "  $1:$2  "`, "oracle"},
		Timeout: 5 * time.Second,
	}
	out, err := c.Solve(context.Background(), "FACELETS", 17)
	require.NoError(t, err)
	assert.Equal(t, "FACELETS:17", out)
}

func TestCommandFailure(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	c := &Command{Path: "sh", Args: []string{"-c", "echo broken >&2; exit 3", "oracle"}}
	_, err := c.Solve(context.Background(), "x", 21)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}
