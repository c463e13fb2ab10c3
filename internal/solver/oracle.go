// Package solver connects the puzzle to an external two-phase solving
// oracle.
package solver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultMaxDepth is the search depth bound passed to the oracle.
const DefaultMaxDepth = 21

// ErrNoCommand is returned when no oracle executable is configured.
var ErrNoCommand = errors.New("solver: no oracle command configured")

// Oracle solves facelet strings. The result is either "Error N" or a
// whitespace-separated list of moves.
type Oracle interface {
	Solve(ctx context.Context, facelets string, maxDepth int) (string, error)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(ctx context.Context, facelets string, maxDepth int) (string, error)

// Solve calls f.
func (f OracleFunc) Solve(ctx context.Context, facelets string, maxDepth int) (string, error) {
	return f(ctx, facelets, maxDepth)
}

// Command runs an external solver executable as
//
//	<Path> <Args...> <facelets> <maxDepth>
//
// and returns its trimmed standard output.
type Command struct {
	Path    string
	Args    []string
	Timeout time.Duration
	Log     *zap.Logger
}

// Solve runs the command.
func (c *Command) Solve(ctx context.Context, facelets string, maxDepth int) (string, error) {
	if c.Path == "" {
		return "", ErrNoCommand
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	args := append(append([]string{}, c.Args...), facelets, strconv.Itoa(maxDepth))
	cmd := exec.CommandContext(ctx, c.Path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("failed to run solver %s: %w: %s", c.Path, err, msg)
		}
		return "", fmt.Errorf("failed to run solver %s: %w", c.Path, err)
	}

	if c.Log != nil {
		c.Log.Debug("solver finished",
			zap.String("command", c.Path),
			zap.Duration("elapsed", time.Since(start)))
	}

	return strings.TrimSpace(stdout.String()), nil
}
