package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SeamusWaldron/cubesolver"
	"github.com/SeamusWaldron/cubesolver/internal/queue"
	"github.com/SeamusWaldron/cubesolver/internal/storage"
	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

var replayCmd = &cobra.Command{
	Use:   "replay [session-id]",
	Short: "Replay a recorded session",
	Long: `Replay the moves of a recorded session on a solved virtual cube.

Usage:
  cubesolver history replay <session-id>   # Replay a specific session
  cubesolver history replay --last         # Replay the most recent session
  cubesolver history replay --speed 2.0    # Replay at 2x speed
  cubesolver history replay --step         # Step through moves manually`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

var (
	replaySpeed float64
	replayStep  bool
	replayLast  bool
)

func init() {
	historyCmd.AddCommand(replayCmd)
	replayCmd.Flags().Float64VarP(&replaySpeed, "speed", "s", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVarP(&replayStep, "step", "t", false, "Step through moves manually")
	replayCmd.Flags().BoolVar(&replayLast, "last", false, "Replay the most recent session")
}

// resolveSessionID returns args[0], or the latest session when last is set.
func resolveSessionID(db *storage.DB, args []string, last bool) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if !last {
		return "", fmt.Errorf("specify a session id or --last")
	}
	sessions, err := storage.NewSessionRepository(db).List(1)
	if err != nil {
		return "", fmt.Errorf("failed to get last session: %w", err)
	}
	if len(sessions) == 0 {
		return "", fmt.Errorf("no sessions found")
	}
	return sessions[0].SessionID, nil
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	sessionID, err := resolveSessionID(db, args, replayLast)
	if err != nil {
		return err
	}
	records, err := storage.NewMoveRepository(db).GetBySession(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get moves: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no moves found for session %s", sessionID)
	}

	p := newPuzzle(cfg, zap.NewNop())
	if err := p.PaintSolved(); err != nil {
		return err
	}

	model := newReplayModel(p, sessionID, storage.ToMoves(records), replaySpeed, replayStep)
	prog := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("replay error: %w", err)
	}
	return nil
}

// Replay model
type replayModel struct {
	puzzle    *cubesolver.Puzzle
	queue     *queue.Queue
	sessionID string
	speed     float64
	paused    bool
	last      time.Time
	err       error
	quitting  bool
}

func newReplayModel(p *cubesolver.Puzzle, sessionID string, moves []types.Move, speed float64, stepMode bool) *replayModel {
	q := queue.New(nil)
	q.Load(moves)
	p.OnRotationCompleted(func(cubesolver.RotationCompleted) {
		q.OnCompleted()
	})
	if speed <= 0 {
		speed = 1
	}
	return &replayModel{
		puzzle:    p,
		queue:     q,
		sessionID: sessionID,
		speed:     speed,
		paused:    stepMode,
	}
}

func (m *replayModel) Init() tea.Cmd {
	m.last = time.Now()
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *replayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case " ", "n":
			m.paused = true
			m.advance(m.queue.Next)
		case "b":
			m.paused = true
			m.advance(m.queue.Prev)
		case "p":
			m.paused = !m.paused
		case "+", "=":
			m.speed = min(m.speed*2, 16)
		case "-":
			m.speed = max(m.speed/2, 0.25)
		}

	case frameMsg:
		now := time.Time(msg)
		dt := time.Duration(float64(now.Sub(m.last)) * m.speed)
		m.last = now
		if !m.paused && !m.puzzle.Busy() {
			m.advance(m.queue.Next)
		}
		m.puzzle.Tick(dt)
		return m, tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
	}

	return m, nil
}

func (m *replayModel) advance(next func() (types.Move, error)) {
	if m.puzzle.Busy() {
		return
	}
	mv, err := next()
	if err != nil {
		return
	}
	m.err = m.puzzle.DispatchMove(mv)
}

func (m *replayModel) View() string {
	if m.quitting {
		return "Replay ended.\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Session Replay"))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.sessionID))
	b.WriteString("\n\n")

	progress := fmt.Sprintf("Move %d/%d", m.queue.Highlight(), len(m.queue.Played())+len(m.queue.Upcoming()))
	if m.paused {
		progress += " [PAUSED]"
	}
	b.WriteString(statusStyle.Render(progress))
	b.WriteString(fmt.Sprintf(" (%.2gx speed)\n\n", m.speed))

	st := m.puzzle.State()
	b.WriteString(renderNet(st.Raw))
	b.WriteString("\n")
	b.WriteString(renderStatus(st))
	b.WriteString("\n")
	if st.Facelets == types.SolvedFacelets {
		b.WriteString(validStyle.Render("SOLVED!"))
		b.WriteString("\n")
	}

	if sol := renderSolution(m.queue.Played(), m.queue.Upcoming()); sol != "" {
		b.WriteString("\n" + sol + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("SPACE/n=next  b=back  p=pause  +/-=speed  q=quit"))
	b.WriteString("\n")
	return b.String()
}
