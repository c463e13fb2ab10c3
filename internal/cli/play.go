package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SeamusWaldron/cubesolver"
	"github.com/SeamusWaldron/cubesolver/internal/config"
	"github.com/SeamusWaldron/cubesolver/internal/queue"
	"github.com/SeamusWaldron/cubesolver/internal/recorder"
	"github.com/SeamusWaldron/cubesolver/internal/storage"
	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

var (
	playBlank  bool
	playNoSave bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Interactive terminal cube",
	Long: `Start an interactive TUI with an animated virtual cube.

Turn mode keys:
  u d f b l r m e s   - Turn clockwise (shift for counter-clockwise)
  arrows              - Rotate the whole cube
  x                   - Fix: paint every sticker its solved color
  c                   - Clear all colors
  o                   - Reset the orientation
  0                   - Return every piece to its home position
  enter               - Solve with the configured solver
  n / p               - Step forward / back through the solution
  tab                 - Switch to paint mode
  q/Esc               - Quit

Paint mode keys:
  arrows              - Move the cursor
  1-6                 - Select white yellow green blue red orange
  space               - Paint (again to clear)
  tab                 - Back to turn mode`,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().BoolVar(&playBlank, "blank", false, "Start with every sticker uncolored")
	playCmd.Flags().BoolVar(&playNoSave, "no-save", false, "Do not record the session")
}

const frameInterval = 16 * time.Millisecond

// drag step for the arrow keys, in pixels of a virtual mouse drag
const dragStep = 40

// Messages
type frameMsg time.Time

type playModel struct {
	cfg     config.Config
	puzzle  *cubesolver.Puzzle
	queue   *queue.Queue
	palette *cubesolver.Palette
	session *recorder.Session

	painting bool
	cursor   int
	last     time.Time
	moves    []types.Move

	notice   string
	err      error
	quitting bool
}

func newPlayModel(cfg config.Config, log *zap.Logger, session *recorder.Session) *playModel {
	m := &playModel{
		cfg:     cfg,
		puzzle:  newPuzzle(cfg, log),
		queue:   queue.New(log.Named("queue")),
		palette: cubesolver.NewPalette(),
		session: session,
		cursor:  4,
	}

	m.puzzle.OnRotationCompleted(func(c cubesolver.RotationCompleted) {
		m.queue.OnCompleted()
		m.moves = append(m.moves, c.Move())
		if m.session != nil {
			if err := m.session.RecordMove(c.Move()); err != nil {
				m.err = err
			}
		}
	})
	m.puzzle.OnStateChange(func(cubesolver.StateChanged) {
		m.palette.Sync(m.puzzle)
	})
	return m
}

func (m *playModel) Init() tea.Cmd {
	m.last = time.Now()
	return m.frameCmd()
}

func (m *playModel) frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "ctrl+c", "esc", "q":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			m.painting = !m.painting
			return m, nil
		}
		m.err = nil
		m.notice = ""
		if m.painting {
			m.handlePaintKey(key)
		} else {
			m.handleTurnKey(key)
		}
		return m, nil

	case frameMsg:
		now := time.Time(msg)
		dt := now.Sub(m.last)
		m.last = now
		if _, err := m.queue.Drive(m.puzzle); err != nil {
			m.err = err
		}
		m.puzzle.Tick(dt)
		return m, m.frameCmd()
	}

	return m, nil
}

var turnKeys = "udfblrmes"

func (m *playModel) handleTurnKey(key string) {
	if len(key) == 1 {
		lower := strings.ToLower(key)
		if strings.Contains(turnKeys, lower) {
			notation := strings.ToUpper(lower)
			if key != lower {
				notation += "'"
			}
			if err := m.puzzle.Dispatch(notation); err != nil {
				m.err = err
			}
			return
		}
	}

	switch key {
	case "left":
		m.puzzle.Reorient(-dragStep, 0)
	case "right":
		m.puzzle.Reorient(dragStep, 0)
	case "up":
		m.puzzle.Reorient(0, -dragStep)
	case "down":
		m.puzzle.Reorient(0, dragStep)
	case "x":
		m.err = m.puzzle.PaintSolved()
	case "c":
		m.puzzle.ClearColors()
		m.queue.Clear()
	case "o":
		m.puzzle.ResetOrientation()
	case "0":
		m.err = m.puzzle.Reset()
	case "enter":
		m.solve()
	case "n":
		m.step(m.queue.Next)
	case "p":
		m.step(m.queue.Prev)
	}
}

func (m *playModel) solve() {
	ctx := context.Background()
	if m.cfg.Solver.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.Solver.Timeout)
		defer cancel()
	}

	res := m.puzzle.Solve(ctx)
	if res.Status == cubesolver.StatusSolved {
		m.queue.Load(res.Solution)
		m.notice = "Solution loaded: press n to step"
	}
	if m.session != nil {
		if _, err := m.session.RecordState(m.puzzle.State()); err != nil {
			m.err = err
		}
	}
}

func (m *playModel) step(next func() (types.Move, error)) {
	if m.puzzle.Busy() {
		m.err = cubesolver.ErrRotationInProgress
		return
	}
	mv, err := next()
	if err != nil {
		if !errors.Is(err, queue.ErrEmpty) {
			m.err = err
		}
		return
	}
	m.err = m.puzzle.DispatchMove(mv)
}

var paletteKeys = map[string]types.Color{
	"1": types.ColorWhite,
	"2": types.ColorYellow,
	"3": types.ColorGreen,
	"4": types.ColorBlue,
	"5": types.ColorRed,
	"6": types.ColorOrange,
}

func (m *playModel) handlePaintKey(key string) {
	if c, ok := paletteKeys[key]; ok {
		m.err = m.palette.Select(c)
		return
	}

	switch key {
	case "left":
		m.moveCursor(-1)
	case "right":
		m.moveCursor(1)
	case "up":
		m.moveCursor(-types.FaceletCount / 6)
	case "down":
		m.moveCursor(types.FaceletCount / 6)
	case " ", "enter":
		s, ok := m.puzzle.StickerAt(m.cursor)
		if !ok {
			m.err = fmt.Errorf("no sticker at facelet %d", m.cursor)
			return
		}
		if _, err := m.palette.Apply(m.puzzle, s.ID); err != nil {
			m.err = err
		}
	}
}

func (m *playModel) moveCursor(delta int) {
	m.cursor = ((m.cursor+delta)%types.FaceletCount + types.FaceletCount) % types.FaceletCount
}

func (m *playModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("cubesolver"))
	if m.painting {
		b.WriteString(statusStyle.Render("  [paint]"))
	}
	b.WriteString("\n\n")

	st := m.puzzle.State()
	cursor := -1
	if m.painting {
		cursor = m.cursor
	}
	b.WriteString(renderNetCursor(st.Raw, cursor))
	b.WriteString("\n")

	if mv, progress, ok := m.puzzle.Active(); ok {
		b.WriteString(moveStyle.Render(fmt.Sprintf("Turning %s %3.0f%%", mv.Notation(), progress*100)))
	} else {
		b.WriteString(statusStyle.Render("Idle"))
	}
	b.WriteString("\n")
	b.WriteString(renderStatus(st))
	b.WriteString("\n")

	if sol := renderSolution(m.queue.Played(), m.queue.Upcoming()); sol != "" {
		b.WriteString("Solution: " + sol + "\n")
	}

	if len(m.moves) > 0 {
		start := 0
		b.WriteString("Moves: ")
		if len(m.moves) > 20 {
			start = len(m.moves) - 20
			b.WriteString("... ")
		}
		b.WriteString(moveStyle.Render(types.FormatMoves(m.moves[start:])))
		b.WriteString("\n")
	}

	if m.painting {
		b.WriteString("\n")
		var usage []string
		for _, c := range types.AllColors {
			label := fmt.Sprintf("%s %s", c, m.palette.Usage(c))
			if c == m.palette.Selected() {
				label = highlightStyle.Render(label)
			}
			usage = append(usage, label)
		}
		b.WriteString(strings.Join(usage, "  "))
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString("\n" + validStyle.Render(m.notice) + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n")
	}

	b.WriteString("\n")
	help := "Keys: udfblrmes=turn (shift=ccw)  arrows=rotate  x=fix c=clear o=orient 0=reset  enter=solve n/p=step  tab=paint  q=quit"
	if m.painting {
		help = "Keys: arrows=cursor  1-6=color  space=paint  tab=turn  q=quit"
	}
	b.WriteString(helpStyle.Render(help))
	b.WriteString("\n")

	return b.String()
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	var session *recorder.Session
	if !playNoSave {
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		session = recorder.NewSession(db, nil)
		if _, err := session.Start(storage.SourcePlay, ""); err != nil {
			return err
		}
		defer session.End()
	}

	// the TUI owns the terminal
	model := newPlayModel(cfg, zap.NewNop(), session)
	if !playBlank {
		if err := model.puzzle.PaintSolved(); err != nil {
			return err
		}
	}
	model.palette.Sync(model.puzzle)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
