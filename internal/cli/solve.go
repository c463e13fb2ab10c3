package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubesolver"
	"github.com/SeamusWaldron/cubesolver/internal/recorder"
	"github.com/SeamusWaldron/cubesolver/internal/validate"
	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

var (
	solveMoves  string
	solveNoSave bool
)

var solveCmd = &cobra.Command{
	Use:   "solve [facelets]",
	Short: "Validate a cube and find a solution",
	Long: `Run full validation through the configured solver command.

The cube is either given as a 54-character facelet string in URFDLB order,
or built by applying --moves to a solved virtual cube. The result is stored
as a snapshot in the history database unless --no-save is given.

Examples:
  cubesolver solve --moves "R U R' U'"
  cubesolver solve UUUUUUUUURRRRRRRRRFFFFFFFFFDDDDDDDDDLLLLLLLLLBBBBBBBBB`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSolve,
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().StringVarP(&solveMoves, "moves", "m", "", "Scramble a solved cube with these moves")
	solveCmd.Flags().BoolVar(&solveNoSave, "no-save", false, "Do not store the result")
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Solver.Command == "" {
		fmt.Println(errorStyle.Render("No solver configured."))
		fmt.Println()
		fmt.Println("Set solver.command in the config file, for example:")
		fmt.Println("  solver:")
		fmt.Println("    command: /usr/local/bin/min2phase")
		fmt.Println("    max_depth: 21")
		return nil
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var st cubesolver.State
	switch {
	case len(args) == 1:
		if solveMoves != "" {
			return fmt.Errorf("give either facelets or --moves, not both")
		}
		facelets := strings.ToUpper(strings.TrimSpace(args[0]))
		v := validate.New(newOracle(cfg, log),
			validate.WithMaxDepth(cfg.Solver.MaxDepth),
			validate.WithLogger(log.Named("validate")),
		)
		st = cubesolver.State{Raw: facelets, Facelets: facelets, Result: v.Solve(ctx, facelets)}
	default:
		p := newPuzzle(cfg, log)
		if err := p.PaintSolved(); err != nil {
			return err
		}
		if err := p.ApplyNotation(solveMoves); err != nil {
			return err
		}
		p.Solve(ctx)
		st = p.State()
		fmt.Print(renderNet(st.Raw))
		fmt.Println()
	}

	fmt.Printf("Facelets: %s\n", st.Facelets)
	fmt.Println(renderStatus(st))
	if sol := st.Solution(); len(sol) > 0 {
		fmt.Printf("Solution: %s\n", moveStyle.Render(types.FormatMoves(sol)))
	}
	printSuggestion(st.Result.Err)

	if solveNoSave {
		return nil
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := recorder.NewSession(db, log).RecordState(st)
	if err != nil {
		return err
	}
	if id != "" {
		fmt.Println(statusStyle.Render("Saved snapshot " + id))
	}
	return nil
}

// printSuggestion explains a solver error code, if err carries one.
func printSuggestion(err error) {
	var serr *validate.SolverError
	if errors.As(err, &serr) {
		fmt.Println()
		fmt.Println(helpStyle.Render(serr.Detail()))
	}
}
