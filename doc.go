// Package cubesolver provides a virtual 3x3x3 twisty puzzle: 26 pieces
// carrying colored stickers, turned one slice at a time, and the
// derivation of a solver-ready facelet string from its geometry.
//
// # Features
//
//   - Animated slice turns with exact grid positions after every turn
//   - Free sticker coloring with per-color usage limits
//   - Facelet strings that do not depend on how the puzzle is held
//   - Validation and solving through an external two-phase solver
//
// # Quick Start
//
// Build a puzzle, paint it, and turn it:
//
//	p := cubesolver.New()
//	p.PaintSolved()
//
//	p.OnRotationCompleted(func(e cubesolver.RotationCompleted) {
//	    fmt.Println("Turned:", e.Move().Notation())
//	})
//
//	if err := p.Dispatch("R'"); err != nil {
//	    log.Fatal(err)
//	}
//	for p.Busy() {
//	    p.Tick(16 * time.Millisecond)
//	}
//
//	fmt.Println(p.State().Facelets)
//
// # Solving
//
// Full validation calls an Oracle; solver.Command runs an external
// executable:
//
//	p := cubesolver.New(cubesolver.WithOracle(&solver.Command{Path: "min2phase"}))
//	res := p.Solve(ctx)
//	fmt.Println(res.Message())
//
// # Predefined Moves
//
//	cubesolver.R      // Right clockwise
//	cubesolver.RPrime // Right counter-clockwise
//	cubesolver.R2     // Right 180
//	// ... and similarly for L, U, D, F, B, M, E, S
package cubesolver
