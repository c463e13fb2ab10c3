package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubesolver/internal/storage"
)

var (
	historyLimit int
	exportFormat string
	exportOutput string
	exportLast   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded sessions and snapshots",
	Long: `Display recent sessions with their move counts, and recent validated
snapshots with their status and solution.`,
	RunE: runHistory,
}

var exportCmd = &cobra.Command{
	Use:   "export [session-id]",
	Short: "Export the moves of a session",
	Long: `Export the move sequence of a session in text or JSON format.

Examples:
  cubesolver history export --last
  cubesolver history export <session-id> --format json
  cubesolver history export <session-id> --format txt -o moves.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Maximum number of entries to display")

	historyCmd.AddCommand(exportCmd)
	exportCmd.Flags().BoolVar(&exportLast, "last", false, "Export the most recent session")
	exportCmd.Flags().StringVar(&exportFormat, "format", "txt", "Export format (txt, json)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
}

func runHistory(cmd *cobra.Command, args []string) error {
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

	sessions, err := storage.NewSessionRepository(db).List(historyLimit)
	if err != nil {
		return err
	}
	moves := storage.NewMoveRepository(db)

	fmt.Println(titleStyle.Render("Sessions"))
	if len(sessions) == 0 {
		fmt.Println(statusStyle.Render("  none yet"))
	}
	for _, s := range sessions {
		count, err := moves.Count(s.SessionID)
		if err != nil {
			return err
		}
		ended := "open"
		if s.EndedAt != nil {
			ended = s.EndedAt.Sub(s.StartedAt).Round(time.Second).String()
		}
		fmt.Printf("  %s  %-6s  %s  %4d moves  %s\n",
			s.SessionID[:8], s.Source, s.StartedAt.Local().Format("2006-01-02 15:04"), count, statusStyle.Render(ended))
	}
	fmt.Println()

	snapshots, err := storage.NewSnapshotRepository(db).List(historyLimit)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("Snapshots"))
	if len(snapshots) == 0 {
		fmt.Println(statusStyle.Render("  none yet"))
	}
	for _, s := range snapshots {
		line := fmt.Sprintf("  %s  %s  %-14s %s", s.SnapshotID[:8], s.CreatedAt.Local().Format("2006-01-02 15:04"), s.Status, s.Message)
		fmt.Println(line)
		if s.Solution != nil {
			fmt.Printf("      %s\n", moveStyle.Render(*s.Solution))
		}
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
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

	sessionID, err := resolveSessionID(db, args, exportLast)
	if err != nil {
		return err
	}

	moves, err := storage.NewMoveRepository(db).GetBySession(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get moves: %w", err)
	}
	if len(moves) == 0 {
		return fmt.Errorf("no moves found for session %s", sessionID)
	}

	var output string
	switch strings.ToLower(exportFormat) {
	case "txt":
		notations := make([]string, len(moves))
		for i, m := range moves {
			notations[i] = m.Notation
		}
		output = strings.Join(notations, " ")

	case "json":
		type MoveJSON struct {
			Seq      int    `json:"seq"`
			TsMs     int64  `json:"ts_ms"`
			Slice    string `json:"slice"`
			Turn     int    `json:"turn"`
			Notation string `json:"notation"`
		}

		movesJSON := make([]MoveJSON, len(moves))
		for i, m := range moves {
			movesJSON[i] = MoveJSON{Seq: m.Seq, TsMs: m.TsMs, Slice: m.Slice, Turn: m.Turn, Notation: m.Notation}
		}

		data, err := json.MarshalIndent(movesJSON, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		output = string(data)

	default:
		return fmt.Errorf("unknown format: %s (use txt or json)", exportFormat)
	}

	if exportOutput == "" {
		fmt.Println(output)
		return nil
	}

	dir := filepath.Dir(exportOutput)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(exportOutput, []byte(output+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Printf("Exported %d moves to %s\n", len(moves), exportOutput)
	return nil
}
