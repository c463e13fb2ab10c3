// Package cli implements the command-line interface for cubesolver.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SeamusWaldron/cubesolver"
	"github.com/SeamusWaldron/cubesolver/internal/config"
	"github.com/SeamusWaldron/cubesolver/internal/logging"
	"github.com/SeamusWaldron/cubesolver/internal/solver"
	"github.com/SeamusWaldron/cubesolver/internal/storage"
)

const version = "0.1.0"

var (
	// Global flags
	configPath string
	dbPath     string
	verbose    bool
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "cubesolver",
	Short: "Virtual 3x3x3 puzzle with solver validation",
	Long: `cubesolver - A virtual 3x3x3 puzzle that animates face and slice turns,
derives the facelet string from sticker geometry, and validates it
through an external two-phase solver.

Paint or turn the cube in the terminal, serve it to websocket clients,
or mirror a GoCube smart cube over Bluetooth.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: ~/.cubesolver/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file path (default: from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// loadConfig reads the config file named by --config, or the default
// one when present.
func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Default(), err
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Log.Level = "debug"
		cfg.Log.Development = true
	}
	return cfg, nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Log.Level, cfg.Log.Development)
}

// getDBPath returns the database path from flag or config. Relative
// config paths live in the config directory.
func getDBPath(cfg config.Config) (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	if filepath.IsAbs(cfg.Storage.DBPath) {
		return cfg.Storage.DBPath, nil
	}
	dir, err := config.DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, cfg.Storage.DBPath), nil
}

func openDB(cfg config.Config) (*storage.DB, error) {
	path, err := getDBPath(cfg)
	if err != nil {
		return nil, err
	}
	db, err := storage.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// newOracle returns the configured solver command, or nil when none is
// configured.
func newOracle(cfg config.Config, log *zap.Logger) solver.Oracle {
	if cfg.Solver.Command == "" {
		return nil
	}
	return &solver.Command{
		Path:    cfg.Solver.Command,
		Args:    cfg.Solver.Args,
		Timeout: cfg.Solver.Timeout,
		Log:     log.Named("solver"),
	}
}

func newPuzzle(cfg config.Config, log *zap.Logger) *cubesolver.Puzzle {
	opts := []cubesolver.Option{
		cubesolver.WithLogger(log),
		cubesolver.WithDurations(cfg.Animation.QuarterTurn, cfg.Animation.HalfTurn),
		cubesolver.WithMaxDepth(cfg.Solver.MaxDepth),
	}
	if o := newOracle(cfg, log); o != nil {
		opts = append(opts, cubesolver.WithOracle(o))
	}
	return cubesolver.New(opts...)
}

// setup loads the config and builds the logger.
func setup() (config.Config, *zap.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}
