package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/SeamusWaldron/cubesolver/internal/config"
	"github.com/SeamusWaldron/cubesolver/internal/feed"
	"github.com/SeamusWaldron/cubesolver/internal/recorder"
	"github.com/SeamusWaldron/cubesolver/internal/storage"
	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

var (
	serveAddr   string
	serveBlank  bool
	serveNoSave bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the puzzle over HTTP and websocket",
	Long: `Run a virtual cube and expose it over HTTP.

Routes:
  GET  /ws      stream rotation_completed and state_changed events
  GET  /state   current state as JSON
  POST /moves   queue moves, as plain notation or {"moves": "R U R'"}
  POST /solve   validate through the configured solver`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: from config)")
	serveCmd.Flags().BoolVar(&serveBlank, "blank", false, "Start with every sticker uncolored")
	serveCmd.Flags().BoolVar(&serveNoSave, "no-save", false, "Do not record the session")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	engine, hub, closeFn, err := startEngine(cfg, log, storage.SourceServe, !serveNoSave)
	if err != nil {
		return err
	}
	defer closeFn()

	fmt.Printf("Serving on http://%s\n", addr)
	return runFeed(ctx, log, engine, hub, addr)
}

// startEngine builds a puzzle and its feed engine. When save is set,
// completed moves are recorded under a new session of source.
func startEngine(cfg config.Config, log *zap.Logger, source string, save bool) (*feed.Engine, *feed.Hub, func(), error) {
	p := newPuzzle(cfg, log)
	if !serveBlank {
		if err := p.PaintSolved(); err != nil {
			return nil, nil, nil, err
		}
	}

	hub := feed.NewHub(256, log.Named("hub"))
	engine := feed.NewEngine(p, hub, cfg.Server.Tick, log.Named("engine"))
	if !save {
		return engine, hub, func() {}, nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	session := recorder.NewSession(db, log.Named("recorder"))
	if _, err := session.Start(source, ""); err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	engine.OnMove(func(m types.Move) {
		if err := session.RecordMove(m); err != nil {
			log.Warn("failed to record move", zap.Error(err))
		}
	})

	return engine, hub, func() {
		if err := session.End(); err != nil {
			log.Warn("failed to end session", zap.Error(err))
		}
		db.Close()
	}, nil
}

// runFeed runs the engine loop and the HTTP server until ctx is done.
func runFeed(ctx context.Context, log *zap.Logger, engine *feed.Engine, hub *feed.Hub, addr string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return engine.Run(ctx)
	})
	g.Go(func() error {
		return feed.NewServer(engine, hub, log.Named("http")).ListenAndServe(ctx, addr)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
