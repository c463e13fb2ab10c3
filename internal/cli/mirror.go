package cli

import (
	"context"
	"encoding/hex"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/SeamusWaldron/cubesolver"
	"github.com/SeamusWaldron/cubesolver/internal/config"
	"github.com/SeamusWaldron/cubesolver/internal/queue"
	"github.com/SeamusWaldron/cubesolver/internal/smartcube"
	"github.com/SeamusWaldron/cubesolver/internal/storage"
	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

var (
	mirrorServe       bool
	mirrorOrientation bool
	mirrorAttempts    int
	mirrorRaw         bool
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Mirror a GoCube smart cube",
	Long: `Connect to a GoCube over Bluetooth and play every physical turn on the
virtual cube. The physical cube must be solved when the mirror starts.

With --serve the virtual cube is also served over HTTP and websocket,
as with the serve command.`,
	RunE: runMirror,
}

func init() {
	rootCmd.AddCommand(mirrorCmd)
	mirrorCmd.Flags().BoolVar(&mirrorServe, "serve", false, "Also serve the feed on the configured address")
	mirrorCmd.Flags().BoolVar(&mirrorOrientation, "orientation", false, "Follow the physical orientation of the cube")
	mirrorCmd.Flags().IntVar(&mirrorAttempts, "attempts", 3, "Scan attempts before giving up")
	mirrorCmd.Flags().BoolVar(&mirrorRaw, "raw", false, "Print every received frame as hex")
}

// scanForCube scans for GoCube devices with retries and connects to the
// configured one, or the first one found.
func scanForCube(ctx context.Context, cfg config.Config, log *zap.Logger, attempts int) (*smartcube.Client, smartcube.Device, error) {
	fmt.Println("Scanning for GoCube devices...")

	client, err := smartcube.NewClient(log.Named("ble"))
	if err != nil {
		return nil, smartcube.Device{}, fmt.Errorf("BLE not available: %w", err)
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		dev, err := client.ConnectFirst(ctx, cfg.Mirror.ScanTimeout, cfg.Mirror.Device)
		if err == nil {
			fmt.Printf("Connected: %s\n", dev.Name)
			return client, dev, nil
		}
		if ctx.Err() != nil {
			return nil, smartcube.Device{}, ctx.Err()
		}
		if attempt < attempts {
			fmt.Printf("Scan %d: %v, retrying...\n", attempt, err)
		}
	}

	fmt.Println("No GoCube devices found.")
	fmt.Println()
	fmt.Println("To fix this:")
	fmt.Println("  1. Rotate your cube to wake it up")
	fmt.Println("  2. Make sure it's not connected to your phone")
	fmt.Println("  3. Run this command again")
	return nil, smartcube.Device{}, smartcube.ErrDeviceNotFound
}

func runMirror(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, dev, err := scanForCube(ctx, cfg, log, mirrorAttempts)
	if err != nil {
		return err
	}
	defer client.Disconnect()

	engine, hub, closeFn, err := startEngine(cfg, log, storage.SourceMirror, true)
	if err != nil {
		return err
	}
	defer closeFn()

	mirror := smartcube.NewMirror(log.Named("mirror"))
	mirror.OnMoves(func(moves []types.Move) {
		fmt.Println(moveStyle.Render(types.FormatMoves(moves)))
		enqueueCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := engine.Enqueue(enqueueCtx, moves...); err != nil {
			log.Warn("failed to mirror moves", zap.Error(err))
		}
		if mirror.IsSolved() {
			fmt.Println(validStyle.Render("Solved!"))
		}
	})
	mirror.OnBattery(func(level int) {
		fmt.Println(statusStyle.Render(fmt.Sprintf("%s battery: %d%%", dev.Name, level)))
	})
	if mirrorOrientation {
		mirror.OnOrientation(func(o smartcube.Orientation) {
			_ = engine.Do(ctx, func(p *cubesolver.Puzzle, _ *queue.Queue) {
				p.SetOrientation(o.Quat)
			})
		})
	}
	if mirrorRaw {
		client.SetFrameCallback(func(data []byte) {
			printFrame(data)
			mirror.HandleFrame(data)
		})
	} else {
		client.SetFrameCallback(mirror.HandleFrame)
	}

	if mirrorOrientation {
		if err := client.SendCommand(smartcube.CmdEnableOrientation); err != nil {
			log.Warn("failed to enable orientation", zap.Error(err))
		}
	}
	if err := client.SendCommand(smartcube.CmdResetSolved); err != nil {
		log.Warn("failed to reset cube state", zap.Error(err))
	}

	fmt.Println(helpStyle.Render("Turn the cube. Ctrl+C to stop."))

	if mirrorServe {
		fmt.Printf("Serving on http://%s\n", cfg.Server.Addr)
		return runFeed(ctx, log, engine, hub, cfg.Server.Addr)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return engine.Run(gctx) })
	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}

	fmt.Printf("Mirrored %d moves\n", len(mirror.Moves()))
	return nil
}

// printFrame dumps one notification frame.
func printFrame(data []byte) {
	name := "unparsed"
	if msg, err := smartcube.ParseMessage(data); err == nil {
		name = smartcube.MessageTypeName(msg.Type)
	}
	fmt.Println(statusStyle.Render(fmt.Sprintf("[%s] %-12s %s", time.Now().Format("15:04:05.000"), name, hex.EncodeToString(data))))
}
