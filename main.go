package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/roshambo/config"
	"github.com/pthm-cable/roshambo/game"
	"github.com/pthm-cable/roshambo/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for GeoJSON snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")
	stopOnWinner := flag.Bool("stop-on-winner", false, "Stop once a single kind remains")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
		StepsPerUpdate: *stepsPerUpdate,
		StopOnWinner:   *stopOnWinner,
	}

	if *headless {
		if err := runHeadless(opts, *maxTicks); err != nil {
			slog.Error("simulation failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := runWindowed(cfg, opts, *maxTicks); err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

// runHeadless steps the simulation without raylib until max ticks or a winner.
func runHeadless(opts game.Options, maxTicks int) error {
	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	slog.Info("starting headless simulation",
		"seed", g.Seed(),
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
	)

	for {
		g.Update()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			return nil
		}
		if g.Done() {
			k, _ := g.Winner()
			slog.Info("winner", "kind", k.String(), "tick", g.Tick())
			return nil
		}
	}
}

// runWindowed opens a window and drives the simulation from the frame loop.
// The run starts paused.
func runWindowed(cfg *config.Config, opts game.Options, maxTicks int) error {
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Roshambo")
	defer rl.CloseWindow()
	rl.InitAudioDevice()
	defer rl.CloseAudioDevice()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	// Escape deselects in the inspector.
	rl.SetExitKey(rl.KeyNull)

	host := ui.NewHost(cfg.Assets.Root)
	defer host.Unload()

	opts.Host = host
	opts.StartPaused = true
	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	arena := ui.NewArenaRenderer(host, g)
	panel := ui.NewControlsPanel(10, 10, 200)
	hud := ui.NewHUD(220)
	inspector := ui.NewInspector()

	for !rl.WindowShouldClose() {
		ui.HandleInput(g, panel, arena)
		inspector.HandleInput(g, arena)
		g.Update()
		g.RecordFrame()

		rl.BeginDrawing()
		rl.ClearBackground(rl.Color{R: 15, G: 18, B: 22, A: 255})
		selected, hasSelected := inspector.Selected()
		arena.Draw(g, selected, hasSelected)
		panel.Draw(g.Controls())
		screenW := int32(rl.GetScreenWidth())
		hud.Draw(ui.HUDDataFrom(g, "Roshambo"), screenW)
		inspector.Draw(g, screenW-ui.InspectorWidth-10, 160)
		hud.DrawControls(int32(rl.GetScreenHeight()))
		rl.EndDrawing()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			break
		}
	}
	return nil
}
