// Package game owns the agent registry and advances the simulation tick by tick.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/roshambo/components"
	"github.com/pthm-cable/roshambo/config"
	"github.com/pthm-cable/roshambo/systems"
	"github.com/pthm-cable/roshambo/telemetry"
)

// Options configures a new game.
type Options struct {
	Config         *config.Config // nil = config.Cfg()
	Host           Host           // nil = HeadlessHost sized to the configured screen
	Seed           int64          // 0 = time-based
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	SnapshotDir    string
	OutputDir      string
	StepsPerUpdate int
	StartPaused    bool
	StopOnWinner   bool
	StatsCallback  func(telemetry.WindowStats)
}

// Game holds the complete simulation state.
type Game struct {
	cfg  *config.Config
	seed int64

	world *ecs.World
	rng   *rand.Rand

	agentMapper *ecs.Map3[components.Position, components.Velocity, components.Agent]
	agentFilter *ecs.Filter3[components.Position, components.Velocity, components.Agent]
	posMap      *ecs.Map1[components.Position]
	velMap      *ecs.Map1[components.Velocity]
	agentMap    *ecs.Map1[components.Agent]

	index       *systems.KindIndex
	indexStale  bool // a conversion moved agents between kinds since the last rebuild
	resolver    *systems.Resolver
	containment systems.Containment
	steering    systems.SteeringParams
	parallel    *parallelState
	regions     []systems.Region

	// Threat per actor from the last resolver pass (events danger source).
	dangers map[ecs.Entity]ecs.Entity

	host     Host
	assets   assets
	controls Controls

	tick           int32
	stepsPerUpdate int
	counts         [components.NumKinds]int
	stopOnWinner   bool
	winner         bool

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	logStats         bool
	snapshotDir      string
}

// NewGameWithOptions creates a game, loads assets for every kind through the
// host and spawns the initial population.
func NewGameWithOptions(opts Options) (*Game, error) {
	base := opts.Config
	if base == nil {
		base = config.Cfg()
	}
	host := opts.Host
	if host == nil {
		host = NewHeadlessHost(base.Screen.Width, base.Screen.Height)
	}

	// Arena extents follow the host viewport.
	cfg := *base
	w, h := host.Viewport()
	cfg.ComputeDerived(w, h)

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	backend, err := systems.NewKindIndex(cfg.Spatial.Backend, cfg.Spatial.GridCellSize)
	if err != nil {
		return nil, fmt.Errorf("creating spatial index: %w", err)
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}
	stepsPerUpdate := opts.StepsPerUpdate
	if stepsPerUpdate < 1 {
		stepsPerUpdate = 1
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:         &cfg,
		seed:        seed,
		world:       world,
		rng:         rand.New(rand.NewSource(seed)),
		agentMapper: ecs.NewMap3[components.Position, components.Velocity, components.Agent](world),
		agentFilter: ecs.NewFilter3[components.Position, components.Velocity, components.Agent](world),
		posMap:      ecs.NewMap1[components.Position](world),
		velMap:      ecs.NewMap1[components.Velocity](world),
		agentMap:    ecs.NewMap1[components.Agent](world),

		index:       backend,
		resolver:    systems.NewResolver(world, cfg.Agent.ContactDistance, cfg.Steering.DangerSource == config.DangerEvents),
		containment: systems.NewContainment(&cfg),
		steering:    systems.SteeringParamsFrom(&cfg),
		parallel:    newParallelState(cfg.Steering.ParallelThreshold),
		dangers:     make(map[ecs.Entity]ecs.Entity),

		host:     host,
		controls: DefaultControls(),

		stepsPerUpdate: stepsPerUpdate,
		stopOnWinner:   opts.StopOnWinner,

		collector:        telemetry.NewCollector(statsWindow, cfg.Physics.DT),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		statsCallback:    opts.StatsCallback,
		logStats:         opts.LogStats,
		snapshotDir:      opts.SnapshotDir,
	}
	g.controls.Paused = opts.StartPaused

	if err := g.assets.load(host); err != nil {
		return nil, err
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if err := om.WriteConfig(g.cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}
	g.outputManager = om

	g.regions = systems.GenerateRegions(g.rng, cfg.Derived.HalfWidth, cfg.Derived.HalfHeight, cfg.Regions.Count, cfg.Regions.Radius)
	g.spawnInitialPopulation()
	_, g.winner = g.Winner()

	slog.Info("population spawned",
		"seed", seed,
		"agents", g.Population(),
		"regions", len(g.regions),
		"half_width", cfg.Derived.HalfWidth,
		"half_height", cfg.Derived.HalfHeight,
		"backend", cfg.Spatial.Backend,
		"danger_source", cfg.Steering.DangerSource,
		"boundary", cfg.Boundary.Policy,
	)

	return g, nil
}

// Update advances the simulation by the configured number of steps.
// Nothing advances while paused or after the run is done.
func (g *Game) Update() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		if g.controls.Paused || g.Done() {
			return
		}
		g.Step()
	}
}

// Step advances the simulation by exactly one tick:
// rebuild index (if due or kinds changed), steer, resolve collisions, contain, telemetry.
func (g *Game) Step() {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseSpatialIndex)
	if g.indexStale || g.tick%int32(g.cfg.Derived.RebuildTicks) == 0 {
		g.rebuildIndex()
	}

	g.perfCollector.StartPhase(telemetry.PhaseSteering)
	g.updateSteering()

	g.perfCollector.StartPhase(telemetry.PhaseCollisions)
	g.resolveCollisions()

	g.perfCollector.StartPhase(telemetry.PhaseBoundary)
	g.containAgents()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.tick++
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// RecordFrame records render frame timing for perf stats.
func (g *Game) RecordFrame() {
	g.perfCollector.RecordFrame()
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int32 {
	return g.tick
}

// Seed returns the RNG seed of the run.
func (g *Game) Seed() int64 {
	return g.seed
}

// Config returns the run configuration with derived values for the host viewport.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Controls returns the mutable control toggles.
func (g *Game) Controls() *Controls {
	return &g.controls
}

// Regions returns the spawn regions.
func (g *Game) Regions() []systems.Region {
	return g.regions
}

// Image returns the sprite handle loaded for kind.
func (g *Game) Image(kind components.Kind) ImageHandle {
	return g.assets.images[kind]
}

// ForEachAgent calls fn for every live agent in registry order.
func (g *Game) ForEachAgent(fn func(e ecs.Entity, pos components.Position, agent components.Agent)) {
	query := g.agentFilter.Query()
	for query.Next() {
		pos, _, agent := query.Get()
		if agent.Alive {
			fn(query.Entity(), *pos, *agent)
		}
	}
}

// Unload stops workers and closes output files.
func (g *Game) Unload() {
	g.parallel.stopWorkers()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
