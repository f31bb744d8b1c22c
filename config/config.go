// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Boundary policies.
const (
	PolicyReflectInPlace = "reflect_in_place"
	PolicyReflectOnly    = "reflect_only"
)

// Danger sources for the flee component of steering.
const (
	DangerQuery  = "query"
	DangerEvents = "events"
)

// Spatial index backends.
const (
	BackendKDTree   = "kdtree"
	BackendQuadtree = "quadtree"
	BackendGrid     = "grid"
)

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Arena      ArenaConfig      `yaml:"arena"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Population PopulationConfig `yaml:"population"`
	Agent      AgentConfig      `yaml:"agent"`
	Steering   SteeringConfig   `yaml:"steering"`
	Boundary   BoundaryConfig   `yaml:"boundary"`
	Spatial    SpatialConfig    `yaml:"spatial"`
	Regions    RegionsConfig    `yaml:"regions"`
	Assets     AssetsConfig     `yaml:"assets"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// ArenaConfig holds arena sizing. The arena is the viewport minus Margin,
// centred on the origin.
type ArenaConfig struct {
	Margin float64 `yaml:"margin"`
}

// PhysicsConfig holds simulation timing.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"` // seconds per tick
}

// PopulationConfig holds initial population parameters.
type PopulationConfig struct {
	Groups  int `yaml:"groups"`   // spawn rounds
	PerKind int `yaml:"per_kind"` // agents of each kind per round
}

// AgentConfig holds per-agent shape and spawn parameters.
type AgentConfig struct {
	SpriteSize      float64 `yaml:"sprite_size"`      // drawn size in world units
	ContactDistance float64 `yaml:"contact_distance"` // inner contact threshold
	VisionMin       float64 `yaml:"vision_min"`       // outer sensor radius lower bound
	VisionMax       float64 `yaml:"vision_max"`       // outer sensor radius upper bound (exclusive)
	InitialSpeed    float64 `yaml:"initial_speed"`    // initial velocity on both axes
}

// SteeringConfig holds pursuit/evasion parameters.
type SteeringConfig struct {
	BaseSpeed         float64 `yaml:"base_speed"`         // pursuit speed, units per second
	Jitter            float64 `yaml:"jitter"`             // per-axis random offset bound, units per second
	FleeMultiplier    float64 `yaml:"flee_multiplier"`    // flee speed = base_speed * this
	FleeExclusive     bool    `yaml:"flee_exclusive"`     // drop pursuit while fleeing
	Inertia           float64 `yaml:"inertia"`            // 0 = direct position integration
	DangerSource      string  `yaml:"danger_source"`      // query | events
	ParallelThreshold int     `yaml:"parallel_threshold"` // agents before fanning out to workers
}

// BoundaryConfig holds arena containment parameters.
type BoundaryConfig struct {
	Policy  string  `yaml:"policy"`  // reflect_in_place | reflect_only
	Epsilon float64 `yaml:"epsilon"` // inset applied when clamping
	Nudge   float64 `yaml:"nudge"`   // extra inward offset after clamping
	Gap     float64 `yaml:"gap"`     // overshoot tolerated by reflect_only
}

// SpatialConfig holds spatial index parameters.
type SpatialConfig struct {
	Backend         string  `yaml:"backend"`          // kdtree | quadtree | grid
	RebuildInterval float64 `yaml:"rebuild_interval"` // seconds between rebuilds (0 = every tick)
	GridCellSize    float64 `yaml:"grid_cell_size"`
}

// RegionsConfig holds spawn region parameters.
type RegionsConfig struct {
	Count  int     `yaml:"count"`
	Radius float64 `yaml:"radius"`
}

// AssetsConfig holds the asset root handed to the host.
type AssetsConfig struct {
	Root string `yaml:"root"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	HalfWidth      float64 // arena half width
	HalfHeight     float64 // arena half height
	FleeSpeed      float64 // Steering.BaseSpeed * Steering.FleeMultiplier
	ContactDistSq  float64 // Agent.ContactDistance squared
	RebuildTicks   int     // ticks between index rebuilds, at least 1
	TicksPerSecond float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.ComputeDerived(cfg.Screen.Width, cfg.Screen.Height)

	return cfg, nil
}

// Validate reports every out-of-range parameter at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Physics.DT <= 0 {
		errs = append(errs, fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT))
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		errs = append(errs, fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height))
	}
	if c.Arena.Margin < 0 {
		errs = append(errs, fmt.Errorf("arena.margin must not be negative, got %v", c.Arena.Margin))
	}
	if c.Population.Groups < 0 || c.Population.PerKind < 0 {
		errs = append(errs, errors.New("population counts must not be negative"))
	}
	if c.Agent.ContactDistance <= 0 {
		errs = append(errs, fmt.Errorf("agent.contact_distance must be positive, got %v", c.Agent.ContactDistance))
	}
	if c.Agent.VisionMin < 0 || c.Agent.VisionMax < c.Agent.VisionMin {
		errs = append(errs, fmt.Errorf("agent vision range [%v, %v) is invalid", c.Agent.VisionMin, c.Agent.VisionMax))
	}
	if c.Steering.BaseSpeed < 0 || c.Steering.Jitter < 0 || c.Steering.FleeMultiplier < 0 {
		errs = append(errs, errors.New("steering speeds must not be negative"))
	}
	if c.Steering.Inertia < 0 || c.Steering.Inertia >= 1 {
		errs = append(errs, fmt.Errorf("steering.inertia must be in [0, 1), got %v", c.Steering.Inertia))
	}
	switch c.Steering.DangerSource {
	case DangerQuery, DangerEvents:
	default:
		errs = append(errs, fmt.Errorf("steering.danger_source %q is unknown", c.Steering.DangerSource))
	}
	switch c.Boundary.Policy {
	case PolicyReflectInPlace, PolicyReflectOnly:
	default:
		errs = append(errs, fmt.Errorf("boundary.policy %q is unknown", c.Boundary.Policy))
	}
	switch c.Spatial.Backend {
	case BackendKDTree, BackendQuadtree:
	case BackendGrid:
		if c.Spatial.GridCellSize <= 0 {
			errs = append(errs, fmt.Errorf("spatial.grid_cell_size must be positive, got %v", c.Spatial.GridCellSize))
		}
	default:
		errs = append(errs, fmt.Errorf("spatial.backend %q is unknown", c.Spatial.Backend))
	}
	if c.Spatial.RebuildInterval < 0 {
		errs = append(errs, fmt.Errorf("spatial.rebuild_interval must not be negative, got %v", c.Spatial.RebuildInterval))
	}
	if c.Regions.Count < 0 || c.Regions.Radius < 0 {
		errs = append(errs, errors.New("regions count and radius must not be negative"))
	}

	return errors.Join(errs...)
}

// ComputeDerived calculates values derived from loaded config for the given
// viewport. Hosts call it again once the real viewport is known.
func (c *Config) ComputeDerived(viewportW, viewportH int) {
	c.Derived.HalfWidth = (float64(viewportW) - c.Arena.Margin) / 2
	c.Derived.HalfHeight = (float64(viewportH) - c.Arena.Margin) / 2
	if c.Derived.HalfWidth < 0 {
		c.Derived.HalfWidth = 0
	}
	if c.Derived.HalfHeight < 0 {
		c.Derived.HalfHeight = 0
	}

	c.Derived.FleeSpeed = c.Steering.BaseSpeed * c.Steering.FleeMultiplier
	c.Derived.ContactDistSq = c.Agent.ContactDistance * c.Agent.ContactDistance

	c.Derived.RebuildTicks = int(c.Spatial.RebuildInterval/c.Physics.DT + 0.5)
	if c.Derived.RebuildTicks < 1 {
		c.Derived.RebuildTicks = 1
	}
	c.Derived.TicksPerSecond = 1 / c.Physics.DT
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
