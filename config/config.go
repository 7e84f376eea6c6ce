// Package config provides configuration loading and access for the game and its trainers.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all game and training configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Bird       BirdConfig       `yaml:"bird"`
	Pipe       PipeConfig       `yaml:"pipe"`
	Ground     GroundConfig     `yaml:"ground"`
	Fitness    FitnessConfig    `yaml:"fitness"`
	Simulation SimulationConfig `yaml:"simulation"`
	Training   TrainingConfig   `yaml:"training"`
	Assets     AssetsConfig     `yaml:"assets"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Storage    StorageConfig    `yaml:"storage"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// BirdConfig holds the bird motion model.
type BirdConfig struct {
	StartX               float64 `yaml:"start_x"`
	StartY               float64 `yaml:"start_y"`
	JumpVelocity         float64 `yaml:"jump_velocity"`         // Negative = upward
	Gravity              float64 `yaml:"gravity"`               // a in d = v*t + a*t^2
	TerminalDisplacement float64 `yaml:"terminal_displacement"` // Per-tick displacement cap
	LiftBoost            float64 `yaml:"lift_boost"`            // Extra upward pixels when rising
	MaxRotation          float64 `yaml:"max_rotation"`          // Nose-up tilt in degrees
	RotationVelocity     float64 `yaml:"rotation_velocity"`     // Tilt decay per tick while falling
	MinTilt              float64 `yaml:"min_tilt"`              // Nose-dive floor
	DiveTilt             float64 `yaml:"dive_tilt"`             // At or below this the wings stop flapping
	TiltMargin           float64 `yaml:"tilt_margin"`           // Stay nose-up until this far below the jump origin
	AnimationTime        int     `yaml:"animation_time"`        // Ticks per flap frame
}

// PipeConfig holds pipe geometry and scrolling.
type PipeConfig struct {
	Gap       float64 `yaml:"gap"`
	Velocity  float64 `yaml:"velocity"`
	SpawnX    float64 `yaml:"spawn_x"`
	MinHeight int     `yaml:"min_height"` // Gap top drawn uniformly from [min_height, max_height)
	MaxHeight int     `yaml:"max_height"`
}

// GroundConfig holds the scrolling base strip.
type GroundConfig struct {
	Y        float64 `yaml:"y"`
	Velocity float64 `yaml:"velocity"`
}

// FitnessConfig holds the fitness deltas and the controller decision threshold.
type FitnessConfig struct {
	SurvivalBonus    float64 `yaml:"survival_bonus"`    // Per live tick
	PassBonus        float64 `yaml:"pass_bonus"`        // To every live genome when a pipe is passed
	CollisionPenalty float64 `yaml:"collision_penalty"` // Subtracted on pipe collision
	JumpThreshold    float64 `yaml:"jump_threshold"`    // Jump when output[0] exceeds this
}

// SimulationConfig holds run-wide simulation parameters.
type SimulationConfig struct {
	Seed     int64 `yaml:"seed"`      // Pipe gap seed (0 = time-based)
	MaxTicks int   `yaml:"max_ticks"` // Per-generation cap (0 = unlimited)
}

// TrainingConfig holds parameters for the NEAT driver.
type TrainingConfig struct {
	Generations    int     `yaml:"generations"`
	PopulationSize int     `yaml:"population_size"`
	TargetScore    int     `yaml:"target_score"` // Stop early once a generation reaches this score (0 = never)
	ConnectionProb float64 `yaml:"connection_prob"`
}

// AssetsConfig points at an optional sprite directory.
type AssetsConfig struct {
	Dir string `yaml:"dir"` // Empty = built-in sprites
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	LogEvery int `yaml:"log_every"` // Log stats every N generations
}

// StorageConfig selects the run history backend.
type StorageConfig struct {
	Backend string `yaml:"backend"` // memory or sqlite
	Path    string `yaml:"path"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	FrameTime time.Duration // 1 / Screen.TargetFPS
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
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		errs = append(errs, fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height))
	}
	if c.Pipe.MaxHeight <= c.Pipe.MinHeight {
		errs = append(errs, fmt.Errorf("pipe.max_height (%d) must exceed pipe.min_height (%d)", c.Pipe.MaxHeight, c.Pipe.MinHeight))
	}
	if c.Pipe.Gap <= 0 {
		errs = append(errs, fmt.Errorf("pipe.gap must be positive, got %v", c.Pipe.Gap))
	}
	if c.Bird.AnimationTime <= 0 {
		errs = append(errs, fmt.Errorf("bird.animation_time must be positive, got %d", c.Bird.AnimationTime))
	}
	if c.Bird.MinTilt > c.Bird.MaxRotation {
		errs = append(errs, fmt.Errorf("bird.min_tilt (%v) above bird.max_rotation (%v)", c.Bird.MinTilt, c.Bird.MaxRotation))
	}
	if c.Simulation.MaxTicks < 0 {
		errs = append(errs, fmt.Errorf("simulation.max_ticks must not be negative, got %d", c.Simulation.MaxTicks))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Screen.TargetFPS > 0 {
		c.Derived.FrameTime = time.Second / time.Duration(c.Screen.TargetFPS)
	}
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
