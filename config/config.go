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

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Agent      AgentConfig      `yaml:"agent"`
	Simulation SimulationConfig `yaml:"simulation"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Batch      BatchConfig      `yaml:"batch"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds the grid dimensions and light placement.
type WorldConfig struct {
	Width       int `yaml:"width"`
	Height      int `yaml:"height"`
	LightMargin int `yaml:"light_margin"` // Light is drawn from [margin, dim-margin] on each axis
}

// AgentConfig holds agent sensing and placement parameters.
type AgentConfig struct {
	SensorDistance int `yaml:"sensor_distance"` // How far ahead each sensor probes
	StartMargin    int `yaml:"start_margin"`    // Random start drawn from [margin, dim-margin]
}

// SimulationConfig holds the termination policy and narration cadence.
type SimulationConfig struct {
	NumSteps        int     `yaml:"num_steps"`
	ReachedDistance float64 `yaml:"reached_distance"` // Stop early below this distance
	SuccessDistance float64 `yaml:"success_distance"` // Classify the run as a success below this distance
	ReportEvery     int     `yaml:"report_every"`     // Narrate every Nth step (plus the last)
}

// TelemetryConfig holds structured logging switches.
type TelemetryConfig struct {
	LogCycles bool `yaml:"log_cycles"` // Emit one slog record per cycle
}

// BatchConfig holds parameters for running many independent simulations.
type BatchConfig struct {
	Runs    int `yaml:"runs"`
	Workers int `yaml:"workers"` // 0 = GOMAXPROCS
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	CenterX int // Grid centre, used by the demo trace
	CenterY int
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

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
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

// Validate checks the preconditions the simulation relies on.
// Undersized worlds are rejected rather than clamped.
func (c *Config) Validate() error {
	var errs []error

	if c.World.LightMargin < 1 {
		errs = append(errs, fmt.Errorf("world.light_margin must be >= 1, got %d", c.World.LightMargin))
	}
	minDim := 2 * c.World.LightMargin
	if c.World.Width < minDim || c.World.Height < minDim {
		errs = append(errs, fmt.Errorf("world %dx%d too small for light margin %d (need >= %d)",
			c.World.Width, c.World.Height, c.World.LightMargin, minDim))
	}
	if c.Agent.SensorDistance <= 0 {
		errs = append(errs, fmt.Errorf("agent.sensor_distance must be > 0, got %d", c.Agent.SensorDistance))
	}
	if c.Agent.StartMargin < 1 || 2*c.Agent.StartMargin > c.World.Width || 2*c.Agent.StartMargin > c.World.Height {
		errs = append(errs, fmt.Errorf("agent.start_margin %d does not fit a %dx%d world",
			c.Agent.StartMargin, c.World.Width, c.World.Height))
	}
	if c.Simulation.NumSteps < 0 {
		errs = append(errs, fmt.Errorf("simulation.num_steps must be >= 0, got %d", c.Simulation.NumSteps))
	}
	if c.Simulation.ReportEvery <= 0 {
		errs = append(errs, fmt.Errorf("simulation.report_every must be > 0, got %d", c.Simulation.ReportEvery))
	}
	if c.Batch.Runs < 0 || c.Batch.Workers < 0 {
		errs = append(errs, fmt.Errorf("batch.runs and batch.workers must be >= 0"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.CenterX = c.World.Width / 2
	c.Derived.CenterY = c.World.Height / 2
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
