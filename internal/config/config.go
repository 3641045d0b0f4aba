package config

import (
	"fmt"
	"os"

	"github.com/san-kum/oscillator/internal/dynamo"
	"github.com/san-kum/oscillator/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDictPath   = "oscillatorProperties.yaml"
	DefaultSystem     = "oscillator"
	DefaultXStart     = 1.0
	DefaultSweepCount = 15
	DefaultSweepDx    = 0.6
	DefaultRelTol     = 1e-4
	DefaultExtendedDx = 0.5
	DefaultSpan       = 1.0
	DefaultDuration   = 10.0
	DefaultInterval   = 0.05
	DefaultTrajDx     = 0.01
)

// Config describes one convergence study and the optional trajectory run.
type Config struct {
	Solver     string           `yaml:"solver"`
	System     string           `yaml:"system"`
	Dict       string           `yaml:"dict"`
	Preset     string           `yaml:"preset"`
	Sweep      SweepConfig      `yaml:"sweep"`
	Extended   ExtendedConfig   `yaml:"extended"`
	Trajectory TrajectoryConfig `yaml:"trajectory"`
}

// SweepConfig drives the single-step tolerance sweep. Iteration i uses
// relTol = exp(-(i+1)).
type SweepConfig struct {
	XStart float64 `yaml:"x_start"`
	Count  int     `yaml:"count"`
	DxEst  float64 `yaml:"dx_est"`
}

type ExtendedConfig struct {
	RelTol float64 `yaml:"rel_tol"`
	DxEst  float64 `yaml:"dx_est"`
	Span   float64 `yaml:"span"`
}

type TrajectoryConfig struct {
	Duration float64 `yaml:"duration"`
	Interval float64 `yaml:"interval"`
	RelTol   float64 `yaml:"rel_tol"`
	DxEst    float64 `yaml:"dx_est"`
}

func DefaultConfig() *Config {
	return &Config{
		System: DefaultSystem,
		Dict:   DefaultDictPath,
		Sweep: SweepConfig{
			XStart: DefaultXStart,
			Count:  DefaultSweepCount,
			DxEst:  DefaultSweepDx,
		},
		Extended: ExtendedConfig{
			RelTol: DefaultRelTol,
			DxEst:  DefaultExtendedDx,
			Span:   DefaultSpan,
		},
		Trajectory: TrajectoryConfig{
			Duration: DefaultDuration,
			Interval: DefaultInterval,
			RelTol:   DefaultRelTol,
			DxEst:    DefaultTrajDx,
		},
	}
}

// Load reads a study config. Keys absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Sweep.Count < 0:
		return fmt.Errorf("%w: sweep count must not be negative, got %d", dynamo.ErrParameterBounds, c.Sweep.Count)
	case c.Sweep.DxEst == 0:
		return fmt.Errorf("%w: sweep dx_est must be non-zero", dynamo.ErrParameterBounds)
	case !(c.Extended.RelTol > 0):
		return fmt.Errorf("%w: extended rel_tol must be positive, got %g", dynamo.ErrParameterBounds, c.Extended.RelTol)
	case c.Extended.DxEst == 0:
		return fmt.Errorf("%w: extended dx_est must be non-zero", dynamo.ErrParameterBounds)
	case !(c.Trajectory.Duration > 0):
		return fmt.Errorf("%w: trajectory duration must be positive, got %g", dynamo.ErrParameterBounds, c.Trajectory.Duration)
	case !(c.Trajectory.Interval > 0):
		return fmt.Errorf("%w: trajectory interval must be positive, got %g", dynamo.ErrParameterBounds, c.Trajectory.Interval)
	case !(c.Trajectory.RelTol > 0):
		return fmt.Errorf("%w: trajectory rel_tol must be positive, got %g", dynamo.ErrParameterBounds, c.Trajectory.RelTol)
	}
	return nil
}

// LoadProperties reads and decodes an oscillator dictionary file.
func LoadProperties(path string) (physics.Properties, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return physics.Properties{}, err
	}
	p, err := physics.DecodeProperties(data)
	if err != nil {
		return physics.Properties{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Properties resolves the oscillator dictionary: a named preset wins over
// the dictionary path.
func (c *Config) Properties() (physics.Properties, error) {
	if c.Preset != "" {
		p, ok := GetPreset(c.Preset)
		if !ok {
			return physics.Properties{}, fmt.Errorf("unknown preset: %s (available: %v)", c.Preset, ListPresets())
		}
		return p, nil
	}
	return LoadProperties(c.Dict)
}
