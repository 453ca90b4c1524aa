// Package config loads and saves YAML scenario descriptions and builds
// solver inputs from them.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/waterlab/aquasim/internal/grid"
	"github.com/waterlab/aquasim/internal/reaction"
	"github.com/waterlab/aquasim/internal/solver"
)

const (
	DefaultLength   = 100.0
	DefaultNodes    = 101
	DefaultDuration = 50.0
	DefaultSteps    = 500
)

// Config is one solve scenario. Flags from the CLI override loaded values.
type Config struct {
	Problem  string         `yaml:"problem"` // diffusion | advection | reaction | couple
	Scheme   string         `yaml:"scheme"`
	Grid     GridConfig     `yaml:"grid"`
	Physics  PhysicsConfig  `yaml:"physics"`
	Reaction ReactionConfig `yaml:"reaction"`
	Boundary BoundaryConfig `yaml:"boundary"`
	Initial  InitialConfig  `yaml:"initial"`
}

type GridConfig struct {
	Length   float64 `yaml:"length"`
	Nodes    int     `yaml:"nodes"`
	Duration float64 `yaml:"duration"`
	Steps    int     `yaml:"steps"`
}

type PhysicsConfig struct {
	Diffusivity float64 `yaml:"diffusivity"`
	Velocity    float64 `yaml:"velocity"`
}

type ReactionConfig struct {
	Order int     `yaml:"order"` // 0, 1 or 2
	Monod bool    `yaml:"monod"`
	K     float64 `yaml:"k"`
	KMax  float64 `yaml:"kmax"`
	KS    float64 `yaml:"ks"`
	C0    float64 `yaml:"c0"`
}

type BoundaryConfig struct {
	Kind  string  `yaml:"kind"` // dirichlet | neumann
	Left  float64 `yaml:"left"`
	Right float64 `yaml:"right"`
}

type InitialConfig struct {
	Kind      string    `yaml:"kind"` // gaussian | front | uniform | values
	Center    float64   `yaml:"center"`
	Sigma     float64   `yaml:"sigma"`
	Amplitude float64   `yaml:"amplitude"`
	Edge      float64   `yaml:"edge"`
	Upstream  float64   `yaml:"upstream"`
	Value     float64   `yaml:"value"`
	Values    []float64 `yaml:"values"`
}

func DefaultConfig() *Config {
	return &Config{
		Problem: "diffusion",
		Scheme:  "explicit",
		Grid: GridConfig{
			Length:   DefaultLength,
			Nodes:    DefaultNodes,
			Duration: DefaultDuration,
			Steps:    DefaultSteps,
		},
		Physics:  PhysicsConfig{Diffusivity: 0.1},
		Boundary: BoundaryConfig{Kind: "neumann"},
		Initial: InitialConfig{
			Kind:      "gaussian",
			Center:    DefaultLength / 2,
			Sigma:     5,
			Amplitude: 100,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
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

// BuildGrid constructs the discretization for the scenario.
func (c *Config) BuildGrid() (*grid.Grid, error) {
	return grid.New(c.Grid.Length, c.Grid.Nodes, c.Grid.Duration, c.Grid.Steps)
}

// BuildBoundary constructs the boundary pair for the scenario.
func (c *Config) BuildBoundary() (solver.Boundary, error) {
	return solver.ParseBoundary(c.Boundary.Kind, c.Boundary.Left, c.Boundary.Right)
}

// BuildInitial constructs the initial-condition function, or nil when the
// scenario carries an explicit value array (use Initial.Values then).
func (c *Config) BuildInitial() (solver.InitialCondition, error) {
	switch c.Initial.Kind {
	case "gaussian", "pulse":
		return solver.GaussianPulse(c.Initial.Center, c.Initial.Sigma, c.Initial.Amplitude), nil
	case "front", "step":
		return solver.StepFront(c.Initial.Edge, c.Initial.Upstream, 0), nil
	case "uniform":
		return solver.Uniform(c.Initial.Value), nil
	case "values":
		return nil, nil
	}
	return nil, fmt.Errorf("%w: unknown initial condition %q", solver.ErrConfig, c.Initial.Kind)
}

// BuildLaw constructs the reaction law for the scenario.
func (c *Config) BuildLaw() (reaction.Law, error) {
	if c.Reaction.Monod {
		return reaction.Monod{KMax: c.Reaction.KMax, KS: c.Reaction.KS}, nil
	}
	switch c.Reaction.Order {
	case 0:
		return reaction.ZeroOrder{K: c.Reaction.K}, nil
	case 1:
		return reaction.FirstOrder{K: c.Reaction.K}, nil
	case 2:
		return reaction.SecondOrder{K: c.Reaction.K}, nil
	}
	return nil, fmt.Errorf("%w: unsupported reaction order %d", solver.ErrConfig, c.Reaction.Order)
}
