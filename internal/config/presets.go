package config

import "sort"

// Presets are ready-made classroom scenarios keyed by name.
var Presets = map[string]*Config{
	// spreading pulse under no-flux boundaries; mass is conserved
	"pulse": {
		Problem: "diffusion", Scheme: "explicit",
		Grid:     GridConfig{Length: 100, Nodes: 101, Duration: 50, Steps: 500},
		Physics:  PhysicsConfig{Diffusivity: 0.1},
		Boundary: BoundaryConfig{Kind: "neumann"},
		Initial:  InitialConfig{Kind: "gaussian", Center: 50, Sigma: 5, Amplitude: 100},
	},
	// advected front; upwind keeps it monotone
	"front": {
		Problem: "advection", Scheme: "upwind",
		Grid:     GridConfig{Length: 100, Nodes: 201, Duration: 50, Steps: 400},
		Physics:  PhysicsConfig{Diffusivity: 0.01, Velocity: 0.5},
		Boundary: BoundaryConfig{Kind: "dirichlet", Left: 100, Right: 0},
		Initial:  InitialConfig{Kind: "front", Edge: 20, Upstream: 100},
	},
	// travelling pulse, the classic peak-tracking exercise
	"plume": {
		Problem: "advection", Scheme: "quick",
		Grid:     GridConfig{Length: 100, Nodes: 201, Duration: 50, Steps: 500},
		Physics:  PhysicsConfig{Diffusivity: 0.05, Velocity: 0.5},
		Boundary: BoundaryConfig{Kind: "dirichlet"},
		Initial:  InitialConfig{Kind: "gaussian", Center: 20, Sigma: 2, Amplitude: 100},
	},
	// first-order decay matched against the closed form
	"decay": {
		Problem:  "reaction",
		Grid:     GridConfig{Length: 1, Nodes: 2, Duration: 30, Steps: 300},
		Reaction: ReactionConfig{Order: 1, K: 0.1, C0: 100},
	},
	// diffusing pulse that decays as it spreads
	"plume-decay": {
		Problem: "couple", Scheme: "implicit",
		Grid:     GridConfig{Length: 100, Nodes: 101, Duration: 50, Steps: 500},
		Physics:  PhysicsConfig{Diffusivity: 0.1},
		Reaction: ReactionConfig{Order: 1, K: 0.05},
		Boundary: BoundaryConfig{Kind: "neumann"},
		Initial:  InitialConfig{Kind: "gaussian", Center: 50, Sigma: 5, Amplitude: 100},
	},
}

// GetPreset returns a copy of the named preset, or nil if unknown.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *p
	return &c
}

// ListPresets returns the available preset names, sorted.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
