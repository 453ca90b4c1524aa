// Package diffusion advances a concentration field under pure diffusion
// with one of three time-integration schemes.
package diffusion

import (
	"fmt"

	"github.com/waterlab/aquasim/internal/grid"
	"github.com/waterlab/aquasim/internal/solver"
)

// Scheme selects the time integration for a solve call.
type Scheme int

const (
	// Explicit is forward-time centered-space, stable for Fo <= 0.5.
	Explicit Scheme = iota
	// Implicit is backward-time centered-space, unconditionally stable.
	Implicit
	// CrankNicolson averages the explicit and implicit stencils and is
	// second-order accurate in time.
	CrankNicolson
)

func (s Scheme) String() string {
	switch s {
	case Explicit:
		return "explicit"
	case Implicit:
		return "implicit"
	case CrankNicolson:
		return "crank-nicolson"
	}
	return "unknown"
}

// ParseScheme maps a config/CLI name to a Scheme.
func ParseScheme(name string) (Scheme, error) {
	switch name {
	case "explicit", "ftcs":
		return Explicit, nil
	case "implicit", "btcs":
		return Implicit, nil
	case "crank-nicolson", "cn":
		return CrankNicolson, nil
	}
	return 0, fmt.Errorf("%w: unknown diffusion scheme %q", solver.ErrConfig, name)
}

// Solver advances a field under dC/dt = D d2C/dx2. An instance is built
// configured, gains an initial condition, then produces one Result per
// Solve call.
type Solver struct {
	grid *grid.Grid
	d    float64
	bc   solver.Boundary
	init []float64
}

// New configures a solver on the given grid with diffusivity d.
func New(g *grid.Grid, d float64, bc solver.Boundary) (*Solver, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: grid is required", solver.ErrConfig)
	}
	if d < 0 {
		return nil, fmt.Errorf("%w: diffusivity must be non-negative, got %g", solver.ErrConfig, d)
	}
	return &Solver{grid: g, d: d, bc: bc}, nil
}

// Grid returns the discretization the solver was built on.
func (s *Solver) Grid() *grid.Grid { return s.grid }

// Fourier returns Fo = D*dt/dx^2 for the configured grid.
func (s *Solver) Fourier() float64 {
	dx := s.grid.Dx()
	return s.d * s.grid.Dt() / (dx * dx)
}

// SetInitial samples an initial-condition function at every node.
func (s *Solver) SetInitial(ic solver.InitialCondition) {
	s.init = solver.Sample(ic, s.grid.X())
}

// SetInitialValues installs an explicit starting snapshot.
func (s *Solver) SetInitialValues(values []float64) error {
	if len(values) != s.grid.Nodes() {
		return fmt.Errorf("%w: initial condition has %d values, grid has %d nodes",
			solver.ErrConfig, len(values), s.grid.Nodes())
	}
	s.init = append([]float64(nil), values...)
	return nil
}

// Stepper builds the single-step integrator for a scheme, for callers that
// drive the time loop themselves (e.g. operator splitting).
func (s *Solver) Stepper(scheme Scheme) (solver.TransportStepper, error) {
	fo := s.Fourier()
	diag := solver.Diagnostics{Fo: fo}
	switch scheme {
	case Explicit:
		st := &explicitStepper{fo: fo, diag: diag}
		if fo > 0.5 {
			st.warns = []solver.Warning{{Kind: solver.ExplicitDiffusionUnstable, Value: fo}}
		}
		return st, nil
	case Implicit:
		return newSystemStepper(s.grid.Nodes(), fo, 1, s.bc, diag), nil
	case CrankNicolson:
		return newSystemStepper(s.grid.Nodes(), fo, 0.5, s.bc, diag), nil
	}
	return nil, fmt.Errorf("%w: unknown diffusion scheme %d", solver.ErrConfig, scheme)
}

// Solve runs the full time loop with the chosen scheme. A violated
// stability bound does not abort the run; it is reported as a warning on
// the result.
func (s *Solver) Solve(scheme Scheme) (*solver.Result, error) {
	if s.init == nil {
		return nil, fmt.Errorf("%w: call SetInitial before Solve", solver.ErrNotReady)
	}
	st, err := s.Stepper(scheme)
	if err != nil {
		return nil, err
	}
	return solver.Run(st, s.grid.X(), s.grid.Dt(), s.grid.Steps(), s.init, s.bc)
}

// explicitStepper is the forward-time centered-space update. Boundary
// nodes are left for Boundary.Apply.
type explicitStepper struct {
	fo    float64
	diag  solver.Diagnostics
	warns []solver.Warning
}

func (e *explicitStepper) Advance(next, cur []float64) error {
	for i := 1; i < len(cur)-1; i++ {
		next[i] = cur[i] + e.fo*(cur[i-1]-2*cur[i]+cur[i+1])
	}
	return nil
}

func (e *explicitStepper) Diagnostics() solver.Diagnostics { return e.diag }
func (e *explicitStepper) Warnings() []solver.Warning      { return e.warns }
