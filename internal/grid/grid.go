// Package grid builds the uniform space/time discretization shared by the
// solver families.
package grid

import (
	"fmt"

	"github.com/waterlab/aquasim/internal/solver"
)

// Grid is a uniform discretization of a 1D domain and a time horizon.
// Immutable once constructed.
type Grid struct {
	length   float64
	nodes    int
	duration float64
	steps    int
	dx, dt   float64
}

// New validates the domain parameters and derives the spacings
// dx = L/(nx-1) and dt = T/nt.
func New(length float64, nodes int, duration float64, steps int) (*Grid, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: domain length must be positive, got %g", solver.ErrConfig, length)
	}
	if nodes < 2 {
		return nil, fmt.Errorf("%w: need at least 2 nodes, got %d", solver.ErrConfig, nodes)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("%w: total time must be positive, got %g", solver.ErrConfig, duration)
	}
	if steps < 1 {
		return nil, fmt.Errorf("%w: need at least 1 time step, got %d", solver.ErrConfig, steps)
	}
	return &Grid{
		length:   length,
		nodes:    nodes,
		duration: duration,
		steps:    steps,
		dx:       length / float64(nodes-1),
		dt:       duration / float64(steps),
	}, nil
}

func (g *Grid) Length() float64   { return g.length }
func (g *Grid) Nodes() int        { return g.nodes }
func (g *Grid) Duration() float64 { return g.duration }
func (g *Grid) Steps() int        { return g.steps }
func (g *Grid) Dx() float64       { return g.dx }
func (g *Grid) Dt() float64       { return g.dt }

// X returns the ordered node coordinates x_i = i*dx.
func (g *Grid) X() []float64 {
	x := make([]float64, g.nodes)
	for i := range x {
		x[i] = float64(i) * g.dx
	}
	return x
}
