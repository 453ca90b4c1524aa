package grid

import (
	"errors"
	"math"
	"testing"

	"github.com/waterlab/aquasim/internal/solver"
)

func TestNew(t *testing.T) {
	g, err := New(100, 101, 50, 500)
	if err != nil {
		t.Fatalf("valid grid rejected: %v", err)
	}
	if g.Dx() != 1.0 {
		t.Errorf("expected dx=1, got %g", g.Dx())
	}
	if g.Dt() != 0.1 {
		t.Errorf("expected dt=0.1, got %g", g.Dt())
	}
}

func TestNewInvalid(t *testing.T) {
	tests := []struct {
		name     string
		length   float64
		nodes    int
		duration float64
		steps    int
	}{
		{"zero length", 0, 101, 50, 500},
		{"negative length", -1, 101, 50, 500},
		{"one node", 100, 1, 50, 500},
		{"zero duration", 100, 101, 0, 500},
		{"negative duration", 100, 101, -50, 500},
		{"zero steps", 100, 101, 50, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.length, tt.nodes, tt.duration, tt.steps)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, solver.ErrConfig) {
				t.Errorf("expected ErrConfig, got %v", err)
			}
		})
	}
}

func TestSpacingsPositive(t *testing.T) {
	cases := []struct {
		length   float64
		nodes    int
		duration float64
		steps    int
	}{
		{1, 2, 1, 1},
		{1e-6, 3, 1e-6, 10},
		{1e6, 10001, 3600, 86400},
	}
	for _, c := range cases {
		g, err := New(c.length, c.nodes, c.duration, c.steps)
		if err != nil {
			t.Fatalf("New(%v): %v", c, err)
		}
		if g.Dx() <= 0 || g.Dt() <= 0 {
			t.Errorf("New(%v): dx=%g dt=%g, both must be positive", c, g.Dx(), g.Dt())
		}
	}
}

func TestX(t *testing.T) {
	g, err := New(10, 6, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	x := g.X()
	if len(x) != 6 {
		t.Fatalf("expected 6 coordinates, got %d", len(x))
	}
	for i, xi := range x {
		want := float64(i) * 2
		if math.Abs(xi-want) > 1e-12 {
			t.Errorf("x[%d] = %g, want %g", i, xi, want)
		}
	}
}
