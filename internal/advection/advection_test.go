package advection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waterlab/aquasim/internal/diffusion"
	"github.com/waterlab/aquasim/internal/grid"
	"github.com/waterlab/aquasim/internal/solver"
)

// travelGrid gives dx=0.5 and, with 200 steps, Cr=0.25 at u=0.5.
func travelGrid(t *testing.T, steps int) *grid.Grid {
	t.Helper()
	g, err := grid.New(100, 201, 50, steps)
	require.NoError(t, err)
	return g
}

func TestUpwindKeepsFieldNonNegative(t *testing.T) {
	g := travelGrid(t, 200)
	s, err := New(g, 0.5, 0, solver.NewDirichlet(0, 0)) // pure advection
	require.NoError(t, err)
	s.SetInitial(solver.GaussianPulse(20, 2, 100))

	res, err := s.Solve(Upwind)
	require.NoError(t, err)
	for level, row := range res.Field {
		for i, v := range row {
			if v < 0 {
				t.Fatalf("negative concentration %g at level %d node %d", v, level, i)
			}
		}
	}
}

func TestPulseAdvectsAtFlowSpeed(t *testing.T) {
	// x0 + u*T = 20 + 0.5*50 = 45; schemes may lag from numerical
	// diffusion, so the contract is within 5 spatial units.
	for _, scheme := range []Scheme{Upwind, QUICK, LaxWendroff} {
		t.Run(scheme.String(), func(t *testing.T) {
			g := travelGrid(t, 200)
			s, err := New(g, 0.5, 0, solver.NewDirichlet(0, 0))
			require.NoError(t, err)
			s.SetInitial(solver.GaussianPulse(20, 2, 100))

			res, err := s.Solve(scheme)
			require.NoError(t, err)
			x, _ := res.Peak(len(res.Field) - 1)
			assert.InDelta(t, 45.0, x, 5.0)
		})
	}
}

func TestCentralOscillatesAtHighPeclet(t *testing.T) {
	// A sharp front with nearly no diffusion: the symmetric stencil is
	// expected to undershoot below zero. That output is returned as-is.
	g, err := grid.New(100, 201, 25, 100)
	require.NoError(t, err)
	s, err := New(g, 0.5, 0.001, solver.NewDirichlet(100, 0))
	require.NoError(t, err)
	s.SetInitial(solver.StepFront(20, 100, 0))

	res, err := s.Solve(Central)
	require.NoError(t, err)

	min := math.Inf(1)
	for _, v := range res.Field.Final() {
		min = math.Min(min, v)
	}
	assert.Less(t, min, 0.0, "central differencing of a sharp front should oscillate")
}

func TestQUICKToleratesSmallUndershoot(t *testing.T) {
	g := travelGrid(t, 200)
	s, err := New(g, 0.5, 0.05, solver.NewDirichlet(0, 0))
	require.NoError(t, err)
	s.SetInitial(solver.GaussianPulse(20, 2, 100))

	res, err := s.Solve(QUICK)
	require.NoError(t, err)
	require.True(t, res.Field.IsFinite())

	min := math.Inf(1)
	for _, v := range res.Field.Final() {
		min = math.Min(min, v)
	}
	// small undershoot is tolerated, runaway oscillation is not
	assert.Greater(t, min, -5.0)
}

func TestLaxWendroffWarnsPastCourantBound(t *testing.T) {
	g := travelGrid(t, 40) // dt=1.25 -> Cr = 0.5*1.25/0.5 = 1.25
	s, err := New(g, 0.5, 0, solver.NewDirichlet(0, 0))
	require.NoError(t, err)
	s.SetInitial(solver.GaussianPulse(20, 2, 100))

	res, err := s.Solve(LaxWendroff)
	require.NoError(t, err, "Courant violation must warn, not fail")
	assert.True(t, res.HasWarning(solver.CourantExceeded))
}

func TestLaxWendroffStableWithinBound(t *testing.T) {
	g := travelGrid(t, 200)
	s, err := New(g, 0.5, 0, solver.NewDirichlet(0, 0))
	require.NoError(t, err)
	s.SetInitial(solver.GaussianPulse(20, 2, 100))

	res, err := s.Solve(LaxWendroff)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.True(t, res.Field.IsFinite())
}

// With u=0 the upwind update degenerates to the explicit diffusion
// stencil; both solvers must then agree node for node.
func TestZeroVelocityMatchesDiffusion(t *testing.T) {
	g, err := grid.New(100, 101, 50, 500)
	require.NoError(t, err)

	a, err := New(g, 0, 1.0, solver.NewNeumann())
	require.NoError(t, err)
	a.SetInitial(solver.GaussianPulse(50, 5, 100))
	ra, err := a.Solve(Upwind)
	require.NoError(t, err)

	d, err := diffusion.New(g, 1.0, solver.NewNeumann())
	require.NoError(t, err)
	d.SetInitial(solver.GaussianPulse(50, 5, 100))
	rd, err := d.Solve(diffusion.Explicit)
	require.NoError(t, err)

	for level := range ra.Field {
		for i := range ra.Field[level] {
			assert.InDelta(t, rd.Field[level][i], ra.Field[level][i], 1e-12)
		}
	}
}

func TestDiagnostics(t *testing.T) {
	g := travelGrid(t, 200)

	s, err := New(g, 0.5, 0.05, solver.NewNeumann())
	require.NoError(t, err)
	assert.InDelta(t, 0.25, s.Courant(), 1e-12)  // 0.5*0.25/0.5
	assert.InDelta(t, 0.05, s.Fourier(), 1e-12)  // 0.05*0.25/0.25
	assert.InDelta(t, 1000.0, s.Peclet(), 1e-9)  // 0.5*100/0.05

	pure, err := New(g, 0.5, 0, solver.NewNeumann())
	require.NoError(t, err)
	assert.True(t, math.IsInf(pure.Peclet(), 1), "pure advection has infinite Pe")

	still, err := New(g, 0, 0.05, solver.NewNeumann())
	require.NoError(t, err)
	assert.Zero(t, still.Peclet())
}

func TestSolveRequiresInitialCondition(t *testing.T) {
	g := travelGrid(t, 200)
	s, err := New(g, 0.5, 0.05, solver.NewNeumann())
	require.NoError(t, err)
	_, err = s.Solve(Upwind)
	require.ErrorIs(t, err, solver.ErrNotReady)
}
