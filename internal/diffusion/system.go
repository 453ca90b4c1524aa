package diffusion

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/waterlab/aquasim/internal/solver"
)

// systemStepper solves one tridiagonal system per step. theta blends the
// implicit weighting: 1 is backward Euler, 0.5 is Crank-Nicolson. The
// matrix is constant across steps, so it is assembled once.
type systemStepper struct {
	tri   *mat.Tridiag
	rhs   *mat.VecDense
	sol   *mat.VecDense
	fo    float64
	theta float64
	bc    solver.Boundary
	diag  solver.Diagnostics
}

func newSystemStepper(n int, fo, theta float64, bc solver.Boundary, diag solver.Diagnostics) *systemStepper {
	dl := make([]float64, n-1)
	d := make([]float64, n)
	du := make([]float64, n-1)

	a := theta * fo
	for i := 1; i < n-1; i++ {
		dl[i-1] = -a
		d[i] = 1 + 2*a
		du[i] = -a
	}

	// Boundary rows. Dirichlet pins the endpoints to identity rows;
	// Neumann ties each endpoint to its interior neighbor (C0 = C1).
	switch bc.Kind {
	case solver.Dirichlet:
		d[0], du[0] = 1, 0
		d[n-1], dl[n-2] = 1, 0
	case solver.Neumann:
		d[0], du[0] = 1, -1
		d[n-1], dl[n-2] = 1, -1
	}

	return &systemStepper{
		tri:   mat.NewTridiag(n, dl, d, du),
		rhs:   mat.NewVecDense(n, nil),
		sol:   mat.NewVecDense(n, nil),
		fo:    fo,
		theta: theta,
		bc:    bc,
		diag:  diag,
	}
}

func (s *systemStepper) Advance(next, cur []float64) error {
	n := len(cur)
	b := 1 - s.theta
	for i := 1; i < n-1; i++ {
		s.rhs.SetVec(i, cur[i]+b*s.fo*(cur[i-1]-2*cur[i]+cur[i+1]))
	}
	switch s.bc.Kind {
	case solver.Dirichlet:
		s.rhs.SetVec(0, s.bc.Left)
		s.rhs.SetVec(n-1, s.bc.Right)
	case solver.Neumann:
		s.rhs.SetVec(0, 0)
		s.rhs.SetVec(n-1, 0)
	}

	if err := s.tri.SolveVecTo(s.sol, false, s.rhs); err != nil {
		return fmt.Errorf("%w: %v", solver.ErrSingular, err)
	}
	for i := 0; i < n; i++ {
		next[i] = s.sol.AtVec(i)
	}
	return nil
}

func (s *systemStepper) Diagnostics() solver.Diagnostics { return s.diag }
func (s *systemStepper) Warnings() []solver.Warning      { return nil }
