// Package solver provides the shared primitives for the transport solvers.
//
// The package defines the types every solver family produces and consumes:
//
//   - [Field]: time-major record of concentration snapshots
//   - [Boundary]: Dirichlet or Neumann endpoint constraints
//   - [Diagnostics]: Fourier, Courant and Peclet numbers for a run
//   - [Warning]: non-fatal stability notices attached to a result
//   - [Result]: finished field plus diagnostics and warnings
//
// # Stability warnings
//
// A solve that violates a stability bound still runs to completion; the
// violation is reported as a [Warning] on the [Result] so the caller can
// inspect the (possibly divergent) output:
//
//	res, _ := dsolver.Solve(diffusion.Explicit)
//	if res.HasWarning(solver.ExplicitDiffusionUnstable) {
//	    // Fo > 0.5, output is expected to oscillate
//	}
//
// # Ownership
//
// Each solver instance exclusively owns the Field it is filling. Results
// are never mutated after a solve returns, and no locking is needed as
// long as instances are not shared across goroutines.
package solver
