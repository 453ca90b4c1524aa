package solver

import "errors"

// Domain errors shared by the solver families.
var (
	// ErrConfig indicates an invalid grid or scheme parameter; raised at
	// construction, before any stepping.
	ErrConfig = errors.New("solver: invalid configuration")

	// ErrNotReady indicates an operation was invoked out of sequence,
	// e.g. solving before an initial condition was set.
	ErrNotReady = errors.New("solver: initial condition not set")

	// ErrSingular indicates the tridiagonal system of an implicit step
	// could not be solved. Terminal for the run.
	ErrSingular = errors.New("solver: tridiagonal system is singular")
)
