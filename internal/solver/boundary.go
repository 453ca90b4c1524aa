package solver

import "fmt"

// BoundaryKind selects the endpoint constraint applied at every time step.
type BoundaryKind int

const (
	// Dirichlet pins both endpoint values.
	Dirichlet BoundaryKind = iota
	// Neumann enforces zero gradient by mirroring the adjacent interior
	// node at each endpoint.
	Neumann
)

func (k BoundaryKind) String() string {
	if k == Neumann {
		return "neumann"
	}
	return "dirichlet"
}

// Boundary is the pair of endpoint constraints for a run. It is set once
// before the first step; changing it mid-run requires a new solve.
type Boundary struct {
	Kind        BoundaryKind
	Left, Right float64 // used by Dirichlet only
}

// NewDirichlet fixes the endpoint concentrations at left and right.
func NewDirichlet(left, right float64) Boundary {
	return Boundary{Kind: Dirichlet, Left: left, Right: right}
}

// NewNeumann builds a zero-gradient (zero-flux) boundary pair.
func NewNeumann() Boundary {
	return Boundary{Kind: Neumann}
}

// ParseBoundary maps a config/CLI name to a Boundary.
func ParseBoundary(kind string, left, right float64) (Boundary, error) {
	switch kind {
	case "dirichlet", "fixed":
		return NewDirichlet(left, right), nil
	case "neumann", "no-flux", "noflux":
		return NewNeumann(), nil
	}
	return Boundary{}, fmt.Errorf("%w: unknown boundary kind %q", ErrConfig, kind)
}

// Apply enforces the boundary pair on a snapshot in place.
func (b Boundary) Apply(row []float64) {
	n := len(row)
	if n < 2 {
		return
	}
	switch b.Kind {
	case Dirichlet:
		row[0] = b.Left
		row[n-1] = b.Right
	case Neumann:
		row[0] = row[1]
		row[n-1] = row[n-2]
	}
}
