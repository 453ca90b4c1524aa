package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Field is a time-major record of concentration snapshots: one row of
// length nx per recorded time level, row 0 holding the initial condition.
type Field [][]float64

// NewField allocates a zero-filled field of rows snapshots, nodes values each.
func NewField(rows, nodes int) Field {
	f := make(Field, rows)
	for i := range f {
		f[i] = make([]float64, nodes)
	}
	return f
}

// Final returns the last recorded snapshot.
func (f Field) Final() []float64 {
	if len(f) == 0 {
		return nil
	}
	return f[len(f)-1]
}

// IsFinite reports whether every value in the field is neither NaN nor Inf.
func (f Field) IsFinite() bool {
	for _, row := range f {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// Diagnostics holds the dimensionless numbers governing a run. They are
// computed once at solve start from the grid and scheme parameters.
type Diagnostics struct {
	Fo float64 // Fourier number, D*dt/dx^2
	Cr float64 // Courant number, u*dt/dx
	Pe float64 // Peclet number, u*L/D
}

func (d Diagnostics) String() string {
	return fmt.Sprintf("Fo=%.4g Cr=%.4g Pe=%.4g", d.Fo, d.Cr, d.Pe)
}

// WarningKind identifies a stability bound that a run violated.
type WarningKind int

const (
	// ExplicitDiffusionUnstable is attached when the explicit diffusion
	// scheme runs with Fo > 0.5.
	ExplicitDiffusionUnstable WarningKind = iota
	// CourantExceeded is attached when Lax-Wendroff runs with |Cr| > 1.
	CourantExceeded
)

func (k WarningKind) String() string {
	switch k {
	case ExplicitDiffusionUnstable:
		return "explicit diffusion unstable"
	case CourantExceeded:
		return "courant number exceeded"
	}
	return "unknown warning"
}

// Warning is a non-fatal stability notice. The run it describes completed;
// the field may be oscillatory or divergent.
type Warning struct {
	Kind  WarningKind
	Value float64 // the offending Fo or Cr
}

func (w Warning) String() string {
	switch w.Kind {
	case ExplicitDiffusionUnstable:
		return fmt.Sprintf("%s: Fo=%.4g exceeds 0.5", w.Kind, w.Value)
	case CourantExceeded:
		return fmt.Sprintf("%s: Cr=%.4g exceeds 1", w.Kind, w.Value)
	}
	return w.Kind.String()
}

// Result owns the finished field of a solve call together with its
// diagnostics and any stability warnings. Immutable once returned.
type Result struct {
	X           []float64 // node coordinates
	Times       []float64 // time levels, len(Field)
	Field       Field
	Diagnostics Diagnostics
	Warnings    []Warning
}

// HasWarning reports whether a warning of the given kind was attached.
func (r *Result) HasWarning(kind WarningKind) bool {
	for _, w := range r.Warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}

// Mass returns the discrete integral of the field at the given time level,
// sum(C_i) * dx.
func (r *Result) Mass(level int, dx float64) float64 {
	return floats.Sum(r.Field[level]) * dx
}

// Peak returns the position and value of the maximum concentration at the
// given time level.
func (r *Result) Peak(level int) (x, c float64) {
	i := floats.MaxIdx(r.Field[level])
	return r.X[i], r.Field[level][i]
}

// Spread returns the concentration-weighted spatial variance at the given
// time level, a measure of how far a pulse has dispersed.
func (r *Result) Spread(level int) float64 {
	row := r.Field[level]
	total := floats.Sum(row)
	if total == 0 {
		return 0
	}
	var mean float64
	for i, c := range row {
		mean += c * r.X[i]
	}
	mean /= total
	var v float64
	for i, c := range row {
		d := r.X[i] - mean
		v += c * d * d
	}
	return v / total
}
