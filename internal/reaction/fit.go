package reaction

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"github.com/waterlab/aquasim/internal/solver"
)

// ErrFitDiverged indicates the fitting optimizer did not converge within
// its iteration budget. Terminal for the fit call only.
var ErrFitDiverged = errors.New("reaction: fit did not converge")

// FitOptions bounds the optimizer. Zero values take the defaults.
type FitOptions struct {
	MaxIter int     // default 1000
	Tol     float64 // relative function tolerance, default 1e-6
}

const (
	defaultFitMaxIter = 1000
	defaultFitTol     = 1e-6
)

// FitResult holds the fitted first-order parameters and goodness of fit.
type FitResult struct {
	K          float64
	C0         float64
	R2         float64 // coefficient of determination against the data
	Iterations int
}

// FitFirstOrder estimates (k, C0) for C(t) = C0*exp(-k*t) from paired
// observations. A log-linear regression seeds a Nelder-Mead refinement of
// the sum of squared residuals; the seed keeps the refinement local, the
// refinement keeps the estimate unbiased when concentrations are noisy.
func FitFirstOrder(times, concs []float64, opts FitOptions) (*FitResult, error) {
	if len(times) != len(concs) {
		return nil, fmt.Errorf("%w: %d times vs %d concentrations", solver.ErrConfig, len(times), len(concs))
	}
	if len(times) < 3 {
		return nil, fmt.Errorf("%w: need at least 3 observations, got %d", solver.ErrConfig, len(times))
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = defaultFitMaxIter
	}
	if opts.Tol <= 0 {
		opts.Tol = defaultFitTol
	}

	k0, c0 := logLinearSeed(times, concs)

	obj := func(x []float64) float64 {
		k, c := x[0], x[1]
		var sse float64
		for i, t := range times {
			r := concs[i] - c*math.Exp(-k*t)
			sse += r * r
		}
		return sse
	}

	settings := &optimize.Settings{
		MajorIterations: opts.MaxIter,
		Converger: &optimize.FunctionConverge{
			Relative:   opts.Tol,
			Absolute:   opts.Tol * opts.Tol,
			Iterations: 20,
		},
	}
	res, err := optimize.Minimize(optimize.Problem{Func: obj}, []float64{k0, c0}, settings, &optimize.NelderMead{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFitDiverged, err)
	}
	if res.Status != optimize.FunctionConvergence && res.Status != optimize.GradientThreshold {
		return nil, fmt.Errorf("%w: optimizer stopped with status %v after %d iterations",
			ErrFitDiverged, res.Status, res.Stats.MajorIterations)
	}

	k, c := res.X[0], res.X[1]
	return &FitResult{
		K:          k,
		C0:         c,
		R2:         rSquared(times, concs, k, c),
		Iterations: res.Stats.MajorIterations,
	}, nil
}

// logLinearSeed regresses ln(C) on t over the strictly positive
// observations. Falls back to crude guesses if too few survive the log.
func logLinearSeed(times, concs []float64) (k, c0 float64) {
	var ts, logs []float64
	for i, c := range concs {
		if c > 0 {
			ts = append(ts, times[i])
			logs = append(logs, math.Log(c))
		}
	}
	if len(ts) < 2 {
		return 0.1, math.Max(concs[0], 1)
	}
	alpha, beta := stat.LinearRegression(ts, logs, nil, false)
	return -beta, math.Exp(alpha)
}

func rSquared(times, concs []float64, k, c0 float64) float64 {
	mean := stat.Mean(concs, nil)
	var ssRes, ssTot float64
	for i, t := range times {
		r := concs[i] - FirstOrderAnalytic(c0, k, t)
		ssRes += r * r
		d := concs[i] - mean
		ssTot += d * d
	}
	if ssTot == 0 {
		return 1
	}
	return 1 - ssRes/ssTot
}
