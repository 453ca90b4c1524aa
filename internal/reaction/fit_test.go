package reaction

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waterlab/aquasim/internal/solver"
)

func decaySeries(c0, k float64, n int, dt float64) (times, concs []float64) {
	times = make([]float64, n)
	concs = make([]float64, n)
	for i := range times {
		times[i] = float64(i) * dt
		concs[i] = FirstOrderAnalytic(c0, k, times[i])
	}
	return times, concs
}

func TestFitFirstOrderRecoversCleanData(t *testing.T) {
	times, concs := decaySeries(80, 0.25, 21, 0.5)

	fit, err := FitFirstOrder(times, concs, FitOptions{})
	require.NoError(t, err)
	assert.InEpsilon(t, 0.25, fit.K, 1e-3)
	assert.InEpsilon(t, 80.0, fit.C0, 1e-3)
	assert.Greater(t, fit.R2, 0.9999)
}

func TestFitFirstOrderHandlesPerturbedData(t *testing.T) {
	times, concs := decaySeries(80, 0.25, 21, 0.5)
	for i := range concs {
		concs[i] *= 1 + 0.01*math.Sin(float64(i))
	}

	fit, err := FitFirstOrder(times, concs, FitOptions{})
	require.NoError(t, err)
	assert.InEpsilon(t, 0.25, fit.K, 0.05)
	assert.Greater(t, fit.R2, 0.99)
}

func TestFitFirstOrderDiverges(t *testing.T) {
	times, concs := decaySeries(80, 0.25, 21, 0.5)
	_, err := FitFirstOrder(times, concs, FitOptions{MaxIter: 1})
	assert.True(t, errors.Is(err, ErrFitDiverged), "got %v", err)
}

func TestFitFirstOrderValidatesInput(t *testing.T) {
	_, err := FitFirstOrder([]float64{0, 1}, []float64{1}, FitOptions{})
	assert.True(t, errors.Is(err, solver.ErrConfig))

	_, err = FitFirstOrder([]float64{0, 1}, []float64{1, 0.5}, FitOptions{})
	assert.True(t, errors.Is(err, solver.ErrConfig), "too few observations")
}
