package solver

import "math"

// InitialCondition maps a node coordinate to a starting concentration.
type InitialCondition func(x float64) float64

// GaussianPulse is a bell pulse of the given amplitude centered at center
// with spread sigma.
func GaussianPulse(center, sigma, amplitude float64) InitialCondition {
	return func(x float64) float64 {
		d := (x - center) / sigma
		return amplitude * math.Exp(-0.5*d*d)
	}
}

// StepFront is upstream concentration left of edge, downstream right of it.
func StepFront(edge, upstream, downstream float64) InitialCondition {
	return func(x float64) float64 {
		if x < edge {
			return upstream
		}
		return downstream
	}
}

// Uniform fills the domain with a single value.
func Uniform(value float64) InitialCondition {
	return func(float64) float64 { return value }
}

// Sample evaluates an initial condition at every node coordinate.
func Sample(ic InitialCondition, x []float64) []float64 {
	out := make([]float64, len(x))
	for i, xi := range x {
		out[i] = ic(xi)
	}
	return out
}
