// Package reaction integrates chemical decay laws and fits their
// parameters to observations.
//
// The laws are state-free rate functions; [Stepper] carries the current
// concentration and elapsed time through a run. Closed-form solutions for
// the zero-, first- and second-order laws are provided as cross-checks.
package reaction

import (
	"fmt"
	"math"

	"github.com/waterlab/aquasim/internal/solver"
)

// Law gives the net rate dC/dt of a decay law at concentration c.
type Law interface {
	Rate(c float64) float64
	Name() string
}

// ZeroOrder decays at a constant rate, dC/dt = -k. A depleted reactant
// stays at zero.
type ZeroOrder struct {
	K float64
}

func (z ZeroOrder) Rate(c float64) float64 {
	if c <= 0 {
		return 0
	}
	return -z.K
}

func (z ZeroOrder) Name() string { return "zero-order" }

// FirstOrder decays proportionally to concentration, dC/dt = -k*C.
type FirstOrder struct {
	K float64
}

func (f FirstOrder) Rate(c float64) float64 { return -f.K * c }
func (f FirstOrder) Name() string           { return "first-order" }

// SecondOrder decays as dC/dt = -k*C^2.
type SecondOrder struct {
	K float64
}

func (s SecondOrder) Rate(c float64) float64 { return -s.K * c * c }
func (s SecondOrder) Name() string           { return "second-order" }

// Monod is saturation kinetics, dC/dt = -kmax*C/(Ks+C). It approaches
// first-order behavior for C << Ks and zero-order for C >> Ks.
type Monod struct {
	KMax float64
	KS   float64
}

func (m Monod) Rate(c float64) float64 {
	if m.KS+c == 0 {
		return 0
	}
	return -m.KMax * c / (m.KS + c)
}

func (m Monod) Name() string { return "monod" }

// ParseLaw maps a config/CLI order name to a Law.
func ParseLaw(order string, k, kmax, ks float64) (Law, error) {
	switch order {
	case "zero", "0":
		return ZeroOrder{K: k}, nil
	case "first", "1":
		return FirstOrder{K: k}, nil
	case "second", "2":
		return SecondOrder{K: k}, nil
	case "monod":
		return Monod{KMax: kmax, KS: ks}, nil
	}
	return nil, fmt.Errorf("%w: unknown reaction order %q", solver.ErrConfig, order)
}

// Integrate advances a concentration by one step of dt under a law using
// a classical fourth-order Runge-Kutta stage. Decay cannot push a
// concentration below zero.
func Integrate(law Law, c, dt float64) float64 {
	k1 := law.Rate(c)
	k2 := law.Rate(c + 0.5*dt*k1)
	k3 := law.Rate(c + 0.5*dt*k2)
	k4 := law.Rate(c + dt*k3)
	c += dt * (k1 + 2*k2 + 2*k3 + k4) / 6
	if c < 0 {
		c = 0
	}
	return c
}

// Stepper integrates a single law forward in time, tracking the current
// concentration and elapsed time.
type Stepper struct {
	law Law
	c   float64
	t   float64
}

// NewStepper starts a stepper at concentration c0 and time zero.
func NewStepper(law Law, c0 float64) *Stepper {
	return &Stepper{law: law, c: c0}
}

// Step advances the stepper by dt and returns the new concentration.
func (s *Stepper) Step(dt float64) float64 {
	s.c = Integrate(s.law, s.c, dt)
	s.t += dt
	return s.c
}

// Concentration returns the current concentration.
func (s *Stepper) Concentration() float64 { return s.c }

// Elapsed returns the integrated time.
func (s *Stepper) Elapsed() float64 { return s.t }

// FirstOrderAnalytic is the closed form C(t) = C0*exp(-k*t).
func FirstOrderAnalytic(c0, k, t float64) float64 {
	return c0 * math.Exp(-k*t)
}

// SecondOrderAnalytic is the closed form C(t) = C0/(1 + k*C0*t).
func SecondOrderAnalytic(c0, k, t float64) float64 {
	return c0 / (1 + k*c0*t)
}

// ZeroOrderAnalytic is the closed form C(t) = max(C0 - k*t, 0).
func ZeroOrderAnalytic(c0, k, t float64) float64 {
	return math.Max(c0-k*t, 0)
}

// HalfLife returns ln(2)/k for a first-order law.
func HalfLife(k float64) float64 {
	if k <= 0 {
		return math.Inf(1)
	}
	return math.Ln2 / k
}

// TemperatureAdjust corrects a rate constant measured at tempRef to the
// operating temperature: k(T) = kRef * theta^(T - TRef).
func TemperatureAdjust(kRef, theta, temp, tempRef float64) float64 {
	return kRef * math.Pow(theta, temp-tempRef)
}
