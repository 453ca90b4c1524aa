package solver

// TransportStepper advances a concentration snapshot by one time step.
// next and cur are distinct buffers of equal length; a stepper never
// aliases them, so step n+1 always reads the finished state of step n.
type TransportStepper interface {
	Advance(next, cur []float64) error
	Diagnostics() Diagnostics
	Warnings() []Warning
}

// Run drives a stepper over the full time horizon, applying the boundary
// pair after every step and recording each snapshot. It is the single
// time loop shared by the solver families.
func Run(st TransportStepper, x []float64, dt float64, steps int, init []float64, bc Boundary) (*Result, error) {
	nx := len(x)
	field := NewField(steps+1, nx)
	times := make([]float64, steps+1)
	copy(field[0], init)
	bc.Apply(field[0])

	cur := make([]float64, nx)
	next := make([]float64, nx)
	copy(cur, field[0])

	for n := 0; n < steps; n++ {
		if err := st.Advance(next, cur); err != nil {
			return nil, err
		}
		bc.Apply(next)
		times[n+1] = times[n] + dt
		copy(field[n+1], next)
		cur, next = next, cur
	}

	return &Result{
		X:           x,
		Times:       times,
		Field:       field,
		Diagnostics: st.Diagnostics(),
		Warnings:    st.Warnings(),
	}, nil
}
