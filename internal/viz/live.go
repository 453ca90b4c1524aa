package viz

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/waterlab/aquasim/internal/solver"
)

// TickMsg drives the live view frame clock.
type TickMsg time.Time

const framesPerSecond = 30

// LiveModel steps a transport solve interactively and draws the profile
// as it evolves. Space pauses, q quits.
type LiveModel struct {
	stepper solver.TransportStepper
	bc      solver.Boundary
	dt      float64
	steps   int

	cur, next []float64
	step      int
	t         float64
	running   bool
	failed    error
	title     string
}

// NewLive builds a live view over a configured stepper and initial
// snapshot. One solve step runs per frame.
func NewLive(st solver.TransportStepper, init []float64, bc solver.Boundary, dt float64, steps int, title string) *LiveModel {
	cur := append([]float64(nil), init...)
	bc.Apply(cur)
	return &LiveModel{
		stepper: st,
		bc:      bc,
		dt:      dt,
		steps:   steps,
		cur:     cur,
		next:    make([]float64, len(init)),
		running: true,
		title:   title,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/framesPerSecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m *LiveModel) Init() tea.Cmd { return tick() }

func (m *LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		}
	case TickMsg:
		if m.running && m.failed == nil && m.step < m.steps {
			if err := m.stepper.Advance(m.next, m.cur); err != nil {
				m.failed = err
				return m, tick()
			}
			m.bc.Apply(m.next)
			m.cur, m.next = m.next, m.cur
			m.step++
			m.t += m.dt
		}
		return m, tick()
	}
	return m, nil
}

func (m *LiveModel) View() string {
	plot := asciigraph.Plot(m.cur,
		asciigraph.Width(graphWidth),
		asciigraph.Height(graphHeight),
	)

	status := fmt.Sprintf("step %d/%d  t=%.3f  %s", m.step, m.steps, m.t, m.stepper.Diagnostics())
	if m.failed != nil {
		status = warnStyle.Render("aborted: " + m.failed.Error())
	} else if !m.running {
		status += "  [paused]"
	} else if m.step >= m.steps {
		status += "  [done]"
	}
	for _, w := range m.stepper.Warnings() {
		status += "\n" + warnStyle.Render("warning: "+w.String())
	}

	return headerStyle.Render(m.title) + "\n" +
		graphStyle.Render(plot) + "\n" +
		valueStyle.Render(status) +
		helpStyle.Render("\nspace pause - q quit")
}
