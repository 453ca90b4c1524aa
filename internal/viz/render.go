// Package viz renders solver output for the terminal. It belongs to the
// CLI consumer layer; the numeric core never imports it.
package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/waterlab/aquasim/internal/solver"
)

const (
	graphWidth  = 72
	graphHeight = 14
)

// Profile plots one concentration snapshot.
func Profile(values []float64, caption string) string {
	plot := asciigraph.Plot(values,
		asciigraph.Width(graphWidth),
		asciigraph.Height(graphHeight),
		asciigraph.Caption(caption),
	)
	return graphStyle.Render(plot)
}

// Summary formats the diagnostics, warnings and headline numbers of a
// finished solve.
func Summary(res *solver.Result, dx float64) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("solve summary"))
	b.WriteString("\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}

	d := res.Diagnostics
	row("fourier", fmt.Sprintf("%.4g", d.Fo))
	row("courant", fmt.Sprintf("%.4g", d.Cr))
	row("peclet", fmt.Sprintf("%.4g", d.Pe))

	last := len(res.Field) - 1
	row("mass t=0", fmt.Sprintf("%.6g", res.Mass(0, dx)))
	row("mass t=end", fmt.Sprintf("%.6g", res.Mass(last, dx)))
	x, c := res.Peak(last)
	row("peak", fmt.Sprintf("%.6g at x=%.4g", c, x))
	if s := res.Spread(last); !math.IsNaN(s) {
		row("spread", fmt.Sprintf("%.6g", s))
	}

	for _, w := range res.Warnings {
		b.WriteString(warnStyle.Render("warning: " + w.String()))
		b.WriteString("\n")
	}
	return b.String()
}
