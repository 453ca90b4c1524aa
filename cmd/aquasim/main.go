package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/waterlab/aquasim/internal/advection"
	"github.com/waterlab/aquasim/internal/config"
	"github.com/waterlab/aquasim/internal/couple"
	"github.com/waterlab/aquasim/internal/diffusion"
	"github.com/waterlab/aquasim/internal/grid"
	"github.com/waterlab/aquasim/internal/reaction"
	"github.com/waterlab/aquasim/internal/solver"
	"github.com/waterlab/aquasim/internal/sweep"
	"github.com/waterlab/aquasim/internal/viz"
)

var (
	configFile string
	preset     string

	length   float64
	nodes    int
	duration float64
	steps    int

	diffusivity float64
	velocity    float64
	scheme      string

	bcKind  string
	bcLeft  float64
	bcRight float64

	icKind    string
	icCenter  float64
	icSigma   float64
	icAmp     float64
	icEdge    float64
	icValue   float64
	icUpper   float64

	order int
	rateK float64
	kmax  float64
	ks    float64
	c0    float64

	outFile   string
	showGraph bool
	live      bool

	sweepParam  string
	sweepValues string
	sweepJobs   int

	fitMaxIter int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "aquasim",
		Short: "1D transport and water-quality solver lab",
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "named preset scenario")

	diffuseCmd := &cobra.Command{
		Use:   "diffuse",
		Short: "pure diffusion solve",
		RunE:  runDiffuse,
	}
	addGridFlags(diffuseCmd)
	addFieldFlags(diffuseCmd)
	diffuseCmd.Flags().StringVar(&scheme, "scheme", "explicit", "explicit|implicit|crank-nicolson")

	advectCmd := &cobra.Command{
		Use:   "advect",
		Short: "advection-diffusion solve",
		RunE:  runAdvect,
	}
	addGridFlags(advectCmd)
	addFieldFlags(advectCmd)
	advectCmd.Flags().StringVar(&scheme, "scheme", "upwind", "upwind|central|quick|lax-wendroff")
	advectCmd.Flags().Float64Var(&velocity, "velocity", 0.5, "advective velocity")

	reactCmd := &cobra.Command{
		Use:   "react",
		Short: "batch reaction kinetics",
		RunE:  runReact,
	}
	addGridFlags(reactCmd)
	addReactionFlags(reactCmd)
	reactCmd.Flags().Float64Var(&c0, "c0", 100, "initial concentration")
	reactCmd.Flags().BoolVar(&showGraph, "graph", false, "plot concentration history")
	reactCmd.Flags().StringVar(&outFile, "out", "", "write t,c history as csv")

	coupleCmd := &cobra.Command{
		Use:   "couple",
		Short: "operator-split transport plus reaction",
		Long: `Runs one transport sub-step then one reaction sub-step per dt,
in that fixed order, on a shared concentration field.`,
		RunE: runCouple,
	}
	addGridFlags(coupleCmd)
	addFieldFlags(coupleCmd)
	addReactionFlags(coupleCmd)
	coupleCmd.Flags().StringVar(&scheme, "scheme", "implicit", "transport scheme")
	coupleCmd.Flags().Float64Var(&velocity, "velocity", 0, "advective velocity (0 = pure diffusion)")

	fitCmd := &cobra.Command{
		Use:   "fit [csv]",
		Short: "fit first-order decay parameters to observations",
		Args:  cobra.ExactArgs(1),
		RunE:  runFit,
	}
	fitCmd.Flags().IntVar(&fitMaxIter, "max-iter", 1000, "optimizer iteration cap")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a scenario across a parameter range",
		RunE:  runSweep,
	}
	addGridFlags(sweepCmd)
	addFieldFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&scheme, "scheme", "explicit", "diffusion scheme")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "diffusivity", "parameter to sweep: diffusivity|steps")
	sweepCmd.Flags().StringVar(&sweepValues, "values", "", "comma-separated values")
	sweepCmd.Flags().IntVar(&sweepJobs, "jobs", 4, "parallel workers")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset scenarios",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(diffuseCmd, advectCmd, reactCmd, coupleCmd, fitCmd, sweepCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addGridFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&length, "length", config.DefaultLength, "domain length")
	cmd.Flags().IntVar(&nodes, "nodes", config.DefaultNodes, "spatial nodes")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "total time")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "time steps")
}

func addFieldFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&diffusivity, "diffusivity", 0.1, "diffusion coefficient")
	cmd.Flags().StringVar(&bcKind, "bc", "neumann", "boundary kind: dirichlet|neumann")
	cmd.Flags().Float64Var(&bcLeft, "left", 0, "left boundary value (dirichlet)")
	cmd.Flags().Float64Var(&bcRight, "right", 0, "right boundary value (dirichlet)")
	cmd.Flags().StringVar(&icKind, "ic", "gaussian", "initial condition: gaussian|front|uniform")
	cmd.Flags().Float64Var(&icCenter, "center", config.DefaultLength/2, "pulse center")
	cmd.Flags().Float64Var(&icSigma, "sigma", 5, "pulse spread")
	cmd.Flags().Float64Var(&icAmp, "amplitude", 100, "pulse amplitude")
	cmd.Flags().Float64Var(&icEdge, "edge", 20, "front edge position")
	cmd.Flags().Float64Var(&icUpper, "upstream", 100, "front upstream value")
	cmd.Flags().Float64Var(&icValue, "value", 0, "uniform value")
	cmd.Flags().BoolVar(&showGraph, "graph", false, "plot final profile")
	cmd.Flags().BoolVar(&live, "live", false, "watch the solve step by step")
	cmd.Flags().StringVar(&outFile, "out", "", "write the field as csv")
}

func addReactionFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&order, "order", 1, "reaction order: 0|1|2")
	cmd.Flags().Float64Var(&rateK, "k", 0.1, "rate constant")
	cmd.Flags().Float64Var(&kmax, "kmax", 0, "monod maximum rate (enables monod)")
	cmd.Flags().Float64Var(&ks, "ks", 1, "monod half-saturation")
}

// buildScenario merges preset, config file and flag values, flags winning.
func buildScenario(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q (see 'aquasim presets')", preset)
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	// Commands share flag names but not defaults, so values are read from
	// the invoked command's own flag set. A flag only overrides the base
	// scenario when it was set, or when there is no base scenario at all.
	flags := cmd.Flags()
	fv := func(name string) float64 { v, _ := flags.GetFloat64(name); return v }
	iv := func(name string) int { v, _ := flags.GetInt(name); return v }
	sv := func(name string) string { v, _ := flags.GetString(name); return v }
	set := func(name string, fn func()) {
		if flags.Lookup(name) == nil {
			return
		}
		if flags.Changed(name) || (preset == "" && configFile == "") {
			fn()
		}
	}
	set("length", func() { cfg.Grid.Length = fv("length") })
	set("nodes", func() { cfg.Grid.Nodes = iv("nodes") })
	set("time", func() { cfg.Grid.Duration = fv("time") })
	set("steps", func() { cfg.Grid.Steps = iv("steps") })
	set("diffusivity", func() { cfg.Physics.Diffusivity = fv("diffusivity") })
	set("velocity", func() { cfg.Physics.Velocity = fv("velocity") })
	set("scheme", func() { cfg.Scheme = sv("scheme") })
	set("bc", func() { cfg.Boundary.Kind = sv("bc") })
	set("left", func() { cfg.Boundary.Left = fv("left") })
	set("right", func() { cfg.Boundary.Right = fv("right") })
	set("ic", func() { cfg.Initial.Kind = sv("ic") })
	set("center", func() { cfg.Initial.Center = fv("center") })
	set("sigma", func() { cfg.Initial.Sigma = fv("sigma") })
	set("amplitude", func() { cfg.Initial.Amplitude = fv("amplitude") })
	set("edge", func() { cfg.Initial.Edge = fv("edge") })
	set("upstream", func() { cfg.Initial.Upstream = fv("upstream") })
	set("value", func() { cfg.Initial.Value = fv("value") })
	set("order", func() { cfg.Reaction.Order = iv("order") })
	set("k", func() { cfg.Reaction.K = fv("k") })
	set("kmax", func() { cfg.Reaction.KMax = fv("kmax"); cfg.Reaction.Monod = fv("kmax") > 0 })
	set("ks", func() { cfg.Reaction.KS = fv("ks") })
	set("c0", func() { cfg.Reaction.C0 = fv("c0") })
	return cfg, nil
}

func runDiffuse(cmd *cobra.Command, args []string) error {
	cfg, err := buildScenario(cmd)
	if err != nil {
		return err
	}
	g, bc, ic, err := buildField(cfg)
	if err != nil {
		return err
	}
	sc, err := diffusion.ParseScheme(cfg.Scheme)
	if err != nil {
		return err
	}
	s, err := diffusion.New(g, cfg.Physics.Diffusivity, bc)
	if err != nil {
		return err
	}
	s.SetInitial(ic)

	if live {
		st, err := s.Stepper(sc)
		if err != nil {
			return err
		}
		return runLive(st, g, bc, ic, "diffusion: "+sc.String())
	}

	res, err := s.Solve(sc)
	if err != nil {
		return err
	}
	return report(res, g)
}

func runAdvect(cmd *cobra.Command, args []string) error {
	cfg, err := buildScenario(cmd)
	if err != nil {
		return err
	}
	g, bc, ic, err := buildField(cfg)
	if err != nil {
		return err
	}
	sc, err := advection.ParseScheme(cfg.Scheme)
	if err != nil {
		return err
	}
	s, err := advection.New(g, cfg.Physics.Velocity, cfg.Physics.Diffusivity, bc)
	if err != nil {
		return err
	}
	s.SetInitial(ic)

	if live {
		st, err := s.Stepper(sc)
		if err != nil {
			return err
		}
		return runLive(st, g, bc, ic, "advection: "+sc.String())
	}

	res, err := s.Solve(sc)
	if err != nil {
		return err
	}
	return report(res, g)
}

func runReact(cmd *cobra.Command, args []string) error {
	cfg, err := buildScenario(cmd)
	if err != nil {
		return err
	}
	law, err := cfg.BuildLaw()
	if err != nil {
		return err
	}
	dt := cfg.Grid.Duration / float64(cfg.Grid.Steps)

	st := reaction.NewStepper(law, cfg.Reaction.C0)
	times := make([]float64, cfg.Grid.Steps+1)
	concs := make([]float64, cfg.Grid.Steps+1)
	concs[0] = cfg.Reaction.C0
	for i := 1; i <= cfg.Grid.Steps; i++ {
		concs[i] = st.Step(dt)
		times[i] = st.Elapsed()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "law\t%s\n", law.Name())
	fmt.Fprintf(w, "final\t%.6g\n", st.Concentration())
	if fo, ok := law.(reaction.FirstOrder); ok {
		fmt.Fprintf(w, "analytic\t%.6g\n", reaction.FirstOrderAnalytic(cfg.Reaction.C0, fo.K, cfg.Grid.Duration))
		fmt.Fprintf(w, "half-life\t%.6g\n", reaction.HalfLife(fo.K))
	}
	w.Flush()

	if showGraph {
		fmt.Println(viz.Profile(concs, "concentration vs time"))
	}
	if outFile != "" {
		return writeSeriesCSV(outFile, times, concs)
	}
	return nil
}

func runCouple(cmd *cobra.Command, args []string) error {
	cfg, err := buildScenario(cmd)
	if err != nil {
		return err
	}
	g, bc, ic, err := buildField(cfg)
	if err != nil {
		return err
	}
	law, err := cfg.BuildLaw()
	if err != nil {
		return err
	}

	var st solver.TransportStepper
	if cfg.Physics.Velocity != 0 {
		sc, err := advection.ParseScheme(cfg.Scheme)
		if err != nil {
			return err
		}
		a, err := advection.New(g, cfg.Physics.Velocity, cfg.Physics.Diffusivity, bc)
		if err != nil {
			return err
		}
		st, err = a.Stepper(sc)
		if err != nil {
			return err
		}
	} else {
		sc, err := diffusion.ParseScheme(cfg.Scheme)
		if err != nil {
			return err
		}
		d, err := diffusion.New(g, cfg.Physics.Diffusivity, bc)
		if err != nil {
			return err
		}
		st, err = d.Stepper(sc)
		if err != nil {
			return err
		}
	}

	c, err := couple.New(g, st, law, bc)
	if err != nil {
		return err
	}
	c.SetInitial(ic)
	res, err := c.Solve()
	if err != nil {
		return err
	}
	return report(res, g)
}

func runFit(cmd *cobra.Command, args []string) error {
	times, concs, err := readSeriesCSV(args[0])
	if err != nil {
		return err
	}
	fit, err := reaction.FitFirstOrder(times, concs, reaction.FitOptions{MaxIter: fitMaxIter})
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "k\t%.6g\n", fit.K)
	fmt.Fprintf(w, "c0\t%.6g\n", fit.C0)
	fmt.Fprintf(w, "half-life\t%.6g\n", reaction.HalfLife(fit.K))
	fmt.Fprintf(w, "r2\t%.6f\n", fit.R2)
	fmt.Fprintf(w, "iterations\t%d\n", fit.Iterations)
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildScenario(cmd)
	if err != nil {
		return err
	}
	values, err := parseFloats(sweepValues)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("--values is required, e.g. --values 0.05,0.1,0.2")
	}

	combos := sweep.Expand([]string{sweepParam}, [][]float64{values})
	tasks := make([]sweep.Task, 0, len(combos))
	for _, params := range combos {
		c := *cfg
		switch sweepParam {
		case "diffusivity":
			c.Physics.Diffusivity = params[sweepParam]
		case "steps":
			c.Grid.Steps = int(params[sweepParam])
		default:
			return fmt.Errorf("unsupported sweep parameter %q", sweepParam)
		}
		scenario := c
		tasks = append(tasks, sweep.Task{
			Name:   fmt.Sprintf("%s=%g", sweepParam, params[sweepParam]),
			Params: params,
			Run: func(ctx context.Context) (*solver.Result, error) {
				return solveDiffusion(&scenario)
			},
		})
	}

	outcomes := sweep.Runner{Workers: sweepJobs}.Run(context.Background(), tasks)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "run\tFo\tfinal mass\tpeak\twarnings")
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", o.Name, o.Err)
			continue
		}
		last := len(o.Result.Field) - 1
		dx := o.Result.X[1] - o.Result.X[0]
		_, peak := o.Result.Peak(last)
		fmt.Fprintf(w, "%s\t%.4g\t%.6g\t%.6g\t%d\n",
			o.Name, o.Result.Diagnostics.Fo, o.Result.Mass(last, dx), peak, len(o.Result.Warnings))
	}
	return w.Flush()
}

func solveDiffusion(cfg *config.Config) (*solver.Result, error) {
	g, bc, ic, err := buildField(cfg)
	if err != nil {
		return nil, err
	}
	sc, err := diffusion.ParseScheme(cfg.Scheme)
	if err != nil {
		return nil, err
	}
	s, err := diffusion.New(g, cfg.Physics.Diffusivity, bc)
	if err != nil {
		return nil, err
	}
	s.SetInitial(ic)
	return s.Solve(sc)
}

func buildField(cfg *config.Config) (*grid.Grid, solver.Boundary, solver.InitialCondition, error) {
	g, err := cfg.BuildGrid()
	if err != nil {
		return nil, solver.Boundary{}, nil, err
	}
	bc, err := cfg.BuildBoundary()
	if err != nil {
		return nil, solver.Boundary{}, nil, err
	}
	ic, err := cfg.BuildInitial()
	if err != nil {
		return nil, solver.Boundary{}, nil, err
	}
	if ic == nil {
		vals := cfg.Initial.Values
		ic = func(x float64) float64 {
			i := int(math.Round(x / g.Dx()))
			if i < 0 || i >= len(vals) {
				return 0
			}
			return vals[i]
		}
	}
	return g, bc, ic, nil
}

func runLive(st solver.TransportStepper, g *grid.Grid, bc solver.Boundary, ic solver.InitialCondition, title string) error {
	init := solver.Sample(ic, g.X())
	model := viz.NewLive(st, init, bc, g.Dt(), g.Steps(), title)
	_, err := tea.NewProgram(model).Run()
	return err
}

func report(res *solver.Result, g *grid.Grid) error {
	fmt.Print(viz.Summary(res, g.Dx()))
	if showGraph {
		fmt.Println(viz.Profile(res.Field.Final(), fmt.Sprintf("t = %.4g", res.Times[len(res.Times)-1])))
	}
	if outFile != "" {
		return writeFieldCSV(outFile, res)
	}
	return nil
}

func writeFieldCSV(path string, res *solver.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := make([]string, 0, len(res.X)+1)
	header = append(header, "t")
	for _, x := range res.X {
		header = append(header, strconv.FormatFloat(x, 'g', -1, 64))
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, row := range res.Field {
		rec := make([]string, 0, len(row)+1)
		rec = append(rec, strconv.FormatFloat(res.Times[i], 'g', -1, 64))
		for _, v := range row {
			rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func writeSeriesCSV(path string, times, values []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write([]string{"t", "c"}); err != nil {
		return err
	}
	for i := range times {
		if err := w.Write([]string{
			strconv.FormatFloat(times[i], 'g', -1, 64),
			strconv.FormatFloat(values[i], 'g', -1, 64),
		}); err != nil {
			return err
		}
	}
	return nil
}

func readSeriesCSV(path string) (times, values []float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	for i, rec := range records {
		if len(rec) < 2 {
			continue
		}
		t, terr := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		c, cerr := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if terr != nil || cerr != nil {
			if i == 0 {
				continue // header row
			}
			return nil, nil, fmt.Errorf("bad record on line %d of %s", i+1, path)
		}
		times = append(times, t)
		values = append(values, c)
	}
	return times, values, nil
}

func parseFloats(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
