package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/oscillator/internal/analysis"
	"github.com/san-kum/oscillator/internal/config"
	"github.com/san-kum/oscillator/internal/dynamo"
	"github.com/san-kum/oscillator/internal/experiment"
	"github.com/san-kum/oscillator/internal/export"
	"github.com/san-kum/oscillator/internal/logging"
	"github.com/san-kum/oscillator/internal/physics"
	"github.com/san-kum/oscillator/internal/sim"
	"github.com/san-kum/oscillator/internal/storage"
	"github.com/san-kum/oscillator/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	dictPath   string
	preset     string
	system     string
	theme      string
	plot       bool
	// trajectory
	duration float64
	interval float64
	relTol   float64
	// phase axes
	xAxis int
	yAxis int
)

// main registers the commands and exits 1 when any of them fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "oscillator <solver>",
		Short:        "spring-damper oscillator and adaptive ODE solver convergence study",
		Args:         cobra.ExactArgs(1),
		RunE:         runStudy,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".oscillator", "data directory")
	pf.StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	pf.StringVar(&configFile, "config", "", "study config file path (yaml)")
	pf.StringVar(&dictPath, "dict", config.DefaultDictPath, "oscillator properties dictionary")
	pf.StringVar(&preset, "preset", "", "use built-in oscillator properties instead of --dict")
	pf.StringVar(&system, "system", config.DefaultSystem, "system to integrate (oscillator, bessel)")
	pf.StringVar(&theme, "theme", "minimal", "report theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	rootCmd.Flags().BoolVar(&plot, "plot", false, "chart the sweep error")

	solversCmd := &cobra.Command{
		Use:   "solvers",
		Short: "list solver variants",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range experiment.NewRegistry().ListSolvers() {
				fmt.Println(name)
			}
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in oscillator properties",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	dumpCmd := &cobra.Command{
		Use:   "dump [run_id]",
		Short: "print the oscillator dictionary, or the one saved with a run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  dumpProperties,
	}

	trajectoryCmd := &cobra.Command{
		Use:   "trajectory <solver>",
		Short: "advance the oscillator over time and save the run",
		Args:  cobra.ExactArgs(1),
		RunE:  runTrajectory,
	}
	trajectoryCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	trajectoryCmd.Flags().Float64Var(&interval, "interval", config.DefaultInterval, "output interval")
	trajectoryCmd.Flags().Float64Var(&relTol, "reltol", config.DefaultRelTol, "relative tolerance")
	trajectoryCmd.Flags().BoolVar(&plot, "plot", false, "chart the displacement")

	watchCmd := &cobra.Command{
		Use:   "watch <solver>",
		Short: "advance the oscillator live in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  watchLive,
	}
	watchCmd.Flags().Float64Var(&interval, "interval", config.DefaultInterval, "output interval")
	watchCmd.Flags().Float64Var(&relTol, "reltol", config.DefaultRelTol, "relative tolerance")

	compareCmd := &cobra.Command{
		Use:   "compare <solver> <solver>...",
		Short: "run the convergence study for several solvers",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareSolvers,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for x-axis")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", 3, "state index for y-axis")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a phase space plot of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			states, _, err := storage.New(dataDir).LoadStates(args[0])
			if err != nil {
				return err
			}
			return export.WriteSVG(os.Stdout, export.Points(states, xAxis, yAxis), 800, 600, "#00ccff")
		},
	}
	exportSVGCmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for x-axis")
	exportSVGCmd.Flags().IntVar(&yAxis, "y-axis", 3, "state index for y-axis")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportCSV(os.Stdout, args[0])
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	rootCmd.AddCommand(solversCmd, presetsCmd, dumpCmd, trajectoryCmd, watchCmd, compareCmd, listCmd, plotCmd, phaseCmd, analyzeCmd, exportSVGCmd, exportCSVCmd, exportJSONCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	return logging.NewLogger(logLevel, os.Stderr)
}

// loadConfig starts from --config (or the defaults) and lets explicitly
// set flags override it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dict") {
		cfg.Dict = dictPath
	}
	if flags.Changed("preset") {
		cfg.Preset = preset
	}
	if flags.Changed("system") {
		cfg.System = system
	}
	if cmd.Name() == "trajectory" || cmd.Name() == "watch" {
		if flags.Changed("time") {
			cfg.Trajectory.Duration = duration
		}
		if flags.Changed("interval") {
			cfg.Trajectory.Interval = interval
		}
		if flags.Changed("reltol") {
			cfg.Trajectory.RelTol = relTol
		}
	}
	return cfg, cfg.Validate()
}

func runStudy(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Solver = args[0]

	study, err := experiment.NewRegistry().Build(cfg, cfg.Solver, newLogger())
	if err != nil {
		return err
	}

	report, err := study.Run(cmd.Context())
	if err != nil {
		return err
	}

	if err := viz.RenderReport(os.Stdout, report, viz.NewStyles(viz.GetTheme(theme))); err != nil {
		return err
	}
	if plot {
		fmt.Println()
		fmt.Println(viz.SweepChart(report))
	}
	return nil
}

func compareSolvers(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	reports, err := experiment.Compare(cmd.Context(), experiment.NewRegistry(), cfg, args, newLogger())
	if err != nil {
		return err
	}

	st := viz.NewStyles(viz.GetTheme(theme))
	fmt.Println(st.Title.Render(fmt.Sprintf("%s: y(%.1f) against the analytic reference", cfg.System, reports[0].XEnd)))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOLVER\tMAX ERROR\tDX NEXT\tFINAL SWEEP DX")
	for _, r := range reports {
		lastDx := 0.0
		if len(r.Sweep) > 0 {
			lastDx = r.Sweep[len(r.Sweep)-1].DxDid
		}
		fmt.Fprintf(w, "%s\t%.3e\t%.4g\t%.4g\n", r.Solver, r.Error, r.DxEst, lastDx)
	}
	return w.Flush()
}

func dumpProperties(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		p, err := storage.New(dataDir).LoadProperties(args[0])
		if err != nil {
			return err
		}
		_, err = p.WriteTo(os.Stdout)
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := cfg.Properties()
	if err != nil {
		return err
	}
	o, err := physics.NewOscillator(p)
	if err != nil {
		return err
	}
	_, err = o.WriteTo(os.Stdout)
	return err
}

func runTrajectory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Solver = args[0]
	logger := newLogger()

	reg := experiment.NewRegistry()
	sys, err := reg.GetSystem(cfg.System, cfg)
	if err != nil {
		return err
	}
	model, ok := sys.(dynamo.Model)
	if !ok {
		return fmt.Errorf("system %s has no state of its own to advance", cfg.System)
	}
	solver, err := reg.GetSolver(cfg.Solver, sys)
	if err != nil {
		return err
	}
	solver.SetLogger(logger)

	var props *physics.Properties
	if o, ok := sys.(*physics.Oscillator); ok {
		p := o.Properties()
		props = &p
	}

	s := sim.New(model, solver)
	s.SetLogger(logger)
	s.AddObserver(sim.NewTraceObserver(logger))
	for _, m := range reg.DefaultMetrics(sys) {
		s.AddMetric(m)
	}

	result, err := s.Run(cmd.Context(), sim.Config{
		Duration: cfg.Trajectory.Duration,
		Interval: cfg.Trajectory.Interval,
		RelTol:   cfg.Trajectory.RelTol,
		DxEst:    cfg.Trajectory.DxEst,
	})
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		System:   cfg.System,
		Solver:   solver.Name(),
		Duration: cfg.Trajectory.Duration,
		Interval: cfg.Trajectory.Interval,
		RelTol:   cfg.Trajectory.RelTol,
	}, props, result)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("intervals: %d\n", result.Intervals)
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s: %.6g\n", name, result.Metrics[name])
	}

	if plot {
		xs := make([]float64, len(result.States))
		for i, y := range result.States {
			xs[i] = y[0]
		}
		fmt.Println()
		fmt.Println(viz.SeriesChart(xs, viz.ComponentCaption(cfg.System, 0)))
	}
	return nil
}

func watchLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	sys, err := reg.GetSystem(cfg.System, cfg)
	if err != nil {
		return err
	}
	model, ok := sys.(dynamo.Model)
	if !ok {
		return fmt.Errorf("system %s has no state of its own to advance", cfg.System)
	}
	solver, err := reg.GetSolver(args[0], sys)
	if err != nil {
		return err
	}
	solver.SetRelTol(cfg.Trajectory.RelTol)

	live := viz.NewLive(cfg.System, model, solver, cfg.Trajectory.Interval, cfg.Trajectory.DxEst, viz.GetTheme(theme))
	_, err = tea.NewProgram(live, tea.WithAltScreen()).Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSYSTEM\tTIME\tDURATION\tINTERVAL\tSOLVER\tRELTOL")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%.1e\n",
			run.ID,
			run.System,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Interval,
			run.Solver,
			run.RelTol,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("system: %s\n", meta.System)
	fmt.Printf("samples: %d\n\n", len(states))

	numVars := len(states[0])
	if numVars > 6 {
		numVars = 6
	}

	for varIdx := 0; varIdx < numVars; varIdx++ {
		data := make([]float64, len(states))
		for i := range states {
			if varIdx < len(states[i]) {
				data[i] = states[i][varIdx]
			}
		}
		fmt.Println(viz.SeriesChart(data, viz.ComponentCaption(meta.System, varIdx)))
		fmt.Println()
	}

	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	if xAxis < 0 || yAxis < 0 || len(states[0]) <= xAxis || len(states[0]) <= yAxis {
		return fmt.Errorf("state dimension %d too small for axes %d, %d", len(states[0]), xAxis, yAxis)
	}

	xData := make([]float64, len(states))
	yData := make([]float64, len(states))
	for i := range states {
		xData[i] = states[i][xAxis]
		yData[i] = states[i][yAxis]
	}

	fmt.Printf("phase space plot: %s\n", meta.ID)
	fmt.Printf("%s against %s\n\n",
		viz.ComponentCaption(meta.System, yAxis),
		viz.ComponentCaption(meta.System, xAxis))
	fmt.Print(viz.PhasePortrait(xData, yData, 60, 20))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 || len(states[0]) < 3 {
		return fmt.Errorf("run %s has no displacement samples", runID)
	}

	props, err := st.LoadProperties(runID)
	if err != nil {
		return err
	}
	natural := analysis.NaturalFrequencies(props)
	zeta := analysis.DampingRatios(props)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AXIS\tMEASURED (Hz)\tNATURAL (Hz)\tDAMPING RATIO")
	for axis := 0; axis < 3; axis++ {
		data := make([]float64, len(states))
		for i := range states {
			data[i] = states[i][axis]
		}
		f, err := analysis.DominantFrequency(data, meta.Interval)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%c\t%.4f\t%.4f\t%.4f\n", "xyz"[axis], f, natural[axis], zeta[axis])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	dev, err := analysis.MaxDeviation(props, states, times)
	if errors.Is(err, dynamo.ErrParameterBounds) {
		fmt.Printf("\nno closed form: %v\n", err)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("\nmax deviation from closed form: %.3e\n", dev)
	return nil
}
