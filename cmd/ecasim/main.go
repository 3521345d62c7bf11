package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/ecasim/internal/automation"
	"github.com/san-kum/ecasim/internal/config"
	"github.com/san-kum/ecasim/internal/experiment"
	"github.com/san-kum/ecasim/internal/logging"
	"github.com/san-kum/ecasim/internal/render"
	"github.com/san-kum/ecasim/internal/rule"
	"github.com/san-kum/ecasim/internal/sim"
	"github.com/san-kum/ecasim/internal/storage"
	"github.com/san-kum/ecasim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	sweepFrom    int
	sweepTo      int
	sweepWorkers int
)

// main registers the commands and exits with status 1 when one fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "ecasim",
		Short:         "elementary cellular automaton simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ecasim", "data directory for saved runs")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "log verbosity (repeat for more)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and print every generation",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd.Flags())
	runCmd.Flags().Var(mode, "mode", "batch prints at once, live refreshes in place")
	runCmd.Flags().IntVar(&pacingMs, "pacing-ms", config.DefaultPacingMs, "delay between live generations")
	runCmd.Flags().Var(symbols, "symbols", "cell symbols")
	runCmd.Flags().Var(format, "format", "output format")
	runCmd.Flags().IntVar(&scale, "scale", config.DefaultScale, "svg pixels per cell")
	runCmd.Flags().BoolVar(&showStats, "stats", false, "print metrics, cycle and density plot")
	runCmd.Flags().BoolVar(&saveRun, "save", false, "store the run under the data directory")
	runCmd.Flags().StringVar(&svgOut, "svg-out", "", "also write an svg space-time diagram to this file")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "run a live simulation in a terminal view",
		Args:  cobra.NoArgs,
		RunE:  watchSimulation,
	}
	addSimFlags(watchCmd.Flags())
	watchCmd.Flags().IntVar(&pacingMs, "pacing-ms", config.DefaultPacingMs, "delay between generations")
	watchCmd.Flags().Var(symbols, "symbols", "cell symbols")
	watchCmd.Flags().StringVar(&theme, "theme", viz.Themes[0].Name, "color theme")

	ruleCmd := &cobra.Command{
		Use:   "rule [number]",
		Short: "show a rule's transition table and equivalents",
		Args:  cobra.ExactArgs(1),
		RunE:  showRule,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a range of rules concurrently and compare them",
		Args:  cobra.NoArgs,
		RunE:  sweepRules,
	}
	addSimFlags(sweepCmd.Flags())
	sweepCmd.Flags().IntVar(&sweepFrom, "from", rule.Min, "first rule")
	sweepCmd.Flags().IntVar(&sweepTo, "to", rule.Max, "last rule")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", runtime.NumCPU(), "concurrent simulations")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot density and spectrum of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export saved run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the steps of a yaml scenario in order",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	rootCmd.AddCommand(runCmd, watchCmd, ruleCmd, sweepCmd, presetsCmd, runsCmd, plotCmd, exportCmd, scenarioCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	log := logging.New(os.Stderr, verbose)
	exp, err := experiment.New(cfg, log)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if exp.Live() {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
	}

	var extra []sim.Renderer
	var svg *render.SVG
	if svgOut != "" {
		f, err := os.Create(svgOut)
		if err != nil {
			return err
		}
		defer f.Close()
		svg = render.NewSVG(f, cfg.Scale)
		extra = append(extra, svg)
	}

	result, err := exp.Run(ctx, os.Stdout, extra...)
	if err != nil {
		return err
	}
	if svg != nil {
		if err := svg.Close(); err != nil {
			return err
		}
	}

	if result.Outcome == sim.Cancelled {
		fmt.Fprintf(os.Stderr, "cancelled after %d of %d generations\n", result.Generations, cfg.Iterations)
	}

	if showStats {
		out := os.Stdout
		if cfg.Format == config.FormatSVG {
			out = os.Stderr
		}
		printStats(out, exp, result)
	}

	if saveRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(runMetadata(exp), result)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "run id: %s\n", runID)
	}

	return nil
}

func runMetadata(exp *experiment.Experiment) storage.RunMetadata {
	cfg := exp.Config()
	buf := exp.Simulator().Buffer()
	return storage.RunMetadata{
		Rule:       cfg.Rule,
		Width:      cfg.Width,
		Iterations: cfg.Iterations,
		Boundary:   buf.Boundary().String(),
		Seed:       buf.SeedStrategy().Name(),
	}
}

func watchSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Mode = config.ModeLive

	exp, err := experiment.New(cfg, logging.New(os.Stderr, verbose))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := tea.NewProgram(viz.NewModel(ctx, exp, theme), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}

	result, err := final.(viz.Model).Wait()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%s: %s after %d generations\n", exp.Table(), result.Outcome, result.Generations)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := &automation.Runner{Out: os.Stdout, Store: st, Log: logging.New(os.Stderr, verbose)}
	results, err := r.Run(ctx, sc)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stderr, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tGENERATIONS\tOUTCOME\tRUN")
	for _, res := range results {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", res.Step.Name, res.Result.Generations, res.Result.Outcome, res.RunID)
	}
	return w.Flush()
}

func showRule(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("rule %q: %w", args[0], rule.ErrInvalidRule)
	}
	table, err := rule.New(n)
	if err != nil {
		return err
	}

	fmt.Println(table)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NEIGHBOURHOOD\tNEXT")
	for _, e := range table.Entries() {
		fmt.Fprintf(w, "%d%d%d\t%d\n", e.Left, e.Center, e.Right, e.Next)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("mirror: %d  complement: %d  class: %v\n",
		table.Mirror().Number(), table.Complement().Number(), table.Equivalents())
	return nil
}

func sweepRules(cmd *cobra.Command, args []string) error {
	if sweepFrom > sweepTo {
		return fmt.Errorf("empty rule range %d..%d", sweepFrom, sweepTo)
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log := logging.New(os.Stderr, verbose)

	rules := make([]int, 0, sweepTo-sweepFrom+1)
	for n := sweepFrom; n <= sweepTo; n++ {
		rules = append(rules, n)
	}
	log.V(1).Info("sweep started", "rules", len(rules), "workers", sweepWorkers)

	results, err := sim.Sweep(cmd.Context(), rules, experiment.Factory(cfg), cfg.Iterations, sweepWorkers)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RULE\tDENSITY\tACTIVITY\tSURVIVAL\tFINAL\tCYCLE")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.3f\t%.3f\t%.3f\t%.3f\t%s\n",
			r.Rule,
			r.Result.Metrics["density"],
			r.Result.Metrics["activity"],
			r.Result.Metrics["survival"],
			r.Result.Final.Density(),
			cycleLabel(r.Result.Rows),
		)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tRULE\tWIDTH\tITERATIONS\tBOUNDARY\tSEED\tMODE")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%s\t%s\n",
			name, p.Rule, p.Width, p.Iterations, p.Boundary, p.Seed.Strategy, p.Mode)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tRULE\tTIME\tWIDTH\tGENERATIONS\tBOUNDARY\tSEED\tOUTCOME")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%d\t%s\t%s\t%s\n",
			run.ID,
			run.Rule,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width,
			run.Generations,
			run.Boundary,
			run.Seed,
			run.Outcome,
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
	rows, err := st.LoadRows(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("run %s has no stored rows", runID)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("rule: %d  width: %d  boundary: %s\n\n", meta.Rule, meta.Width, meta.Boundary)

	series := make([]float64, len(rows))
	for i, row := range rows {
		series[i] = row.Density()
	}
	printDensity(os.Stdout, series)
	printSpectrum(os.Stdout, series)
	fmt.Printf("cycle: %s\n", cycleLabel(rows))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	return storage.Export(os.Stdout, meta)
}
