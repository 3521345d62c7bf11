package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/ecasim/internal/analysis"
	"github.com/san-kum/ecasim/internal/automaton"
	"github.com/san-kum/ecasim/internal/experiment"
	"github.com/san-kum/ecasim/internal/sim"
)

const plotWidth = 80

func printStats(w io.Writer, exp *experiment.Experiment, result *sim.Result) {
	fmt.Fprintf(w, "\n%s, %d generations, %s\n", exp.Table(), result.Generations, result.Outcome)

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "metrics:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %.6f\n", name, result.Metrics[name])
	}
	if result.Rows != nil {
		fmt.Fprintf(w, "cycle: %s\n", cycleLabel(result.Rows))
	}
	fmt.Fprintln(w)

	series := exp.DensitySeries()
	printDensity(w, series)
	printSpectrum(w, series)
}

func printDensity(w io.Writer, series []float64) {
	if len(series) < 2 {
		return
	}
	graph := asciigraph.Plot(series,
		asciigraph.Height(10),
		asciigraph.Width(plotWidth),
		asciigraph.Caption("density per generation"),
	)
	fmt.Fprintln(w, graph)
	fmt.Fprintln(w)
}

func printSpectrum(w io.Writer, series []float64) {
	ps := analysis.PowerSpectrum(series)
	if len(ps) < 2 {
		return
	}
	graph := asciigraph.Plot(ps,
		asciigraph.Height(8),
		asciigraph.Width(plotWidth),
		asciigraph.Caption("density power spectrum"),
	)
	fmt.Fprintln(w, graph)
	fmt.Fprintln(w)

	if period, ok := analysis.DominantPeriod(series); ok {
		fmt.Fprintf(w, "dominant period: %.2f generations\n", period)
	}
}

func cycleLabel(rows []automaton.Row) string {
	c, ok := analysis.DetectCycle(rows)
	if !ok {
		return "-"
	}
	return fmt.Sprintf("period %d from %d", c.Period, c.Start)
}
