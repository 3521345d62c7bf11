package experiment

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-logr/logr"
	"github.com/san-kum/ecasim/internal/automaton"
	"github.com/san-kum/ecasim/internal/config"
	"github.com/san-kum/ecasim/internal/metrics"
	"github.com/san-kum/ecasim/internal/render"
	"github.com/san-kum/ecasim/internal/rule"
	"github.com/san-kum/ecasim/internal/sim"
)

// Experiment is a validated configuration wired to its simulator.
type Experiment struct {
	cfg       config.Config
	table     rule.Table
	simulator *sim.Simulator
	density   *metrics.Density
	log       logr.Logger
}

// New validates cfg and builds the rule table, buffer and simulator. No
// generation is computed or rendered when it fails.
func New(cfg *config.Config, log logr.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s, table, err := build(cfg, cfg.Rule)
	if err != nil {
		return nil, err
	}
	s.SetLogger(log)

	density := metrics.NewDensity()
	s.AddMetric(density)
	s.AddMetric(metrics.NewActivity())
	s.AddMetric(metrics.NewSurvival())

	return &Experiment{
		cfg:       *cfg,
		table:     table,
		simulator: s,
		density:   density,
		log:       log,
	}, nil
}

func build(cfg *config.Config, ruleNumber int) (*sim.Simulator, rule.Table, error) {
	table, err := rule.New(ruleNumber)
	if err != nil {
		return nil, rule.Table{}, err
	}
	boundary, err := cfg.GetBoundary()
	if err != nil {
		return nil, rule.Table{}, err
	}
	seed, err := cfg.GetSeed()
	if err != nil {
		return nil, rule.Table{}, err
	}
	buf, err := automaton.NewBuffer(cfg.Width, seed, boundary)
	if err != nil {
		return nil, rule.Table{}, err
	}
	return sim.New(table, buf), table, nil
}

func (e *Experiment) Config() config.Config     { return e.cfg }
func (e *Experiment) Table() rule.Table         { return e.table }
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }
func (e *Experiment) DensitySeries() []float64  { return e.density.Series() }
func (e *Experiment) Pacing() time.Duration     { return time.Duration(e.cfg.PacingMs) * time.Millisecond }
func (e *Experiment) Live() bool                { return e.cfg.Mode == config.ModeLive }

// Run renders the configured number of generations to w, in batch or live
// mode. Each row also goes to every extra renderer after w. In live mode
// cancelling ctx stops the run at the next pacing suspension; the result then
// reports sim.Cancelled.
func (e *Experiment) Run(ctx context.Context, w io.Writer, extra ...sim.Renderer) (*sim.Result, error) {
	e.log.V(1).Info("simulation", "rule", e.table.String(), "width", e.cfg.Width,
		"iterations", e.cfg.Iterations, "boundary", e.cfg.Boundary, "mode", e.cfg.Mode)

	if e.cfg.Format == config.FormatSVG {
		svg := render.NewSVG(w, e.cfg.Scale)
		res, err := e.run(ctx, withExtra(svg, extra))
		if err != nil {
			return res, err
		}
		return res, svg.Close()
	}

	sym, err := e.cfg.GetSymbols()
	if err != nil {
		return nil, err
	}
	text := render.NewText(w, sym, e.Live())
	if err := text.Start(); err != nil {
		return nil, err
	}
	res, err := e.run(ctx, withExtra(text, extra))
	if stopErr := text.Stop(); err == nil {
		err = stopErr
	}
	return res, err
}

func withExtra(r sim.Renderer, extra []sim.Renderer) sim.Renderer {
	if len(extra) == 0 {
		return r
	}
	return render.Multi(append([]sim.Renderer{r}, extra...)...)
}

func (e *Experiment) run(ctx context.Context, r sim.Renderer) (*sim.Result, error) {
	if e.Live() {
		return e.simulator.Go(ctx, e.cfg.Iterations, r, e.Pacing()).Wait()
	}
	return e.simulator.RunBatch(e.cfg.Iterations, r)
}

// Factory returns a sweep factory that builds simulators sharing every
// setting of cfg except the rule number.
func Factory(cfg *config.Config) sim.Factory {
	c := *cfg
	return func(ruleNumber int) (*sim.Simulator, error) {
		s, _, err := build(&c, ruleNumber)
		if err != nil {
			return nil, fmt.Errorf("build: %w", err)
		}
		for _, m := range DefaultMetrics() {
			s.AddMetric(m)
		}
		return s, nil
	}
}

// DefaultMetrics returns a fresh set of the standard run metrics.
func DefaultMetrics() []sim.Metric {
	return []sim.Metric{
		metrics.NewDensity(),
		metrics.NewActivity(),
		metrics.NewSurvival(),
	}
}
