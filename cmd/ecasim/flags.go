package main

import (
	"fmt"
	"strings"

	"github.com/san-kum/ecasim/internal/config"
	"github.com/san-kum/ecasim/internal/render"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	dataDir string
	verbose int

	width      int
	ruleNumber int
	iterations int
	sentinel   int
	pacingMs   int
	pattern    string
	density    float64
	randomSeed int64
	scale      int
	configFile string
	preset     string
	showStats  bool
	saveRun    bool
	svgOut     string
	theme      string

	boundary = newEnum("fixed", "fixed", "toroidal", "wrap", "periodic")
	mode     = newEnum(config.ModeBatch, config.ModeBatch, config.ModeLive)
	seed     = newEnum(config.SeedCenter, config.SeedCenter, config.SeedEdges, config.SeedPattern, config.SeedRandom)
	symbols  = newEnum("blocks", render.SymbolSetNames()...)
	format   = newEnum(config.FormatText, config.FormatText, config.FormatSVG)
)

// enumValue is a string flag restricted to a fixed set of choices.
type enumValue struct {
	value   string
	allowed []string
}

var _ pflag.Value = (*enumValue)(nil)

func newEnum(def string, allowed ...string) *enumValue {
	return &enumValue{value: def, allowed: allowed}
}

func (e *enumValue) String() string { return e.value }

func (e *enumValue) Set(s string) error {
	s = strings.ToLower(s)
	for _, a := range e.allowed {
		if a == s {
			e.value = s
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", strings.Join(e.allowed, "|"))
}

func (e *enumValue) Type() string { return strings.Join(e.allowed, "|") }

// addSimFlags registers the flags shared by run, watch and sweep.
func addSimFlags(fs *pflag.FlagSet) {
	fs.IntVar(&width, "width", config.DefaultWidth, "number of cells")
	fs.IntVar(&ruleNumber, "rule", config.DefaultRule, "wolfram rule number (0-255)")
	fs.IntVar(&iterations, "iterations", config.DefaultIterations, "generations to render, seed row included")
	fs.Var(boundary, "boundary", "boundary policy")
	fs.IntVar(&sentinel, "sentinel", 0, "out-of-range neighbour value for the fixed boundary")
	fs.Var(seed, "seed", "seed row strategy")
	fs.StringVar(&pattern, "pattern", "", "seed pattern of 0s and 1s (seed=pattern)")
	fs.Float64Var(&density, "density", config.DefaultDensity, "alive fraction (seed=random)")
	fs.Int64Var(&randomSeed, "random-seed", 0, "random source seed (seed=random)")
	fs.StringVar(&configFile, "config", "", "config file path (yaml)")
	fs.StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig layers the preset, the config file and the flags the user
// set explicitly, in that order, and validates the result.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("rule") {
		cfg.Rule = ruleNumber
	}
	if flags.Changed("iterations") {
		cfg.Iterations = iterations
	}
	if flags.Changed("boundary") {
		cfg.Boundary = boundary.String()
	}
	if flags.Changed("sentinel") {
		cfg.Sentinel = sentinel
	}
	if flags.Changed("seed") {
		cfg.Seed.Strategy = seed.String()
	}
	if flags.Changed("pattern") {
		cfg.Seed.Pattern = pattern
		if !flags.Changed("seed") {
			cfg.Seed.Strategy = config.SeedPattern
		}
	}
	if flags.Changed("density") {
		cfg.Seed.Density = density
	}
	if flags.Changed("random-seed") {
		cfg.Seed.RandomSeed = randomSeed
	}
	if flags.Changed("mode") {
		cfg.Mode = mode.String()
	}
	if flags.Changed("pacing-ms") {
		cfg.PacingMs = pacingMs
	}
	if flags.Changed("symbols") {
		cfg.Symbols = symbols.String()
	}
	if flags.Changed("format") {
		cfg.Format = format.String()
	}
	if flags.Changed("scale") {
		cfg.Scale = scale
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
