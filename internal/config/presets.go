package config

import "sort"

// Presets are named starting points; flags and config files override them.
var Presets = map[string]*Config{
	"sierpinski": {
		Width: 63, Rule: 90, Iterations: 32, Boundary: "fixed",
		Seed: SeedConfig{Strategy: SeedCenter},
	},
	"chaos": {
		Width: 79, Rule: 30, Iterations: 40, Boundary: "fixed",
		Seed: SeedConfig{Strategy: SeedCenter},
	},
	"universal": {
		Width: 80, Rule: 110, Iterations: 60, Boundary: "toroidal",
		Seed: SeedConfig{Strategy: SeedRandom, Density: 0.5, RandomSeed: 110},
	},
	"traffic": {
		Width: 64, Rule: 184, Iterations: 32, Boundary: "toroidal",
		Seed: SeedConfig{Strategy: SeedRandom, Density: 0.4, RandomSeed: 184},
	},
	"display": {
		Width: 50, Rule: 30, Iterations: 100, Boundary: "toroidal", Mode: ModeLive, PacingMs: 500,
		Seed: SeedConfig{Strategy: SeedEdges},
	},
	"glider": {
		Width: 60, Rule: 54, Iterations: 40, Boundary: "toroidal",
		Seed: SeedConfig{Strategy: SeedPattern, Pattern: "1110111"},
	},
}

// GetPreset returns a full configuration for name: the defaults with the
// preset's non-zero fields applied. It returns nil for unknown names.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.Width = p.Width
	cfg.Rule = p.Rule
	cfg.Iterations = p.Iterations
	cfg.Boundary = p.Boundary
	cfg.Sentinel = p.Sentinel
	if p.Mode != "" {
		cfg.Mode = p.Mode
	}
	if p.PacingMs != 0 {
		cfg.PacingMs = p.PacingMs
	}
	cfg.Seed.Strategy = p.Seed.Strategy
	cfg.Seed.Pattern = p.Seed.Pattern
	if p.Seed.Density != 0 {
		cfg.Seed.Density = p.Seed.Density
	}
	cfg.Seed.RandomSeed = p.Seed.RandomSeed
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
