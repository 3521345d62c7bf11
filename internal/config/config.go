package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/ecasim/internal/automaton"
	"github.com/san-kum/ecasim/internal/render"
	"github.com/san-kum/ecasim/internal/rule"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth      = 79
	DefaultRule       = 30
	DefaultIterations = 40
	DefaultPacingMs   = 500
	DefaultDensity    = 0.5
	DefaultScale      = 4
)

const (
	ModeBatch = "batch"
	ModeLive  = "live"

	SeedCenter  = "center"
	SeedEdges   = "edges"
	SeedPattern = "pattern"
	SeedRandom  = "random"

	FormatText = "text"
	FormatSVG  = "svg"
)

var (
	ErrInvalidMode   = errors.New("config: mode must be batch or live")
	ErrInvalidSeed   = errors.New("config: unknown seed strategy")
	ErrInvalidPacing = errors.New("config: pacing must not be negative")
	ErrInvalidFormat = errors.New("config: format must be text or svg")
)

// FieldError reports which configuration field failed validation.
type FieldError struct {
	Field string
	Value interface{}
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s=%v: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

type Config struct {
	Width      int        `yaml:"width"`
	Rule       int        `yaml:"rule"`
	Iterations int        `yaml:"iterations"`
	Boundary   string     `yaml:"boundary"`
	Sentinel   int        `yaml:"sentinel"`
	Mode       string     `yaml:"mode"`
	PacingMs   int        `yaml:"pacing_ms"`
	Seed       SeedConfig `yaml:"seed"`
	Symbols    string     `yaml:"symbols"`
	Format     string     `yaml:"format"`
	Scale      int        `yaml:"scale"`
}

type SeedConfig struct {
	Strategy   string  `yaml:"strategy"`
	Pattern    string  `yaml:"pattern"`
	Density    float64 `yaml:"density"`
	RandomSeed int64   `yaml:"random_seed"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:      DefaultWidth,
		Rule:       DefaultRule,
		Iterations: DefaultIterations,
		Boundary:   automaton.Fixed.String(),
		Sentinel:   0,
		Mode:       ModeBatch,
		PacingMs:   DefaultPacingMs,
		Seed: SeedConfig{
			Strategy: SeedCenter,
			Density:  DefaultDensity,
		},
		Symbols: "blocks",
		Format:  FormatText,
		Scale:   DefaultScale,
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver applies the yaml file at path on top of base. Fields absent from
// the file keep the value they have in base.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every field before a simulation is built. Iteration counts
// are not checked: a non-positive count renders nothing.
func (c *Config) Validate() error {
	if _, err := rule.New(c.Rule); err != nil {
		return &FieldError{Field: "rule", Value: c.Rule, Err: err}
	}
	if c.Width <= 0 {
		return &FieldError{Field: "width", Value: c.Width, Err: automaton.ErrInvalidWidth}
	}
	if _, err := c.GetBoundary(); err != nil {
		return err
	}
	if c.Mode != ModeBatch && c.Mode != ModeLive {
		return &FieldError{Field: "mode", Value: c.Mode, Err: ErrInvalidMode}
	}
	if c.PacingMs < 0 {
		return &FieldError{Field: "pacing_ms", Value: c.PacingMs, Err: ErrInvalidPacing}
	}
	if _, err := c.GetSeed(); err != nil {
		return err
	}
	if _, err := render.LookupSymbols(c.Symbols); err != nil {
		return &FieldError{Field: "symbols", Value: c.Symbols, Err: err}
	}
	if c.Format != FormatText && c.Format != FormatSVG {
		return &FieldError{Field: "format", Value: c.Format, Err: ErrInvalidFormat}
	}
	return nil
}

func (c *Config) GetBoundary() (automaton.Boundary, error) {
	kind, err := automaton.ParseBoundaryKind(c.Boundary)
	if err != nil {
		return automaton.Boundary{}, &FieldError{Field: "boundary", Value: c.Boundary, Err: err}
	}
	if kind == automaton.Toroidal {
		return automaton.ToroidalBoundary(), nil
	}
	if c.Sentinel != 0 && c.Sentinel != 1 {
		return automaton.Boundary{}, &FieldError{Field: "sentinel", Value: c.Sentinel, Err: automaton.ErrInvalidSentinel}
	}
	return automaton.FixedBoundary(uint8(c.Sentinel)), nil
}

func (c *Config) GetSeed() (automaton.Seed, error) {
	switch strings.ToLower(c.Seed.Strategy) {
	case SeedCenter, "":
		return automaton.CenterSeed{}, nil
	case SeedEdges:
		return automaton.CenterSeed{Edges: true}, nil
	case SeedPattern:
		if _, err := automaton.ParseRow(c.Seed.Pattern); err != nil || c.Seed.Pattern == "" {
			return nil, &FieldError{Field: "seed.pattern", Value: c.Seed.Pattern, Err: automaton.ErrInvalidPattern}
		}
		return automaton.PatternSeed{Pattern: c.Seed.Pattern}, nil
	case SeedRandom:
		if c.Seed.Density < 0 || c.Seed.Density > 1 {
			return nil, &FieldError{Field: "seed.density", Value: c.Seed.Density, Err: automaton.ErrInvalidDensity}
		}
		return automaton.RandomSeed{Density: c.Seed.Density, Source: c.Seed.RandomSeed}, nil
	default:
		return nil, &FieldError{Field: "seed.strategy", Value: c.Seed.Strategy, Err: ErrInvalidSeed}
	}
}

func (c *Config) GetSymbols() (render.Symbols, error) {
	return render.LookupSymbols(c.Symbols)
}
