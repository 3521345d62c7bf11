package automation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/san-kum/ecasim/internal/config"
	"github.com/san-kum/ecasim/internal/experiment"
	"github.com/san-kum/ecasim/internal/sim"
	"github.com/san-kum/ecasim/internal/storage"
	"gopkg.in/yaml.v3"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string
	Description string
	Steps       []Step
}

// Step is one run of a scenario. Config is the preset (or the defaults)
// overlaid with the fields written in the step.
type Step struct {
	Name   string
	Save   bool
	Config *config.Config
}

type rawScenario struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Steps       []yaml.Node `yaml:"steps"`
}

type stepHeader struct {
	Name   string `yaml:"name"`
	Preset string `yaml:"preset"`
	Save   bool   `yaml:"save"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates every step before anything runs.
func ParseScenario(data []byte) (*Scenario, error) {
	var raw rawScenario
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if len(raw.Steps) == 0 {
		return nil, ErrEmptyScenario
	}

	sc := &Scenario{Name: raw.Name, Description: raw.Description}
	for i := range raw.Steps {
		node := &raw.Steps[i]

		var h stepHeader
		if err := node.Decode(&h); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}

		base := config.DefaultConfig()
		if h.Preset != "" {
			base = config.GetPreset(h.Preset)
			if base == nil {
				return nil, fmt.Errorf("step %d: unknown preset %q", i+1, h.Preset)
			}
		}
		cfg := *base
		if err := node.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}

		name := h.Name
		if name == "" {
			name = fmt.Sprintf("step%d", i+1)
		}
		sc.Steps = append(sc.Steps, Step{Name: name, Save: h.Save, Config: &cfg})
	}
	return sc, nil
}

// StepResult pairs a step with its run and, when saved, the stored run id.
type StepResult struct {
	Step   Step
	Result *sim.Result
	RunID  string
}

// Runner executes scenarios, writing every step's output to Out.
type Runner struct {
	Out   io.Writer
	Store *storage.Store
	Log   logr.Logger
}

// Run executes the steps in order and stops at the first failure, returning
// the results gathered so far. A cancelled live step ends the scenario.
func (r *Runner) Run(ctx context.Context, sc *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(sc.Steps))

	for i, step := range sc.Steps {
		exp, err := experiment.New(step.Config, r.Log.WithValues("step", step.Name))
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		fmt.Fprintf(r.Out, "== step %d/%d: %s, %s\n", i+1, len(sc.Steps), step.Name, exp.Table())

		result, err := exp.Run(ctx, r.Out)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: step, Result: result}
		if step.Save && r.Store != nil {
			buf := exp.Simulator().Buffer()
			sr.RunID, err = r.Store.Save(storage.RunMetadata{
				Rule:       step.Config.Rule,
				Width:      step.Config.Width,
				Iterations: step.Config.Iterations,
				Boundary:   buf.Boundary().String(),
				Seed:       buf.SeedStrategy().Name(),
			}, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)

		if result.Outcome == sim.Cancelled {
			r.Log.V(1).Info("scenario cancelled", "step", step.Name)
			break
		}
	}

	return results, nil
}
