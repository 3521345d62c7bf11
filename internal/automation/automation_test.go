package automation

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/san-kum/ecasim/internal/automaton"
	"github.com/san-kum/ecasim/internal/config"
	"github.com/san-kum/ecasim/internal/rule"
	"github.com/san-kum/ecasim/internal/sim"
	"github.com/san-kum/ecasim/internal/storage"
)

const scenarioYAML = `
name: tour
description: two classic rules
steps:
  - name: triangle
    preset: sierpinski
    iterations: 4
    width: 9
    symbols: hash
  - rule: 254
    width: 5
    iterations: 3
    symbols: binary
    save: true
`

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}

	if sc.Name != "tour" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario %+v", sc)
	}

	first := sc.Steps[0]
	if first.Name != "triangle" || first.Config.Rule != 90 {
		t.Errorf("first step = %s rule %d", first.Name, first.Config.Rule)
	}
	if first.Config.Width != 9 || first.Config.Iterations != 4 {
		t.Errorf("step fields not applied over preset: %+v", first.Config)
	}

	second := sc.Steps[1]
	if second.Name != "step2" || !second.Save {
		t.Errorf("second step = %+v", second)
	}
	if second.Config.Boundary != "fixed" || second.Config.PacingMs != config.DefaultPacingMs {
		t.Errorf("defaults lost: %+v", second.Config)
	}
}

func TestParseScenario_Errors(t *testing.T) {
	if _, err := ParseScenario([]byte("name: empty\n")); !errors.Is(err, ErrEmptyScenario) {
		t.Errorf("expected ErrEmptyScenario, got %v", err)
	}

	_, err := ParseScenario([]byte("steps:\n  - rule: 300\n"))
	if !errors.Is(err, rule.ErrInvalidRule) {
		t.Errorf("expected ErrInvalidRule, got %v", err)
	}

	_, err = ParseScenario([]byte("steps:\n  - width: 10\n  - width: -1\n"))
	if !errors.Is(err, automaton.ErrInvalidWidth) || !strings.Contains(err.Error(), "step 2") {
		t.Errorf("expected step 2 width error, got %v", err)
	}

	if _, err := ParseScenario([]byte("steps:\n  - preset: nope\n")); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestRunner_Run(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	st := storage.New(t.TempDir())
	r := &Runner{Out: &out, Store: st, Log: logr.Discard()}

	results, err := r.Run(context.Background(), sc)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	if results[0].RunID != "" {
		t.Error("unsaved step should have no run id")
	}
	if results[1].RunID == "" {
		t.Fatal("saved step should have a run id")
	}
	if results[1].Result.Outcome != sim.Completed || results[1].Result.Generations != 3 {
		t.Errorf("second result = %+v", results[1].Result)
	}

	want := "== step 2/2: step2, rule 254 (11111110)\n00100\n01110\n11111\n"
	if !strings.HasSuffix(out.String(), want) {
		t.Errorf("output tail mismatch:\n%s", out.String())
	}

	rows, err := st.LoadRows(results[1].RunID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Errorf("stored %d rows, want 3", len(rows))
	}
}
