package sim

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"github.com/san-kum/ecasim/internal/automaton"
)

// Simulator drives a single buffer. It is the buffer's only writer.
type Simulator struct {
	rule      automaton.Rule
	buf       *automaton.Buffer
	metrics   []Metric
	observers []Observer
	log       logr.Logger
}

func New(rule automaton.Rule, buf *automaton.Buffer) *Simulator {
	return &Simulator{
		rule:      rule,
		buf:       buf,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       logr.Discard(),
	}
}

func (s *Simulator) AddMetric(m Metric)      { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)  { s.observers = append(s.observers, o) }
func (s *Simulator) SetLogger(l logr.Logger) { s.log = l }

func (s *Simulator) Buffer() *automaton.Buffer { return s.buf }

// RunBatch renders the current row and steps, iterations times, without
// yielding. The seed row counts as the first generation. Non-positive
// iterations render nothing.
func (s *Simulator) RunBatch(iterations int, r Renderer) (*Result, error) {
	result := s.begin(iterations, true)

	for g := 0; g < iterations; g++ {
		if err := s.emit(result, r); err != nil {
			return result, err
		}
		s.buf.Step(s.rule)
	}

	return s.finish(result), nil
}

// RunLive renders, steps, then waits pacing before the next generation.
// Cancelling ctx is observed only while waiting, so the buffer always holds a
// complete generation when the run stops. Cancellation is reported through
// Result.Outcome, not as an error.
func (s *Simulator) RunLive(ctx context.Context, iterations int, r Renderer, pacing time.Duration) (*Result, error) {
	result := s.begin(iterations, false)

	for g := 0; g < iterations; g++ {
		if err := s.emit(result, r); err != nil {
			return result, err
		}
		s.buf.Step(s.rule)

		if g == iterations-1 {
			break
		}
		if !suspend(ctx, pacing) {
			result.Outcome = Cancelled
			s.log.V(1).Info("live run cancelled", "generation", s.buf.Generation(), "rendered", result.Generations)
			return s.finish(result), nil
		}
	}

	return s.finish(result), nil
}

func (s *Simulator) begin(iterations int, record bool) *Result {
	result := &Result{
		Outcome: Completed,
		Metrics: make(map[string]float64),
	}
	if record && iterations > 0 {
		result.Rows = make([]automaton.Row, 0, iterations)
	}
	for _, m := range s.metrics {
		m.Reset()
	}
	s.log.V(1).Info("run started", "iterations", iterations, "width", s.buf.Width(), "boundary", s.buf.Boundary().String())
	return result
}

func (s *Simulator) emit(result *Result, r Renderer) error {
	gen := s.buf.Generation()
	row := s.buf.Current()

	for _, m := range s.metrics {
		m.Observe(gen, row)
	}
	for _, obs := range s.observers {
		obs.OnGeneration(gen, row)
	}

	if r != nil {
		if err := r.Render(row); err != nil {
			return err
		}
	}
	if result.Rows != nil {
		result.Rows = append(result.Rows, row.Clone())
	}
	result.Generations++
	return nil
}

func (s *Simulator) finish(result *Result) *Result {
	result.Final = s.buf.Snapshot()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	s.log.V(1).Info("run finished", "outcome", result.Outcome.String(), "generations", result.Generations)
	return result
}

// suspend waits for d and reports false if ctx ends first.
func suspend(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
