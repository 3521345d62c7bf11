package sim

import (
	"fmt"

	"github.com/san-kum/ecasim/internal/automaton"
)

// Renderer displays one generation. It must not modify or retain row; the
// row is only valid for the duration of the call.
type Renderer interface {
	Render(row automaton.Row) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(row automaton.Row) error

func (f RendererFunc) Render(row automaton.Row) error { return f(row) }

type Metric interface {
	Name() string
	Observe(gen int, row automaton.Row)
	Value() float64
	Reset()
}

type Observer interface {
	OnGeneration(gen int, row automaton.Row)
}

// Outcome tells how a run ended.
type Outcome int

const (
	// Completed means every requested generation was rendered.
	Completed Outcome = iota
	// Cancelled means a live run stopped at a pacing suspension.
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

type Result struct {
	// Generations is the number of rows rendered, the seed row included.
	Generations int
	Outcome     Outcome
	// Rows holds every rendered row of a batch run. Live runs leave it nil.
	Rows    []automaton.Row
	Final   automaton.Row
	Metrics map[string]float64
}
