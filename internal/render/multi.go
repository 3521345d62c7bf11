package render

import (
	"github.com/san-kum/ecasim/internal/automaton"
	"github.com/san-kum/ecasim/internal/sim"
)

type multi []sim.Renderer

// Multi renders every row to each renderer in order, stopping at the first
// error.
func Multi(rs ...sim.Renderer) sim.Renderer {
	return multi(rs)
}

func (m multi) Render(row automaton.Row) error {
	for _, r := range m {
		if err := r.Render(row); err != nil {
			return err
		}
	}
	return nil
}
