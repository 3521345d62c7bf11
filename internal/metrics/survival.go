package metrics

import "github.com/san-kum/ecasim/internal/automaton"

// Survival is the fraction of generations with at least one alive cell.
type Survival struct {
	name    string
	alive   int
	samples int
}

func NewSurvival() *Survival {
	return &Survival{
		name: "survival",
	}
}

func (s *Survival) Name() string {
	return s.name
}

func (s *Survival) Observe(gen int, row automaton.Row) {
	s.samples++
	if row.Count() > 0 {
		s.alive++
	}
}

func (s *Survival) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return float64(s.alive) / float64(s.samples)
}

func (s *Survival) Reset() {
	s.alive = 0
	s.samples = 0
}
