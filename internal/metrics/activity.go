package metrics

import "github.com/san-kum/ecasim/internal/automaton"

// Activity is the mean fraction of cells that changed state between
// consecutive generations.
type Activity struct {
	name        string
	prev        automaton.Row
	sum         float64
	transitions int
}

func NewActivity() *Activity {
	return &Activity{
		name: "activity",
	}
}

func (a *Activity) Name() string {
	return a.name
}

func (a *Activity) Observe(gen int, row automaton.Row) {
	if a.prev != nil && len(row) > 0 {
		a.sum += float64(row.Hamming(a.prev)) / float64(len(row))
		a.transitions++
	}
	if len(a.prev) != len(row) {
		a.prev = make(automaton.Row, len(row))
	}
	copy(a.prev, row)
}

func (a *Activity) Value() float64 {
	if a.transitions == 0 {
		return 0
	}
	return a.sum / float64(a.transitions)
}

func (a *Activity) Reset() {
	a.prev = nil
	a.sum = 0
	a.transitions = 0
}
