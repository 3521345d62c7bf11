package metrics

import "github.com/san-kum/ecasim/internal/automaton"

// Density averages the fraction of alive cells and keeps the per-generation
// series for spectral analysis.
type Density struct {
	name   string
	series []float64
	sum    float64
}

func NewDensity() *Density {
	return &Density{
		name: "density",
	}
}

func (d *Density) Name() string {
	return d.name
}

func (d *Density) Observe(gen int, row automaton.Row) {
	v := row.Density()
	d.series = append(d.series, v)
	d.sum += v
}

func (d *Density) Value() float64 {
	if len(d.series) == 0 {
		return 0
	}
	return d.sum / float64(len(d.series))
}

// Series returns the observed densities in generation order.
func (d *Density) Series() []float64 {
	return d.series
}

func (d *Density) Reset() {
	d.series = d.series[:0]
	d.sum = 0
}
