package automaton

import (
	"fmt"
	"math/rand"
)

// Seed writes generation 0 into a zeroed row.
type Seed interface {
	Name() string
	Fill(row Row) error
}

// CenterSeed activates the middle cell (index W/2). With Edges set, the first
// and last cells are forced active too.
type CenterSeed struct {
	Edges bool
}

func (s CenterSeed) Name() string {
	if s.Edges {
		return "edges"
	}
	return "center"
}

func (s CenterSeed) Fill(row Row) error {
	row[len(row)/2] = Alive
	if s.Edges {
		row[0] = Alive
		row[len(row)-1] = Alive
	}
	return nil
}

// PatternSeed places an explicit 0/1 pattern centred in the row.
type PatternSeed struct {
	Pattern string
}

func (s PatternSeed) Name() string { return "pattern" }

func (s PatternSeed) Fill(row Row) error {
	p, err := ParseRow(s.Pattern)
	if err != nil || len(p) == 0 {
		return &SeedError{Strategy: s.Name(), Width: len(row), Wrapped: fmt.Errorf("%w: %q", ErrInvalidPattern, s.Pattern)}
	}
	if len(p) > len(row) {
		return &SeedError{Strategy: s.Name(), Width: len(row), Wrapped: fmt.Errorf("%w: %d cells do not fit", ErrInvalidPattern, len(p))}
	}
	copy(row[(len(row)-len(p))/2:], p)
	return nil
}

// RandomSeed activates each cell independently with probability Density.
// The same Source value always produces the same row.
type RandomSeed struct {
	Density float64
	Source  int64
}

func (s RandomSeed) Name() string { return "random" }

func (s RandomSeed) Fill(row Row) error {
	if s.Density < 0 || s.Density > 1 {
		return &SeedError{Strategy: s.Name(), Width: len(row), Wrapped: fmt.Errorf("%w: got %g", ErrInvalidDensity, s.Density)}
	}
	rng := rand.New(rand.NewSource(s.Source))
	for i := range row {
		if rng.Float64() < s.Density {
			row[i] = Alive
		}
	}
	return nil
}
