package automaton

import "fmt"

// Buffer owns the current generation and a scratch row of the same width.
// It is not safe for concurrent use; a single stepper drives it.
type Buffer struct {
	cur      Row
	next     Row
	seed     Seed
	boundary Boundary
	gen      int
}

// NewBuffer allocates a buffer of the given width and writes generation 0.
func NewBuffer(width int, seed Seed, boundary Boundary) (*Buffer, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWidth, width)
	}
	if err := boundary.validate(); err != nil {
		return nil, err
	}
	if seed == nil {
		seed = CenterSeed{}
	}
	b := &Buffer{
		cur:      make(Row, width),
		next:     make(Row, width),
		seed:     seed,
		boundary: boundary,
	}
	if err := b.Reset(); err != nil {
		return nil, err
	}
	return b, nil
}

// Reset clears both rows and re-applies the seed.
func (b *Buffer) Reset() error {
	for i := range b.cur {
		b.cur[i] = Dead
		b.next[i] = Dead
	}
	b.gen = 0
	return b.seed.Fill(b.cur)
}

// Step computes the next generation from the current one and makes it
// current. Every neighbour read sees the pre-step row; the returned row is
// valid until the following Step.
func (b *Buffer) Step(rule Rule) Row {
	cur, next := b.cur, b.next
	for i := range cur {
		left := b.boundary.Neighbor(cur, i-1)
		right := b.boundary.Neighbor(cur, i+1)
		next[i] = rule.Lookup(left, cur[i], right)
	}
	b.cur, b.next = next, cur
	b.gen++
	return b.cur
}

// Current returns the current row without copying. Callers must not modify it.
func (b *Buffer) Current() Row { return b.cur }

// Snapshot returns a copy of the current row.
func (b *Buffer) Snapshot() Row { return b.cur.Clone() }

func (b *Buffer) Width() int         { return len(b.cur) }
func (b *Buffer) Generation() int    { return b.gen }
func (b *Buffer) Boundary() Boundary { return b.boundary }
func (b *Buffer) SeedStrategy() Seed { return b.seed }
