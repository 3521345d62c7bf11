package rule

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidRule indicates a rule number outside the 256 elementary rules.
var ErrInvalidRule = errors.New("rule: number must be in [0, 255]")

const (
	// Min and Max bound the elementary rule space.
	Min = 0
	Max = 255

	neighborhoods = 8
)

// Table is the decoded transition table of an elementary rule. Entry i is the
// next state of the centre cell for the neighbourhood left*4 + center*2 + right.
type Table struct {
	number  uint8
	entries [neighborhoods]uint8
}

// New decodes a Wolfram rule number into its lookup table.
func New(number int) (Table, error) {
	if number < Min || number > Max {
		return Table{}, fmt.Errorf("%w: got %d", ErrInvalidRule, number)
	}
	t := Table{number: uint8(number)}
	for i := 0; i < neighborhoods; i++ {
		t.entries[i] = uint8(number>>i) & 1
	}
	return t, nil
}

// MustNew is New for rule numbers known to be valid.
func MustNew(number int) Table {
	t, err := New(number)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the next state of center. Inputs other than 0 and 1 are
// reduced to their low bit.
func (t Table) Lookup(left, center, right uint8) uint8 {
	return t.entries[(left&1)<<2|(center&1)<<1|(right&1)]
}

func (t Table) Number() int { return int(t.number) }

// Bits returns the table in Wolfram order, neighbourhood 111 first.
func (t Table) Bits() string {
	return fmt.Sprintf("%08b", t.number)
}

func (t Table) String() string {
	return fmt.Sprintf("rule %d (%s)", t.number, t.Bits())
}

// Entry describes one row of the transition table.
type Entry struct {
	Left, Center, Right uint8
	Next                uint8
}

// Entries lists the transitions in Wolfram order.
func (t Table) Entries() []Entry {
	out := make([]Entry, 0, neighborhoods)
	for i := neighborhoods - 1; i >= 0; i-- {
		out = append(out, Entry{
			Left:   uint8(i>>2) & 1,
			Center: uint8(i>>1) & 1,
			Right:  uint8(i) & 1,
			Next:   t.entries[i],
		})
	}
	return out
}

// Mirror returns the rule obtained by swapping left and right neighbours.
func (t Table) Mirror() Table {
	var n int
	for i := 0; i < neighborhoods; i++ {
		l, c, r := i>>2&1, i>>1&1, i&1
		j := r<<2 | c<<1 | l
		n |= int(t.entries[j]) << i
	}
	return MustNew(n)
}

// Complement returns the rule obtained by exchanging the roles of 0 and 1.
func (t Table) Complement() Table {
	var n int
	for i := 0; i < neighborhoods; i++ {
		j := ^i & (neighborhoods - 1)
		n |= int(1^t.entries[j]) << i
	}
	return MustNew(n)
}

// Equivalents returns the sorted, distinct rule numbers reachable through
// mirroring and complementing, including the rule itself.
func (t Table) Equivalents() []int {
	seen := map[int]bool{
		t.Number():                       true,
		t.Mirror().Number():              true,
		t.Complement().Number():          true,
		t.Mirror().Complement().Number(): true,
	}
	out := make([]int, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
