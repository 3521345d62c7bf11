package automaton

import "strings"

// Cell states.
const (
	Dead  uint8 = 0
	Alive uint8 = 1
)

// Rule maps a neighbourhood to the next state of its centre cell.
type Rule interface {
	Lookup(left, center, right uint8) uint8
}

// Row is one generation of cells.
type Row []uint8

func (r Row) Clone() Row {
	c := make(Row, len(r))
	copy(c, r)
	return c
}

// Count returns the number of alive cells.
func (r Row) Count() int {
	n := 0
	for _, c := range r {
		if c != Dead {
			n++
		}
	}
	return n
}

// Density returns the fraction of alive cells.
func (r Row) Density() float64 {
	if len(r) == 0 {
		return 0
	}
	return float64(r.Count()) / float64(len(r))
}

func (r Row) Equal(other Row) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i] != other[i] {
			return false
		}
	}
	return true
}

// Hamming returns the number of positions at which the rows differ.
func (r Row) Hamming(other Row) int {
	n := 0
	for i := range r {
		if i >= len(other) || r[i] != other[i] {
			n++
		}
	}
	if len(other) > len(r) {
		n += len(other) - len(r)
	}
	return n
}

func (r Row) String() string {
	var b strings.Builder
	b.Grow(len(r))
	for _, c := range r {
		if c != Dead {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// ParseRow reads a row written as 0/1 characters.
func ParseRow(s string) (Row, error) {
	row := make(Row, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
			row[i] = Dead
		case '1':
			row[i] = Alive
		default:
			return nil, ErrInvalidPattern
		}
	}
	return row, nil
}
