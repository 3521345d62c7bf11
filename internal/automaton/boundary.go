package automaton

import (
	"fmt"
	"strings"
)

// BoundaryKind selects how neighbours beyond the row ends are read.
type BoundaryKind int

const (
	// Fixed reads out-of-range neighbours as a constant sentinel.
	Fixed BoundaryKind = iota
	// Toroidal wraps out-of-range neighbours to the opposite end.
	Toroidal
)

func (k BoundaryKind) String() string {
	switch k {
	case Fixed:
		return "fixed"
	case Toroidal:
		return "toroidal"
	default:
		return fmt.Sprintf("boundary(%d)", int(k))
	}
}

// ParseBoundaryKind accepts "fixed" and "toroidal" ("wrap" and "periodic" are
// aliases for toroidal).
func ParseBoundaryKind(s string) (BoundaryKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed", "":
		return Fixed, nil
	case "toroidal", "wrap", "periodic":
		return Toroidal, nil
	default:
		return Fixed, fmt.Errorf("%w: %q", ErrUnknownBoundary, s)
	}
}

// Boundary is the policy applied to every step of a simulation.
type Boundary struct {
	Kind     BoundaryKind
	Sentinel uint8
}

// FixedBoundary returns a fixed policy with the given sentinel.
func FixedBoundary(sentinel uint8) Boundary {
	return Boundary{Kind: Fixed, Sentinel: sentinel}
}

// ToroidalBoundary returns a wrap-around policy.
func ToroidalBoundary() Boundary {
	return Boundary{Kind: Toroidal}
}

func (b Boundary) validate() error {
	if b.Kind != Fixed && b.Kind != Toroidal {
		return fmt.Errorf("%w: %v", ErrUnknownBoundary, b.Kind)
	}
	if b.Kind == Fixed && b.Sentinel > Alive {
		return fmt.Errorf("%w: got %d", ErrInvalidSentinel, b.Sentinel)
	}
	return nil
}

// Neighbor returns the value seen at index i of row, which may lie one step
// outside [0, len(row)).
func (b Boundary) Neighbor(row Row, i int) uint8 {
	w := len(row)
	if i >= 0 && i < w {
		return row[i]
	}
	if b.Kind == Toroidal {
		return row[(i%w+w)%w]
	}
	return b.Sentinel
}

func (b Boundary) String() string {
	if b.Kind == Fixed {
		return fmt.Sprintf("fixed(%d)", b.Sentinel)
	}
	return b.Kind.String()
}
