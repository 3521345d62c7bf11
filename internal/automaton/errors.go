package automaton

import (
	"errors"
	"fmt"
)

// Domain errors for automaton construction.
var (
	// ErrInvalidWidth indicates a row width that is not positive.
	ErrInvalidWidth = errors.New("automaton: width must be positive")

	// ErrInvalidSentinel indicates a fixed boundary value other than 0 or 1.
	ErrInvalidSentinel = errors.New("automaton: sentinel must be 0 or 1")

	// ErrInvalidPattern indicates a seed pattern that is malformed or wider than the row.
	ErrInvalidPattern = errors.New("automaton: invalid seed pattern")

	// ErrInvalidDensity indicates a random seed density outside [0, 1].
	ErrInvalidDensity = errors.New("automaton: density must be in [0, 1]")

	// ErrUnknownBoundary indicates an unrecognised boundary policy name.
	ErrUnknownBoundary = errors.New("automaton: unknown boundary policy")
)

// SeedError wraps a seeding failure with the strategy that produced it.
type SeedError struct {
	Strategy string
	Width    int
	Wrapped  error
}

func (e *SeedError) Error() string {
	return fmt.Sprintf("seed %s (width %d): %v", e.Strategy, e.Width, e.Wrapped)
}

func (e *SeedError) Unwrap() error {
	return e.Wrapped
}
