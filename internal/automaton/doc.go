// Package automaton holds the state of a one-dimensional binary automaton.
//
//   - [Row]: one generation of cells (0 or 1)
//   - [Boundary]: how neighbours past the row ends are read (fixed sentinel or toroidal)
//   - [Seed]: strategies producing generation 0
//   - [Buffer]: double-buffered generation store advanced by [Buffer.Step]
//
// # Simultaneous Update
//
// Step computes the whole next row from the current one into a scratch row
// and only then swaps the two, so no cell ever sees a neighbour that was
// already updated in the same generation.
//
//	buf, _ := automaton.NewBuffer(79, automaton.CenterSeed{}, automaton.FixedBoundary(0))
//	next := buf.Step(rule.MustNew(30))
//
// # Thread Safety
//
// A Buffer has exactly one writer, the simulator that drives it. Rows
// returned by Current and Step are views into the buffer; use Snapshot to
// keep one beyond the next Step.
package automaton
