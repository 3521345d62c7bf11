package analysis

import "github.com/san-kum/ecasim/internal/automaton"

// Cycle describes the first repetition found in a run.
type Cycle struct {
	// Start is the first generation of the repeating segment.
	Start int
	// Period is the number of generations between repeats; 1 is a fixed point.
	Period int
}

// DetectCycle finds the first row in rows equal to an earlier one.
func DetectCycle(rows []automaton.Row) (Cycle, bool) {
	seen := make(map[string]int, len(rows))
	for gen, row := range rows {
		key := row.String()
		if first, ok := seen[key]; ok {
			return Cycle{Start: first, Period: gen - first}, true
		}
		seen[key] = gen
	}
	return Cycle{}, false
}
