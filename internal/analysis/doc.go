// Package analysis provides tools for characterising automaton runs.
//
//   - [DetectCycle]: first repeated generation and its period
//   - [PowerSpectrum]: spectrum of a per-generation series (e.g. density)
//   - [DominantPeriod]: strongest oscillation period of a series
//
// # Cycle Detection
//
// Every finite row eventually repeats. Rule 90 on a small toroidal row
// reaches a short cycle quickly, while rule 30 can run for a long time:
//
//	res, _ := s.RunBatch(512, nil)
//	if c, ok := analysis.DetectCycle(res.Rows); ok {
//	    fmt.Printf("cycle of period %d from generation %d\n", c.Period, c.Start)
//	}
package analysis
