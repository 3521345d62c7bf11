package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Factory builds an independent simulator for one rule number.
type Factory func(rule int) (*Simulator, error)

type SweepResult struct {
	Rule   int
	Result *Result
}

// Sweep runs one batch simulation per rule, at most workers at a time
// (unbounded when workers <= 0). Every simulator owns its own buffer.
// Results are returned in the order of rules.
func Sweep(ctx context.Context, rules []int, factory Factory, iterations, workers int) ([]SweepResult, error) {
	results := make([]SweepResult, len(rules))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, n := range rules {
		i, n := i, n
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := factory(n)
			if err != nil {
				return fmt.Errorf("rule %d: %w", n, err)
			}
			res, err := s.RunBatch(iterations, nil)
			if err != nil {
				return fmt.Errorf("rule %d: %w", n, err)
			}
			results[i] = SweepResult{Rule: n, Result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
