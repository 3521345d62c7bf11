package sim

import (
	"context"
	"time"
)

// Handle is a live run executing in its own goroutine.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	result *Result
	err    error
}

// Go starts RunLive in the background. The caller must not touch the
// simulator's buffer until Wait returns.
func (s *Simulator) Go(ctx context.Context, iterations int, r Renderer, pacing time.Duration) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(h.done)
		defer cancel()
		h.result, h.err = s.RunLive(ctx, iterations, r, pacing)
	}()

	return h
}

// Cancel asks the run to stop at its next pacing suspension.
func (h *Handle) Cancel() { h.cancel() }

func (h *Handle) Done() <-chan struct{} { return h.done }

func (h *Handle) Wait() (*Result, error) {
	<-h.done
	return h.result, h.err
}
