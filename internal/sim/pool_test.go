package sim

import (
	"context"
	"testing"

	"github.com/san-kum/ecasim/internal/automaton"
)

func TestRowPool(t *testing.T) {
	pool := NewRowPool(4)

	r1 := pool.Get()
	if len(r1) != 4 {
		t.Errorf("Pool returned wrong size: %d", len(r1))
	}

	r1[0] = automaton.Alive
	r1[1] = automaton.Alive
	pool.Put(r1)

	r2 := pool.Get()
	if r2[0] != 0 || r2[1] != 0 {
		t.Error("Pool did not reset row")
	}
}

func TestRowPool_GetAndCopy(t *testing.T) {
	pool := NewRowPool(3)
	src := automaton.Row{1, 0, 1}

	dst := pool.GetAndCopy(src)
	if dst.String() != "101" {
		t.Errorf("GetAndCopy failed: got %v", dst)
	}

	dst[0] = 0
	if src[0] != 1 {
		t.Error("GetAndCopy did not create independent copy")
	}
}

func TestSuspend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	if !suspend(ctx, 0) {
		t.Error("zero pacing should not suspend a live context")
	}
	cancel()
	if suspend(ctx, 0) {
		t.Error("cancelled context should stop at a zero-length suspension")
	}
}
