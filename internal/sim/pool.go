package sim

import (
	"sync"

	"github.com/san-kum/ecasim/internal/automaton"
)

// RowPool recycles fixed-width rows for consumers that copy generations out
// of a running simulator.
type RowPool struct {
	pool sync.Pool
	size int
}

func NewRowPool(width int) *RowPool {
	return &RowPool{
		size: width,
		pool: sync.Pool{
			New: func() interface{} {
				return make(automaton.Row, width)
			},
		},
	}
}

func (p *RowPool) Get() automaton.Row {
	return p.pool.Get().(automaton.Row)
}

// Put returns a row to the pool. Rows of the wrong width are dropped.
func (p *RowPool) Put(r automaton.Row) {
	if len(r) == p.size {
		for i := range r {
			r[i] = automaton.Dead
		}
		p.pool.Put(r)
	}
}

func (p *RowPool) GetAndCopy(src automaton.Row) automaton.Row {
	dst := p.Get()
	copy(dst, src)
	return dst
}
