package solver

import (
	"sync"

	"github.com/zeu5/taxi-mdp/mdp"
)

// sweepWork is a contiguous range of state indices to back up
type sweepWork struct {
	lo, hi   int
	values   []float64
	next     []float64
	actions  []mdp.Action
	arrivals []float64
	wg       *sync.WaitGroup
}

// sweepWorker backs up the ranges it receives until the channel closes
type sweepWorker struct {
	id     int
	solver *Solver
}

func (w *sweepWorker) run(workCh <-chan *sweepWork) {
	for work := range workCh {
		w.solver.sweepRange(work.lo, work.hi, work.values, work.next, work.actions, work.arrivals)
		work.wg.Done()
	}
}

// sweepPool keeps its workers alive for the whole solve
type sweepPool struct {
	workCh  chan *sweepWork
	workers []*sweepWorker
	chunk   int
	size    int
}

func newSweepPool(s *Solver, parallelism int) *sweepPool {
	size := s.space.Len()
	// a few chunks per worker to even out the load
	chunk := size / (parallelism * 4)
	if chunk < 1 {
		chunk = 1
	}
	p := &sweepPool{
		workCh:  make(chan *sweepWork, parallelism),
		workers: make([]*sweepWorker, parallelism),
		chunk:   chunk,
		size:    size,
	}
	for i := 0; i < parallelism; i++ {
		p.workers[i] = &sweepWorker{id: i, solver: s}
		go p.workers[i].run(p.workCh)
	}
	return p
}

// sweep returns once every state has been written to next.
func (p *sweepPool) sweep(values, next []float64, actions []mdp.Action, arrivals []float64) {
	wg := new(sync.WaitGroup)
	for lo := 0; lo < p.size; lo += p.chunk {
		hi := lo + p.chunk
		if hi > p.size {
			hi = p.size
		}
		wg.Add(1)
		p.workCh <- &sweepWork{
			lo:       lo,
			hi:       hi,
			values:   values,
			next:     next,
			actions:  actions,
			arrivals: arrivals,
			wg:       wg,
		}
	}
	wg.Wait()
}

func (p *sweepPool) stop() {
	close(p.workCh)
}
