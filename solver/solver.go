package solver

import (
	"math"
	"runtime"

	"github.com/zeu5/taxi-mdp/mdp"
	"gonum.org/v1/gonum/floats"
)

// Progress is reported to the observer after every sweep.
type Progress struct {
	Sweep    int
	MaxDelta float64
}

type Option func(*Solver)

// WithObserver registers a callback invoked after each sweep.
func WithObserver(observer func(Progress)) Option {
	return func(s *Solver) {
		s.observer = observer
	}
}

// WithParallelism overrides Config.Parallelism.
func WithParallelism(workers int) Option {
	return func(s *Solver) {
		if workers >= 0 {
			s.config.Parallelism = workers
		}
	}
}

// Solver runs synchronous value iteration over the taxi state space.
type Solver struct {
	config   Config
	space    *mdp.StateSpace
	backup   *Backup
	observer func(Progress)
}

func NewSolver(config Config, opts ...Option) (*Solver, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	space := mdp.NewStateSpace(config.GridSize)
	s := &Solver{
		config: config,
		space:  space,
		backup: NewBackup(space, config.DiscountFactor, config.ArrivalProbability),
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

func (s *Solver) Config() Config {
	return s.config
}

func (s *Solver) Space() *mdp.StateSpace {
	return s.space
}

func (s *Solver) Backup() *Backup {
	return s.backup
}

func (s *Solver) workers() int {
	if s.config.Parallelism == 0 {
		return runtime.GOMAXPROCS(0)
	}
	return s.config.Parallelism
}

// Solve runs sweeps until the largest value change drops below the
// convergence threshold or the iteration budget is spent. Both outcomes are
// reported through the result.
func (s *Solver) Solve() *Result {
	n := s.space.Len()
	values := make([]float64, n)
	next := make([]float64, n)
	actions := make([]mdp.Action, n)

	var pool *sweepPool
	if workers := s.workers(); workers > 1 {
		pool = newSweepPool(s, workers)
		defer pool.stop()
	}

	result := &Result{
		Space:  s.space,
		Deltas: make([]float64, 0),
	}
	for sweep := 1; ; sweep++ {
		// the previous table stays frozen for the whole sweep
		arrivals := s.backup.ArrivalValues(values)
		if pool != nil {
			pool.sweep(values, next, actions, arrivals)
		} else {
			s.sweepRange(0, n, values, next, actions, arrivals)
		}

		delta := floats.Distance(next, values, math.Inf(1))
		result.Deltas = append(result.Deltas, delta)
		if s.observer != nil {
			s.observer(Progress{Sweep: sweep, MaxDelta: delta})
		}

		converged := delta < s.config.ConvergenceThreshold
		if converged || sweep >= s.config.MaxIterations {
			result.Converged = converged
			result.Iterations = sweep
			result.FinalDelta = delta
			result.Values = next
			result.Actions = actions
			return result
		}
		values, next = next, values
	}
}

// sweepRange backs up states [lo, hi). It writes only those slots.
func (s *Solver) sweepRange(lo, hi int, values, next []float64, actions []mdp.Action, arrivals []float64) {
	states := s.space.States()
	for i := lo; i < hi; i++ {
		next[i], actions[i] = s.backup.evaluate(states[i], values, arrivals)
	}
}
