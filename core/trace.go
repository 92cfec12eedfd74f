package core

import (
	"sync"

	"github.com/zeu5/taxi-mdp/mdp"
)

type Step struct {
	State     mdp.State
	Action    mdp.Action
	Reward    float64
	NextState mdp.State
}

type Trace struct {
	mtx   *sync.Mutex
	steps []*Step
	err   error
}

func NewTrace() *Trace {
	return &Trace{
		steps: make([]*Step, 0),
		mtx:   &sync.Mutex{},
	}
}

func (t *Trace) AddStep(s *Step) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.steps = append(t.steps, s)
}

func (t *Trace) Step(i int) *Step {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.steps[i]
}

func (t *Trace) Len() int {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return len(t.steps)
}

func (t *Trace) Last() *Step {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.steps[len(t.steps)-1]
}

func (t *Trace) SetError(err error) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.err = err
}

func (t *Trace) Error() error {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.err
}

// TotalReward sums the undiscounted rewards of the trace.
func (t *Trace) TotalReward() float64 {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	total := 0.0
	for _, s := range t.steps {
		total += s.Reward
	}
	return total
}
