package taxi

import (
	"errors"
	"fmt"

	"github.com/zeu5/taxi-mdp/core"
	"github.com/zeu5/taxi-mdp/mdp"
	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

var ErrInvalidAction = errors.New("taxi: invalid action")

// config of the taxi environment
type EnvironmentConfig struct {
	GridSize           int
	ArrivalProbability float64
	Seed               uint64
}

// Environment plays the taxi world forward. Unlike mdp.Apply it resolves
// passenger arrivals: whenever the taxi ends a step empty, a passenger with a
// uniformly drawn origin and distinct destination appears with probability p.
type Environment struct {
	config   EnvironmentConfig
	instance int

	pairs    []mdp.Passenger
	weights  []float64
	src      erand.Source
	rand     *erand.Rand
	curState mdp.State

	arrivals int
}

var _ core.Environment = &Environment{}

func NewEnvironment(config EnvironmentConfig, instance int) *Environment {
	cells := mdp.Cells(config.GridSize)
	pairs := make([]mdp.Passenger, 0, len(cells)*len(cells))
	for _, o := range cells {
		for _, d := range cells {
			if o != d {
				pairs = append(pairs, mdp.NewWaiting(o, d))
			}
		}
	}
	weights := make([]float64, len(pairs))
	for i := range weights {
		weights[i] = 1
	}
	src := erand.NewSource(config.Seed + uint64(instance))
	return &Environment{
		config:   config,
		instance: instance,
		pairs:    pairs,
		weights:  weights,
		src:      src,
		rand:     erand.New(src),
	}
}

// State is the state reached by the last Reset or Step.
func (e *Environment) State() mdp.State {
	return e.curState
}

// Arrivals counts passengers that appeared during steps since the last Reset.
func (e *Environment) Arrivals() int {
	return e.arrivals
}

// Reset places the taxi at (0, 0) with a freshly drawn waiting passenger.
func (e *Environment) Reset() (mdp.State, error) {
	if e.config.GridSize < 1 {
		return mdp.State{}, fmt.Errorf("taxi: grid size %d", e.config.GridSize)
	}
	e.arrivals = 0
	e.curState = mdp.NewState(mdp.Position{}, e.samplePassenger())
	return e.curState, nil
}

func (e *Environment) Step(action mdp.Action, _ *core.StepContext) (mdp.State, float64, error) {
	if !action.Valid() {
		return e.curState, 0, fmt.Errorf("%w: %s", ErrInvalidAction, action)
	}
	next, reward := mdp.Apply(e.curState, action, e.config.GridSize)
	if next.Passenger.Kind == mdp.NoPassenger && e.rand.Float64() < e.config.ArrivalProbability {
		if p := e.samplePassenger(); p.Kind == mdp.Waiting {
			next.Passenger = p
			e.arrivals++
		}
	}
	e.curState = next
	return next, reward, nil
}

// samplePassenger returns mdp.None on a 1×1 grid where no pair exists.
func (e *Environment) samplePassenger() mdp.Passenger {
	if len(e.pairs) == 0 {
		return mdp.None
	}
	i, ok := sampleuv.NewWeighted(e.weights, e.src).Take()
	if !ok {
		return mdp.None
	}
	return e.pairs[i]
}

// Used in parallel experiments. Implements core.EnvironmentConstructor
type EnvironmentConstructor struct {
	config EnvironmentConfig
}

var _ core.EnvironmentConstructor = &EnvironmentConstructor{}

func NewEnvironmentConstructor(config EnvironmentConfig) *EnvironmentConstructor {
	return &EnvironmentConstructor{
		config: config,
	}
}

func (c *EnvironmentConstructor) NewEnvironment(instance int) core.Environment {
	return NewEnvironment(c.config, instance)
}
