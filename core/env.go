package core

import (
	"context"

	"github.com/zeu5/taxi-mdp/mdp"
)

// Environment simulates the taxi world, including anything stochastic the
// transition model leaves out.
type Environment interface {
	Reset() (mdp.State, error)
	Step(mdp.Action, *StepContext) (mdp.State, float64, error)
}

type EpisodeContext struct {
	Context       context.Context
	Episode       int
	Horizon       int
	Run           int
	Experiment    string
	StartTimeStep int

	Trace *Trace

	err error
}

func NewEpisodeContext(ctx context.Context) *EpisodeContext {
	return &EpisodeContext{
		Context: ctx,
		Trace:   NewTrace(),
	}
}

func (e *EpisodeContext) Error(err error) {
	e.err = err
	e.Trace.SetError(err)
}

func (e *EpisodeContext) Err() error {
	return e.err
}

func (e *EpisodeContext) IsError() bool {
	return e.err != nil
}

type StepContext struct {
	Step int
	*EpisodeContext
}

type EnvironmentConstructor interface {
	// NewEnvironment creates a new environment with the given instance number.
	NewEnvironment(int) Environment
}
