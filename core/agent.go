package core

import "github.com/zeu5/taxi-mdp/mdp"

// Policy drives the taxi during a rollout.
type Policy interface {
	ResetEpisode(*EpisodeContext)
	UpdateEpisode(*EpisodeContext)
	PickAction(*StepContext, mdp.State) mdp.Action
	UpdateStep(*StepContext, mdp.State, mdp.Action, float64, mdp.State)
	Reset()
}

type PolicyConstructor interface {
	// NewPolicy creates a fresh policy for one worker.
	NewPolicy() Policy
}
