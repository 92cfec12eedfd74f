package policies

import (
	"github.com/zeu5/taxi-mdp/core"
	"github.com/zeu5/taxi-mdp/mdp"
	erand "golang.org/x/exp/rand"
)

// RandomPolicy picks one of the six actions uniformly.
type RandomPolicy struct {
	rand *erand.Rand
	seed uint64
}

var _ core.Policy = &RandomPolicy{}

func NewRandomPolicy(seed uint64) *RandomPolicy {
	return &RandomPolicy{
		rand: erand.New(erand.NewSource(seed)),
		seed: seed,
	}
}

func (r *RandomPolicy) Reset() {
	r.rand = erand.New(erand.NewSource(r.seed))
}

func (r *RandomPolicy) UpdateEpisode(_ *core.EpisodeContext) {}

func (r *RandomPolicy) PickAction(_ *core.StepContext, _ mdp.State) mdp.Action {
	return mdp.Actions[r.rand.Intn(len(mdp.Actions))]
}

func (r *RandomPolicy) UpdateStep(_ *core.StepContext, _ mdp.State, _ mdp.Action, _ float64, _ mdp.State) {}

func (r *RandomPolicy) ResetEpisode(_ *core.EpisodeContext) {}

type RandomPolicyConstructor struct {
	Seed uint64
}

func (r *RandomPolicyConstructor) NewPolicy() core.Policy {
	return NewRandomPolicy(r.Seed)
}
