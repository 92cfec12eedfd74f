package policies

import (
	"math"

	"github.com/zeu5/taxi-mdp/core"
	"github.com/zeu5/taxi-mdp/mdp"
	"github.com/zeu5/taxi-mdp/solver"
	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// SoftMaxPolicy samples actions with probability proportional to
// exp(Q(s,a)/T), with Q computed from a solved value table.
// As T goes to zero it behaves like the greedy policy.
type SoftMaxPolicy struct {
	result      *solver.Result
	backup      *solver.Backup
	Temperature float64

	seed uint64
	rand erand.Source
}

var _ core.Policy = &SoftMaxPolicy{}

func NewSoftMaxPolicy(result *solver.Result, backup *solver.Backup, temperature float64, seed uint64) *SoftMaxPolicy {
	return &SoftMaxPolicy{
		result:      result,
		backup:      backup,
		Temperature: temperature,
		seed:        seed,
		rand:        erand.NewSource(seed),
	}
}

func (s *SoftMaxPolicy) Reset() {
	s.rand = erand.NewSource(s.seed)
}

func (s *SoftMaxPolicy) ResetEpisode(_ *core.EpisodeContext) {}

func (s *SoftMaxPolicy) UpdateEpisode(_ *core.EpisodeContext) {}

// Weights returns the action probabilities in mdp.Actions order.
func (s *SoftMaxPolicy) Weights(state mdp.State) []float64 {
	vals := make([]float64, len(mdp.Actions))
	largest := math.Inf(-1)
	for i, a := range mdp.Actions {
		vals[i] = s.backup.QValue(state, a, s.result.Values) / s.Temperature
		if vals[i] > largest {
			largest = vals[i]
		}
	}

	// Normalizing
	sum := 0.0
	for i := range vals {
		vals[i] = math.Exp(vals[i] - largest)
		sum += vals[i]
	}
	for i := range vals {
		vals[i] /= sum
	}
	return vals
}

func (s *SoftMaxPolicy) PickAction(_ *core.StepContext, state mdp.State) mdp.Action {
	if !s.result.Space.Contains(state) {
		return mdp.North
	}
	i, ok := sampleuv.NewWeighted(s.Weights(state), s.rand).Take()
	if !ok {
		return mdp.North
	}
	return mdp.Actions[i]
}

func (s *SoftMaxPolicy) UpdateStep(_ *core.StepContext, _ mdp.State, _ mdp.Action, _ float64, _ mdp.State) {}

type SoftMaxPolicyConstructor struct {
	result      *solver.Result
	backup      *solver.Backup
	temperature float64
	seed        uint64
}

var _ core.PolicyConstructor = &SoftMaxPolicyConstructor{}

func NewSoftMaxPolicyConstructor(result *solver.Result, backup *solver.Backup, temperature float64, seed uint64) *SoftMaxPolicyConstructor {
	return &SoftMaxPolicyConstructor{
		result:      result,
		backup:      backup,
		temperature: temperature,
		seed:        seed,
	}
}

func (s *SoftMaxPolicyConstructor) NewPolicy() core.Policy {
	return NewSoftMaxPolicy(s.result, s.backup, s.temperature, s.seed)
}
