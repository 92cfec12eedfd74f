package policies

import (
	"github.com/zeu5/taxi-mdp/core"
	"github.com/zeu5/taxi-mdp/mdp"
	erand "golang.org/x/exp/rand"
)

type qValues [6]float64

// QLearningPolicy is an epsilon-greedy tabular Q-learner. It learns from the
// rollout rewards alone and serves as a model-free baseline for the solved
// policy. The table survives across episodes and is cleared by Reset.
type QLearningPolicy struct {
	qTable   map[mdp.State]*qValues
	alpha    float64
	discount float64
	epsilon  float64

	seed uint64
	rand *erand.Rand
}

var _ core.Policy = &QLearningPolicy{}

func NewQLearningPolicy(alpha, discount, epsilon float64, seed uint64) *QLearningPolicy {
	return &QLearningPolicy{
		qTable:   make(map[mdp.State]*qValues),
		alpha:    alpha,
		discount: discount,
		epsilon:  epsilon,
		seed:     seed,
		rand:     erand.New(erand.NewSource(seed)),
	}
}

func (q *QLearningPolicy) Reset() {
	q.qTable = make(map[mdp.State]*qValues)
	q.rand = erand.New(erand.NewSource(q.seed))
}

func (q *QLearningPolicy) ResetEpisode(_ *core.EpisodeContext) {}

func (q *QLearningPolicy) UpdateEpisode(_ *core.EpisodeContext) {}

// Q returns the learned value of taking action in state, 0 when unseen.
func (q *QLearningPolicy) Q(state mdp.State, action mdp.Action) float64 {
	vals, ok := q.qTable[state]
	if !ok || !action.Valid() {
		return 0
	}
	return vals[action]
}

func (q *QLearningPolicy) best(state mdp.State) (mdp.Action, float64) {
	vals, ok := q.qTable[state]
	if !ok {
		return mdp.North, 0
	}
	bestAction := mdp.North
	bestVal := vals[mdp.North]
	for _, a := range mdp.Actions[1:] {
		if vals[a] > bestVal {
			bestAction = a
			bestVal = vals[a]
		}
	}
	return bestAction, bestVal
}

func (q *QLearningPolicy) PickAction(_ *core.StepContext, state mdp.State) mdp.Action {
	if q.rand.Float64() < q.epsilon {
		return mdp.Actions[q.rand.Intn(len(mdp.Actions))]
	}
	a, _ := q.best(state)
	return a
}

func (q *QLearningPolicy) UpdateStep(_ *core.StepContext, state mdp.State, action mdp.Action, reward float64, nextState mdp.State) {
	if !action.Valid() {
		return
	}
	vals, ok := q.qTable[state]
	if !ok {
		vals = new(qValues)
		q.qTable[state] = vals
	}
	_, nextVal := q.best(nextState)
	vals[action] = (1-q.alpha)*vals[action] + q.alpha*(reward+q.discount*nextVal)
}

// Table returns the greedy policy over every state seen so far.
func (q *QLearningPolicy) Table(gridSize int) *Table {
	t := NewTable(make(map[mdp.State]mdp.Action, len(q.qTable)), gridSize)
	for s := range q.qTable {
		a, _ := q.best(s)
		t.Set(s, a)
	}
	return t
}

type QLearningPolicyConstructor struct {
	alpha    float64
	discount float64
	epsilon  float64
	seed     uint64
}

var _ core.PolicyConstructor = &QLearningPolicyConstructor{}

func NewQLearningPolicyConstructor(alpha, discount, epsilon float64, seed uint64) *QLearningPolicyConstructor {
	return &QLearningPolicyConstructor{
		alpha:    alpha,
		discount: discount,
		epsilon:  epsilon,
		seed:     seed,
	}
}

func (c *QLearningPolicyConstructor) NewPolicy() core.Policy {
	return NewQLearningPolicy(c.alpha, c.discount, c.epsilon, c.seed)
}
