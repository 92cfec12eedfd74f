package policies_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeu5/taxi-mdp/mdp"
	"github.com/zeu5/taxi-mdp/policies"
	"github.com/zeu5/taxi-mdp/solver"
)

func TestGreedyPolicy(t *testing.T) {
	known := mdp.NewState(pos(0, 0), mdp.None)
	table := policies.NewTable(map[mdp.State]mdp.Action{known: mdp.East}, 2)
	g := policies.NewGreedyPolicyConstructor(table, mdp.West).NewPolicy().(*policies.GreedyPolicy)

	require.Equal(t, mdp.East, g.PickAction(nil, known))
	require.Equal(t, mdp.West, g.PickAction(nil, mdp.NewState(pos(1, 1), mdp.None)))
	require.Equal(t, 2, g.Lookups())
	require.Equal(t, 1, g.Misses())

	g.Reset()
	require.Equal(t, 0, g.Misses())
}

func TestRandomPolicy_Seeded(t *testing.T) {
	s := mdp.NewState(pos(0, 0), mdp.None)
	a := policies.NewRandomPolicy(7)
	b := policies.NewRandomPolicy(7)
	first := make([]mdp.Action, 0, 50)
	for i := 0; i < 50; i++ {
		x := a.PickAction(nil, s)
		require.True(t, x.Valid())
		require.Equal(t, x, b.PickAction(nil, s))
		first = append(first, x)
	}

	a.Reset()
	for i := 0; i < 50; i++ {
		require.Equal(t, first[i], a.PickAction(nil, s))
	}
}

// TestSoftMaxPolicy_ColdIsGreedy: at a tiny temperature all probability mass
// sits on the solver's action.
func TestSoftMaxPolicy_ColdIsGreedy(t *testing.T) {
	cfg := solver.DefaultConfig()
	cfg.GridSize = 2
	sv, err := solver.NewSolver(cfg)
	require.NoError(t, err)
	r := sv.Solve()

	p := policies.NewSoftMaxPolicy(r, sv.Backup(), 1e-3, 1)
	s := mdp.NewState(pos(1, 1), mdp.NewInTaxi(pos(1, 1)))
	weights := p.Weights(s)
	require.Len(t, weights, len(mdp.Actions))
	require.InDelta(t, 1.0, weights[mdp.Drop], 1e-9)
	for i := 0; i < 20; i++ {
		require.Equal(t, mdp.Drop, p.PickAction(nil, s))
	}

	// states from another grid fall back to North
	require.Equal(t, mdp.North, p.PickAction(nil, mdp.NewState(pos(4, 4), mdp.None)))
}

func TestSoftMaxPolicy_HotIsUniform(t *testing.T) {
	cfg := solver.DefaultConfig()
	cfg.GridSize = 2
	sv, err := solver.NewSolver(cfg)
	require.NoError(t, err)
	r := sv.Solve()

	p := policies.NewSoftMaxPolicy(r, sv.Backup(), 1e9, 1)
	sum := 0.0
	for _, w := range p.Weights(mdp.NewState(pos(0, 0), mdp.None)) {
		require.InDelta(t, 1.0/6.0, w, 1e-6)
		sum += w
	}
	require.InDelta(t, 1.0, sum, 1e-12)
}

func TestQLearningPolicy_Update(t *testing.T) {
	q := policies.NewQLearningPolicyConstructor(0.5, 0.9, 0, 1).NewPolicy().(*policies.QLearningPolicy)
	s := mdp.NewState(pos(1, 1), mdp.NewInTaxi(pos(1, 1)))
	next, reward := mdp.Apply(s, mdp.Drop, 2)

	// unseen states are greedy on the first action
	require.Equal(t, mdp.North, q.PickAction(nil, s))

	q.UpdateStep(nil, s, mdp.Drop, reward, next)
	require.Equal(t, 5.0, q.Q(s, mdp.Drop))
	q.UpdateStep(nil, s, mdp.Drop, reward, next)
	require.Equal(t, 7.5, q.Q(s, mdp.Drop))
	require.Equal(t, mdp.Drop, q.PickAction(nil, s))

	q.UpdateStep(nil, next, mdp.North, -1, s)
	// -1 + 0.9 * 7.5 halfway from 0
	require.InDelta(t, 2.875, q.Q(next, mdp.North), 1e-12)

	table := q.Table(2)
	require.Equal(t, 2, table.Len())
	a, ok := table.Get(s, mdp.North)
	require.True(t, ok)
	require.Equal(t, mdp.Drop, a)

	q.Reset()
	require.Equal(t, 0.0, q.Q(s, mdp.Drop))
}
