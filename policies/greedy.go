package policies

import (
	"github.com/zeu5/taxi-mdp/core"
	"github.com/zeu5/taxi-mdp/mdp"
)

// GreedyPolicy follows a policy table. States missing from the table fall
// back to the default action and are counted.
type GreedyPolicy struct {
	table   *Table
	def     mdp.Action
	misses  int
	lookups int
}

var _ core.Policy = &GreedyPolicy{}

func NewGreedyPolicy(table *Table, def mdp.Action) *GreedyPolicy {
	return &GreedyPolicy{
		table: table,
		def:   def,
	}
}

func (g *GreedyPolicy) Misses() int {
	return g.misses
}

func (g *GreedyPolicy) Lookups() int {
	return g.lookups
}

func (g *GreedyPolicy) Reset() {
	g.misses = 0
	g.lookups = 0
}

func (g *GreedyPolicy) ResetEpisode(_ *core.EpisodeContext) {}

func (g *GreedyPolicy) UpdateEpisode(_ *core.EpisodeContext) {}

func (g *GreedyPolicy) PickAction(_ *core.StepContext, state mdp.State) mdp.Action {
	g.lookups++
	action, ok := g.table.Get(state, g.def)
	if !ok {
		g.misses++
	}
	return action
}

func (g *GreedyPolicy) UpdateStep(_ *core.StepContext, _ mdp.State, _ mdp.Action, _ float64, _ mdp.State) {}

type GreedyPolicyConstructor struct {
	table *Table
	def   mdp.Action
}

var _ core.PolicyConstructor = &GreedyPolicyConstructor{}

// The table is shared read-only between the policies it creates.
func NewGreedyPolicyConstructor(table *Table, def mdp.Action) *GreedyPolicyConstructor {
	return &GreedyPolicyConstructor{
		table: table,
		def:   def,
	}
}

func (g *GreedyPolicyConstructor) NewPolicy() core.Policy {
	return NewGreedyPolicy(g.table, g.def)
}
