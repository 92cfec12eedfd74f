package solver

import "github.com/zeu5/taxi-mdp/mdp"

// Result holds the value and policy tables of a solve, densely indexed by
// Space, together with convergence information.
type Result struct {
	Space   *mdp.StateSpace
	Values  []float64
	Actions []mdp.Action

	Converged bool
	// Number of sweeps executed
	Iterations int
	FinalDelta float64
	// max_delta of every sweep
	Deltas []float64
}

func (r *Result) Status() string {
	if r.Converged {
		return "converged"
	}
	return "exhausted"
}

func (r *Result) Value(s mdp.State) (float64, bool) {
	i, ok := r.Space.Index(s)
	if !ok {
		return 0, false
	}
	return r.Values[i], true
}

func (r *Result) Action(s mdp.State) (mdp.Action, bool) {
	i, ok := r.Space.Index(s)
	if !ok {
		return mdp.North, false
	}
	return r.Actions[i], true
}

// Policy copies the policy table into a map keyed by state.
func (r *Result) Policy() map[mdp.State]mdp.Action {
	out := make(map[mdp.State]mdp.Action, len(r.Actions))
	for i, s := range r.Space.States() {
		out[s] = r.Actions[i]
	}
	return out
}

// ValueMap copies the value table into a map keyed by state.
func (r *Result) ValueMap() map[mdp.State]float64 {
	out := make(map[mdp.State]float64, len(r.Values))
	for i, s := range r.Space.States() {
		out[s] = r.Values[i]
	}
	return out
}
