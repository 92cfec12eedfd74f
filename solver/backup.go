package solver

import (
	"math"

	"github.com/zeu5/taxi-mdp/mdp"
)

// Backup applies the Bellman optimality equation to single states against a
// dense value table indexed by the state space.
type Backup struct {
	space       *mdp.StateSpace
	gamma       float64
	arrivalProb float64
}

func NewBackup(space *mdp.StateSpace, gamma, arrivalProb float64) *Backup {
	return &Backup{
		space:       space,
		gamma:       gamma,
		arrivalProb: arrivalProb,
	}
}

func (b *Backup) value(s mdp.State, values []float64) float64 {
	i, _ := b.space.Index(s)
	return values[i]
}

// ArrivalValue is the expected value at taxi position pos right after a new
// passenger shows up: the mean over all ordered origin/destination pairs with
// origin != destination. It is NaN when the grid has a single cell.
func (b *Backup) ArrivalValue(pos mdp.Position, values []float64) float64 {
	cells := b.space.Cells()
	pairs := len(cells) * (len(cells) - 1)
	if pairs == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, origin := range cells {
		for _, dest := range cells {
			if origin == dest {
				continue
			}
			sum += b.value(mdp.State{Taxi: pos, Passenger: mdp.NewWaiting(origin, dest)}, values)
		}
	}
	return sum / float64(pairs)
}

// ArrivalValues computes ArrivalValue for every cell, indexed like
// StateSpace.Cells.
func (b *Backup) ArrivalValues(values []float64) []float64 {
	cells := b.space.Cells()
	out := make([]float64, len(cells))
	for i, c := range cells {
		out[i] = b.ArrivalValue(c, values)
	}
	return out
}

// QValue is the expected return of taking action in state and acting
// according to values afterwards.
func (b *Backup) QValue(state mdp.State, action mdp.Action, values []float64) float64 {
	return b.qValue(state, action, values, nil)
}

// Evaluate returns the best action for the state and its Q-value. Ties go to
// the action that comes first in mdp.Actions.
func (b *Backup) Evaluate(state mdp.State, values []float64) (float64, mdp.Action) {
	return b.evaluate(state, values, nil)
}

func (b *Backup) evaluate(state mdp.State, values, arrivals []float64) (float64, mdp.Action) {
	best := math.Inf(-1)
	bestAction := mdp.North
	for _, a := range mdp.Actions {
		q := b.qValue(state, a, values, arrivals)
		if q > best {
			best = q
			bestAction = a
		}
	}
	return best, bestAction
}

// arrivals, when non-nil, holds precomputed ArrivalValues for the same table.
func (b *Backup) qValue(state mdp.State, action mdp.Action, values, arrivals []float64) float64 {
	next, reward := mdp.Apply(state, action, b.space.GridSize())
	stay := b.value(next, values)
	if next.Passenger.Kind != mdp.NoPassenger {
		return reward + b.gamma*stay
	}

	var arrival float64
	if arrivals != nil {
		arrival = arrivals[b.space.Cell(next.Taxi)]
	} else {
		arrival = b.ArrivalValue(next.Taxi, values)
	}
	if math.IsNaN(arrival) {
		// nobody can arrive on a single cell grid
		arrival = stay
	}
	// Both branches share the reward of the action just taken, so
	// (1-p)(r + γV) + p(r + γA) = r + γ((1-p)V + pA).
	p := b.arrivalProb
	return reward + b.gamma*((1-p)*stay+p*arrival)
}
