package mdp

// Apply computes the deterministic successor of taking action in state on an
// n×n grid, together with the immediate reward. Passenger arrivals are not
// resolved here.
func Apply(state State, action Action, gridSize int) (State, float64) {
	taxi := state.Taxi
	switch action {
	case North:
		return move(state, Position{X: taxi.X, Y: taxi.Y + 1}, gridSize)
	case South:
		return move(state, Position{X: taxi.X, Y: taxi.Y - 1}, gridSize)
	case East:
		return move(state, Position{X: taxi.X + 1, Y: taxi.Y}, gridSize)
	case West:
		return move(state, Position{X: taxi.X - 1, Y: taxi.Y}, gridSize)
	case Pick:
		p := state.Passenger
		if p.Kind == Waiting && taxi == p.Origin {
			return State{Taxi: taxi, Passenger: NewInTaxi(p.Destination)}, PickupReward
		}
		return state, InvalidPenalty
	case Drop:
		p := state.Passenger
		if p.Kind == InTaxi && taxi == p.Destination {
			return State{Taxi: taxi, Passenger: None}, DeliveryReward
		}
		return state, InvalidPenalty
	}
	// unreachable for valid actions
	return state, InvalidPenalty
}

// move leaves the whole state untouched when the target cell is off-grid.
func move(state State, to Position, gridSize int) (State, float64) {
	if !WithinGrid(to, gridSize) {
		return state, StepCost
	}
	return State{Taxi: to, Passenger: state.Passenger}, StepCost
}
