package mdp

// NumStates is the size of the state universe of an n×n grid: n² empty
// states, n⁶ waiting states and n⁴ in-taxi states.
func NumStates(gridSize int) int {
	n2 := gridSize * gridSize
	return n2 * (1 + n2*n2 + n2)
}

// Cells lists the grid positions, x outer and y inner.
func Cells(gridSize int) []Position {
	cells := make([]Position, 0, gridSize*gridSize)
	for x := 0; x < gridSize; x++ {
		for y := 0; y < gridSize; y++ {
			cells = append(cells, Position{X: x, Y: y})
		}
	}
	return cells
}

// GenerateStates enumerates every state of an n×n grid. For each taxi
// position the empty state comes first, then for each passenger cell p the
// waiting states with origin p followed by the in-taxi state heading to p.
func GenerateStates(gridSize int) []State {
	cells := Cells(gridSize)
	states := make([]State, 0, NumStates(gridSize))
	for _, taxi := range cells {
		states = append(states, State{Taxi: taxi, Passenger: None})
		for _, p := range cells {
			for _, d := range cells {
				states = append(states, State{Taxi: taxi, Passenger: NewWaiting(p, d)})
			}
			states = append(states, State{Taxi: taxi, Passenger: NewInTaxi(p)})
		}
	}
	return states
}

// StateSpace is the fixed universe of states for one grid size together
// with a dense index, so that value and policy tables can be plain slices.
type StateSpace struct {
	gridSize int
	cells    []Position
	states   []State
}

func NewStateSpace(gridSize int) *StateSpace {
	return &StateSpace{
		gridSize: gridSize,
		cells:    Cells(gridSize),
		states:   GenerateStates(gridSize),
	}
}

func (s *StateSpace) GridSize() int {
	return s.gridSize
}

func (s *StateSpace) Len() int {
	return len(s.states)
}

// States returns the enumeration. Callers must not modify it.
func (s *StateSpace) States() []State {
	return s.states
}

func (s *StateSpace) State(i int) State {
	return s.states[i]
}

// Cells returns the grid positions in enumeration order.
func (s *StateSpace) Cells() []Position {
	return s.cells
}

// Cell maps a grid position to its index in Cells.
func (s *StateSpace) Cell(p Position) int {
	return p.X*s.gridSize + p.Y
}

// Index returns the position of the state in the enumeration. It is false
// for states outside the universe, including non-canonical passengers.
func (s *StateSpace) Index(state State) (int, bool) {
	if !state.Taxi.Within(s.gridSize) {
		return 0, false
	}
	n2 := s.gridSize * s.gridSize
	base := s.Cell(state.Taxi) * (1 + n2*(n2+1))

	p := state.Passenger
	switch p.Kind {
	case NoPassenger:
		if p != None {
			return 0, false
		}
		return base, true
	case Waiting:
		if !p.Origin.Within(s.gridSize) || !p.Destination.Within(s.gridSize) {
			return 0, false
		}
		return base + 1 + s.Cell(p.Origin)*(n2+1) + s.Cell(p.Destination), true
	case InTaxi:
		if p.Origin != (Position{}) || !p.Destination.Within(s.gridSize) {
			return 0, false
		}
		return base + 1 + s.Cell(p.Destination)*(n2+1) + n2, true
	}
	return 0, false
}

// Contains reports whether the state belongs to the universe.
func (s *StateSpace) Contains(state State) bool {
	_, ok := s.Index(state)
	return ok
}
