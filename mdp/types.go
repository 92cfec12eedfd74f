package mdp

import "fmt"

// Rewards
const (
	StepCost       = -1
	PickupReward   = 0
	DeliveryReward = 10
	InvalidPenalty = -5
)

type Position struct {
	X int
	Y int
}

// Within reports whether both coordinates lie in [0, gridSize).
func (p Position) Within(gridSize int) bool {
	return p.X >= 0 && p.X < gridSize && p.Y >= 0 && p.Y < gridSize
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// WithinGrid reports whether the position is inside an n×n grid.
func WithinGrid(p Position, gridSize int) bool {
	return p.Within(gridSize)
}

type PassengerKind int

const (
	NoPassenger PassengerKind = iota
	Waiting
	InTaxi
)

func (k PassengerKind) String() string {
	switch k {
	case NoPassenger:
		return "none"
	case Waiting:
		return "waiting"
	case InTaxi:
		return "in_taxi"
	}
	return "unknown"
}

// Passenger is the tagged passenger status. Fields that the kind does not
// carry are always zero so that equal statuses compare equal.
type Passenger struct {
	Kind        PassengerKind
	Origin      Position
	Destination Position
}

// None is the status of an empty taxi with nobody waiting.
var None = Passenger{Kind: NoPassenger}

func NewWaiting(origin, destination Position) Passenger {
	return Passenger{Kind: Waiting, Origin: origin, Destination: destination}
}

func NewInTaxi(destination Position) Passenger {
	return Passenger{Kind: InTaxi, Destination: destination}
}

type State struct {
	Taxi      Position
	Passenger Passenger
}

func NewState(taxi Position, passenger Passenger) State {
	return State{Taxi: taxi, Passenger: passenger}
}

// Hash returns the canonical key of the state, used in exported policies
func (s State) Hash() string {
	return s.Key()
}

func (s State) String() string {
	return s.Key()
}

type Action int

const (
	North Action = iota
	South
	East
	West
	Pick
	Drop
)

// Actions in the canonical order used for argmax tie-breaking.
var Actions = []Action{North, South, East, West, Pick, Drop}

var actionNames = []string{"n", "s", "e", "w", "pick", "drop"}

func (a Action) Valid() bool {
	return a >= North && a <= Drop
}

func (a Action) String() string {
	if !a.Valid() {
		return fmt.Sprintf("invalid(%d)", int(a))
	}
	return actionNames[a]
}

func (a Action) Hash() string {
	return a.String()
}

// IsMove is true for the four movement actions.
func (a Action) IsMove() bool {
	return a >= North && a <= West
}

// ParseAction is the inverse of Action.String.
func ParseAction(s string) (Action, error) {
	for i, name := range actionNames {
		if name == s {
			return Action(i), nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}
