package mdp

import (
	"fmt"
	"strings"
)

// Key is the canonical string form of a state as used in exported policy
// files, e.g. "((0, 0), ('waiting', (1, 2), (3, 4)))".
func (s State) Key() string {
	p := s.Passenger
	switch p.Kind {
	case Waiting:
		return fmt.Sprintf("(%s, ('waiting', %s, %s))", s.Taxi, p.Origin, p.Destination)
	case InTaxi:
		return fmt.Sprintf("(%s, ('in_taxi', %s))", s.Taxi, p.Destination)
	}
	return fmt.Sprintf("(%s, ('none', None))", s.Taxi)
}

var stripSpaces = strings.NewReplacer(" ", "", "\t", "", "\n", "", "\r", "")

// ParseState parses a key produced by State.Key. Whitespace is ignored.
func ParseState(key string) (State, error) {
	compact := stripSpaces.Replace(key)

	var tx, ty, ox, oy, dx, dy int
	var state State
	switch {
	case strings.Contains(compact, "'none'"):
		if _, err := fmt.Sscanf(compact, "((%d,%d),('none',None))", &tx, &ty); err != nil {
			return State{}, fmt.Errorf("%w: %q: %s", ErrMalformedState, key, err)
		}
		state = State{Taxi: Position{tx, ty}, Passenger: None}
	case strings.Contains(compact, "'waiting'"):
		if _, err := fmt.Sscanf(compact, "((%d,%d),('waiting',(%d,%d),(%d,%d)))", &tx, &ty, &ox, &oy, &dx, &dy); err != nil {
			return State{}, fmt.Errorf("%w: %q: %s", ErrMalformedState, key, err)
		}
		state = State{Taxi: Position{tx, ty}, Passenger: NewWaiting(Position{ox, oy}, Position{dx, dy})}
	case strings.Contains(compact, "'in_taxi'"):
		if _, err := fmt.Sscanf(compact, "((%d,%d),('in_taxi',(%d,%d)))", &tx, &ty, &dx, &dy); err != nil {
			return State{}, fmt.Errorf("%w: %q: %s", ErrMalformedState, key, err)
		}
		state = State{Taxi: Position{tx, ty}, Passenger: NewInTaxi(Position{dx, dy})}
	default:
		return State{}, fmt.Errorf("%w: %q", ErrMalformedState, key)
	}

	// Sscanf accepts trailing garbage
	if stripSpaces.Replace(state.Key()) != compact {
		return State{}, fmt.Errorf("%w: %q", ErrMalformedState, key)
	}
	return state, nil
}
