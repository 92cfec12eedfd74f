package mdp

import "errors"

var (
	// ErrUnknownAction indicates an action name outside the six actions.
	ErrUnknownAction = errors.New("mdp: unknown action")
	// ErrMalformedState indicates a state key that cannot be parsed.
	ErrMalformedState = errors.New("mdp: malformed state")
)
