package gym

import "errors"

// Domain errors for environment operations.
var (
	// ErrEmptySpace indicates sampling from an action space with no actions.
	ErrEmptySpace = errors.New("gym: action space is empty")

	// ErrInvalidAction indicates an action outside the action space.
	ErrInvalidAction = errors.New("gym: action outside action space")

	// ErrNotReset indicates Step was called before Reset or after the
	// episode ended.
	ErrNotReset = errors.New("gym: step called without reset")

	// ErrClosed indicates a call on an environment that was already closed.
	ErrClosed = errors.New("gym: environment closed")
)

// ActionError wraps an invalid action with the space it was checked against.
type ActionError struct {
	Action  Action
	Space   Discrete
	Wrapped error
}

func (e *ActionError) Error() string {
	return e.Wrapped.Error() + ": " + e.Space.String() + " does not contain " + e.Action.String()
}

func (e *ActionError) Unwrap() error {
	return e.Wrapped
}
