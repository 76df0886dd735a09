package script

import (
	"errors"
	"fmt"
)

// Errors for script operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrNilHistory is returned when a state is created without a history.
	ErrNilHistory = errors.New("history is required")

	// ErrExecutionTimeout is returned when a script runs past its timeout.
	ErrExecutionTimeout = errors.New("lua execution timeout")
)

// ActionError reports a Lua undo or redo action that failed while the
// history ran it. It is raised as a panic so the history restores the
// entry it popped.
type ActionError struct {
	// Action is "undo" or "redo".
	Action string
	// Key identifies the action in the state's action registry.
	Key string
	// Err is the underlying Lua error.
	Err error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("lua %s action %s: %v", e.Action, e.Key, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}
