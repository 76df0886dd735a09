package history

import (
	"errors"
	"fmt"
)

// Common errors for history operations.
var (
	// ErrNullCallback is returned when Snapshot is called with a nil action.
	ErrNullCallback = errors.New("undo and redo actions are required")

	// ErrEmptyHistory is returned when there is no entry to undo or redo.
	ErrEmptyHistory = errors.New("history is empty")

	// ErrNothingToUndo is returned by Undo on an empty undo stack.
	ErrNothingToUndo = fmt.Errorf("nothing to undo: %w", ErrEmptyHistory)

	// ErrNothingToRedo is returned by Redo on an empty redo stack.
	ErrNothingToRedo = fmt.Errorf("nothing to redo: %w", ErrEmptyHistory)

	// ErrDisposed is returned by every operation after Dispose.
	ErrDisposed = errors.New("history is disposed")
)

// OperationError records which history operation failed.
type OperationError struct {
	Op  string // Operation name (e.g., "snapshot", "undo")
	Err error  // Underlying error
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	return fmt.Sprintf("history %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *OperationError) Unwrap() error {
	return e.Err
}
