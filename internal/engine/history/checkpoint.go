package history

// Checkpoint represents a point in history that can be returned to.
type Checkpoint struct {
	undoDepth int
}

// Depth returns the undo depth recorded by the checkpoint.
func (c Checkpoint) Depth() int {
	return c.undoDepth
}

// CreateCheckpoint creates a checkpoint at the current history position.
func (s *Stack) CreateCheckpoint() Checkpoint {
	return Checkpoint{undoDepth: len(s.undoStack)}
}

// UndoToCheckpoint undoes all entries recorded since the checkpoint.
func (s *Stack) UndoToCheckpoint(cp Checkpoint) error {
	if s.disposed {
		return &OperationError{Op: "undo to checkpoint", Err: ErrDisposed}
	}
	for s.UndoCount() > cp.undoDepth {
		if err := s.Undo(); err != nil {
			return &OperationError{Op: "undo to checkpoint", Err: err}
		}
	}
	return nil
}

// RedoToCheckpoint redoes entries until the undo depth reaches the checkpoint.
// It stops early when the redo stack runs out.
func (s *Stack) RedoToCheckpoint(cp Checkpoint) error {
	if s.disposed {
		return &OperationError{Op: "redo to checkpoint", Err: ErrDisposed}
	}
	for s.UndoCount() < cp.undoDepth && s.RedoCount() > 0 {
		if err := s.Redo(); err != nil {
			return &OperationError{Op: "redo to checkpoint", Err: err}
		}
	}
	return nil
}
