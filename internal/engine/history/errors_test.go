package history

import (
	"errors"
	"testing"
)

func TestOperationError(t *testing.T) {
	err := &OperationError{Op: "undo", Err: ErrNothingToUndo}

	if got := err.Error(); got != "history undo: nothing to undo: history is empty" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrEmptyHistory) {
		t.Error("expected errors.Is to reach ErrEmptyHistory")
	}
	if errors.Is(err, ErrNothingToRedo) {
		t.Error("undo error should not match ErrNothingToRedo")
	}
}
