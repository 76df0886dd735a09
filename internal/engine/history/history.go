package history

import (
	"time"

	"github.com/dshills/histctl/internal/signal"
)

// History is the undo/redo action history contract.
type History interface {
	// CanUndo reports whether Undo has an entry to act on.
	CanUndo() signal.Observable[bool]

	// CanRedo reports whether Redo has an entry to act on.
	CanRedo() signal.Observable[bool]

	// CanClear reports whether either stack holds entries.
	CanClear() signal.Observable[bool]

	// CanSnapshot is false while an operation is in progress.
	CanSnapshot() signal.Observable[bool]

	// Snapshot records an undo/redo action pair. Both actions are required.
	Snapshot(undo, redo func()) error

	// Undo runs the undo action of the most recent entry.
	Undo() error

	// Redo runs the redo action of the most recently undone entry.
	Redo() error

	// Clear removes all entries.
	Clear() error
}

// Counter is implemented by histories that can report their stack sizes.
type Counter interface {
	UndoCount() int
	RedoCount() int
}

// Discarder is implemented by histories that report entries they drop
// without running them.
type Discarder interface {
	OnDiscard(fn func(*Entry)) (cancel func())
}

// Peeker is implemented by histories that expose their newest undo entry.
type Peeker interface {
	PeekUndo() *Entry
}

// Entry is an undo/redo action pair.
type Entry struct {
	ID        string
	Undo      func()
	Redo      func()
	Timestamp time.Time
}

// Compound combines several action pairs into one. Undo actions run in
// reverse order and redo actions in forward order. Nil actions are skipped.
func Compound(entries ...Entry) (undo, redo func()) {
	steps := make([]Entry, len(entries))
	copy(steps, entries)

	undo = func() {
		for i := len(steps) - 1; i >= 0; i-- {
			if steps[i].Undo != nil {
				steps[i].Undo()
			}
		}
	}
	redo = func() {
		for _, e := range steps {
			if e.Redo != nil {
				e.Redo()
			}
		}
	}
	return undo, redo
}
