package history

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/histctl/internal/signal"
)

// Stack is the undo/redo stack based History.
//
// Stack is not safe for concurrent use; see the package documentation.
type Stack struct {
	undoStack []*Entry
	redoStack []*Entry

	// Capability signals, owned by this stack.
	canUndo     *signal.Signal[bool]
	canRedo     *signal.Signal[bool]
	canClear    *signal.Signal[bool]
	canSnapshot *signal.Signal[bool]

	// Configuration
	maxEntries int
	logger     *slog.Logger

	// depth counts operations in progress; only the outermost publishes
	// the idle phase.
	depth     int
	snapshots uint64

	discardHooks []discardHook
	nextHookID   int

	disposed bool
}

type discardHook struct {
	id int
	fn func(*Entry)
}

// NewStack creates an empty history. CanSnapshot starts true and the other
// signals start false.
func NewStack(opts ...Option) *Stack {
	s := &Stack{
		canUndo:     signal.New(false),
		canRedo:     signal.New(false),
		canClear:    signal.New(false),
		canSnapshot: signal.New(true),
		logger:      discardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CanUndo implements History.
func (s *Stack) CanUndo() signal.Observable[bool] {
	return s.canUndo
}

// CanRedo implements History.
func (s *Stack) CanRedo() signal.Observable[bool] {
	return s.canRedo
}

// CanClear implements History.
func (s *Stack) CanClear() signal.Observable[bool] {
	return s.canClear
}

// CanSnapshot implements History.
func (s *Stack) CanSnapshot() signal.Observable[bool] {
	return s.canSnapshot
}

// Snapshot records an undo/redo action pair and discards any redo entries.
func (s *Stack) Snapshot(undo, redo func()) error {
	if s.disposed {
		return ErrDisposed
	}
	if undo == nil || redo == nil {
		return ErrNullCallback
	}

	entry := &Entry{
		ID:        uuid.NewString(),
		Undo:      undo,
		Redo:      redo,
		Timestamp: time.Now(),
	}

	s.begin()
	s.snapshots++
	discarded := len(s.redoStack)
	s.redoStack = s.discardAll(s.redoStack)
	s.undoStack = append(s.undoStack, entry)
	dropped := s.enforceMaxEntries()
	s.end()

	s.logger.Debug("history snapshot",
		"entry", entry.ID,
		"discarded_redo", discarded,
		"dropped", dropped,
		"undo_count", len(s.undoStack),
	)
	return nil
}

// Undo pops the most recent entry, runs its undo action and moves it to the
// redo stack.
func (s *Stack) Undo() error {
	if s.disposed {
		return ErrDisposed
	}
	if len(s.undoStack) == 0 {
		return ErrNothingToUndo
	}

	entry := s.transfer(&s.undoStack, &s.redoStack, true, func(e *Entry) { e.Undo() })
	s.logger.Debug("history undo",
		"entry", entry.ID,
		"undo_count", len(s.undoStack),
		"redo_count", len(s.redoStack),
	)
	return nil
}

// Redo pops the most recently undone entry, runs its redo action and moves
// it back to the undo stack.
func (s *Stack) Redo() error {
	if s.disposed {
		return ErrDisposed
	}
	if len(s.redoStack) == 0 {
		return ErrNothingToRedo
	}

	entry := s.transfer(&s.redoStack, &s.undoStack, false, func(e *Entry) { e.Redo() })
	s.logger.Debug("history redo",
		"entry", entry.ID,
		"undo_count", len(s.undoStack),
		"redo_count", len(s.redoStack),
	)
	return nil
}

// Clear removes all undo/redo entries.
func (s *Stack) Clear() error {
	if s.disposed {
		return ErrDisposed
	}

	s.begin()
	removed := len(s.undoStack) + len(s.redoStack)
	s.undoStack = s.discardAll(s.undoStack)
	s.redoStack = s.discardAll(s.redoStack)
	s.end()

	s.logger.Debug("history clear", "removed", removed)
	return nil
}

// Dispose clears both stacks and releases the capability signals.
// Every later operation returns ErrDisposed. Dispose is idempotent.
func (s *Stack) Dispose() {
	if s.disposed {
		return
	}
	s.discardAll(s.undoStack)
	s.discardAll(s.redoStack)
	s.disposed = true
	s.undoStack = nil
	s.redoStack = nil
	s.discardHooks = nil

	s.canUndo.Dispose()
	s.canRedo.Dispose()
	s.canClear.Dispose()
	s.canSnapshot.Dispose()

	s.logger.Debug("history disposed")
}

// IsDisposed returns true once Dispose has been called.
func (s *Stack) IsDisposed() bool {
	return s.disposed
}

// UndoCount returns the number of entries available to undo.
func (s *Stack) UndoCount() int {
	return len(s.undoStack)
}

// RedoCount returns the number of entries available to redo.
func (s *Stack) RedoCount() int {
	return len(s.redoStack)
}

// SetMaxEntries changes the undo stack cap. If the stack is larger, the
// oldest entries are removed. Zero or a negative max means unbounded.
func (s *Stack) SetMaxEntries(max int) {
	if max < 0 {
		max = 0
	}
	s.maxEntries = max
	if s.disposed {
		return
	}

	if dropped := s.enforceMaxEntries(); dropped > 0 {
		s.logger.Debug("history trimmed", "dropped", dropped, "max_entries", max)
	}
}

// MaxEntries returns the undo stack cap, zero when unbounded.
func (s *Stack) MaxEntries() int {
	return s.maxEntries
}

// PeekUndo returns the entry Undo would act on, or nil.
func (s *Stack) PeekUndo() *Entry {
	if len(s.undoStack) == 0 {
		return nil
	}
	return s.undoStack[len(s.undoStack)-1]
}

// OnDiscard registers fn to be called with every entry the stack drops
// without running it: redo entries discarded by Snapshot, entries trimmed
// by the cap, and entries removed by Clear or Dispose. fn must not call
// back into the stack. The returned func unregisters fn.
func (s *Stack) OnDiscard(fn func(*Entry)) (cancel func()) {
	if fn == nil || s.disposed {
		return func() {}
	}
	s.nextHookID++
	id := s.nextHookID
	s.discardHooks = append(s.discardHooks, discardHook{id: id, fn: fn})
	return func() {
		for i, h := range s.discardHooks {
			if h.id == id {
				s.discardHooks = append(s.discardHooks[:i:i], s.discardHooks[i+1:]...)
				return
			}
		}
	}
}

// transfer pops the top entry of from, runs it and pushes it onto to, all
// inside a busy phase. If run panics the entry goes back onto from and the
// idle phase is still published before the panic continues. When toRedo is
// set and the action records a snapshot, the entry is discarded instead.
func (s *Stack) transfer(from, to *[]*Entry, toRedo bool, run func(*Entry)) *Entry {
	s.begin()
	snapshots := s.snapshots

	n := len(*from) - 1
	entry := (*from)[n]
	(*from)[n] = nil
	*from = (*from)[:n]

	moved := false
	defer func() {
		// A disposed stack stays empty, even if the action disposed it.
		if !s.disposed {
			switch {
			case !moved:
				*from = append(*from, entry)
			case toRedo && s.snapshots != snapshots:
				s.discard(entry)
			default:
				*to = append(*to, entry)
			}
		}
		s.end()
	}()

	run(entry)
	moved = true
	return entry
}

// enforceMaxEntries drops the oldest undo entries beyond the cap and
// returns how many were dropped.
func (s *Stack) enforceMaxEntries() int {
	if s.maxEntries <= 0 || len(s.undoStack) <= s.maxEntries {
		return 0
	}
	excess := len(s.undoStack) - s.maxEntries
	for _, e := range s.undoStack[:excess] {
		s.discard(e)
	}
	clear(s.undoStack[:excess])
	s.undoStack = s.undoStack[excess:]
	return excess
}

// begin enters an operation, publishing the busy phase.
func (s *Stack) begin() {
	s.depth++
	s.updateSignals(true)
}

// end leaves an operation. The idle phase is published only when the
// outermost operation finishes, so actions that call back into the stack
// keep it busy until the caller's operation is done.
func (s *Stack) end() {
	s.depth--
	if s.depth == 0 {
		s.updateSignals(false)
	}
}

// discard reports an entry the stack is dropping.
func (s *Stack) discard(e *Entry) {
	for _, h := range s.discardHooks {
		h.fn(e)
	}
}

// discardAll reports every entry and empties the stack, keeping its
// capacity.
func (s *Stack) discardAll(entries []*Entry) []*Entry {
	for _, e := range entries {
		s.discard(e)
	}
	return clearEntries(entries)
}

// updateSignals publishes the busy phase (all false) or the idle phase
// (values derived from the stacks).
func (s *Stack) updateSignals(busy bool) {
	if busy {
		s.canUndo.Publish(false)
		s.canRedo.Publish(false)
		s.canClear.Publish(false)
		s.canSnapshot.Publish(false)
		return
	}

	hasUndo := len(s.undoStack) > 0
	hasRedo := len(s.redoStack) > 0

	s.canUndo.Publish(hasUndo)
	s.canRedo.Publish(hasRedo)
	s.canClear.Publish(hasUndo || hasRedo)
	s.canSnapshot.Publish(true)
}

// clearEntries empties a stack while keeping its capacity.
func clearEntries(entries []*Entry) []*Entry {
	clear(entries)
	return entries[:0]
}
