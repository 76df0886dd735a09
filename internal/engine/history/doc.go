// Package history provides undo/redo action history with live capability
// signals.
//
// A history records pairs of inverse actions. Callers take a snapshot after
// changing their own state, handing over the function that reverts the
// change and the function that reapplies it:
//
//	h := history.NewStack()
//	defer h.Dispose()
//
//	old := doc.Text
//	doc.Text = "edited"
//	h.Snapshot(
//	    func() { doc.Text = old },
//	    func() { doc.Text = "edited" },
//	)
//
//	h.Undo() // doc.Text == old
//	h.Redo() // doc.Text == "edited"
//
// # Capability Signals
//
// Every history exposes four deduplicated boolean signals: CanUndo, CanRedo,
// CanClear and CanSnapshot. They are published by the history itself and are
// the only way UI layers should learn whether an operation is meaningful.
//
// # Busy and Idle Phases
//
// Each mutating operation first publishes false on all four signals, then
// mutates the stacks (running the caller's action, which may call back into
// the history), then publishes the recomputed values. Anything gated on
// CanSnapshot therefore observes "disabled" for the whole time a caller's
// action is running, which is what keeps gated commands from re-entering.
//
// An action may call the history directly. Such nested operations mutate the
// stacks but leave the signals busy; the idle phase is published once, when
// the outermost operation finishes. A snapshot recorded from inside an undo
// action cuts the redo history, so the entry being undone is discarded
// rather than moved to the redo stack.
//
// # Thread Safety
//
// Histories are not safe for concurrent use. All calls, including the
// recorded actions, run synchronously on the caller's goroutine. Callers
// sharing a history across goroutines must synchronize externally.
package history
