// Package script runs Lua scripts against an undo history.
//
// Scripts see a single global module, history:
//
//	history.snapshot(undo_fn, redo_fn)  -- record an action pair
//	history.undo()                      -- run the newest undo action
//	history.redo()                      -- run the newest redo action
//	history.clear()                     -- drop every entry
//	history.can_undo()                  -- capability checks, all booleans
//	history.can_redo()
//	history.can_clear()
//	history.can_snapshot()
//	history.undo_count()                -- stack sizes, when available
//	history.redo_count()
//
// Engine errors are raised as Lua errors, so scripts use pcall to inspect
// them:
//
//	local ok, err = pcall(history.undo)
//
// Lua functions passed to snapshot stay registered while their entry is in
// the history. When the history reports discarded entries (history.Discarder
// and history.Peeker), the functions are released as soon as the entry is
// cleared, trimmed or cut from the redo stack; otherwise they are released
// by Close. Once closed, running one of their history entries fails with
// ErrStateClosed.
//
// The Lua state runs sandboxed: only the base, table, string and math
// libraries are opened, and dofile, loadfile, load and loadstring are
// removed. print writes to the state's configured output.
//
// # Thread Safety
//
// A State and the history it drives must be used from a single goroutine.
// Actions recorded by a script call back into the Lua state when the
// history runs them.
package script
