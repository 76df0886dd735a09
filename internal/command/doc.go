// Package command provides gated commands: invocable operations whose
// availability is driven by a boolean signal.
//
// A Command wraps a handler and a "can execute" signal. Execute forwards to
// the handler only while the command is enabled, and a command is never
// enabled while its own handler is running. Invocations on a disabled command
// are rejected without error.
//
// Gateway binds the three history commands (undo, redo, clear) to a
// history.History:
//
//	h := history.NewStack()
//	gw, err := command.NewGateway(h)
//	if err != nil {
//	    return err
//	}
//	defer gw.Dispose()
//
//	gw.Undo().Enabled()            // false until something is recorded
//	executed, err := gw.Undo().Execute()
//
// Undo and redo are enabled only while the history can snapshot, so they are
// disabled for the whole duration of any history operation. That makes a
// nested invocation from inside a recorded action a no-op.
package command
