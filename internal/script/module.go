package script

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/histctl/internal/engine/history"
	"github.com/dshills/histctl/internal/signal"
)

// ModuleName is the global the history module is installed under.
const ModuleName = "history"

func registerHistoryModule(s *State) {
	L := s.L
	mod := L.NewTable()

	L.SetField(mod, "snapshot", L.NewFunction(s.snapshot))
	L.SetField(mod, "undo", L.NewFunction(s.mutation("undo", s.history.Undo)))
	L.SetField(mod, "redo", L.NewFunction(s.mutation("redo", s.history.Redo)))
	L.SetField(mod, "clear", L.NewFunction(s.mutation("clear", s.history.Clear)))
	L.SetField(mod, "can_undo", L.NewFunction(capability(s.history.CanUndo())))
	L.SetField(mod, "can_redo", L.NewFunction(capability(s.history.CanRedo())))
	L.SetField(mod, "can_clear", L.NewFunction(capability(s.history.CanClear())))
	L.SetField(mod, "can_snapshot", L.NewFunction(capability(s.history.CanSnapshot())))

	if c, ok := s.history.(history.Counter); ok {
		L.SetField(mod, "undo_count", L.NewFunction(func(L *lua.LState) int {
			L.Push(lua.LNumber(c.UndoCount()))
			return 1
		}))
		L.SetField(mod, "redo_count", L.NewFunction(func(L *lua.LState) int {
			L.Push(lua.LNumber(c.RedoCount()))
			return 1
		}))
	}

	L.SetGlobal(ModuleName, mod)
}

// snapshot(undo_fn, redo_fn) -> nil
// Records an action pair whose actions call back into Lua.
func (s *State) snapshot(L *lua.LState) int {
	undoFn := L.CheckFunction(1)
	redoFn := L.CheckFunction(2)

	s.nextID++
	id := s.nextID
	undoKey, redoKey := actionKeys(id)
	s.actions.RawSetString(undoKey, undoFn)
	s.actions.RawSetString(redoKey, redoFn)

	err := s.history.Snapshot(s.action("undo", undoKey), s.action("redo", redoKey))
	if err != nil {
		s.unregister(id)
		raise(L, "snapshot", err)
	}
	if p, ok := s.history.(history.Peeker); ok {
		if e := p.PeekUndo(); e != nil {
			s.entries[e.ID] = id
		}
	}
	return 0
}

// release drops the Lua actions of an entry the history discarded.
func (s *State) release(e *history.Entry) {
	id, ok := s.entries[e.ID]
	if !ok {
		return
	}
	delete(s.entries, e.ID)
	if !s.closed {
		s.unregister(id)
	}
}

func (s *State) unregister(id int) {
	undoKey, redoKey := actionKeys(id)
	s.actions.RawSetString(undoKey, lua.LNil)
	s.actions.RawSetString(redoKey, lua.LNil)
}

func actionKeys(id int) (undo, redo string) {
	return fmt.Sprintf("%d.undo", id), fmt.Sprintf("%d.redo", id)
}

// action returns a Go action that calls the Lua function stored at key.
// Failures panic with *ActionError.
func (s *State) action(name, key string) func() {
	return func() {
		if s.closed {
			panic(&ActionError{Action: name, Key: key, Err: ErrStateClosed})
		}

		fn, ok := s.actions.RawGetString(key).(*lua.LFunction)
		if !ok {
			panic(&ActionError{Action: name, Key: key, Err: errors.New("action not registered")})
		}

		if err := s.L.CallByParam(lua.P{
			Fn:      fn,
			NRet:    0,
			Protect: true,
		}); err != nil {
			s.logger.Warn("lua action failed", "action", name, "key", key, "error", err)
			panic(&ActionError{Action: name, Key: key, Err: err})
		}
	}
}

// mutation wraps a history operation as a Lua function. Engine errors and
// failed Lua actions are raised as Lua errors.
func (s *State) mutation(op string, fn func() error) lua.LGFunction {
	return func(L *lua.LState) int {
		if err := recoverAction(fn); err != nil {
			raise(L, op, err)
		}
		return 0
	}
}

// recoverAction runs fn, converting an *ActionError panic into an error.
// Other panics propagate.
func recoverAction(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if ae, ok := r.(*ActionError); ok {
				err = ae
				return
			}
			panic(r)
		}
	}()
	return fn()
}

// capability returns a Lua function reporting the signal's current value.
func capability(sig signal.Observable[bool]) lua.LGFunction {
	return func(L *lua.LState) int {
		L.Push(lua.LBool(sig.Value()))
		return 1
	}
}

// raise reports err as a Lua error tagged with the failed operation.
func raise(L *lua.LState, op string, err error) {
	var opErr *history.OperationError
	if !errors.As(err, &opErr) {
		err = &history.OperationError{Op: op, Err: err}
	}
	L.RaiseError("%s", err.Error())
}
