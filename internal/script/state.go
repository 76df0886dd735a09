package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/histctl/internal/engine/history"
)

// DefaultExecutionTimeout bounds a single DoString or DoFile call.
const DefaultExecutionTimeout = 5 * time.Second

// actionsKey names the registry table that keeps Lua actions reachable.
const actionsKey = "histctl.actions"

// State is a sandboxed Lua state bound to a history.
type State struct {
	L *lua.LState

	history history.History
	actions *lua.LTable
	nextID  int

	// entries maps a recorded entry's ID to its action keys' ID so the
	// actions can be released when the history drops the entry.
	entries       map[string]int
	cancelDiscard func()

	logger  *slog.Logger
	out     io.Writer
	timeout time.Duration

	closed bool
}

// Option configures a State.
type Option func(*State)

// WithLogger sets the logger for script diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *State) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOutput redirects Lua's print. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(s *State) {
		if w != nil {
			s.out = w
		}
	}
}

// WithExecutionTimeout bounds each DoString or DoFile call. Zero disables
// the limit.
func WithExecutionTimeout(d time.Duration) Option {
	return func(s *State) {
		if d >= 0 {
			s.timeout = d
		}
	}
}

// NewState creates a sandboxed Lua state exposing h as the history module.
func NewState(h history.History, opts ...Option) (*State, error) {
	if h == nil {
		return nil, ErrNilHistory
	}

	s := &State{
		history: h,
		entries: make(map[string]int),
		logger:  slog.New(slog.DiscardHandler),
		out:     os.Stdout,
		timeout: DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})
	s.L = L

	if err := openSafeLibraries(L); err != nil {
		L.Close()
		return nil, err
	}
	removeUnsafeGlobals(L)
	L.SetGlobal("print", L.NewFunction(s.print))

	s.actions = L.NewTable()
	L.SetField(L.Get(lua.RegistryIndex), actionsKey, s.actions)

	registerHistoryModule(s)
	if d, ok := h.(history.Discarder); ok {
		s.cancelDiscard = d.OnDiscard(s.release)
	}
	return s, nil
}

// openSafeLibraries opens the base, table, string and math libraries only.
func openSafeLibraries(L *lua.LState) error {
	libs := []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	for _, lib := range libs {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			return fmt.Errorf("opening lua library %q: %w", lib.name, err)
		}
	}
	return nil
}

// removeUnsafeGlobals drops the base functions that load code from disk or
// strings.
func removeUnsafeGlobals(L *lua.LState) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// print writes its arguments, tab-separated, to the configured output.
func (s *State) print(L *lua.LState) int {
	top := L.GetTop()
	parts := make([]string, 0, top)
	for i := 1; i <= top; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	fmt.Fprintln(s.out, strings.Join(parts, "\t"))
	return 0
}

// DoString executes a Lua chunk.
func (s *State) DoString(code string) error {
	if s.closed {
		return ErrStateClosed
	}
	return s.run(func() error { return s.L.DoString(code) })
}

// DoFile executes a Lua file.
func (s *State) DoFile(path string) error {
	if s.closed {
		return ErrStateClosed
	}
	s.logger.Debug("running script", "path", path)
	return s.run(func() error { return s.L.DoFile(path) })
}

// run executes fn under the configured timeout.
func (s *State) run(fn func() error) (err error) {
	if s.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.L.SetContext(ctx)
		defer s.L.RemoveContext()
		defer func() {
			if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				err = fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
			}
		}()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// ActionCount returns how many Lua actions are registered.
func (s *State) ActionCount() int {
	if s.closed {
		return 0
	}
	n := 0
	s.actions.ForEach(func(_, _ lua.LValue) { n++ })
	return n
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	return s.closed
}

// Close releases the registered actions and the Lua state.
func (s *State) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.cancelDiscard != nil {
		s.cancelDiscard()
		s.cancelDiscard = nil
	}
	s.entries = nil
	s.L.SetField(s.L.Get(lua.RegistryIndex), actionsKey, lua.LNil)
	s.actions = nil
	s.L.Close()
	return nil
}
