package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/histctl/internal/command"
	"github.com/dshills/histctl/internal/engine/history"
)

func newTestApp(t *testing.T, opts Options) (*Application, *history.Stack, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen Init failed: %v", err)
	}
	screen.SetSize(80, 24)

	stack := history.NewStack()
	opts.Screen = screen
	if opts.History == nil {
		opts.History = stack
	}

	app, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() {
		app.Dispose()
		stack.Dispose()
		screen.Fini()
	})
	return app, stack, screen
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func press(t *testing.T, app *Application, keys string) {
	t.Helper()
	for _, r := range keys {
		if err := app.HandleEvent(key(r)); err != nil {
			t.Fatalf("HandleEvent(%q) = %v", r, err)
		}
	}
}

func TestNew_Validation(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	stack := history.NewStack()
	defer stack.Dispose()

	tests := []struct {
		name string
		opts Options
	}{
		{"no screen", Options{History: stack}},
		{"no history", Options{Screen: screen}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			var initErr *InitError
			if !errors.As(err, &initErr) || !errors.Is(err, ErrComponentNotAvailable) {
				t.Errorf("expected InitError wrapping ErrComponentNotAvailable, got %v", err)
			}
		})
	}
}

func TestApplication_Counter(t *testing.T) {
	app, stack, _ := newTestApp(t, Options{Start: 10, Step: 5})

	press(t, app, "++-")
	if app.Value() != 15 {
		t.Fatalf("Value() = %d, want 15", app.Value())
	}
	if stack.UndoCount() != 3 {
		t.Errorf("UndoCount() = %d, want 3", stack.UndoCount())
	}

	press(t, app, "uu")
	if app.Value() != 15 {
		t.Errorf("after two undos Value() = %d, want 15", app.Value())
	}
	press(t, app, "u")
	if app.Value() != 10 {
		t.Errorf("after three undos Value() = %d, want 10", app.Value())
	}
	if app.Enabled(command.UndoID) {
		t.Error("undo should be disabled with an empty undo stack")
	}

	press(t, app, "r")
	if app.Value() != 15 {
		t.Errorf("after redo Value() = %d, want 15", app.Value())
	}

	press(t, app, "c")
	if app.Enabled(command.UndoID) || app.Enabled(command.RedoID) || app.Enabled(command.ClearID) {
		t.Error("all commands should be disabled after clear")
	}
	if app.Value() != 15 {
		t.Errorf("clear changed the value to %d", app.Value())
	}
}

func TestApplication_SnapshotDiscardsRedo(t *testing.T) {
	app, _, _ := newTestApp(t, Options{})

	press(t, app, "+u")
	if !app.Enabled(command.RedoID) {
		t.Fatal("redo should be enabled after undo")
	}
	press(t, app, "+")
	if app.Enabled(command.RedoID) {
		t.Error("a new change should discard redo")
	}
}

func TestApplication_DisabledCommand(t *testing.T) {
	app, _, _ := newTestApp(t, Options{})

	press(t, app, "u")
	if got := app.Status(); got != "Undo is not available" {
		t.Errorf("Status() = %q", got)
	}
}

func TestApplication_QuitKeys(t *testing.T) {
	app, _, _ := newTestApp(t, Options{})

	events := []*tcell.EventKey{
		key('q'),
		tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl),
	}
	for _, ev := range events {
		if err := app.HandleEvent(ev); !errors.Is(err, ErrQuit) {
			t.Errorf("HandleEvent(%v) = %v, want ErrQuit", ev.Name(), err)
		}
	}
	if err := app.HandleEvent(key('x')); err != nil {
		t.Errorf("unbound key returned %v", err)
	}
}

func TestApplication_ActionPanic(t *testing.T) {
	app, stack, _ := newTestApp(t, Options{})

	stack.Snapshot(func() { panic("broken undo") }, func() {})
	press(t, app, "u")

	if !strings.Contains(app.Status(), "broken undo") {
		t.Errorf("Status() = %q, want the panic reported", app.Status())
	}
	if stack.UndoCount() != 1 {
		t.Errorf("UndoCount() = %d, want the entry restored", stack.UndoCount())
	}
	if !app.Enabled(command.UndoID) {
		t.Error("undo should be enabled again after the failed action")
	}
}

func TestApplication_Post(t *testing.T) {
	app, _, _ := newTestApp(t, Options{})

	ran := false
	if err := app.HandleEvent(tcell.NewEventInterrupt(func() { ran = true })); err != nil {
		t.Fatalf("HandleEvent = %v", err)
	}
	if !ran {
		t.Error("posted function did not run")
	}

	if err := app.HandleEvent(tcell.NewEventInterrupt(func() { panic("bad reload") })); err != nil {
		t.Fatalf("HandleEvent = %v", err)
	}
	if !strings.Contains(app.Status(), "bad reload") {
		t.Errorf("Status() = %q", app.Status())
	}

	if err := app.HandleEvent(tcell.NewEventInterrupt(quitRequest{})); !errors.Is(err, ErrQuit) {
		t.Errorf("quit request = %v, want ErrQuit", err)
	}
}

func TestApplication_Run(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	stack := history.NewStack()
	defer stack.Dispose()

	app, err := New(Options{Screen: screen, History: stack})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer app.Dispose()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
	if app.IsRunning() {
		t.Error("IsRunning() = true after Run returned")
	}
}

func TestApplication_Dispose(t *testing.T) {
	app, stack, _ := newTestApp(t, Options{})

	app.Dispose()
	app.Dispose()

	if err := app.Run(context.Background()); !errors.Is(err, ErrDisposed) {
		t.Errorf("Run after Dispose = %v, want ErrDisposed", err)
	}
	if got := stack.CanUndo().(interface{ SubscriberCount() int }).SubscriberCount(); got != 0 {
		t.Errorf("history still has %d subscribers", got)
	}
}
