package command

import (
	"errors"
	"testing"

	"github.com/dshills/histctl/internal/engine/history"
)

func noop() {}

func newTestGateway(t *testing.T) (*history.Stack, *Gateway) {
	t.Helper()
	h := history.NewStack()
	gw, err := NewGateway(h)
	if err != nil {
		t.Fatalf("NewGateway failed: %v", err)
	}
	t.Cleanup(func() {
		gw.Dispose()
		h.Dispose()
	})
	return h, gw
}

type enabledState struct {
	undo, redo, clear bool
}

func enabledOf(gw *Gateway) enabledState {
	return enabledState{
		undo:  gw.Undo().Enabled(),
		redo:  gw.Redo().Enabled(),
		clear: gw.Clear().Enabled(),
	}
}

func TestNewGateway_NilHistory(t *testing.T) {
	if _, err := NewGateway(nil); !errors.Is(err, ErrNilHistory) {
		t.Errorf("expected ErrNilHistory, got %v", err)
	}
}

func TestGateway_InitialState(t *testing.T) {
	_, gw := newTestGateway(t)

	if got := enabledOf(gw); got != (enabledState{}) {
		t.Errorf("initial enabled = %+v, want all disabled", got)
	}
	if !gw.CanSnapshot().Value() {
		t.Error("CanSnapshot should start true")
	}
}

func TestGateway_EnabledFollowsHistory(t *testing.T) {
	h, gw := newTestGateway(t)

	h.Snapshot(noop, noop)
	if got, want := enabledOf(gw), (enabledState{undo: true, clear: true}); got != want {
		t.Errorf("after snapshot = %+v, want %+v", got, want)
	}

	if executed, err := gw.Undo().Execute(); !executed || err != nil {
		t.Fatalf("Undo Execute = %v, %v", executed, err)
	}
	if got, want := enabledOf(gw), (enabledState{redo: true, clear: true}); got != want {
		t.Errorf("after undo = %+v, want %+v", got, want)
	}

	if executed, err := gw.Clear().Execute(); !executed || err != nil {
		t.Fatalf("Clear Execute = %v, %v", executed, err)
	}
	if got := enabledOf(gw); got != (enabledState{}) {
		t.Errorf("after clear = %+v, want all disabled", got)
	}
}

func TestGateway_DisabledIsNoop(t *testing.T) {
	h, gw := newTestGateway(t)

	for _, cmd := range gw.Commands() {
		executed, err := cmd.Execute()
		if executed {
			t.Errorf("%s executed while disabled", cmd.ID)
		}
		if err != nil {
			t.Errorf("%s returned error while disabled: %v", cmd.ID, err)
		}
	}
	if h.UndoCount() != 0 || h.RedoCount() != 0 {
		t.Error("history should be untouched")
	}
}

func TestGateway_NestedInvocationRejected(t *testing.T) {
	h, gw := newTestGateway(t)

	var during enabledState
	var nested []bool
	innerUndo := 0

	h.Snapshot(func() { innerUndo++ }, noop)
	h.Snapshot(func() {
		during = enabledOf(gw)
		for _, cmd := range gw.Commands() {
			executed, err := cmd.Execute()
			if err != nil {
				t.Errorf("nested %s returned error: %v", cmd.ID, err)
			}
			nested = append(nested, executed)
		}
	}, noop)

	if executed, err := gw.Undo().Execute(); !executed || err != nil {
		t.Fatalf("Undo Execute = %v, %v", executed, err)
	}

	if during != (enabledState{}) {
		t.Errorf("enabled during action = %+v, want all disabled", during)
	}
	for i, executed := range nested {
		if executed {
			t.Errorf("nested command %d executed", i)
		}
	}
	if innerUndo != 0 {
		t.Error("nested undo reached the history")
	}
	if h.UndoCount() != 1 || h.RedoCount() != 1 {
		t.Errorf("counts = %d/%d, want 1/1", h.UndoCount(), h.RedoCount())
	}
	if got, want := enabledOf(gw), (enabledState{undo: true, redo: true, clear: true}); got != want {
		t.Errorf("after undo = %+v, want %+v", got, want)
	}
}

func TestGateway_EnabledSignalEmissions(t *testing.T) {
	h, gw := newTestGateway(t)

	var undoValues []bool
	gw.Undo().CanExecute().Subscribe(func(v bool) {
		undoValues = append(undoValues, v)
	})

	h.Snapshot(noop, noop) // busy: stays false, idle: true
	gw.Undo().Execute()    // executing/busy: false, idle: can-undo false

	want := []bool{true, false}
	if len(undoValues) != len(want) {
		t.Fatalf("undo enabled emissions = %v, want %v", undoValues, want)
	}
	for i := range want {
		if undoValues[i] != want[i] {
			t.Errorf("emission %d = %v, want %v", i, undoValues[i], want[i])
		}
	}
}

func TestGateway_ExecuteByID(t *testing.T) {
	h, gw := newTestGateway(t)
	h.Snapshot(noop, noop)

	executed, err := gw.Execute(UndoID)
	if !executed || err != nil {
		t.Fatalf("Execute(%s) = %v, %v", UndoID, executed, err)
	}

	if _, err := gw.Execute("history.missing"); !errors.Is(err, ErrCommandNotFound) {
		t.Errorf("expected ErrCommandNotFound, got %v", err)
	}
	if gw.Get(RedoID) != gw.Redo() {
		t.Error("Get(RedoID) should return the redo command")
	}
	if gw.History() != history.History(h) {
		t.Error("History() should return the bound history")
	}
}

func TestGateway_Commands(t *testing.T) {
	_, gw := newTestGateway(t)

	cmds := gw.Commands()
	ids := []string{UndoID, RedoID, ClearID}
	if len(cmds) != len(ids) {
		t.Fatalf("got %d commands, want %d", len(cmds), len(ids))
	}
	for i, id := range ids {
		if cmds[i].ID != id {
			t.Errorf("command %d = %s, want %s", i, cmds[i].ID, id)
		}
	}
}

func TestGateway_Dispose(t *testing.T) {
	h := history.NewStack()
	gw, err := NewGateway(h)
	if err != nil {
		t.Fatalf("NewGateway failed: %v", err)
	}
	h.Snapshot(noop, noop)

	gw.Dispose()
	gw.Dispose()

	if _, err := gw.Undo().Execute(); !errors.Is(err, ErrDisposed) {
		t.Errorf("expected ErrDisposed, got %v", err)
	}
	if gw.Undo().Enabled() {
		t.Error("disposed command should not be enabled")
	}
	if h.UndoCount() != 1 {
		t.Error("disposing the gateway should not touch the history")
	}

	// The history keeps working without the gateway attached.
	if err := h.Undo(); err != nil {
		t.Errorf("history Undo after gateway dispose: %v", err)
	}
}

func TestGateway_DisposedHistory(t *testing.T) {
	h := history.NewStack()
	h.Dispose()

	if _, err := NewGateway(h); err == nil {
		t.Error("expected error binding a disposed history")
	}
}
