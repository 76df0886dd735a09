package app

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// HandleEvent processes one terminal event. It returns ErrQuit when the
// application should exit.
func (app *Application) HandleEvent(ev tcell.Event) error {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return app.handleKey(e)

	case *tcell.EventResize:
		app.screen.Sync()

	case *tcell.EventInterrupt:
		switch data := e.Data().(type) {
		case quitRequest:
			return ErrQuit
		case func():
			if err := app.safely(func() error { data(); return nil }); err != nil {
				app.logger.Error("posted function failed", "error", err)
				app.SetStatus("error: %v", err)
			}
		}
	}
	return nil
}

func (app *Application) handleKey(ev *tcell.EventKey) error {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ErrQuit
	case tcell.KeyRune:
	default:
		return nil
	}

	switch r := ev.Rune(); r {
	case 'q':
		return ErrQuit
	case '+', '=':
		app.adjust(app.step)
	case '-', '_':
		app.adjust(-app.step)
	default:
		if id, ok := app.keymap[r]; ok {
			app.execute(id)
		}
	}
	return nil
}

// adjust changes the counter and records the change.
func (app *Application) adjust(delta int) {
	old := app.value
	next := old + delta
	app.value = next

	err := app.history.Snapshot(
		func() { app.value = old },
		func() { app.value = next },
	)
	if err != nil {
		app.value = old
		app.logger.Error("snapshot failed", "error", err)
		app.SetStatus("change rejected: %v", err)
		return
	}
	app.SetStatus("value %d -> %d", old, next)
}

// execute runs a gateway command and reports the outcome on the status line.
func (app *Application) execute(id string) {
	cmd := app.gateway.Get(id)
	if cmd == nil {
		return
	}

	var executed bool
	err := app.safely(func() error {
		var err error
		executed, err = cmd.Execute()
		return err
	})

	switch {
	case err != nil:
		app.logger.Error("command failed", "command", id, "error", err)
		app.SetStatus("%s failed: %v", cmd.Title, err)
	case !executed:
		app.SetStatus("%s is not available", cmd.Title)
	default:
		app.SetStatus("%s: value is %d", cmd.Title, app.value)
	}
}

// safely runs fn, converting a panic into an error wrapping ErrActionPanic.
func (app *Application) safely(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrActionPanic, r)
		}
	}()
	return fn()
}
