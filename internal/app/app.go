// Package app runs the histctl terminal demo: an integer counter whose
// changes are recorded in an undo history and driven through gated
// undo, redo and clear commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/histctl/internal/command"
	"github.com/dshills/histctl/internal/engine/history"
	"github.com/dshills/histctl/internal/signal"
)

// Application owns the screen, the counter and the command gateway.
//
// Everything except Post runs on the goroutine that calls Run.
type Application struct {
	screen  tcell.Screen
	history history.History
	gateway *command.Gateway
	logger  *slog.Logger

	value int
	step  int

	keymap  map[rune]string
	enabled map[string]bool
	subs    []signal.Subscription
	status  string

	running  atomic.Bool
	disposed bool
}

// Options configures the application.
type Options struct {
	// Screen is the terminal to draw on. Required.
	Screen tcell.Screen

	// History records counter changes. Required.
	History history.History

	// Start is the initial counter value.
	Start int

	// Step is how much + and - change the counter. Defaults to 1.
	Step int

	// Logger receives application logs.
	Logger *slog.Logger
}

// quitRequest asks the event loop to stop.
type quitRequest struct{}

// New creates an application bound to opts.History.
func New(opts Options) (*Application, error) {
	if opts.Screen == nil {
		return nil, &InitError{Component: "screen", Err: ErrComponentNotAvailable}
	}
	if opts.History == nil {
		return nil, &InitError{Component: "history", Err: ErrComponentNotAvailable}
	}
	if opts.Step <= 0 {
		opts.Step = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	app := &Application{
		screen:  opts.Screen,
		history: opts.History,
		logger:  opts.Logger,
		value:   opts.Start,
		step:    opts.Step,
		keymap:  make(map[rune]string),
		enabled: make(map[string]bool),
		status:  "ready",
	}

	gw, err := command.NewGateway(opts.History, command.WithLogger(opts.Logger))
	if err != nil {
		return nil, &InitError{Component: "gateway", Err: err}
	}
	app.gateway = gw

	if err := app.bindCommands(); err != nil {
		app.Dispose()
		return nil, &InitError{Component: "commands", Err: err}
	}
	return app, nil
}

// defaultKeys maps keys to gateway command IDs.
var defaultKeys = []struct {
	key rune
	id  string
}{
	{'u', command.UndoID},
	{'r', command.RedoID},
	{'c', command.ClearID},
}

// bindCommands assigns keys and tracks each command's enabled signal.
func (app *Application) bindCommands() error {
	for _, binding := range defaultKeys {
		cmd := app.gateway.Get(binding.id)
		if cmd == nil {
			return fmt.Errorf("%w: %s", command.ErrCommandNotFound, binding.id)
		}
		cmd.Keybinding = string(binding.key)
		app.keymap[binding.key] = binding.id

		id := binding.id
		app.enabled[id] = cmd.CanExecute().Value()
		sub, err := cmd.CanExecute().Subscribe(func(v bool) {
			app.enabled[id] = v
		})
		if err != nil {
			return err
		}
		app.subs = append(app.subs, sub)
	}
	return nil
}

// Run initializes the screen and processes events until quit or until
// ctx is cancelled.
func (app *Application) Run(ctx context.Context) error {
	if app.disposed {
		return ErrDisposed
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.screen.Init(); err != nil {
		return &InitError{Component: "screen", Err: err}
	}
	defer app.screen.Fini()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = app.screen.PostEvent(tcell.NewEventInterrupt(quitRequest{}))
		case <-done:
		}
	}()

	app.logger.Info("application started", "value", app.value)
	err := app.eventLoop()
	app.logger.Info("application stopped", "value", app.value)
	return err
}

// eventLoop draws and dispatches events until a handler returns ErrQuit.
func (app *Application) eventLoop() error {
	for {
		app.draw()

		ev := app.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if err := app.HandleEvent(ev); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
	}
}

// Post schedules fn on the event loop. It is safe to call from any
// goroutine.
func (app *Application) Post(fn func()) error {
	return app.screen.PostEvent(tcell.NewEventInterrupt(fn))
}

// IsRunning returns true while Run is active.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Value returns the counter value.
func (app *Application) Value() int {
	return app.value
}

// Status returns the status line message.
func (app *Application) Status() string {
	return app.status
}

// SetStatus replaces the status line message.
func (app *Application) SetStatus(format string, args ...any) {
	app.status = fmt.Sprintf(format, args...)
}

// Enabled reports the last enabled state seen for a command.
func (app *Application) Enabled(id string) bool {
	return app.enabled[id]
}

// Gateway returns the application's command gateway.
func (app *Application) Gateway() *command.Gateway {
	return app.gateway
}

// Dispose releases the subscriptions and the gateway. The history is left
// to its owner.
func (app *Application) Dispose() {
	if app.disposed {
		return
	}
	app.disposed = true

	for _, sub := range app.subs {
		sub.Cancel()
	}
	app.subs = nil
	if app.gateway != nil {
		app.gateway.Dispose()
	}
}
