package command

import (
	"fmt"
	"log/slog"

	"github.com/dshills/histctl/internal/signal"
)

// Handler executes a command.
type Handler func() error

// Command is an invocable operation gated by a boolean signal.
//
// Command is not safe for concurrent use.
type Command struct {
	// ID is the unique command identifier (e.g., "history.undo").
	ID string

	// Title is the display name.
	Title string

	// Keybinding shows the keyboard shortcut (for display only).
	Keybinding string

	handler   Handler
	executing *signal.Signal[bool]
	enabled   *signal.Derived[bool]
	logger    *slog.Logger
	disposed  bool
}

// Option configures a Command.
type Option func(*Command)

// WithKeybinding sets the displayed keyboard shortcut.
func WithKeybinding(key string) Option {
	return func(c *Command) {
		c.Keybinding = key
	}
}

// WithCommandLogger sets the logger used for execution output.
func WithCommandLogger(logger *slog.Logger) Option {
	return func(c *Command) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a command that runs handler while canExecute is true.
func New(id, title string, handler Handler, canExecute signal.Observable[bool], opts ...Option) (*Command, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if canExecute == nil {
		return nil, ErrNilCondition
	}

	c := &Command{
		ID:        id,
		Title:     title,
		handler:   handler,
		executing: signal.New(false),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}

	enabled, err := signal.Combine(canExecute, c.executing, func(can, running bool) bool {
		return can && !running
	})
	if err != nil {
		return nil, fmt.Errorf("command %q: %w", id, err)
	}
	c.enabled = enabled
	return c, nil
}

// Enabled reports whether Execute would run the handler right now.
func (c *Command) Enabled() bool {
	return !c.disposed && c.enabled.Value()
}

// CanExecute returns the signal driving Enabled.
func (c *Command) CanExecute() signal.Observable[bool] {
	return c.enabled
}

// IsExecuting returns the signal that is true while the handler runs.
func (c *Command) IsExecuting() signal.Observable[bool] {
	return c.executing
}

// Execute runs the handler if the command is enabled. It reports whether
// the handler ran; a disabled command is a no-op, not an error.
func (c *Command) Execute() (bool, error) {
	if c.disposed {
		return false, ErrDisposed
	}
	if !c.enabled.Value() {
		c.logger.Debug("command rejected", "command", c.ID)
		return false, nil
	}

	c.executing.Publish(true)
	defer c.executing.Publish(false)

	if err := c.handler(); err != nil {
		c.logger.Debug("command failed", "command", c.ID, "error", err)
		return true, fmt.Errorf("command %q: %w", c.ID, err)
	}
	c.logger.Debug("command executed", "command", c.ID)
	return true, nil
}

// Dispose detaches the command from its signal. Later calls to Execute
// return ErrDisposed.
func (c *Command) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	c.enabled.Dispose()
	c.executing.Dispose()
}
