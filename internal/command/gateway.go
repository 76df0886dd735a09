package command

import (
	"log/slog"

	"github.com/dshills/histctl/internal/engine/history"
	"github.com/dshills/histctl/internal/signal"
)

// Command IDs registered by a Gateway.
const (
	UndoID  = "history.undo"
	RedoID  = "history.redo"
	ClearID = "history.clear"
)

// Gateway exposes gated undo, redo and clear commands for a history.
//
//   - Undo is enabled while CanSnapshot and CanUndo are both true.
//   - Redo is enabled while CanSnapshot and CanRedo are both true.
//   - Clear is enabled while CanClear is true.
type Gateway struct {
	history history.History

	canUndo *signal.Derived[bool]
	canRedo *signal.Derived[bool]

	undo  *Command
	redo  *Command
	clear *Command

	commands []*Command
	byID     map[string]*Command
	logger   *slog.Logger
	disposed bool
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithLogger sets the logger passed to the gateway's commands.
func WithLogger(logger *slog.Logger) GatewayOption {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGateway binds undo, redo and clear commands to h.
func NewGateway(h history.History, opts ...GatewayOption) (*Gateway, error) {
	if h == nil {
		return nil, ErrNilHistory
	}

	g := &Gateway{
		history: h,
		byID:    make(map[string]*Command),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}

	if err := g.build(); err != nil {
		g.Dispose()
		return nil, err
	}
	return g, nil
}

func (g *Gateway) build() error {
	var err error

	if g.canUndo, err = signal.And(g.history.CanSnapshot(), g.history.CanUndo()); err != nil {
		return err
	}
	if g.canRedo, err = signal.And(g.history.CanSnapshot(), g.history.CanRedo()); err != nil {
		return err
	}

	if g.undo, err = g.register(UndoID, "Undo", g.history.Undo, g.canUndo); err != nil {
		return err
	}
	if g.redo, err = g.register(RedoID, "Redo", g.history.Redo, g.canRedo); err != nil {
		return err
	}
	if g.clear, err = g.register(ClearID, "Clear History", g.history.Clear, g.history.CanClear()); err != nil {
		return err
	}
	return nil
}

func (g *Gateway) register(id, title string, handler Handler, canExecute signal.Observable[bool]) (*Command, error) {
	cmd, err := New(id, title, handler, canExecute, WithCommandLogger(g.logger.With("component", "command")))
	if err != nil {
		return nil, err
	}
	g.commands = append(g.commands, cmd)
	g.byID[id] = cmd
	return cmd, nil
}

// History returns the underlying history.
func (g *Gateway) History() history.History {
	return g.history
}

// CanSnapshot forwards the history's CanSnapshot signal.
func (g *Gateway) CanSnapshot() signal.Observable[bool] {
	return g.history.CanSnapshot()
}

// Undo returns the undo command.
func (g *Gateway) Undo() *Command {
	return g.undo
}

// Redo returns the redo command.
func (g *Gateway) Redo() *Command {
	return g.redo
}

// Clear returns the clear command.
func (g *Gateway) Clear() *Command {
	return g.clear
}

// Commands returns the gateway's commands in registration order.
func (g *Gateway) Commands() []*Command {
	result := make([]*Command, len(g.commands))
	copy(result, g.commands)
	return result
}

// Get returns the command with the given ID, or nil.
func (g *Gateway) Get(id string) *Command {
	return g.byID[id]
}

// Execute runs the command with the given ID if it is enabled.
func (g *Gateway) Execute(id string) (bool, error) {
	cmd, ok := g.byID[id]
	if !ok {
		return false, ErrCommandNotFound
	}
	return cmd.Execute()
}

// Dispose releases the commands and their derived signals. The history
// itself is left to its owner.
func (g *Gateway) Dispose() {
	if g.disposed {
		return
	}
	g.disposed = true

	for _, cmd := range g.commands {
		cmd.Dispose()
	}
	if g.canUndo != nil {
		g.canUndo.Dispose()
	}
	if g.canRedo != nil {
		g.canRedo.Dispose()
	}
}
