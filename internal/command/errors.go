package command

import "errors"

// Sentinel errors for commands.
var (
	// ErrNilHandler is returned when a command is created without a handler.
	ErrNilHandler = errors.New("command handler cannot be nil")

	// ErrNilCondition is returned when a command is created without a signal.
	ErrNilCondition = errors.New("command condition cannot be nil")

	// ErrNilHistory is returned when a gateway is created without a history.
	ErrNilHistory = errors.New("history cannot be nil")

	// ErrCommandNotFound is returned when no command has the requested ID.
	ErrCommandNotFound = errors.New("command not found")

	// ErrDisposed is returned when executing a disposed command.
	ErrDisposed = errors.New("command is disposed")
)
