package signal

import "errors"

// Sentinel errors for signals.
var (
	// ErrNilHandler is returned when Subscribe is called with a nil function.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrDisposed is returned when subscribing to a disposed signal.
	ErrDisposed = errors.New("signal is disposed")
)
