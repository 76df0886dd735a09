package history

import "log/slog"

// Option configures a Stack.
type Option func(*Stack)

// WithMaxEntries caps the undo stack. When a snapshot pushes the stack past
// n entries the oldest are dropped. Zero or a negative n means unbounded.
func WithMaxEntries(n int) Option {
	return func(s *Stack) {
		if n < 0 {
			n = 0
		}
		s.maxEntries = n
	}
}

// WithLogger sets the logger used for per-operation debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Stack) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// discardLogger drops everything.
func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
