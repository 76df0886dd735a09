package signal

// Observable is the read-only side of a signal.
type Observable[T comparable] interface {
	// Subscribe attaches fn, which is called with every future change.
	Subscribe(fn func(T)) (Subscription, error)

	// Value returns the last published value.
	Value() T
}

// Signal is a deduplicated, non-replaying broadcast of values of type T.
type Signal[T comparable] struct {
	value    T
	subs     []*subscription[T]
	seq      uint64 // bumped on every delivered publish
	disposed bool
}

// New creates a signal holding initial. The initial value is not emitted.
func New[T comparable](initial T) *Signal[T] {
	return &Signal[T]{value: initial}
}

// Value returns the last published value.
func (s *Signal[T]) Value() T {
	return s.value
}

// Publish sets the value and notifies subscribers if it changed.
// It returns true if subscribers were notified. Publishing on a disposed
// signal is a no-op.
func (s *Signal[T]) Publish(v T) bool {
	if s.disposed || v == s.value {
		return false
	}
	s.value = v
	s.seq++
	seq := s.seq

	// Handlers may subscribe, cancel or publish while we iterate.
	subs := make([]*subscription[T], len(s.subs))
	copy(subs, s.subs)
	for _, sub := range subs {
		if s.seq != seq {
			// A handler published again, possibly back to v. Later
			// subscribers already saw the newer publishes.
			break
		}
		sub.deliver(v)
	}
	return true
}

// Subscribe attaches fn to the signal.
func (s *Signal[T]) Subscribe(fn func(T)) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	if s.disposed {
		return nil, ErrDisposed
	}

	sub := newSubscription(fn, s.remove)
	s.subs = append(s.subs, sub)
	return sub, nil
}

// SubscriberCount returns the number of attached subscriptions,
// including paused ones.
func (s *Signal[T]) SubscriberCount() int {
	return len(s.subs)
}

// Dispose cancels every subscription and stops further publishing.
func (s *Signal[T]) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true

	subs := s.subs
	s.subs = nil
	for _, sub := range subs {
		sub.detach = nil
		sub.Cancel()
	}
}

// IsDisposed returns true once Dispose has been called.
func (s *Signal[T]) IsDisposed() bool {
	return s.disposed
}

// remove detaches a cancelled subscription.
func (s *Signal[T]) remove(target *subscription[T]) {
	for i, sub := range s.subs {
		if sub == target {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}
