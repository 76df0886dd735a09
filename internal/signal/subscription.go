package signal

import "github.com/google/uuid"

// SubscriptionState represents the state of a subscription.
type SubscriptionState int32

const (
	// SubscriptionStateActive means the subscription is receiving values.
	SubscriptionStateActive SubscriptionState = iota

	// SubscriptionStatePaused means the subscription is temporarily not receiving values.
	SubscriptionStatePaused

	// SubscriptionStateCancelled means the subscription has been permanently cancelled.
	SubscriptionStateCancelled
)

// String returns a human-readable state name.
func (s SubscriptionState) String() string {
	switch s {
	case SubscriptionStateActive:
		return "active"
	case SubscriptionStatePaused:
		return "paused"
	case SubscriptionStateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Subscription represents an attachment of a handler to a signal.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// State returns the current subscription state.
	State() SubscriptionState

	// IsActive returns true if the subscription receives values.
	IsActive() bool

	// Pause temporarily stops delivery to this subscription.
	// Values published while paused are not queued.
	Pause()

	// Resume restarts delivery after a pause.
	Resume()

	// Cancel detaches the subscription from its signal.
	// Cancelling twice is harmless.
	Cancel()
}

// subscription is the internal implementation of Subscription.
type subscription[T comparable] struct {
	id     string
	fn     func(T)
	state  SubscriptionState
	detach func(*subscription[T])
}

func newSubscription[T comparable](fn func(T), detach func(*subscription[T])) *subscription[T] {
	return &subscription[T]{
		id:     uuid.NewString(),
		fn:     fn,
		state:  SubscriptionStateActive,
		detach: detach,
	}
}

// ID returns the subscription ID.
func (s *subscription[T]) ID() string {
	return s.id
}

// State returns the current subscription state.
func (s *subscription[T]) State() SubscriptionState {
	return s.state
}

// IsActive returns true if the subscription is active.
func (s *subscription[T]) IsActive() bool {
	return s.state == SubscriptionStateActive
}

// Pause temporarily stops delivery.
func (s *subscription[T]) Pause() {
	if s.state == SubscriptionStateActive {
		s.state = SubscriptionStatePaused
	}
}

// Resume restarts delivery.
func (s *subscription[T]) Resume() {
	if s.state == SubscriptionStatePaused {
		s.state = SubscriptionStateActive
	}
}

// Cancel permanently cancels the subscription.
func (s *subscription[T]) Cancel() {
	if s.state == SubscriptionStateCancelled {
		return
	}
	s.state = SubscriptionStateCancelled
	if s.detach != nil {
		s.detach(s)
		s.detach = nil
	}
}

// deliver calls the handler if the subscription is active.
func (s *subscription[T]) deliver(v T) {
	if s.state != SubscriptionStateActive {
		return
	}
	s.fn(v)
}
