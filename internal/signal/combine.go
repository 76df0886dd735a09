package signal

// Derived is a signal computed from the latest values of upstream signals.
// It re-evaluates synchronously whenever an upstream signal changes, so its
// value is up to date before the upstream Publish call returns.
type Derived[T comparable] struct {
	sig      *Signal[T]
	upstream []Subscription
}

// Combine derives a signal from a and b using fn. The derived value is
// seeded from the current values of a and b.
func Combine[A, B, T comparable](a Observable[A], b Observable[B], fn func(A, B) T) (*Derived[T], error) {
	la, lb := a.Value(), b.Value()
	d := &Derived[T]{sig: New(fn(la, lb))}

	subA, err := a.Subscribe(func(v A) {
		la = v
		d.sig.Publish(fn(la, lb))
	})
	if err != nil {
		return nil, err
	}

	subB, err := b.Subscribe(func(v B) {
		lb = v
		d.sig.Publish(fn(la, lb))
	})
	if err != nil {
		subA.Cancel()
		return nil, err
	}

	d.upstream = []Subscription{subA, subB}
	return d, nil
}

// And derives a signal that is true while both a and b are true.
func And(a, b Observable[bool]) (*Derived[bool], error) {
	return Combine(a, b, func(x, y bool) bool { return x && y })
}

// Follow derives a signal that mirrors src. It gives a caller its own
// disposable handle on a signal it does not own.
func Follow[T comparable](src Observable[T]) (*Derived[T], error) {
	d := &Derived[T]{sig: New(src.Value())}
	sub, err := src.Subscribe(func(v T) {
		d.sig.Publish(v)
	})
	if err != nil {
		return nil, err
	}
	d.upstream = []Subscription{sub}
	return d, nil
}

// Dispose detaches from the upstream signals and disposes the derived signal.
func (d *Derived[T]) Dispose() {
	for _, sub := range d.upstream {
		sub.Cancel()
	}
	d.upstream = nil
	d.sig.Dispose()
}

// Subscribe attaches fn to the derived signal.
func (d *Derived[T]) Subscribe(fn func(T)) (Subscription, error) {
	return d.sig.Subscribe(fn)
}

// Value returns the current derived value.
func (d *Derived[T]) Value() T {
	return d.sig.Value()
}

// IsDisposed returns true once Dispose has been called.
func (d *Derived[T]) IsDisposed() bool {
	return d.sig.IsDisposed()
}
