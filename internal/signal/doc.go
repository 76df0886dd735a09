// Package signal provides deduplicated value streams used to broadcast
// capability state from the history engine to command and UI layers.
//
// A Signal holds the last published value and notifies its subscribers only
// when a newly published value differs from it:
//
//	canUndo := signal.New(false)
//	sub, _ := canUndo.Subscribe(func(v bool) {
//	    fmt.Println("can undo:", v)
//	})
//	defer sub.Cancel()
//
//	canUndo.Publish(true)  // prints "can undo: true"
//	canUndo.Publish(true)  // no output, value unchanged
//
// Signals do not replay: a subscriber attached late only sees future changes.
// Value reports the current value for callers that need to seed their own
// state, which is how Combine derives a signal from two others.
//
// # Thread Safety
//
// Signals are not safe for concurrent use. Publishing, subscribing and
// cancellation must happen on one goroutine, or be externally synchronized.
// Delivery is synchronous: Publish returns after every active subscriber
// has run.
package signal
