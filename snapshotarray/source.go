package snapshotarray

import (
	"context"
)

// Listener receives either a batch or an error from a Source, never both.
type Listener func(batch *QuerySnapshot, err error)

// Registration is the handle of an active source listener.
// Remove releases it. Calling Remove more than once has no further effect.
type Registration interface {
	Remove()
}

// Source adapts a backend query listener.
//
// Listen starts listening and delivers batches serially from one goroutine until the
// registration is removed, the context is canceled, or an error was delivered.
// An error delivered to the Listener terminates the listener; no batches follow it.
type Source interface {
	Listen(ctx context.Context, listener Listener) (Registration, error)
}

// RegistrationFunc adapts a function to Registration.
type RegistrationFunc func()

// Remove calls the function.
func (f RegistrationFunc) Remove() {
	f()
}
