package firestoresource

import (
	"sync"

	"github.com/AntonStoeckl/observable-snapshots-go/snapshotarray"
)

// Option defines a functional option for configuring a Source.
type Option func(*Source) error

// WithLogger sets the logger for the Source.
//
// Debug level: every received query snapshot with its change count
// Info level: listener start and stop
// Error level: iterator failures that end the listener.
func WithLogger(logger snapshotarray.Logger) Option {
	return func(s *Source) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Source.
func WithContextualLogger(logger snapshotarray.ContextualLogger) Option {
	return func(s *Source) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithLocker makes the Source hold locker while it delivers a batch or an error.
func WithLocker(locker sync.Locker) Option {
	return func(s *Source) error {
		if locker == nil {
			return ErrNilLocker
		}

		s.locker = locker

		return nil
	}
}
