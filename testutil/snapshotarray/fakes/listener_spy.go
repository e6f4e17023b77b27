package fakes

import (
	"sync"

	"github.com/AntonStoeckl/observable-snapshots-go/snapshotarray"
)

// ListenerSpy is a ChangeEventListener that records every notification.
type ListenerSpy struct {
	mu           sync.Mutex
	events       []snapshotarray.ChildEvent
	dataChanged  int
	errors       []error
	onChild      func(snapshotarray.ChildEvent)
	onDataChange func()
}

// NewListenerSpy creates an empty ListenerSpy.
func NewListenerSpy() *ListenerSpy {
	return &ListenerSpy{}
}

// OnEachChild registers a hook that runs after each recorded ChildEvent.
func (l *ListenerSpy) OnEachChild(hook func(snapshotarray.ChildEvent)) *ListenerSpy {
	l.onChild = hook
	return l
}

// OnEachDataChange registers a hook that runs after each recorded OnDataChanged.
func (l *ListenerSpy) OnEachDataChange(hook func()) *ListenerSpy {
	l.onDataChange = hook
	return l
}

// OnChildChanged implements snapshotarray.ChangeEventListener.
func (l *ListenerSpy) OnChildChanged(event snapshotarray.ChildEvent) {
	l.mu.Lock()
	l.events = append(l.events, event)
	l.mu.Unlock()

	if l.onChild != nil {
		l.onChild(event)
	}
}

// OnDataChanged implements snapshotarray.ChangeEventListener.
func (l *ListenerSpy) OnDataChanged() {
	l.mu.Lock()
	l.dataChanged++
	l.mu.Unlock()

	if l.onDataChange != nil {
		l.onDataChange()
	}
}

// OnError implements snapshotarray.ChangeEventListener.
func (l *ListenerSpy) OnError(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.errors = append(l.errors, err)
}

// Events returns a copy of the recorded child events.
func (l *ListenerSpy) Events() []snapshotarray.ChildEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]snapshotarray.ChildEvent(nil), l.events...)
}

// EventTypes returns the types of the recorded child events in order.
func (l *ListenerSpy) EventTypes() []snapshotarray.ChangeEventType {
	l.mu.Lock()
	defer l.mu.Unlock()

	types := make([]snapshotarray.ChangeEventType, 0, len(l.events))
	for _, event := range l.events {
		types = append(types, event.Type)
	}

	return types
}

// DataChangedCount returns how often OnDataChanged was called.
func (l *ListenerSpy) DataChangedCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.dataChanged
}

// Errors returns a copy of the recorded errors.
func (l *ListenerSpy) Errors() []error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]error(nil), l.errors...)
}

var _ snapshotarray.ChangeEventListener = (*ListenerSpy)(nil)
