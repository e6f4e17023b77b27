package fakes

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/observable-snapshots-go/snapshotarray"
)

// Source is a scriptable snapshotarray.Source. Deliveries happen synchronously on the calling goroutine.
type Source struct {
	mu           sync.Mutex
	listener     snapshotarray.Listener
	listenErr    error
	initial      *snapshotarray.QuerySnapshot
	listenCalls  int
	removeCalls  int
	listenCtx    context.Context
	registration *registration
}

// NewSource creates a Source without an initial batch.
func NewSource() *Source {
	return &Source{}
}

// FailListenWith makes the next Listen calls fail with err.
func (s *Source) FailListenWith(err error) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listenErr = err

	return s
}

// WithInitialBatch makes Listen deliver batch synchronously before it returns.
func (s *Source) WithInitialBatch(batch *snapshotarray.QuerySnapshot) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initial = batch

	return s
}

// Listen implements snapshotarray.Source.
func (s *Source) Listen(ctx context.Context, listener snapshotarray.Listener) (snapshotarray.Registration, error) {
	s.mu.Lock()
	s.listenCalls++

	if s.listenErr != nil {
		err := s.listenErr
		s.mu.Unlock()

		return nil, err
	}

	reg := &registration{source: s}
	s.listener = listener
	s.listenCtx = ctx
	s.registration = reg
	initial := s.initial
	s.mu.Unlock()

	if initial != nil {
		s.deliver(reg, initial, nil)
	}

	return reg, nil
}

// Deliver sends a batch made of the given changes to the active listener.
func (s *Source) Deliver(changes ...snapshotarray.DocumentChange) {
	s.mu.Lock()
	reg := s.registration
	s.mu.Unlock()

	s.deliver(reg, &snapshotarray.QuerySnapshot{Changes: changes}, nil)
}

// Fail sends an upstream failure to the active listener.
func (s *Source) Fail(err error) {
	s.mu.Lock()
	reg := s.registration
	s.mu.Unlock()

	s.deliver(reg, nil, err)
}

func (s *Source) deliver(reg *registration, batch *snapshotarray.QuerySnapshot, err error) {
	s.mu.Lock()
	listener := s.listener
	active := reg != nil && !reg.removed
	s.mu.Unlock()

	if listener == nil || !active {
		return
	}

	listener(batch, err)
}

// DeliverStale sends a batch through the most recent listener even if its registration was removed.
// It simulates a delivery racing with Remove.
func (s *Source) DeliverStale(changes ...snapshotarray.DocumentChange) {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener(&snapshotarray.QuerySnapshot{Changes: changes}, nil)
	}
}

// ListenCalls returns how often Listen was called.
func (s *Source) ListenCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.listenCalls
}

// RemoveCalls returns how often a registration was removed.
func (s *Source) RemoveCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.removeCalls
}

// ListenContext returns the context of the most recent Listen call.
func (s *Source) ListenContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.listenCtx
}

type registration struct {
	source  *Source
	removed bool
}

func (r *registration) Remove() {
	r.source.mu.Lock()
	defer r.source.mu.Unlock()

	r.source.removeCalls++
	r.removed = true
}

var _ snapshotarray.Source = (*Source)(nil)
