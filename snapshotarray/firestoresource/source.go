package firestoresource

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/AntonStoeckl/observable-snapshots-go/snapshotarray"
)

const (
	logMsgListenerStarted  = "firestore listener started"
	logMsgListenerStopped  = "firestore listener stopped"
	logMsgListenerFailed   = "firestore listener failed"
	logMsgSnapshotReceived = "query snapshot received"
	logAttrChangeCount     = "change_count"
	logAttrReadTime        = "read_time"
	logAttrError           = "error"
)

var (
	// ErrNilListener is returned when Listen is called without a listener.
	ErrNilListener = errors.New("listener must not be nil")

	// ErrNilLocker is returned when WithLocker is given a nil locker.
	ErrNilLocker = errors.New("locker must not be nil")
)

// snapshotIterator is the subset of *firestore.QuerySnapshotIterator the Source uses.
type snapshotIterator interface {
	Next() (*firestore.QuerySnapshot, error)
	Stop()
}

// Source is a snapshotarray.Source that listens to a Firestore query.
type Source struct {
	newIterator      func(ctx context.Context) snapshotIterator
	logger           snapshotarray.Logger
	contextualLogger snapshotarray.ContextualLogger
	locker           sync.Locker
}

// New creates a Source for the query. A *firestore.CollectionRef can be passed via its Query field.
func New(query firestore.Query, options ...Option) (*Source, error) {
	return newSource(func(ctx context.Context) snapshotIterator {
		return query.Snapshots(ctx)
	}, options...)
}

func newSource(newIterator func(ctx context.Context) snapshotIterator, options ...Option) (*Source, error) {
	s := &Source{newIterator: newIterator}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Listen implements snapshotarray.Source.
//
// The listener runs until Remove is called, ctx is canceled, or the iterator fails.
// A failure is delivered once and then ends the listener.
func (s *Source) Listen(ctx context.Context, listener snapshotarray.Listener) (snapshotarray.Registration, error) {
	if listener == nil {
		return nil, ErrNilListener
	}

	listenCtx, cancel := context.WithCancel(ctx)
	reg := &registration{cancel: cancel}
	it := s.newIterator(listenCtx)

	s.logInfo(ctx, logMsgListenerStarted)

	go s.run(listenCtx, it, reg, listener)

	return reg, nil
}

func (s *Source) run(ctx context.Context, it snapshotIterator, reg *registration, listener snapshotarray.Listener) {
	defer it.Stop()

	for {
		qs, err := it.Next()
		if reg.isRemoved() {
			s.logInfo(ctx, logMsgListenerStopped)
			return
		}

		if err != nil {
			if errors.Is(err, iterator.Done) || ctx.Err() != nil {
				s.logInfo(ctx, logMsgListenerStopped)
				return
			}

			s.logError(ctx, logMsgListenerFailed, err)
			s.deliver(reg, listener, nil, err)

			return
		}

		batch := toBatch(qs)
		s.logDebug(ctx, logMsgSnapshotReceived, logAttrChangeCount, len(batch.Changes), logAttrReadTime, batch.ReadTime)
		s.deliver(reg, listener, batch, nil)
	}
}

func (s *Source) deliver(reg *registration, listener snapshotarray.Listener, batch *snapshotarray.QuerySnapshot, err error) {
	if s.locker != nil {
		s.locker.Lock()
		defer s.locker.Unlock()
	}

	// Remove may have been called while waiting for the lock
	if reg.isRemoved() {
		return
	}

	listener(batch, err)
}

func toBatch(qs *firestore.QuerySnapshot) *snapshotarray.QuerySnapshot {
	batch := &snapshotarray.QuerySnapshot{
		Changes:  make([]snapshotarray.DocumentChange, 0, len(qs.Changes)),
		ReadTime: qs.ReadTime,
	}

	for _, change := range qs.Changes {
		batch.Changes = append(batch.Changes, snapshotarray.DocumentChange{
			Kind:     toChangeKind(change.Kind),
			Doc:      NewDocument(change.Doc),
			OldIndex: change.OldIndex,
			NewIndex: change.NewIndex,
		})
	}

	return batch
}

func toChangeKind(kind firestore.DocumentChangeKind) snapshotarray.ChangeKind {
	switch kind {
	case firestore.DocumentAdded:
		return snapshotarray.DocumentAdded
	case firestore.DocumentRemoved:
		return snapshotarray.DocumentRemoved
	case firestore.DocumentModified:
		return snapshotarray.DocumentModified
	default:
		// rejected by the Array as an unknown kind
		return snapshotarray.ChangeKind(-1)
	}
}

type registration struct {
	cancel  context.CancelFunc
	once    sync.Once
	removed atomic.Bool
}

// Remove ends the listener. The iterator is stopped by the listener goroutine when it exits.
func (r *registration) Remove() {
	r.once.Do(func() {
		r.removed.Store(true)
		r.cancel()
	})
}

func (r *registration) isRemoved() bool {
	return r.removed.Load()
}

func (s *Source) logDebug(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.DebugContext(ctx, msg, args...)
	}
}

func (s *Source) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.InfoContext(ctx, msg, args...)
	}
}

func (s *Source) logError(ctx context.Context, msg string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	if s.logger != nil {
		s.logger.Error(msg, allArgs...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.ErrorContext(ctx, msg, allArgs...)
	}
}

var _ snapshotarray.Source = (*Source)(nil)
