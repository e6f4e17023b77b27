package snapshotarray

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

const (
	defaultArrayName          = "default"
	logMsgActivated           = "snapshot array activated"
	logMsgDeactivated         = "snapshot array deactivated"
	logMsgListenFailed        = "starting the source listener failed"
	logMsgUpstreamFailed      = "upstream listener failed"
	logMsgBatchRejected       = "batch rejected"
	logMsgBatchApplied        = "batch applied"
	logMsgChangeApplied       = "change applied"
	logMsgSubscribed          = "listener subscribed"
	logMsgUnsubscribed        = "listener unsubscribed"
	logMsgParseFailed         = "parsing snapshot failed"
	logAttrArray              = "array"
	logAttrError              = "error"
	logAttrSubscriptionID     = "subscription_id"
	logAttrSubscriptionCount  = "subscription_count"
	logAttrChangeCount        = "change_count"
	logAttrChangeType         = "change_type"
	logAttrDocumentID         = "document_id"
	logAttrNewIndex           = "new_index"
	logAttrOldIndex           = "old_index"
	logAttrSize               = "size"
	logAttrDurationMS         = "duration_ms"
	metricBatchesTotal        = "snapshotarray_batches_total"
	metricChangesTotal        = "snapshotarray_changes_total"
	metricBatchDuration       = "snapshotarray_batch_duration_seconds"
	metricSize                = "snapshotarray_size"
	metricListenErrorsTotal   = "snapshotarray_listen_errors_total"
	metricParseErrorsTotal    = "snapshotarray_parse_errors_total"
	spanNameApplyBatch        = "snapshotarray.apply_batch"
	spanAttrArray             = "array"
	spanAttrChangeCount       = "change_count"
	spanAttrSize              = "size"
	spanAttrErrorType         = "error_type"
	labelArray                = "array"
	labelStatus               = "status"
	labelChangeType           = "change_type"
	labelErrorType            = "error_type"
	statusSuccess             = "success"
	statusError               = "error"
	errorTypeUpstream         = "upstream"
	errorTypeInconsistentData = "inconsistent_batch"
	errorTypeListen           = "listen"
	errorTypeParse            = "parse"
)

// Array exposes a Source as an observable ordered list of snapshots, parsed lazily into T.
//
// The Array starts listening to its Source when the first ChangeEventListener subscribes and stops
// when the last one unsubscribes. Every DocumentChange delivered by the Source is applied to the
// in-memory sequence and reported as exactly one ChildEvent; every batch ends with OnDataChanged.
//
// An Array does no internal locking. It is confined to the goroutine its Source delivers on:
// read it inside listener callbacks or from code that is otherwise serialized with the delivery.
type Array[T any] struct {
	source Source
	parser Parser[T]
	config

	snapshots      []Snapshot
	cache          map[string]T
	subscriptions  []*Subscription
	registration   Registration
	listenCtx      context.Context
	listening      bool
	hasDataChanged bool
	generation     uint64
}

// Subscription is the handle of one ChangeEventListener registered with an Array.
type Subscription struct {
	id       string
	listener ChangeEventListener
	remove   func(*Subscription)
	removed  bool
}

// ID returns the unique id of the subscription, as used in log attributes.
func (s *Subscription) ID() string {
	return s.id
}

// Active reports whether the subscription still receives notifications.
func (s *Subscription) Active() bool {
	return !s.removed
}

// Unsubscribe stops notifications for this listener. Unsubscribing the last listener stops the Array.
// Calling Unsubscribe more than once has no further effect.
func (s *Subscription) Unsubscribe() {
	if s.removed {
		return
	}

	s.remove(s)
}

// NewArray creates an Array over the source that parses snapshots with the given parser.
func NewArray[T any](source Source, parser Parser[T], options ...Option) (*Array[T], error) {
	if source == nil {
		return nil, ErrNilSource
	}

	if parser == nil {
		return nil, ErrNilParser
	}

	a := &Array[T]{
		source: source,
		parser: parser,
		config: config{name: defaultArrayName},
		cache:  make(map[string]T),
	}

	for _, option := range options {
		if err := option(&a.config); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// NewArrayOf creates an Array that decodes each snapshot into a T via Snapshot.DataTo.
func NewArrayOf[T any](source Source, options ...Option) (*Array[T], error) {
	return NewArray[T](source, DataParser[T](), options...)
}

// Subscribe registers a listener.
//
// If the Array is already listening, the listener first receives an Added event for every current
// snapshot and, if a batch was applied before, one OnDataChanged. The first subscription starts
// listening to the Source with ctx; canceling ctx ends the upstream listener.
func (a *Array[T]) Subscribe(ctx context.Context, listener ChangeEventListener) (*Subscription, error) {
	if listener == nil {
		return nil, ErrNilListener
	}

	wasListening := a.listening

	sub := &Subscription{
		id:       newSubscriptionID(),
		listener: listener,
		remove:   a.unsubscribe,
	}
	a.subscriptions = append(a.subscriptions, sub)

	for i, snapshot := range a.snapshots {
		listener.OnChildChanged(ChildEvent{Type: Added, Snapshot: snapshot, NewIndex: i, OldIndex: NoIndex})
	}

	if a.hasDataChanged {
		listener.OnDataChanged()
	}

	if !wasListening {
		if err := a.activate(ctx); err != nil {
			a.dropSubscription(sub)
			return nil, err
		}
	}

	a.logDebug(ctx, logMsgSubscribed, logAttrSubscriptionID, sub.id, logAttrSubscriptionCount, len(a.subscriptions))

	return sub, nil
}

// UnsubscribeAll removes every listener, which stops the Array.
func (a *Array[T]) UnsubscribeAll() {
	for _, sub := range slices.Clone(a.subscriptions) {
		sub.Unsubscribe()
	}
}

// IsListening reports whether the Array currently listens to its Source.
func (a *Array[T]) IsListening() bool {
	return a.listening
}

// Len returns the number of snapshots in the sequence.
func (a *Array[T]) Len() int {
	return len(a.snapshots)
}

// Snapshot returns the snapshot at index.
func (a *Array[T]) Snapshot(index int) (Snapshot, error) {
	if index < 0 || index >= len(a.snapshots) {
		return nil, fmt.Errorf("%w: index %d, sequence length %d", ErrIndexOutOfRange, index, len(a.snapshots))
	}

	return a.snapshots[index], nil
}

// Snapshots returns a copy of the current sequence.
func (a *Array[T]) Snapshots() []Snapshot {
	return slices.Clone(a.snapshots)
}

// Get returns the snapshot at index parsed into a T. Parsed objects are cached per snapshot id
// until the snapshot changes, moves or is removed.
func (a *Array[T]) Get(index int) (T, error) {
	var zero T

	snapshot, err := a.Snapshot(index)
	if err != nil {
		return zero, err
	}

	if model, ok := a.cache[snapshot.ID()]; ok {
		return model, nil
	}

	model, parseErr := a.parser(snapshot)
	if parseErr != nil {
		a.logError(a.currentContext(), logMsgParseFailed, parseErr, logAttrDocumentID, snapshot.ID())
		a.recordErrorMetrics(a.currentContext(), metricParseErrorsTotal, errorTypeParse)

		return zero, errors.Join(ErrParsingSnapshotFailed, parseErr)
	}

	a.cache[snapshot.ID()] = model

	return model, nil
}

// Items parses and returns all snapshots in order.
func (a *Array[T]) Items() ([]T, error) {
	items := make([]T, 0, len(a.snapshots))

	for i := range a.snapshots {
		item, err := a.Get(i)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}

func (a *Array[T]) activate(ctx context.Context) error {
	a.listening = true
	a.listenCtx = ctx

	registration, err := a.source.Listen(ctx, a.onEvent)
	if err != nil {
		a.listening = false
		a.listenCtx = nil
		a.logError(ctx, logMsgListenFailed, err)
		a.recordErrorMetrics(ctx, metricListenErrorsTotal, errorTypeListen)

		return errors.Join(ErrListenFailed, err)
	}

	if !a.listening {
		// the last listener unsubscribed while the source delivered synchronously within Listen
		registration.Remove()
		return nil
	}

	a.registration = registration
	a.logInfo(ctx, logMsgActivated)

	return nil
}

func (a *Array[T]) deactivate() {
	ctx := a.currentContext()

	if a.registration != nil {
		a.registration.Remove()
	}

	a.registration = nil
	a.generation++
	a.listening = false
	a.listenCtx = nil
	a.hasDataChanged = false
	a.snapshots = nil
	clear(a.cache)

	a.logInfo(ctx, logMsgDeactivated)
}

func (a *Array[T]) unsubscribe(sub *Subscription) {
	a.dropSubscription(sub)
	a.logDebug(a.currentContext(), logMsgUnsubscribed, logAttrSubscriptionID, sub.id, logAttrSubscriptionCount, len(a.subscriptions))

	if len(a.subscriptions) == 0 && a.listening {
		a.deactivate()
	}
}

func (a *Array[T]) dropSubscription(sub *Subscription) {
	sub.removed = true
	a.subscriptions = slices.DeleteFunc(a.subscriptions, func(s *Subscription) bool {
		return s == sub
	})
}

// onEvent is the Listener handed to the Source.
func (a *Array[T]) onEvent(batch *QuerySnapshot, err error) {
	if !a.listening {
		return
	}

	ctx := a.currentContext()

	if err != nil {
		a.logError(ctx, logMsgUpstreamFailed, err)
		a.recordErrorMetrics(ctx, metricListenErrorsTotal, errorTypeUpstream)
		a.notifyError(err)

		return
	}

	var changes []DocumentChange
	if batch != nil {
		changes = batch.Changes
	}

	start := time.Now()
	ctx, span := a.startBatchSpan(ctx, len(changes))

	if validateErr := a.validate(changes); validateErr != nil {
		a.logError(ctx, logMsgBatchRejected, validateErr, logAttrChangeCount, len(changes))
		a.recordErrorMetrics(ctx, metricListenErrorsTotal, errorTypeInconsistentData)
		a.recordDurationMetrics(ctx, metricBatchDuration, time.Since(start), statusError)
		a.finishBatchSpan(span, statusError, map[string]string{spanAttrErrorType: errorTypeInconsistentData})
		a.notifyError(validateErr)

		return
	}

	generation := a.generation

	for _, change := range changes {
		snapshots, event, applyErr := ApplyChange(a.snapshots, change)
		if applyErr != nil {
			// validated above, so the sequence was replaced from within a callback
			a.finishBatchSpan(span, statusError, map[string]string{spanAttrErrorType: errorTypeInconsistentData})
			return
		}

		a.snapshots = snapshots

		if event.Type != Added {
			delete(a.cache, event.Snapshot.ID())
		}

		a.logDebug(ctx, logMsgChangeApplied,
			logAttrChangeType, event.Type.String(),
			logAttrDocumentID, event.Snapshot.ID(),
			logAttrNewIndex, event.NewIndex,
			logAttrOldIndex, event.OldIndex)
		a.recordChangeMetrics(ctx, event.Type)
		a.notifyChildChanged(event)

		if !a.listening || a.generation != generation {
			// the last listener unsubscribed from within a callback, possibly followed by a new subscription
			a.finishBatchSpan(span, statusSuccess, nil)
			return
		}
	}

	a.hasDataChanged = true
	a.notifyDataChanged()

	duration := time.Since(start)
	a.logInfo(ctx, logMsgBatchApplied,
		logAttrChangeCount, len(changes),
		logAttrSize, len(a.snapshots),
		logAttrDurationMS, toMilliseconds(duration))
	a.recordBatchMetrics(ctx, duration)
	a.finishBatchSpan(span, statusSuccess, map[string]string{spanAttrSize: fmt.Sprintf("%d", len(a.snapshots))})
}

// validate applies the changes to a scratch copy so that an inconsistent batch never touches the sequence.
func (a *Array[T]) validate(changes []DocumentChange) error {
	scratch := slices.Clone(a.snapshots)

	for i, change := range changes {
		var err error

		scratch, _, err = ApplyChange(scratch, change)
		if err != nil {
			return fmt.Errorf("%w: change %d of %d: %w", ErrInconsistentBatch, i+1, len(changes), err)
		}
	}

	return nil
}

func (a *Array[T]) notifyChildChanged(event ChildEvent) {
	for _, sub := range slices.Clone(a.subscriptions) {
		if sub.Active() {
			sub.listener.OnChildChanged(event)
		}
	}
}

func (a *Array[T]) notifyDataChanged() {
	for _, sub := range slices.Clone(a.subscriptions) {
		if sub.Active() {
			sub.listener.OnDataChanged()
		}
	}
}

func (a *Array[T]) notifyError(err error) {
	for _, sub := range slices.Clone(a.subscriptions) {
		if sub.Active() {
			sub.listener.OnError(err)
		}
	}
}

func (a *Array[T]) currentContext() context.Context {
	if a.listenCtx != nil {
		return a.listenCtx
	}

	return context.Background()
}

func newSubscriptionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}
