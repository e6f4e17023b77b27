package firestoresource

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/iterator"

	"github.com/AntonStoeckl/observable-snapshots-go/snapshotarray"
	"github.com/AntonStoeckl/observable-snapshots-go/testutil/observability/testdoubles"
	"github.com/AntonStoeckl/observable-snapshots-go/testutil/snapshotarray/fakes"
)

const waitFor = 2 * time.Second
const tick = 5 * time.Millisecond

type iteratorResult struct {
	snapshot *firestore.QuerySnapshot
	err      error
}

type fakeIterator struct {
	results   chan iteratorResult
	ctx       atomic.Value
	stopCalls atomic.Int32
}

func newFakeIterator() *fakeIterator {
	return &fakeIterator{results: make(chan iteratorResult, 16)}
}

func (f *fakeIterator) Next() (*firestore.QuerySnapshot, error) {
	ctx := f.ctx.Load().(context.Context)

	select {
	case result := <-f.results:
		return result.snapshot, result.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *fakeIterator) Stop() {
	f.stopCalls.Add(1)
}

func (f *fakeIterator) push(changes ...firestore.DocumentChange) {
	f.results <- iteratorResult{snapshot: &firestore.QuerySnapshot{Changes: changes, ReadTime: time.Unix(1700000000, 0)}}
}

func (f *fakeIterator) fail(err error) {
	f.results <- iteratorResult{err: err}
}

func givenSource(t *testing.T, it *fakeIterator, options ...Option) *Source {
	t.Helper()

	source, err := newSource(func(ctx context.Context) snapshotIterator {
		it.ctx.Store(ctx)
		return it
	}, options...)
	require.NoError(t, err)

	return source
}

func docSnapshot(id string) *firestore.DocumentSnapshot {
	return &firestore.DocumentSnapshot{Ref: &firestore.DocumentRef{ID: id}}
}

type recordingListener struct {
	mu      sync.Mutex
	batches []*snapshotarray.QuerySnapshot
	errs    []error
}

func (r *recordingListener) listen(batch *snapshotarray.QuerySnapshot, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		r.errs = append(r.errs, err)
		return
	}

	r.batches = append(r.batches, batch)
}

func (r *recordingListener) batchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.batches)
}

func (r *recordingListener) errorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.errs)
}

func Test_Listen_ForwardsQuerySnapshotsAsBatches(t *testing.T) {
	// arrange
	it := newFakeIterator()
	source := givenSource(t, it)
	listener := &recordingListener{}

	// act
	reg, err := source.Listen(context.Background(), listener.listen)
	require.NoError(t, err)
	defer reg.Remove()

	it.push(
		firestore.DocumentChange{Kind: firestore.DocumentAdded, Doc: docSnapshot("a"), OldIndex: -1, NewIndex: 0},
		firestore.DocumentChange{Kind: firestore.DocumentAdded, Doc: docSnapshot("b"), OldIndex: -1, NewIndex: 1},
	)
	it.push(
		firestore.DocumentChange{Kind: firestore.DocumentRemoved, Doc: docSnapshot("a"), OldIndex: 0, NewIndex: -1},
		firestore.DocumentChange{Kind: firestore.DocumentModified, Doc: docSnapshot("b"), OldIndex: 0, NewIndex: 0},
	)

	// assert
	assert.Eventually(t, func() bool { return listener.batchCount() == 2 }, waitFor, tick)

	listener.mu.Lock()
	defer listener.mu.Unlock()

	first, second := listener.batches[0], listener.batches[1]
	assert.Equal(t, time.Unix(1700000000, 0), first.ReadTime)
	require.Len(t, first.Changes, 2)
	assert.Equal(t, snapshotarray.DocumentAdded, first.Changes[0].Kind)
	assert.Equal(t, "a", first.Changes[0].Doc.ID())
	assert.Equal(t, snapshotarray.NoIndex, first.Changes[0].OldIndex)
	assert.Equal(t, 1, first.Changes[1].NewIndex)

	require.Len(t, second.Changes, 2)
	assert.Equal(t, snapshotarray.DocumentRemoved, second.Changes[0].Kind)
	assert.Equal(t, 0, second.Changes[0].OldIndex)
	assert.Equal(t, snapshotarray.DocumentModified, second.Changes[1].Kind)
	assert.Equal(t, "b", second.Changes[1].Doc.ID())
}

func Test_Listen_RejectsNilListener(t *testing.T) {
	// arrange
	source := givenSource(t, newFakeIterator())

	// act
	reg, err := source.Listen(context.Background(), nil)

	// assert
	assert.ErrorIs(t, err, ErrNilListener)
	assert.Nil(t, reg)
}

func Test_Listen_IteratorError_IsForwardedOnceAndEndsTheListener(t *testing.T) {
	// arrange
	it := newFakeIterator()
	handler := testdoubles.NewLogHandlerSpy(false)
	source := givenSource(t, it, WithLogger(slog.New(handler)))
	listener := &recordingListener{}
	upstreamErr := errors.New("rpc error: code = PermissionDenied")

	reg, err := source.Listen(context.Background(), listener.listen)
	require.NoError(t, err)
	defer reg.Remove()

	// act
	it.fail(upstreamErr)
	it.push()

	// assert
	assert.Eventually(t, func() bool { return it.stopCalls.Load() == 1 }, waitFor, tick)
	assert.Equal(t, 1, listener.errorCount())
	assert.Equal(t, 0, listener.batchCount())
	assert.True(t, handler.HasLogWithMessage(slog.LevelError, logMsgListenerFailed).WithAttrValue(logAttrError, upstreamErr.Error()).Assert())
}

func Test_Listen_IteratorDone_EndsQuietly(t *testing.T) {
	// arrange
	it := newFakeIterator()
	source := givenSource(t, it)
	listener := &recordingListener{}

	_, err := source.Listen(context.Background(), listener.listen)
	require.NoError(t, err)

	// act
	it.fail(iterator.Done)

	// assert
	assert.Eventually(t, func() bool { return it.stopCalls.Load() == 1 }, waitFor, tick)
	assert.Equal(t, 0, listener.errorCount())
}

func Test_Listen_ContextCancellation_EndsQuietly(t *testing.T) {
	// arrange
	it := newFakeIterator()
	source := givenSource(t, it)
	listener := &recordingListener{}
	ctx, cancel := context.WithCancel(context.Background())

	_, err := source.Listen(ctx, listener.listen)
	require.NoError(t, err)

	// act
	cancel()

	// assert
	assert.Eventually(t, func() bool { return it.stopCalls.Load() == 1 }, waitFor, tick)
	assert.Equal(t, 0, listener.errorCount())
}

func Test_Remove_StopsTheIteratorOnceAndSuppressesDeliveries(t *testing.T) {
	// arrange
	it := newFakeIterator()
	source := givenSource(t, it)
	listener := &recordingListener{}

	reg, err := source.Listen(context.Background(), listener.listen)
	require.NoError(t, err)

	// act
	reg.Remove()
	reg.Remove()
	it.push(firestore.DocumentChange{Kind: firestore.DocumentAdded, Doc: docSnapshot("a"), OldIndex: -1, NewIndex: 0})

	// assert
	assert.Eventually(t, func() bool { return it.stopCalls.Load() == 1 }, waitFor, tick)
	assert.Never(t, func() bool { return listener.batchCount() > 0 }, 50*time.Millisecond, tick)
	assert.Equal(t, int32(1), it.stopCalls.Load())
}

func Test_WithLocker_RejectsNil(t *testing.T) {
	// act
	_, err := newSource(nil, WithLocker(nil))

	// assert
	assert.ErrorIs(t, err, ErrNilLocker)
}

func Test_Source_DrivesAnArray(t *testing.T) {
	// arrange
	var mu sync.Mutex
	it := newFakeIterator()
	source := givenSource(t, it, WithLocker(&mu))

	array, err := snapshotarray.NewArray[string](source, func(s snapshotarray.Snapshot) (string, error) {
		return s.ID(), nil
	})
	require.NoError(t, err)

	listener := fakes.NewListenerSpy()

	mu.Lock()
	sub, err := array.Subscribe(context.Background(), listener)
	mu.Unlock()
	require.NoError(t, err)

	// act
	it.push(
		firestore.DocumentChange{Kind: firestore.DocumentAdded, Doc: docSnapshot("a"), OldIndex: -1, NewIndex: 0},
		firestore.DocumentChange{Kind: firestore.DocumentAdded, Doc: docSnapshot("b"), OldIndex: -1, NewIndex: 1},
	)
	it.push(firestore.DocumentChange{Kind: firestore.DocumentModified, Doc: docSnapshot("a"), OldIndex: 0, NewIndex: 1})

	// assert
	assert.Eventually(t, func() bool { return listener.DataChangedCount() == 2 }, waitFor, tick)

	mu.Lock()
	items, itemsErr := array.Items()
	sub.Unsubscribe()
	mu.Unlock()

	assert.NoError(t, itemsErr)
	assert.Equal(t, []string{"b", "a"}, items)
	assert.Equal(t, []snapshotarray.ChangeEventType{snapshotarray.Added, snapshotarray.Added, snapshotarray.Moved}, listener.EventTypes())
	assert.Eventually(t, func() bool { return it.stopCalls.Load() == 1 }, waitFor, tick)
}

func Test_ToChangeKind_MapsUnknownKindsToAnInvalidKind(t *testing.T) {
	// act
	kind := toChangeKind(firestore.DocumentChangeKind(9))

	// assert
	assert.Equal(t, "unknown", kind.String())
}

func Test_Document_ExposesTheWrappedSnapshot(t *testing.T) {
	// arrange
	raw := docSnapshot("a")
	raw.UpdateTime = time.Unix(1700000000, 0)

	// act
	doc := NewDocument(raw)
	unwrapped, ok := RawSnapshot(doc)
	_, okFake := RawSnapshot(fakes.NewSnapshot("b", nil))

	// assert
	assert.Equal(t, "a", doc.ID())
	assert.Equal(t, time.Unix(1700000000, 0), doc.UpdateTime())
	assert.Same(t, raw, doc.Raw())
	assert.True(t, ok)
	assert.Same(t, raw, unwrapped)
	assert.False(t, okFake)
	assert.Equal(t, "", NewDocument(&firestore.DocumentSnapshot{}).ID())
}

// contendedLocker reports every Lock attempt on attempts before it blocks on the mutex.
type contendedLocker struct {
	mu       sync.Mutex
	attempts chan struct{}
}

func newContendedLocker() *contendedLocker {
	return &contendedLocker{attempts: make(chan struct{}, 16)}
}

func (l *contendedLocker) Lock() {
	l.attempts <- struct{}{}
	l.mu.Lock()
}

func (l *contendedLocker) Unlock() {
	l.mu.Unlock()
}

func Test_WithLocker_RemoveWhileDeliveryWaitsForTheLock_SuppressesTheDelivery(t *testing.T) {
	// arrange
	it := newFakeIterator()
	locker := newContendedLocker()
	source := givenSource(t, it, WithLocker(locker))
	listener := &recordingListener{}

	reg, err := source.Listen(context.Background(), listener.listen)
	require.NoError(t, err)

	locker.mu.Lock()

	// act
	it.push(firestore.DocumentChange{Kind: firestore.DocumentAdded, Doc: docSnapshot("a"), OldIndex: -1, NewIndex: 0})

	select {
	case <-locker.attempts:
	case <-time.After(waitFor):
		t.Fatal("the batch never waited for the locker")
	}

	reg.Remove()
	locker.mu.Unlock()

	// assert
	assert.Eventually(t, func() bool { return it.stopCalls.Load() == 1 }, waitFor, tick)
	assert.Never(t, func() bool { return listener.batchCount() > 0 }, 50*time.Millisecond, tick)
	assert.Equal(t, 0, listener.errorCount())
}
