// Package snapshotarray exposes a remote document-query subscription as an observable ordered list.
//
// A Source (see the firestoresource and postgressource packages) delivers batches of low-level
// document changes: added at a new index, removed from an old index, or modified with an old
// and a new index. An Array applies them to an in-memory ordered sequence of snapshots and
// translates each one into a list-splice notification for its listeners:
//   - DocumentAdded -> Added at the new index
//   - DocumentRemoved -> Removed at the old index
//   - DocumentModified with equal indices -> Changed in place
//   - DocumentModified with different indices -> Moved from the old to the new index
//
// Key types:
//   - Snapshot: an immutable document representation supplied by a Source
//   - DocumentChange / QuerySnapshot: the upstream change events and their batches
//   - Array: the observable list, parsing snapshots lazily into a model type
//   - ChangeEventListener / Subscription: the consumer side
//
// Common usage pattern:
//
//	var mu sync.Mutex
//
//	source, err := firestoresource.New(
//		client.Collection("tasks").OrderBy("position", firestore.Asc),
//		firestoresource.WithLocker(&mu),
//	)
//	if err != nil {
//		// handle error
//	}
//
//	tasks, err := snapshotarray.NewArrayOf[Task](source, snapshotarray.WithLogger(slog.Default()))
//	if err != nil {
//		// handle error
//	}
//
//	mu.Lock()
//	sub, err := tasks.Subscribe(ctx, snapshotarray.ListenerFuncs{
//		ChildChanged: func(ev snapshotarray.ChildEvent) { render(ev) },
//		Error:        func(err error) { log.Println(err) },
//	})
//	mu.Unlock()
//	if err != nil {
//		// handle error
//	}
//
//	<-ctx.Done()
//
//	mu.Lock()
//	sub.Unsubscribe()
//	mu.Unlock()
//
// Listener callbacks run on the delivery goroutine with the locker held, so they may read the Array
// directly. Any other access, including Unsubscribe, must hold the same locker.
//
// Upstream listener failures are forwarded verbatim to OnError and never change the sequence.
// There is no retry inside the Array.
package snapshotarray
