// Package firestoresource provides a snapshotarray.Source backed by a Cloud Firestore query.
//
// Listen starts a realtime query snapshot iterator and forwards the document changes of every
// query snapshot as one batch, with Firestore's index semantics carried over unchanged.
// The first batch describes the initial result set.
//
// Deliveries happen on a goroutine owned by the listener. Use WithLocker to serialize them with
// the rest of an application that reads the Array outside of its callbacks:
//
//	var mu sync.Mutex
//
//	source, err := firestoresource.New(client.Collection("tasks").OrderBy("position", firestore.Asc),
//		firestoresource.WithLocker(&mu))
//	if err != nil {
//		// handle error
//	}
//
//	tasks, _ := snapshotarray.NewArrayOf[Task](source)
//
//	mu.Lock()
//	sub, err := tasks.Subscribe(ctx, listener)
//	mu.Unlock()
package firestoresource
