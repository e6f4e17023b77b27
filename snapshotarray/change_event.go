package snapshotarray

// ChangeEventType is the semantic list-splice notification emitted for one applied DocumentChange.
type ChangeEventType int

const (
	// Added means a snapshot was inserted at NewIndex.
	Added ChangeEventType = iota

	// Changed means the snapshot at NewIndex (== OldIndex) was replaced in place.
	Changed

	// Removed means the snapshot at OldIndex was deleted.
	Removed

	// Moved means the snapshot was deleted at OldIndex and inserted at NewIndex, possibly with new content.
	Moved
)

// String provides a string representation of ChangeEventType for logging and metrics labels.
func (t ChangeEventType) String() string {
	switch t {
	case Added:
		return "added"
	case Changed:
		return "changed"
	case Removed:
		return "removed"
	case Moved:
		return "moved"
	default:
		return "unknown"
	}
}

// ChildEvent describes one list splice. Indices that do not apply to the Type are NoIndex.
type ChildEvent struct {
	Type     ChangeEventType
	Snapshot Snapshot
	NewIndex int
	OldIndex int
}

// ChangeEventListener receives the notifications of an Array.
//
// OnChildChanged is called once per applied change, OnDataChanged once after each applied batch,
// and OnError whenever the upstream listener fails or a batch is rejected.
type ChangeEventListener interface {
	OnChildChanged(event ChildEvent)
	OnDataChanged()
	OnError(err error)
}

// ListenerFuncs adapts plain functions to ChangeEventListener. Nil fields are ignored.
type ListenerFuncs struct {
	ChildChanged func(event ChildEvent)
	DataChanged  func()
	Error        func(err error)
}

// OnChildChanged calls ChildChanged if set.
func (f ListenerFuncs) OnChildChanged(event ChildEvent) {
	if f.ChildChanged != nil {
		f.ChildChanged(event)
	}
}

// OnDataChanged calls DataChanged if set.
func (f ListenerFuncs) OnDataChanged() {
	if f.DataChanged != nil {
		f.DataChanged()
	}
}

// OnError calls Error if set.
func (f ListenerFuncs) OnError(err error) {
	if f.Error != nil {
		f.Error(err)
	}
}

var _ ChangeEventListener = ListenerFuncs{}
