package snapshotarray

import (
	"time"
)

// Snapshot is an immutable point-in-time representation of a remote document.
//
// Implementations are supplied by the sources (see firestoresource.Document and postgressource.Document).
type Snapshot interface {
	// ID returns the document key, unique within one query result set.
	ID() string

	// DataTo decodes the document content into the value pointed to by v.
	DataTo(v any) error
}

// ChangeKind describes how a document changed within a query result set.
type ChangeKind int

const (
	// DocumentAdded means the document entered the result set at NewIndex.
	DocumentAdded ChangeKind = iota

	// DocumentRemoved means the document left the result set from OldIndex.
	DocumentRemoved

	// DocumentModified means the document content changed and it moved from OldIndex to NewIndex.
	// Both indices are equal when the position did not change.
	DocumentModified
)

// String provides a string representation of ChangeKind for logging and debugging.
func (k ChangeKind) String() string {
	switch k {
	case DocumentAdded:
		return "added"
	case DocumentRemoved:
		return "removed"
	case DocumentModified:
		return "modified"
	default:
		return "unknown"
	}
}

// NoIndex marks an index that is not valid for a change, e.g. the OldIndex of an added document.
const NoIndex = -1

// DocumentChange is one low-level change event reported by a backend query listener.
//
// OldIndex is valid for DocumentRemoved and DocumentModified, NewIndex is valid for DocumentAdded
// and DocumentModified. An invalid index is NoIndex.
//
// The indices follow the usual listener semantics: OldIndex refers to the sequence before this change
// was applied, NewIndex to the sequence after it was applied, with all preceding changes of
// the same batch already applied.
type DocumentChange struct {
	Kind     ChangeKind
	Doc      Snapshot
	OldIndex int
	NewIndex int
}

// AddedChange is a factory method for a DocumentChange of kind DocumentAdded.
func AddedChange(doc Snapshot, newIndex int) DocumentChange {
	return DocumentChange{Kind: DocumentAdded, Doc: doc, OldIndex: NoIndex, NewIndex: newIndex}
}

// RemovedChange is a factory method for a DocumentChange of kind DocumentRemoved.
func RemovedChange(doc Snapshot, oldIndex int) DocumentChange {
	return DocumentChange{Kind: DocumentRemoved, Doc: doc, OldIndex: oldIndex, NewIndex: NoIndex}
}

// ModifiedChange is a factory method for a DocumentChange of kind DocumentModified.
func ModifiedChange(doc Snapshot, oldIndex, newIndex int) DocumentChange {
	return DocumentChange{Kind: DocumentModified, Doc: doc, OldIndex: oldIndex, NewIndex: newIndex}
}

// QuerySnapshot is one batch delivered by a Source: the ordered changes since the previous batch.
//
// The first batch of a listener describes the initial result set as a series of DocumentAdded changes.
// It may be empty when the query matches nothing.
type QuerySnapshot struct {
	Changes  []DocumentChange
	ReadTime time.Time
}
