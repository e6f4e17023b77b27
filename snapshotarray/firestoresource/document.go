package firestoresource

import (
	"time"

	"cloud.google.com/go/firestore"

	"github.com/AntonStoeckl/observable-snapshots-go/snapshotarray"
)

// Document adapts a *firestore.DocumentSnapshot to snapshotarray.Snapshot.
type Document struct {
	snapshot *firestore.DocumentSnapshot
}

// NewDocument wraps a Firestore document snapshot.
func NewDocument(snapshot *firestore.DocumentSnapshot) *Document {
	return &Document{snapshot: snapshot}
}

// ID returns the document id, the last segment of its path.
func (d *Document) ID() string {
	if d.snapshot == nil || d.snapshot.Ref == nil {
		return ""
	}

	return d.snapshot.Ref.ID
}

// DataTo decodes the document fields into v, following the rules of firestore.DocumentSnapshot.DataTo.
func (d *Document) DataTo(v any) error {
	return d.snapshot.DataTo(v)
}

// UpdateTime returns the time the document was last changed.
func (d *Document) UpdateTime() time.Time {
	return d.snapshot.UpdateTime
}

// Raw returns the wrapped Firestore document snapshot.
func (d *Document) Raw() *firestore.DocumentSnapshot {
	return d.snapshot
}

// RawSnapshot returns the Firestore document snapshot behind s, if s was delivered by this package.
func RawSnapshot(s snapshotarray.Snapshot) (*firestore.DocumentSnapshot, bool) {
	doc, ok := s.(*Document)
	if !ok {
		return nil, false
	}

	return doc.snapshot, true
}

var _ snapshotarray.Snapshot = (*Document)(nil)
