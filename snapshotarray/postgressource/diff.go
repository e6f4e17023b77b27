package postgressource

import (
	"bytes"
	"slices"

	"github.com/AntonStoeckl/observable-snapshots-go/snapshotarray"
)

// ComputeChanges returns the changes that turn the previous result set into the current one
// when applied in order, with the index semantics of a realtime query listener.
//
// Removals come first, each with its index in the sequence left by the preceding removals.
// A left-to-right pass over the current result set then emits an added change for every new id,
// a modified change with differing indices for every document that has to move into place,
// and a modified change with equal indices for every document whose data changed in place.
// Document ids must be unique within a result set.
func ComputeChanges(previous, current []*Document) []snapshotarray.DocumentChange {
	currentIDs := make(map[string]struct{}, len(current))
	for _, doc := range current {
		currentIDs[doc.id] = struct{}{}
	}

	working := slices.Clone(previous)
	changes := make([]snapshotarray.DocumentChange, 0)

	for i := 0; i < len(working); {
		if _, ok := currentIDs[working[i].id]; ok {
			i++
			continue
		}

		changes = append(changes, snapshotarray.RemovedChange(working[i], i))
		working = slices.Delete(working, i, i+1)
	}

	// working[:i] equals current[:i] at the start of each iteration
	for i, doc := range current {
		if i < len(working) && working[i].id == doc.id {
			if !bytes.Equal(working[i].data, doc.data) {
				changes = append(changes, snapshotarray.ModifiedChange(doc, i, i))
			}

			working[i] = doc

			continue
		}

		j := slices.IndexFunc(working, func(d *Document) bool { return d.id == doc.id })
		if j < 0 {
			changes = append(changes, snapshotarray.AddedChange(doc, i))
			working = slices.Insert(working, i, doc)

			continue
		}

		changes = append(changes, snapshotarray.ModifiedChange(doc, j, i))
		working = slices.Delete(working, j, j+1)
		working = slices.Insert(working, i, doc)
	}

	return changes
}
