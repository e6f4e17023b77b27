package snapshotarray

import (
	"fmt"
	"slices"
)

// ApplyChange applies one DocumentChange to the ordered sequence and returns the resulting sequence
// together with the single ChildEvent describing the splice.
//
// Like append, the returned slice may share its backing array with the input, so callers must use the
// returned value. On error the input sequence is returned untouched.
func ApplyChange(sequence []Snapshot, change DocumentChange) ([]Snapshot, ChildEvent, error) {
	if change.Doc == nil {
		return sequence, ChildEvent{}, fmt.Errorf("%w: %s change", ErrNilSnapshot, change.Kind)
	}

	switch change.Kind {
	case DocumentAdded:
		if change.NewIndex < 0 || change.NewIndex > len(sequence) {
			return sequence, ChildEvent{}, indexError(change, change.NewIndex, len(sequence))
		}

		sequence = slices.Insert(sequence, change.NewIndex, change.Doc)

		return sequence, ChildEvent{Type: Added, Snapshot: change.Doc, NewIndex: change.NewIndex, OldIndex: NoIndex}, nil

	case DocumentRemoved:
		if change.OldIndex < 0 || change.OldIndex >= len(sequence) {
			return sequence, ChildEvent{}, indexError(change, change.OldIndex, len(sequence))
		}

		sequence = slices.Delete(sequence, change.OldIndex, change.OldIndex+1)

		return sequence, ChildEvent{Type: Removed, Snapshot: change.Doc, NewIndex: NoIndex, OldIndex: change.OldIndex}, nil

	case DocumentModified:
		if change.OldIndex < 0 || change.OldIndex >= len(sequence) {
			return sequence, ChildEvent{}, indexError(change, change.OldIndex, len(sequence))
		}

		// the new index refers to the sequence after the removal at the old index
		if change.NewIndex < 0 || change.NewIndex >= len(sequence) {
			return sequence, ChildEvent{}, indexError(change, change.NewIndex, len(sequence))
		}

		if change.OldIndex == change.NewIndex {
			sequence[change.NewIndex] = change.Doc

			return sequence, ChildEvent{Type: Changed, Snapshot: change.Doc, NewIndex: change.NewIndex, OldIndex: change.OldIndex}, nil
		}

		sequence = slices.Delete(sequence, change.OldIndex, change.OldIndex+1)
		sequence = slices.Insert(sequence, change.NewIndex, change.Doc)

		return sequence, ChildEvent{Type: Moved, Snapshot: change.Doc, NewIndex: change.NewIndex, OldIndex: change.OldIndex}, nil

	default:
		return sequence, ChildEvent{}, fmt.Errorf("%w: %d", ErrUnknownChangeKind, int(change.Kind))
	}
}

func indexError(change DocumentChange, index, length int) error {
	return fmt.Errorf("%w: %s change for %q at index %d, sequence length %d",
		ErrIndexOutOfRange, change.Kind, snapshotID(change.Doc), index, length)
}

func snapshotID(s Snapshot) string {
	if s == nil {
		return ""
	}

	return s.ID()
}
