package snapshotarray_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/observable-snapshots-go/snapshotarray"
	"github.com/AntonStoeckl/observable-snapshots-go/testutil/snapshotarray/fakes"
)

func Test_ApplyChange_Added_InsertsAtNewIndex(t *testing.T) {
	// arrange
	sequence := fakes.Sequence("a", "c")
	doc := fakes.NewSnapshot("b", nil)

	// act
	result, event, err := snapshotarray.ApplyChange(sequence, snapshotarray.AddedChange(doc, 1))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, fakes.IDs(result))
	assert.Equal(t, snapshotarray.ChildEvent{Type: snapshotarray.Added, Snapshot: doc, NewIndex: 1, OldIndex: snapshotarray.NoIndex}, event)
}

func Test_ApplyChange_Added_AppendsAtLength(t *testing.T) {
	// arrange
	sequence := fakes.Sequence("a", "b")
	doc := fakes.NewSnapshot("c", nil)

	// act
	result, event, err := snapshotarray.ApplyChange(sequence, snapshotarray.AddedChange(doc, 2))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, fakes.IDs(result))
	assert.Equal(t, 2, event.NewIndex)
}

func Test_ApplyChange_Added_IntoEmptySequence(t *testing.T) {
	// arrange
	doc := fakes.NewSnapshot("a", nil)

	// act
	result, event, err := snapshotarray.ApplyChange(nil, snapshotarray.AddedChange(doc, 0))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, []string{"a"}, fakes.IDs(result))
	assert.Equal(t, snapshotarray.Added, event.Type)
}

func Test_ApplyChange_Removed_DeletesAtOldIndex(t *testing.T) {
	// arrange
	sequence := fakes.Sequence("a", "b", "c")
	doc := sequence[1]

	// act
	result, event, err := snapshotarray.ApplyChange(sequence, snapshotarray.RemovedChange(doc, 1))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, fakes.IDs(result))
	assert.Equal(t, snapshotarray.ChildEvent{Type: snapshotarray.Removed, Snapshot: doc, NewIndex: snapshotarray.NoIndex, OldIndex: 1}, event)
}

func Test_ApplyChange_Modified_SameIndex_ReplacesInPlace(t *testing.T) {
	// arrange
	sequence := fakes.Sequence("a", "b", "c")
	updated := fakes.NewSnapshot("b", map[string]any{"title": "updated"})

	// act
	result, event, err := snapshotarray.ApplyChange(sequence, snapshotarray.ModifiedChange(updated, 1, 1))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, fakes.IDs(result))
	assert.Same(t, updated, result[1])
	assert.Equal(t, snapshotarray.ChildEvent{Type: snapshotarray.Changed, Snapshot: updated, NewIndex: 1, OldIndex: 1}, event)
}

func Test_ApplyChange_Modified_DifferentIndex_MovesForward(t *testing.T) {
	// arrange
	sequence := fakes.Sequence("a", "b", "c")
	moved := fakes.NewSnapshot("a", nil)

	// act
	result, event, err := snapshotarray.ApplyChange(sequence, snapshotarray.ModifiedChange(moved, 0, 2))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, fakes.IDs(result))
	assert.Same(t, moved, result[2])
	assert.Equal(t, snapshotarray.ChildEvent{Type: snapshotarray.Moved, Snapshot: moved, NewIndex: 2, OldIndex: 0}, event)
}

func Test_ApplyChange_Modified_DifferentIndex_MovesBackward(t *testing.T) {
	// arrange
	sequence := fakes.Sequence("a", "b", "c")
	moved := fakes.NewSnapshot("c", nil)

	// act
	result, event, err := snapshotarray.ApplyChange(sequence, snapshotarray.ModifiedChange(moved, 2, 0))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, fakes.IDs(result))
	assert.Equal(t, snapshotarray.Moved, event.Type)
	assert.Equal(t, 2, event.OldIndex)
	assert.Equal(t, 0, event.NewIndex)
}

func Test_ApplyChange_PreservesLengthInvariant(t *testing.T) {
	tests := []struct {
		name         string
		change       snapshotarray.DocumentChange
		expectedSize int
	}{
		{name: "added grows by one", change: snapshotarray.AddedChange(fakes.NewSnapshot("x", nil), 3), expectedSize: 4},
		{name: "removed shrinks by one", change: snapshotarray.RemovedChange(fakes.NewSnapshot("b", nil), 1), expectedSize: 2},
		{name: "changed keeps the size", change: snapshotarray.ModifiedChange(fakes.NewSnapshot("b", nil), 1, 1), expectedSize: 3},
		{name: "moved keeps the size", change: snapshotarray.ModifiedChange(fakes.NewSnapshot("b", nil), 1, 2), expectedSize: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// act
			result, _, err := snapshotarray.ApplyChange(fakes.Sequence("a", "b", "c"), tt.change)

			// assert
			assert.NoError(t, err)
			assert.Len(t, result, tt.expectedSize)
		})
	}
}

func Test_ApplyChange_OutOfRange_ReturnsErrorAndLeavesSequenceUntouched(t *testing.T) {
	tests := []struct {
		name   string
		change snapshotarray.DocumentChange
	}{
		{name: "added beyond length", change: snapshotarray.AddedChange(fakes.NewSnapshot("x", nil), 4)},
		{name: "added at negative index", change: snapshotarray.AddedChange(fakes.NewSnapshot("x", nil), -1)},
		{name: "removed at length", change: snapshotarray.RemovedChange(fakes.NewSnapshot("x", nil), 3)},
		{name: "removed at negative index", change: snapshotarray.RemovedChange(fakes.NewSnapshot("x", nil), -1)},
		{name: "modified old index at length", change: snapshotarray.ModifiedChange(fakes.NewSnapshot("x", nil), 3, 0)},
		{name: "modified new index at length", change: snapshotarray.ModifiedChange(fakes.NewSnapshot("a", nil), 0, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// arrange
			sequence := fakes.Sequence("a", "b", "c")

			// act
			result, _, err := snapshotarray.ApplyChange(sequence, tt.change)

			// assert
			assert.ErrorIs(t, err, snapshotarray.ErrIndexOutOfRange)
			assert.Equal(t, []string{"a", "b", "c"}, fakes.IDs(result))
			assert.Equal(t, []string{"a", "b", "c"}, fakes.IDs(sequence))
		})
	}
}

func Test_ApplyChange_RemovedFromEmptySequence_Fails(t *testing.T) {
	// act
	_, _, err := snapshotarray.ApplyChange(nil, snapshotarray.RemovedChange(fakes.NewSnapshot("a", nil), 0))

	// assert
	assert.ErrorIs(t, err, snapshotarray.ErrIndexOutOfRange)
}

func Test_ApplyChange_UnknownKind_Fails(t *testing.T) {
	// arrange
	change := snapshotarray.DocumentChange{Kind: snapshotarray.ChangeKind(42), Doc: fakes.NewSnapshot("a", nil)}

	// act
	_, _, err := snapshotarray.ApplyChange(fakes.Sequence("a"), change)

	// assert
	assert.ErrorIs(t, err, snapshotarray.ErrUnknownChangeKind)
}

func Test_ApplyChange_RemovedThenAddedRestoresOriginalOrder(t *testing.T) {
	// arrange
	sequence := fakes.Sequence("a", "b", "c")
	doc := sequence[1]

	// act
	sequence, _, errRemove := snapshotarray.ApplyChange(sequence, snapshotarray.RemovedChange(doc, 1))
	sequence, _, errAdd := snapshotarray.ApplyChange(sequence, snapshotarray.AddedChange(doc, 1))

	// assert
	assert.NoError(t, errRemove)
	assert.NoError(t, errAdd)
	assert.Equal(t, []string{"a", "b", "c"}, fakes.IDs(sequence))
}

func Test_ApplyChange_NilSnapshot_IsRejected(t *testing.T) {
	testCases := []struct {
		name   string
		change snapshotarray.DocumentChange
	}{
		{name: "added", change: snapshotarray.AddedChange(nil, 0)},
		{name: "removed", change: snapshotarray.RemovedChange(nil, 0)},
		{name: "modified", change: snapshotarray.ModifiedChange(nil, 0, 0)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			sequence := fakes.Sequence("a")

			// act
			result, event, err := snapshotarray.ApplyChange(sequence, tc.change)

			// assert
			assert.ErrorIs(t, err, snapshotarray.ErrNilSnapshot)
			assert.Equal(t, []string{"a"}, fakes.IDs(result))
			assert.Equal(t, snapshotarray.ChildEvent{}, event)
		})
	}
}
