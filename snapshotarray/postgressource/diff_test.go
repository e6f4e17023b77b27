package postgressource_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/observable-snapshots-go/snapshotarray"
	"github.com/AntonStoeckl/observable-snapshots-go/snapshotarray/postgressource"
)

// docs builds documents from entries like "a1": a one letter id followed by the data.
func docs(entries ...string) []*postgressource.Document {
	result := make([]*postgressource.Document, 0, len(entries))
	for _, entry := range entries {
		result = append(result, postgressource.NewDocument(entry[:1], []byte(entry[1:])))
	}

	return result
}

func applyAll(t *testing.T, previous []*postgressource.Document, changes []snapshotarray.DocumentChange) []string {
	t.Helper()

	sequence := make([]snapshotarray.Snapshot, 0, len(previous))
	for _, doc := range previous {
		sequence = append(sequence, doc)
	}

	for _, change := range changes {
		var err error
		sequence, _, err = snapshotarray.ApplyChange(sequence, change)
		require.NoError(t, err)
	}

	ids := make([]string, 0, len(sequence))
	for _, s := range sequence {
		ids = append(ids, s.ID()+string(s.(*postgressource.Document).Data()))
	}

	return ids
}

func expected(current []*postgressource.Document) []string {
	ids := make([]string, 0, len(current))
	for _, doc := range current {
		ids = append(ids, doc.ID()+string(doc.Data()))
	}

	return ids
}

func Test_ComputeChanges_ApplyingTheChangesYieldsTheCurrentResultSet(t *testing.T) {
	tests := []struct {
		name     string
		previous []string
		current  []string
	}{
		{name: "initial result set", previous: nil, current: []string{"a1", "b1", "c1"}},
		{name: "everything removed", previous: []string{"a1", "b1"}, current: nil},
		{name: "nothing changed", previous: []string{"a1", "b1"}, current: []string{"a1", "b1"}},
		{name: "insert in the middle", previous: []string{"a1", "c1"}, current: []string{"a1", "b1", "c1"}},
		{name: "remove in the middle", previous: []string{"a1", "b1", "c1"}, current: []string{"a1", "c1"}},
		{name: "data changed in place", previous: []string{"a1", "b1"}, current: []string{"a1", "b2"}},
		{name: "move first to last", previous: []string{"a1", "b1", "c1"}, current: []string{"b1", "c1", "a2"}},
		{name: "move last to first", previous: []string{"a1", "b1", "c1"}, current: []string{"c2", "a1", "b1"}},
		{name: "reverse", previous: []string{"a1", "b1", "c1", "d1"}, current: []string{"d1", "c1", "b1", "a1"}},
		{name: "mixed", previous: []string{"a1", "b1", "c1", "d1"}, current: []string{"e1", "d2", "b1", "f1"}},
		{name: "replace all", previous: []string{"a1", "b1"}, current: []string{"c1", "d1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// arrange
			previous, current := docs(tt.previous...), docs(tt.current...)

			// act
			changes := postgressource.ComputeChanges(previous, current)

			// assert
			assert.Equal(t, expected(current), applyAll(t, previous, changes))
		})
	}
}

func Test_ComputeChanges_NoChanges_ReturnsEmpty(t *testing.T) {
	// act
	changes := postgressource.ComputeChanges(docs("a1", "b1"), docs("a1", "b1"))

	// assert
	assert.Empty(t, changes)
}

func Test_ComputeChanges_InitialResultSet_IsAllAdded(t *testing.T) {
	// act
	changes := postgressource.ComputeChanges(nil, docs("a1", "b1"))

	// assert
	require.Len(t, changes, 2)
	assert.Equal(t, snapshotarray.DocumentAdded, changes[0].Kind)
	assert.Equal(t, 0, changes[0].NewIndex)
	assert.Equal(t, snapshotarray.DocumentAdded, changes[1].Kind)
	assert.Equal(t, 1, changes[1].NewIndex)
}

func Test_ComputeChanges_RemovalsComeFirstWithEvolvingIndices(t *testing.T) {
	// act
	changes := postgressource.ComputeChanges(docs("a1", "b1", "c1", "d1"), docs("b1", "d1"))

	// assert
	require.Len(t, changes, 2)
	assert.Equal(t, snapshotarray.DocumentRemoved, changes[0].Kind)
	assert.Equal(t, "a", changes[0].Doc.ID())
	assert.Equal(t, 0, changes[0].OldIndex)
	assert.Equal(t, snapshotarray.DocumentRemoved, changes[1].Kind)
	assert.Equal(t, "c", changes[1].Doc.ID())
	assert.Equal(t, 1, changes[1].OldIndex)
}

func Test_ComputeChanges_DataChangeInPlace_IsModifiedWithEqualIndices(t *testing.T) {
	// act
	changes := postgressource.ComputeChanges(docs("a1", "b1"), docs("a1", "b2"))

	// assert
	require.Len(t, changes, 1)
	assert.Equal(t, snapshotarray.ModifiedChange(changes[0].Doc, 1, 1), changes[0])
	assert.Equal(t, []byte("2"), changes[0].Doc.(*postgressource.Document).Data())
}

func Test_ComputeChanges_Reorder_IsModifiedWithDifferentIndices(t *testing.T) {
	// act
	changes := postgressource.ComputeChanges(docs("a1", "b1"), docs("b1", "a1"))

	// assert
	require.Len(t, changes, 1)
	assert.Equal(t, snapshotarray.DocumentModified, changes[0].Kind)
	assert.Equal(t, "b", changes[0].Doc.ID())
	assert.Equal(t, 1, changes[0].OldIndex)
	assert.Equal(t, 0, changes[0].NewIndex)
}

func Test_Document_DataTo_DecodesJSON(t *testing.T) {
	// arrange
	doc := postgressource.NewDocument("a", []byte(`{"title":"write tests","done":true}`))

	var model struct {
		Title string `json:"title"`
		Done  bool   `json:"done"`
	}

	// act
	err := doc.DataTo(&model)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "a", doc.ID())
	assert.Equal(t, "write tests", model.Title)
	assert.True(t, model.Done)
}

func Test_Document_DataTo_InvalidJSON_Fails(t *testing.T) {
	// arrange
	doc := postgressource.NewDocument("a", []byte(`{"title":`))

	var model map[string]any

	// act
	err := doc.DataTo(&model)

	// assert
	assert.Error(t, err)
}
