package fakes

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/observable-snapshots-go/snapshotarray"
)

// Snapshot is a snapshotarray.Snapshot holding its data as JSON.
type Snapshot struct {
	id      string
	data    []byte
	dataErr error
}

// NewSnapshot creates a Snapshot whose data is the JSON encoding of data.
func NewSnapshot(id string, data any) *Snapshot {
	encoded, err := jsoniter.ConfigFastest.Marshal(data)

	return &Snapshot{id: id, data: encoded, dataErr: err}
}

// NewBrokenSnapshot creates a Snapshot whose DataTo always fails with err.
func NewBrokenSnapshot(id string, err error) *Snapshot {
	return &Snapshot{id: id, dataErr: err}
}

// ID implements snapshotarray.Snapshot.
func (s *Snapshot) ID() string {
	return s.id
}

// DataTo implements snapshotarray.Snapshot.
func (s *Snapshot) DataTo(v any) error {
	if s.dataErr != nil {
		return s.dataErr
	}

	return jsoniter.ConfigFastest.Unmarshal(s.data, v)
}

var _ snapshotarray.Snapshot = (*Snapshot)(nil)

// IDs returns the ids of the snapshots in order.
func IDs(snapshots []snapshotarray.Snapshot) []string {
	ids := make([]string, 0, len(snapshots))
	for _, s := range snapshots {
		ids = append(ids, s.ID())
	}

	return ids
}

// Sequence builds a sequence of Snapshots with the given ids and empty object data.
func Sequence(ids ...string) []snapshotarray.Snapshot {
	sequence := make([]snapshotarray.Snapshot, 0, len(ids))
	for _, id := range ids {
		sequence = append(sequence, NewSnapshot(id, map[string]any{}))
	}

	return sequence
}
