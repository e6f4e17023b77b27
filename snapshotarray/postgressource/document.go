package postgressource

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/observable-snapshots-go/snapshotarray"
)

// Document is one row of the source table: its id and the raw JSON of its data column.
type Document struct {
	id   string
	data []byte
}

// NewDocument is a factory method for a Document.
func NewDocument(id string, data []byte) *Document {
	return &Document{id: id, data: data}
}

// ID returns the value of the id column.
func (d *Document) ID() string {
	return d.id
}

// DataTo decodes the JSON data into v.
func (d *Document) DataTo(v any) error {
	return jsoniter.ConfigFastest.Unmarshal(d.data, v)
}

// Data returns the raw JSON data.
func (d *Document) Data() []byte {
	return d.data
}

var _ snapshotarray.Snapshot = (*Document)(nil)
