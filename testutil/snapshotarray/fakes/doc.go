// Package fakes provides in-memory test doubles for the snapshotarray boundary:
// a scriptable Source, simple Snapshots and a recording ChangeEventListener.
package fakes
