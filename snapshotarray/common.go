package snapshotarray

import (
	"errors"
)

var (
	// ErrNilSource is returned when an Array is constructed without a Source.
	ErrNilSource = errors.New("source must not be nil")

	// ErrNilParser is returned when an Array is constructed without a Parser.
	ErrNilParser = errors.New("parser must not be nil")

	// ErrEmptyArrayName is returned when WithName is given an empty name.
	ErrEmptyArrayName = errors.New("array name must not be empty")

	// ErrNilListener is returned when Subscribe is called with a nil ChangeEventListener.
	ErrNilListener = errors.New("change event listener must not be nil")

	// ErrIndexOutOfRange is returned when a DocumentChange or a read refers to an index outside the sequence.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrNilSnapshot is returned when a DocumentChange carries no Snapshot.
	ErrNilSnapshot = errors.New("document change without snapshot")

	// ErrUnknownChangeKind is returned when a DocumentChange carries an unknown ChangeKind.
	ErrUnknownChangeKind = errors.New("unknown change kind")

	// ErrInconsistentBatch is reported to listeners when a batch cannot be applied to the current sequence.
	ErrInconsistentBatch = errors.New("batch is inconsistent with the current sequence")

	// ErrListenFailed is returned by Subscribe when activating the Source fails.
	ErrListenFailed = errors.New("listening to source failed")

	// ErrParsingSnapshotFailed is returned when the Parser fails for a snapshot.
	ErrParsingSnapshotFailed = errors.New("parsing snapshot failed")
)
