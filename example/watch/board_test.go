package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/observable-snapshots-go/example/shared/config"
	"github.com/AntonStoeckl/observable-snapshots-go/snapshotarray"
	"github.com/AntonStoeckl/observable-snapshots-go/testutil/snapshotarray/fakes"
)

func Test_Board_LogsChangesAndErrors(t *testing.T) {
	// arrange
	var out bytes.Buffer
	logger := config.NewJSONLogger(&out, "info")
	source := fakes.NewSource()

	tasks, err := snapshotarray.NewArrayOf[task](source)
	require.NoError(t, err)

	sub, err := tasks.Subscribe(context.Background(), newBoard(tasks, logger))
	require.NoError(t, err)
	defer sub.Unsubscribe()

	id := uuid.NewString()

	// act
	source.Deliver(snapshotarray.AddedChange(fakes.NewSnapshot(id, task{Title: "water plants"}), 0))
	source.Deliver(snapshotarray.RemovedChange(fakes.NewSnapshot(id, task{}), 0))
	source.Fail(errors.New("permission denied"))

	// assert
	logged := out.String()
	assert.Contains(t, logged, `"msg":"task list changed"`)
	assert.Contains(t, logged, `"change":"added"`)
	assert.Contains(t, logged, `"title":"water plants"`)
	assert.Contains(t, logged, `"change":"removed"`)
	assert.Contains(t, logged, `"msg":"task list updated"`)
	assert.Contains(t, logged, `"error":"permission denied"`)
	assert.Contains(t, logged, id)
}

func Test_RootCmd_HasSourceCommands(t *testing.T) {
	// act
	cmd := newRootCmd()

	// assert
	names := make([]string, 0)
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}

	assert.Contains(t, names, "postgres")
	assert.Contains(t, names, "firestore")
}

func Test_FirestoreCmd_RequiresProject(t *testing.T) {
	// arrange
	cmd := newRootCmd()
	cmd.SetArgs([]string{"firestore", "--project", ""})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	// act
	err := cmd.Execute()

	// assert
	assert.ErrorIs(t, err, errMissingProject)
}
