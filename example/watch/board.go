package main

import (
	"context"
	"log/slog"

	"github.com/AntonStoeckl/observable-snapshots-go/snapshotarray"
)

type task struct {
	Title    string `json:"title" firestore:"title"`
	Done     bool   `json:"done" firestore:"done"`
	Position int    `json:"position" firestore:"position"`
}

// board logs the changes of a task list. Its callbacks run on the delivery goroutine.
type board struct {
	tasks  *snapshotarray.Array[task]
	logger *slog.Logger
}

func newBoard(tasks *snapshotarray.Array[task], logger *slog.Logger) *board {
	return &board{tasks: tasks, logger: logger}
}

func (b *board) OnChildChanged(event snapshotarray.ChildEvent) {
	args := []any{
		"change", event.Type.String(),
		"id", event.Snapshot.ID(),
		"old_index", event.OldIndex,
		"new_index", event.NewIndex,
	}

	if event.Type != snapshotarray.Removed {
		if t, err := b.tasks.Get(event.NewIndex); err == nil {
			args = append(args, "title", t.Title, "done", t.Done)
		}
	}

	b.logger.InfoContext(context.Background(), "task list changed", args...)
}

func (b *board) OnDataChanged() {
	titles := make([]string, 0, b.tasks.Len())

	items, err := b.tasks.Items()
	if err != nil {
		b.logger.Warn("reading tasks failed", "error", err.Error())
	}

	for _, t := range items {
		titles = append(titles, t.Title)
	}

	b.logger.Info("task list updated", "size", b.tasks.Len(), "titles", titles)
}

func (b *board) OnError(err error) {
	b.logger.Error("listening to tasks failed", "error", err.Error())
}
