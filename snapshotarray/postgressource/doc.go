// Package postgressource provides a snapshotarray.Source backed by a PostgreSQL table.
//
// Each document is a row with a unique id column and a JSON or JSONB data column. The Source runs
// one select statement (built with goqu, optionally filtered, ordered and limited), diffs the result
// against the previous one with ComputeChanges and delivers the changes as a batch. It re-runs the
// query whenever its Trigger fires:
//   - the default interval trigger polls once per WithPollInterval
//   - WithPGXNotify LISTENs on a channel over a pgx pool connection
//   - WithPQNotify LISTENs on a channel with a lib/pq listener
//
// The notification triggers still refresh once per poll interval when no notification arrives.
//
// Example:
//
//	source, err := postgressource.NewSourceFromPGXPool(pool, "tasks",
//		postgressource.WithOrderBy("position", false),
//		postgressource.WithWhere(goqu.Ex{"board": "main"}),
//		postgressource.WithPGXNotify(pool, "tasks_changed"),
//	)
package postgressource
