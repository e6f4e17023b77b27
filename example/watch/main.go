// Command watch subscribes to a PostgreSQL table or a Firestore collection through a snapshot array
// and logs every list change as structured JSON.
//
//	watch postgres --table tasks --notify-channel tasks_changed
//	watch firestore --project my-project --collection tasks
//
// All flags can also be set as SNAPSHOTWATCH_* environment variables, see package config.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
