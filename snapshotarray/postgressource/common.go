package postgressource

import "errors"

var (
	// ErrNilDatabaseConnection is returned when a constructor or option is given a nil connection.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrEmptyTableName is returned when a constructor is given an empty table name.
	ErrEmptyTableName = errors.New("table name must not be empty")

	// ErrEmptyColumnName is returned when a column option is given an empty column name.
	ErrEmptyColumnName = errors.New("column name must not be empty")

	// ErrEmptyChannelName is returned when a notify option is given an empty channel name.
	ErrEmptyChannelName = errors.New("notification channel name must not be empty")

	// ErrEmptyDSN is returned when WithPQNotify is given an empty connection string.
	ErrEmptyDSN = errors.New("connection string must not be empty")

	// ErrInvalidPollInterval is returned when WithPollInterval is given a non-positive interval.
	ErrInvalidPollInterval = errors.New("poll interval must be positive")

	// ErrInvalidLimit is returned when WithLimit is given zero.
	ErrInvalidLimit = errors.New("limit must be positive")

	// ErrNilTriggerFactory is returned when WithTrigger is given nil.
	ErrNilTriggerFactory = errors.New("trigger factory must not be nil")

	// ErrNilListener is returned when Listen is called without a listener.
	ErrNilListener = errors.New("listener must not be nil")

	// ErrNilLocker is returned when WithLocker is given a nil locker.
	ErrNilLocker = errors.New("locker must not be nil")

	// ErrBuildingQueryFailed is returned when the select statement cannot be built.
	ErrBuildingQueryFailed = errors.New("building the select query failed")

	// ErrQueryingDocumentsFailed is delivered when the select statement fails.
	ErrQueryingDocumentsFailed = errors.New("querying documents failed")

	// ErrScanningDBRowFailed is delivered when a result row cannot be scanned.
	ErrScanningDBRowFailed = errors.New("scanning db row failed")

	// ErrStartingTriggerFailed is returned by Listen when the refresh trigger cannot be started.
	ErrStartingTriggerFailed = errors.New("starting the refresh trigger failed")

	// ErrWaitingForChangesFailed is delivered when the refresh trigger fails.
	ErrWaitingForChangesFailed = errors.New("waiting for changes failed")
)
