package postgressource

import (
	"context"
	"sync"
	"time"

	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"github.com/AntonStoeckl/observable-snapshots-go/snapshotarray"
)

// Option defines a functional option for configuring a Source.
type Option func(*Source) error

// WithIDColumn sets the column holding the unique document id. The default is "id".
func WithIDColumn(column string) Option {
	return func(s *Source) error {
		if column == "" {
			return ErrEmptyColumnName
		}

		s.idColumn = column

		return nil
	}
}

// WithDataColumn sets the JSON or JSONB column holding the document data. The default is "data".
func WithDataColumn(column string) Option {
	return func(s *Source) error {
		if column == "" {
			return ErrEmptyColumnName
		}

		s.dataColumn = column

		return nil
	}
}

// WithOrderBy appends an ordering column. The id column is always the last ordering column.
func WithOrderBy(column string, descending bool) Option {
	return func(s *Source) error {
		if column == "" {
			return ErrEmptyColumnName
		}

		s.orderBy = append(s.orderBy, orderColumn{name: column, descending: descending})

		return nil
	}
}

// WithWhere restricts the result set with goqu expressions, e.g. goqu.Ex{"owner": "alice"}.
func WithWhere(expressions ...exp.Expression) Option {
	return func(s *Source) error {
		s.where = append(s.where, expressions...)
		return nil
	}
}

// WithLimit limits the result set to the first limit documents.
func WithLimit(limit uint) Option {
	return func(s *Source) error {
		if limit == 0 {
			return ErrInvalidLimit
		}

		s.limit = limit

		return nil
	}
}

// WithPollInterval sets the refresh interval, or the fallback interval for notification triggers.
// The default is one second.
func WithPollInterval(interval time.Duration) Option {
	return func(s *Source) error {
		if interval <= 0 {
			return ErrInvalidPollInterval
		}

		s.pollInterval = interval

		return nil
	}
}

// WithTrigger replaces the interval trigger with a custom one.
func WithTrigger(factory TriggerFactory) Option {
	return func(s *Source) error {
		if factory == nil {
			return ErrNilTriggerFactory
		}

		s.newTrigger = factory

		return nil
	}
}

// WithPGXNotify refreshes on PostgreSQL notifications on channel, received on a pool connection.
// Writers signal changes with NOTIFY or pg_notify, typically from a trigger on the table.
func WithPGXNotify(pool *pgxpool.Pool, channel string) Option {
	return func(s *Source) error {
		if pool == nil {
			return ErrNilDatabaseConnection
		}

		if channel == "" {
			return ErrEmptyChannelName
		}

		s.newTrigger = PGXNotifyTrigger(pool, channel)

		return nil
	}
}

// WithPQNotify refreshes on PostgreSQL notifications on channel, received by a lib/pq listener.
// Connection problems of the listener are logged; it reconnects on its own.
func WithPQNotify(dsn, channel string) Option {
	return func(s *Source) error {
		if dsn == "" {
			return ErrEmptyDSN
		}

		if channel == "" {
			return ErrEmptyChannelName
		}

		s.newTrigger = PQNotifyTrigger(dsn, channel, func(event pq.ListenerEventType, err error) {
			if err != nil {
				s.logWarn(context.Background(), logMsgNotifyConnectionProblem, logAttrError, err.Error(), logAttrEvent, int(event))
			}
		})

		return nil
	}
}

// WithLogger sets the logger for the Source.
//
// Debug level: executed SQL with duration and document count (development use)
// Info level: listener start and stop, delivered batches (production-safe)
// Warn level: connection problems of notification listeners
// Error level: query and trigger failures that end the listener.
func WithLogger(logger snapshotarray.Logger) Option {
	return func(s *Source) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Source.
func WithContextualLogger(logger snapshotarray.ContextualLogger) Option {
	return func(s *Source) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Source.
// It receives query durations and error counts.
func WithMetrics(collector snapshotarray.MetricsCollector) Option {
	return func(s *Source) error {
		s.metricsCollector = collector
		return nil
	}
}

// WithLocker makes the Source hold locker while it delivers a batch or an error.
func WithLocker(locker sync.Locker) Option {
	return func(s *Source) error {
		if locker == nil {
			return ErrNilLocker
		}

		s.locker = locker

		return nil
	}
}
