package postgressource

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/observable-snapshots-go/snapshotarray"
	"github.com/AntonStoeckl/observable-snapshots-go/snapshotarray/postgressource/internal/adapters"
)

const (
	defaultIDColumn               = "id"
	defaultDataColumn             = "data"
	defaultPollInterval           = time.Second
	logMsgListenerStarted         = "postgres listener started"
	logMsgListenerStopped         = "postgres listener stopped"
	logMsgBuildSelectQueryFailed  = "failed to build select query"
	logMsgDBQueryFailed           = "database query execution failed"
	logMsgScanRowFailed           = "failed to scan database row"
	logMsgCloseRowsFailed         = "failed to close database rows"
	logMsgTriggerFailed           = "waiting for changes failed"
	logMsgCloseTriggerFailed      = "failed to close refresh trigger"
	logMsgNotifyConnectionProblem = "notification listener connection problem"
	logMsgSQLExecuted             = "executed sql for: refresh"
	logMsgBatchDelivered          = "batch delivered"
	logAttrError                  = "error"
	logAttrQuery                  = "query"
	logAttrTable                  = "table"
	logAttrEvent                  = "event"
	logAttrDocumentCount          = "document_count"
	logAttrChangeCount            = "change_count"
	logAttrDurationMS             = "duration_ms"
	metricQueryDuration           = "postgressource_query_duration_seconds"
	metricQueryErrors             = "postgressource_query_errors_total"
	labelTable                    = "table"
	labelStatus                   = "status"
	labelErrorType                = "error_type"
	statusSuccess                 = "success"
	statusError                   = "error"
	errorTypeQuery                = "query"
	errorTypeScan                 = "scan"
	errorTypeTrigger              = "trigger"
)

type orderColumn struct {
	name       string
	descending bool
}

// Source is a snapshotarray.Source that re-runs a select statement over one table whenever its
// Trigger fires and delivers the difference to the previous result set as a batch.
type Source struct {
	db           adapters.DBAdapter
	table        string
	idColumn     string
	dataColumn   string
	orderBy      []orderColumn
	where        []exp.Expression
	limit        uint
	pollInterval time.Duration
	newTrigger   TriggerFactory

	logger           snapshotarray.Logger
	contextualLogger snapshotarray.ContextualLogger
	metricsCollector snapshotarray.MetricsCollector
	locker           sync.Locker
}

// NewSourceFromPGXPool creates a new Source over table using a pgx Pool with optional configuration.
func NewSourceFromPGXPool(db *pgxpool.Pool, table string, options ...Option) (*Source, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newSource(adapters.NewPGXAdapter(db), table, options...)
}

// NewSourceFromSQLDB creates a new Source over table using a sql.DB with optional configuration.
func NewSourceFromSQLDB(db *sql.DB, table string, options ...Option) (*Source, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newSource(adapters.NewSQLAdapter(db), table, options...)
}

// NewSourceFromSQLX creates a new Source over table using a sqlx.DB with optional configuration.
func NewSourceFromSQLX(db *sqlx.DB, table string, options ...Option) (*Source, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newSource(adapters.NewSQLXAdapter(db), table, options...)
}

func newSource(db adapters.DBAdapter, table string, options ...Option) (*Source, error) {
	if table == "" {
		return nil, ErrEmptyTableName
	}

	s := &Source{
		db:           db,
		table:        table,
		idColumn:     defaultIDColumn,
		dataColumn:   defaultDataColumn,
		pollInterval: defaultPollInterval,
		newTrigger:   IntervalTrigger(),
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Listen implements snapshotarray.Source.
//
// The first batch describes the initial result set and is always delivered, later batches only when
// something changed. A failing query or trigger is delivered once and ends the listener.
func (s *Source) Listen(ctx context.Context, listener snapshotarray.Listener) (snapshotarray.Registration, error) {
	if listener == nil {
		return nil, ErrNilListener
	}

	sqlQuery, buildErr := s.buildSelectQuery()
	if buildErr != nil {
		s.logError(ctx, logMsgBuildSelectQueryFailed, buildErr)
		return nil, buildErr
	}

	listenCtx, cancel := context.WithCancel(ctx)

	trigger, triggerErr := s.newTrigger(listenCtx, s.pollInterval)
	if triggerErr != nil {
		cancel()
		return nil, errors.Join(ErrStartingTriggerFailed, triggerErr)
	}

	reg := &registration{cancel: cancel}

	s.logInfo(ctx, logMsgListenerStarted)

	go s.run(listenCtx, sqlQuery, trigger, reg, listener)

	return reg, nil
}

func (s *Source) run(
	ctx context.Context,
	sqlQuery string,
	trigger Trigger,
	reg *registration,
	listener snapshotarray.Listener,
) {
	defer s.closeTrigger(ctx, trigger)

	var previous []*Document
	first := true

	for {
		current, queryErr := s.queryDocuments(ctx, sqlQuery)
		if s.stopped(ctx, reg) {
			return
		}

		if queryErr != nil {
			s.deliver(reg, listener, nil, queryErr)
			return
		}

		changes := ComputeChanges(previous, current)
		if first || len(changes) > 0 {
			s.logInfo(ctx, logMsgBatchDelivered, logAttrChangeCount, len(changes), logAttrDocumentCount, len(current))
			s.deliver(reg, listener, &snapshotarray.QuerySnapshot{Changes: changes, ReadTime: time.Now()}, nil)
		}

		first = false
		previous = current

		if waitErr := trigger.Wait(ctx); waitErr != nil {
			if s.stopped(ctx, reg) {
				return
			}

			s.logError(ctx, logMsgTriggerFailed, waitErr)
			s.recordErrorMetrics(ctx, errorTypeTrigger)
			s.deliver(reg, listener, nil, errors.Join(ErrWaitingForChangesFailed, waitErr))

			return
		}
	}
}

func (s *Source) stopped(ctx context.Context, reg *registration) bool {
	if reg.isRemoved() || ctx.Err() != nil {
		s.logInfo(ctx, logMsgListenerStopped)
		return true
	}

	return false
}

func (s *Source) deliver(reg *registration, listener snapshotarray.Listener, batch *snapshotarray.QuerySnapshot, err error) {
	if s.locker != nil {
		s.locker.Lock()
		defer s.locker.Unlock()
	}

	// Remove may have been called while waiting for the lock
	if reg.isRemoved() {
		return
	}

	listener(batch, err)
}

func (s *Source) closeTrigger(ctx context.Context, trigger Trigger) {
	if closeErr := trigger.Close(); closeErr != nil {
		s.logWarn(ctx, logMsgCloseTriggerFailed, logAttrError, closeErr.Error())
	}
}

type registration struct {
	cancel  context.CancelFunc
	once    sync.Once
	removed atomic.Bool
}

// Remove ends the listener. The trigger is closed by the listener goroutine when it exits.
func (r *registration) Remove() {
	r.once.Do(func() {
		r.removed.Store(true)
		r.cancel()
	})
}

func (r *registration) isRemoved() bool {
	return r.removed.Load()
}

var _ snapshotarray.Source = (*Source)(nil)
