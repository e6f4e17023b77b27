package postgressource

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/observable-snapshots-go/snapshotarray/postgressource/internal/adapters"
)

const (
	dialectPostgres = "postgres"
	castText        = "?::text"
	aliasID         = "id"
	aliasData       = "data"
)

func (s *Source) buildSelectQuery() (string, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(s.table).
		Select(
			goqu.L(castText, goqu.I(s.idColumn)).As(aliasID),
			goqu.L(castText, goqu.I(s.dataColumn)).As(aliasData),
		)

	if len(s.where) > 0 {
		selectStmt = selectStmt.Where(s.where...)
	}

	selectStmt = selectStmt.Order(s.orderExpressions()...)

	if s.limit > 0 {
		selectStmt = selectStmt.Limit(s.limit)
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (s *Source) orderExpressions() []exp.OrderedExpression {
	ordering := make([]exp.OrderedExpression, 0, len(s.orderBy)+1)

	for _, column := range s.orderBy {
		if column.name == s.idColumn {
			continue
		}

		if column.descending {
			ordering = append(ordering, goqu.I(column.name).Desc())
		} else {
			ordering = append(ordering, goqu.I(column.name).Asc())
		}
	}

	// the id is the last tiebreaker so that the order is total
	idDescending := false
	for _, column := range s.orderBy {
		if column.name == s.idColumn {
			idDescending = column.descending
		}
	}

	if idDescending {
		return append(ordering, goqu.I(s.idColumn).Desc())
	}

	return append(ordering, goqu.I(s.idColumn).Asc())
}

// queryDocuments runs the select statement and scans the result set.
func (s *Source) queryDocuments(ctx context.Context, sqlQuery string) ([]*Document, error) {
	start := time.Now()

	rows, queryErr := s.db.Query(ctx, sqlQuery)
	if queryErr != nil {
		return nil, s.queryFailed(ctx, sqlQuery, time.Since(start), queryErr)
	}
	defer s.closeRows(ctx, rows)

	docs, scanErr := s.scanDocuments(ctx, rows)
	if scanErr != nil {
		s.recordQueryDuration(ctx, time.Since(start), statusError)
		return nil, scanErr
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, s.queryFailed(ctx, sqlQuery, time.Since(start), rowsErr)
	}

	duration := time.Since(start)
	s.logDebug(ctx, logMsgSQLExecuted,
		logAttrDurationMS, toMilliseconds(duration),
		logAttrDocumentCount, len(docs),
		logAttrQuery, sqlQuery)
	s.recordQueryDuration(ctx, duration, statusSuccess)

	return docs, nil
}

func (s *Source) scanDocuments(ctx context.Context, rows adapters.DBRows) ([]*Document, error) {
	docs := make([]*Document, 0)

	for rows.Next() {
		var id string
		var data []byte

		if scanErr := rows.Scan(&id, &data); scanErr != nil {
			s.logError(ctx, logMsgScanRowFailed, scanErr)
			s.recordErrorMetrics(ctx, errorTypeScan)

			return nil, errors.Join(ErrScanningDBRowFailed, scanErr)
		}

		docs = append(docs, NewDocument(id, data))
	}

	return docs, nil
}

func (s *Source) queryFailed(ctx context.Context, sqlQuery string, duration time.Duration, err error) error {
	if ctx.Err() == nil {
		s.logError(ctx, logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)
		s.recordErrorMetrics(ctx, errorTypeQuery)
		s.recordQueryDuration(ctx, duration, statusError)
	}

	return errors.Join(ErrQueryingDocumentsFailed, err)
}

// closeRows safely closes database rows and logs any errors.
func (s *Source) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		s.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}
