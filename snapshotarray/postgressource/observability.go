package postgressource

import (
	"context"
	"math"
	"time"

	"github.com/AntonStoeckl/observable-snapshots-go/snapshotarray"
)

// logDebug logs at debug level to whichever loggers are configured.
func (s *Source) logDebug(ctx context.Context, msg string, args ...any) {
	args = append([]any{logAttrTable, s.table}, args...)

	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.DebugContext(ctx, msg, args...)
	}
}

// logInfo logs operational information at info level to whichever loggers are configured.
func (s *Source) logInfo(ctx context.Context, msg string, args ...any) {
	args = append([]any{logAttrTable, s.table}, args...)

	if s.logger != nil {
		s.logger.Info(msg, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.InfoContext(ctx, msg, args...)
	}
}

// logWarn logs non-critical issues at warn level to whichever loggers are configured.
func (s *Source) logWarn(ctx context.Context, msg string, args ...any) {
	args = append([]any{logAttrTable, s.table}, args...)

	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.WarnContext(ctx, msg, args...)
	}
}

// logError logs error information at the error level to whichever loggers are configured.
func (s *Source) logError(ctx context.Context, msg string, err error, args ...any) {
	allArgs := []any{logAttrTable, s.table, logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if s.logger != nil {
		s.logger.Error(msg, allArgs...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.ErrorContext(ctx, msg, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordErrorMetrics counts one error, using the context-aware method if the collector supports it.
func (s *Source) recordErrorMetrics(ctx context.Context, errorType string) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		labelTable:     s.table,
		labelStatus:    statusError,
		labelErrorType: errorType,
	}

	if contextualCollector, ok := s.metricsCollector.(snapshotarray.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricQueryErrors, labels)
	} else {
		s.metricsCollector.IncrementCounter(metricQueryErrors, labels)
	}
}

// recordQueryDuration records the refresh query duration, using the context-aware method if available.
func (s *Source) recordQueryDuration(ctx context.Context, duration time.Duration, status string) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		labelTable:  s.table,
		labelStatus: status,
	}

	if contextualCollector, ok := s.metricsCollector.(snapshotarray.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricQueryDuration, duration, labels)
	} else {
		s.metricsCollector.RecordDuration(metricQueryDuration, duration, labels)
	}
}
