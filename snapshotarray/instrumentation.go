package snapshotarray

import (
	"context"
	"fmt"
	"math"
	"time"
)

// logDebug logs at debug level to whichever loggers are configured.
func (c *config) logDebug(ctx context.Context, msg string, args ...any) {
	args = append([]any{logAttrArray, c.name}, args...)

	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}

	if c.contextualLogger != nil {
		c.contextualLogger.DebugContext(ctx, msg, args...)
	}
}

// logInfo logs operational information at info level to whichever loggers are configured.
func (c *config) logInfo(ctx context.Context, msg string, args ...any) {
	args = append([]any{logAttrArray, c.name}, args...)

	if c.logger != nil {
		c.logger.Info(msg, args...)
	}

	if c.contextualLogger != nil {
		c.contextualLogger.InfoContext(ctx, msg, args...)
	}
}

// logError logs error information at the error level to whichever loggers are configured.
func (c *config) logError(ctx context.Context, msg string, err error, args ...any) {
	allArgs := []any{logAttrArray, c.name, logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if c.logger != nil {
		c.logger.Error(msg, allArgs...)
	}

	if c.contextualLogger != nil {
		c.contextualLogger.ErrorContext(ctx, msg, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// incrementCounter increments a counter, using the context-aware method if the collector supports it.
func (c *config) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if c.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := c.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metric, labels)
	} else {
		c.metricsCollector.IncrementCounter(metric, labels)
	}
}

// recordDuration records a duration, using the context-aware method if the collector supports it.
func (c *config) recordDuration(ctx context.Context, metric string, duration time.Duration, labels map[string]string) {
	if c.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := c.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metric, duration, labels)
	} else {
		c.metricsCollector.RecordDuration(metric, duration, labels)
	}
}

// recordValue records a value, using the context-aware method if the collector supports it.
func (c *config) recordValue(ctx context.Context, metric string, value float64, labels map[string]string) {
	if c.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := c.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metric, value, labels)
	} else {
		c.metricsCollector.RecordValue(metric, value, labels)
	}
}

// recordErrorMetrics counts one error of the given type.
func (c *config) recordErrorMetrics(ctx context.Context, metric, errorType string) {
	c.incrementCounter(ctx, metric, map[string]string{
		labelArray:     c.name,
		labelStatus:    statusError,
		labelErrorType: errorType,
	})
}

// recordDurationMetrics records the batch duration with the given status.
func (c *config) recordDurationMetrics(ctx context.Context, metric string, duration time.Duration, status string) {
	c.recordDuration(ctx, metric, duration, map[string]string{
		labelArray:  c.name,
		labelStatus: status,
	})
}

// recordChangeMetrics counts one applied change.
func (c *config) recordChangeMetrics(ctx context.Context, changeType ChangeEventType) {
	c.incrementCounter(ctx, metricChangesTotal, map[string]string{
		labelArray:      c.name,
		labelChangeType: changeType.String(),
	})
}

// recordBatchMetrics records all metrics for a successfully applied batch.
func (a *Array[T]) recordBatchMetrics(ctx context.Context, duration time.Duration) {
	a.incrementCounter(ctx, metricBatchesTotal, map[string]string{
		labelArray:  a.name,
		labelStatus: statusSuccess,
	})
	a.recordDurationMetrics(ctx, metricBatchDuration, duration, statusSuccess)
	a.recordValue(ctx, metricSize, float64(len(a.snapshots)), map[string]string{
		labelArray: a.name,
	})
}

// startBatchSpan starts a tracing span for one batch if the tracing collector is configured.
func (c *config) startBatchSpan(ctx context.Context, changeCount int) (context.Context, SpanContext) {
	if c.tracingCollector == nil {
		return ctx, nil
	}

	return c.tracingCollector.StartSpan(ctx, spanNameApplyBatch, map[string]string{
		spanAttrArray:       c.name,
		spanAttrChangeCount: fmt.Sprintf("%d", changeCount),
	})
}

// finishBatchSpan finishes a batch span if the tracing collector is configured.
func (c *config) finishBatchSpan(span SpanContext, status string, attrs map[string]string) {
	if c.tracingCollector == nil || span == nil {
		return
	}

	span.SetStatus(status)
	c.tracingCollector.FinishSpan(span, status, attrs)
}
