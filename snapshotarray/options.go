package snapshotarray

// Option defines a functional option for configuring an Array.
type Option func(*config) error

type config struct {
	name             string
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// WithName sets the name used in log attributes and metric labels to tell several arrays apart.
func WithName(name string) Option {
	return func(c *config) error {
		if name == "" {
			return ErrEmptyArrayName
		}

		c.name = name

		return nil
	}
}

// WithLogger sets the logger for the Array.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: every applied change with its indices (development use)
// Info level: activation, deactivation and applied batches with duration (production-safe)
// Error level: upstream listener failures and rejected batches.
func WithLogger(logger Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Array.
// The contextual logger will receive the same messages as the Logger, correlated with the
// tracing span of the batch they belong to when tracing is enabled.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(c *config) error {
		c.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Array.
// It receives batch and change counts, batch durations, the sequence size and error counts.
func WithMetrics(collector MetricsCollector) Option {
	return func(c *config) error {
		c.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Array.
// One span is created per applied or rejected batch.
func WithTracing(collector TracingCollector) Option {
	return func(c *config) error {
		c.tracingCollector = collector
		return nil
	}
}
