package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/observable-snapshots-go/example/shared/config"
	"github.com/AntonStoeckl/observable-snapshots-go/snapshotarray"
	"github.com/AntonStoeckl/observable-snapshots-go/snapshotarray/oteladapters"
)

const serviceName = "snapshotwatch"

func newRootCmd() *cobra.Command {
	v := config.NewViper()

	rootCmd := &cobra.Command{
		Use:          "watch",
		Short:        "Watch an ordered query result and log every list change",
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("order-by", v.GetString(config.KeyOrderBy), "field or column that orders the list")
	flags.String("log-level", v.GetString(config.KeyLogLevel), "debug, info, warn or error")
	flags.Bool("observability", v.GetBool(config.KeyObservability), "export traces and metrics via OTLP gRPC")
	cobra.CheckErr(v.BindPFlag(config.KeyOrderBy, flags.Lookup("order-by")))
	cobra.CheckErr(v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level")))
	cobra.CheckErr(v.BindPFlag(config.KeyObservability, flags.Lookup("observability")))

	rootCmd.AddCommand(newPostgresCmd(v))
	rootCmd.AddCommand(newFirestoreCmd(v))

	return rootCmd
}

// watch runs one board until SIGINT or SIGTERM.
// Delivery and the main goroutine share mu, so the array is only ever touched by one of them.
func watch(
	cmd *cobra.Command,
	v *viper.Viper,
	logger *slog.Logger,
	source snapshotarray.Source,
	mu *sync.Mutex,
) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	options, shutdown, err := arrayOptions(ctx, v, logger)
	if err != nil {
		return err
	}
	defer shutdown()

	array, err := snapshotarray.NewArrayOf[task](source, options...)
	if err != nil {
		return err
	}

	mu.Lock()
	sub, err := array.Subscribe(ctx, newBoard(array, logger))
	mu.Unlock()

	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "watching, press Ctrl+C to stop")
	<-ctx.Done()

	mu.Lock()
	sub.Unsubscribe()
	mu.Unlock()

	return nil
}

// arrayOptions configures array logging and, if enabled, OTLP metrics and tracing.
// The returned shutdown func flushes the exporters.
func arrayOptions(ctx context.Context, v *viper.Viper, logger *slog.Logger) ([]snapshotarray.Option, func(), error) {
	options := []snapshotarray.Option{
		snapshotarray.WithName(serviceName),
		snapshotarray.WithContextualLogger(logger),
	}

	if !v.GetBool(config.KeyObservability) {
		return options, func() {}, nil
	}

	providers, err := config.NewObservabilityProviders(ctx, serviceName,
		v.GetString(config.KeyTraceEndpoint), v.GetString(config.KeyMetricEndpoint))
	if err != nil {
		return nil, nil, err
	}

	options = append(options,
		snapshotarray.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter(serviceName))),
		snapshotarray.WithTracing(oteladapters.NewTracingCollector(otel.Tracer(serviceName))),
	)

	shutdown := func() {
		if shutdownErr := providers.Shutdown(); shutdownErr != nil {
			logger.Warn("shutting down observability providers failed", "error", shutdownErr.Error())
		}
	}

	return options, shutdown, nil
}

func newLogger(v *viper.Viper) *slog.Logger {
	return config.NewJSONLogger(os.Stdout, v.GetString(config.KeyLogLevel))
}
