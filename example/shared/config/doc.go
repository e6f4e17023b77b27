// Package config provides connection and observability configuration for the runnable examples.
//
// Settings are read with viper from command-line flags and SNAPSHOTWATCH_* environment variables,
// with defaults matching the docker-compose setup (PostgreSQL on localhost:5432, Jaeger on
// localhost:4319, OpenTelemetry Collector on localhost:4317).
//
// It also contains factory functions for PostgreSQL connections with the three supported
// drivers (pgx.Pool, sql.DB, sqlx.DB) and for OpenTelemetry providers exporting via OTLP gRPC.
package config
