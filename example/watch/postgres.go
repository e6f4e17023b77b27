package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AntonStoeckl/observable-snapshots-go/example/shared/config"
	"github.com/AntonStoeckl/observable-snapshots-go/snapshotarray/postgressource"
)

func newPostgresCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "postgres",
		Short: "Watch the rows of a PostgreSQL table with an id and a JSON data column",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPostgres(cmd, v)
		},
	}

	flags := cmd.Flags()
	flags.String("dsn", v.GetString(config.KeyPostgresDSN), "PostgreSQL connection string")
	flags.String("driver", v.GetString(config.KeyPostgresDriver), "pgx, sql or sqlx")
	flags.String("table", v.GetString(config.KeyPostgresTable), "table to watch")
	flags.String("notify-channel", v.GetString(config.KeyPostgresChannel), "LISTEN channel, empty to poll only")
	flags.Duration("poll-interval", v.GetDuration(config.KeyPollInterval), "refresh interval without notifications")
	cobra.CheckErr(v.BindPFlag(config.KeyPostgresDSN, flags.Lookup("dsn")))
	cobra.CheckErr(v.BindPFlag(config.KeyPostgresDriver, flags.Lookup("driver")))
	cobra.CheckErr(v.BindPFlag(config.KeyPostgresTable, flags.Lookup("table")))
	cobra.CheckErr(v.BindPFlag(config.KeyPostgresChannel, flags.Lookup("notify-channel")))
	cobra.CheckErr(v.BindPFlag(config.KeyPollInterval, flags.Lookup("poll-interval")))

	return cmd
}

func runPostgres(cmd *cobra.Command, v *viper.Viper) error {
	logger := newLogger(v)
	mu := &sync.Mutex{}

	source, closeDB, err := newPostgresSource(cmd.Context(), v, logger, mu)
	if err != nil {
		return err
	}
	defer closeDB()

	return watch(cmd, v, logger, source, mu)
}

// newPostgresSource connects with the configured driver. The returned func closes the connection pool.
func newPostgresSource(
	ctx context.Context,
	v *viper.Viper,
	logger *slog.Logger,
	mu *sync.Mutex,
) (*postgressource.Source, func(), error) {
	dsn := v.GetString(config.KeyPostgresDSN)
	table := v.GetString(config.KeyPostgresTable)
	channel := v.GetString(config.KeyPostgresChannel)

	options := []postgressource.Option{
		postgressource.WithOrderBy(v.GetString(config.KeyOrderBy), false),
		postgressource.WithPollInterval(v.GetDuration(config.KeyPollInterval)),
		postgressource.WithContextualLogger(logger),
		postgressource.WithLocker(mu),
	}

	switch driver := v.GetString(config.KeyPostgresDriver); driver {
	case config.DriverPGX:
		poolConfig, err := config.PostgresPGXPoolConfig(dsn)
		if err != nil {
			return nil, nil, err
		}

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, nil, err
		}

		if channel != "" {
			options = append(options, postgressource.WithPGXNotify(pool, channel))
		}

		source, err := postgressource.NewSourceFromPGXPool(pool, table, options...)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}

		return source, pool.Close, nil

	case config.DriverSQL:
		db, err := config.PostgresSQLDB(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}

		if channel != "" {
			options = append(options, postgressource.WithPQNotify(dsn, channel))
		}

		source, err := postgressource.NewSourceFromSQLDB(db, table, options...)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return source, func() { _ = db.Close() }, nil

	case config.DriverSQLX:
		db, err := config.PostgresSQLX(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}

		if channel != "" {
			options = append(options, postgressource.WithPQNotify(dsn, channel))
		}

		source, err := postgressource.NewSourceFromSQLX(db, table, options...)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return source, func() { _ = db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported postgres driver %q", driver)
	}
}
