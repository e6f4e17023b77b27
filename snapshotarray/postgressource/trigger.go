package postgressource

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const (
	pqMinReconnectInterval = 100 * time.Millisecond
	pqMaxReconnectInterval = 10 * time.Second
)

// Trigger tells the Source when to run its query again.
type Trigger interface {
	// Wait blocks until the next refresh is due. It returns ctx.Err() when ctx is done.
	Wait(ctx context.Context) error

	// Close releases the resources of the trigger.
	Close() error
}

// TriggerFactory starts a Trigger for one listener. pollInterval is the configured poll interval,
// which notification based triggers use as their fallback.
type TriggerFactory func(ctx context.Context, pollInterval time.Duration) (Trigger, error)

// IntervalTrigger returns a TriggerFactory that refreshes once per poll interval.
func IntervalTrigger() TriggerFactory {
	return func(_ context.Context, pollInterval time.Duration) (Trigger, error) {
		return &intervalTrigger{ticker: time.NewTicker(pollInterval)}, nil
	}
}

type intervalTrigger struct {
	ticker *time.Ticker
}

func (t *intervalTrigger) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.ticker.C:
		return nil
	}
}

func (t *intervalTrigger) Close() error {
	t.ticker.Stop()
	return nil
}

// PGXNotifyTrigger returns a TriggerFactory that LISTENs on channel with a dedicated connection taken
// from the pool. Every notification triggers a refresh; without notifications it refreshes once per
// poll interval.
func PGXNotifyTrigger(pool *pgxpool.Pool, channel string) TriggerFactory {
	return func(ctx context.Context, pollInterval time.Duration) (Trigger, error) {
		conn, err := pool.Acquire(ctx)
		if err != nil {
			return nil, err
		}

		if _, execErr := conn.Exec(ctx, "LISTEN "+pgx.Identifier{channel}.Sanitize()); execErr != nil {
			conn.Release()
			return nil, execErr
		}

		// the connection keeps its LISTEN registration, so it must not go back to the pool
		return &pgxNotifyTrigger{conn: conn.Hijack(), pollInterval: pollInterval}, nil
	}
}

type pgxNotifyTrigger struct {
	conn         *pgx.Conn
	pollInterval time.Duration
}

func (t *pgxNotifyTrigger) Wait(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, t.pollInterval)
	defer cancel()

	_, err := t.conn.WaitForNotification(waitCtx)
	if err == nil {
		return nil
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if pgconn.Timeout(err) {
		return nil
	}

	return err
}

func (t *pgxNotifyTrigger) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	return t.conn.Close(ctx)
}

// PQNotifyTrigger returns a TriggerFactory that LISTENs on channel with a lib/pq listener
// connected via dsn. Every notification, including the one signaling a reconnect, triggers a refresh;
// without notifications it refreshes once per poll interval.
func PQNotifyTrigger(dsn, channel string, onConnectionEvent func(event pq.ListenerEventType, err error)) TriggerFactory {
	return func(_ context.Context, pollInterval time.Duration) (Trigger, error) {
		listener := pq.NewListener(dsn, pqMinReconnectInterval, pqMaxReconnectInterval, onConnectionEvent)

		if err := listener.Listen(channel); err != nil {
			_ = listener.Close()
			return nil, err
		}

		return &pqNotifyTrigger{listener: listener, pollInterval: pollInterval}, nil
	}
}

type pqNotifyTrigger struct {
	listener     *pq.Listener
	pollInterval time.Duration
}

func (t *pqNotifyTrigger) Wait(ctx context.Context) error {
	timer := time.NewTimer(t.pollInterval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.listener.Notify:
		// a nil notification means the connection was re-established and notifications may have been lost
		return nil
	case <-timer.C:
		return nil
	}
}

func (t *pqNotifyTrigger) Close() error {
	return t.listener.Close()
}
