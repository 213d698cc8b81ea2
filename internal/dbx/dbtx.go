// Package dbx provides tiny DB abstractions shared by repositories:
// a minimal interface (DBTX) implemented by both *sql.DB and *sql.Tx,
// and helpers to open a pgx-backed *sql.DB that is actually reachable.
package dbx

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// DBTX is the subset of database/sql used by our repos.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingWithRetry pings db up to attempts times, waiting delay between tries.
// Every ping failure is treated as retryable; the last error is returned.
func PingWithRetry(ctx context.Context, db Pinger, attempts uint64, delay time.Duration) error {
	if attempts == 0 {
		attempts = 1
	}
	b := retry.WithMaxRetries(attempts-1, retry.NewConstant(delay))

	return retry.Do(ctx, b, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

// Open opens a PostgreSQL pool through the pgx stdlib driver and waits until
// it answers a ping.
func Open(ctx context.Context, dsn string, attempts uint64, delay time.Duration) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, oops.Code("DB_OPEN_FAILED").Wrap(err)
	}

	if err := PingWithRetry(ctx, db, attempts, delay); err != nil {
		_ = db.Close()
		return nil, oops.Code("DB_CONNECT_FAILED").
			With("attempts", attempts).
			Wrap(err)
	}

	return db, nil
}
