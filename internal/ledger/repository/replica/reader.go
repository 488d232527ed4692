// Package replica answers address history queries from a Postgres read replica.
package replica

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}

	// DB is the subset of *sqlx.DB used by the reader.
	DB interface {
		GetContext(ctx context.Context, dest any, query string, args ...any) error
		SelectContext(ctx context.Context, dest any, query string, args ...any) error
		PingContext(ctx context.Context) error
		Close() error
	}
)

// Reader serves the address history queries. It is safe for concurrent use.
type Reader struct {
	db      DB
	metrics Metrics
}

// NewReader connects to the replica behind dsn.
func NewReader(ctx context.Context, dsn string, metrics Metrics) (*Reader, error) {
	if dsn == "" {
		return nil, errors.New("replica dsn is required")
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect replica: %w", err)
	}

	return &Reader{db: db, metrics: metrics}, nil
}

// Ping checks that the replica is reachable.
func (r *Reader) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("ping", err, start)
	}()

	return wrap("ping", r.db.PingContext(ctx))
}

// Close releases the underlying connections.
func (r *Reader) Close() error {
	return r.db.Close()
}
