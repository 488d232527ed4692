// Package clickhouse stores the ledger in ClickHouse ReplacingMergeTree tables.
// Every row carries a version; reads use FINAL so the highest version of a key
// is the only one visible, which gives upsert semantics without ON CONFLICT.
package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}

	// Conn is the subset of the ClickHouse driver used by the repository.
	Conn interface {
		PrepareBatch(ctx context.Context, query string) (Batch, error)
		Query(ctx context.Context, query string, args ...any) (Rows, error)
		Ping(ctx context.Context) error
		Close() error
	}

	Batch interface {
		Append(v ...any) error
		Send() error
		Abort() error
	}

	Rows interface {
		Next() bool
		Scan(dest ...any) error
		Err() error
		Close() error
	}
)

type Repository struct {
	conn    Conn
	metrics Metrics
	version atomic.Uint64
	now     func() time.Time
}

// NewRepository opens a connection and raises the version floor above every
// row already stored, so a host clock that moved back cannot make new writes
// lose to old ones.
func NewRepository(ctx context.Context, dsn string, metrics Metrics) (*Repository, error) {
	if dsn == "" {
		return nil, errors.New("clickhouse dsn is required")
	}

	options, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse dsn: %w", err)
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open clickhouse connection: %w", err)
	}

	repo := newRepository(driverConn{conn: conn}, metrics, time.Now)
	if err := repo.seedVersion(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("seed row version: %w", err)
	}
	return repo, nil
}

func newRepository(conn Conn, metrics Metrics, now func() time.Time) *Repository {
	return &Repository{conn: conn, metrics: metrics, now: now}
}

// Ping checks that the server is reachable.
func (r *Repository) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("ping", err, start)
	}()

	return wrap("ping", r.conn.Ping(ctx))
}

// Close releases the driver connections.
func (r *Repository) Close() error {
	return r.conn.Close()
}
