// Package postgres stores the ledger in Postgres with idempotent upserts.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}

	// Conn is the subset of a connection pool used by the repository.
	Conn interface {
		Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
		QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
		Begin(ctx context.Context) (Tx, error)
		Ping(ctx context.Context) error
		Close()
	}

	// Tx is an open database transaction.
	Tx interface {
		Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// Row is a single result row.
	Row interface {
		pgx.Row
	}
)

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Repository is the primary ledger store. It keeps no state of its own beyond
// the injected connection pool.
type Repository struct {
	conn    Conn
	metrics Metrics
}

// NewRepository opens a pgx pool for dsn.
func NewRepository(ctx context.Context, dsn string, metrics Metrics) (*Repository, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}

	return &Repository{conn: poolConn{pool: pool}, metrics: metrics}, nil
}

// Ping checks that the store is reachable.
func (r *Repository) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("ping", err, start)
	}()

	return wrap("ping", r.conn.Ping(ctx))
}

// Close releases the pool.
func (r *Repository) Close() {
	r.conn.Close()
}

type poolConn struct {
	pool *pgxpool.Pool
}

func (c poolConn) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return c.pool.Exec(ctx, sql, arguments...)
}

func (c poolConn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return c.pool.QueryRow(ctx, sql, args...)
}

func (c poolConn) Begin(ctx context.Context) (Tx, error) {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (c poolConn) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c poolConn) Close() {
	c.pool.Close()
}
