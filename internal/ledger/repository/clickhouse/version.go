package clickhouse

import (
	"context"
	"time"
)

const maxVersionQuery = `
SELECT greatest(
	(SELECT max(version) FROM ledger_blocks),
	(SELECT max(version) FROM ledger_transactions),
	(SELECT max(version) FROM ledger_transaction_inputs),
	(SELECT max(version) FROM ledger_transaction_outputs)
)`

// nextVersion returns a row version strictly greater than every version
// handed out before or found stored at startup. It follows wall clock
// nanoseconds but never goes back when the clock does.
func (r *Repository) nextVersion() uint64 {
	for {
		last := r.version.Load()
		next := uint64(r.now().UnixNano())
		if next <= last {
			next = last + 1
		}
		if r.version.CompareAndSwap(last, next) {
			return next
		}
	}
}

// raiseVersion makes v the floor for versions handed out later.
func (r *Repository) raiseVersion(v uint64) {
	for {
		last := r.version.Load()
		if v <= last || r.version.CompareAndSwap(last, v) {
			return
		}
	}
}

// seedVersion raises the version floor to the highest version already stored.
func (r *Repository) seedVersion(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("seed_version", err, start)
	}()

	rows, err := r.conn.Query(ctx, maxVersionQuery)
	if err != nil {
		return wrap("query max version", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = wrap("close rows", closeErr)
		}
	}()

	var stored uint64
	if rows.Next() {
		if err = rows.Scan(&stored); err != nil {
			return wrap("scan max version", err)
		}
	}
	if err = rows.Err(); err != nil {
		return wrap("iterate max version", err)
	}

	r.raiseVersion(stored)
	return nil
}
