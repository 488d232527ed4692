package replica

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/pkg/safe"
)

const (
	sentDistinctCountQuery = `
SELECT count(DISTINCT ctsid)
FROM scraper.txinput
WHERE ctsinputaddr = $1`

	receivedDistinctCountQuery = `
SELECT count(DISTINCT ctsid)
FROM scraper.txoutput
WHERE ctsoutputaddr = $1`
)

// SentDistinctCount returns the number of distinct transactions spending from address.
func (r *Reader) SentDistinctCount(ctx context.Context, address string) (count uint64, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("sent_distinct_count", err, start)
	}()

	return r.distinctCount(ctx, "count sent", sentDistinctCountQuery, address)
}

// ReceivedDistinctCount returns the number of distinct transactions paying to address.
func (r *Reader) ReceivedDistinctCount(ctx context.Context, address string) (count uint64, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("received_distinct_count", err, start)
	}()

	return r.distinctCount(ctx, "count received", receivedDistinctCountQuery, address)
}

func (r *Reader) distinctCount(ctx context.Context, op, query, address string) (uint64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, query, address); err != nil {
		return 0, wrap(op, err)
	}
	return safe.Uint64(n)
}
