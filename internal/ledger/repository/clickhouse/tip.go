package clickhouse

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
)

const tipQuery = `
SELECT epoch, slot
FROM ledger_blocks FINAL
ORDER BY epoch DESC, slot DESC
LIMIT 1`

// Tip returns the highest (epoch, slot) stored, or model.GenesisTip when the
// table is empty.
func (r *Repository) Tip(ctx context.Context) (tip model.Tip, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("tip", err, start)
	}()

	rows, err := r.conn.Query(ctx, tipQuery)
	if err != nil {
		return model.Tip{}, wrap("query tip", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = wrap("close rows", closeErr)
		}
	}()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return model.Tip{}, wrap("iterate tip", err)
		}
		return model.GenesisTip, nil
	}

	if err = rows.Scan(&tip.Epoch, &tip.Slot); err != nil {
		return model.Tip{}, wrap("scan tip", err)
	}
	return tip, nil
}
