package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
)

const tipQuery = `
SELECT cbeepoch, cbeslot
FROM scraper.blocks
ORDER BY cbeepoch DESC, cbeslot DESC
LIMIT 1`

// Tip returns the highest (epoch, slot) stored, or model.GenesisTip when no
// block has been written yet.
func (r *Repository) Tip(ctx context.Context) (tip model.Tip, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("tip", err, start)
	}()

	err = r.conn.QueryRow(ctx, tipQuery).Scan(&tip.Epoch, &tip.Slot)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.GenesisTip, nil
	}
	if err != nil {
		return model.Tip{}, wrap("query tip", err)
	}
	return tip, nil
}
