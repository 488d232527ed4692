package clickhouse

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/pkg/dedupe"
)

const insertBlocksQuery = `
INSERT INTO ledger_blocks (
	hash,
	epoch,
	slot,
	height,
	time_issued,
	tx_count,
	total_sent,
	size,
	block_lead,
	fees,
	prev_hash,
	next_hash,
	merkle_root,
	version
) VALUES`

// UpsertBlocks writes a new version of every block. Repeated hashes in one
// call collapse to the last occurrence.
func (r *Repository) UpsertBlocks(ctx context.Context, blocks []model.Block) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("upsert_blocks", err, start)
	}()

	if len(blocks) == 0 {
		return nil
	}
	return r.insertBlocks(ctx, blocks, r.nextVersion())
}

func (r *Repository) insertBlocks(ctx context.Context, blocks []model.Block, version uint64) error {
	rows := dedupe.LastWins(blocks, model.Block.Key)
	return r.sendBatch(ctx, "blocks", insertBlocksQuery, len(rows), func(i int) []any {
		b := rows[i]
		return []any{
			b.Hash,
			b.Epoch,
			b.Slot,
			b.Height,
			b.TimeIssued,
			b.TxCount,
			b.TotalSent,
			b.Size,
			b.BlockLead,
			b.Fees,
			b.PrevHash,
			b.NextHash,
			b.MerkleRoot,
			version,
		}
	})
}

// sendBatch prepares query, appends n rows produced by row and sends them in
// one insert. The batch is aborted when any step fails.
func (r *Repository) sendBatch(ctx context.Context, table, query string, n int, row func(i int) []any) (err error) {
	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return wrap("prepare "+table+" batch", err)
	}
	defer func() {
		if err != nil {
			_ = batch.Abort()
		}
	}()

	for i := 0; i < n; i++ {
		if err = batch.Append(row(i)...); err != nil {
			return wrap("append "+table+" row", err)
		}
	}

	if err = batch.Send(); err != nil {
		return wrap("insert "+table, err)
	}
	return nil
}
