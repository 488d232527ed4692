package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/pkg/dedupe"
)

const upsertBlocksQuery = `
INSERT INTO scraper.blocks (
	cbeblkhash,
	cbeepoch,
	cbeslot,
	cbeblkheight,
	cbetimeissued,
	cbetxnum,
	cbetotalsent,
	cbesize,
	cbeblocklead,
	cbefees,
	cbsprevhash,
	cbsnexthash,
	cbsmerkleroot
)
SELECT * FROM unnest(
	$1::text[],
	$2::bigint[],
	$3::bigint[],
	$4::bigint[],
	$5::timestamptz[],
	$6::bigint[],
	$7::bigint[],
	$8::bigint[],
	$9::text[],
	$10::bigint[],
	$11::text[],
	$12::text[],
	$13::text[]
)
ON CONFLICT (cbeblkhash) DO UPDATE
SET cbeepoch      = EXCLUDED.cbeepoch,
	cbeslot       = EXCLUDED.cbeslot,
	cbeblkheight  = EXCLUDED.cbeblkheight,
	cbetimeissued = EXCLUDED.cbetimeissued,
	cbetxnum      = EXCLUDED.cbetxnum,
	cbetotalsent  = EXCLUDED.cbetotalsent,
	cbesize       = EXCLUDED.cbesize,
	cbeblocklead  = EXCLUDED.cbeblocklead,
	cbefees       = EXCLUDED.cbefees,
	cbsprevhash   = EXCLUDED.cbsprevhash,
	cbsnexthash   = EXCLUDED.cbsnexthash,
	cbsmerkleroot = EXCLUDED.cbsmerkleroot`

// UpsertBlocks inserts blocks or overwrites every non-key field of blocks
// already stored under the same hash. When the batch repeats a hash the last
// entry wins. An empty batch issues no query.
func (r *Repository) UpsertBlocks(ctx context.Context, blocks []model.Block) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("upsert_blocks", err, start)
	}()

	if len(blocks) == 0 {
		return nil
	}
	return upsertBlocks(ctx, r.conn, blocks)
}

func upsertBlocks(ctx context.Context, q execer, blocks []model.Block) error {
	blocks = dedupe.LastWins(blocks, model.Block.Key)
	if _, err := q.Exec(ctx, upsertBlocksQuery, blockColumns(blocks)...); err != nil {
		return wrap("upsert blocks", err)
	}
	return nil
}

func blockColumns(blocks []model.Block) []any {
	var (
		hashes      = make([]string, len(blocks))
		epochs      = make([]int64, len(blocks))
		slots       = make([]int64, len(blocks))
		heights     = make([]int64, len(blocks))
		issued      = make([]time.Time, len(blocks))
		txCounts    = make([]int64, len(blocks))
		totalSent   = make([]int64, len(blocks))
		sizes       = make([]int64, len(blocks))
		leads       = make([]string, len(blocks))
		fees        = make([]int64, len(blocks))
		prevHashes  = make([]string, len(blocks))
		nextHashes  = make([]pgtype.Text, len(blocks))
		merkleRoots = make([]string, len(blocks))
	)

	for i, b := range blocks {
		hashes[i] = b.Hash
		epochs[i] = b.Epoch
		slots[i] = b.Slot
		heights[i] = b.Height
		issued[i] = b.TimeIssued
		txCounts[i] = b.TxCount
		totalSent[i] = b.TotalSent
		sizes[i] = b.Size
		leads[i] = b.BlockLead
		fees[i] = b.Fees
		prevHashes[i] = b.PrevHash
		if b.NextHash != nil {
			nextHashes[i] = pgtype.Text{String: *b.NextHash, Valid: true}
		}
		merkleRoots[i] = b.MerkleRoot
	}

	return []any{
		hashes,
		epochs,
		slots,
		heights,
		issued,
		txCounts,
		totalSent,
		sizes,
		leads,
		fees,
		prevHashes,
		nextHashes,
		merkleRoots,
	}
}
