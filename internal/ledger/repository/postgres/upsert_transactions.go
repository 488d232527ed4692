package postgres

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/pkg/dedupe"
)

const upsertTransactionsQuery = `
INSERT INTO scraper.tx (
	ctsid,
	ctstxtimeissued,
	ctsblocktimeissued,
	ctsblockhash,
	ctstotalinput,
	ctstotaloutput,
	ctsfees
)
SELECT * FROM unnest(
	$1::text[],
	$2::timestamptz[],
	$3::timestamptz[],
	$4::text[],
	$5::bigint[],
	$6::bigint[],
	$7::bigint[]
)
ON CONFLICT (ctsid) DO UPDATE
SET ctstxtimeissued    = EXCLUDED.ctstxtimeissued,
	ctsblocktimeissued = EXCLUDED.ctsblocktimeissued,
	ctsblockhash       = EXCLUDED.ctsblockhash,
	ctstotalinput      = EXCLUDED.ctstotalinput,
	ctstotaloutput     = EXCLUDED.ctstotaloutput,
	ctsfees            = EXCLUDED.ctsfees`

// UpsertTransactions inserts transactions or overwrites the stored ones with
// the same id.
func (r *Repository) UpsertTransactions(ctx context.Context, txs []model.Transaction) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("upsert_transactions", err, start)
	}()

	if len(txs) == 0 {
		return nil
	}
	return upsertTransactions(ctx, r.conn, txs)
}

func upsertTransactions(ctx context.Context, q execer, txs []model.Transaction) error {
	txs = dedupe.LastWins(txs, model.Transaction.Key)
	if _, err := q.Exec(ctx, upsertTransactionsQuery, transactionColumns(txs)...); err != nil {
		return wrap("upsert transactions", err)
	}
	return nil
}

func transactionColumns(txs []model.Transaction) []any {
	var (
		ids         = make([]string, len(txs))
		issued      = make([]time.Time, len(txs))
		blockIssued = make([]time.Time, len(txs))
		blockHashes = make([]string, len(txs))
		totalInput  = make([]int64, len(txs))
		totalOutput = make([]int64, len(txs))
		fees        = make([]int64, len(txs))
	)

	for i, tx := range txs {
		ids[i] = tx.ID
		issued[i] = tx.TimeIssued
		blockIssued[i] = tx.BlockTimeIssued
		blockHashes[i] = tx.BlockHash
		totalInput[i] = tx.TotalInput
		totalOutput[i] = tx.TotalOutput
		fees[i] = tx.Fees
	}

	return []any{ids, issued, blockIssued, blockHashes, totalInput, totalOutput, fees}
}
