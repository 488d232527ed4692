package clickhouse

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/pkg/dedupe"
)

const insertTransactionsQuery = `
INSERT INTO ledger_transactions (
	id,
	time_issued,
	block_time_issued,
	block_hash,
	total_input,
	total_output,
	fees,
	version
) VALUES`

// UpsertTransactions writes a new version of every transaction.
func (r *Repository) UpsertTransactions(ctx context.Context, txs []model.Transaction) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("upsert_transactions", err, start)
	}()

	if len(txs) == 0 {
		return nil
	}
	return r.insertTransactions(ctx, txs, r.nextVersion())
}

func (r *Repository) insertTransactions(ctx context.Context, txs []model.Transaction, version uint64) error {
	rows := dedupe.LastWins(txs, model.Transaction.Key)
	return r.sendBatch(ctx, "transactions", insertTransactionsQuery, len(rows), func(i int) []any {
		tx := rows[i]
		return []any{
			tx.ID,
			tx.TimeIssued,
			tx.BlockTimeIssued,
			tx.BlockHash,
			tx.TotalInput,
			tx.TotalOutput,
			tx.Fees,
			version,
		}
	})
}
