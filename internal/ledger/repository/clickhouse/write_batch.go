package clickhouse

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
)

// WriteBatch writes all rows of the batch under one version. ClickHouse has
// no multi-table transaction, so blocks go last: the tip only moves once the
// rows it covers are stored, and a failed batch is simply written again.
func (r *Repository) WriteBatch(ctx context.Context, batch model.Batch) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("write_batch", err, start)
	}()

	if batch.Empty() {
		return nil
	}

	version := r.nextVersion()
	if len(batch.Transactions) > 0 {
		if err = r.insertTransactions(ctx, batch.Transactions, version); err != nil {
			return err
		}
	}
	if len(batch.Inputs) > 0 {
		if err = r.insertTransactionInputs(ctx, batch.Inputs, version); err != nil {
			return err
		}
	}
	if len(batch.Outputs) > 0 {
		if err = r.insertTransactionOutputs(ctx, batch.Outputs, version); err != nil {
			return err
		}
	}
	if len(batch.Blocks) > 0 {
		if err = r.insertBlocks(ctx, batch.Blocks, version); err != nil {
			return err
		}
	}
	return nil
}
