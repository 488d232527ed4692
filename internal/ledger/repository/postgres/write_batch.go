package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
)

// WriteBatch applies one ingestion unit in a single transaction, in the order
// blocks, transactions, inputs, outputs. Either every row lands or none does,
// so the tip never runs ahead of the rows that belong to it.
func (r *Repository) WriteBatch(ctx context.Context, batch model.Batch) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("write_batch", err, start)
	}()

	if batch.Empty() {
		return nil
	}

	tx, err := r.conn.Begin(ctx)
	if err != nil {
		return wrap("begin batch", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			err = errors.Join(err, wrap("rollback batch", rbErr))
		}
	}()

	if len(batch.Blocks) > 0 {
		if err = upsertBlocks(ctx, tx, batch.Blocks); err != nil {
			return err
		}
	}
	if len(batch.Transactions) > 0 {
		if err = upsertTransactions(ctx, tx, batch.Transactions); err != nil {
			return err
		}
	}
	if len(batch.Inputs) > 0 {
		if err = upsertTransactionInputs(ctx, tx, batch.Inputs); err != nil {
			return err
		}
	}
	if len(batch.Outputs) > 0 {
		if err = upsertTransactionOutputs(ctx, tx, batch.Outputs); err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return wrap("commit batch", err)
	}
	return nil
}
