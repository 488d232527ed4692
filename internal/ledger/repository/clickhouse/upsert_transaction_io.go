package clickhouse

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/pkg/dedupe"
)

const (
	insertTransactionInputsQuery = `
INSERT INTO ledger_transaction_inputs (tx_id, idx, address, descriptor, version) VALUES`

	insertTransactionOutputsQuery = `
INSERT INTO ledger_transaction_outputs (tx_id, idx, address, descriptor, version) VALUES`
)

// UpsertTransactionInputs writes a new version of every input.
func (r *Repository) UpsertTransactionInputs(ctx context.Context, inputs []model.TransactionInput) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("upsert_transaction_inputs", err, start)
	}()

	if len(inputs) == 0 {
		return nil
	}
	return r.insertTransactionInputs(ctx, inputs, r.nextVersion())
}

// UpsertTransactionOutputs writes a new version of every output.
func (r *Repository) UpsertTransactionOutputs(ctx context.Context, outputs []model.TransactionOutput) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("upsert_transaction_outputs", err, start)
	}()

	if len(outputs) == 0 {
		return nil
	}
	return r.insertTransactionOutputs(ctx, outputs, r.nextVersion())
}

func (r *Repository) insertTransactionInputs(ctx context.Context, inputs []model.TransactionInput, version uint64) error {
	rows := dedupe.LastWins(inputs, model.TransactionInput.Key)
	return r.sendBatch(ctx, "transaction inputs", insertTransactionInputsQuery, len(rows), func(i int) []any {
		return []any{rows[i].TxID, rows[i].Index, rows[i].Address, rows[i].Descriptor, version}
	})
}

func (r *Repository) insertTransactionOutputs(ctx context.Context, outputs []model.TransactionOutput, version uint64) error {
	rows := dedupe.LastWins(outputs, model.TransactionOutput.Key)
	return r.sendBatch(ctx, "transaction outputs", insertTransactionOutputsQuery, len(rows), func(i int) []any {
		return []any{rows[i].TxID, rows[i].Index, rows[i].Address, rows[i].Descriptor, version}
	})
}
