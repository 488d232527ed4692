package postgres

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/pkg/dedupe"
)

const upsertTransactionOutputsQuery = `
INSERT INTO scraper.txoutput (ctsid, ctsidindex, ctsoutputaddr, ctsoutput)
SELECT * FROM unnest($1::text[], $2::integer[], $3::text[], $4::text[])
ON CONFLICT (ctsid, ctsidindex) DO UPDATE
SET ctsoutputaddr = EXCLUDED.ctsoutputaddr,
	ctsoutput     = EXCLUDED.ctsoutput`

// UpsertTransactionOutputs inserts outputs keyed by (tx id, index), overwriting
// address and descriptor on conflict.
func (r *Repository) UpsertTransactionOutputs(ctx context.Context, outputs []model.TransactionOutput) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("upsert_transaction_outputs", err, start)
	}()

	if len(outputs) == 0 {
		return nil
	}
	return upsertTransactionOutputs(ctx, r.conn, outputs)
}

func upsertTransactionOutputs(ctx context.Context, q execer, outputs []model.TransactionOutput) error {
	outputs = dedupe.LastWins(outputs, model.TransactionOutput.Key)

	var (
		ids         = make([]string, len(outputs))
		indexes     = make([]int32, len(outputs))
		addresses   = make([]string, len(outputs))
		descriptors = make([]string, len(outputs))
	)
	for i, out := range outputs {
		ids[i] = out.TxID
		indexes[i] = out.Index
		addresses[i] = out.Address
		descriptors[i] = out.Descriptor
	}

	if _, err := q.Exec(ctx, upsertTransactionOutputsQuery, ids, indexes, addresses, descriptors); err != nil {
		return wrap("upsert transaction outputs", err)
	}
	return nil
}
