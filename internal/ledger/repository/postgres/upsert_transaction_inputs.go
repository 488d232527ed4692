package postgres

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/pkg/dedupe"
)

const upsertTransactionInputsQuery = `
INSERT INTO scraper.txinput (ctsid, ctsidindex, ctsinputaddr, ctsinput)
SELECT * FROM unnest($1::text[], $2::integer[], $3::text[], $4::text[])
ON CONFLICT (ctsid, ctsidindex) DO UPDATE
SET ctsinputaddr = EXCLUDED.ctsinputaddr,
	ctsinput     = EXCLUDED.ctsinput`

// UpsertTransactionInputs inserts inputs keyed by (tx id, index), overwriting
// address and descriptor on conflict.
func (r *Repository) UpsertTransactionInputs(ctx context.Context, inputs []model.TransactionInput) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("upsert_transaction_inputs", err, start)
	}()

	if len(inputs) == 0 {
		return nil
	}
	return upsertTransactionInputs(ctx, r.conn, inputs)
}

func upsertTransactionInputs(ctx context.Context, q execer, inputs []model.TransactionInput) error {
	inputs = dedupe.LastWins(inputs, model.TransactionInput.Key)

	var (
		ids         = make([]string, len(inputs))
		indexes     = make([]int32, len(inputs))
		addresses   = make([]string, len(inputs))
		descriptors = make([]string, len(inputs))
	)
	for i, in := range inputs {
		ids[i] = in.TxID
		indexes[i] = in.Index
		addresses[i] = in.Address
		descriptors[i] = in.Descriptor
	}

	if _, err := q.Exec(ctx, upsertTransactionInputsQuery, ids, indexes, addresses, descriptors); err != nil {
		return wrap("upsert transaction inputs", err)
	}
	return nil
}
