package clickhouse

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
)

// touchingFilter keeps transactions where the address appears on either side.
// It binds the address twice.
const touchingFilter = `
	x.tx_id IN (SELECT tx_id FROM ledger_transaction_inputs FINAL WHERE address = ?)
	OR x.tx_id IN (SELECT tx_id FROM ledger_transaction_outputs FINAL WHERE address = ?)`

const (
	sentDistinctCountQuery = `
SELECT uniqExact(tx_id)
FROM ledger_transaction_inputs FINAL
WHERE address = ?`

	receivedDistinctCountQuery = `
SELECT uniqExact(tx_id)
FROM ledger_transaction_outputs FINAL
WHERE address = ?`

	sentRecordsQuery = `
SELECT x.tx_id, x.idx, x.address, x.descriptor, t.time_issued
FROM ledger_transaction_inputs AS x FINAL
INNER JOIN (SELECT id, time_issued FROM ledger_transactions FINAL) AS t ON t.id = x.tx_id
WHERE` + touchingFilter + `
ORDER BY t.time_issued ASC, x.tx_id ASC, x.idx ASC`

	receivedRecordsQuery = `
SELECT x.tx_id, x.idx, x.address, x.descriptor, t.time_issued
FROM ledger_transaction_outputs AS x FINAL
INNER JOIN (SELECT id, time_issued FROM ledger_transactions FINAL) AS t ON t.id = x.tx_id
WHERE` + touchingFilter + `
ORDER BY t.time_issued ASC, x.tx_id ASC, x.idx ASC`

	allRecordsQuery = `
SELECT x.id, x.time_issued, x.block_time_issued, x.block_hash, x.total_input, x.total_output, x.fees
FROM ledger_transactions AS x FINAL
WHERE x.id IN (SELECT tx_id FROM ledger_transaction_inputs FINAL WHERE address = ?)
	OR x.id IN (SELECT tx_id FROM ledger_transaction_outputs FINAL WHERE address = ?)
ORDER BY x.time_issued ASC, x.id ASC`
)

// SentDistinctCount returns the number of distinct transactions spending from address.
func (r *Repository) SentDistinctCount(ctx context.Context, address string) (count uint64, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("sent_distinct_count", err, start)
	}()

	return r.distinctCount(ctx, "count sent", sentDistinctCountQuery, address)
}

// ReceivedDistinctCount returns the number of distinct transactions paying to address.
func (r *Repository) ReceivedDistinctCount(ctx context.Context, address string) (count uint64, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("received_distinct_count", err, start)
	}()

	return r.distinctCount(ctx, "count received", receivedDistinctCountQuery, address)
}

func (r *Repository) distinctCount(ctx context.Context, op, query, address string) (count uint64, err error) {
	rows, err := r.conn.Query(ctx, query, address)
	if err != nil {
		return 0, wrap(op, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = wrap("close rows", closeErr)
		}
	}()

	if rows.Next() {
		if err = rows.Scan(&count); err != nil {
			return 0, wrap("scan "+op, err)
		}
	}
	if err = rows.Err(); err != nil {
		return 0, wrap("iterate "+op, err)
	}
	return count, nil
}

// SentRecords returns the input rows of every transaction touching address.
func (r *Repository) SentRecords(ctx context.Context, address string) (records []model.InputRecord, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("sent_records", err, start)
	}()

	err = r.selectRows(ctx, "sent records", sentRecordsQuery, address, func(rows Rows) error {
		var rec model.InputRecord
		if err := rows.Scan(&rec.TxID, &rec.Index, &rec.Address, &rec.Descriptor, &rec.TxTimeIssued); err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.InputRecord{}
	}
	return records, nil
}

// ReceivedRecords returns the output rows of every transaction touching address.
func (r *Repository) ReceivedRecords(ctx context.Context, address string) (records []model.OutputRecord, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("received_records", err, start)
	}()

	err = r.selectRows(ctx, "received records", receivedRecordsQuery, address, func(rows Rows) error {
		var rec model.OutputRecord
		if err := rows.Scan(&rec.TxID, &rec.Index, &rec.Address, &rec.Descriptor, &rec.TxTimeIssued); err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.OutputRecord{}
	}
	return records, nil
}

// AllRecords returns every transaction touching address.
func (r *Repository) AllRecords(ctx context.Context, address string) (txs []model.Transaction, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("all_records", err, start)
	}()

	err = r.selectRows(ctx, "all records", allRecordsQuery, address, func(rows Rows) error {
		var tx model.Transaction
		if err := rows.Scan(
			&tx.ID,
			&tx.TimeIssued,
			&tx.BlockTimeIssued,
			&tx.BlockHash,
			&tx.TotalInput,
			&tx.TotalOutput,
			&tx.Fees,
		); err != nil {
			return err
		}
		txs = append(txs, tx)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []model.Transaction{}
	}
	return txs, nil
}

func (r *Repository) selectRows(ctx context.Context, what, query, address string, scan func(Rows) error) (err error) {
	rows, err := r.conn.Query(ctx, query, address, address)
	if err != nil {
		return wrap("select "+what, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = wrap("close rows", closeErr)
		}
	}()

	for rows.Next() {
		if err = scan(rows); err != nil {
			return wrap("scan "+what, err)
		}
	}
	if err = rows.Err(); err != nil {
		return wrap("iterate "+what, err)
	}
	return nil
}
