package replica

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
)

// touchingFilter selects transactions where the address appears on either
// side. Sent and received records both use it.
const touchingFilter = `
	x.ctsid IN (SELECT ctsid FROM scraper.txinput WHERE ctsinputaddr = $1)
	OR x.ctsid IN (SELECT ctsid FROM scraper.txoutput WHERE ctsoutputaddr = $1)`

const (
	sentRecordsQuery = `
SELECT x.ctsid, x.ctsidindex, x.ctsinputaddr AS addr, x.ctsinput AS descriptor, t.ctstxtimeissued
FROM scraper.txinput x
JOIN scraper.tx t ON t.ctsid = x.ctsid
WHERE` + touchingFilter + `
ORDER BY t.ctstxtimeissued ASC, x.ctsid ASC, x.ctsidindex ASC`

	receivedRecordsQuery = `
SELECT x.ctsid, x.ctsidindex, x.ctsoutputaddr AS addr, x.ctsoutput AS descriptor, t.ctstxtimeissued
FROM scraper.txoutput x
JOIN scraper.tx t ON t.ctsid = x.ctsid
WHERE` + touchingFilter + `
ORDER BY t.ctstxtimeissued ASC, x.ctsid ASC, x.ctsidindex ASC`

	allRecordsQuery = `
SELECT x.ctsid, x.ctstxtimeissued, x.ctsblocktimeissued, x.ctsblockhash, x.ctstotalinput, x.ctstotaloutput, x.ctsfees
FROM scraper.tx x
WHERE` + touchingFilter + `
ORDER BY x.ctstxtimeissued ASC, x.ctsid ASC`
)

type ioRow struct {
	TxID         string    `db:"ctsid"`
	Index        int32     `db:"ctsidindex"`
	Address      string    `db:"addr"`
	Descriptor   string    `db:"descriptor"`
	TxTimeIssued time.Time `db:"ctstxtimeissued"`
}

type txRow struct {
	ID              string    `db:"ctsid"`
	TimeIssued      time.Time `db:"ctstxtimeissued"`
	BlockTimeIssued time.Time `db:"ctsblocktimeissued"`
	BlockHash       string    `db:"ctsblockhash"`
	TotalInput      int64     `db:"ctstotalinput"`
	TotalOutput     int64     `db:"ctstotaloutput"`
	Fees            int64     `db:"ctsfees"`
}

// SentRecords returns the input rows of every transaction touching address,
// ordered by transaction time, transaction id and input index.
func (r *Reader) SentRecords(ctx context.Context, address string) (records []model.InputRecord, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("sent_records", err, start)
	}()

	var rows []ioRow
	if err = r.db.SelectContext(ctx, &rows, sentRecordsQuery, address); err != nil {
		return nil, wrap("select sent records", err)
	}

	records = make([]model.InputRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, model.InputRecord(row))
	}
	return records, nil
}

// ReceivedRecords returns the output rows of every transaction touching
// address, in the same order as SentRecords.
func (r *Reader) ReceivedRecords(ctx context.Context, address string) (records []model.OutputRecord, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("received_records", err, start)
	}()

	var rows []ioRow
	if err = r.db.SelectContext(ctx, &rows, receivedRecordsQuery, address); err != nil {
		return nil, wrap("select received records", err)
	}

	records = make([]model.OutputRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, model.OutputRecord(row))
	}
	return records, nil
}

// AllRecords returns every transaction touching address ordered by issuance
// time and id.
func (r *Reader) AllRecords(ctx context.Context, address string) (txs []model.Transaction, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("all_records", err, start)
	}()

	var rows []txRow
	if err = r.db.SelectContext(ctx, &rows, allRecordsQuery, address); err != nil {
		return nil, wrap("select all records", err)
	}

	txs = make([]model.Transaction, 0, len(rows))
	for _, row := range rows {
		txs = append(txs, model.Transaction(row))
	}
	return txs, nil
}
