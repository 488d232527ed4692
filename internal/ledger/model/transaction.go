package model

import "time"

// Transaction is a ledger transaction with its aggregated amounts.
type Transaction struct {
	ID              string
	TimeIssued      time.Time
	BlockTimeIssued time.Time
	BlockHash       string
	TotalInput      int64
	TotalOutput     int64
	Fees            int64
}

// Key returns the primary key of the transaction.
func (t Transaction) Key() string {
	return t.ID
}

// IOKey identifies an input or output inside a transaction.
type IOKey struct {
	TxID  string
	Index int32
}

// TransactionInput is a spent reference inside a transaction.
type TransactionInput struct {
	TxID       string
	Index      int32
	Address    string
	// Descriptor is the opaque input payload (previous output reference and amount).
	Descriptor string
}

// Key returns the composite key of the input.
func (i TransactionInput) Key() IOKey {
	return IOKey{TxID: i.TxID, Index: i.Index}
}

// TransactionOutput is a value produced by a transaction.
type TransactionOutput struct {
	TxID       string
	Index      int32
	Address    string
	// Descriptor is the opaque output payload (address and amount).
	Descriptor string
}

// Key returns the composite key of the output.
func (o TransactionOutput) Key() IOKey {
	return IOKey{TxID: o.TxID, Index: o.Index}
}

// InputRecord is an input row joined with the issuance time of its transaction.
type InputRecord struct {
	TxID         string
	Index        int32
	Address      string
	Descriptor   string
	TxTimeIssued time.Time
}

// OutputRecord is an output row joined with the issuance time of its transaction.
type OutputRecord struct {
	TxID         string
	Index        int32
	Address      string
	Descriptor   string
	TxTimeIssued time.Time
}
