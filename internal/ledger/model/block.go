// Package model defines the ledger entities persisted by the explorer store.
package model

import "time"

// Block is a chain block keyed by its content hash.
type Block struct {
	Hash       string
	Epoch      int64
	Slot       int64
	Height     int64
	TimeIssued time.Time
	TxCount    int64
	TotalSent  int64
	Size       int64
	BlockLead  string
	Fees       int64
	PrevHash   string
	// NextHash stays nil until the successor block has been ingested.
	NextHash   *string
	MerkleRoot string
}

// Key returns the primary key of the block.
func (b Block) Key() string {
	return b.Hash
}

// WithNextHash returns a copy of the block pointing at its successor.
func (b Block) WithNextHash(next string) Block {
	b.NextHash = &next
	return b
}
