package ndjson

import "time"

// BlockLine is one line of a scraper export: a block and every transaction it carries.
type BlockLine struct {
	Block        BlockDTO         `json:"block"`
	Transactions []TransactionDTO `json:"transactions"`
}

type BlockDTO struct {
	Hash       string    `json:"hash"`
	Epoch      uint64    `json:"epoch"`
	Slot       uint64    `json:"slot"`
	Height     uint64    `json:"height"`
	TimeIssued time.Time `json:"time_issued"`
	TxCount    uint64    `json:"tx_count"`
	TotalSent  uint64    `json:"total_sent"`
	Size       uint64    `json:"size"`
	BlockLead  string    `json:"block_lead"`
	Fees       uint64    `json:"fees"`
	PrevHash   string    `json:"prev_hash"`
	NextHash   *string   `json:"next_hash,omitempty"`
	MerkleRoot string    `json:"merkle_root"`
}

type TransactionDTO struct {
	ID              string    `json:"id"`
	TimeIssued      time.Time `json:"time_issued"`
	BlockTimeIssued time.Time `json:"block_time_issued"`
	TotalInput      uint64    `json:"total_input"`
	TotalOutput     uint64    `json:"total_output"`
	Fees            uint64    `json:"fees"`
	Inputs          []IODTO   `json:"inputs"`
	Outputs         []IODTO   `json:"outputs"`
}

// IODTO is an input or output entry. Descriptor is stored verbatim.
type IODTO struct {
	Index      uint32 `json:"index"`
	Address    string `json:"address"`
	Descriptor string `json:"descriptor"`
}
