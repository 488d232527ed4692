package ndjson

import (
	"errors"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/pkg/safe"
)

// ErrInvalidLine marks export lines that cannot be turned into a bundle.
var ErrInvalidLine = errors.New("invalid export line")

// BuildBundle maps an export line into a model.Bundle, flattening inputs and
// outputs and checking that every transaction belongs to the block.
func BuildBundle(src BlockLine) (model.Bundle, error) {
	block, err := buildBlock(src.Block)
	if err != nil {
		return model.Bundle{}, err
	}

	bundle := model.Bundle{
		Block:        block,
		Transactions: make([]model.Transaction, 0, len(src.Transactions)),
	}
	for _, txSrc := range src.Transactions {
		tx, err := buildTransaction(txSrc, block)
		if err != nil {
			return model.Bundle{}, err
		}
		bundle.Transactions = append(bundle.Transactions, tx)

		for _, in := range txSrc.Inputs {
			index, err := safe.Int32(in.Index)
			if err != nil {
				return model.Bundle{}, fmt.Errorf("%w: tx %s input index: %w", ErrInvalidLine, tx.ID, err)
			}
			bundle.Inputs = append(bundle.Inputs, model.TransactionInput{
				TxID:       tx.ID,
				Index:      index,
				Address:    in.Address,
				Descriptor: in.Descriptor,
			})
		}
		for _, out := range txSrc.Outputs {
			index, err := safe.Int32(out.Index)
			if err != nil {
				return model.Bundle{}, fmt.Errorf("%w: tx %s output index: %w", ErrInvalidLine, tx.ID, err)
			}
			bundle.Outputs = append(bundle.Outputs, model.TransactionOutput{
				TxID:       tx.ID,
				Index:      index,
				Address:    out.Address,
				Descriptor: out.Descriptor,
			})
		}
	}
	return bundle, nil
}

func buildBlock(src BlockDTO) (model.Block, error) {
	if src.Hash == "" {
		return model.Block{}, fmt.Errorf("%w: block hash is empty", ErrInvalidLine)
	}
	if src.TimeIssued.IsZero() {
		return model.Block{}, fmt.Errorf("%w: block %s has no issue time", ErrInvalidLine, src.Hash)
	}

	var (
		b   = model.Block{Hash: src.Hash, TimeIssued: src.TimeIssued.UTC(), BlockLead: src.BlockLead, PrevHash: src.PrevHash, NextHash: src.NextHash, MerkleRoot: src.MerkleRoot}
		err error
	)
	fields := []struct {
		name string
		src  uint64
		dst  *int64
	}{
		{"epoch", src.Epoch, &b.Epoch},
		{"slot", src.Slot, &b.Slot},
		{"height", src.Height, &b.Height},
		{"tx_count", src.TxCount, &b.TxCount},
		{"total_sent", src.TotalSent, &b.TotalSent},
		{"size", src.Size, &b.Size},
		{"fees", src.Fees, &b.Fees},
	}
	for _, f := range fields {
		if *f.dst, err = safe.Int64(f.src); err != nil {
			return model.Block{}, fmt.Errorf("%w: block %s %s: %w", ErrInvalidLine, src.Hash, f.name, err)
		}
	}
	return b, nil
}

func buildTransaction(src TransactionDTO, block model.Block) (model.Transaction, error) {
	if src.ID == "" {
		return model.Transaction{}, fmt.Errorf("%w: block %s carries a transaction without id", ErrInvalidLine, block.Hash)
	}

	tx := model.Transaction{
		ID:              src.ID,
		TimeIssued:      src.TimeIssued.UTC(),
		BlockTimeIssued: src.BlockTimeIssued.UTC(),
		BlockHash:       block.Hash,
	}
	if src.BlockTimeIssued.IsZero() {
		tx.BlockTimeIssued = block.TimeIssued
	}
	if src.TimeIssued.IsZero() {
		tx.TimeIssued = tx.BlockTimeIssued
	}

	var err error
	if tx.TotalInput, err = safe.Int64(src.TotalInput); err != nil {
		return model.Transaction{}, fmt.Errorf("%w: tx %s total_input: %w", ErrInvalidLine, src.ID, err)
	}
	if tx.TotalOutput, err = safe.Int64(src.TotalOutput); err != nil {
		return model.Transaction{}, fmt.Errorf("%w: tx %s total_output: %w", ErrInvalidLine, src.ID, err)
	}
	if tx.Fees, err = safe.Int64(src.Fees); err != nil {
		return model.Transaction{}, fmt.Errorf("%w: tx %s fees: %w", ErrInvalidLine, src.ID, err)
	}
	return tx, nil
}
