package model

// Bundle groups a block with the transactions, inputs and outputs it carries.
type Bundle struct {
	Block        Block
	Transactions []Transaction
	Inputs       []TransactionInput
	Outputs      []TransactionOutput
}

// Batch is a single atomic ingestion unit. Rows are applied in the order
// blocks, transactions, inputs, outputs.
type Batch struct {
	Blocks       []Block
	Transactions []Transaction
	Inputs       []TransactionInput
	Outputs      []TransactionOutput
}

// Append adds the rows of a bundle to the batch.
func (b *Batch) Append(bundle Bundle) {
	b.Blocks = append(b.Blocks, bundle.Block)
	b.Transactions = append(b.Transactions, bundle.Transactions...)
	b.Inputs = append(b.Inputs, bundle.Inputs...)
	b.Outputs = append(b.Outputs, bundle.Outputs...)
}

// Empty reports whether the batch carries no rows at all.
func (b Batch) Empty() bool {
	return len(b.Blocks) == 0 && len(b.Transactions) == 0 && len(b.Inputs) == 0 && len(b.Outputs) == 0
}

// BatchOf collapses bundles into one batch preserving their order.
func BatchOf(bundles []Bundle) Batch {
	var b Batch
	for _, bundle := range bundles {
		b.Append(bundle)
	}
	return b
}
