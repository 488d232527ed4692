package model

// Tip is the highest (epoch, slot) pair persisted in the store.
type Tip struct {
	Epoch int64
	Slot  int64
}

// GenesisTip is reported when no block has been ingested yet.
var GenesisTip = Tip{Epoch: 0, Slot: -1}

// IsGenesis reports whether the tip is the empty-store sentinel.
func (t Tip) IsGenesis() bool {
	return t == GenesisTip
}

// Before reports whether the tip sorts strictly before the given chain position.
func (t Tip) Before(epoch, slot int64) bool {
	if t.Epoch != epoch {
		return t.Epoch < epoch
	}
	return t.Slot < slot
}

// TipOf returns the chain position of a block.
func TipOf(b Block) Tip {
	return Tip{Epoch: b.Epoch, Slot: b.Slot}
}
