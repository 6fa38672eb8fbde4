package externalapi

// DomainBlock represents a moecoin block
type DomainBlock struct {
	Index        uint64               `json:"index"`
	Hash         string               `json:"hash"`
	PreviousHash *string              `json:"previousHash"`
	Timestamp    int64                `json:"timestamp"`
	Transactions []*DomainTransaction `json:"data"`
	Difficulty   uint32               `json:"difficulty"`
	Nonce        uint64               `json:"nonce"`
}

// IsGenesis returns whether the block claims to be the first block of a chain
func (block *DomainBlock) IsGenesis() bool {
	return block.Index == 0
}

// PreviousHashString returns the previous block hash, or an empty string for
// the genesis block.
func (block *DomainBlock) PreviousHashString() string {
	if block.PreviousHash == nil {
		return ""
	}
	return *block.PreviousHash
}

// Clone returns a clone of DomainBlock
func (block *DomainBlock) Clone() *DomainBlock {
	transactionClone := make([]*DomainTransaction, len(block.Transactions))
	for i, tx := range block.Transactions {
		transactionClone[i] = tx.Clone()
	}

	var previousHashClone *string
	if block.PreviousHash != nil {
		previousHash := *block.PreviousHash
		previousHashClone = &previousHash
	}

	return &DomainBlock{
		Index:        block.Index,
		Hash:         block.Hash,
		PreviousHash: previousHashClone,
		Timestamp:    block.Timestamp,
		Transactions: transactionClone,
		Difficulty:   block.Difficulty,
		Nonce:        block.Nonce,
	}
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = DomainBlock{0, "", nil, 0, []*DomainTransaction{}, 0, 0}

// Equal returns whether block equals to other
func (block *DomainBlock) Equal(other *DomainBlock) bool {
	if block == nil || other == nil {
		return block == other
	}

	if block.Index != other.Index ||
		block.Hash != other.Hash ||
		block.Timestamp != other.Timestamp ||
		block.Difficulty != other.Difficulty ||
		block.Nonce != other.Nonce {
		return false
	}

	if (block.PreviousHash == nil) != (other.PreviousHash == nil) {
		return false
	}
	if block.PreviousHash != nil && *block.PreviousHash != *other.PreviousHash {
		return false
	}

	if len(block.Transactions) != len(other.Transactions) {
		return false
	}
	for i, tx := range block.Transactions {
		if !tx.Equal(other.Transactions[i]) {
			return false
		}
	}

	return true
}

// CloneBlocks returns a deep copy of the given chain
func CloneBlocks(blocks []*DomainBlock) []*DomainBlock {
	clone := make([]*DomainBlock, len(blocks))
	for i, block := range blocks {
		clone[i] = block.Clone()
	}
	return clone
}
