package externalapi

import "math/big"

// Consensus maintains the current chain and the UTXO set derived from it.
// Implementations are not safe for concurrent use; the caller serializes
// access.
type Consensus interface {
	ValidateAndInsertBlock(block *DomainBlock) error
	ReplaceChain(chain []*DomainBlock) (replaced bool, err error)
	ValidateChain(chain []*DomainBlock) (ReadOnlyUTXOSet, error)
	ValidateTransaction(transaction *DomainTransaction, utxoSet ReadOnlyUTXOSet) error

	BuildBlockTemplate(minerAddress string, transactions []*DomainTransaction, timestamp int64) *DomainBlockTemplate

	Blocks() []*DomainBlock
	LatestBlock() *DomainBlock
	GetBlock(blockHash string) (*DomainBlock, bool)
	GetTransaction(transactionID string) (*DomainTransaction, bool)
	UTXOSet() ReadOnlyUTXOSet
	ChainWeight() *big.Int
	TipVersion() uint64
}

// DomainBlockTemplate is a block with every field but Nonce and Hash set,
// ready for a proof-of-work search on top of the tip it was built for
type DomainBlockTemplate struct {
	Block      *DomainBlock
	TipVersion uint64
}
