package consensus

import (
	"math/big"
	"sync/atomic"

	"github.com/davecgh/go-spew/spew"
	"github.com/moecoin/moecoind/domain/chainconfig"
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/moecoin/moecoind/domain/consensus/processes/blockvalidator"
	"github.com/moecoin/moecoind/domain/consensus/processes/difficultymanager"
	"github.com/moecoin/moecoind/domain/consensus/processes/transactionvalidator"
	"github.com/moecoin/moecoind/domain/consensus/ruleerrors"
	"github.com/moecoin/moecoind/domain/consensus/utils/transactionhelper"
	"github.com/moecoin/moecoind/domain/consensus/utils/utxo"
	"github.com/moecoin/moecoind/infrastructure/logger"
	"github.com/pkg/errors"
)

// Consensus holds the canonical chain and the UTXO set derived from it.
// It is not safe for concurrent use, except for TipVersion.
type Consensus struct {
	params  *chainconfig.Params
	genesis *externalapi.DomainBlock

	blockValidator       *blockvalidator.BlockValidator
	transactionValidator *transactionvalidator.TransactionValidator
	difficultyManager    *difficultymanager.DifficultyManager

	chain   []*externalapi.DomainBlock
	utxoSet *utxo.Set

	// tipVersion is bumped on every change of the chain. Accessed atomically.
	tipVersion uint64
}

var _ externalapi.Consensus = (*Consensus)(nil)

// ValidateAndInsertBlock validates the given block as the successor of the
// current tip and, if valid, appends it and applies its transactions to the
// UTXO set. On any error the chain and the UTXO set are left untouched.
func (c *Consensus) ValidateAndInsertBlock(block *externalapi.DomainBlock) error {
	onEnd := logger.LogAndMeasureExecutionTime(log, "ValidateAndInsertBlock")
	defer onEnd()

	err := c.blockValidator.ValidateBlockInIsolation(block)
	if err != nil {
		return err
	}
	err = c.blockValidator.ValidateBlockInContext(block, c.chain)
	if err != nil {
		return err
	}

	newUTXOSet, err := c.applyBlockTransactions(block, c.utxoSet)
	if err != nil {
		return err
	}

	c.chain = append(c.chain, block.Clone())
	c.utxoSet = newUTXOSet
	atomic.AddUint64(&c.tipVersion, 1)

	log.Infof("Accepted block %s at index %d with %d transactions",
		block.Hash, block.Index, len(block.Transactions))
	log.Tracef("Accepted block: %s", logger.NewLogClosure(func() string {
		return spew.Sdump(block)
	}))
	return nil
}

// applyBlockTransactions validates the transactions of block against
// utxoSet and returns the UTXO set following the block
func (c *Consensus) applyBlockTransactions(block *externalapi.DomainBlock, utxoSet *utxo.Set) (*utxo.Set, error) {
	err := c.transactionValidator.ValidateBlockTransactions(block.Transactions, utxoSet, block.Index)
	if err != nil {
		return nil, err
	}
	return utxoSet.ApplyTransactions(block.Transactions), nil
}

// ValidateChain validates a whole chain from genesis, replaying every block's
// transactions onto a fresh UTXO set, and returns the resulting UTXO set.
func (c *Consensus) ValidateChain(chain []*externalapi.DomainBlock) (externalapi.ReadOnlyUTXOSet, error) {
	utxoSet, err := c.validateChain(chain)
	if err != nil {
		return nil, err
	}
	return utxoSet, nil
}

func (c *Consensus) validateChain(chain []*externalapi.DomainBlock) (*utxo.Set, error) {
	if len(chain) == 0 {
		return nil, errors.Wrapf(ruleerrors.ErrBadGenesis, "chain is empty")
	}
	if !chain[0].Equal(c.genesis) {
		return nil, errors.Wrapf(ruleerrors.ErrBadGenesis, "chain starts with block %s instead of genesis %s",
			chain[0].Hash, c.genesis.Hash)
	}

	utxoSet := genesisUTXOSet(c.genesis)
	for i := 1; i < len(chain); i++ {
		block := chain[i]
		err := c.blockValidator.ValidateBlockInIsolation(block)
		if err != nil {
			return nil, errors.Wrapf(err, "block %d of the chain is invalid", i)
		}
		err = c.blockValidator.ValidateBlockInContext(block, chain[:i])
		if err != nil {
			return nil, errors.Wrapf(err, "block %d of the chain is invalid", i)
		}
		utxoSet, err = c.applyBlockTransactions(block, utxoSet)
		if err != nil {
			return nil, errors.Wrapf(err, "block %d of the chain is invalid", i)
		}
	}
	return utxoSet, nil
}

// ReplaceChain replaces the current chain with the given one if it is valid
// and its cumulative work is strictly greater. replaced is false with a nil
// error when the candidate is valid but not heavier.
func (c *Consensus) ReplaceChain(chain []*externalapi.DomainBlock) (replaced bool, err error) {
	onEnd := logger.LogAndMeasureExecutionTime(log, "ReplaceChain")
	defer onEnd()

	newUTXOSet, err := c.validateChain(chain)
	if err != nil {
		return false, err
	}

	candidateWeight := difficultymanager.ChainWeight(chain)
	currentWeight := c.ChainWeight()
	if candidateWeight.Cmp(currentWeight) <= 0 {
		log.Debugf("Received a valid chain of %d blocks with weight %s, which doesn't exceed "+
			"the current weight %s", len(chain), candidateWeight, currentWeight)
		return false, nil
	}

	c.chain = externalapi.CloneBlocks(chain)
	c.utxoSet = newUTXOSet
	atomic.AddUint64(&c.tipVersion, 1)

	log.Infof("Replaced the chain with a chain of %d blocks and weight %s (was %s)",
		len(chain), candidateWeight, currentWeight)
	return true, nil
}

// ValidateTransaction validates a regular transaction against the given
// UTXO set
func (c *Consensus) ValidateTransaction(transaction *externalapi.DomainTransaction,
	utxoSet externalapi.ReadOnlyUTXOSet) error {

	return c.transactionValidator.ValidateTransaction(transaction, utxoSet)
}

// BuildBlockTemplate returns an unsolved block on top of the current tip
// paying the block reward to minerAddress and including transactions after
// the reward. timestamp is raised to the tip's if the local clock is behind.
func (c *Consensus) BuildBlockTemplate(minerAddress string, transactions []*externalapi.DomainTransaction,
	timestamp int64) *externalapi.DomainBlockTemplate {

	tip := c.chain[len(c.chain)-1]
	if timestamp < tip.Timestamp {
		timestamp = tip.Timestamp
	}

	index := tip.Index + 1
	reward := transactionhelper.NewRewardTransaction(minerAddress, index, c.params.BlockReward, timestamp)
	previousHash := tip.Hash
	block := &externalapi.DomainBlock{
		Index:        index,
		PreviousHash: &previousHash,
		Timestamp:    timestamp,
		Transactions: append([]*externalapi.DomainTransaction{reward}, externalapi.CloneTransactions(transactions)...),
		Difficulty:   c.difficultyManager.RequiredDifficulty(c.chain),
	}
	return &externalapi.DomainBlockTemplate{
		Block:      block,
		TipVersion: c.TipVersion(),
	}
}

// Blocks returns a copy of the chain
func (c *Consensus) Blocks() []*externalapi.DomainBlock {
	return externalapi.CloneBlocks(c.chain)
}

// LatestBlock returns a copy of the tip of the chain
func (c *Consensus) LatestBlock() *externalapi.DomainBlock {
	return c.chain[len(c.chain)-1].Clone()
}

// GetBlock returns a copy of the block with the given hash
func (c *Consensus) GetBlock(blockHash string) (*externalapi.DomainBlock, bool) {
	for _, block := range c.chain {
		if block.Hash == blockHash {
			return block.Clone(), true
		}
	}
	return nil, false
}

// GetTransaction returns a copy of the transaction with the given id from
// any block of the chain
func (c *Consensus) GetTransaction(transactionID string) (*externalapi.DomainTransaction, bool) {
	for _, block := range c.chain {
		for _, tx := range block.Transactions {
			if tx.ID == transactionID {
				return tx.Clone(), true
			}
		}
	}
	return nil, false
}

// UTXOSet returns an immutable view of the current UTXO set
func (c *Consensus) UTXOSet() externalapi.ReadOnlyUTXOSet {
	return c.utxoSet
}

// ChainWeight returns the cumulative work of the current chain
func (c *Consensus) ChainWeight() *big.Int {
	return difficultymanager.ChainWeight(c.chain)
}

// TipVersion returns a counter that changes whenever the chain does. It is
// safe to call concurrently with any other method.
func (c *Consensus) TipVersion() uint64 {
	return atomic.LoadUint64(&c.tipVersion)
}
