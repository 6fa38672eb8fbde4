package domain

import (
	"math/big"
	"sync"
	"time"

	"github.com/moecoin/moecoind/domain/chainconfig"
	"github.com/moecoin/moecoind/domain/consensus"
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/moecoin/moecoind/domain/miningmanager/mempool"
)

// Domain owns the chain, the UTXO set and the mempool, and serializes every
// access to them. Commits never interleave; reads observe a consistent state.
type Domain interface {
	// ValidateAndInsertBlock commits block on top of the current tip and
	// reconciles the mempool with the new UTXO set.
	ValidateAndInsertBlock(block *externalapi.DomainBlock) error

	// ReplaceChain replaces the current chain if chain is valid and heavier,
	// and reconciles the mempool with the recomputed UTXO set.
	ReplaceChain(chain []*externalapi.DomainBlock) (replaced bool, err error)

	// ValidateAndInsertTransaction admits transaction into the mempool
	// against the current UTXO set.
	ValidateAndInsertTransaction(transaction *externalapi.DomainTransaction) error

	// BuildBlockTemplate returns an unsolved block paying the reward to
	// minerAddress and holding the current mempool contents.
	BuildBlockTemplate(minerAddress string) *externalapi.DomainBlockTemplate

	// TipVersion changes whenever the chain does. It never blocks.
	TipVersion() uint64

	Blocks() []*externalapi.DomainBlock
	LatestBlock() *externalapi.DomainBlock
	GetBlock(blockHash string) (*externalapi.DomainBlock, bool)
	GetTransaction(transactionID string) (*externalapi.DomainTransaction, bool)
	ChainWeight() *big.Int
	UTXOSet() externalapi.ReadOnlyUTXOSet
	MempoolTransactions() []*externalapi.DomainTransaction

	// UTXOSetAndMempool returns the UTXO set together with the mempool
	// contents validated against it.
	UTXOSetAndMempool() (externalapi.ReadOnlyUTXOSet, []*externalapi.DomainTransaction)

	Params() *chainconfig.Params
}

type domain struct {
	lock      sync.RWMutex
	params    *chainconfig.Params
	consensus *consensus.Consensus
	mempool   *mempool.Mempool
	timeNow   func() time.Time
}

// New instantiates a new instance of a Domain object holding only the
// genesis block and an empty mempool
func New(params *chainconfig.Params) Domain {
	consensusInstance := consensus.New(params)
	return &domain{
		params:    params,
		consensus: consensusInstance,
		mempool:   mempool.New(consensusInstance),
		timeNow:   time.Now,
	}
}

func (d *domain) ValidateAndInsertBlock(block *externalapi.DomainBlock) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	err := d.consensus.ValidateAndInsertBlock(block)
	if err != nil {
		return err
	}
	d.reconcileMempool()
	return nil
}

func (d *domain) ReplaceChain(chain []*externalapi.DomainBlock) (bool, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	replaced, err := d.consensus.ReplaceChain(chain)
	if err != nil || !replaced {
		return false, err
	}
	d.reconcileMempool()
	return true, nil
}

// reconcileMempool must be called with the lock held for writes
func (d *domain) reconcileMempool() {
	removed := d.mempool.HandleNewUTXOSet(d.consensus.UTXOSet())
	if len(removed) > 0 {
		log.Debugf("Removed %d transactions from the mempool after the UTXO set changed", len(removed))
	}
}

func (d *domain) ValidateAndInsertTransaction(transaction *externalapi.DomainTransaction) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	return d.mempool.ValidateAndInsertTransaction(transaction, d.consensus.UTXOSet())
}

func (d *domain) BuildBlockTemplate(minerAddress string) *externalapi.DomainBlockTemplate {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return d.consensus.BuildBlockTemplate(minerAddress, d.mempool.Transactions(), d.timeNow().Unix())
}

func (d *domain) TipVersion() uint64 {
	return d.consensus.TipVersion()
}

func (d *domain) Blocks() []*externalapi.DomainBlock {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return d.consensus.Blocks()
}

func (d *domain) LatestBlock() *externalapi.DomainBlock {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return d.consensus.LatestBlock()
}

func (d *domain) GetBlock(blockHash string) (*externalapi.DomainBlock, bool) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return d.consensus.GetBlock(blockHash)
}

func (d *domain) GetTransaction(transactionID string) (*externalapi.DomainTransaction, bool) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return d.consensus.GetTransaction(transactionID)
}

func (d *domain) ChainWeight() *big.Int {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return d.consensus.ChainWeight()
}

func (d *domain) UTXOSet() externalapi.ReadOnlyUTXOSet {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return d.consensus.UTXOSet()
}

func (d *domain) MempoolTransactions() []*externalapi.DomainTransaction {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return d.mempool.Transactions()
}

func (d *domain) UTXOSetAndMempool() (externalapi.ReadOnlyUTXOSet, []*externalapi.DomainTransaction) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return d.consensus.UTXOSet(), d.mempool.Transactions()
}

func (d *domain) Params() *chainconfig.Params {
	return d.params
}
