package consensus

import (
	"github.com/moecoin/moecoind/domain/chainconfig"
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/moecoin/moecoind/domain/consensus/processes/blockvalidator"
	"github.com/moecoin/moecoind/domain/consensus/processes/difficultymanager"
	"github.com/moecoin/moecoind/domain/consensus/processes/transactionvalidator"
	"github.com/moecoin/moecoind/domain/consensus/utils/utxo"
)

// New instantiates a new Consensus holding only the genesis block of the
// given network
func New(params *chainconfig.Params) *Consensus {
	// Processes
	difficultyManager := difficultymanager.New(
		params.DifficultyAdjustmentInterval,
		params.TargetTimePerBlock)
	transactionValidator := transactionvalidator.New(
		params.BlockReward)
	blockValidator := blockvalidator.New(
		params.TimestampDeviationTolerance,
		difficultyManager)

	genesis := params.GenesisBlock()
	c := &Consensus{
		params:  params,
		genesis: genesis,

		blockValidator:       blockValidator,
		transactionValidator: transactionValidator,
		difficultyManager:    difficultyManager,
	}
	c.chain = []*externalapi.DomainBlock{genesis.Clone()}
	c.utxoSet = genesisUTXOSet(genesis)
	return c
}

func genesisUTXOSet(genesis *externalapi.DomainBlock) *utxo.Set {
	return utxo.NewEmptySet().ApplyTransactions(genesis.Transactions)
}
