package chainconfig

import (
	"time"

	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
)

// Params defines the consensus rules of a moecoin network
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// DefaultPort defines the default peer-to-peer port for the network.
	DefaultPort string

	// RPCPort defines the default HTTP API port
	RPCPort string

	// GenesisBlock returns a copy of the first block of every valid chain.
	GenesisBlock func() *externalapi.DomainBlock

	// BlockReward is the amount minted by the reward transaction of every
	// block.
	BlockReward uint64

	// TargetTimePerBlock is the desired amount of time to generate each
	// block.
	TargetTimePerBlock time.Duration

	// DifficultyAdjustmentInterval is the number of blocks between
	// difficulty adjustments.
	DifficultyAdjustmentInterval uint64

	// TimestampDeviationTolerance is how far a block timestamp may lag its
	// predecessor's, or lead the local clock.
	TimestampDeviationTolerance time.Duration
}

// MainnetParams defines the network parameters for the main moecoin network.
var MainnetParams = Params{
	Name:                         "moecoin-mainnet",
	DefaultPort:                  "16111",
	RPCPort:                      "3001",
	GenesisBlock:                 genesisBlock,
	BlockReward:                  50,
	TargetTimePerBlock:           10 * time.Second,
	DifficultyAdjustmentInterval: 10,
	TimestampDeviationTolerance:  60 * time.Second,
}

// ExpectedAdjustmentWindowDuration is the time DifficultyAdjustmentInterval
// blocks should take to mine
func (p *Params) ExpectedAdjustmentWindowDuration() time.Duration {
	return p.TargetTimePerBlock * time.Duration(p.DifficultyAdjustmentInterval)
}
