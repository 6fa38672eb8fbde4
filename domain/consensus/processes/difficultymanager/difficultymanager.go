package difficultymanager

import (
	"math/big"
	"time"

	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/moecoin/moecoind/domain/consensus/utils/pow"
)

// DifficultyManager provides a method to resolve the
// difficulty value of a block
type DifficultyManager struct {
	adjustmentInterval    uint64
	expectedWindowSeconds int64
}

// New instantiates a new DifficultyManager. Difficulty is adjusted every
// adjustmentInterval blocks towards one block per targetTimePerBlock.
func New(adjustmentInterval uint64, targetTimePerBlock time.Duration) *DifficultyManager {
	return &DifficultyManager{
		adjustmentInterval:    adjustmentInterval,
		expectedWindowSeconds: int64(targetTimePerBlock/time.Second) * int64(adjustmentInterval),
	}
}

// RequiredDifficulty returns the difficulty the block following the given
// chain must declare. Only blocks whose index is a positive multiple of the
// adjustment interval get a new difficulty; every other block inherits its
// predecessor's.
func (dm *DifficultyManager) RequiredDifficulty(chain []*externalapi.DomainBlock) uint32 {
	latest := chain[len(chain)-1]
	nextIndex := latest.Index + 1
	if nextIndex%dm.adjustmentInterval != 0 || uint64(len(chain)) < dm.adjustmentInterval {
		return latest.Difficulty
	}
	return dm.adjustedDifficulty(chain[uint64(len(chain))-dm.adjustmentInterval], latest)
}

func (dm *DifficultyManager) adjustedDifficulty(windowStart, latest *externalapi.DomainBlock) uint32 {
	elapsed := latest.Timestamp - windowStart.Timestamp
	switch {
	case elapsed < dm.expectedWindowSeconds/2:
		return latest.Difficulty + 1
	case elapsed > dm.expectedWindowSeconds*2:
		if latest.Difficulty == 0 {
			return 0
		}
		return latest.Difficulty - 1
	default:
		return latest.Difficulty
	}
}

// ChainWeight returns the cumulative work of the chain: the sum of
// 2^difficulty over all of its blocks
func ChainWeight(chain []*externalapi.DomainBlock) *big.Int {
	weight := new(big.Int)
	for _, block := range chain {
		weight.Add(weight, pow.BlockWork(block.Difficulty))
	}
	return weight
}
