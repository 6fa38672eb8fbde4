package blockvalidator

import (
	"time"

	"github.com/moecoin/moecoind/domain/consensus/processes/difficultymanager"
)

// BlockValidator exposes a set of validation classes, after which
// it's possible to determine whether either a block is valid
type BlockValidator struct {
	timestampDeviationTolerance int64
	difficultyManager           *difficultymanager.DifficultyManager
	timeNow                     func() time.Time
}

// New instantiates a new BlockValidator
func New(timestampDeviationTolerance time.Duration,
	difficultyManager *difficultymanager.DifficultyManager) *BlockValidator {

	return &BlockValidator{
		timestampDeviationTolerance: int64(timestampDeviationTolerance / time.Second),
		difficultyManager:           difficultyManager,
		timeNow:                     time.Now,
	}
}
