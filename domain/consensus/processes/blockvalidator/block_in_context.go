package blockvalidator

import (
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/moecoin/moecoind/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

// ValidateBlockInContext validates a block as the successor of the last block
// of chain: its index, its link to the previous block, its timestamp and its
// difficulty. chain must be non-empty and is not modified.
func (v *BlockValidator) ValidateBlockInContext(block *externalapi.DomainBlock,
	chain []*externalapi.DomainBlock) error {

	previous := chain[len(chain)-1]
	if block.Index != previous.Index+1 {
		return errors.Wrapf(ruleerrors.ErrBadIndex,
			"block %s has index %d but its predecessor has index %d", block.Hash, block.Index, previous.Index)
	}
	if block.PreviousHash == nil || *block.PreviousHash != previous.Hash {
		return errors.Wrapf(ruleerrors.ErrBadPreviousHash,
			"block %s points at %s instead of %s", block.Hash, block.PreviousHashString(), previous.Hash)
	}

	err := v.checkTimestamp(block, previous)
	if err != nil {
		return err
	}

	expectedDifficulty := v.difficultyManager.RequiredDifficulty(chain)
	if block.Difficulty != expectedDifficulty {
		return errors.Wrapf(ruleerrors.ErrUnexpectedDifficulty,
			"block %s declares difficulty %d but %d is required", block.Hash, block.Difficulty, expectedDifficulty)
	}
	return nil
}

// checkTimestamp requires previous.Timestamp - tolerance < block.Timestamp < now + tolerance
func (v *BlockValidator) checkTimestamp(block, previous *externalapi.DomainBlock) error {
	if block.Timestamp <= previous.Timestamp-v.timestampDeviationTolerance {
		return errors.Wrapf(ruleerrors.ErrTimeTooOld,
			"block %s timestamp %d is too far behind its predecessor's %d",
			block.Hash, block.Timestamp, previous.Timestamp)
	}
	now := v.timeNow().Unix()
	if block.Timestamp >= now+v.timestampDeviationTolerance {
		return errors.Wrapf(ruleerrors.ErrTimeTooMuchInTheFuture,
			"block %s timestamp %d is too far ahead of the local clock %d", block.Hash, block.Timestamp, now)
	}
	return nil
}
