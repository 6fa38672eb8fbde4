package blockvalidator

import (
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/moecoin/moecoind/domain/consensus/ruleerrors"
	"github.com/moecoin/moecoind/domain/consensus/utils/consensushashing"
	"github.com/moecoin/moecoind/domain/consensus/utils/pow"
	"github.com/moecoin/moecoind/domain/consensus/utils/signing"
	"github.com/pkg/errors"
)

// ValidateBlockInIsolation validates the parts of a block that don't depend
// on its chain: its shape, its hash and its proof of work
func (v *BlockValidator) ValidateBlockInIsolation(block *externalapi.DomainBlock) error {
	err := CheckBlockStructure(block)
	if err != nil {
		return err
	}

	err = checkBlockHash(block)
	if err != nil {
		return err
	}

	return checkProofOfWork(block)
}

// CheckBlockStructure checks that every field of the block is present and
// well formed
func CheckBlockStructure(block *externalapi.DomainBlock) error {
	if block == nil {
		return errors.Wrapf(ruleerrors.ErrMalformedBlock, "block is missing")
	}
	if !signing.IsValidHash(block.Hash) {
		return errors.Wrapf(ruleerrors.ErrMalformedBlock, "block %d has a malformed hash %q", block.Index, block.Hash)
	}
	if block.IsGenesis() != (block.PreviousHash == nil) {
		return errors.Wrapf(ruleerrors.ErrMalformedBlock,
			"block %s has index %d but previous hash %v", block.Hash, block.Index, block.PreviousHash)
	}
	if block.PreviousHash != nil && !signing.IsValidHash(*block.PreviousHash) {
		return errors.Wrapf(ruleerrors.ErrMalformedBlock,
			"block %s has a malformed previous hash %q", block.Hash, *block.PreviousHash)
	}
	if len(block.Transactions) == 0 {
		return errors.Wrapf(ruleerrors.ErrNoTransactions, "block %s has no transactions", block.Hash)
	}
	for i, tx := range block.Transactions {
		if tx == nil {
			return errors.Wrapf(ruleerrors.ErrMalformedBlock, "transaction %d of block %s is missing", i, block.Hash)
		}
	}
	return nil
}

func checkBlockHash(block *externalapi.DomainBlock) error {
	expectedHash := consensushashing.BlockHash(block)
	if block.Hash != expectedHash {
		return errors.Wrapf(ruleerrors.ErrBlockHashMismatch,
			"block hash %s doesn't match its contents, expected %s", block.Hash, expectedHash)
	}
	return nil
}

func checkProofOfWork(block *externalapi.DomainBlock) error {
	if !pow.CheckProofOfWork(block.Hash, block.Difficulty) {
		return errors.Wrapf(ruleerrors.ErrInvalidPoW,
			"block hash %s has fewer than %d leading zero bits", block.Hash, block.Difficulty)
	}
	return nil
}
