package transactionvalidator

import (
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/moecoin/moecoind/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

// ValidateRewardTransaction validates tx as the reward transaction of the
// block at blockIndex: a single input referencing nothing and tagged with
// blockIndex, and a single output of exactly the block reward
func (v *TransactionValidator) ValidateRewardTransaction(tx *externalapi.DomainTransaction, blockIndex uint64) error {
	err := checkTransactionShape(tx)
	if err != nil {
		return err
	}

	if len(tx.Inputs) != 1 {
		return errors.Wrapf(ruleerrors.ErrBadRewardTransaction,
			"reward transaction %s has %d inputs instead of 1", tx.ID, len(tx.Inputs))
	}
	if len(tx.Outputs) != 1 {
		return errors.Wrapf(ruleerrors.ErrBadRewardTransaction,
			"reward transaction %s has %d outputs instead of 1", tx.ID, len(tx.Outputs))
	}

	input := tx.Inputs[0]
	if input.OutputID != "" || input.OutputIndex != 0 || input.Signature != "" {
		return errors.Wrapf(ruleerrors.ErrBadRewardTransaction,
			"the input of reward transaction %s references an output or carries a signature", tx.ID)
	}
	if input.BlockIndex != blockIndex {
		return errors.Wrapf(ruleerrors.ErrBadRewardTransaction,
			"reward transaction %s is tagged with block index %d instead of %d", tx.ID, input.BlockIndex, blockIndex)
	}

	if tx.Outputs[0].Amount != v.blockReward {
		return errors.Wrapf(ruleerrors.ErrBadRewardTransaction,
			"reward transaction %s pays %d instead of %d", tx.ID, tx.Outputs[0].Amount, v.blockReward)
	}

	return checkTransactionID(tx)
}
