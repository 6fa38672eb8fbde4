package transactionvalidator

import (
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/moecoin/moecoind/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

// ValidateBlockTransactions validates the data of the block at blockIndex
// against the UTXO set preceding the block. The first transaction must be the
// block's reward, no two transactions may spend the same output, and every
// other transaction is validated against the same pre-block snapshot, so a
// transaction can't spend an output created earlier in its own block.
func (v *TransactionValidator) ValidateBlockTransactions(transactions []*externalapi.DomainTransaction,
	utxoSet externalapi.ReadOnlyUTXOSet, blockIndex uint64) error {

	if len(transactions) == 0 {
		return errors.Wrapf(ruleerrors.ErrNoTransactions, "block %d has no transactions", blockIndex)
	}

	err := v.ValidateRewardTransaction(transactions[0], blockIndex)
	if err != nil {
		return errors.Wrapf(ruleerrors.ErrFirstTxNotReward,
			"the first transaction of block %d is not a valid reward transaction: %s", blockIndex, err)
	}

	err = checkDoubleSpendsInBlock(transactions[1:])
	if err != nil {
		return err
	}

	var invalidTransactions []ruleerrors.InvalidTransaction
	for _, tx := range transactions[1:] {
		err := v.ValidateTransaction(tx, utxoSet)
		if err != nil {
			invalidTransactions = append(invalidTransactions, ruleerrors.InvalidTransaction{Transaction: tx, Error: err})
		}
	}
	if len(invalidTransactions) > 0 {
		return ruleerrors.NewErrInvalidTransactionsInNewBlock(invalidTransactions)
	}
	return nil
}

func checkDoubleSpendsInBlock(transactions []*externalapi.DomainTransaction) error {
	usedOutpoints := make(map[externalapi.DomainOutpoint]string)
	for _, tx := range transactions {
		if tx == nil {
			return errors.Wrapf(ruleerrors.ErrMalformedTransaction, "block contains a missing transaction")
		}
		for _, input := range tx.Inputs {
			if input == nil {
				continue
			}
			outpoint := input.Outpoint()
			if spendingTxID, exists := usedOutpoints[outpoint]; exists {
				return errors.Wrapf(ruleerrors.ErrDoubleSpendInSameBlock,
					"transaction %s spends outpoint %s that was already spent by "+
						"transaction %s in this block", tx.ID, outpoint, spendingTxID)
			}
			usedOutpoints[outpoint] = tx.ID
		}
	}
	return nil
}
