package transactionvalidator

import (
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/moecoin/moecoind/domain/consensus/ruleerrors"
	"github.com/moecoin/moecoind/domain/consensus/utils/consensushashing"
	"github.com/moecoin/moecoind/domain/consensus/utils/signing"
	"github.com/pkg/errors"
)

// ValidateTransactionInIsolation validates the parts of a regular transaction
// that don't depend on any UTXO set: its shape and its id
func (v *TransactionValidator) ValidateTransactionInIsolation(tx *externalapi.DomainTransaction) error {
	err := checkTransactionShape(tx)
	if err != nil {
		return err
	}

	for i, input := range tx.Inputs {
		if !signing.IsValidHash(input.OutputID) {
			return errors.Wrapf(ruleerrors.ErrMalformedTransaction,
				"input %d of transaction %s references malformed output id %q", i, tx.ID, input.OutputID)
		}
		if input.BlockIndex != 0 {
			return errors.Wrapf(ruleerrors.ErrMalformedTransaction,
				"input %d of transaction %s carries a block index but doesn't belong to a reward transaction", i, tx.ID)
		}
	}

	err = checkDuplicateTransactionInputs(tx)
	if err != nil {
		return err
	}

	return checkTransactionID(tx)
}

func checkTransactionShape(tx *externalapi.DomainTransaction) error {
	if tx == nil {
		return errors.Wrapf(ruleerrors.ErrMalformedTransaction, "transaction is missing")
	}
	if !signing.IsValidHash(tx.ID) {
		return errors.Wrapf(ruleerrors.ErrMalformedTransaction, "transaction id %q is malformed", tx.ID)
	}
	if len(tx.Inputs) == 0 {
		return errors.Wrapf(ruleerrors.ErrNoTxInputs, "transaction %s has no inputs", tx.ID)
	}
	if len(tx.Outputs) == 0 {
		return errors.Wrapf(ruleerrors.ErrNoTxOutputs, "transaction %s has no outputs", tx.ID)
	}
	for i, input := range tx.Inputs {
		if input == nil {
			return errors.Wrapf(ruleerrors.ErrMalformedTransaction, "input %d of transaction %s is missing", i, tx.ID)
		}
	}
	for i, output := range tx.Outputs {
		if output == nil {
			return errors.Wrapf(ruleerrors.ErrMalformedTransaction, "output %d of transaction %s is missing", i, tx.ID)
		}
		if !signing.IsValidAddress(output.Address) {
			return errors.Wrapf(ruleerrors.ErrBadAddress,
				"output %d of transaction %s pays to malformed address %q", i, tx.ID, output.Address)
		}
	}
	return nil
}

func checkTransactionID(tx *externalapi.DomainTransaction) error {
	expectedID := consensushashing.TransactionID(tx)
	if tx.ID != expectedID {
		return errors.Wrapf(ruleerrors.ErrTransactionIDMismatch,
			"transaction id %s doesn't match its contents, expected %s", tx.ID, expectedID)
	}
	return nil
}

func checkDuplicateTransactionInputs(tx *externalapi.DomainTransaction) error {
	existingOutpoints := make(map[externalapi.DomainOutpoint]struct{}, len(tx.Inputs))
	for _, input := range tx.Inputs {
		outpoint := input.Outpoint()
		if _, exists := existingOutpoints[outpoint]; exists {
			return errors.Wrapf(ruleerrors.ErrDuplicateTxInputs,
				"transaction %s contains duplicate inputs for %s", tx.ID, outpoint)
		}
		existingOutpoints[outpoint] = struct{}{}
	}
	return nil
}
