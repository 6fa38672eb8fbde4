package transactionvalidator

import (
	"math"

	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/moecoin/moecoind/domain/consensus/ruleerrors"
	"github.com/moecoin/moecoind/domain/consensus/utils/signing"
	"github.com/pkg/errors"
)

// ValidateTransaction validates a regular transaction against the given UTXO
// set. Every input must reference an unspent output, every signature must
// verify against the address owning its output, and the inputs must add up to
// exactly the outputs. A nil error means the transaction is valid.
func (v *TransactionValidator) ValidateTransaction(tx *externalapi.DomainTransaction,
	utxoSet externalapi.ReadOnlyUTXOSet) error {

	err := v.ValidateTransactionInIsolation(tx)
	if err != nil {
		return err
	}

	referencedEntries, err := referencedUTXOEntries(tx, utxoSet)
	if err != nil {
		return err
	}

	err = checkSignatures(tx, referencedEntries)
	if err != nil {
		return err
	}

	return checkAmounts(tx, referencedEntries)
}

func referencedUTXOEntries(tx *externalapi.DomainTransaction,
	utxoSet externalapi.ReadOnlyUTXOSet) ([]externalapi.UTXOEntry, error) {

	entries := make([]externalapi.UTXOEntry, len(tx.Inputs))
	var missingOutpoints []externalapi.DomainOutpoint
	for i, input := range tx.Inputs {
		entry, ok := utxoSet.Get(input.Outpoint())
		if !ok {
			missingOutpoints = append(missingOutpoints, input.Outpoint())
			continue
		}
		entries[i] = entry
	}
	if len(missingOutpoints) > 0 {
		return nil, ruleerrors.NewErrMissingTxOut(missingOutpoints)
	}
	return entries, nil
}

// checkSignatures requires every single input to verify. One bad signature
// invalidates the whole transaction regardless of the others.
func checkSignatures(tx *externalapi.DomainTransaction, referencedEntries []externalapi.UTXOEntry) error {
	for i, input := range tx.Inputs {
		if !signing.Verify(referencedEntries[i].Address, tx.ID, input.Signature) {
			return errors.Wrapf(ruleerrors.ErrInvalidSignature,
				"signature of input %d of transaction %s doesn't verify against address %s",
				i, tx.ID, referencedEntries[i].Address)
		}
	}
	return nil
}

func checkAmounts(tx *externalapi.DomainTransaction, referencedEntries []externalapi.UTXOEntry) error {
	var totalIn uint64
	for _, entry := range referencedEntries {
		if totalIn > math.MaxUint64-entry.Amount {
			return errors.Wrapf(ruleerrors.ErrBadTxOutValue, "total input amount of transaction %s overflows", tx.ID)
		}
		totalIn += entry.Amount
	}

	var totalOut uint64
	for _, output := range tx.Outputs {
		if totalOut > math.MaxUint64-output.Amount {
			return errors.Wrapf(ruleerrors.ErrBadTxOutValue, "total output amount of transaction %s overflows", tx.ID)
		}
		totalOut += output.Amount
	}

	if totalIn != totalOut {
		return errors.Wrapf(ruleerrors.ErrAmountMismatch,
			"transaction %s spends %d but its inputs add up to %d", tx.ID, totalOut, totalIn)
	}
	return nil
}
