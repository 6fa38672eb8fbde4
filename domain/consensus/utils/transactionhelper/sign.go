package transactionhelper

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/moecoin/moecoind/domain/consensus/ruleerrors"
	"github.com/moecoin/moecoind/domain/consensus/utils/signing"
	"github.com/pkg/errors"
)

// SignInput returns the signature of tx.ID authorizing the input at
// inputIndex. It fails with ErrMissingTxOut if the referenced output isn't
// in utxoSet, and with ErrWrongOwner if privateKey doesn't own it.
func SignInput(tx *externalapi.DomainTransaction, inputIndex int, privateKey *secp256k1.PrivateKey,
	utxoSet externalapi.ReadOnlyUTXOSet) (string, error) {

	if inputIndex < 0 || inputIndex >= len(tx.Inputs) {
		return "", errors.Errorf("input index %d is out of range for a transaction with %d inputs",
			inputIndex, len(tx.Inputs))
	}
	outpoint := tx.Inputs[inputIndex].Outpoint()
	referenced, ok := utxoSet.Get(outpoint)
	if !ok {
		return "", ruleerrors.NewErrMissingTxOut([]externalapi.DomainOutpoint{outpoint})
	}

	address := signing.Address(privateKey)
	if address != referenced.Address {
		return "", errors.Wrapf(ruleerrors.ErrWrongOwner,
			"output %s is owned by %s, not by the signing key", outpoint, referenced.Address)
	}

	return signing.Sign(privateKey, tx.ID)
}

// SignAllInputs signs every input of tx in place
func SignAllInputs(tx *externalapi.DomainTransaction, privateKey *secp256k1.PrivateKey,
	utxoSet externalapi.ReadOnlyUTXOSet) error {

	for i, input := range tx.Inputs {
		signature, err := SignInput(tx, i, privateKey, utxoSet)
		if err != nil {
			return err
		}
		input.Signature = signature
	}
	return nil
}
