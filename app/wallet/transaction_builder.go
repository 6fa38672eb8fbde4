package wallet

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/moecoin/moecoind/domain/consensus/ruleerrors"
	"github.com/moecoin/moecoind/domain/consensus/utils/signing"
	"github.com/moecoin/moecoind/domain/consensus/utils/transactionhelper"
	"github.com/moecoin/moecoind/domain/consensus/utils/utxo"
	"github.com/pkg/errors"
)

// Balance returns the sum of the amounts of the outputs in utxoSet owned by address
func Balance(address string, utxoSet externalapi.ReadOnlyUTXOSet) uint64 {
	var balance uint64
	for _, entry := range utxo.FilterByAddress(utxoSet, address) {
		balance += entry.Amount
	}
	return balance
}

// BuildTransaction builds and signs a transaction sending amount to
// toAddress from the outputs owned by privateKey.
//
// Outputs already spent by a transaction in pendingPool are skipped. The
// remaining outputs are selected in their UTXO set order until they cover
// amount. Anything above amount is sent back to the sender in a second
// output, which is omitted when there's no change.
func BuildTransaction(toAddress string, amount uint64, privateKey *secp256k1.PrivateKey,
	utxoSet externalapi.ReadOnlyUTXOSet, pendingPool []*externalapi.DomainTransaction,
	timestamp int64) (*externalapi.DomainTransaction, error) {

	if !signing.IsValidAddress(toAddress) {
		return nil, errors.Wrapf(ruleerrors.ErrBadAddress, "invalid recipient address %s", toAddress)
	}
	if amount == 0 {
		return nil, errors.WithStack(ErrZeroAmount)
	}

	senderAddress := signing.Address(privateKey)
	spendable := spendableUTXOs(senderAddress, utxoSet, pendingPool)
	selected, totalSelected, err := selectUTXOs(spendable, amount)
	if err != nil {
		return nil, err
	}

	inputs := make([]*externalapi.DomainTransactionInput, len(selected))
	for i, entry := range selected {
		inputs[i] = &externalapi.DomainTransactionInput{
			OutputID:    entry.TransactionID,
			OutputIndex: entry.Index,
		}
	}

	outputs := []*externalapi.DomainTransactionOutput{{Address: toAddress, Amount: amount}}
	if change := totalSelected - amount; change > 0 {
		outputs = append(outputs, &externalapi.DomainTransactionOutput{Address: senderAddress, Amount: change})
	}

	transaction := transactionhelper.NewTransaction(inputs, outputs, timestamp)

	// Signing looks up the owner of every input in the full UTXO set
	err = transactionhelper.SignAllInputs(transaction, privateKey, utxoSet)
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// spendableUTXOs returns the outputs owned by address that no transaction in
// pendingPool spends
func spendableUTXOs(address string, utxoSet externalapi.ReadOnlyUTXOSet,
	pendingPool []*externalapi.DomainTransaction) []externalapi.UTXOEntry {

	spentInPool := make(map[externalapi.DomainOutpoint]struct{})
	for _, transaction := range pendingPool {
		for _, input := range transaction.Inputs {
			spentInPool[input.Outpoint()] = struct{}{}
		}
	}

	owned := utxo.FilterByAddress(utxoSet, address)
	spendable := make([]externalapi.UTXOEntry, 0, len(owned))
	for _, entry := range owned {
		if _, ok := spentInPool[entry.DomainOutpoint]; ok {
			continue
		}
		spendable = append(spendable, entry)
	}
	return spendable
}

func selectUTXOs(spendable []externalapi.UTXOEntry, amount uint64) (
	selected []externalapi.UTXOEntry, totalSelected uint64, err error) {

	for _, entry := range spendable {
		selected = append(selected, entry)
		totalSelected += entry.Amount
		if totalSelected >= amount {
			return selected, totalSelected, nil
		}
	}
	return nil, 0, errors.Wrapf(ErrInsufficientFunds,
		"requested %d but only %d is spendable", amount, totalSelected)
}
