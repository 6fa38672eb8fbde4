package transactionhelper

import (
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/moecoin/moecoind/domain/consensus/utils/consensushashing"
)

// NewTransaction returns a transaction over the given inputs and outputs
// with its id assigned. Inputs are left unsigned.
func NewTransaction(inputs []*externalapi.DomainTransactionInput,
	outputs []*externalapi.DomainTransactionOutput, timestamp int64) *externalapi.DomainTransaction {

	tx := &externalapi.DomainTransaction{
		Inputs:    inputs,
		Outputs:   outputs,
		Timestamp: timestamp,
	}
	tx.ID = consensushashing.TransactionID(tx)
	return tx
}

// NewRewardTransaction returns the reward transaction minting rewardAmount
// to minerAddress in the block at blockIndex
func NewRewardTransaction(minerAddress string, blockIndex uint64, rewardAmount uint64,
	timestamp int64) *externalapi.DomainTransaction {

	inputs := []*externalapi.DomainTransactionInput{{
		OutputID:    "",
		OutputIndex: 0,
		BlockIndex:  blockIndex,
		Signature:   "",
	}}
	outputs := []*externalapi.DomainTransactionOutput{{
		Address: minerAddress,
		Amount:  rewardAmount,
	}}
	return NewTransaction(inputs, outputs, timestamp)
}
