package mempool

import (
	"fmt"

	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/moecoin/moecoind/infrastructure/logger"
)

// TransactionValidator validates a transaction against a UTXO set
type TransactionValidator interface {
	ValidateTransaction(transaction *externalapi.DomainTransaction, utxoSet externalapi.ReadOnlyUTXOSet) error
}

// Mempool holds valid transactions that haven't been mined yet, in the order
// they were admitted. No two pooled transactions spend the same outpoint.
//
// Mempool is not safe for concurrent use. The owner must serialize access
// together with the UTXO set it is validated against.
type Mempool struct {
	validator      TransactionValidator
	transactions   []*externalapi.DomainTransaction
	spentOutpoints map[externalapi.DomainOutpoint]string
}

// New returns an empty mempool that admits transactions valid according to validator
func New(validator TransactionValidator) *Mempool {
	return &Mempool{
		validator:      validator,
		spentOutpoints: make(map[externalapi.DomainOutpoint]string),
	}
}

// ValidateAndInsertTransaction validates the given transaction against
// utxoSet and appends it to the pool. It fails with an invalid transaction
// RuleError if the transaction isn't valid, and with a RejectDuplicate
// RuleError if it spends an outpoint already spent by a pooled transaction.
func (mp *Mempool) ValidateAndInsertTransaction(transaction *externalapi.DomainTransaction,
	utxoSet externalapi.ReadOnlyUTXOSet) error {

	onEnd := logger.LogAndMeasureExecutionTime(log,
		fmt.Sprintf("ValidateAndInsertTransaction %s", transaction.ID))
	defer onEnd()

	err := mp.validator.ValidateTransaction(transaction, utxoSet)
	if err != nil {
		return invalidTransactionError(err)
	}

	for _, input := range transaction.Inputs {
		if spendingTransactionID, ok := mp.spentOutpoints[input.Outpoint()]; ok {
			str := fmt.Sprintf("output %s is already spent by transaction %s in the mempool",
				input.Outpoint(), spendingTransactionID)
			return txRuleError(RejectDuplicate, str)
		}
	}

	mp.addTransaction(transaction.Clone())
	log.Debugf("Accepted transaction %s (pool size: %d)", transaction.ID, len(mp.transactions))
	return nil
}

func (mp *Mempool) addTransaction(transaction *externalapi.DomainTransaction) {
	mp.transactions = append(mp.transactions, transaction)
	for _, input := range transaction.Inputs {
		mp.spentOutpoints[input.Outpoint()] = transaction.ID
	}
}

// HandleNewUTXOSet drops every pooled transaction that spends an output
// missing from utxoSet, and returns the dropped transactions. This is the
// only way transactions leave the pool: a transaction that got mined spends
// outputs that are no longer unspent.
func (mp *Mempool) HandleNewUTXOSet(utxoSet externalapi.ReadOnlyUTXOSet) []*externalapi.DomainTransaction {
	kept := make([]*externalapi.DomainTransaction, 0, len(mp.transactions))
	var removed []*externalapi.DomainTransaction
	for _, transaction := range mp.transactions {
		if spendsOnlyUnspentOutputs(transaction, utxoSet) {
			kept = append(kept, transaction)
			continue
		}
		removed = append(removed, transaction)
	}
	if len(removed) == 0 {
		return nil
	}

	mp.transactions = nil
	mp.spentOutpoints = make(map[externalapi.DomainOutpoint]string, len(mp.spentOutpoints))
	for _, transaction := range kept {
		mp.addTransaction(transaction)
	}

	log.Debugf("Removed %d transactions from the mempool (pool size: %d)", len(removed), len(mp.transactions))
	return externalapi.CloneTransactions(removed)
}

func spendsOnlyUnspentOutputs(transaction *externalapi.DomainTransaction,
	utxoSet externalapi.ReadOnlyUTXOSet) bool {

	for _, input := range transaction.Inputs {
		if !utxoSet.Contains(input.Outpoint()) {
			return false
		}
	}
	return true
}

// Transactions returns a copy of the pooled transactions in admission order
func (mp *Mempool) Transactions() []*externalapi.DomainTransaction {
	return externalapi.CloneTransactions(mp.transactions)
}

// Count returns the number of pooled transactions
func (mp *Mempool) Count() int {
	return len(mp.transactions)
}

// IsOutpointSpent returns whether a pooled transaction spends outpoint
func (mp *Mempool) IsOutpointSpent(outpoint externalapi.DomainOutpoint) bool {
	_, ok := mp.spentOutpoints[outpoint]
	return ok
}
