package externalapi

import (
	"fmt"
)

// DomainTransaction represents a moecoin transaction
type DomainTransaction struct {
	ID        string                     `json:"id"`
	Inputs    []*DomainTransactionInput  `json:"inputs"`
	Outputs   []*DomainTransactionOutput `json:"outputs"`
	Timestamp int64                      `json:"timestamp"`
}

// Clone returns a clone of DomainTransaction
func (tx *DomainTransaction) Clone() *DomainTransaction {
	inputsClone := make([]*DomainTransactionInput, len(tx.Inputs))
	for i, input := range tx.Inputs {
		inputClone := *input
		inputsClone[i] = &inputClone
	}

	outputsClone := make([]*DomainTransactionOutput, len(tx.Outputs))
	for i, output := range tx.Outputs {
		outputClone := *output
		outputsClone[i] = &outputClone
	}

	return &DomainTransaction{
		ID:        tx.ID,
		Inputs:    inputsClone,
		Outputs:   outputsClone,
		Timestamp: tx.Timestamp,
	}
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = DomainTransaction{"", []*DomainTransactionInput{}, []*DomainTransactionOutput{}, 0}

// Equal returns whether tx equals to other
func (tx *DomainTransaction) Equal(other *DomainTransaction) bool {
	if tx == nil || other == nil {
		return tx == other
	}

	if tx.ID != other.ID || tx.Timestamp != other.Timestamp {
		return false
	}

	if len(tx.Inputs) != len(other.Inputs) || len(tx.Outputs) != len(other.Outputs) {
		return false
	}
	for i, input := range tx.Inputs {
		if *input != *other.Inputs[i] {
			return false
		}
	}
	for i, output := range tx.Outputs {
		if *output != *other.Outputs[i] {
			return false
		}
	}

	return true
}

// CloneTransactions returns a deep copy of the given transactions
func CloneTransactions(transactions []*DomainTransaction) []*DomainTransaction {
	clone := make([]*DomainTransaction, len(transactions))
	for i, tx := range transactions {
		clone[i] = tx.Clone()
	}
	return clone
}

// DomainTransactionInput represents a moecoin transaction input.
// Reward inputs reference no output; they carry the index of the
// block they mint for in BlockIndex instead.
type DomainTransactionInput struct {
	OutputID    string `json:"outputId"`
	OutputIndex uint32 `json:"outputIndex"`
	BlockIndex  uint64 `json:"blockIndex,omitempty"`
	Signature   string `json:"signature"`
}

// Outpoint returns the outpoint this input spends
func (input *DomainTransactionInput) Outpoint() DomainOutpoint {
	return DomainOutpoint{TransactionID: input.OutputID, Index: input.OutputIndex}
}

// DomainTransactionOutput represents a moecoin transaction output
type DomainTransactionOutput struct {
	Address string `json:"address"`
	Amount  uint64 `json:"amount"`
}

// DomainOutpoint references a transaction output by the id of its
// transaction and its position in that transaction's outputs
type DomainOutpoint struct {
	TransactionID string `json:"outputId"`
	Index         uint32 `json:"outputIndex"`
}

// String stringifies an outpoint.
func (op DomainOutpoint) String() string {
	return fmt.Sprintf("%s:%d", op.TransactionID, op.Index)
}
