package testutils

import (
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/moecoin/moecoind/domain/consensus/utils/mining"
	"github.com/moecoin/moecoind/domain/consensus/utils/signing"
	"github.com/moecoin/moecoind/domain/consensus/utils/transactionhelper"
)

// GenerateKey returns a fresh private key and the address it owns
func GenerateKey(t testing.TB) (*secp256k1.PrivateKey, string) {
	privateKey, err := signing.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %+v", err)
	}
	return privateKey, signing.Address(privateKey)
}

// NewSignedTransaction returns a transaction spending the given outpoints to
// the given outputs, with every input signed by privateKey
func NewSignedTransaction(t testing.TB, privateKey *secp256k1.PrivateKey, utxoSet externalapi.ReadOnlyUTXOSet,
	spent []externalapi.DomainOutpoint, outputs []*externalapi.DomainTransactionOutput,
	timestamp int64) *externalapi.DomainTransaction {

	inputs := make([]*externalapi.DomainTransactionInput, len(spent))
	for i, outpoint := range spent {
		inputs[i] = &externalapi.DomainTransactionInput{OutputID: outpoint.TransactionID, OutputIndex: outpoint.Index}
	}
	tx := transactionhelper.NewTransaction(inputs, outputs, timestamp)
	err := transactionhelper.SignAllInputs(tx, privateKey, utxoSet)
	if err != nil {
		t.Fatalf("SignAllInputs: %+v", err)
	}
	return tx
}

// NewBlock returns a solved block on top of previous holding a reward to
// minerAddress followed by the given transactions
func NewBlock(previous *externalapi.DomainBlock, minerAddress string, blockReward uint64,
	transactions []*externalapi.DomainTransaction, timestamp int64, difficulty uint32) *externalapi.DomainBlock {

	index := previous.Index + 1
	reward := transactionhelper.NewRewardTransaction(minerAddress, index, blockReward, timestamp)
	previousHash := previous.Hash
	block := &externalapi.DomainBlock{
		Index:        index,
		PreviousHash: &previousHash,
		Timestamp:    timestamp,
		Transactions: append([]*externalapi.DomainTransaction{reward}, transactions...),
		Difficulty:   difficulty,
	}
	mining.SolveBlock(block, 0, nil)
	return block
}
