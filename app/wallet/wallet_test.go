package wallet

import (
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/moecoin/moecoind/domain/consensus/processes/transactionvalidator"
	"github.com/moecoin/moecoind/domain/consensus/utils/testutils"
	"github.com/moecoin/moecoind/domain/consensus/utils/transactionhelper"
	"github.com/moecoin/moecoind/domain/consensus/utils/utxo"
	"github.com/moecoin/moecoind/domain/miningmanager/mempool"
	"github.com/moecoin/moecoind/infrastructure/db/database/ldb"
	"github.com/pkg/errors"
)

func fundedUTXOSet(address string, amounts ...uint64) *utxo.Set {
	var funding []*externalapi.DomainTransaction
	for i, amount := range amounts {
		funding = append(funding, transactionhelper.NewRewardTransaction(address, uint64(i), amount, 1000))
	}
	return utxo.NewEmptySet().ApplyTransactions(funding)
}

func TestBuildTransaction(t *testing.T) {
	privateKey, senderAddress := testutils.GenerateKey(t)
	_, recipientAddress := testutils.GenerateKey(t)
	utxoSet := fundedUTXOSet(senderAddress, 50)

	tx, err := BuildTransaction(recipientAddress, 20, privateKey, utxoSet, nil, 2000)
	if err != nil {
		t.Fatalf("BuildTransaction: %+v", err)
	}
	if len(tx.Outputs) != 2 {
		t.Fatalf("BuildTransaction: expected 2 outputs, got %d", len(tx.Outputs))
	}
	if tx.Outputs[0].Address != recipientAddress || tx.Outputs[0].Amount != 20 {
		t.Fatalf("BuildTransaction: unexpected payment output %v", tx.Outputs[0])
	}
	if tx.Outputs[1].Address != senderAddress || tx.Outputs[1].Amount != 30 {
		t.Fatalf("BuildTransaction: unexpected change output %v", tx.Outputs[1])
	}

	err = transactionvalidator.New(50).ValidateTransaction(tx, utxoSet)
	if err != nil {
		t.Fatalf("ValidateTransaction: a freshly built transaction is invalid: %+v", err)
	}

	pool := mempool.New(transactionvalidator.New(50))
	err = pool.ValidateAndInsertTransaction(tx, utxoSet)
	if err != nil {
		t.Fatalf("ValidateAndInsertTransaction: %+v", err)
	}
	err = pool.ValidateAndInsertTransaction(tx.Clone(), utxoSet)
	if !mempool.IsDuplicateInput(err) {
		t.Fatalf("ValidateAndInsertTransaction: expected a duplicate input error, got %+v", err)
	}
}

func TestBuildTransactionWithoutChange(t *testing.T) {
	privateKey, senderAddress := testutils.GenerateKey(t)
	_, recipientAddress := testutils.GenerateKey(t)
	utxoSet := fundedUTXOSet(senderAddress, 30, 20, 40)

	tx, err := BuildTransaction(recipientAddress, 50, privateKey, utxoSet, nil, 2000)
	if err != nil {
		t.Fatalf("BuildTransaction: %+v", err)
	}
	if len(tx.Inputs) != 2 {
		t.Fatalf("BuildTransaction: expected the first 2 outputs to be selected, got %d inputs", len(tx.Inputs))
	}
	if len(tx.Outputs) != 1 || tx.Outputs[0].Amount != 50 {
		t.Fatalf("BuildTransaction: expected a single output of 50, got %v", tx.Outputs)
	}
}

func TestBuildTransactionSkipsPendingOutputs(t *testing.T) {
	privateKey, senderAddress := testutils.GenerateKey(t)
	_, recipientAddress := testutils.GenerateKey(t)
	utxoSet := fundedUTXOSet(senderAddress, 50, 50)

	first, err := BuildTransaction(recipientAddress, 50, privateKey, utxoSet, nil, 2000)
	if err != nil {
		t.Fatalf("BuildTransaction: %+v", err)
	}
	pendingPool := []*externalapi.DomainTransaction{first}

	second, err := BuildTransaction(recipientAddress, 50, privateKey, utxoSet, pendingPool, 2001)
	if err != nil {
		t.Fatalf("BuildTransaction: %+v", err)
	}
	if second.Inputs[0].Outpoint() == first.Inputs[0].Outpoint() {
		t.Fatalf("BuildTransaction: selected an output already spent by a pending transaction")
	}

	pendingPool = append(pendingPool, second)
	_, err = BuildTransaction(recipientAddress, 1, privateKey, utxoSet, pendingPool, 2002)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("BuildTransaction: expected ErrInsufficientFunds, got %+v", err)
	}
}

func TestBuildTransactionErrors(t *testing.T) {
	privateKey, senderAddress := testutils.GenerateKey(t)
	_, recipientAddress := testutils.GenerateKey(t)
	utxoSet := fundedUTXOSet(senderAddress, 50)

	tests := []struct {
		name          string
		toAddress     string
		amount        uint64
		expectedError error
	}{
		{name: "insufficient funds", toAddress: recipientAddress, amount: 51, expectedError: ErrInsufficientFunds},
		{name: "zero amount", toAddress: recipientAddress, amount: 0, expectedError: ErrZeroAmount},
	}
	for _, test := range tests {
		_, err := BuildTransaction(test.toAddress, test.amount, privateKey, utxoSet, nil, 2000)
		if !errors.Is(err, test.expectedError) {
			t.Errorf("BuildTransaction (%s): expected %s, got %+v", test.name, test.expectedError, err)
		}
	}

	_, err := BuildTransaction("04abc", 10, privateKey, utxoSet, nil, 2000)
	if err == nil {
		t.Errorf("BuildTransaction: expected an error for an invalid recipient address")
	}
}

func TestBalance(t *testing.T) {
	_, address := testutils.GenerateKey(t)
	_, otherAddress := testutils.GenerateKey(t)
	utxoSet := fundedUTXOSet(address, 10, 20).ApplyTransactions([]*externalapi.DomainTransaction{
		transactionhelper.NewRewardTransaction(otherAddress, 5, 50, 1000),
	})

	if balance := Balance(address, utxoSet); balance != 30 {
		t.Fatalf("Balance: expected 30, got %d", balance)
	}
	if balance := Balance(otherAddress, utxoSet); balance != 50 {
		t.Fatalf("Balance: expected 50, got %d", balance)
	}
}

func TestOpenReusesStoredKey(t *testing.T) {
	path := t.TempDir()
	db, err := ldb.NewLevelDB(path, 8)
	if err != nil {
		t.Fatalf("NewLevelDB: %+v", err)
	}
	wallet, err := Open(db, "")
	if err != nil {
		t.Fatalf("Open: %+v", err)
	}
	err = db.Close()
	if err != nil {
		t.Fatalf("Close: %+v", err)
	}

	db, err = ldb.NewLevelDB(path, 8)
	if err != nil {
		t.Fatalf("NewLevelDB: %+v", err)
	}
	defer db.Close()

	// A mnemonic is ignored once a key is stored
	otherMnemonic, err := newWallet(mustPrivateKey(t)).Mnemonic()
	if err != nil {
		t.Fatalf("Mnemonic: %+v", err)
	}
	reopened, err := Open(db, otherMnemonic)
	if err != nil {
		t.Fatalf("Open: %+v", err)
	}
	if reopened.Address() != wallet.Address() {
		t.Fatalf("Open: the stored wallet key wasn't reused")
	}
}

func TestMnemonicRestore(t *testing.T) {
	original := newWallet(mustPrivateKey(t))
	mnemonic, err := original.Mnemonic()
	if err != nil {
		t.Fatalf("Mnemonic: %+v", err)
	}

	db, err := ldb.NewLevelDB(t.TempDir(), 8)
	if err != nil {
		t.Fatalf("NewLevelDB: %+v", err)
	}
	defer db.Close()

	restored, err := Open(db, mnemonic)
	if err != nil {
		t.Fatalf("Open: %+v", err)
	}
	if restored.Address() != original.Address() {
		t.Fatalf("Open: restored address %s differs from the original %s", restored.Address(), original.Address())
	}

	_, err = PrivateKeyFromMnemonic("not a mnemonic")
	if err == nil {
		t.Fatalf("PrivateKeyFromMnemonic: expected an error for an invalid mnemonic")
	}
}

func mustPrivateKey(t *testing.T) *secp256k1.PrivateKey {
	privateKey, _ := testutils.GenerateKey(t)
	return privateKey
}
